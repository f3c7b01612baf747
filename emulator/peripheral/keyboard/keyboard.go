/*
Copyright (c) 2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package keyboard

import (
	"errors"
	"log"

	"github.com/andreas-jonsson/virtualchip/emulator/processor"
	"github.com/andreas-jonsson/virtualchip/platform"
	"github.com/andreas-jonsson/virtualchip/platform/dialog"
)

const MaxEvents = 64

var ErrQueueFull = errors.New("event queue is full")

// Keymap lays the hex keypad over the left hand side of a QWERTY keyboard.
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  ->  Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
var Keymap = map[platform.Scancode]int{
	platform.Scan1: 0x1, platform.Scan2: 0x2, platform.Scan3: 0x3, platform.Scan4: 0xC,
	platform.ScanQ: 0x4, platform.ScanW: 0x5, platform.ScanE: 0x6, platform.ScanR: 0xD,
	platform.ScanA: 0x7, platform.ScanS: 0x8, platform.ScanD: 0x9, platform.ScanF: 0xE,
	platform.ScanZ: 0xA, platform.ScanX: 0x0, platform.ScanC: 0xB, platform.ScanV: 0xF,
}

type Device struct {
	// Platform defaults to platform.Instance.
	Platform platform.Platform

	events chan platform.Scancode
	keypad processor.Keypad
}

func (m *Device) Install(p processor.Processor) error {
	m.keypad = p
	m.events = make(chan platform.Scancode, MaxEvents)

	if m.Platform == nil {
		m.Platform = platform.Instance
	}
	if m.Platform != nil {
		m.Platform.SetKeyboardHandler(m.handleScancode)
	}
	return nil
}

func (m *Device) Name() string {
	return "Hex Keypad"
}

func (m *Device) Reset() {
	for {
		select {
		case <-m.events:
		default:
			return
		}
	}
}

func (m *Device) handleScancode(scan platform.Scancode) {
	switch scan {
	case platform.ScanEscape:
		dialog.Quit()
		return
	case platform.ScanBackspace:
		dialog.RequestRestart()
		return
	}

	if _, ok := Keymap[scan.Key()]; !ok {
		return
	}
	if err := m.pushEvent(scan); err != nil {
		log.Print(err)
	}
}

func (m *Device) pushEvent(ev platform.Scancode) error {
	select {
	case m.events <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

func (m *Device) Step(int) error {
	for {
		select {
		case ev := <-m.events:
			key, ok := Keymap[ev.Key()]
			if !ok {
				continue
			}
			if ev.IsRelease() {
				m.keypad.SetReleased(key)
			} else {
				m.keypad.SetPressed(key)
			}
		default:
			return nil
		}
	}
}
