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

package joystick

import (
	"flag"
	"sync"

	"github.com/andreas-jonsson/virtualchip/emulator/processor"
)

const DefaultDeadzone = 8000

var Enabled bool

func init() {
	flag.BoolVar(&Enabled, "joystick", Enabled, "Map the first joystick to the keypad")
}

// State is a snapshot of the first joystick.
type State struct {
	X, Y    int16
	Buttons byte
}

// Mapping from stick directions and the two first buttons to keypad keys.
type Mapping struct {
	Up, Down, Left, Right int
	Buttons               [2]int
}

var DefaultMapping = Mapping{
	Up:      0x2,
	Down:    0x8,
	Left:    0x4,
	Right:   0x6,
	Buttons: [2]int{0x5, 0x0},
}

type Device struct {
	Enabled  bool
	Deadzone int16
	Mapping  *Mapping

	lock  sync.Mutex
	state State

	held     [16]bool
	keypad   processor.Keypad
	quitChan chan struct{}
}

func (m *Device) Install(p processor.Processor) error {
	m.keypad = p
	if m.Deadzone <= 0 {
		m.Deadzone = DefaultDeadzone
	}
	if m.Mapping == nil {
		m.Mapping = &DefaultMapping
	}
	if !m.Enabled {
		return nil
	}
	return m.startPolling()
}

func (m *Device) Name() string {
	return "Joystick"
}

func (m *Device) Reset() {
	m.held = [16]bool{}
}

func (m *Device) setState(s State) {
	m.lock.Lock()
	m.state = s
	m.lock.Unlock()
}

func (m *Device) keys(s State) (keys [16]bool) {
	mp := m.Mapping
	switch {
	case s.X < -m.Deadzone:
		keys[mp.Left] = true
	case s.X > m.Deadzone:
		keys[mp.Right] = true
	}
	switch {
	case s.Y < -m.Deadzone:
		keys[mp.Up] = true
	case s.Y > m.Deadzone:
		keys[mp.Down] = true
	}
	for i, k := range mp.Buttons {
		if s.Buttons&(1<<i) != 0 {
			keys[k] = true
		}
	}
	return
}

func (m *Device) Step(int) error {
	m.lock.Lock()
	s := m.state
	m.lock.Unlock()

	keys := m.keys(s)
	for k, down := range keys {
		if down == m.held[k] {
			continue
		}
		if m.held[k] = down; down {
			m.keypad.SetPressed(k)
		} else {
			m.keypad.SetReleased(k)
		}
	}
	return nil
}

func (m *Device) Close() error {
	if m.quitChan != nil {
		m.quitChan <- struct{}{}
		<-m.quitChan
		m.quitChan = nil
	}
	return nil
}
