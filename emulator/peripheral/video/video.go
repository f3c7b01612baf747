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

package video

import (
	"errors"
	"fmt"
	"time"

	"github.com/andreas-jonsson/virtualchip/emulator/processor"
	"github.com/andreas-jonsson/virtualchip/platform"
)

const (
	DefaultForeground = 0x33FF66
	DefaultBackground = 0x001A08
)

var ErrNoPlatform = errors.New("no platform to render to")

// Device copies the frame buffer to the platform whenever the machine has drawn.
type Device struct {
	// Colors are 0xRRGGBB.
	Foreground, Background uint32

	// Platform defaults to platform.Instance.
	Platform platform.Platform

	backBuffer []byte
	dirty      bool

	titleTicker *time.Ticker
	cycles      int

	fb processor.FrameBuffer
}

func (m *Device) Install(p processor.Processor) error {
	if m.Platform == nil {
		if m.Platform = platform.Instance; m.Platform == nil {
			return ErrNoPlatform
		}
	}
	if m.Foreground == 0 && m.Background == 0 {
		m.Foreground, m.Background = DefaultForeground, DefaultBackground
	}

	m.fb = p
	m.backBuffer = make([]byte, p.ScreenWidth()*p.ScreenHeight()*4)
	m.titleTicker = time.NewTicker(time.Second)
	m.dirty = true
	return nil
}

func (m *Device) Name() string {
	return "Video Output"
}

func (m *Device) Reset() {
	m.dirty = true
	m.cycles = 0
}

func (m *Device) Step(cycles int) error {
	m.cycles += cycles

	select {
	case <-m.titleTicker.C:
		m.Platform.SetTitle(fmt.Sprintf("VirtualChip - %d IPS", m.cycles))
		m.cycles = 0
	default:
	}

	if m.dirty || m.fb.HasDrawn() {
		m.dirty = false
		m.render()
	}
	return nil
}

func (m *Device) Close() error {
	if m.titleTicker != nil {
		m.titleTicker.Stop()
	}
	return nil
}

func blit32(pixels []byte, offset int, color uint32) {
	pixels[offset] = byte((color & 0xFF0000) >> 16)
	pixels[offset+1] = byte((color & 0x00FF00) >> 8)
	pixels[offset+2] = byte(color & 0x0000FF)
	pixels[offset+3] = 0xFF
}

func (m *Device) render() {
	w, h := m.fb.ScreenWidth(), m.fb.ScreenHeight()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			color := m.Background
			if m.fb.ScreenValue(x, y) != 0 {
				color = m.Foreground
			}
			blit32(m.backBuffer, (y*w+x)*4, color)
		}
	}
	m.Platform.RenderGraphics(m.backBuffer, w, h)
}
