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

package speaker

import (
	"time"

	"github.com/andreas-jonsson/virtualchip/emulator/processor"
	"github.com/andreas-jonsson/virtualchip/platform"
)

const (
	DefaultTone = 440
	toneVolume  = 32
)

// Device plays a square wave while the sound timer is running.
type Device struct {
	// Tone in Hz, defaults to DefaultTone.
	Tone int

	// Platform defaults to platform.Instance.
	Platform platform.Platform

	beeper processor.Beeper
	spec   platform.AudioSpec
	ticker *time.Ticker

	soundBuffer []byte
	sampleIndex uint64
	enabled     bool
}

func (m *Device) Install(p processor.Processor) error {
	if m.Platform == nil {
		m.Platform = platform.Instance
	}
	if m.Tone <= 0 {
		m.Tone = DefaultTone
	}
	m.beeper = p

	if m.Platform == nil || !m.Platform.HasAudio() {
		return nil
	}

	m.spec = m.Platform.AudioSpec()
	if m.spec.Samples <= 0 || m.spec.Freq <= 0 || m.spec.Channels <= 0 {
		m.spec = platform.AudioSpec{}
		return nil
	}

	period := time.Second * time.Duration(m.spec.Samples) / time.Duration(m.spec.Freq)
	m.ticker = time.NewTicker(period)
	m.soundBuffer = make([]byte, m.spec.Samples*m.spec.Channels)
	return nil
}

func (m *Device) Name() string {
	return "Speaker"
}

func (m *Device) hasAudio() bool {
	return m.ticker != nil
}

func (m *Device) Reset() {
	m.sampleIndex = 0
	if m.enabled && m.hasAudio() {
		m.Platform.EnableAudio(false)
	}
	m.enabled = false
}

func (m *Device) Step(int) error {
	if !m.hasAudio() {
		return nil
	}

	if b := m.beeper.IsBeeping(); b != m.enabled {
		m.enabled = b
		m.sampleIndex = 0
		m.Platform.EnableAudio(b)
	}

	if !m.enabled {
		return nil
	}

	if m.sampleIndex > 0 {
		select {
		case <-m.ticker.C:
		default:
			return nil
		}
	}

	m.fillBuffer()
	m.Platform.QueueAudio(m.soundBuffer)
	return nil
}

func (m *Device) fillBuffer() {
	halfPeriod := uint64(m.spec.Freq / m.Tone / 2)
	if halfPeriod == 0 {
		halfPeriod = 1
	}

	var ptr int
	for i := 0; i < m.spec.Samples; i++ {
		sampleValue := byte(0x80 - toneVolume)
		if (m.sampleIndex/halfPeriod)%2 != 0 {
			sampleValue = 0x80 + toneVolume
		}
		m.sampleIndex++

		for j := 0; j < m.spec.Channels; j++ {
			m.soundBuffer[ptr] = sampleValue
			ptr++
		}
	}
}

func (m *Device) Close() error {
	if m.hasAudio() {
		m.ticker.Stop()
	}
	return nil
}
