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

package platform

import (
	"github.com/spf13/afero"
)

type internalPlatform interface{}

type Config func(internalPlatform) error

type AudioSpec struct {
	Freq,
	Channels,
	Samples int
}

type Platform interface {
	// FileSystem is where programs are loaded from.
	FileSystem() afero.Fs

	HasAudio() bool
	RenderGraphics(backBuffer []byte, width, height int)
	SetTitle(title string)
	QueueAudio(soundBuffer []byte)
	AudioSpec() AudioSpec
	EnableAudio(b bool)
	SetKeyboardHandler(h func(Scancode))
}

var Instance Platform

type Scancode byte

const KeyUpMask Scancode = 0x80

const (
	ScanInvalid Scancode = iota
	ScanEscape
	ScanBackspace
	ScanEnter
	ScanSpace
	Scan0
	Scan1
	Scan2
	Scan3
	Scan4
	Scan5
	Scan6
	Scan7
	Scan8
	Scan9
	ScanA
	ScanB
	ScanC
	ScanD
	ScanE
	ScanF
	ScanG
	ScanH
	ScanI
	ScanJ
	ScanK
	ScanL
	ScanM
	ScanN
	ScanO
	ScanP
	ScanQ
	ScanR
	ScanS
	ScanT
	ScanU
	ScanV
	ScanW
	ScanX
	ScanY
	ScanZ
	ScanUp
	ScanDown
	ScanLeft
	ScanRight
)

// RuneToScancode maps printable characters to scancodes, ignoring case.
func RuneToScancode(r rune) Scancode {
	switch {
	case r >= '0' && r <= '9':
		return Scan0 + Scancode(r-'0')
	case r >= 'a' && r <= 'z':
		return ScanA + Scancode(r-'a')
	case r >= 'A' && r <= 'Z':
		return ScanA + Scancode(r-'A')
	case r == ' ':
		return ScanSpace
	}
	return ScanInvalid
}

func (s Scancode) IsRelease() bool {
	return s&KeyUpMask != 0
}

func (s Scancode) Key() Scancode {
	return s &^ KeyUpMask
}
