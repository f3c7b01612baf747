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

package processor

import (
	"errors"
)

type Stats struct {
	NumInstructions uint64
	NumDraws        uint64
	NumStalls       uint64
	NumUnknown      uint64
}

var (
	ErrStackOverflow  = errors.New("call stack overflow")
	ErrStackUnderflow = errors.New("call stack underflow")
	ErrUnknownOpcode  = errors.New("unknown opcode")
	ErrAddressFault   = errors.New("address fault")
)

type Debug interface {
	GetStats() Stats
	GetRegisters() Registers
	LastInstruction() (pc, opcode uint16)
}

// FrameBuffer is what a renderer needs from the machine.
type FrameBuffer interface {
	ScreenWidth() int
	ScreenHeight() int
	ScreenValue(x, y int) byte
	HasDrawn() bool
}

type Keypad interface {
	SetPressed(key int)
	SetReleased(key int)
}

type Beeper interface {
	IsBeeping() bool
}

type Processor interface {
	Debug
	FrameBuffer
	Keypad
	Beeper

	IsFinished() bool
}
