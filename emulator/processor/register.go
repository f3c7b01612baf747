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
	"fmt"
	"strings"
)

const (
	NumRegisters = 16
	StackDepth   = 16
	FlagRegister = 0xF
)

type WaitState byte

const (
	Running WaitState = iota
	WaitingForKeyPress
	WaitingForKeyRelease
)

func (s WaitState) String() string {
	switch s {
	case Running:
		return "running"
	case WaitingForKeyPress:
		return "waiting for key press"
	case WaitingForKeyRelease:
		return "waiting for key release"
	}
	return fmt.Sprintf("WaitState(%d)", byte(s))
}

type Registers struct {
	V      [NumRegisters]byte
	I, PC  uint16
	SP     int
	DT, ST byte

	Wait    WaitState
	WaitReg byte
}

func (r *Registers) Flag() byte {
	return r.V[FlagRegister]
}

func (r *Registers) SetFlag(b bool) {
	if b {
		r.V[FlagRegister] = 1
		return
	}
	r.V[FlagRegister] = 0
}

func (r Registers) String() string {
	var sb strings.Builder
	for i, v := range r.V {
		fmt.Fprintf(&sb, "V%X=%02X ", i, v)
	}
	fmt.Fprintf(&sb, "I=%03X PC=%03X SP=%d DT=%d ST=%d", r.I, r.PC, r.SP, r.DT, r.ST)
	if r.Wait != Running {
		fmt.Fprintf(&sb, " (%v, V%X)", r.Wait, r.WaitReg)
	}
	return sb.String()
}
