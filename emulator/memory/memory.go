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

package memory

import (
	"errors"
	"fmt"
)

const (
	Size         = 0x1000
	ProgramStart = 0x200
	FontStart    = 0x0
	GlyphSize    = 5
)

var ErrProgramTooLarge = errors.New("program too large for memory")

type Pointer uint16

func (p Pointer) String() string {
	return fmt.Sprintf("0x%03X", uint16(p))
}

// Fault is the panic value raised on out-of-range access.
type Fault struct {
	Op   string
	Addr Pointer
	N    int
}

func (f *Fault) Error() string {
	if f.N > 1 {
		return fmt.Sprintf("%s of %d bytes at %v is outside memory", f.Op, f.N, f.Addr)
	}
	return fmt.Sprintf("%s at %v is outside memory", f.Op, f.Addr)
}

var font = [16 * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

type Memory struct {
	mem [Size]byte
}

// New returns memory seeded with the glyph sprites and the program at ProgramStart.
func New(program []byte) (*Memory, error) {
	if len(program) > Size-ProgramStart {
		return nil, fmt.Errorf("%w: %d bytes > %d bytes", ErrProgramTooLarge, len(program), Size-ProgramStart)
	}
	m := &Memory{}
	copy(m.mem[FontStart:], font[:])
	copy(m.mem[ProgramStart:], program)
	return m, nil
}

func (m *Memory) Len() int {
	return len(m.mem)
}

func (m *Memory) ReadByte(addr Pointer) byte {
	if int(addr) >= len(m.mem) {
		panic(&Fault{Op: "read", Addr: addr, N: 1})
	}
	return m.mem[addr]
}

func (m *Memory) WriteByte(addr Pointer, data byte) {
	if int(addr) >= len(m.mem) {
		panic(&Fault{Op: "write", Addr: addr, N: 1})
	}
	m.mem[addr] = data
}

// ReadBytes returns a view of n bytes, valid until the next write.
func (m *Memory) ReadBytes(addr Pointer, n int) []byte {
	if n < 0 || int(addr)+n > len(m.mem) {
		panic(&Fault{Op: "read", Addr: addr, N: n})
	}
	return m.mem[int(addr) : int(addr)+n]
}

func (m *Memory) ReadOpcode(addr Pointer) uint16 {
	if int(addr)+1 >= len(m.mem) {
		panic(&Fault{Op: "opcode fetch", Addr: addr, N: 2})
	}
	return uint16(m.mem[addr])<<8 | uint16(m.mem[addr+1])
}

// AddressOf returns the location of the glyph for a hexadecimal digit.
func AddressOf(digit byte) Pointer {
	return FontStart + Pointer(digit&0xF)*GlyphSize
}
