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

package cpu

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/andreas-jonsson/virtualchip/emulator/display"
	"github.com/andreas-jonsson/virtualchip/emulator/memory"
	"github.com/andreas-jonsson/virtualchip/emulator/processor"
)

const NumKeys = 16

type Option func(*CPU)

// WithStrict makes unknown opcodes fail with processor.ErrUnknownOpcode instead of
// being logged and skipped.
func WithStrict(b bool) Option {
	return func(p *CPU) {
		p.strict = b
	}
}

func WithVerticalWrap(b bool) Option {
	return func(p *CPU) {
		if b {
			p.displayOptions = append(p.displayOptions, display.WithVerticalWrap())
		}
	}
}

func WithHorizontalWrap(b bool) Option {
	return func(p *CPU) {
		if b {
			p.displayOptions = append(p.displayOptions, display.WithHorizontalWrap())
		}
	}
}

func WithRandSource(src rand.Source) Option {
	return func(p *CPU) {
		p.rnd = rand.New(src)
	}
}

type CPU struct {
	processor.Registers

	strict, drawn, finished bool

	program        []byte
	mem            *memory.Memory
	disp           *display.Display
	displayOptions []display.Option
	rnd            *rand.Rand

	stack [processor.StackDepth]uint16
	keys  [NumKeys]bool

	stats              processor.Stats
	lastPC, lastOpcode uint16
}

func NewCPU(program []byte, opts ...Option) (*CPU, error) {
	p := &CPU{program: append([]byte(nil), program...)}
	for _, opt := range opts {
		opt(p)
	}
	if p.rnd == nil {
		p.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var err error
	if p.mem, err = memory.New(p.program); err != nil {
		return nil, err
	}
	p.disp = display.New(display.DefaultWidth, display.DefaultHeight, p.displayOptions...)
	p.Registers.PC = memory.ProgramStart
	return p, nil
}

// Reset returns the machine to its power-on state with the same program loaded.
func (p *CPU) Reset() {
	log.Print("CPU reset!")

	p.mem, _ = memory.New(p.program)
	p.disp.Clear()
	p.Registers = processor.Registers{PC: memory.ProgramStart}
	p.stack = [processor.StackDepth]uint16{}
	p.keys = [NumKeys]bool{}
	p.drawn = false
	p.finished = false
	p.stats = processor.Stats{}
	p.lastPC, p.lastOpcode = 0, 0
}

// Step runs one cycle: timer decay followed by one instruction, or by one poll of the
// key wait state. The returned error is fatal for the loaded program.
func (p *CPU) Step() (cycles int, err error) {
	fetched := false
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(*memory.Fault)
			if !ok {
				panic(r)
			}
			cycles = 1
			if fetched {
				err = fmt.Errorf("%w: %v (PC=0x%03X, opcode=0x%04X)", processor.ErrAddressFault, f, p.lastPC, p.lastOpcode)
			} else {
				err = fmt.Errorf("%w: %v (PC=0x%03X)", processor.ErrAddressFault, f, p.lastPC)
			}
		}
	}()

	if p.DT > 0 {
		p.DT--
	}
	if p.ST > 0 {
		p.ST--
	}
	p.drawn = false

	switch p.Wait {
	case processor.WaitingForKeyPress:
		p.stats.NumStalls++
		if k, ok := p.pressedKey(); ok {
			p.V[p.WaitReg] = k
			p.Wait = processor.WaitingForKeyRelease
		}
		return 1, nil
	case processor.WaitingForKeyRelease:
		p.stats.NumStalls++
		if _, ok := p.pressedKey(); !ok {
			p.Wait = processor.Running
			p.PC += 2
		}
		return 1, nil
	}

	// No word is reported for a PC that faults on fetch.
	p.lastPC, p.lastOpcode = p.PC, 0
	p.lastOpcode = p.mem.ReadOpcode(memory.Pointer(p.PC))
	fetched = true
	p.stats.NumInstructions++

	if err := p.execute(Decode(p.lastOpcode)); err != nil {
		return 1, fmt.Errorf("PC=0x%03X, opcode=0x%04X: %w", p.lastPC, p.lastOpcode, err)
	}
	return 1, nil
}

func (p *CPU) execute(in Instruction) error {
	redirected, err := opLookup[in.Op].exec(p, in)
	if err != nil {
		return err
	}
	if !redirected {
		p.PC += 2
	}
	return nil
}

func (p *CPU) pressedKey() (byte, bool) {
	for i, down := range p.keys {
		if down {
			return byte(i), true
		}
	}
	return 0, false
}

func (p *CPU) GetStats() processor.Stats {
	s := p.stats
	p.stats = processor.Stats{}
	return s
}

func (p *CPU) GetRegisters() processor.Registers {
	return p.Registers
}

// LastInstruction returns the address and word of the most recently fetched instruction.
func (p *CPU) LastInstruction() (uint16, uint16) {
	return p.lastPC, p.lastOpcode
}

func (p *CPU) ScreenWidth() int {
	return p.disp.Width()
}

func (p *CPU) ScreenHeight() int {
	return p.disp.Height()
}

func (p *CPU) ScreenValue(x, y int) byte {
	return p.disp.Get(x, y)
}

func (p *CPU) HasDrawn() bool {
	return p.drawn
}

func (p *CPU) SetPressed(key int) {
	p.setKey(key, true)
}

func (p *CPU) SetReleased(key int) {
	p.setKey(key, false)
}

func (p *CPU) setKey(key int, down bool) {
	if key < 0 || key >= NumKeys {
		log.Printf("invalid key: %d", key)
		return
	}
	p.keys[key] = down
}

func (p *CPU) IsBeeping() bool {
	return p.ST > 0
}

// IsFinished reports whether the program has parked itself in a jump to its own address.
func (p *CPU) IsFinished() bool {
	return p.finished
}
