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
	"log"

	"github.com/andreas-jonsson/virtualchip/emulator/memory"
	"github.com/andreas-jonsson/virtualchip/emulator/processor"
)

// Every handler reports whether it moved the program counter itself.

func (p *CPU) opInvalid(in Instruction) (bool, error) {
	p.stats.NumUnknown++
	if p.strict {
		return false, processor.ErrUnknownOpcode
	}
	log.Printf("unknown opcode 0x%04X at 0x%03X", in.Opcode, p.PC)
	return false, nil
}

// Machine code routines of the original hardware are not supported.
func (p *CPU) opSys(Instruction) (bool, error) {
	return false, nil
}

func (p *CPU) opCls(Instruction) (bool, error) {
	p.disp.Clear()
	p.drawn = true
	return false, nil
}

func (p *CPU) opRet(Instruction) (bool, error) {
	if p.SP == 0 {
		return false, processor.ErrStackUnderflow
	}
	p.SP--
	p.PC = p.stack[p.SP] + 2
	return true, nil
}

func (p *CPU) opJp(in Instruction) (bool, error) {
	if in.NNN == p.PC {
		p.finished = true
	}
	p.PC = in.NNN
	return true, nil
}

func (p *CPU) opCall(in Instruction) (bool, error) {
	if p.SP >= len(p.stack) {
		return false, processor.ErrStackOverflow
	}
	p.stack[p.SP] = p.PC
	p.SP++
	p.PC = in.NNN
	return true, nil
}

func (p *CPU) skip(cond bool) (bool, error) {
	if cond {
		p.PC += 4
	}
	return cond, nil
}

func (p *CPU) opSeImm(in Instruction) (bool, error) {
	return p.skip(p.V[in.X] == in.NN)
}

func (p *CPU) opSneImm(in Instruction) (bool, error) {
	return p.skip(p.V[in.X] != in.NN)
}

func (p *CPU) opSeReg(in Instruction) (bool, error) {
	return p.skip(p.V[in.X] == p.V[in.Y])
}

func (p *CPU) opSneReg(in Instruction) (bool, error) {
	return p.skip(p.V[in.X] != p.V[in.Y])
}

func (p *CPU) opLdImm(in Instruction) (bool, error) {
	p.V[in.X] = in.NN
	return false, nil
}

func (p *CPU) opAddImm(in Instruction) (bool, error) {
	p.V[in.X] += in.NN
	return false, nil
}

func (p *CPU) opLdReg(in Instruction) (bool, error) {
	p.V[in.X] = p.V[in.Y]
	return false, nil
}

func (p *CPU) opOr(in Instruction) (bool, error) {
	p.V[in.X] |= p.V[in.Y]
	p.V[processor.FlagRegister] = 0
	return false, nil
}

func (p *CPU) opAnd(in Instruction) (bool, error) {
	p.V[in.X] &= p.V[in.Y]
	p.V[processor.FlagRegister] = 0
	return false, nil
}

func (p *CPU) opXor(in Instruction) (bool, error) {
	p.V[in.X] ^= p.V[in.Y]
	p.V[processor.FlagRegister] = 0
	return false, nil
}

// The arithmetic handlers write the result before the flag so VF ends up holding the
// flag when X is F.

func (p *CPU) opAddReg(in Instruction) (bool, error) {
	sum := uint16(p.V[in.X]) + uint16(p.V[in.Y])
	p.V[in.X] = byte(sum)
	p.SetFlag(sum > 0xFF)
	return false, nil
}

func (p *CPU) opSub(in Instruction) (bool, error) {
	x, y := p.V[in.X], p.V[in.Y]
	p.V[in.X] = x - y
	p.SetFlag(x >= y)
	return false, nil
}

func (p *CPU) opShr(in Instruction) (bool, error) {
	y := p.V[in.Y]
	p.V[in.X] = y >> 1
	p.V[processor.FlagRegister] = y & 1
	return false, nil
}

func (p *CPU) opSubn(in Instruction) (bool, error) {
	x, y := p.V[in.X], p.V[in.Y]
	p.V[in.X] = y - x
	p.SetFlag(y >= x)
	return false, nil
}

func (p *CPU) opShl(in Instruction) (bool, error) {
	y := p.V[in.Y]
	p.V[in.X] = y << 1
	p.V[processor.FlagRegister] = y >> 7
	return false, nil
}

func (p *CPU) opLdI(in Instruction) (bool, error) {
	p.I = in.NNN
	return false, nil
}

func (p *CPU) opJpV0(in Instruction) (bool, error) {
	p.PC = uint16(p.V[0]) + in.NNN
	return true, nil
}

func (p *CPU) opRnd(in Instruction) (bool, error) {
	p.V[in.X] = byte(p.rnd.Intn(0x100)) ^ in.NN
	return false, nil
}

// Collision sets VF but a clean draw leaves it untouched.
func (p *CPU) opDrw(in Instruction) (bool, error) {
	sprite := p.mem.ReadBytes(memory.Pointer(p.I), int(in.N))
	if p.disp.Draw(int(p.V[in.X]), int(p.V[in.Y]), sprite) {
		p.V[processor.FlagRegister] = 1
	}
	p.drawn = true
	p.stats.NumDraws++
	return false, nil
}

func (p *CPU) opSkp(in Instruction) (bool, error) {
	return p.skip(p.keys[p.V[in.X]&0xF])
}

func (p *CPU) opSknp(in Instruction) (bool, error) {
	return p.skip(!p.keys[p.V[in.X]&0xF])
}

func (p *CPU) opLdVxDt(in Instruction) (bool, error) {
	p.V[in.X] = p.DT
	return false, nil
}

// opLdKey parks the CPU in the key wait state. The program counter stays on this
// instruction until a key has been pressed and every key released again.
func (p *CPU) opLdKey(in Instruction) (bool, error) {
	p.WaitReg = in.X
	if k, ok := p.pressedKey(); ok {
		p.V[in.X] = k
		p.Wait = processor.WaitingForKeyRelease
	} else {
		p.Wait = processor.WaitingForKeyPress
	}
	return true, nil
}

func (p *CPU) opLdDtVx(in Instruction) (bool, error) {
	p.DT = p.V[in.X]
	return false, nil
}

func (p *CPU) opLdStVx(in Instruction) (bool, error) {
	p.ST = p.V[in.X]
	return false, nil
}

func (p *CPU) opAddI(in Instruction) (bool, error) {
	p.I += uint16(p.V[in.X])
	return false, nil
}

func (p *CPU) opLdFont(in Instruction) (bool, error) {
	p.I = uint16(memory.AddressOf(p.V[in.X]))
	return false, nil
}

func (p *CPU) opBcd(in Instruction) (bool, error) {
	v := p.V[in.X]
	p.mem.WriteByte(memory.Pointer(p.I), v/100)
	p.mem.WriteByte(memory.Pointer(p.I+1), (v/10)%10)
	p.mem.WriteByte(memory.Pointer(p.I+2), v%10)
	return false, nil
}

// opStore and opLoad leave I pointing past the last transferred byte.

func (p *CPU) opStore(in Instruction) (bool, error) {
	for i := 0; i <= int(in.X); i++ {
		p.mem.WriteByte(memory.Pointer(p.I), p.V[i])
		p.I++
	}
	return false, nil
}

func (p *CPU) opLoad(in Instruction) (bool, error) {
	for i := 0; i <= int(in.X); i++ {
		p.V[i] = p.mem.ReadByte(memory.Pointer(p.I))
		p.I++
	}
	return false, nil
}
