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

type Op byte

const (
	OpInvalid Op = iota
	OpSys
	OpCls
	OpRet
	OpJp
	OpCall
	OpSeImm
	OpSneImm
	OpSeReg
	OpSneReg
	OpLdImm
	OpAddImm
	OpLdReg
	OpOr
	OpAnd
	OpXor
	OpAddReg
	OpSub
	OpShr
	OpSubn
	OpShl
	OpLdI
	OpJpV0
	OpRnd
	OpDrw
	OpSkp
	OpSknp
	OpLdVxDt
	OpLdKey
	OpLdDtVx
	OpLdStVx
	OpAddI
	OpLdFont
	OpBcd
	OpStore
	OpLoad

	numOps
)

// Instruction is a decoded instruction word. Only the operand fields used by Op are meaningful.
type Instruction struct {
	Op     Op
	Opcode uint16
	X, Y   byte
	N, NN  byte
	NNN    uint16
}

func Decode(opcode uint16) Instruction {
	in := Instruction{
		Opcode: opcode,
		X:      byte(opcode>>8) & 0xF,
		Y:      byte(opcode>>4) & 0xF,
		N:      byte(opcode) & 0xF,
		NN:     byte(opcode),
		NNN:    opcode & 0xFFF,
	}
	in.Op = decodeOp(opcode, in.N, in.NN)
	return in
}

func decodeOp(opcode uint16, n, nn byte) Op {
	switch opcode >> 12 {
	case 0x0:
		switch opcode {
		case 0x00E0:
			return OpCls
		case 0x00EE:
			return OpRet
		}
		return OpSys
	case 0x1:
		return OpJp
	case 0x2:
		return OpCall
	case 0x3:
		return OpSeImm
	case 0x4:
		return OpSneImm
	case 0x5:
		if n == 0 {
			return OpSeReg
		}
	case 0x6:
		return OpLdImm
	case 0x7:
		return OpAddImm
	case 0x8:
		switch n {
		case 0x0:
			return OpLdReg
		case 0x1:
			return OpOr
		case 0x2:
			return OpAnd
		case 0x3:
			return OpXor
		case 0x4:
			return OpAddReg
		case 0x5:
			return OpSub
		case 0x6:
			return OpShr
		case 0x7:
			return OpSubn
		case 0xE:
			return OpShl
		}
	case 0x9:
		if n == 0 {
			return OpSneReg
		}
	case 0xA:
		return OpLdI
	case 0xB:
		return OpJpV0
	case 0xC:
		return OpRnd
	case 0xD:
		return OpDrw
	case 0xE:
		switch nn {
		case 0x9E:
			return OpSkp
		case 0xA1:
			return OpSknp
		}
	case 0xF:
		switch nn {
		case 0x07:
			return OpLdVxDt
		case 0x0A:
			return OpLdKey
		case 0x15:
			return OpLdDtVx
		case 0x18:
			return OpLdStVx
		case 0x1E:
			return OpAddI
		case 0x29:
			return OpLdFont
		case 0x33:
			return OpBcd
		case 0x55:
			return OpStore
		case 0x65:
			return OpLoad
		}
	}
	return OpInvalid
}
