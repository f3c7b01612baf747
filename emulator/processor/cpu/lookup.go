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

import "fmt"

type operands byte

const (
	operandsNone operands = iota
	operandsAddr
	operandsRegImm
	operandsRegReg
	operandsReg
	operandsDraw
)

type opInfo struct {
	name     string
	operands operands
	exec     func(*CPU, Instruction) (bool, error)
}

var opLookup [numOps]opInfo

func init() {
	opLookup = [numOps]opInfo{
		OpInvalid: {"???", operandsNone, (*CPU).opInvalid},
		OpSys:     {"SYS", operandsAddr, (*CPU).opSys},
		OpCls:     {"CLS", operandsNone, (*CPU).opCls},
		OpRet:     {"RET", operandsNone, (*CPU).opRet},
		OpJp:      {"JP", operandsAddr, (*CPU).opJp},
		OpCall:    {"CALL", operandsAddr, (*CPU).opCall},
		OpSeImm:   {"SE", operandsRegImm, (*CPU).opSeImm},
		OpSneImm:  {"SNE", operandsRegImm, (*CPU).opSneImm},
		OpSeReg:   {"SE", operandsRegReg, (*CPU).opSeReg},
		OpSneReg:  {"SNE", operandsRegReg, (*CPU).opSneReg},
		OpLdImm:   {"LD", operandsRegImm, (*CPU).opLdImm},
		OpAddImm:  {"ADD", operandsRegImm, (*CPU).opAddImm},
		OpLdReg:   {"LD", operandsRegReg, (*CPU).opLdReg},
		OpOr:      {"OR", operandsRegReg, (*CPU).opOr},
		OpAnd:     {"AND", operandsRegReg, (*CPU).opAnd},
		OpXor:     {"XOR", operandsRegReg, (*CPU).opXor},
		OpAddReg:  {"ADD", operandsRegReg, (*CPU).opAddReg},
		OpSub:     {"SUB", operandsRegReg, (*CPU).opSub},
		OpShr:     {"SHR", operandsRegReg, (*CPU).opShr},
		OpSubn:    {"SUBN", operandsRegReg, (*CPU).opSubn},
		OpShl:     {"SHL", operandsRegReg, (*CPU).opShl},
		OpLdI:     {"LD I,", operandsAddr, (*CPU).opLdI},
		OpJpV0:    {"JP V0,", operandsAddr, (*CPU).opJpV0},
		OpRnd:     {"RND", operandsRegImm, (*CPU).opRnd},
		OpDrw:     {"DRW", operandsDraw, (*CPU).opDrw},
		OpSkp:     {"SKP", operandsReg, (*CPU).opSkp},
		OpSknp:    {"SKNP", operandsReg, (*CPU).opSknp},
		OpLdVxDt:  {"LD DT ->", operandsReg, (*CPU).opLdVxDt},
		OpLdKey:   {"LD K ->", operandsReg, (*CPU).opLdKey},
		OpLdDtVx:  {"LD DT,", operandsReg, (*CPU).opLdDtVx},
		OpLdStVx:  {"LD ST,", operandsReg, (*CPU).opLdStVx},
		OpAddI:    {"ADD I,", operandsReg, (*CPU).opAddI},
		OpLdFont:  {"LD F,", operandsReg, (*CPU).opLdFont},
		OpBcd:     {"LD B,", operandsReg, (*CPU).opBcd},
		OpStore:   {"LD [I],", operandsReg, (*CPU).opStore},
		OpLoad:    {"LD [I] ->", operandsReg, (*CPU).opLoad},
	}
}

func (op Op) String() string {
	if op >= numOps {
		return fmt.Sprintf("Op(%d)", byte(op))
	}
	return opLookup[op].name
}

// String formats the instruction for trace logs.
func (in Instruction) String() string {
	if in.Op >= numOps {
		return fmt.Sprintf("0x%04X", in.Opcode)
	}

	info := &opLookup[in.Op]
	switch info.operands {
	case operandsAddr:
		return fmt.Sprintf("%s 0x%03X", info.name, in.NNN)
	case operandsRegImm:
		return fmt.Sprintf("%s V%X, 0x%02X", info.name, in.X, in.NN)
	case operandsRegReg:
		return fmt.Sprintf("%s V%X, V%X", info.name, in.X, in.Y)
	case operandsReg:
		return fmt.Sprintf("%s V%X", info.name, in.X)
	case operandsDraw:
		return fmt.Sprintf("%s V%X, V%X, %d", info.name, in.X, in.Y, in.N)
	}
	if in.Op == OpInvalid {
		return fmt.Sprintf("%s 0x%04X", info.name, in.Opcode)
	}
	return info.name
}
