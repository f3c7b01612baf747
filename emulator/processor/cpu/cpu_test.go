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
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/andreas-jonsson/virtualchip/emulator/memory"
	"github.com/andreas-jonsson/virtualchip/emulator/processor"
)

func assemble(words ...uint16) []byte {
	prog := make([]byte, 0, len(words)*2)
	for _, w := range words {
		prog = append(prog, byte(w>>8), byte(w))
	}
	return prog
}

func newTestCPU(t *testing.T, words []uint16, opts ...Option) *CPU {
	t.Helper()
	p, err := NewCPU(assemble(words...), opts...)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func runSteps(t *testing.T, p *CPU, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, err := p.Step(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestInitialState(t *testing.T) {
	p := newTestCPU(t, nil)
	if p.PC != memory.ProgramStart {
		t.Errorf("PC = 0x%X", p.PC)
	}
	if p.ScreenWidth() != 64 || p.ScreenHeight() != 32 {
		t.Errorf("screen is %dx%d", p.ScreenWidth(), p.ScreenHeight())
	}
	if p.IsBeeping() || p.IsFinished() || p.HasDrawn() {
		t.Error("unexpected initial flags")
	}

	if _, err := NewCPU(make([]byte, memory.Size)); !errors.Is(err, memory.ErrProgramTooLarge) {
		t.Errorf("expected ErrProgramTooLarge, got %v", err)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name       string
		x, y       byte
		op         uint16
		result, vf byte
	}{
		{"AddCarry", 0xFF, 0x01, 0x8014, 0x00, 1},
		{"AddNoCarry", 0x10, 0x01, 0x8014, 0x11, 0},
		{"SubBorrow", 0x01, 0x02, 0x8015, 0xFF, 0},
		{"SubNoBorrow", 0x02, 0x02, 0x8015, 0x00, 1},
		{"SubnBorrow", 0x02, 0x01, 0x8017, 0xFF, 0},
		{"SubnNoBorrow", 0x01, 0x03, 0x8017, 0x02, 1},
		{"ShrOdd", 0x00, 0x05, 0x8016, 0x02, 1},
		{"ShrEven", 0x00, 0x04, 0x8016, 0x02, 0},
		{"ShlHigh", 0x00, 0x81, 0x801E, 0x02, 1},
		{"ShlLow", 0x00, 0x41, 0x801E, 0x82, 0},
		{"Or", 0xF0, 0x0F, 0x8011, 0xFF, 0},
		{"And", 0xF3, 0x3F, 0x8012, 0x33, 0},
		{"Xor", 0xFF, 0x0F, 0x8013, 0xF0, 0},
		{"Load", 0x12, 0x34, 0x8010, 0x34, 0x77},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestCPU(t, []uint16{
				0x6000 | uint16(tt.x),
				0x6100 | uint16(tt.y),
				0x6F77,
				tt.op,
			})
			runSteps(t, p, 4)
			if p.V[0] != tt.result {
				t.Errorf("V0 = 0x%02X, want 0x%02X", p.V[0], tt.result)
			}
			if p.V[0xF] != tt.vf {
				t.Errorf("VF = %d, want %d", p.V[0xF], tt.vf)
			}
			if p.PC != 0x208 {
				t.Errorf("PC = 0x%X", p.PC)
			}
		})
	}
}

func TestFlagRegisterAsDestination(t *testing.T) {
	// VF=0xFF + V1=0x01 overflows; the carry overwrites the sum.
	p := newTestCPU(t, []uint16{0x6FFF, 0x6101, 0x8F14})
	runSteps(t, p, 3)
	if p.V[0xF] != 1 {
		t.Errorf("VF = %d, want 1", p.V[0xF])
	}
}

func TestImmediate(t *testing.T) {
	p := newTestCPU(t, []uint16{0x6AFE, 0x7A03})
	runSteps(t, p, 2)
	if p.V[0xA] != 0x01 {
		t.Errorf("VA = 0x%02X, want 0x01", p.V[0xA])
	}
	if p.V[0xF] != 0 {
		t.Error("7XNN must not touch VF")
	}
}

func TestSkip(t *testing.T) {
	tests := []struct {
		name string
		op   uint16
		skip bool
	}{
		{"SeImmTaken", 0x3005, true},
		{"SeImmNotTaken", 0x3006, false},
		{"SneImmTaken", 0x4006, true},
		{"SneImmNotTaken", 0x4005, false},
		{"SeRegTaken", 0x5010, true},
		{"SeRegNotTaken", 0x5020, false},
		{"SneRegTaken", 0x9020, true},
		{"SneRegNotTaken", 0x9010, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestCPU(t, []uint16{0x6005, 0x6105, 0x6209, tt.op})
			runSteps(t, p, 4)
			want := uint16(0x208)
			if tt.skip {
				want = 0x20A
			}
			if p.PC != want {
				t.Errorf("PC = 0x%X, want 0x%X", p.PC, want)
			}
		})
	}
}

func TestKeySkip(t *testing.T) {
	p := newTestCPU(t, []uint16{0x6015, 0xE09E, 0x0000, 0xE0A1})
	p.SetPressed(5)
	runSteps(t, p, 2)
	if p.PC != 0x206 {
		t.Fatalf("SKP with key 5 down: PC = 0x%X", p.PC)
	}
	runSteps(t, p, 1)
	if p.PC != 0x208 {
		t.Fatalf("SKNP with key 5 down: PC = 0x%X", p.PC)
	}
}

func TestJumps(t *testing.T) {
	t.Run("Jump", func(t *testing.T) {
		p := newTestCPU(t, []uint16{0x1300})
		runSteps(t, p, 1)
		if p.PC != 0x300 || p.IsFinished() {
			t.Errorf("PC = 0x%X finished=%v", p.PC, p.IsFinished())
		}
	})

	t.Run("Indexed", func(t *testing.T) {
		p := newTestCPU(t, []uint16{0x6004, 0xB300})
		runSteps(t, p, 2)
		if p.PC != 0x304 {
			t.Errorf("PC = 0x%X, want 0x304", p.PC)
		}
	})

	t.Run("SelfJump", func(t *testing.T) {
		p := newTestCPU(t, []uint16{0x00E0, 0x1202})
		runSteps(t, p, 2)
		if !p.IsFinished() || p.PC != 0x202 {
			t.Errorf("PC = 0x%X finished=%v", p.PC, p.IsFinished())
		}
	})
}

func TestCallReturn(t *testing.T) {
	p := newTestCPU(t, []uint16{0x2206, 0x1202, 0x0000, 0x00EE})

	runSteps(t, p, 1)
	if p.PC != 0x206 || p.SP != 1 {
		t.Fatalf("after call PC = 0x%X SP = %d", p.PC, p.SP)
	}
	runSteps(t, p, 1)
	if p.PC != 0x202 || p.SP != 0 {
		t.Fatalf("after return PC = 0x%X SP = %d", p.PC, p.SP)
	}
	runSteps(t, p, 1)
	if !p.IsFinished() {
		t.Error("program did not finish")
	}
}

func TestStackFaults(t *testing.T) {
	t.Run("Overflow", func(t *testing.T) {
		p := newTestCPU(t, []uint16{0x2200})
		runSteps(t, p, processor.StackDepth)
		if _, err := p.Step(); !errors.Is(err, processor.ErrStackOverflow) {
			t.Errorf("expected ErrStackOverflow, got %v", err)
		}
	})

	t.Run("Underflow", func(t *testing.T) {
		p := newTestCPU(t, []uint16{0x00EE})
		if _, err := p.Step(); !errors.Is(err, processor.ErrStackUnderflow) {
			t.Errorf("expected ErrStackUnderflow, got %v", err)
		}
	})
}

func TestUnknownOpcode(t *testing.T) {
	t.Run("Permissive", func(t *testing.T) {
		p := newTestCPU(t, []uint16{0x5121, 0xFFFF})
		runSteps(t, p, 2)
		if p.PC != 0x204 {
			t.Errorf("PC = 0x%X, want 0x204", p.PC)
		}
		if s := p.GetStats(); s.NumUnknown != 2 || s.NumInstructions != 2 {
			t.Errorf("unexpected stats: %+v", s)
		}
	})

	t.Run("Strict", func(t *testing.T) {
		p := newTestCPU(t, []uint16{0x5121}, WithStrict(true))
		if _, err := p.Step(); !errors.Is(err, processor.ErrUnknownOpcode) {
			t.Errorf("expected ErrUnknownOpcode, got %v", err)
		}
	})
}

func TestAddressFault(t *testing.T) {
	t.Run("Sprite", func(t *testing.T) {
		p := newTestCPU(t, []uint16{0xAFFF, 0xD005})
		runSteps(t, p, 1)
		if _, err := p.Step(); !errors.Is(err, processor.ErrAddressFault) {
			t.Errorf("expected ErrAddressFault, got %v", err)
		}
	})

	t.Run("Fetch", func(t *testing.T) {
		p := newTestCPU(t, []uint16{0x1FFF})
		runSteps(t, p, 1)
		cycles, err := p.Step()
		if !errors.Is(err, processor.ErrAddressFault) {
			t.Fatalf("expected ErrAddressFault, got %v", err)
		}
		if cycles != 1 {
			t.Errorf("cycles = %d, want 1", cycles)
		}
		if strings.Contains(err.Error(), "opcode=") {
			t.Errorf("fetch fault reported the previous opcode: %v", err)
		}
		if pc, op := p.LastInstruction(); pc != 0xFFF || op != 0 {
			t.Errorf("LastInstruction() = 0x%X, 0x%X, want 0xFFF, 0x0", pc, op)
		}
	})

	t.Run("Store", func(t *testing.T) {
		p := newTestCPU(t, []uint16{0xAFFE, 0xF255})
		runSteps(t, p, 1)
		if _, err := p.Step(); !errors.Is(err, processor.ErrAddressFault) {
			t.Errorf("expected ErrAddressFault, got %v", err)
		}
	})
}

func TestTimers(t *testing.T) {
	p := newTestCPU(t, []uint16{0x6002, 0xF015, 0xF118, 0x1206})
	runSteps(t, p, 2)
	if p.DT != 2 {
		t.Fatalf("DT = %d, want 2", p.DT)
	}
	runSteps(t, p, 2)
	if p.DT != 0 {
		t.Fatalf("DT = %d after two cycles", p.DT)
	}
	runSteps(t, p, 1)
	if p.DT != 0 {
		t.Fatalf("DT underflowed to %d", p.DT)
	}
}

func TestReadDelayTimer(t *testing.T) {
	p := newTestCPU(t, []uint16{0x6005, 0xF015, 0xF307})
	runSteps(t, p, 3)
	if p.V[3] != 4 {
		t.Errorf("V3 = %d, want 4", p.V[3])
	}
}

func TestSoundTimer(t *testing.T) {
	p := newTestCPU(t, []uint16{0x6002, 0xF018, 0x1204})
	runSteps(t, p, 2)
	if !p.IsBeeping() {
		t.Fatal("not beeping after FX18")
	}
	runSteps(t, p, 1)
	if !p.IsBeeping() {
		t.Fatal("stopped beeping too early")
	}
	runSteps(t, p, 1)
	if p.IsBeeping() {
		t.Fatal("still beeping after the timer expired")
	}
}

func TestWaitForKey(t *testing.T) {
	p := newTestCPU(t, []uint16{0xF30A, 0x1202})

	runSteps(t, p, 3)
	if p.PC != 0x200 || p.Wait != processor.WaitingForKeyPress {
		t.Fatalf("PC = 0x%X wait = %v", p.PC, p.Wait)
	}

	p.SetPressed(5)
	runSteps(t, p, 1)
	if p.V[3] != 5 {
		t.Fatalf("V3 = %d, want 5", p.V[3])
	}
	runSteps(t, p, 3)
	if p.PC != 0x200 || p.Wait != processor.WaitingForKeyRelease {
		t.Fatalf("PC = 0x%X wait = %v", p.PC, p.Wait)
	}

	p.SetReleased(5)
	runSteps(t, p, 1)
	if p.PC != 0x202 || p.Wait != processor.Running {
		t.Fatalf("PC = 0x%X wait = %v", p.PC, p.Wait)
	}
	if s := p.GetStats(); s.NumStalls != 7 {
		t.Errorf("NumStalls = %d, want 7", s.NumStalls)
	}
}

func TestWaitForKeyAlreadyPressed(t *testing.T) {
	p := newTestCPU(t, []uint16{0xF00A, 0x1202})
	p.SetPressed(0xC)
	p.SetPressed(0xE)

	runSteps(t, p, 1)
	if p.V[0] != 0xC || p.Wait != processor.WaitingForKeyRelease {
		t.Fatalf("V0 = %X wait = %v", p.V[0], p.Wait)
	}

	p.SetReleased(0xC)
	runSteps(t, p, 1)
	if p.PC != 0x200 {
		t.Fatal("resumed while a key was still down")
	}

	p.SetReleased(0xE)
	runSteps(t, p, 1)
	if p.PC != 0x202 {
		t.Fatalf("PC = 0x%X, want 0x202", p.PC)
	}
}

func TestWaitDecaysTimers(t *testing.T) {
	p := newTestCPU(t, []uint16{0x6003, 0xF015, 0xF00A})
	runSteps(t, p, 5)
	if p.DT != 0 {
		t.Errorf("DT = %d while waiting", p.DT)
	}
}

func TestInvalidKey(t *testing.T) {
	p := newTestCPU(t, nil)
	p.SetPressed(16)
	p.SetPressed(-1)
	if _, ok := p.pressedKey(); ok {
		t.Error("out of range key was registered")
	}
}

func TestIndexRegister(t *testing.T) {
	t.Run("Load", func(t *testing.T) {
		p := newTestCPU(t, []uint16{0xA123})
		runSteps(t, p, 1)
		if p.I != 0x123 {
			t.Errorf("I = 0x%X", p.I)
		}
	})

	t.Run("Add", func(t *testing.T) {
		p := newTestCPU(t, []uint16{0xAFFF, 0x6002, 0xF01E})
		runSteps(t, p, 3)
		if p.I != 0x1001 {
			t.Errorf("I = 0x%X, want 0x1001", p.I)
		}
	})

	t.Run("Font", func(t *testing.T) {
		p := newTestCPU(t, []uint16{0x600A, 0xF029})
		runSteps(t, p, 2)
		if p.I != 50 {
			t.Errorf("I = %d, want 50", p.I)
		}
	})
}

func TestBCD(t *testing.T) {
	p := newTestCPU(t, []uint16{0x60FE, 0xA300, 0xF033})
	runSteps(t, p, 3)

	got := p.mem.ReadBytes(0x300, 3)
	if got[0] != 2 || got[1] != 5 || got[2] != 4 {
		t.Errorf("BCD = % X, want 02 05 04", got)
	}
	if p.I != 0x300 {
		t.Errorf("I = 0x%X, BCD must not move I", p.I)
	}
}

func TestRegisterDump(t *testing.T) {
	p := newTestCPU(t, []uint16{0x6011, 0x6122, 0x6233, 0x6344, 0x6455, 0xA300, 0xF355})
	runSteps(t, p, 7)

	got := p.mem.ReadBytes(0x300, 5)
	want := []byte{0x11, 0x22, 0x33, 0x44, 0x00}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("memory = % X, want % X", got, want)
		}
	}
	if p.I != 0x304 {
		t.Errorf("I = 0x%X, want 0x304", p.I)
	}
}

func TestRegisterLoad(t *testing.T) {
	p := newTestCPU(t, []uint16{0xA300, 0xF265})
	p.mem.WriteByte(0x300, 0xAA)
	p.mem.WriteByte(0x301, 0xBB)
	p.mem.WriteByte(0x302, 0xCC)
	p.mem.WriteByte(0x303, 0xDD)
	runSteps(t, p, 2)

	if p.V[0] != 0xAA || p.V[1] != 0xBB || p.V[2] != 0xCC || p.V[3] != 0 {
		t.Errorf("registers = % X", p.V[:4])
	}
	if p.I != 0x303 {
		t.Errorf("I = 0x%X, want 0x303", p.I)
	}
}

func TestRandom(t *testing.T) {
	p := newTestCPU(t, []uint16{0xC50F}, WithRandSource(rand.NewSource(42)))
	runSteps(t, p, 1)

	want := byte(rand.New(rand.NewSource(42)).Intn(0x100)) ^ 0x0F
	if p.V[5] != want {
		t.Errorf("V5 = 0x%02X, want 0x%02X", p.V[5], want)
	}
}

func TestDraw(t *testing.T) {
	// Draw the glyph for 0 at (0, 0) twice.
	p := newTestCPU(t, []uint16{0x6F07, 0xA000, 0xD015, 0x6A00, 0xD015})

	runSteps(t, p, 3)
	if !p.HasDrawn() {
		t.Error("HasDrawn not set by DXYN")
	}
	if p.V[0xF] != 7 {
		t.Errorf("VF = %d, a clean draw must leave it untouched", p.V[0xF])
	}
	for x := 0; x < 4; x++ {
		if p.ScreenValue(x, 0) != 1 {
			t.Errorf("pixel (%d, 0) not set", x)
		}
	}
	if p.ScreenValue(4, 0) != 0 || p.ScreenValue(1, 1) != 0 {
		t.Error("unexpected pixel set")
	}

	runSteps(t, p, 1)
	if p.HasDrawn() {
		t.Error("HasDrawn still set on a cycle without drawing")
	}

	runSteps(t, p, 1)
	if p.V[0xF] != 1 {
		t.Errorf("VF = %d, want collision", p.V[0xF])
	}
	for x := 0; x < 4; x++ {
		if p.ScreenValue(x, 0) != 0 {
			t.Errorf("pixel (%d, 0) not erased", x)
		}
	}
}

func TestClearScreen(t *testing.T) {
	p := newTestCPU(t, []uint16{0xA000, 0xD005, 0x00E0})
	runSteps(t, p, 3)
	if !p.HasDrawn() {
		t.Error("clearing the screen must flag a frame change")
	}
	for y := 0; y < p.ScreenHeight(); y++ {
		for x := 0; x < p.ScreenWidth(); x++ {
			if p.ScreenValue(x, y) != 0 {
				t.Fatalf("pixel (%d, %d) still set", x, y)
			}
		}
	}
}

func TestVerticalWrap(t *testing.T) {
	prog := []uint16{0x601F, 0xA000, 0xD105}

	p := newTestCPU(t, prog)
	runSteps(t, p, 3)
	if p.ScreenValue(0, 0) != 0 {
		t.Error("clipped sprite reached the top row")
	}

	p = newTestCPU(t, prog, WithVerticalWrap(true))
	runSteps(t, p, 3)
	if p.ScreenValue(0, 31) != 1 || p.ScreenValue(0, 0) != 1 {
		t.Error("sprite did not wrap to the top row")
	}
}

func TestHorizontalWrap(t *testing.T) {
	// Glyph 0 is F0 90 90 90 F0; at x=60 its right column lands on x=63.
	prog := []uint16{0x603C, 0x6100, 0xA000, 0xD015}

	p := newTestCPU(t, prog)
	runSteps(t, p, 4)
	if p.ScreenValue(63, 0) != 1 || p.ScreenValue(0, 0) != 0 {
		t.Error("sprite was not clipped at the right edge")
	}

	// 0xF0 shifted to x=62 spills two pixels past the edge.
	prog[0] = 0x603E
	p = newTestCPU(t, prog)
	runSteps(t, p, 4)
	if p.ScreenValue(63, 0) != 1 || p.ScreenValue(0, 0) != 0 || p.ScreenValue(1, 0) != 0 {
		t.Error("sprite was not clipped at the right edge")
	}

	p = newTestCPU(t, prog, WithHorizontalWrap(true))
	runSteps(t, p, 4)
	if p.ScreenValue(63, 0) != 1 || p.ScreenValue(0, 0) != 1 || p.ScreenValue(1, 0) != 1 {
		t.Error("sprite did not wrap to the left edge")
	}
}

func TestReset(t *testing.T) {
	p := newTestCPU(t, []uint16{0x6A42, 0xA000, 0xD005, 0xA300, 0xFA55, 0x2200})
	runSteps(t, p, 6)
	p.SetPressed(3)

	if p.mem.ReadByte(0x30A) != 0x42 || p.ScreenValue(0, 0) != 1 || p.SP != 1 {
		t.Fatal("program did not run as expected")
	}

	p.Reset()
	r := p.GetRegisters()
	if r.PC != memory.ProgramStart || r.V[0xA] != 0 || r.I != 0 || r.SP != 0 {
		t.Errorf("registers not reset: %v", r)
	}
	if p.mem.ReadByte(0x30A) != 0 {
		t.Error("memory not reset")
	}
	if p.ScreenValue(0, 0) != 0 {
		t.Error("display not cleared")
	}
	if _, ok := p.pressedKey(); ok {
		t.Error("keys not released")
	}
	if p.mem.ReadOpcode(memory.ProgramStart) != 0x6A42 {
		t.Error("program lost on reset")
	}
	if pc, op := p.LastInstruction(); pc != 0 || op != 0 {
		t.Errorf("LastInstruction() = 0x%X, 0x%X after reset", pc, op)
	}
	if s := p.GetStats(); s != (processor.Stats{}) {
		t.Errorf("stats not reset: %+v", s)
	}
}

func TestLastInstruction(t *testing.T) {
	p := newTestCPU(t, []uint16{0x6001, 0x6102})
	runSteps(t, p, 2)
	if pc, op := p.LastInstruction(); pc != 0x202 || op != 0x6102 {
		t.Errorf("LastInstruction() = 0x%X, 0x%X", pc, op)
	}
}
