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

package emulator

import (
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/andreas-jonsson/virtualchip/emulator/peripheral"
	"github.com/andreas-jonsson/virtualchip/emulator/peripheral/debug"
	"github.com/andreas-jonsson/virtualchip/emulator/peripheral/video"
	"github.com/andreas-jonsson/virtualchip/emulator/processor"
	"github.com/andreas-jonsson/virtualchip/emulator/processor/cpu"
	"github.com/andreas-jonsson/virtualchip/platform"
	"github.com/spf13/afero"
)

var errStop = errors.New("stop")

type recorder struct {
	name      string
	log       *[]string
	installed bool
	resets    int
	cycles    []int
	stopAfter int
	failAt    error
}

func (r *recorder) Install(processor.Processor) error {
	r.installed = true
	return r.failAt
}

func (r *recorder) Name() string {
	return r.name
}

func (r *recorder) Reset() {
	r.resets++
}

func (r *recorder) Step(cycles int) error {
	if r.log != nil {
		*r.log = append(*r.log, r.name)
	}
	r.cycles = append(r.cycles, cycles)
	if r.stopAfter > 0 && r.resets >= r.stopAfter {
		return errStop
	}
	return nil
}

func assemble(ops ...uint16) []byte {
	var b []byte
	for _, op := range ops {
		b = append(b, byte(op>>8), byte(op))
	}
	return b
}

func TestMachineStepOrder(t *testing.T) {
	var order []string
	in := &recorder{name: "in", log: &order}
	out := &recorder{name: "out", log: &order}

	m, err := NewMachine(assemble(0x6005, 0x1202), []peripheral.Peripheral{in}, []peripheral.Peripheral{out})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if !in.installed || !out.installed {
		t.Fatal("peripherals not installed")
	}

	if _, err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "in" || order[1] != "out" {
		t.Errorf("unexpected step order %v", order)
	}
	if in.cycles[0] != 0 || out.cycles[0] != 1 {
		t.Errorf("unexpected cycles in=%v out=%v", in.cycles, out.cycles)
	}
	if r := m.CPU().GetRegisters(); r.V[0] != 5 {
		t.Errorf("expected V0=5, got %d", r.V[0])
	}

	m.Reset()
	if in.resets != 1 || out.resets != 1 {
		t.Error("peripherals not reset")
	}
	if r := m.CPU().GetRegisters(); r.V[0] != 0 || r.PC != 0x200 {
		t.Error("CPU not reset")
	}
}

func TestMachineStepError(t *testing.T) {
	out := &recorder{name: "out"}
	dbg := &debug.Device{}
	m, err := NewMachine(assemble(0x6001, 0x00EE), nil, []peripheral.Peripheral{out, dbg})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if _, err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Step(); !errors.Is(err, processor.ErrStackUnderflow) {
		t.Fatalf("expected ErrStackUnderflow, got %v", err)
	}
	if len(out.cycles) != 2 || out.cycles[1] != 1 {
		t.Errorf("output not stepped on failure: %v", out.cycles)
	}

	h := dbg.History()
	if len(h) != 2 || !strings.HasPrefix(h[1], "0x202: 00EE") {
		t.Errorf("failing instruction missing from history: %q", h)
	}
}

func TestMachineInstallError(t *testing.T) {
	errInstall := errors.New("no device")
	bad := &recorder{name: "bad", failAt: errInstall}

	_, err := NewMachine(assemble(0x1200), nil, []peripheral.Peripheral{bad})
	if !errors.Is(err, errInstall) {
		t.Errorf("expected install error, got %v", err)
	}
}

func TestMachineProgramTooLarge(t *testing.T) {
	if _, err := NewMachine(make([]byte, 0x1000), nil, nil); err == nil {
		t.Error("expected error for oversized program")
	}
}

func TestRunUntilFinished(t *testing.T) {
	out := &recorder{name: "out"}
	m, err := NewMachine(assemble(0x6005, 0x1202), nil, []peripheral.Peripheral{out})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if err := Run(m, Options{Hz: 1000}); err != nil {
		t.Fatal(err)
	}
	if !m.CPU().IsFinished() {
		t.Error("expected program to be finished")
	}
	if len(out.cycles) != 2 {
		t.Errorf("expected 2 steps, got %d", len(out.cycles))
	}
}

func TestRunStrictError(t *testing.T) {
	m, err := NewMachine(assemble(0x5AB1), nil, nil, cpu.WithStrict(true))
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if err := Run(m, Options{Hz: 1000}); !errors.Is(err, processor.ErrUnknownOpcode) {
		t.Errorf("expected ErrUnknownOpcode, got %v", err)
	}
}

func TestRunRestartOnFinish(t *testing.T) {
	out := &recorder{name: "out", stopAfter: 2}
	m, err := NewMachine(assemble(0x1200), nil, []peripheral.Peripheral{out})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if err := Run(m, Options{Hz: 1000, RestartOnFinish: true}); err != errStop {
		t.Fatalf("expected errStop, got %v", err)
	}
	if out.resets != 2 {
		t.Errorf("expected 2 restarts, got %d", out.resets)
	}
}

func TestOptions(t *testing.T) {
	opts := Options{Strict: true, VerticalWrap: true, HorizontalWrap: true}.cpuOptions()
	if len(opts) != 3 {
		t.Fatalf("expected 3 options, got %d", len(opts))
	}
	if _, err := cpu.NewCPU(assemble(0x00E0), opts...); err != nil {
		t.Fatal(err)
	}
}

type nullPlatform struct {
	platform.Platform
	frames int
}

func (p *nullPlatform) RenderGraphics([]byte, int, int) {
	p.frames++
}

func (p *nullPlatform) SetTitle(string) {}

func TestSaveScreenshot(t *testing.T) {
	plat := &nullPlatform{}
	vid := &video.Device{Platform: plat}

	// Draw the glyph for 0 at the origin.
	m, err := NewMachine(assemble(0x6000, 0xF029, 0xD005, 0x1206), nil, []peripheral.Peripheral{vid})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if err := Run(m, Options{Hz: 1000}); err != nil {
		t.Fatal(err)
	}
	if plat.frames == 0 {
		t.Fatal("nothing was rendered")
	}

	fs := afero.NewMemMapFs()
	saveScreenshot(fs, vid, "shot.png")

	fp, err := fs.Open("shot.png")
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()

	img, err := png.Decode(fp)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64*8 || b.Dy() != 32*8 {
		t.Fatalf("unexpected bounds %v", b)
	}

	// Top left pixel of the 0 glyph is lit.
	fg, _, _, _ := img.At(0, 0).RGBA()
	bg, _, _, _ := img.At(63*8, 31*8).RGBA()
	if fg == bg {
		t.Error("expected lit and unlit pixels to differ")
	}
}
