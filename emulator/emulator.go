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
	"flag"
	"log"
	"os"
	"time"

	"github.com/andreas-jonsson/virtualchip/emulator/peripheral"
	"github.com/andreas-jonsson/virtualchip/emulator/peripheral/debug"
	"github.com/andreas-jonsson/virtualchip/emulator/peripheral/joystick"
	"github.com/andreas-jonsson/virtualchip/emulator/peripheral/keyboard"
	"github.com/andreas-jonsson/virtualchip/emulator/peripheral/speaker"
	"github.com/andreas-jonsson/virtualchip/emulator/peripheral/video"
	"github.com/andreas-jonsson/virtualchip/emulator/processor/cpu"
	"github.com/andreas-jonsson/virtualchip/emulator/rom"
	"github.com/andreas-jonsson/virtualchip/platform"
	"github.com/andreas-jonsson/virtualchip/platform/dialog"
	"github.com/spf13/afero"
)

var (
	romImage   = "roms/default.ch8"
	screenshot string
)

var (
	cyclesPerSecond int
	strict, verticalWrap, horizontalWrap,
	restartOnFinish bool
)

func init() {
	if p, ok := os.LookupEnv("VC8_DEFAULT_ROM"); ok {
		romImage = p
	}

	flag.StringVar(&romImage, "rom", romImage, "Path to program image")
	flag.IntVar(&cyclesPerSecond, "hz", 60, "Instructions executed per second")
	flag.BoolVar(&strict, "strict", false, "Treat unknown opcodes as fatal")
	flag.BoolVar(&verticalWrap, "vwrap", false, "Wrap sprites at the bottom edge instead of clipping")
	flag.BoolVar(&horizontalWrap, "hwrap", false, "Wrap sprites at the right edge instead of clipping")
	flag.BoolVar(&restartOnFinish, "restart-on-finish", false, "Restart the program when it jumps to itself")
	flag.StringVar(&screenshot, "screenshot", "", "Save the last frame as PNG on exit")
}

// Options collects what the command line configures for one machine.
type Options struct {
	Hz              int
	Strict          bool
	VerticalWrap    bool
	HorizontalWrap  bool
	RestartOnFinish bool
}

func (o Options) cpuOptions() []cpu.Option {
	return []cpu.Option{
		cpu.WithStrict(o.Strict),
		cpu.WithVerticalWrap(o.VerticalWrap),
		cpu.WithHorizontalWrap(o.HorizontalWrap),
	}
}

// Start is the main loop handed to platform.Start.
func Start(p platform.Platform) {
	opt := Options{
		Hz:              cyclesPerSecond,
		Strict:          strict,
		VerticalWrap:    verticalWrap,
		HorizontalWrap:  horizontalWrap,
		RestartOnFinish: restartOnFinish,
	}

	program, err := rom.Load(p.FileSystem(), romImage)
	if err != nil {
		dialog.ShowErrorMessage(err.Error())
		return
	}

	dbg := &debug.Device{Trace: debug.EnableTrace, Stats: debug.EnableStats}
	vid := &video.Device{Platform: p}
	inputs := []peripheral.Peripheral{
		&keyboard.Device{Platform: p},
		&joystick.Device{Enabled: joystick.Enabled},
	}
	outputs := []peripheral.Peripheral{
		vid,
		&speaker.Device{Platform: p},
		dbg,
	}

	m, err := NewMachine(program, inputs, outputs, opt.cpuOptions()...)
	if err != nil {
		dialog.ShowErrorMessage(err.Error())
		return
	}
	defer m.Close()

	if screenshot != "" {
		defer saveScreenshot(p.FileSystem(), vid, screenshot)
	}

	for {
		if err := Run(m, opt); err != nil {
			dbg.ShowHistory()
			dialog.ShowErrorMessage(err.Error())
			return
		}
		if dialog.ShutdownRequested() {
			return
		}

		log.Print("Program finished!")
		if !waitForRestart(m) {
			return
		}
	}
}

func saveScreenshot(fs afero.Fs, vid *video.Device, name string) {
	fp, err := fs.Create(name)
	if err != nil {
		log.Print(err)
		return
	}
	defer fp.Close()

	if err := vid.Screenshot(fp, 8); err != nil {
		log.Print(err)
		return
	}
	log.Print("Screenshot saved: ", name)
}

// Run steps the machine at opt.Hz until it fails, finishes or a shutdown is requested.
func Run(m *Machine, opt Options) error {
	hz := opt.Hz
	if hz <= 0 {
		hz = 60
	}

	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()

	for range ticker.C {
		if dialog.ShutdownRequested() {
			return nil
		}
		if dialog.RestartRequested() {
			m.Reset()
		}

		if _, err := m.Step(); err != nil {
			return err
		}

		if m.CPU().IsFinished() {
			if !opt.RestartOnFinish {
				return nil
			}
			m.Reset()
		}
	}
	return nil
}

// waitForRestart keeps the last frame on screen until the user restarts or quits.
func waitForRestart(m *Machine) bool {
	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()

	for range ticker.C {
		if dialog.ShutdownRequested() {
			return false
		}
		if dialog.RestartRequested() {
			m.Reset()
			return true
		}
	}
	return false
}
