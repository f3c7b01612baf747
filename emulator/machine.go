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
	"fmt"
	"log"

	"github.com/andreas-jonsson/virtualchip/emulator/peripheral"
	"github.com/andreas-jonsson/virtualchip/emulator/processor/cpu"
)

// Machine is a CPU with the peripherals that drive it. Inputs are stepped before
// the CPU and outputs after it, so a frame is presented in the cycle it was drawn.
type Machine struct {
	cpu             *cpu.CPU
	inputs, outputs []peripheral.Peripheral
}

func NewMachine(program []byte, inputs, outputs []peripheral.Peripheral, opts ...cpu.Option) (*Machine, error) {
	p, err := cpu.NewCPU(program, opts...)
	if err != nil {
		return nil, err
	}

	m := &Machine{cpu: p, inputs: inputs, outputs: outputs}
	for _, d := range m.peripherals() {
		log.Print("Installing device: ", d.Name())
		if err := d.Install(p); err != nil {
			m.Close()
			return nil, fmt.Errorf("could not install %s: %w", d.Name(), err)
		}
	}
	return m, nil
}

func (m *Machine) peripherals() []peripheral.Peripheral {
	return append(append([]peripheral.Peripheral{}, m.inputs...), m.outputs...)
}

func (m *Machine) CPU() *cpu.CPU {
	return m.cpu
}

func (m *Machine) Step() (int, error) {
	for _, d := range m.inputs {
		if err := d.Step(0); err != nil {
			return 0, err
		}
	}

	// Outputs still see a failed step so the debugger can record it.
	cycles, cpuErr := m.cpu.Step()
	for _, d := range m.outputs {
		if err := d.Step(cycles); err != nil && cpuErr == nil {
			return cycles, err
		}
	}
	return cycles, cpuErr
}

func (m *Machine) Reset() {
	m.cpu.Reset()
	for _, d := range m.peripherals() {
		d.Reset()
	}
}

func (m *Machine) Close() error {
	var firstErr error
	for _, d := range m.peripherals() {
		if c, ok := d.(peripheral.PeripheralCloser); ok {
			if err := c.Close(); err != nil {
				log.Print(err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}
	return firstErr
}
