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

package debug

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/andreas-jonsson/virtualchip/emulator/processor"
	"github.com/andreas-jonsson/virtualchip/emulator/processor/cpu"
)

const HistorySize = 32

var EnableTrace, EnableStats bool

func init() {
	flag.BoolVar(&EnableTrace, "debug", false, "Trace every executed instruction")
	flag.BoolVar(&EnableStats, "stats", false, "Log execution statistics once per second")
}

// Device records the recent instruction history and optionally traces and
// reports statistics.
type Device struct {
	Trace, Stats bool

	historyChan         chan string
	numInstructionsLost uint64

	lastPC      uint16
	hasLast     bool
	updateStats time.Time

	p processor.Debug
}

func (m *Device) Install(p processor.Processor) error {
	m.p = p
	m.historyChan = make(chan string, HistorySize)
	m.updateStats = time.Now()
	return nil
}

func (m *Device) Name() string {
	return "Debugger"
}

func (m *Device) Reset() {
	m.hasLast = false
	m.clearHistory()
}

func (m *Device) Step(cycles int) error {
	if m.Stats && time.Since(m.updateStats) >= time.Second {
		m.logStats(m.p.GetStats(), time.Since(m.updateStats))
		m.updateStats = time.Now()
	}

	if cycles == 0 {
		return nil
	}

	regs := m.p.GetRegisters()
	pc, opcode := m.p.LastInstruction()

	// Stalled on a key wait, the same instruction would be repeated every cycle.
	if regs.Wait != processor.Running && m.hasLast && m.lastPC == pc {
		return nil
	}
	m.lastPC, m.hasLast = pc, true

	inst := fmt.Sprintf("0x%03X: %04X %-16v", pc, opcode, cpu.Decode(opcode))
	m.pushHistory(inst)

	if m.Trace {
		log.Printf("%s| %v", inst, regs)
	}
	return nil
}

func (m *Device) logStats(s processor.Stats, d time.Duration) {
	ips := float64(s.NumInstructions) / d.Seconds()
	log.Printf("IPS: %.0f, draws: %d, stalls: %d, unknown: %d", ips, s.NumDraws, s.NumStalls, s.NumUnknown)
}

func (m *Device) pushHistory(inst string) {
	select {
	case m.historyChan <- inst:
	default:
		<-m.historyChan
		m.numInstructionsLost++
		m.historyChan <- inst
	}
}

func (m *Device) clearHistory() {
	for {
		select {
		case <-m.historyChan:
			m.numInstructionsLost++
		default:
			return
		}
	}
}

// History returns the most recent instructions, oldest first.
func (m *Device) History() []string {
	var h []string
	for i := len(m.historyChan); i > 0; i-- {
		inst := <-m.historyChan
		h = append(h, inst)
		m.historyChan <- inst
	}
	return h
}

func (m *Device) ShowHistory() {
	log.Println("| Lost instructions:", m.numInstructionsLost)
	for _, inst := range m.History() {
		log.Println(inst)
	}
}
