// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package cpu implements the ARM7TDMI register file, program status,
// barrel shifter, ALU, wide/narrow decoders and fetch/execute loop
// (spec.md §4.4-4.9, C4-C9): a flat register array, a status word, and a
// dispatch table searched per fetched instruction, extended here to both
// instruction widths and all seven processor modes.
package cpu

import (
	"github.com/jsgba/gbacore/internal/bits"
	"github.com/jsgba/gbacore/internal/errkinds"
	"github.com/jsgba/gbacore/internal/memory"
	"github.com/jsgba/gbacore/logger"
)

// DefaultCycleLimit bounds a run when no BIOS or interrupt controller is
// present to otherwise terminate a program (SPEC_FULL.md §4.11).
const DefaultCycleLimit = 10_000_000

// Exception vector addresses (spec.md GLOSSARY "Vector address").
const (
	vectorReset     = 0x00000000
	vectorUndefined = 0x00000004
	vectorSWI       = 0x00000008
	vectorPrefetch  = 0x0000000c
	vectorDataAbort = 0x00000010
	vectorIRQ       = 0x00000018
	vectorFIQ       = 0x0000001c
)

// CPU is the interpreter's complete architectural state: banked
// registers, CPSR/SPSRs, the memory map, and the coarse cycle counter
// used to bound execution.
type CPU struct {
	Regs   Registers
	Status *StatusWords
	Mem    *memory.Map

	Lenient    bool
	CycleLimit uint64

	cycles   uint64
	halted   bool
	branched bool
}

// New constructs a CPU wired to mem, reset into Supervisor mode with
// interrupts disabled (the state a game-pak image expects at entry).
func New(mem *memory.Map) *CPU {
	return &CPU{
		Regs:       Registers{},
		Status:     NewStatusWords(PSW(ModeSupervisor).WithI(true).WithF(true)),
		Mem:        mem,
		CycleLimit: DefaultCycleLimit,
	}
}

// Halted reports whether the run loop has reached a clean stop.
func (c *CPU) Halted() bool { return c.halted }

// Halt requests a clean stop at the next Step boundary.
func (c *CPU) Halt() { c.halted = true }

// Cycles returns the number of instructions executed so far.
func (c *CPU) Cycles() uint64 { return c.cycles }

func (c *CPU) readReg(logical uint8) uint32 {
	return c.Regs.Get(c.Status.Mode(), logical)
}

func (c *CPU) writeReg(logical uint8, v uint32) {
	c.Regs.Set(c.Status.Mode(), logical, v)
}

func (c *CPU) setPC(v uint32) {
	c.Regs.Set(c.Status.Mode(), 15, v)
}

// readRegAsSource applies the architectural PC-as-source prefetch offset
// (spec.md §9: "+8 wide / +4 narrow ... at the read site for
// r15-as-source"; r15-as-destination writes are left alone).
func (c *CPU) readRegAsSource(logical uint8) uint32 {
	v := c.readReg(logical)
	if logical != 15 {
		return v
	}
	if c.Status.CPSR().T() {
		return v + 4
	}
	return v + 8
}

// raiseException performs exception entry into mode at vector: banks the
// return address and CPSR into LR/SPSR of the new mode, switches to ARM
// state, and disables IRQ (FIQ too, only for the reset/FIQ vectors).
func (c *CPU) raiseException(mode Mode, vector uint32) {
	returnPC := c.readReg(15)
	oldCPSR := c.Status.CPSR()

	c.Regs.Set(mode, 14, returnPC)
	_ = c.Status.SetSPSR(mode, oldCPSR)

	next := oldCPSR.WithMode(mode).WithT(false).WithI(true)
	if mode == ModeFIQ || vector == vectorReset {
		next = next.WithF(true)
	}
	c.Status.SetCPSR(next)
	c.Regs.Set(mode, 15, vector)
	c.branched = true
}

// Step executes exactly one instruction: fetch, condition check (wide
// only), decode/dispatch, and PC advance (spec.md §4.9).
func (c *CPU) Step() error {
	mode := c.Status.Mode()
	pc := c.Regs.Get(mode, 15)
	narrow := c.Status.CPSR().T()

	c.branched = false

	if narrow {
		opcode, err := c.Mem.Read(pc, memory.Half)
		if err != nil {
			return err
		}
		if err := ExecuteNarrow(c, uint16(opcode)); err != nil {
			if handled, herr := c.handleLenient(err, pc); handled {
				return herr
			}
			return err
		}
		if !c.branched {
			c.Regs.Set(c.Status.Mode(), 15, pc+2)
		}
	} else {
		opcode, err := c.Mem.Read(pc, memory.Word)
		if err != nil {
			return err
		}
		cond := Condition(bits.Field(opcode, 28, 4))
		if cond.Holds(c.Status.CPSR()) {
			if err := ExecuteWide(c, opcode); err != nil {
				if handled, herr := c.handleLenient(err, pc); handled {
					return herr
				}
				return err
			}
		}
		if !c.branched {
			c.Regs.Set(c.Status.Mode(), 15, pc+4)
		}
	}

	c.cycles++
	if c.cycles >= c.CycleLimit {
		c.halted = true
	}
	return nil
}

// handleLenient applies the lenient-mode UnknownInstruction policy
// (spec.md §7): log the opcode and advance the PC instead of aborting.
// The bool return reports whether err was handled; the error return is
// always nil when handled (present for call-site symmetry).
func (c *CPU) handleLenient(err error, pc uint32) (bool, error) {
	if !c.Lenient || !errkinds.Is(err, errkinds.UnknownInstruction) {
		return false, nil
	}
	logUnknown(pc, err)
	width := uint32(4)
	if c.Status.CPSR().T() {
		width = 2
	}
	c.Regs.Set(c.Status.Mode(), 15, pc+width)
	return true, nil
}

// Run steps the CPU until it halts, the cycle limit is reached, or an
// error occurs.
func (c *CPU) Run() error {
	if c.CycleLimit == 0 {
		c.CycleLimit = DefaultCycleLimit
	}
	for !c.halted {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

func logUnknown(pc uint32, err error) {
	logger.Logf("CPU", "unknown instruction at %#08x: %v", pc, err)
}
