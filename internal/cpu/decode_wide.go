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

package cpu

import (
	"fmt"

	"github.com/jsgba/gbacore/internal/bits"
	"github.com/jsgba/gbacore/internal/errkinds"
	"github.com/jsgba/gbacore/internal/memory"
)

// wideHandler executes one decoded wide (ARM) instruction.
type wideHandler func(c *CPU, opcode uint32) error

// wideEntry is one row of the ordered pattern/mask dispatch table
// (spec.md §4.7, §9 "Dispatch tables": "an ordered list of (pattern,
// mask, handler) tuples searched linearly"). Entries are ordered most
// specific mask first so a general-purpose class placed later (data
// processing) never shadows a narrower one (BX, SWI, multiply, ...).
type wideEntry struct {
	name    string
	mask    uint32
	pattern uint32
	handler wideHandler
}

var wideTable = []wideEntry{
	{"bx", 0x0ffffff0, 0x012fff10, execBX},
	{"swi", 0x0f000000, 0x0f000000, execSWI},
	{"swap", 0x0fb00ff0, 0x01000090, execSwap},
	{"mrs", 0x0fbf0fff, 0x010f0000, execMRS},
	{"msr-reg", 0x0fb0fff0, 0x0120f000, execMSRReg},
	{"msr-imm", 0x0fb0f000, 0x0320f000, execMSRImm},
	{"mul", 0x0fc000f0, 0x00000090, execMUL},
	{"mull", 0x0f8000f0, 0x00800090, execMULL},
	{"halfword-transfer", 0x0e000090, 0x00000090, execHalfwordTransfer},
	{"undefined", 0x0e000010, 0x06000010, execUndefined},
	{"single-transfer", 0x0c000000, 0x04000000, execSingleTransfer},
	{"block-transfer", 0x0e000000, 0x08000000, execBlockTransfer},
	{"branch", 0x0e000000, 0x0a000000, execBranch},
	{"coproc", 0x0c000000, 0x0c000000, execCoprocessor},
	{"data-processing", 0x0c000000, 0x00000000, execDataProcessing},
}

// ExecuteWide decodes and executes one wide instruction word, after the
// condition predicate has already been checked by the caller.
func ExecuteWide(c *CPU, opcode uint32) error {
	for _, e := range wideTable {
		if opcode&e.mask == e.pattern {
			return e.handler(c, opcode)
		}
	}
	return errkinds.New(errkinds.UnknownInstruction, fmt.Sprintf("%#08x", opcode))
}

func execBX(c *CPU, opcode uint32) error {
	rm := uint8(opcode & 0xf)
	target := c.readReg(rm)
	thumb := target&1 != 0
	c.Status.SetCPSR(c.Status.CPSR().WithT(thumb))
	if thumb {
		c.setPC(target &^ 1)
	} else {
		c.setPC(target &^ 3)
	}
	c.branched = true
	return nil
}

func execSWI(c *CPU, opcode uint32) error {
	c.raiseException(ModeSupervisor, vectorSWI)
	return nil
}

func execUndefined(c *CPU, opcode uint32) error {
	c.raiseException(ModeUndefined, vectorUndefined)
	return nil
}

func execSwap(c *CPU, opcode uint32) error {
	byteSwap := bits.Bit(opcode, 22)
	rn := uint8(bits.Field(opcode, 16, 4))
	rd := uint8(bits.Field(opcode, 12, 4))
	rm := uint8(bits.Field(opcode, 0, 4))

	if rn == 15 || rd == 15 || rm == 15 {
		return errkinds.New(errkinds.InvariantViolation, "SWP forbids r15 in Rn, Rd or Rm")
	}

	addr := c.readReg(rn)
	width := memory.Word
	if byteSwap {
		width = memory.Byte
	}

	old, err := c.Mem.Read(addr, width)
	if err != nil {
		return err
	}
	if err := c.Mem.Write(addr, width, c.readReg(rm)); err != nil {
		return err
	}
	c.writeReg(rd, old)
	return nil
}

func execMRS(c *CPU, opcode uint32) error {
	rd := uint8(bits.Field(opcode, 12, 4))
	fromSPSR := bits.Bit(opcode, 22)
	if fromSPSR {
		v, err := c.Status.CurrentSPSR()
		if err != nil {
			return err
		}
		c.writeReg(rd, uint32(v))
		return nil
	}
	c.writeReg(rd, uint32(c.Status.CPSR()))
	return nil
}

func execMSRReg(c *CPU, opcode uint32) error {
	rm := uint8(opcode & 0xf)
	return msrWrite(c, opcode, c.readReg(rm))
}

func execMSRImm(c *CPU, opcode uint32) error {
	imm := bits.Field(opcode, 0, 8)
	rotate := bits.Field(opcode, 8, 4) * 2
	v, _ := Shift(ROR, imm, rotate, false)
	return msrWrite(c, opcode, v)
}

// msrWrite implements the MSR flags-only semantics: when bit 16 (the
// control-field bit of the field mask) is clear, only bits 31..28 of the
// target PSR change (spec.md §8).
func msrWrite(c *CPU, opcode uint32, operand uint32) error {
	toSPSR := bits.Bit(opcode, 22)
	flagsOnly := !bits.Bit(opcode, 16)

	if toSPSR {
		cur, err := c.Status.CurrentSPSR()
		if err != nil {
			return err
		}
		next := PSW(operand)
		if flagsOnly {
			next = cur.WithFlagsFrom(PSW(operand))
		}
		return c.Status.SetCurrentSPSR(next)
	}

	cur := c.Status.CPSR()
	next := PSW(operand)
	if flagsOnly {
		next = cur.WithFlagsFrom(PSW(operand))
	} else if err := checkValid(next.Mode()); err != nil {
		return err
	}
	c.Status.SetCPSR(next)
	return nil
}

func execMUL(c *CPU, opcode uint32) error {
	accumulate := bits.Bit(opcode, 21)
	setFlags := bits.Bit(opcode, 20)
	rd := uint8(bits.Field(opcode, 16, 4))
	rn := uint8(bits.Field(opcode, 12, 4))
	rs := uint8(bits.Field(opcode, 8, 4))
	rm := uint8(bits.Field(opcode, 0, 4))

	if rd == 15 || rn == 15 || rs == 15 || rm == 15 {
		return errkinds.New(errkinds.InvariantViolation, "MUL/MLA forbids r15 in any field")
	}
	if rd == rm {
		return errkinds.New(errkinds.InvariantViolation, "MUL/MLA with Rd == Rm is unpredictable")
	}

	result := c.readReg(rm) * c.readReg(rs)
	if accumulate {
		result += c.readReg(rn)
	}
	c.writeReg(rd, result)
	if setFlags {
		c.Status.SetCPSR(c.Status.CPSR().setLogical(result, c.Status.CPSR().C()))
	}
	return nil
}

func execMULL(c *CPU, opcode uint32) error {
	signed := bits.Bit(opcode, 22)
	accumulate := bits.Bit(opcode, 21)
	setFlags := bits.Bit(opcode, 20)
	rdHi := uint8(bits.Field(opcode, 16, 4))
	rdLo := uint8(bits.Field(opcode, 12, 4))
	rs := uint8(bits.Field(opcode, 8, 4))
	rm := uint8(bits.Field(opcode, 0, 4))

	if rdHi == 15 || rdLo == 15 || rm == 15 {
		return errkinds.New(errkinds.InvariantViolation, "MULL/MLAL forbids r15 in RdHi, RdLo or Rm")
	}
	if rdHi == rdLo || rdHi == rm || rdLo == rm {
		return errkinds.New(errkinds.InvariantViolation, "MULL/MLAL requires RdHi, RdLo and Rm to be distinct")
	}

	var product uint64
	if signed {
		product = uint64(int64(int32(c.readReg(rm))) * int64(int32(c.readReg(rs))))
	} else {
		product = uint64(c.readReg(rm)) * uint64(c.readReg(rs))
	}
	if accumulate {
		product += uint64(c.readReg(rdHi))<<32 | uint64(c.readReg(rdLo))
	}

	lo := uint32(product)
	hi := uint32(product >> 32)
	c.writeReg(rdLo, lo)
	c.writeReg(rdHi, hi)
	if setFlags {
		c.Status.SetCPSR(c.Status.CPSR().WithN(bits.Bit(hi, 31)).WithZ(product == 0))
	}
	return nil
}

func execHalfwordTransfer(c *CPU, opcode uint32) error {
	load := bits.Bit(opcode, 20)
	writeback := bits.Bit(opcode, 21)
	preIndex := bits.Bit(opcode, 24)
	up := bits.Bit(opcode, 23)
	immOffset := bits.Bit(opcode, 22)
	rn := uint8(bits.Field(opcode, 16, 4))
	rd := uint8(bits.Field(opcode, 12, 4))
	sh := bits.Field(opcode, 5, 2)

	var offset uint32
	if immOffset {
		offset = bits.Field(opcode, 8, 4)<<4 | bits.Field(opcode, 0, 4)
	} else {
		rm := uint8(bits.Field(opcode, 0, 4))
		offset = c.readReg(rm)
	}

	base := c.readReg(rn)
	addr := base
	if preIndex {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	if load {
		var v uint32
		var err error
		switch sh {
		case 0b01: // unsigned halfword
			v, err = c.Mem.Read(addr, memory.Half)
		case 0b10: // signed byte
			var b uint32
			b, err = c.Mem.Read(addr, memory.Byte)
			v = bits.SignExtend(b, 8)
		default: // signed halfword
			v, err = c.Mem.Read(addr, memory.Half)
			v = bits.SignExtend(v, 16)
		}
		if err != nil {
			return err
		}
		c.writeReg(rd, v)
	} else {
		if err := c.Mem.Write(addr, memory.Half, c.readReg(rd)); err != nil {
			return err
		}
	}

	if !preIndex {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
		c.writeReg(rn, addr)
	} else if writeback {
		c.writeReg(rn, addr)
	}
	return nil
}

func execSingleTransfer(c *CPU, opcode uint32) error {
	immediate := !bits.Bit(opcode, 25)
	preIndex := bits.Bit(opcode, 24)
	up := bits.Bit(opcode, 23)
	byteWidth := bits.Bit(opcode, 22)
	writeback := bits.Bit(opcode, 21)
	load := bits.Bit(opcode, 20)
	rn := uint8(bits.Field(opcode, 16, 4))
	rd := uint8(bits.Field(opcode, 12, 4))

	var offset uint32
	if immediate {
		offset = bits.Field(opcode, 0, 12)
	} else {
		rm := uint8(bits.Field(opcode, 0, 4))
		shiftType := ShiftKind(bits.Field(opcode, 5, 2))
		shiftAmount := bits.Field(opcode, 7, 5)
		carryIn := c.Status.CPSR().C()
		if shiftAmount == 0 && shiftType != LSL {
			if shiftType == ROR {
				offset, _ = RRX(c.readReg(rm), carryIn)
			} else {
				offset, _ = Shift(shiftType, c.readReg(rm), 32, carryIn)
			}
		} else {
			offset, _ = Shift(shiftType, c.readReg(rm), shiftAmount, carryIn)
		}
	}

	base := c.readRegAsSource(rn)
	addr := base
	if preIndex {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	width := memory.Word
	if byteWidth {
		width = memory.Byte
	}

	if load {
		v, err := c.Mem.Read(addr, width)
		if err != nil {
			return err
		}
		c.writeReg(rd, v)
	} else {
		if err := c.Mem.Write(addr, width, c.readReg(rd)); err != nil {
			return err
		}
	}

	if !preIndex {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
		c.writeReg(rn, addr)
	} else if writeback {
		c.writeReg(rn, addr)
	}
	return nil
}

func execBlockTransfer(c *CPU, opcode uint32) error {
	preIndex := bits.Bit(opcode, 24)
	up := bits.Bit(opcode, 23)
	sBit := bits.Bit(opcode, 22)
	writeback := bits.Bit(opcode, 21)
	load := bits.Bit(opcode, 20)
	rn := uint8(bits.Field(opcode, 16, 4))
	list := bits.Field(opcode, 0, 16)

	pcInList := bits.Bit(list, 15)
	regMode := c.Status.Mode()
	if sBit && !pcInList {
		regMode = ModeUser
	}

	count := bits.PopCount(list)
	base := c.readReg(rn)

	var start uint32
	if up {
		start = base
	} else {
		start = base - uint32(count)*4
	}
	addr := start
	if (up && preIndex) || (!up && !preIndex) {
		addr += 4
	}

	for r := uint8(0); r < 16; r++ {
		if !bits.Bit(list, uint(r)) {
			continue
		}
		if load {
			v, err := c.Mem.Read(addr, memory.Word)
			if err != nil {
				return err
			}
			c.Regs.Set(regMode, r, v)
			if r == 15 {
				c.branched = true
			}
		} else {
			if err := c.Mem.Write(addr, memory.Word, c.Regs.Get(regMode, r)); err != nil {
				return err
			}
		}
		addr += 4
	}

	if load && sBit && pcInList {
		spsr, err := c.Status.CurrentSPSR()
		if err != nil {
			return err
		}
		c.Status.SetCPSR(spsr)
	}

	if writeback {
		if up {
			c.writeReg(rn, base+uint32(count)*4)
		} else {
			c.writeReg(rn, base-uint32(count)*4)
		}
	}
	return nil
}

func execBranch(c *CPU, opcode uint32) error {
	link := bits.Bit(opcode, 24)
	offset := bits.SignExtend(bits.Field(opcode, 0, 24)<<2, 26)
	retAddr := c.readReg(15) + 4
	pc := c.readRegAsSource(15)
	if link {
		c.writeReg(14, retAddr)
	}
	c.setPC(pc + offset)
	c.branched = true
	return nil
}

func execCoprocessor(c *CPU, opcode uint32) error {
	return errkinds.New(errkinds.Unimplemented, fmt.Sprintf("coprocessor instruction %#08x", opcode))
}

func execDataProcessing(c *CPU, opcode uint32) error {
	op := Opcode(bits.Field(opcode, 21, 4))
	setFlags := bits.Bit(opcode, 20)
	rn := uint8(bits.Field(opcode, 16, 4))
	rd := uint8(bits.Field(opcode, 12, 4))
	immediate := bits.Bit(opcode, 25)

	carryIn := c.Status.CPSR().C()
	var op2 uint32
	var shifterCarry bool

	if immediate {
		imm := bits.Field(opcode, 0, 8)
		rotate := bits.Field(opcode, 8, 4) * 2
		op2, shifterCarry = Shift(ROR, imm, rotate, carryIn)
		if rotate == 0 {
			shifterCarry = carryIn
		}
	} else {
		rm := uint8(bits.Field(opcode, 0, 4))
		shiftType := ShiftKind(bits.Field(opcode, 5, 2))
		var amount uint32
		if bits.Bit(opcode, 4) {
			rs := uint8(bits.Field(opcode, 8, 4))
			amount = c.readReg(rs) & 0xff
		} else {
			amount = bits.Field(opcode, 7, 5)
			if amount == 0 && shiftType != LSL {
				if shiftType == ROR {
					op2, shifterCarry = RRX(c.readRegAsSource(rm), carryIn)
					goto haveOperand
				}
				amount = 32
			}
		}
		op2, shifterCarry = Shift(shiftType, c.readRegAsSource(rm), amount, carryIn)
	}
haveOperand:

	op1 := c.readRegAsSource(rn)
	result := Execute(op, op1, op2, carryIn)

	if op.WritesResult() {
		if rd == 15 {
			c.branched = true
		}
		c.writeReg(rd, result.Value)
	}

	if setFlags {
		cpsr := c.Status.CPSR()
		if rd == 15 {
			spsr, err := c.Status.CurrentSPSR()
			if err != nil {
				return err
			}
			c.Status.SetCPSR(spsr)
			return nil
		}
		if op.IsLogical() {
			cpsr = cpsr.setLogical(result.Value, shifterCarry)
		} else {
			cpsr = cpsr.setArithmetic(result.Value, result.Carry, result.Overflow)
		}
		c.Status.SetCPSR(cpsr)
	}
	return nil
}
