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

// narrowHandler executes one decoded narrow (THUMB) instruction.
type narrowHandler func(c *CPU, opcode uint16) error

type narrowEntry struct {
	name    string
	mask    uint16
	pattern uint16
	handler narrowHandler
}

// narrowTable enumerates THUMB's nineteen instruction formats as an
// ordered (pattern, mask, handler) dispatch table (spec.md §9 "Dispatch
// tables"), masks matched to the architecture's own format boundaries
// rather than re-derived independently, except unconditional-branch,
// whose 0xf000 mask checks only the top four bits, so 0xe800-0xefff also
// decode as a branch.
var narrowTable = []narrowEntry{
	{"long-branch-link", 0xf000, 0xf000, execNarrowLongBranchLink},
	{"unconditional-branch", 0xf000, 0xe000, execNarrowBranch},
	{"swi", 0xff00, 0xdf00, execNarrowSWI},
	{"conditional-branch", 0xf000, 0xd000, execNarrowConditionalBranch},
	{"multiple-load-store", 0xf000, 0xc000, execNarrowMultipleLoadStore},
	{"push-pop", 0xf600, 0xb400, execNarrowPushPop},
	{"add-offset-to-sp", 0xff00, 0xb000, execNarrowAddOffsetToSP},
	{"load-address", 0xf000, 0xa000, execNarrowLoadAddress},
	{"sp-relative-load-store", 0xf000, 0x9000, execNarrowSPRelative},
	{"load-store-halfword", 0xf000, 0x8000, execNarrowLoadStoreHalfword},
	{"load-store-imm-offset", 0xe000, 0x6000, execNarrowLoadStoreImm},
	{"load-store-sign-extended", 0xf200, 0x5200, execNarrowLoadStoreSignExtended},
	{"load-store-reg-offset", 0xf200, 0x5000, execNarrowLoadStoreRegOffset},
	{"pc-relative-load", 0xf800, 0x4800, execNarrowPCRelativeLoad},
	{"hi-register-ops", 0xfc00, 0x4400, execNarrowHiRegisterOps},
	{"alu-operations", 0xfc00, 0x4000, execNarrowALU},
	{"mov-cmp-add-sub-imm", 0xe000, 0x2000, execNarrowMovCmpAddSubImm},
	{"add-subtract", 0xf800, 0x1800, execNarrowAddSubtract},
	{"move-shifted-register", 0xe000, 0x0000, execNarrowMoveShiftedRegister},
}

// ExecuteNarrow decodes and executes one narrow instruction halfword.
func ExecuteNarrow(c *CPU, opcode uint16) error {
	for _, e := range narrowTable {
		if opcode&e.mask == e.pattern {
			return e.handler(c, opcode)
		}
	}
	return errkinds.New(errkinds.UnknownInstruction, fmt.Sprintf("%#04x", opcode))
}

func execNarrowMoveShiftedRegister(c *CPU, opcode uint16) error {
	op := ShiftKind(bits.Field(uint32(opcode), 11, 2))
	amount := bits.Field(uint32(opcode), 6, 5)
	rs := uint8(bits.Field(uint32(opcode), 3, 3))
	rd := uint8(bits.Field(uint32(opcode), 0, 3))

	if amount == 0 && op != LSL {
		amount = 32
	}

	carryIn := c.Status.CPSR().C()
	value, carryOut := Shift(op, c.readReg(rs), amount, carryIn)
	c.writeReg(rd, value)
	c.Status.SetCPSR(c.Status.CPSR().setLogical(value, carryOut))
	return nil
}

func execNarrowAddSubtract(c *CPU, opcode uint16) error {
	immediate := bits.Bit(uint32(opcode), 10)
	subtract := bits.Bit(uint32(opcode), 9)
	rnOrImm := uint32(bits.Field(uint32(opcode), 6, 3))
	rs := uint8(bits.Field(uint32(opcode), 3, 3))
	rd := uint8(bits.Field(uint32(opcode), 0, 3))

	op2 := rnOrImm
	if !immediate {
		op2 = c.readReg(uint8(rnOrImm))
	}

	op1 := c.readReg(rs)
	op := OpADD
	if subtract {
		op = OpSUB
	}
	res := Execute(op, op1, op2, false)
	c.writeReg(rd, res.Value)
	c.Status.SetCPSR(c.Status.CPSR().setArithmetic(res.Value, res.Carry, res.Overflow))
	return nil
}

func execNarrowMovCmpAddSubImm(c *CPU, opcode uint16) error {
	op := bits.Field(uint32(opcode), 11, 2)
	rd := uint8(bits.Field(uint32(opcode), 8, 3))
	imm := bits.Field(uint32(opcode), 0, 8)

	switch op {
	case 0b00: // MOV
		c.writeReg(rd, imm)
		c.Status.SetCPSR(c.Status.CPSR().setLogical(imm, c.Status.CPSR().C()))
	case 0b01: // CMP
		res := Execute(OpCMP, c.readReg(rd), imm, false)
		c.Status.SetCPSR(c.Status.CPSR().setArithmetic(res.Value, res.Carry, res.Overflow))
	case 0b10: // ADD
		res := Execute(OpADD, c.readReg(rd), imm, false)
		c.writeReg(rd, res.Value)
		c.Status.SetCPSR(c.Status.CPSR().setArithmetic(res.Value, res.Carry, res.Overflow))
	default: // SUB
		res := Execute(OpSUB, c.readReg(rd), imm, false)
		c.writeReg(rd, res.Value)
		c.Status.SetCPSR(c.Status.CPSR().setArithmetic(res.Value, res.Carry, res.Overflow))
	}
	return nil
}

// thumbALUOps maps the format-4 4-bit op field to a wide Opcode.
var thumbALUOps = [16]Opcode{
	OpAND, OpEOR, OpMOV /* LSL, handled specially */, OpMOV,
	OpMOV, OpADC, OpSBC, OpMOV,
	OpTST, OpRSB /* NEG */, OpCMP, OpCMN,
	OpORR, OpMOV /* MUL, handled specially */, OpBIC, OpMVN,
}

func execNarrowALU(c *CPU, opcode uint16) error {
	op := bits.Field(uint32(opcode), 6, 4)
	rs := uint8(bits.Field(uint32(opcode), 3, 3))
	rd := uint8(bits.Field(uint32(opcode), 0, 3))
	carryIn := c.Status.CPSR().C()
	rdVal := c.readReg(rd)
	rsVal := c.readReg(rs)

	var value uint32
	var carryOut, haveArith bool
	var arith Result

	switch op {
	case 0b0010: // LSL
		value, carryOut = Shift(LSL, rdVal, rsVal&0xff, carryIn)
	case 0b0011: // LSR
		value, carryOut = Shift(LSR, rdVal, rsVal&0xff, carryIn)
	case 0b0100: // ASR
		value, carryOut = Shift(ASR, rdVal, rsVal&0xff, carryIn)
	case 0b0111: // ROR
		value, carryOut = Shift(ROR, rdVal, rsVal&0xff, carryIn)
	case 0b1001: // NEG
		arith = Execute(OpSUB, 0, rsVal, false)
		haveArith = true
	case 0b1101: // MUL
		value = rdVal * rsVal
		carryOut = carryIn
	default:
		op2 := rsVal
		aluOp := thumbALUOps[op]
		res := Execute(aluOp, rdVal, op2, carryIn)
		if aluOp.IsLogical() {
			value = res.Value
			carryOut = carryIn
		} else {
			arith = res
			haveArith = true
		}
	}

	if haveArith {
		value = arith.Value
	}

	if op != 0b1000 && op != 0b1010 && op != 0b1011 { // TST/CMP/CMN don't write Rd
		c.writeReg(rd, value)
	}

	if haveArith {
		c.Status.SetCPSR(c.Status.CPSR().setArithmetic(arith.Value, arith.Carry, arith.Overflow))
	} else {
		c.Status.SetCPSR(c.Status.CPSR().setLogical(value, carryOut))
	}
	return nil
}

func execNarrowHiRegisterOps(c *CPU, opcode uint16) error {
	hi1 := bits.Bit(uint32(opcode), 7)
	hi2 := bits.Bit(uint32(opcode), 6)
	op := bits.Field(uint32(opcode), 8, 2)
	rs := uint8(bits.Field(uint32(opcode), 3, 3))
	rd := uint8(bits.Field(uint32(opcode), 0, 3))
	if hi2 {
		rs += 8
	}
	if hi1 {
		rd += 8
	}

	switch op {
	case 0b00: // ADD
		c.writeReg(rd, c.readRegAsSource(rd)+c.readRegAsSource(rs))
		if rd == 15 {
			c.branched = true
		}
	case 0b01: // CMP
		res := Execute(OpCMP, c.readRegAsSource(rd), c.readRegAsSource(rs), false)
		c.Status.SetCPSR(c.Status.CPSR().setArithmetic(res.Value, res.Carry, res.Overflow))
	case 0b10: // MOV
		c.writeReg(rd, c.readRegAsSource(rs))
		if rd == 15 {
			c.branched = true
		}
	default: // BX
		target := c.readRegAsSource(rs)
		thumb := target&1 != 0
		c.Status.SetCPSR(c.Status.CPSR().WithT(thumb))
		if thumb {
			c.setPC(target &^ 1)
		} else {
			c.setPC(target &^ 3)
		}
		c.branched = true
	}
	return nil
}

func execNarrowPCRelativeLoad(c *CPU, opcode uint16) error {
	rd := uint8(bits.Field(uint32(opcode), 8, 3))
	imm := bits.Field(uint32(opcode), 0, 8) << 2
	base := (c.readRegAsSource(15)) &^ 3
	v, err := c.Mem.Read(base+imm, memory.Word)
	if err != nil {
		return err
	}
	c.writeReg(rd, v)
	return nil
}

func execNarrowLoadStoreRegOffset(c *CPU, opcode uint16) error {
	load := bits.Bit(uint32(opcode), 11)
	byteTransfer := bits.Bit(uint32(opcode), 10)
	ro := uint8(bits.Field(uint32(opcode), 6, 3))
	rb := uint8(bits.Field(uint32(opcode), 3, 3))
	rd := uint8(bits.Field(uint32(opcode), 0, 3))

	addr := c.readReg(rb) + c.readReg(ro)
	width := memory.Word
	if byteTransfer {
		width = memory.Byte
	}
	if load {
		v, err := c.Mem.Read(addr, width)
		if err != nil {
			return err
		}
		if byteTransfer {
			v &= 0xff
		}
		c.writeReg(rd, v)
	} else {
		if err := c.Mem.Write(addr, width, c.readReg(rd)); err != nil {
			return err
		}
	}
	return nil
}

func execNarrowLoadStoreSignExtended(c *CPU, opcode uint16) error {
	hFlag := bits.Bit(uint32(opcode), 11)
	signFlag := bits.Bit(uint32(opcode), 10)
	ro := uint8(bits.Field(uint32(opcode), 6, 3))
	rb := uint8(bits.Field(uint32(opcode), 3, 3))
	rd := uint8(bits.Field(uint32(opcode), 0, 3))

	addr := c.readReg(rb) + c.readReg(ro)

	if !signFlag && !hFlag { // STRH
		return c.Mem.Write(addr, memory.Half, c.readReg(rd))
	}

	if !signFlag && hFlag { // LDRH
		v, err := c.Mem.Read(addr, memory.Half)
		if err != nil {
			return err
		}
		c.writeReg(rd, v)
		return nil
	}

	if signFlag && !hFlag { // LDSB
		v, err := c.Mem.Read(addr, memory.Byte)
		if err != nil {
			return err
		}
		c.writeReg(rd, bits.SignExtend(v, 8))
		return nil
	}

	// LDSH
	v, err := c.Mem.Read(addr, memory.Half)
	if err != nil {
		return err
	}
	c.writeReg(rd, bits.SignExtend(v, 16))
	return nil
}

func execNarrowLoadStoreImm(c *CPU, opcode uint16) error {
	byteTransfer := bits.Bit(uint32(opcode), 12)
	load := bits.Bit(uint32(opcode), 11)
	imm := bits.Field(uint32(opcode), 6, 5)
	rb := uint8(bits.Field(uint32(opcode), 3, 3))
	rd := uint8(bits.Field(uint32(opcode), 0, 3))

	width := memory.Word
	offset := imm << 2
	if byteTransfer {
		width = memory.Byte
		offset = imm
	}

	addr := c.readReg(rb) + offset
	if load {
		v, err := c.Mem.Read(addr, width)
		if err != nil {
			return err
		}
		c.writeReg(rd, v)
	} else {
		return c.Mem.Write(addr, width, c.readReg(rd))
	}
	return nil
}

func execNarrowLoadStoreHalfword(c *CPU, opcode uint16) error {
	load := bits.Bit(uint32(opcode), 11)
	imm := bits.Field(uint32(opcode), 6, 5) << 1
	rb := uint8(bits.Field(uint32(opcode), 3, 3))
	rd := uint8(bits.Field(uint32(opcode), 0, 3))

	addr := c.readReg(rb) + imm
	if load {
		v, err := c.Mem.Read(addr, memory.Half)
		if err != nil {
			return err
		}
		c.writeReg(rd, v)
		return nil
	}
	return c.Mem.Write(addr, memory.Half, c.readReg(rd))
}

func execNarrowSPRelative(c *CPU, opcode uint16) error {
	load := bits.Bit(uint32(opcode), 11)
	rd := uint8(bits.Field(uint32(opcode), 8, 3))
	imm := bits.Field(uint32(opcode), 0, 8) << 2

	addr := c.readReg(13) + imm
	if load {
		v, err := c.Mem.Read(addr, memory.Word)
		if err != nil {
			return err
		}
		c.writeReg(rd, v)
		return nil
	}
	return c.Mem.Write(addr, memory.Word, c.readReg(rd))
}

func execNarrowLoadAddress(c *CPU, opcode uint16) error {
	sp := bits.Bit(uint32(opcode), 11)
	rd := uint8(bits.Field(uint32(opcode), 8, 3))
	imm := bits.Field(uint32(opcode), 0, 8) << 2

	var base uint32
	if sp {
		base = c.readReg(13)
	} else {
		base = c.readRegAsSource(15) &^ 3
	}
	c.writeReg(rd, base+imm)
	return nil
}

func execNarrowAddOffsetToSP(c *CPU, opcode uint16) error {
	sign := bits.Bit(uint32(opcode), 7)
	imm := bits.Field(uint32(opcode), 0, 7) << 2
	sp := c.readReg(13)
	if sign {
		c.writeReg(13, sp-imm)
	} else {
		c.writeReg(13, sp+imm)
	}
	return nil
}

func execNarrowPushPop(c *CPU, opcode uint16) error {
	load := bits.Bit(uint32(opcode), 11)
	pclr := bits.Bit(uint32(opcode), 8)
	list := bits.Field(uint32(opcode), 0, 8)

	sp := c.readReg(13)
	if load { // POP
		addr := sp
		for r := uint8(0); r < 8; r++ {
			if !bits.Bit(list, uint(r)) {
				continue
			}
			v, err := c.Mem.Read(addr, memory.Word)
			if err != nil {
				return err
			}
			c.writeReg(r, v)
			addr += 4
		}
		if pclr {
			v, err := c.Mem.Read(addr, memory.Word)
			if err != nil {
				return err
			}
			c.setPC(v &^ 1)
			c.branched = true
			addr += 4
		}
		c.writeReg(13, addr)
		return nil
	}

	// PUSH
	count := bits.PopCount(list)
	if pclr {
		count++
	}
	addr := sp - uint32(count)*4
	c.writeReg(13, addr)
	for r := uint8(0); r < 8; r++ {
		if !bits.Bit(list, uint(r)) {
			continue
		}
		if err := c.Mem.Write(addr, memory.Word, c.readReg(r)); err != nil {
			return err
		}
		addr += 4
	}
	if pclr {
		if err := c.Mem.Write(addr, memory.Word, c.readReg(14)); err != nil {
			return err
		}
	}
	return nil
}

func execNarrowMultipleLoadStore(c *CPU, opcode uint16) error {
	load := bits.Bit(uint32(opcode), 11)
	rb := uint8(bits.Field(uint32(opcode), 8, 3))
	list := bits.Field(uint32(opcode), 0, 8)

	addr := c.readReg(rb)
	for r := uint8(0); r < 8; r++ {
		if !bits.Bit(list, uint(r)) {
			continue
		}
		if load {
			v, err := c.Mem.Read(addr, memory.Word)
			if err != nil {
				return err
			}
			c.writeReg(r, v)
		} else {
			if err := c.Mem.Write(addr, memory.Word, c.readReg(r)); err != nil {
				return err
			}
		}
		addr += 4
	}
	c.writeReg(rb, addr)
	return nil
}

func execNarrowConditionalBranch(c *CPU, opcode uint16) error {
	cond := Condition(bits.Field(uint32(opcode), 8, 4))
	offset := bits.SignExtend(bits.Field(uint32(opcode), 0, 8)<<1, 9)
	if !cond.Holds(c.Status.CPSR()) {
		return nil
	}
	c.setPC(c.readRegAsSource(15) + offset)
	c.branched = true
	return nil
}

func execNarrowSWI(c *CPU, opcode uint16) error {
	c.raiseException(ModeSupervisor, vectorSWI)
	return nil
}

func execNarrowBranch(c *CPU, opcode uint16) error {
	offset := bits.SignExtend(bits.Field(uint32(opcode), 0, 11)<<1, 12)
	c.setPC(c.readRegAsSource(15) + offset)
	c.branched = true
	return nil
}

func execNarrowLongBranchLink(c *CPU, opcode uint16) error {
	low := bits.Bit(uint32(opcode), 11)
	offset := bits.Field(uint32(opcode), 0, 11)

	if !low {
		hi := bits.SignExtend(offset<<12, 23)
		c.writeReg(14, c.readRegAsSource(15)+hi)
		return nil
	}

	next := c.readReg(14) + (offset << 1)
	retAddr := (c.readReg(15) + 2) | 1
	c.writeReg(14, retAddr)
	c.setPC(next)
	c.branched = true
	return nil
}
