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

import "github.com/jsgba/gbacore/internal/bits"

// ShiftKind selects one of the barrel shifter's four primitives
// (spec.md §4.5, C5 "Barrel shifter").
type ShiftKind int

const (
	LSL ShiftKind = iota
	LSR
	ASR
	ROR
)

// Shift applies kind to val by amount, given the incoming carry flag,
// returning the shifted value and the carry-out. amount is the actual
// shift count already resolved by the decoder (an LSR/ASR #0 immediate
// encodes a shift of 32, and the decoder is responsible for that
// translation before calling Shift). The table covers every amount in
// 0..=33 as required by spec.md §8.
func Shift(kind ShiftKind, val, amount uint32, carryIn bool) (uint32, bool) {
	switch kind {
	case LSL:
		return shiftLSL(val, amount, carryIn)
	case LSR:
		return shiftLSR(val, amount, carryIn)
	case ASR:
		return shiftASR(val, amount, carryIn)
	default:
		return shiftROR(val, amount, carryIn)
	}
}

func shiftLSL(val, amount uint32, carryIn bool) (uint32, bool) {
	switch {
	case amount == 0:
		return val, carryIn
	case amount < 32:
		return val << amount, bits.Bit(val, uint(32-amount))
	case amount == 32:
		return 0, bits.Bit(val, 0)
	default:
		return 0, false
	}
}

func shiftLSR(val, amount uint32, carryIn bool) (uint32, bool) {
	switch {
	case amount == 0:
		return val, carryIn
	case amount < 32:
		return val >> amount, bits.Bit(val, uint(amount-1))
	case amount == 32:
		return 0, bits.Bit(val, 31)
	default:
		return 0, false
	}
}

func shiftASR(val, amount uint32, carryIn bool) (uint32, bool) {
	switch {
	case amount == 0:
		return val, carryIn
	case amount < 32:
		return uint32(int32(val) >> amount), bits.Bit(val, uint(amount-1))
	default:
		if bits.Bit(val, 31) {
			return 0xffffffff, true
		}
		return 0, false
	}
}

func shiftROR(val, amount uint32, carryIn bool) (uint32, bool) {
	if amount == 0 {
		return val, carryIn
	}
	eff := amount % 32
	if eff == 0 {
		return val, bits.Bit(val, 31)
	}
	return bits.RotateRight32(val, uint(eff)), bits.Bit(val, uint(eff-1))
}

// RRX rotates val right by one bit through the carry flag, the special
// "rotate right extended" encoding used when a ROR #0 immediate shift
// appears in a data-processing operand.
func RRX(val uint32, carryIn bool) (uint32, bool) {
	out := val&1 != 0
	result := (val >> 1) | bits.SetBit(0, 31, carryIn)
	return result, out
}
