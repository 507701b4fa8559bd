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

// Registers is the 31-slot banked general-purpose register file
// (spec.md §3 "Register file"). r0..r7 and r15 are shared across every
// mode; r8..r12 are shared except in FIQ, which banks its own copies;
// r13 (SP) and r14 (LR) are banked per mode, with User and System
// sharing one bank. Banking is expressed as a pure resolve(mode,
// logical) -> slot function over a flat array rather than a duplicated
// per-mode struct, so there is exactly one place aliasing can go wrong
// (spec.md §9 "Banked register file without pointer graphs").
type Registers struct {
	slots [31]uint32
}

const (
	slotR8FIQ  = 13
	slotUserSP = 18
	slotUserLR = 19
	slotFIQSP  = 20
	slotFIQLR  = 21
	slotIRQSP  = 22
	slotIRQLR  = 23
	slotSVCSP  = 24
	slotSVCLR  = 25
	slotABTSP  = 26
	slotABTLR  = 27
	slotUNDSP  = 28
	slotUNDLR  = 29
	slotPC     = 30
)

// resolve maps (mode, logical register number) to a physical slot index.
func resolve(mode Mode, logical uint8) int {
	switch {
	case logical <= 7:
		return int(logical)
	case logical == 15:
		return slotPC
	case logical >= 8 && logical <= 12:
		if mode == ModeFIQ {
			return slotR8FIQ + int(logical-8)
		}
		return int(logical)
	case logical == 13:
		switch mode {
		case ModeFIQ:
			return slotFIQSP
		case ModeIRQ:
			return slotIRQSP
		case ModeSupervisor:
			return slotSVCSP
		case ModeAbort:
			return slotABTSP
		case ModeUndefined:
			return slotUNDSP
		default:
			return slotUserSP
		}
	case logical == 14:
		switch mode {
		case ModeFIQ:
			return slotFIQLR
		case ModeIRQ:
			return slotIRQLR
		case ModeSupervisor:
			return slotSVCLR
		case ModeAbort:
			return slotABTLR
		case ModeUndefined:
			return slotUNDLR
		default:
			return slotUserLR
		}
	default:
		return slotPC
	}
}

// Get reads logical register r as seen from mode.
func (r *Registers) Get(mode Mode, logical uint8) uint32 {
	return r.slots[resolve(mode, logical)]
}

// Set writes logical register r as seen from mode.
func (r *Registers) Set(mode Mode, logical uint8, value uint32) {
	r.slots[resolve(mode, logical)] = value
}
