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

import "github.com/jsgba/gbacore/internal/errkinds"

// Mode is the 5-bit mode code held in bits 4..0 of CPSR (spec.md §3
// "Program status").
type Mode uint32

const (
	ModeUser       Mode = 0b10000
	ModeFIQ        Mode = 0b10001
	ModeIRQ        Mode = 0b10010
	ModeSupervisor Mode = 0b10011
	ModeAbort      Mode = 0b10111
	ModeUndefined  Mode = 0b11011
	ModeSystem     Mode = 0b11111
)

// Valid reports whether m is one of the seven architecturally defined
// mode codes.
func (m Mode) Valid() bool {
	switch m {
	case ModeUser, ModeFIQ, ModeIRQ, ModeSupervisor, ModeAbort, ModeUndefined, ModeSystem:
		return true
	}
	return false
}

// HasSPSR reports whether this mode has a private SPSR. User and System
// modes do not (spec.md §3).
func (m Mode) HasSPSR() bool {
	return m.Valid() && m != ModeUser && m != ModeSystem
}

func (m Mode) String() string {
	switch m {
	case ModeUser:
		return "usr"
	case ModeFIQ:
		return "fiq"
	case ModeIRQ:
		return "irq"
	case ModeSupervisor:
		return "svc"
	case ModeAbort:
		return "abt"
	case ModeUndefined:
		return "und"
	case ModeSystem:
		return "sys"
	default:
		return "???"
	}
}

// checkValid returns an InvariantViolation if m is not one of the seven
// valid mode codes.
func checkValid(m Mode) error {
	if !m.Valid() {
		return errkinds.New(errkinds.InvariantViolation, "invalid CPSR mode code")
	}
	return nil
}
