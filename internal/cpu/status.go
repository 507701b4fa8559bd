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
	"strings"

	"github.com/jsgba/gbacore/internal/bits"
	"github.com/jsgba/gbacore/internal/errkinds"
)

// PSW is a 32-bit program status word: CPSR or one of the five SPSRs
// (spec.md §3 "Program status"). Bit 31 N, 30 Z, 29 C, 28 V, 7 I, 6 F,
// 5 T, 4..0 mode code.
type PSW uint32

const (
	bitN = 31
	bitZ = 30
	bitC = 29
	bitV = 28
	bitI = 7
	bitF = 6
	bitT = 5
)

func (p PSW) N() bool { return bits.Bit(uint32(p), bitN) }
func (p PSW) Z() bool { return bits.Bit(uint32(p), bitZ) }
func (p PSW) C() bool { return bits.Bit(uint32(p), bitC) }
func (p PSW) V() bool { return bits.Bit(uint32(p), bitV) }
func (p PSW) I() bool { return bits.Bit(uint32(p), bitI) }
func (p PSW) F() bool { return bits.Bit(uint32(p), bitF) }
func (p PSW) T() bool { return bits.Bit(uint32(p), bitT) }

func (p PSW) Mode() Mode { return Mode(bits.Field(uint32(p), 0, 5)) }

func (p PSW) withBit(n uint, v bool) PSW { return PSW(bits.SetBit(uint32(p), n, v)) }

func (p PSW) WithN(v bool) PSW    { return p.withBit(bitN, v) }
func (p PSW) WithZ(v bool) PSW    { return p.withBit(bitZ, v) }
func (p PSW) WithC(v bool) PSW    { return p.withBit(bitC, v) }
func (p PSW) WithV(v bool) PSW    { return p.withBit(bitV, v) }
func (p PSW) WithI(v bool) PSW    { return p.withBit(bitI, v) }
func (p PSW) WithF(v bool) PSW    { return p.withBit(bitF, v) }
func (p PSW) WithT(v bool) PSW    { return p.withBit(bitT, v) }
func (p PSW) WithMode(m Mode) PSW { return PSW((uint32(p) &^ 0x1f) | uint32(m)) }

// WithFlagsFrom replaces the top nibble (N,Z,C,V) of p with those of src,
// leaving every other bit untouched. This is the MSR-flags-only write
// described in spec.md §8 ("only bits 31..28 of the target PSR change").
func (p PSW) WithFlagsFrom(src PSW) PSW {
	return PSW((uint32(p) & 0x0fffffff) | (uint32(src) & 0xf0000000))
}

// setArithmetic centralizes N/Z/C/V for an arithmetic ALU result
// (spec.md §9 "Flag writes").
func (p PSW) setArithmetic(result uint32, carry, overflow bool) PSW {
	return p.WithN(bits.Bit(result, 31)).WithZ(result == 0).WithC(carry).WithV(overflow)
}

// setLogical centralizes N/Z for a logical ALU result; C takes the
// shifter's carry-out only, never a value computed by the ALU itself
// (spec.md §9 "Shifter carry and data-processing C").
func (p PSW) setLogical(result uint32, shifterCarry bool) PSW {
	return p.WithN(bits.Bit(result, 31)).WithZ(result == 0).WithC(shifterCarry)
}

func (p PSW) String() string {
	s := strings.Builder{}
	flag := func(set bool, c byte) {
		if set {
			s.WriteByte(c)
		} else {
			s.WriteByte(c - 'A' + 'a')
		}
	}
	flag(p.N(), 'N')
	flag(p.Z(), 'Z')
	flag(p.C(), 'C')
	flag(p.V(), 'V')
	flag(p.I(), 'I')
	flag(p.F(), 'F')
	flag(p.T(), 'T')
	s.WriteByte(' ')
	s.WriteString(p.Mode().String())
	return s.String()
}

// StatusWords holds CPSR and the five mode-private SPSRs.
type StatusWords struct {
	cpsr PSW
	spsr map[Mode]PSW
}

// NewStatusWords returns a status file with the given initial CPSR and
// zeroed SPSRs.
func NewStatusWords(initial PSW) *StatusWords {
	return &StatusWords{
		cpsr: initial,
		spsr: map[Mode]PSW{
			ModeFIQ:        0,
			ModeIRQ:        0,
			ModeSupervisor: 0,
			ModeAbort:      0,
			ModeUndefined:  0,
		},
	}
}

func (s *StatusWords) CPSR() PSW        { return s.cpsr }
func (s *StatusWords) SetCPSR(v PSW)    { s.cpsr = v }
func (s *StatusWords) Mode() Mode       { return s.cpsr.Mode() }

// SPSR returns the private SPSR of mode. User and System modes have
// none; reading there is an InvariantViolation (spec.md §3).
func (s *StatusWords) SPSR(mode Mode) (PSW, error) {
	if !mode.HasSPSR() {
		return 0, errkinds.New(errkinds.InvariantViolation, "SPSR access in mode without a private SPSR: "+mode.String())
	}
	return s.spsr[mode], nil
}

// SetSPSR writes the private SPSR of mode.
func (s *StatusWords) SetSPSR(mode Mode, v PSW) error {
	if !mode.HasSPSR() {
		return errkinds.New(errkinds.InvariantViolation, "SPSR access in mode without a private SPSR: "+mode.String())
	}
	s.spsr[mode] = v
	return nil
}

// CurrentSPSR returns the SPSR of the currently selected mode.
func (s *StatusWords) CurrentSPSR() (PSW, error) {
	return s.SPSR(s.Mode())
}

// SetCurrentSPSR writes the SPSR of the currently selected mode.
func (s *StatusWords) SetCurrentSPSR(v PSW) error {
	return s.SetSPSR(s.Mode(), v)
}
