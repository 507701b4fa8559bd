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

// Package bits collects the small bit-twiddling primitives shared by the
// register file, barrel shifter, ALU and both instruction decoders: masks,
// bit-range extraction, fixed rotations and sign extension, wrapping
// math/bits where a fixed-width rotate is needed.
package bits

import "math/bits"

// Mask returns a mask of the low n bits set (n in 0..32).
func Mask(n uint) uint32 {
	if n >= 32 {
		return 0xffffffff
	}
	if n == 0 {
		return 0
	}
	return uint32(1)<<n - 1
}

// Bit reports whether bit n of v is set.
func Bit(v uint32, n uint) bool {
	return v&(uint32(1)<<n) != 0
}

// SetBit returns v with bit n set to val.
func SetBit(v uint32, n uint, val bool) uint32 {
	m := uint32(1) << n
	if val {
		return v | m
	}
	return v &^ m
}

// Field extracts the n-bit field of v starting at bit lo (lo is the index
// of the least-significant bit of the field).
func Field(v uint32, lo, n uint) uint32 {
	return (v >> lo) & Mask(n)
}

// RotateRight32 rotates v right by amount bits, amount taken modulo 32.
func RotateRight32(v uint32, amount uint) uint32 {
	return bits.RotateLeft32(v, -int(amount&31))
}

// SignExtend sign-extends the low width bits of v to a full 32-bit value.
// width must be in 1..32.
func SignExtend(v uint32, width uint) uint32 {
	if width >= 32 {
		return v
	}
	shift := 32 - width
	return uint32(int32(v<<shift) >> shift)
}

// PopCount returns the number of set bits in v (used for block-transfer
// register-list byte counts).
func PopCount(v uint32) int {
	return bits.OnesCount32(v)
}
