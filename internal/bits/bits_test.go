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

package bits_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsgba/gbacore/internal/bits"
)

func TestMask(t *testing.T) {
	require.Equal(t, uint32(0), bits.Mask(0))
	require.Equal(t, uint32(0xff), bits.Mask(8))
	require.Equal(t, uint32(0xffffffff), bits.Mask(32))
	require.Equal(t, uint32(0xffffffff), bits.Mask(40))
}

func TestBitAndSetBit(t *testing.T) {
	var v uint32 = 0
	require.False(t, bits.Bit(v, 3))
	v = bits.SetBit(v, 3, true)
	require.True(t, bits.Bit(v, 3))
	require.Equal(t, uint32(0x08), v)
	v = bits.SetBit(v, 3, false)
	require.Equal(t, uint32(0), v)
}

func TestField(t *testing.T) {
	v := uint32(0xabcd1234)
	require.Equal(t, uint32(0x234), bits.Field(v, 0, 12))
	require.Equal(t, uint32(0xabcd), bits.Field(v, 16, 16))
}

func TestRotateRight32(t *testing.T) {
	require.Equal(t, uint32(0x00000001), bits.RotateRight32(0x00000001, 0))
	require.Equal(t, uint32(0x80000000), bits.RotateRight32(0x00000001, 1))
	require.Equal(t, uint32(0x00000001), bits.RotateRight32(0x80000000, 31))
	// reduce amount mod 32
	require.Equal(t, bits.RotateRight32(0x12345678, 4), bits.RotateRight32(0x12345678, 36))
}

func TestSignExtend(t *testing.T) {
	require.Equal(t, uint32(0xffffffff), bits.SignExtend(0xff, 8))
	require.Equal(t, uint32(0x0000007f), bits.SignExtend(0x7f, 8))
	require.Equal(t, uint32(0xffff8000), bits.SignExtend(0x8000, 16))
	require.Equal(t, uint32(0x00007fff), bits.SignExtend(0x7fff, 16))
}

func TestPopCount(t *testing.T) {
	require.Equal(t, 0, bits.PopCount(0))
	require.Equal(t, 5, bits.PopCount(0b1011101000000000000000000000000))
}
