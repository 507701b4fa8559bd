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

package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsgba/gbacore/internal/cpu"
)

func TestLSLTable(t *testing.T) {
	v, c := cpu.Shift(cpu.LSL, 0x1, 0, true)
	require.Equal(t, uint32(0x1), v)
	require.True(t, c)

	v, c = cpu.Shift(cpu.LSL, 0x80000000, 1, false)
	require.Equal(t, uint32(0), v)
	require.True(t, c)

	v, c = cpu.Shift(cpu.LSL, 0x1, 32, false)
	require.Equal(t, uint32(0), v)
	require.True(t, c)

	v, c = cpu.Shift(cpu.LSL, 0x1, 33, true)
	require.Equal(t, uint32(0), v)
	require.False(t, c)
}

func TestLSRTable(t *testing.T) {
	v, c := cpu.Shift(cpu.LSR, 0xff, 0, true)
	require.Equal(t, uint32(0xff), v)
	require.True(t, c)

	v, c = cpu.Shift(cpu.LSR, 0x1, 1, false)
	require.Equal(t, uint32(0), v)
	require.True(t, c)

	v, c = cpu.Shift(cpu.LSR, 0x80000000, 32, false)
	require.Equal(t, uint32(0), v)
	require.True(t, c)

	v, c = cpu.Shift(cpu.LSR, 0x1, 33, true)
	require.Equal(t, uint32(0), v)
	require.False(t, c)
}

func TestASRTable(t *testing.T) {
	v, c := cpu.Shift(cpu.ASR, 0x80000000, 31, false)
	require.Equal(t, uint32(0xffffffff), v)
	require.False(t, c) // carry is bit 30 of the input

	v, c = cpu.Shift(cpu.ASR, 0x80000000, 32, false)
	require.Equal(t, uint32(0xffffffff), v)
	require.True(t, c)

	v, c = cpu.Shift(cpu.ASR, 0x7fffffff, 33, true)
	require.Equal(t, uint32(0), v)
	require.False(t, c)
}

func TestRORTable(t *testing.T) {
	v, c := cpu.Shift(cpu.ROR, 0x1, 0, true)
	require.Equal(t, uint32(0x1), v)
	require.True(t, c)

	v, c = cpu.Shift(cpu.ROR, 0x1, 32, false)
	require.Equal(t, uint32(0x1), v)
	require.False(t, c)

	v, c = cpu.Shift(cpu.ROR, 0x1, 1, false)
	require.Equal(t, uint32(0x80000000), v)
	require.True(t, c)

	v36, c36 := cpu.Shift(cpu.ROR, 0x12345678, 36, true)
	v4, c4 := cpu.Shift(cpu.ROR, 0x12345678, 4, true)
	require.Equal(t, v4, v36)
	require.Equal(t, c4, c36)
}

func TestRRX(t *testing.T) {
	v, c := cpu.RRX(0x1, true)
	require.Equal(t, uint32(0x80000000), v)
	require.True(t, c)

	v, c = cpu.RRX(0x2, false)
	require.Equal(t, uint32(0x1), v)
	require.False(t, c)
}
