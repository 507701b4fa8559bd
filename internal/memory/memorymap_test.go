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

package memory_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsgba/gbacore/internal/errkinds"
	"github.com/jsgba/gbacore/internal/memory"
)

func TestWordRoundTrip(t *testing.T) {
	m := memory.NewMap(make([]byte, 1024), nil, nil)

	require.NoError(t, m.Write(memory.BoardStart+4, memory.Word, 0x11223344))
	v, err := m.Read(memory.BoardStart+4, memory.Word)
	require.NoError(t, err)
	require.Equal(t, uint32(0x11223344), v)
}

func TestHalfAndByteRoundTrip(t *testing.T) {
	m := memory.NewMap(make([]byte, 1024), nil, nil)

	require.NoError(t, m.Write(memory.ChipStart, memory.Half, 0xbeef))
	v, err := m.Read(memory.ChipStart, memory.Half)
	require.NoError(t, err)
	require.Equal(t, uint32(0xbeef), v)

	require.NoError(t, m.Write(memory.ChipStart+2, memory.Byte, 0xab))
	v, err = m.Read(memory.ChipStart+2, memory.Byte)
	require.NoError(t, err)
	require.Equal(t, uint32(0xab), v)

	// the halfword write at ChipStart must not disturb the byte at +2.
	v, err = m.Read(memory.ChipStart, memory.Half)
	require.NoError(t, err)
	require.Equal(t, uint32(0xbeef), v)
}

// the rotation law of scenario 5, over different bytes: the word
// 0x22114433 (bytes 33 44 11 22) at 0x02000000, read at +2, rotates right
// by 16 to 0x44332211.
func TestUnalignedWordReadRotates(t *testing.T) {
	m := memory.NewMap(make([]byte, 1024), nil, nil)

	require.NoError(t, m.Write(memory.BoardStart, memory.Word, 0x22114433))

	v, err := m.Read(memory.BoardStart+2, memory.Word)
	require.NoError(t, err)
	require.Equal(t, uint32(0x44332211), v)
}

func TestUnalignedHalfReadRotates(t *testing.T) {
	m := memory.NewMap(make([]byte, 1024), nil, nil)

	require.NoError(t, m.Write(memory.BoardStart, memory.Half, 0xabcd))

	v, err := m.Read(memory.BoardStart+1, memory.Half)
	require.NoError(t, err)
	require.Equal(t, uint32(0xcdab), v)
}

func TestMisalignedWriteFails(t *testing.T) {
	m := memory.NewMap(make([]byte, 1024), nil, nil)

	err := m.Write(memory.BoardStart+1, memory.Word, 0x1)
	require.Error(t, err)
	require.True(t, errkinds.Is(err, errkinds.MisalignedAccess))

	err = m.Write(memory.BoardStart+1, memory.Half, 0x1)
	require.Error(t, err)
	require.True(t, errkinds.Is(err, errkinds.MisalignedAccess))
}

func TestUnmappedAccess(t *testing.T) {
	m := memory.NewMap(make([]byte, 1024), nil, nil)

	_, err := m.Read(0x01000000, memory.Word)
	require.Error(t, err)
	require.True(t, errkinds.Is(err, errkinds.UnmappedAccess))

	err = m.Write(0x01000000, memory.Word, 0)
	require.Error(t, err)
	require.True(t, errkinds.Is(err, errkinds.UnmappedAccess))
}

func TestGamePakWriteIsReadOnly(t *testing.T) {
	m := memory.NewMap(make([]byte, 1024), nil, nil)

	err := m.Write(memory.WS0Start, memory.Word, 0xdeadbeef)
	require.Error(t, err)
	require.True(t, errkinds.Is(err, errkinds.ReadOnly))
}

func TestGamePakMirrorsShareStorage(t *testing.T) {
	rom := make([]byte, 1024)
	rom[4] = 0x42
	m := memory.NewMap(rom, nil, nil)

	for _, base := range []uint32{memory.WS0Start, memory.WS1Start, memory.WS2Start} {
		v, err := m.Read(base+4, memory.Byte)
		require.NoError(t, err)
		require.Equal(t, uint32(0x42), v)
	}
}

func TestGamePakWindowWrapsSmallROM(t *testing.T) {
	rom := make([]byte, 16)
	rom[0] = 0x7f
	m := memory.NewMap(rom, nil, nil)

	v, err := m.Read(memory.WS0Start+16, memory.Byte)
	require.NoError(t, err)
	require.Equal(t, uint32(0x7f), v)
}

func TestSRAMPersistsAcrossWrites(t *testing.T) {
	sram := make([]byte, memory.SRAMSize)
	m := memory.NewMap(make([]byte, 16), sram, nil)

	require.NoError(t, m.Write(memory.SRAMStart+10, memory.Byte, 0x9a))
	require.Equal(t, byte(0x9a), sram[10])

	v, err := m.Read(memory.SRAMStart+10, memory.Byte)
	require.NoError(t, err)
	require.Equal(t, uint32(0x9a), v)
}

func TestIOHookDelegation(t *testing.T) {
	hook := &memory.RecordingIOHook{Scripted: map[uint32]uint32{memory.IOStart + 0x04: 0x1234}}
	m := memory.NewMap(make([]byte, 16), nil, hook)

	v, err := m.Read(memory.IOStart+0x04, memory.Half)
	require.NoError(t, err)
	require.Equal(t, uint32(0x1234), v)

	require.NoError(t, m.Write(memory.IOStart+0x06, memory.Half, 0xffff))
	require.Equal(t, memory.IOStart+0x06, hook.LastAddr)
	require.True(t, hook.LastWrite)
	require.Equal(t, uint32(0xffff), hook.LastValue)
}

func TestUnmappedIOAccessWithoutHook(t *testing.T) {
	m := memory.NewMap(make([]byte, 16), nil, nil)

	_, err := m.Read(memory.IOStart, memory.Word)
	require.Error(t, err)
	require.True(t, errkinds.Is(err, errkinds.UnmappedAccess))
}
