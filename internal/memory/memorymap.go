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

// Package memory implements the byte-addressed, little-endian memory map
// (spec.md §4.3): region resolution by linear search, byte/halfword/word
// access widths, alignment enforcement on writes, and the architectural
// unaligned-read rotation rules. The address-indexed Read/Write contract
// (errors surfaced rather than panicking on a bad access) generalizes a
// single flat address space to the eight heterogeneous regions below.
package memory

import (
	"fmt"

	"github.com/jsgba/gbacore/internal/bits"
	"github.com/jsgba/gbacore/internal/errkinds"
)

// Region byte ranges (spec.md §3 "Memory map").
const (
	BIOSStart    = 0x00000000
	BIOSSize     = 16 * 1024
	BoardStart   = 0x02000000
	BoardSize    = 256 * 1024
	ChipStart    = 0x03000000
	ChipSize     = 32 * 1024
	IOStart      = 0x04000000
	IOSize       = 0x400
	PaletteStart = 0x05000000
	PaletteSize  = 1024
	VRAMStart    = 0x06000000
	VRAMSize     = 96 * 1024
	OAMStart     = 0x07000000
	OAMSize      = 1024
	WS0Start     = 0x08000000
	WS1Start     = 0x0A000000
	WS2Start     = 0x0C000000
	WSSize       = 32 * 1024 * 1024
	SRAMStart    = 0x0E000000
	SRAMSize     = 64 * 1024
)

// Map is the byte-addressed memory map described by spec.md §3/§4.3.
type Map struct {
	regions []*region
}

// NewMap builds the eight-region memory map. rom is the cartridge's ROM
// bytes (shared, read-only, mirrored across the three game-pak windows);
// sram is the battery-backed save region, exactly SRAMSize bytes; io
// services the memory-mapped I/O window. sram and io may be nil: a nil
// sram is replaced by a zero-filled SRAMSize image, and with a nil io the
// I/O region still exists but every access to it fails with UnmappedAccess.
func NewMap(rom []byte, sram []byte, io IOHook) *Map {
	if sram == nil {
		sram = make([]byte, SRAMSize)
	}

	m := &Map{
		regions: []*region{
			{name: "bios", start: BIOSStart, size: BIOSSize, storage: make([]byte, BIOSSize)},
			{name: "board-ram", start: BoardStart, size: BoardSize, storage: make([]byte, BoardSize)},
			{name: "chip-ram", start: ChipStart, size: ChipSize, storage: make([]byte, ChipSize)},
			{name: "io", start: IOStart, size: IOSize, isIO: true, io: io},
			{name: "palette", start: PaletteStart, size: PaletteSize, storage: make([]byte, PaletteSize)},
			{name: "vram", start: VRAMStart, size: VRAMSize, storage: make([]byte, VRAMSize)},
			{name: "oam", start: OAMStart, size: OAMSize, storage: make([]byte, OAMSize)},
			{name: "gamepak-ws0", start: WS0Start, size: WSSize, storage: rom, readOnly: true, romMirror: true},
			{name: "gamepak-ws1", start: WS1Start, size: WSSize, storage: rom, readOnly: true, romMirror: true},
			{name: "gamepak-ws2", start: WS2Start, size: WSSize, storage: rom, readOnly: true, romMirror: true},
			{name: "gamepak-sram", start: SRAMStart, size: SRAMSize, storage: sram},
		},
	}
	return m
}

// SetIOHook replaces the I/O region's external collaborator.
func (m *Map) SetIOHook(io IOHook) {
	for _, r := range m.regions {
		if r.name == "io" {
			r.io = io
			return
		}
	}
}

// BIOSBytes returns the BIOS region's backing storage so the embedding
// program can populate it at boot (spec.md §3 "Lifecycle").
func (m *Map) BIOSBytes() []byte {
	return m.find("bios").storage
}

// SRAMBytes returns the game-pak SRAM region's backing storage, for
// persistence (spec.md §6 "Persisted state").
func (m *Map) SRAMBytes() []byte {
	return m.find("gamepak-sram").storage
}

func (m *Map) find(name string) *region {
	for _, r := range m.regions {
		if r.name == name {
			return r
		}
	}
	return nil
}

// locate performs the linear search over the region table (spec.md §4.3
// "Address resolution").
func (m *Map) locate(addr uint32) *region {
	for _, r := range m.regions {
		if r.contains(addr) {
			return r
		}
	}
	return nil
}

// Read returns the value at addr for the given width. Byte and halfword
// reads are zero-extended into a 32-bit value. Unaligned halfword and word
// reads follow the architectural rotation rules (spec.md §4.3) rather than
// failing.
func (m *Map) Read(addr uint32, width Width) (uint32, error) {
	switch width {
	case Half:
		if addr&1 != 0 {
			v, err := m.readAligned(addr&^1, Half)
			if err != nil {
				return 0, err
			}
			return ((v >> 8) | (v << 8)) & 0xffff, nil
		}
	case Word:
		if addr&3 != 0 {
			misalign := addr & 3
			v, err := m.readAligned(addr&^3, Word)
			if err != nil {
				return 0, err
			}
			return bits.RotateRight32(v, uint(misalign)*8), nil
		}
	}
	return m.readAligned(addr, width)
}

func (m *Map) readAligned(addr uint32, width Width) (uint32, error) {
	r := m.locate(addr)
	if r == nil || (r.romMirror && len(r.storage) == 0) {
		return 0, errkinds.New(errkinds.UnmappedAccess, fmt.Sprintf("read %s at %#08x", width, addr))
	}

	if r.isIO {
		if r.io == nil {
			return 0, errkinds.New(errkinds.UnmappedAccess, fmt.Sprintf("read %s at %#08x", width, addr))
		}
		v, ok := r.io.Read(addr, width)
		if !ok {
			return 0, errkinds.New(errkinds.UnmappedAccess, fmt.Sprintf("read %s at %#08x", width, addr))
		}
		return v, nil
	}

	off := r.resolve(addr)
	return readStorage(r.storage, off, width), nil
}

// Write merges the low Width*8 bits of value into the region storage at
// addr, preserving the other bytes of the containing word. Writing to a
// read-only region fails with ReadOnly; writing a misaligned halfword or
// word address fails with MisalignedAccess (spec.md §7).
func (m *Map) Write(addr uint32, width Width, value uint32) error {
	if width == Half && addr&1 != 0 {
		return errkinds.New(errkinds.MisalignedAccess, fmt.Sprintf("half write at %#08x", addr))
	}
	if width == Word && addr&3 != 0 {
		return errkinds.New(errkinds.MisalignedAccess, fmt.Sprintf("word write at %#08x", addr))
	}

	r := m.locate(addr)
	if r == nil || (r.romMirror && len(r.storage) == 0) {
		return errkinds.New(errkinds.UnmappedAccess, fmt.Sprintf("write %s at %#08x", width, addr))
	}

	if r.isIO {
		if r.io == nil {
			return errkinds.New(errkinds.UnmappedAccess, fmt.Sprintf("write %s at %#08x", width, addr))
		}
		if ok := r.io.Write(addr, width, value&width.mask()); !ok {
			return errkinds.New(errkinds.UnmappedAccess, fmt.Sprintf("write %s at %#08x", width, addr))
		}
		return nil
	}

	if r.readOnly {
		return errkinds.New(errkinds.ReadOnly, fmt.Sprintf("write %s at %#08x (%s)", width, addr, r.name))
	}

	off := r.resolve(addr)
	writeStorage(r.storage, off, width, value)
	return nil
}

func readStorage(storage []byte, off uint32, width Width) uint32 {
	switch width {
	case Byte:
		if int(off) >= len(storage) {
			return 0
		}
		return uint32(storage[off])
	case Half:
		return uint32(storage[off]) | uint32(storage[off+1])<<8
	default:
		return uint32(storage[off]) | uint32(storage[off+1])<<8 |
			uint32(storage[off+2])<<16 | uint32(storage[off+3])<<24
	}
}

func writeStorage(storage []byte, off uint32, width Width, value uint32) {
	switch width {
	case Byte:
		storage[off] = byte(value)
	case Half:
		storage[off] = byte(value)
		storage[off+1] = byte(value >> 8)
	default:
		storage[off] = byte(value)
		storage[off+1] = byte(value >> 8)
		storage[off+2] = byte(value >> 16)
		storage[off+3] = byte(value >> 24)
	}
}
