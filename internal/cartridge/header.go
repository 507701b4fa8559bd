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

// Package cartridge loads a game-pak image: a fixed 228-byte header
// followed by ROM bytes (spec.md §4.2, §8 "Cartridge bytes -> header
// fields -> bytes is identity"). Field layout mirrors the original
// CartridgeHeader field-for-field; loading style (read whole file, split,
// wrap I/O failures) follows the read-then-parse-then-report shape common
// to the pack's cartridge/ROM loaders.
package cartridge

import "strings"

// HeaderSize is the fixed byte length of a cartridge header.
const HeaderSize = 228

// Header is the fixed 228-byte cartridge header, field-for-field.
type Header struct {
	EntryInstruction  [4]byte
	Logo              [156]byte
	Title             [12]byte
	GameCode          [4]byte
	MakerCode         [2]byte
	FixedValue        byte
	MainUnitCode      byte
	DeviceType        byte
	Reserved1         [7]byte
	SoftwareVersion   byte
	ComplementCheck   byte
	Reserved2         [2]byte
	RAMEntryPoint     [4]byte
	BootMode          byte
	SlaveID           byte
	Reserved3         [26]byte
	JoybusEntryPoint  [4]byte
}

// ParseHeader reads a Header from the first HeaderSize bytes of b.
func ParseHeader(b []byte) Header {
	var h Header
	copy(h.EntryInstruction[:], b[0:4])
	copy(h.Logo[:], b[4:160])
	copy(h.Title[:], b[160:172])
	copy(h.GameCode[:], b[172:176])
	copy(h.MakerCode[:], b[176:178])
	h.FixedValue = b[178]
	h.MainUnitCode = b[179]
	h.DeviceType = b[180]
	copy(h.Reserved1[:], b[181:188])
	h.SoftwareVersion = b[188]
	h.ComplementCheck = b[189]
	copy(h.Reserved2[:], b[190:192])
	copy(h.RAMEntryPoint[:], b[192:196])
	h.BootMode = b[196]
	h.SlaveID = b[197]
	copy(h.Reserved3[:], b[198:224])
	copy(h.JoybusEntryPoint[:], b[224:228])
	return h
}

// Bytes serializes the header back to its 228-byte wire form.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	copy(b[0:4], h.EntryInstruction[:])
	copy(b[4:160], h.Logo[:])
	copy(b[160:172], h.Title[:])
	copy(b[172:176], h.GameCode[:])
	copy(b[176:178], h.MakerCode[:])
	b[178] = h.FixedValue
	b[179] = h.MainUnitCode
	b[180] = h.DeviceType
	copy(b[181:188], h.Reserved1[:])
	b[188] = h.SoftwareVersion
	b[189] = h.ComplementCheck
	copy(b[190:192], h.Reserved2[:])
	copy(b[192:196], h.RAMEntryPoint[:])
	b[196] = h.BootMode
	b[197] = h.SlaveID
	copy(b[198:224], h.Reserved3[:])
	copy(b[224:228], h.JoybusEntryPoint[:])
	return b
}

// TitleString returns the title field trimmed of trailing NUL padding.
func (h Header) TitleString() string {
	return strings.TrimRight(string(h.Title[:]), "\x00")
}

// GameCodeString returns the game-code field trimmed of trailing NUL padding.
func (h Header) GameCodeString() string {
	return strings.TrimRight(string(h.GameCode[:]), "\x00")
}

// MakerCodeString returns the maker-code field trimmed of trailing NUL padding.
func (h Header) MakerCodeString() string {
	return strings.TrimRight(string(h.MakerCode[:]), "\x00")
}
