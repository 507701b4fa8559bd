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

package cartridge

import (
	"fmt"
	"os"
	"strings"

	"github.com/jsgba/gbacore/internal/errkinds"
	"github.com/jsgba/gbacore/internal/memory"
)

// SRAMPath derives the default save-file path for this cartridge: the
// cartridge path with its extension replaced by ".sav" (spec.md §6
// "Persisted state").
func (c *Cartridge) SRAMPath() string {
	if i := strings.LastIndexByte(c.Path, '.'); i >= 0 {
		return c.Path[:i] + ".sav"
	}
	return c.Path + ".sav"
}

// LoadSRAM reads exactly memory.SRAMSize bytes from path. A missing file
// is not an error: it returns a zero-filled image, since a cartridge may
// never have been saved before.
func LoadSRAM(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make([]byte, memory.SRAMSize), nil
	}
	if err != nil {
		return nil, errkinds.New(errkinds.CartridgeIO, fmt.Sprintf("%s: %v", path, err))
	}
	if len(data) != memory.SRAMSize {
		return nil, errkinds.New(errkinds.CartridgeIO, fmt.Sprintf("%s: expected %d bytes, got %d", path, memory.SRAMSize, len(data)))
	}
	return data, nil
}

// SaveSRAM writes the given SRAM image to path. It must be exactly
// memory.SRAMSize bytes.
func SaveSRAM(path string, sram []byte) error {
	if len(sram) != memory.SRAMSize {
		return errkinds.New(errkinds.CartridgeIO, fmt.Sprintf("%s: expected %d bytes, got %d", path, memory.SRAMSize, len(sram)))
	}
	if err := os.WriteFile(path, sram, 0o644); err != nil {
		return errkinds.New(errkinds.CartridgeIO, fmt.Sprintf("%s: %v", path, err))
	}
	return nil
}
