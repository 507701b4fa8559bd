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

	"github.com/jsgba/gbacore/internal/errkinds"
)

// Cartridge is a loaded game-pak image: its parsed header and the raw ROM
// bytes following it, plus the path it was loaded from (used to derive a
// default SRAM save path).
type Cartridge struct {
	Header Header
	ROM    []byte
	Path   string
}

// Load reads the file at path and splits it into header and ROM bytes
// (spec.md §4.2). A file shorter than HeaderSize fails with CartridgeIO.
func Load(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errkinds.New(errkinds.CartridgeIO, fmt.Sprintf("%s: %v", path, err))
	}
	if len(data) < HeaderSize {
		return nil, errkinds.New(errkinds.CartridgeIO, fmt.Sprintf("%s: file too short for header (%d bytes)", path, len(data)))
	}

	c := &Cartridge{
		Header: ParseHeader(data[:HeaderSize]),
		ROM:    data[HeaderSize:],
		Path:   path,
	}
	return c, nil
}
