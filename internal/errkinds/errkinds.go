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

// Package errkinds names the seven error kinds of the interpreter's error
// handling policy and wraps them as curated.Errorf patterns so that callers
// can classify a returned error with curated.Is/curated.Has without string
// matching ad-hoc messages. Built on the curated package, kept unmodified
// elsewhere in this repo.
package errkinds

import "github.com/jsgba/gbacore/curated"

// Pattern strings, one per error kind in the interpreter's error policy.
// Each is used as the first argument to curated.Errorf and therefore as the
// comparison key for curated.Is/curated.Has.
const (
	UnmappedAccess     = "unmapped access: %s"
	ReadOnly           = "read-only region: %s"
	MisalignedAccess   = "misaligned access: %s"
	InvariantViolation = "invariant violation: %s"
	UnknownInstruction = "unknown instruction: %s"
	Unimplemented      = "unimplemented: %s"
	CartridgeIO        = "cartridge I/O: %s"
)

// New builds a curated error of the given kind with a single descriptive
// detail string.
func New(kind string, detail string) error {
	return curated.Errorf(kind, detail)
}

// Is reports whether err is of the given kind.
func Is(err error, kind string) bool {
	return curated.Is(err, kind)
}

// Fatal reports whether a kind is unconditionally fatal under the error
// policy in spec.md §7 (everything except UnknownInstruction, which is only
// fatal in strict mode, and Unimplemented, which is always fatal until the
// class is implemented but is listed separately so callers can report it
// distinctly).
func Fatal(kind string) bool {
	switch kind {
	case CartridgeIO, UnmappedAccess, ReadOnly, MisalignedAccess, InvariantViolation:
		return true
	default:
		return false
	}
}
