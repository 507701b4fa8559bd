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

package logger_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsgba/gbacore/logger"
)

// test a private ring-buffered logger and the use of the Tail() function
func TestPrivateLogger(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	require.Equal(t, "", w.String())

	log.Log("test", "this is a test")
	log.Write(w)
	require.Equal(t, "test: this is a test\n", w.String())

	w.Reset()

	log.Log("test2", "this is another test")
	log.Write(w)
	require.Equal(t, "test: this is a test\ntest2: this is another test\n", w.String())

	w.Reset()
	log.Tail(w, 100)
	require.Equal(t, "test: this is a test\ntest2: this is another test\n", w.String())

	w.Reset()
	log.Tail(w, 2)
	require.Equal(t, "test: this is a test\ntest2: this is another test\n", w.String())

	w.Reset()
	log.Tail(w, 1)
	require.Equal(t, "test2: this is another test\n", w.String())

	w.Reset()
	log.Tail(w, 0)
	require.Equal(t, "", w.String())
}

func TestRingEviction(t *testing.T) {
	log := logger.NewLogger(2)
	w := &strings.Builder{}

	log.Log("a", "1")
	log.Log("b", "2")
	log.Log("c", "3")

	log.Write(w)
	require.Equal(t, "b: 2\nc: 3\n", w.String())
}

// the Log() function explicitly handles error types by using the Error() result
func TestErrorLogging(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	err := errors.New("test error")

	log.Log("tag", err)
	log.Write(w)
	require.Equal(t, "tag: test error\n", w.String())

	log.Clear()
	w.Reset()

	// test "wrapping" of errors using the %v verb
	log.Logf("tag", "wrapped: %v", err)
	log.Write(w)
	require.Equal(t, "tag: wrapped: test error\n", w.String())
}

// the Log() function explicitly handles fmt.Stringer types
type stringerTest struct{}

func (stringerTest) String() string {
	return "stringer test"
}

func TestStringerLogging(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log("tag", stringerTest{})
	log.Write(w)
	require.Equal(t, "tag: stringer test\n", w.String())
}

// for unsupported types, the Log() function uses the %v verb from the fmt package
func TestIntLogging(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log("tag", 100)
	log.Write(w)
	require.Equal(t, "tag: 100\n", w.String())
}
