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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsgba/gbacore/internal/cartridge"
	"github.com/jsgba/gbacore/internal/cpu"
	"github.com/jsgba/gbacore/internal/memory"
)

func main() {
	var lenient bool
	var sramPath string
	var cycleLimit uint64

	rootCmd := &cobra.Command{
		Use:   "gbacore [cartridge]",
		Short: "Run an ARM7TDMI game-pak image to completion or cycle limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], lenient, sramPath, cycleLimit)
		},
	}
	rootCmd.Flags().BoolVar(&lenient, "lenient", false, "log unknown instructions and advance past them instead of aborting")
	rootCmd.Flags().StringVar(&sramPath, "sram", "", "path to a 64 KiB SRAM image to load at boot and persist at clean halt")
	rootCmd.Flags().Uint64Var(&cycleLimit, "cycle-limit", cpu.DefaultCycleLimit, "instruction count ceiling for a headless run")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string, lenient bool, sramPath string, cycleLimit uint64) error {
	cart, err := cartridge.Load(path)
	if err != nil {
		return err
	}

	var sram []byte
	if sramPath != "" {
		sram, err = cartridge.LoadSRAM(sramPath)
		if err != nil {
			return err
		}
	} else {
		sram = make([]byte, memory.SRAMSize)
	}

	mem := memory.NewMap(cart.ROM, sram, nil)
	c := cpu.New(mem)
	c.Lenient = lenient
	if cycleLimit > 0 {
		c.CycleLimit = cycleLimit
	}
	c.Regs.Set(cpu.ModeSupervisor, 15, memory.WS0Start)

	runErr := c.Run()

	if sramPath != "" {
		if err := cartridge.SaveSRAM(sramPath, mem.SRAMBytes()); err != nil {
			return err
		}
	}

	if runErr != nil {
		return runErr
	}
	fmt.Printf("halted after %d instructions\n", c.Cycles())
	return nil
}
