// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-stackvm/pkg/binfile"
	"github.com/consensys/go-stackvm/pkg/vm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var asmCmd = &cobra.Command{
	Use:   "asm [flags] input_file",
	Short: "Convert a program between file formats.",
	Long: `Convert a program between file formats.  Typically this is used to
	assemble a .asm file into a .json or .cbor file, though any combination of
	formats is supported.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		output := GetString(cmd, "output")
		program := readProgramFile(args[0])
		//
		if err := binfile.WriteProgramFile(output, program); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		log.Debug(fmt.Sprintf("wrote %d cells to %s", len(program), output))
	},
}

var disasmCmd = &cobra.Command{
	Use:   "disasm [flags] file",
	Short: "Print a program as assembly language.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		program := readProgramFile(args[0])
		//
		if GetFlag(cmd, "raw") {
			// Malformed programs are shown upto the first fault
			fmt.Print(program.String())
		} else if text, err := disassemble(program); err != nil {
			log.Error(err)
			os.Exit(4)
		} else {
			fmt.Print(text)
		}
	},
}

func disassemble(program vm.Program) (string, error) {
	bytes, err := binfile.Marshal(binfile.ASM, program)
	return string(bytes), err
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(asmCmd)
	rootCmd.AddCommand(disasmCmd)
	asmCmd.Flags().StringP("output", "o", "a.json", "output file (format determined by extension)")
	disasmCmd.Flags().Bool("raw", false, "show malformed programs upto the first fault")
}
