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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/consensys/go-stackvm/pkg/binfile"
	"github.com/consensys/go-stackvm/pkg/util/source"
	"github.com/consensys/go-stackvm/pkg/vm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected boolean flag, or exit if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, or exit if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exit if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// readProgramFile reads a program file in any supported format, exiting with
// an appropriate status code on failure.
func readProgramFile(filename string) vm.Program {
	var serr *source.SyntaxError
	//
	log.Debug(fmt.Sprintf("reading program file %s", filename))
	//
	program, err := binfile.ReadProgramFile(filename)
	//
	if errors.As(err, &serr) {
		printSyntaxError(os.Stdout, serr)
		os.Exit(3)
	} else if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return program
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(out io.Writer, err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := max(1, min(line.Length()-lineOffset, span.Length()))
	// Print error + line number
	fmt.Fprintf(out, "%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	// Print separator line
	fmt.Fprintln(out)
	// Print line
	fmt.Fprintln(out, line.String())
	// Print indent (todo: account for tabs)
	fmt.Fprint(out, strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Fprintln(out, strings.Repeat("^", length))
}
