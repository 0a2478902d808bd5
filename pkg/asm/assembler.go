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
package asm

import (
	"errors"
	"strconv"
	"strings"

	"github.com/consensys/go-stackvm/pkg/util/source"
	"github.com/consensys/go-stackvm/pkg/util/source/lex"
	"github.com/consensys/go-stackvm/pkg/vm"
)

// Assemble accepts a given source file representing an assembly language
// program, and assembles it into a program which can then be executed.  For
// example:
//
// ;; computes (3+4)-5
// push 3
// push 4
// add
// push 5
// minus
func Assemble(srcfile source.File) (vm.Program, []source.SyntaxError) {
	insns, errs := NewParser(&srcfile).Parse()
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return vm.Encode(insns...), nil
}

// AssembleString is a convenience for assembling a program held in a string.
func AssembleString(text string) (vm.Program, []source.SyntaxError) {
	return Assemble(*source.NewSourceFile("<string>", []byte(text)))
}

// Disassemble a given program into assembly language, such that assembling the
// result gives back the original program.  Malformed programs cannot be
// disassembled.
func Disassemble(program vm.Program) (string, error) {
	var builder strings.Builder
	//
	insns, err := program.Decode()
	//
	if err != nil {
		return "", err
	}
	//
	for _, insn := range insns {
		builder.WriteString(insn.String())
		builder.WriteString("\n")
	}
	//
	return builder.String(), nil
}

// ============================================================================
// Parser
// ============================================================================

// Parser is a parser for assembly language.
type Parser struct {
	srcfile *source.File
	tokens  []lex.Token
	// Position within the tokens
	index int
}

// NewParser constructs a new parser for a given source file.
func NewParser(srcfile *source.File) *Parser {
	return &Parser{srcfile, nil, 0}
}

// Parse the given source file into a sequence of zero or more instructions,
// or report the first syntax error encountered.
func (p *Parser) Parse() ([]vm.Instruction, []source.SyntaxError) {
	var (
		insns  []vm.Instruction
		insn   vm.Instruction
		errors []source.SyntaxError
	)
	// Convert source file into tokens
	if p.tokens, errors = Lex(*p.srcfile); len(errors) > 0 {
		return nil, errors
	}
	// Continue going until all consumed
	for p.lookahead().Kind != END_OF {
		if insn, errors = p.parseInstruction(); len(errors) > 0 {
			return nil, errors
		}
		//
		insns = append(insns, insn)
	}
	//
	return insns, nil
}

func (p *Parser) parseInstruction() (vm.Instruction, []source.SyntaxError) {
	var insn vm.Instruction
	//
	token, errs := p.expect(IDENTIFIER, "expected instruction")
	//
	if len(errs) > 0 {
		return insn, errs
	}
	//
	op, ok := vm.LookupOpcode(p.string(token))
	//
	if !ok {
		return insn, p.syntaxErrors(token, "unknown instruction")
	}
	//
	insn.Opcode = op
	//
	if op.Immediates() > 0 {
		if token, errs = p.expect(NUMBER, "missing operand"); len(errs) > 0 {
			return insn, errs
		} else if insn.Operand, errs = p.number(token); len(errs) > 0 {
			return insn, errs
		}
	}
	//
	return insn, nil
}

// Get the text representing the given token as a string.
func (p *Parser) string(token lex.Token) string {
	return p.srcfile.Text(token.Span)
}

// Parse the integer value of a numeric literal token.
func (p *Parser) number(token lex.Token) (vm.Word, []source.SyntaxError) {
	var (
		raw    = p.string(token)
		numstr = strings.ReplaceAll(raw, "_", "")
		sign   string
		base   = 10
	)
	// Underscores may only separate digits
	if strings.Contains(raw, "__") || strings.HasSuffix(raw, "_") {
		return 0, p.syntaxErrors(token, "malformed numeric literal")
	}
	//
	if strings.HasPrefix(numstr, "-") || strings.HasPrefix(numstr, "+") {
		sign, numstr = numstr[:1], numstr[1:]
	}
	//
	switch {
	case strings.HasPrefix(numstr, "0x"), strings.HasPrefix(numstr, "0X"):
		base, numstr = 16, numstr[2:]
	case strings.HasPrefix(numstr, "0b"), strings.HasPrefix(numstr, "0B"):
		base, numstr = 2, numstr[2:]
	}
	//
	value, err := strconv.ParseInt(sign+numstr, base, 64)
	//
	if errors.Is(err, strconv.ErrRange) {
		return 0, p.syntaxErrors(token, "integer out of range")
	} else if err != nil {
		return 0, p.syntaxErrors(token, "malformed numeric literal")
	}
	//
	return value, nil
}

// Lookahead returns the next token.  This must exist because END_OF is always
// the last token.
func (p *Parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

// Expect returns an error if the next token is not what was expected.
func (p *Parser) expect(kind uint, msg string) (lex.Token, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != kind {
		return lookahead, p.syntaxErrors(lookahead, msg)
	}
	//
	p.index++
	//
	return lookahead, nil
}

func (p *Parser) syntaxErrors(token lex.Token, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(token.Span, msg)}
}
