// Copyright The Tracecov Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package trace

import (
	"regexp"
	"strconv"
	"strings"
)

// Instruction is one decoded bytecode operation from a script record.
type Instruction struct {
	// Address is the bytecode offset of the instruction within its script.
	Address int

	// Line is the source line the instruction was generated from, after
	// remapping if a remap hook is installed.
	Line int

	// Text is the disassembly text, including any continuation lines
	// (joined with newlines, e.g. switch tables).
	Text string

	// Count is the accumulated execution count.
	Count int

	// Reachable reports whether static control flow can reach this
	// instruction from the script entry.
	Reachable bool

	// FallsThrough reports whether the instruction's only successor is the
	// next instruction in sequence.
	FallsThrough bool

	// EntryTarget marks the instruction the interpreter jumps to when the
	// function body proper begins (the "main:" label).
	EntryTarget bool
}

// Mnemonic returns the operation name, the first token of the disassembly
// text.
func (in *Instruction) Mnemonic() string {
	t := in.Text
	if i := strings.IndexAny(t, " \t\n"); i >= 0 {
		t = t[:i]
	}
	return t
}

// branchKind partitions mnemonics by how control leaves the instruction.
type branchKind int

const (
	kindLinear branchKind = iota
	kindTerminator
	kindUnconditional
	kindConditional
	kindSwitch
)

// HaltMnemonic ends a script body. A lone unreachable halt is how the
// compiler terminates a function's closing brace.
const HaltMnemonic = "stop"

var (
	terminators = map[string]bool{
		HaltMnemonic: true,
		"return":     true,
		"retrval":    true,
		"retsub":     true,
		"throw":      true,
	}

	unconditionals = map[string]bool{
		"goto":     true,
		"gotox":    true,
		"default":  true,
		"defaultx": true,
		"filter":   true,
	}

	// Conditional branches have two successors: the next instruction and
	// the decoded target. "try" belongs here as the exception-setup form;
	// its target operand may be absent, leaving fallthrough only.
	conditionals = map[string]bool{
		"ifeq":      true,
		"ifeqx":     true,
		"ifne":      true,
		"ifnex":     true,
		"and":       true,
		"andx":      true,
		"or":        true,
		"orx":       true,
		"case":      true,
		"casex":     true,
		"gosub":     true,
		"gosubx":    true,
		"ifprimtop": true,
		"endfilter": true,
		"try":       true,
	}

	switches = map[string]bool{
		"tableswitch":   true,
		"tableswitchx":  true,
		"lookupswitch":  true,
		"lookupswitchx": true,
	}
)

func (in *Instruction) kind() branchKind {
	switch mn := in.Mnemonic(); {
	case terminators[mn]:
		return kindTerminator
	case unconditionals[mn]:
		return kindUnconditional
	case conditionals[mn]:
		return kindConditional
	case switches[mn]:
		return kindSwitch
	default:
		return kindLinear
	}
}

var (
	absTargetRE     = regexp.MustCompile(`^\S+\s+(\d+)`)
	defaultOffsetRE = regexp.MustCompile(`defaultOffset\s+(-?\d+)`)
	caseOffsetRE    = regexp.MustCompile(`(?m)^\t.*:\s*(-?\d+)\s*$`)
)

// branchTarget decodes the absolute target address from a branch operand.
// The second return value is false when the operand carries no target.
func (in *Instruction) branchTarget() (int, bool) {
	m := absTargetRE.FindStringSubmatch(in.Text)
	if m == nil {
		return 0, false
	}
	t, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return t, true
}

// switchOffsets decodes the offsets of a switch instruction: the default
// offset from the head line, then one offset per case entry from the
// continuation table. Unlike plain branches, switch operands are relative
// to the switch instruction's own address.
func (in *Instruction) switchOffsets() []int {
	var offs []int
	if m := defaultOffsetRE.FindStringSubmatch(in.Text); m != nil {
		if off, err := strconv.Atoi(m[1]); err == nil {
			offs = append(offs, off)
		}
	}
	for _, m := range caseOffsetRE.FindAllStringSubmatch(in.Text, -1) {
		if off, err := strconv.Atoi(m[1]); err == nil {
			offs = append(offs, off)
		}
	}
	return offs
}
