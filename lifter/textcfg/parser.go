// Copyright (c) 2026 The PDD Authors
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

// Package textcfg parses a plain-text basic-block/CFG description format
// into a lifter.FunctionDescriptor, standing in for the real front-end
// lifter's structured output (spec.md §6) when building golden fixtures or
// feeding the CLI's text debug input mode by hand.
package textcfg

import (
	"fmt"
	"sync"

	"github.com/alecthomas/participle/v2"

	"github.com/pdd-project/pdd/ir"
	"github.com/pdd-project/pdd/lifter"
)

var (
	parserOnce sync.Once
	parser     *participle.Parser[Program]
	parserErr  error
)

func buildParser() *participle.Parser[Program] {
	parserOnce.Do(func() {
		parser, parserErr = participle.Build[Program](
			participle.Lexer(cfgLexer),
			participle.Elide("Whitespace", "Comment"),
			participle.UseLookahead(2),
		)
	})
	return parser
}

// ParseDescriptor parses src into a lifter.FunctionDescriptor.
func ParseDescriptor(src string) (lifter.FunctionDescriptor, error) {
	p := buildParser()
	if parserErr != nil {
		return lifter.FunctionDescriptor{}, fmt.Errorf("building textcfg grammar: %w", parserErr)
	}
	prog, err := p.ParseString("<textcfg>", src)
	if err != nil {
		return lifter.FunctionDescriptor{}, fmt.Errorf("parsing textcfg source: %w", err)
	}
	return lowerFunction(prog.Function)
}

// ParseFunction parses src and assembles it straight into an *ir.Function,
// combining ParseDescriptor with lifter.Build.
func ParseFunction(src string) (*ir.Function, error) {
	d, err := ParseDescriptor(src)
	if err != nil {
		return nil, err
	}
	f, perr := lifter.Build(d)
	if perr != nil {
		return nil, perr
	}
	return f, nil
}
