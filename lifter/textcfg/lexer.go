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

package textcfg

import "github.com/alecthomas/participle/v2/lexer"

// cfgLexer tokenizes the plain-text basic-block/CFG fixture format: one
// function, its arguments, and its blocks, each holding simple
// assignment/return/goto/branch statements over register and constant
// operands.
var cfgLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Hex", Pattern: `0x[0-9a-fA-F]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Operator", Pattern: `(\|\||&&|==|!=|<=|>=|<<|>>|[-+*/%&|^<>=~!?:,.])`},
	{Name: "Punct", Pattern: `[{}()\[\];$]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})
