/*
 * NS
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
Package parser contains the lexer, token stream and recursive-descent
parser for the NS language.
*/
package parser

import "strings"

/*
Source holds normalized source text plus the name it was loaded under
(a file path or a synthetic name such as "<repl>"). Line endings are
normalized to LF on construction so the lexer and diagnostics never
have to special-case CR.
*/
type Source struct {
	Name string
	Body string
}

/*
NewSource creates a Source from raw text, normalizing CRLF to LF.
*/
func NewSource(name string, body string) *Source {
	return &Source{
		Name: name,
		Body: strings.ReplaceAll(body, "\r\n", "\n"),
	}
}

/*
Lines returns the source body split into lines, used by diagnostics to
show the offending source line.
*/
func (s *Source) Lines() []string {
	return strings.Split(s.Body, "\n")
}

/*
Line returns a single line of the source (0-based). Returns an empty
string if the line is out of range.
*/
func (s *Source) Line(n int) string {
	lines := s.Lines()
	if n < 0 || n >= len(lines) {
		return ""
	}
	return lines[n]
}
