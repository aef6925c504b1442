/*
 * NS
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package parser

import (
	"bytes"
	"fmt"

	"github.com/krotik/common/stringutil"
)

/*
IndentationLevel is the number of spaces the AST dump indents per tree
level.
*/
const IndentationLevel = 2

/*
PrettyPrint renders an AST as an indented tree dump for the `-ast` CLI
flag. It is a diagnostic/debugging hook only - the interpreter never
relies on parsing this text back (see DESIGN NOTES: the source
language's ad-hoc reflection-based pretty printer is deliberately not
ported).
*/
func PrettyPrint(n Node) string {
	var buf bytes.Buffer
	var visit func(n Node, level int)

	visit = func(n Node, level int) {
		if n == nil {
			return
		}
		indent := stringutil.GenerateRollingString(" ", level*IndentationLevel)
		buf.WriteString(fmt.Sprintf("%s%s\n", indent, n.String()))
		for _, c := range n.Children() {
			visit(c, level+1)
		}
	}

	visit(n, 0)
	return buf.String()
}
