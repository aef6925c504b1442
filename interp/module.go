/*
 * NS
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package interp

import (
	"ns/env"
	"ns/parser"
	"ns/util"
)

/*
Run parses, validates and evaluates src as a complete program under
name, in its own root Frame (populated by p.InstallBuiltins, if set).
This is the single entry point `cli` drives; `RunModule` is its
import/require-facing sibling, which evaluates a child program into an
isolated root Frame instead of the process' own.
*/
func Run(p *Provider, name, src string) (*Value, error) {
	root, err := parser.Parse(parser.NewSource(name, src))
	if err != nil {
		return nil, err
	}
	if err := p.Runtime(root).Validate(); err != nil {
		return nil, err
	}

	frame := env.NewFrame(name)
	if p.InstallBuiltins != nil {
		p.InstallBuiltins(frame)
	}

	v, flow, err := evalNode(p, root, frame, nil, false)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return nil, p.NewRuntimeError(util.ErrStrayControlFlow, flow.String(), root)
	}
	return v, nil
}
