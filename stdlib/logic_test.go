/*
 * NS
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package stdlib

import (
	"testing"

	"ns/env"
	"ns/interp"
)

func TestNewLogicCapturesKindAndInputs(t *testing.T) {
	a, b := interp.NewBoolean(true), interp.NewBoolean(false)
	gate := newLogic("and", []*interp.Value{a, b})

	if gate.Class != LogicClass {
		t.Fatalf("expected gate to be a LogicClass instance, got %v", gate.Class)
	}
	kind, ok := interp.Str(gate.Props["kind"])
	if !ok || kind != "and" {
		t.Errorf("expected kind = and, got %v", gate.Props["kind"])
	}
	inputs, ok := interp.Arr(gate.Props["inputs"])
	if !ok || len(inputs.Items) != 2 {
		t.Fatalf("expected 2 initial inputs, got %v", gate.Props["inputs"])
	}
}

func TestConnectWiresSelfIntoOtherAndReturnsOther(t *testing.T) {
	p := newProvider()
	frame := env.NewFrame("root")

	a := newLogic("and", nil)
	b := newLogic("or", nil)

	result, err := connectFunc(p, frame, []*interp.Value{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != b {
		t.Error("expected connect to return the sink gate")
	}

	inputs, _ := interp.Arr(b.Props["inputs"])
	if len(inputs.Items) != 1 || inputs.Items[0] != a {
		t.Errorf("expected b's inputs to contain a, got %v", inputs.Items)
	}
}

func TestGtTraitChainsLeftToRight(t *testing.T) {
	p := newProvider()
	frame := env.NewFrame("root")

	a := newLogic("and", nil)
	b := newLogic("or", nil)
	c := newLogic("xor", nil)

	ab, err := gtFunc(p, frame, []*interp.Value{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ab != b {
		t.Fatal("expected a > b to evaluate to b")
	}

	bc, err := gtFunc(p, frame, []*interp.Value{b, c})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bc != c {
		t.Fatal("expected b > c to evaluate to c")
	}

	bInputs, _ := interp.Arr(b.Props["inputs"])
	if len(bInputs.Items) != 1 || bInputs.Items[0] != a {
		t.Errorf("expected b wired from a, got %v", bInputs.Items)
	}
	cInputs, _ := interp.Arr(c.Props["inputs"])
	if len(cInputs.Items) != 1 || cInputs.Items[0] != b {
		t.Errorf("expected c wired from b, got %v", cInputs.Items)
	}
}

func TestLogicClassHasOpGtTrait(t *testing.T) {
	if _, ok := LogicClass.Traits[interp.TraitOpGt]; !ok {
		t.Error("expected LogicClass to implement Op.Gt")
	}
}
