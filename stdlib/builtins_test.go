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

func newProvider() *interp.Provider {
	return interp.NewProvider("<test>", nil, nil)
}

func TestInstallDeclaresEveryBuiltin(t *testing.T) {
	frame := env.NewFrame("root")
	Install(frame)

	names := []string{"true", "false", "null", "print", "export", "require",
		"and", "or", "xor", "nand", "nor", "nxor"}

	for _, n := range names {
		if _, ok := frame.Vars().Lookup(n); !ok {
			t.Errorf("expected %q to be declared after Install", n)
		}
	}
}

func TestLiteralNames(t *testing.T) {
	frame := env.NewFrame("root")
	Install(frame)

	trueVal, _ := frame.Vars().Lookup("true")
	if b, ok := interp.Bool(trueVal.(*interp.Value)); !ok || !b {
		t.Errorf("expected true to be a true Boolean, got %v", trueVal)
	}

	falseVal, _ := frame.Vars().Lookup("false")
	if b, ok := interp.Bool(falseVal.(*interp.Value)); !ok || b {
		t.Errorf("expected false to be a false Boolean, got %v", falseVal)
	}

	nullVal, _ := frame.Vars().Lookup("null")
	if nullVal.(*interp.Value).Kind != interp.KindNull {
		t.Errorf("expected null to be KindNull, got %v", nullVal)
	}
}

func TestPrintReturnsNull(t *testing.T) {
	frame := env.NewFrame("root")
	Install(frame)
	p := newProvider()

	result, err := printFunc(p, frame, []*interp.Value{interp.NewString("hello")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Kind != interp.KindNull {
		t.Errorf("expected print to return Null, got %v", result)
	}
}

func TestExportAsBareValueErrors(t *testing.T) {
	p := newProvider()
	if _, err := exportFunc(p, env.NewFrame("root"), nil); err == nil {
		t.Error("expected calling export directly to error")
	}
}

func TestRequireWrongArgCount(t *testing.T) {
	p := newProvider()
	frame := env.NewFrame("root")
	if _, err := requireFunc(p, frame, nil); err == nil {
		t.Error("expected require() with no arguments to error")
	}
	if _, err := requireFunc(p, frame, []*interp.Value{interp.NewString("a"), interp.NewString("b")}); err == nil {
		t.Error("expected require() with two arguments to error")
	}
}

func TestRequireNonStringPathErrors(t *testing.T) {
	p := newProvider()
	frame := env.NewFrame("root")
	if _, err := requireFunc(p, frame, []*interp.Value{interp.NewBoolean(true)}); err == nil {
		t.Error("expected require() with a non-String path to error")
	}
}
