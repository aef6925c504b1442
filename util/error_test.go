/*
 * NS
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"ns/parser"
)

func parseOne(t *testing.T, src string) *parser.Block {
	t.Helper()
	root, err := parser.Parse(parser.NewSource("foo", src))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return root
}

func TestRuntimeErrorString(t *testing.T) {
	root := parseOne(t, "a;")

	err := NewRuntimeError("foo", ErrUnboundName, "a", root.Stmts[0])

	want := fmt.Sprintf("Runtime Error in foo: %v (a) (Line:1 Pos:1)", ErrUnboundName)
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestRuntimeErrorWithoutNode(t *testing.T) {
	err := NewRuntimeError("foo", ErrNotCallable, "x", nil)

	if err.Line != 0 || err.Pos != 0 {
		t.Errorf("expected no position without a node, got line=%d pos=%d", err.Line, err.Pos)
	}

	want := fmt.Sprintf("Runtime Error in foo: %v (x)", ErrNotCallable)
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestRuntimeErrorUnwrap(t *testing.T) {
	err := NewRuntimeError("foo", ErrNotANumber, "bar", nil)

	if !errors.Is(err, ErrNotANumber) {
		t.Error("expected errors.Is to match the sentinel Type")
	}
	if errors.Is(err, ErrNotABoolean) {
		t.Error("expected errors.Is not to match an unrelated sentinel")
	}
}

func TestAddTraceToError(t *testing.T) {
	root := parseOne(t, "a; b;")
	err := NewRuntimeError("foo", ErrRuntimeError, "boom", root.Stmts[0])

	AddTraceToError(err, root.Stmts[1])
	AddTraceToError(err, root.Stmts[0])

	re := err
	if len(re.GetTrace()) != 2 {
		t.Fatalf("expected 2 trace entries, got %d", len(re.GetTrace()))
	}

	plain := errors.New("not traceable")
	if got := AddTraceToError(plain, root.Stmts[0]); got != plain {
		t.Error("expected a non-Traceable error to be returned unchanged")
	}
}

func TestRuntimeErrorToJSONObject(t *testing.T) {
	root := parseOne(t, "a;")
	err := NewRuntimeError("foo", ErrUnboundName, "a", root.Stmts[0])

	obj := err.ToJSONObject()
	if obj["source"] != "foo" || obj["detail"] != "a" || obj["type"] != ErrUnboundName.Error() {
		t.Errorf("unexpected JSON object: %v", obj)
	}

	data, jsonErr := json.Marshal(err)
	if jsonErr != nil {
		t.Fatalf("unexpected marshal error: %v", jsonErr)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}
	if decoded["source"] != "foo" {
		t.Errorf("unexpected decoded source: %v", decoded["source"])
	}
}
