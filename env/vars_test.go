/*
 * NS
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package env

import "testing"

func TestDeclareAndLookup(t *testing.T) {
	root := NewRootVars()
	root.Declare("x", 1)

	if v, ok := root.Lookup("x"); !ok || v != 1 {
		t.Errorf("unexpected lookup result: %v, %v", v, ok)
	}
	if _, ok := root.Lookup("y"); ok {
		t.Error("expected y to be unbound")
	}
}

func TestExtendShadowsAndChains(t *testing.T) {
	root := NewRootVars()
	root.Declare("x", 1)

	child := root.Extend()
	child.Declare("x", 2)

	if v, _ := child.Lookup("x"); v != 2 {
		t.Errorf("expected shadowed x = 2, got %v", v)
	}
	if v, _ := root.Lookup("x"); v != 1 {
		t.Errorf("expected root x unaffected, got %v", v)
	}

	child.Declare("y", 3)
	if _, ok := root.Lookup("y"); ok {
		t.Error("expected y not visible from root")
	}
}

func TestAssignWalksToOwner(t *testing.T) {
	root := NewRootVars()
	root.Declare("x", 1)
	child := root.Extend()

	if err := child.Assign("x", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := root.Lookup("x"); v != 2 {
		t.Errorf("expected root x = 2 after child assign, got %v", v)
	}

	if err := child.Assign("never-declared", 1); err == nil {
		t.Error("expected error assigning an unbound name")
	}
}

func TestLockRejectsDeclareAndAssignButNotLookup(t *testing.T) {
	root := NewRootVars()
	root.Declare("x", 1)
	root.Lock()

	if err := root.Declare("y", 2); err == nil {
		t.Error("expected error declaring into a locked Vars")
	}
	if err := root.Assign("x", 2); err == nil {
		t.Error("expected error assigning into a locked Vars")
	}
	if v, ok := root.Lookup("x"); !ok || v != 1 {
		t.Errorf("expected lookup through a locked Vars to still work, got %v, %v", v, ok)
	}
	if !root.Locked() {
		t.Error("expected Locked() to report true")
	}

	child := root.Extend()
	if err := child.Declare("y", 2); err != nil {
		t.Errorf("expected an unlocked child to accept declarations, got %v", err)
	}
	if err := child.Assign("x", 3); err == nil {
		t.Error("expected assign through an unlocked child to a name owned by the locked Vars to fail")
	}
}

func TestFrameChildAndNest(t *testing.T) {
	root := NewFrame("root")
	root.Vars().Declare("x", 1)

	call := root.Child("f", map[string]interface{}{"self": 42})
	if v, ok := call.Vars().Lookup("self"); !ok || v != 42 {
		t.Errorf("expected self binding in call frame, got %v, %v", v, ok)
	}
	if v, ok := call.Vars().Lookup("x"); !ok || v != 1 {
		t.Errorf("expected call frame to see enclosing x, got %v, %v", v, ok)
	}
	if call.Parent() != root {
		t.Error("expected Child's Parent to be the enclosing frame")
	}

	block := call.Nest()
	if block.Name() != call.Name() {
		t.Errorf("expected Nest to keep the same frame name, got %v", block.Name())
	}
	if block.Parent() != call.Parent() {
		t.Error("expected Nest to keep the same enclosing parent as its frame, not become it")
	}
	block.Vars().Declare("y", 2)
	if _, ok := call.Vars().Lookup("y"); ok {
		t.Error("expected a name declared in a nested block not to leak back up")
	}

	if root.Root() != root {
		t.Error("expected Root() on a root frame to return itself")
	}
	if call.Root() != root {
		t.Error("expected Root() on a call frame to walk up to root")
	}
	if block.Root() != root {
		t.Error("expected Root() on a nested block frame to walk up to root")
	}
}
