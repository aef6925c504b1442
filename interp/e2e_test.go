package interp_test

import (
	"errors"
	"io"
	"os"
	"testing"

	"ns/interp"
	"ns/parser"
	"ns/stdlib"
	"ns/util"
)

func newProvider(t *testing.T) *interp.Provider {
	t.Helper()
	p := interp.NewProvider("<e2e>", &util.MemoryImportLocator{Files: map[string]string{}}, util.NewNullLogger())
	p.InstallBuiltins = stdlib.Install
	return p
}

// captureStdout runs fn with os.Stdout swapped for a pipe and returns
// everything fn wrote to it, so print's literal output can be checked
// against the spec's exact expected strings.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("could not create pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("could not read captured output: %v", err)
	}
	return string(out)
}

func runSource(t *testing.T, src string) (*interp.Value, string, error) {
	t.Helper()
	p := newProvider(t)
	var result *interp.Value
	var err error
	out := captureStdout(t, func() {
		result, err = interp.Run(p, "<e2e>", src)
	})
	return result, out, err
}

func TestArithmeticPrecedence(t *testing.T) {
	_, out, err := runSource(t, `let x = 1 + 2 * 3; print(x);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "7\n" {
		t.Errorf("got %q, want %q", out, "7\n")
	}
}

func TestStringRepeat(t *testing.T) {
	_, out, err := runSource(t, `let s = "ab" * 3; print(s);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ababab\n" {
		t.Errorf("got %q, want %q", out, "ababab\n")
	}
}

// Regression test for the native-method receiver-binding bug: a `:`-
// bound native method must see its receiver as args[0].
func TestArrayPushThroughColonCall(t *testing.T) {
	_, out, err := runSource(t, `let xs = [1,2,3]; xs:push(4); print(xs);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "[1, 2, 3, 4]\n" {
		t.Errorf("got %q, want %q", out, "[1, 2, 3, 4]\n")
	}
}

func TestRefAssignmentMutatesTarget(t *testing.T) {
	_, out, err := runSource(t, `let a = 0; let r = &a; *r = 5; print(a);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "5\n" {
		t.Errorf("got %q, want %q", out, "5\n")
	}
}

func TestRecursiveFactorial(t *testing.T) {
	src := `fn fact(n) { if (n==0) { return 1; } return n * fact(n-1); } print(fact(5));`
	_, out, err := runSource(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "120\n" {
		t.Errorf("got %q, want %q", out, "120\n")
	}
}

func TestForLoopBindsItemAndIndex(t *testing.T) {
	src := `for i,idx in [10,20,30] { print(idx, i); }`
	_, out, err := runSource(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "0 10\n1 20\n2 30\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestWhileBreakValueIsExpressionResult(t *testing.T) {
	result, _, err := runSource(t, `while (1) { break 42; }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := interp.Num(result)
	if !ok || f != 42 {
		t.Errorf("got %v, want Number 42", result)
	}
}

func TestCallingNullIsNotCallable(t *testing.T) {
	_, _, err := runSource(t, `let x = null; x();`)
	if err == nil {
		t.Fatal("expected a runtime error calling null")
	}
	if !errors.Is(err, util.ErrNotCallable) {
		t.Errorf("expected ErrNotCallable, got %v", err)
	}
}

func TestEmptyExpressionIsParseError(t *testing.T) {
	_, err := parser.Parse(parser.NewSource("<e2e>", `let x = ;`))
	if err == nil {
		t.Fatal("expected a parse error for an empty expression")
	}
	pe, ok := err.(*parser.ParseError)
	if !ok {
		t.Fatalf("expected *parser.ParseError, got %T", err)
	}
	if pe.Message == "" {
		t.Fatal("expected a non-empty message describing the empty expression")
	}
}

// Regression test for the silent-type-coercion bug: a struct literal
// is not type checked at construction, but using a mismatched field in
// an operator raises the trait's missing-implementation error instead
// of silently coercing it.
func TestStructFieldTypeMismatchRaisesMissingTraitImpl(t *testing.T) {
	src := `struct S { a: Number } let v = S { a: "str" }; v.a + 1;`
	_, _, err := runSource(t, src)
	if err == nil {
		t.Fatal("expected a runtime error adding a String field to a Number")
	}
	if !errors.Is(err, util.ErrMissingTraitImpl) {
		t.Errorf("expected ErrMissingTraitImpl, got %v", err)
	}
}
