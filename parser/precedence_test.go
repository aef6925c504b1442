package parser

import "testing"

func parseExprResult(t *testing.T, src string) Node {
	t.Helper()
	root, err := Parse(NewSource("prec", src))
	if err != nil {
		t.Fatalf("unexpected parse error for %q: %v", src, err)
	}
	if len(root.Stmts) != 1 {
		t.Fatalf("expected exactly one statement, got %d", len(root.Stmts))
	}
	expr, ok := root.Stmts[0].(*Expression)
	if !ok {
		t.Fatalf("expected *Expression, got %T", root.Stmts[0])
	}
	return expr.Result
}

func binOp(t *testing.T, n Node) *Binary {
	t.Helper()
	b, ok := n.(*Binary)
	if !ok {
		t.Fatalf("expected *Binary, got %T", n)
	}
	return b
}

func name(t *testing.T, n Node) string {
	t.Helper()
	id, ok := n.(*Name)
	if !ok {
		t.Fatalf("expected *Name, got %T", n)
	}
	return id.Ident
}

// a + b * c must parse as a + (b * c): `*` binds tighter than `+`.
func TestPrecedenceMulBindsTighterThanAdd(t *testing.T) {
	top := binOp(t, parseExprResult(t, "a + b * c;"))
	if top.Op != "+" {
		t.Fatalf("expected top operator '+', got %q", top.Op)
	}
	if name(t, top.Left) != "a" {
		t.Fatalf("expected left operand 'a', got %v", top.Left)
	}
	right := binOp(t, top.Right)
	if right.Op != "*" || name(t, right.Left) != "b" || name(t, right.Right) != "c" {
		t.Fatalf("expected right operand (b * c), got %#v", right)
	}
}

// a - b - c must parse left-associatively as (a - b) - c.
func TestMinusIsLeftAssociative(t *testing.T) {
	top := binOp(t, parseExprResult(t, "a - b - c;"))
	if top.Op != "-" || name(t, top.Right) != "c" {
		t.Fatalf("expected top-level (_ - c), got %#v", top)
	}
	left := binOp(t, top.Left)
	if left.Op != "-" || name(t, left.Left) != "a" || name(t, left.Right) != "b" {
		t.Fatalf("expected left operand (a - b), got %#v", left)
	}
}

// a = b = c must parse right-associatively as a = (b = c).
func TestAssignmentIsRightAssociative(t *testing.T) {
	top := binOp(t, parseExprResult(t, "a = b = c;"))
	if top.Op != "=" || name(t, top.Left) != "a" {
		t.Fatalf("expected top-level (a = _), got %#v", top)
	}
	right := binOp(t, top.Right)
	if right.Op != "=" || name(t, right.Left) != "b" || name(t, right.Right) != "c" {
		t.Fatalf("expected right operand (b = c), got %#v", right)
	}
}

// Every syntactically valid source leaves the parser's enclosure stack
// empty at EOF.
func TestEnclosureStackEmptyOnValidInput(t *testing.T) {
	sources := []string{
		"let x = (1 + 2) * [3, 4][0];",
		"fn f(a, b) { if (a) { return b; } return a; }",
		"let s = S { a: 1 };",
		"while (1) { break; }",
	}
	for _, src := range sources {
		if _, err := Parse(NewSource("enc", src)); err != nil {
			t.Errorf("unexpected error for %q: %v", src, err)
		}
	}
}

// An unmatched opener is a parse error, reported where the matching
// closer was expected (EOF here, since nothing else follows).
func TestUnmatchedEnclosureIsParseError(t *testing.T) {
	_, err := Parse(NewSource("unclosed", "let x = (1 + 2"))
	if err == nil {
		t.Fatal("expected a parse error for an unclosed enclosure")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Message == "" {
		t.Fatal("expected a non-empty error message")
	}
}

// An empty expression is a parse error naming the empty expression.
func TestEmptyExpressionIsParseError(t *testing.T) {
	_, err := Parse(NewSource("empty", "let x = ;"))
	if err == nil {
		t.Fatal("expected a parse error for an empty expression")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Message == "" {
		t.Fatal("expected a non-empty error message")
	}
}
