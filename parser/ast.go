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

import "fmt"

/*
Node is the common interface of every AST node kind. Nodes are
tree-shaped and tagged-variant: Kind() identifies the concrete shape
for dispatch-table lookups, Tok() is the token the node originated
from (used for diagnostics), and Parent()/SetParent() maintain the
parent-pointer chain that every node (except the root Block) must
terminate through.

Cyclic node graphs (parent pointers pointing back up the tree) are
intentionally modeled with plain pointers rather than arena indices:
Go's garbage collector handles the up-pointer/down-slice cycle fine
without a refcount scheme, so there is no need for the arena-by-index
encoding an unmanaged systems language would require.
*/
type Node interface {
	Kind() NodeKind
	Tok() *Token
	Parent() Node
	SetParent(Node)
	Children() []Node
	String() string
}

/*
base is embedded by every concrete node and implements the Parent/Tok
plumbing all of them share.
*/
type base struct {
	kind   NodeKind
	tok    *Token
	parent Node
}

func (b *base) Kind() NodeKind   { return b.kind }
func (b *base) Tok() *Token      { return b.tok }
func (b *base) Parent() Node     { return b.parent }
func (b *base) SetParent(p Node) { b.parent = p }

func adopt(parent Node, children ...Node) {
	for _, c := range children {
		if c != nil {
			c.SetParent(parent)
		}
	}
}

/*
Block is a list of statement children; the top-level Block (absent
parent) is the parse root.
*/
type Block struct {
	base
	Stmts      []Node
	isRoot     bool
	StructBody bool
}

func NewBlock(tok *Token) *Block { return &Block{base: base{kind: KindBlock, tok: tok}} }
func (n *Block) Children() []Node { return n.Stmts }
func (n *Block) Append(c Node) {
	adopt(n, c)
	n.Stmts = append(n.Stmts, c)
}
func (n *Block) String() string { return fmt.Sprintf("Block(%d)", len(n.Stmts)) }

/*
DecoratorSet is embedded by Let and Function (the DecoratableNode
kinds) to hold decorators attached before them in source order.
*/
type DecoratorSet struct {
	Decorators []*Decorator
}

/*
Let is a `let` declaration: name, optional declared type, optional
initializer, and a modifier set (`const`, `mut`).
*/
type Let struct {
	base
	DecoratorSet
	Name    string
	Const   bool
	Mut     bool
	Type    Node
	Init    Node
}

func NewLet(tok *Token) *Let { return &Let{base: base{kind: KindLet, tok: tok}} }
func (n *Let) Children() []Node {
	var c []Node
	if n.Type != nil {
		c = append(c, n.Type)
	}
	if n.Init != nil {
		c = append(c, n.Init)
	}
	return c
}
func (n *Let) String() string { return fmt.Sprintf("Let(%s)", n.Name) }

/*
Return, Break and Continue all carry an optional value expression.
*/
type Return struct {
	base
	Value Node
}

func NewReturn(tok *Token) *Return { return &Return{base: base{kind: KindReturn, tok: tok}} }
func (n *Return) Children() []Node {
	if n.Value == nil {
		return nil
	}
	return []Node{n.Value}
}
func (n *Return) String() string { return "Return" }

type Break struct {
	base
	Value Node
}

func NewBreak(tok *Token) *Break { return &Break{base: base{kind: KindBreak, tok: tok}} }
func (n *Break) Children() []Node {
	if n.Value == nil {
		return nil
	}
	return []Node{n.Value}
}
func (n *Break) String() string { return "Break" }

type Continue struct {
	base
	Value Node
}

func NewContinue(tok *Token) *Continue { return &Continue{base: base{kind: KindContinue, tok: tok}} }
func (n *Continue) Children() []Node {
	if n.Value == nil {
		return nil
	}
	return []Node{n.Value}
}
func (n *Continue) String() string { return "Continue" }

/*
If holds a condition, then-branch and optional else-branch. Both
branches may be a Block or a bare expression/statement node depending
on the source form; ExprForm marks an If parsed in expression context
(where an else branch is mandatory).
*/
type If struct {
	base
	Cond     Node
	Then     Node
	Else     Node
	ExprForm bool
}

func NewIf(tok *Token) *If { return &If{base: base{kind: KindIf, tok: tok}} }
func (n *If) Children() []Node {
	c := []Node{n.Cond, n.Then}
	if n.Else != nil {
		c = append(c, n.Else)
	}
	return c
}
func (n *If) String() string { return "If" }

type While struct {
	base
	Cond Node
	Body Node
}

func NewWhile(tok *Token) *While { return &While{base: base{kind: KindWhile, tok: tok}} }
func (n *While) Children() []Node { return []Node{n.Cond, n.Body} }
func (n *While) String() string   { return "While" }

/*
For is a for-in loop: iterator name, optional index-counter name, the
iterable expression and the body.
*/
type For struct {
	base
	Iter     string
	Index    string
	HasIndex bool
	Iterable Node
	Body     Node
}

func NewFor(tok *Token) *For { return &For{base: base{kind: KindFor, tok: tok}} }
func (n *For) Children() []Node { return []Node{n.Iterable, n.Body} }
func (n *For) String() string   { return fmt.Sprintf("For(%s)", n.Iter) }

/*
FunctionParameter is one parameter of a Function declaration: name,
optional declared type-expression and optional default-value
expression.
*/
type FunctionParameter struct {
	Name    string
	Type    Node
	Default Node
}

/*
Function is a function declaration/expression: optional name,
parameter list, optional return-type expression and an optional body
(absent for header-only declarations terminated by `;`).
*/
type Function struct {
	base
	DecoratorSet
	Name       string
	Params     []*FunctionParameter
	ReturnType Node
	Body       Node
}

func NewFunction(tok *Token) *Function { return &Function{base: base{kind: KindFunction, tok: tok}} }
func (n *Function) Children() []Node {
	var c []Node
	for _, p := range n.Params {
		if p.Type != nil {
			c = append(c, p.Type)
		}
		if p.Default != nil {
			c = append(c, p.Default)
		}
	}
	if n.ReturnType != nil {
		c = append(c, n.ReturnType)
	}
	if n.Body != nil {
		c = append(c, n.Body)
	}
	return c
}
func (n *Function) String() string { return fmt.Sprintf("Function(%s)", n.Name) }

/*
Struct is a struct declaration: optional name and a body Block whose
children are StructProp nodes.
*/
type Struct struct {
	base
	Name string
	Body *Block
}

func NewStruct(tok *Token) *Struct { return &Struct{base: base{kind: KindStruct, tok: tok}} }
func (n *Struct) Children() []Node { return []Node{n.Body} }
func (n *Struct) String() string   { return fmt.Sprintf("Struct(%s)", n.Name) }

/*
StructProp is one `name: type` property declaration inside a Struct
body.
*/
type StructProp struct {
	base
	Name string
	Type Node
}

func NewStructProp(tok *Token) *StructProp {
	return &StructProp{base: base{kind: KindStructProp, tok: tok}}
}
func (n *StructProp) Children() []Node { return []Node{n.Type} }
func (n *StructProp) String() string   { return fmt.Sprintf("StructProp(%s)", n.Name) }

/*
EnumMemberForm distinguishes the three member shapes a named Enum
variant can take.
*/
type EnumMemberForm int

const (
	EnumMemberUnit EnumMemberForm = iota
	EnumMemberTuple
	EnumMemberStruct
)

/*
EnumMember is one variant of an Enum: a bare unit (`NAME`), a tuple
(`NAME(type, ...)`) or a struct variant (`NAME{field: type, ...}`).
*/
type EnumMember struct {
	base
	Name       string
	Form       EnumMemberForm
	TupleTypes []Node
	Fields     []*StructProp
}

func NewEnumMember(tok *Token) *EnumMember {
	return &EnumMember{base: base{kind: KindEnumMember, tok: tok}}
}
func (n *EnumMember) Children() []Node {
	var c []Node
	c = append(c, n.TupleTypes...)
	for _, f := range n.Fields {
		c = append(c, f)
	}
	return c
}
func (n *EnumMember) String() string { return fmt.Sprintf("EnumMember(%s)", n.Name) }

/*
Enum is an enum declaration: optional name, a C-representation flag
(forbids tuple/struct variants when set) and its members.
*/
type Enum struct {
	base
	Name    string
	CRepr   bool
	Members []*EnumMember
}

func NewEnum(tok *Token) *Enum { return &Enum{base: base{kind: KindEnum, tok: tok}} }
func (n *Enum) Children() []Node {
	c := make([]Node, len(n.Members))
	for i, m := range n.Members {
		c[i] = m
	}
	return c
}
func (n *Enum) String() string { return fmt.Sprintf("Enum(%s)", n.Name) }

/*
Import lists module names to resolve relative to the main file's
directory.
*/
type Import struct {
	base
	Names []string
}

func NewImport(tok *Token) *Import { return &Import{base: base{kind: KindImport, tok: tok}} }
func (n *Import) Children() []Node { return nil }
func (n *Import) String() string   { return fmt.Sprintf("Import(%v)", n.Names) }

/*
Decorator is `@NAME(args...)`, attached to the next DecoratableNode
appended to the enclosing Block.
*/
type Decorator struct {
	base
	Name string
	Args []Node
}

func NewDecorator(tok *Token) *Decorator { return &Decorator{base: base{kind: KindDecorator, tok: tok}} }
func (n *Decorator) Children() []Node    { return n.Args }
func (n *Decorator) String() string      { return fmt.Sprintf("Decorator(%s)", n.Name) }

// --- expression-level nodes -------------------------------------------------

type Name struct {
	base
	Ident string
}

func NewName(tok *Token, ident string) *Name {
	return &Name{base: base{kind: KindName, tok: tok}, Ident: ident}
}
func (n *Name) Children() []Node { return nil }
func (n *Name) String() string   { return n.Ident }

type Number struct {
	base
	Text string
}

func NewNumber(tok *Token) *Number {
	return &Number{base: base{kind: KindNumber, tok: tok}, Text: tok.Text}
}
func (n *Number) Children() []Node { return nil }
func (n *Number) String() string   { return n.Text }

type String struct {
	base
	Value string
}

func NewString(tok *Token, value string) *String {
	return &String{base: base{kind: KindString, tok: tok}, Value: value}
}
func (n *String) Children() []Node { return nil }
func (n *String) String() string   { return fmt.Sprintf("%q", n.Value) }

/*
Access is the shared shape for `.`, `:` and `::`: a receiver (nil means
implicit `self`) and a property name.
*/
type Access struct {
	base
	Recv Node
	Prop string
}

func NewAccess(kind NodeKind, tok *Token) *Access {
	return &Access{base: base{kind: kind, tok: tok}}
}
func (n *Access) Children() []Node {
	if n.Recv == nil {
		return nil
	}
	return []Node{n.Recv}
}
func (n *Access) String() string { return fmt.Sprintf("%s(.%s)", n.Kind(), n.Prop) }

type Call struct {
	base
	Callee Node
	Args   []Node
}

func NewCall(tok *Token, callee Node) *Call {
	c := &Call{base: base{kind: KindCall, tok: tok}, Callee: callee}
	adopt(c, callee)
	return c
}
func (n *Call) Children() []Node { return append([]Node{n.Callee}, n.Args...) }
func (n *Call) String() string   { return "Call" }

/*
Index is n-ary subscripting; Sep records whether `,` or `:` was
observed (the first one seen becomes sticky).
*/
type Index struct {
	base
	Recv Node
	Args []Node
	Sep  string
}

func NewIndex(tok *Token, recv Node) *Index {
	n := &Index{base: base{kind: KindIndex, tok: tok}, Recv: recv}
	adopt(n, recv)
	return n
}
func (n *Index) Children() []Node { return append([]Node{n.Recv}, n.Args...) }
func (n *Index) String() string   { return "Index" }

type Prefix struct {
	base
	Op      string
	Operand Node
}

func NewPrefix(tok *Token, op string, operand Node) *Prefix {
	n := &Prefix{base: base{kind: KindPrefix, tok: tok}, Op: op, Operand: operand}
	adopt(n, operand)
	return n
}
func (n *Prefix) Children() []Node { return []Node{n.Operand} }
func (n *Prefix) String() string   { return fmt.Sprintf("Prefix(%s)", n.Op) }

type Postfix struct {
	base
	Op      string
	Operand Node
}

func NewPostfix(tok *Token, op string, operand Node) *Postfix {
	n := &Postfix{base: base{kind: KindPostfix, tok: tok}, Op: op, Operand: operand}
	adopt(n, operand)
	return n
}
func (n *Postfix) Children() []Node { return []Node{n.Operand} }
func (n *Postfix) String() string   { return fmt.Sprintf("Postfix(%s)", n.Op) }

type Binary struct {
	base
	Op    string
	Left  Node
	Right Node
}

func NewBinary(tok *Token, op string, left, right Node) *Binary {
	n := &Binary{base: base{kind: KindBinary, tok: tok}, Op: op, Left: left, Right: right}
	adopt(n, left, right)
	return n
}
func (n *Binary) Children() []Node { return []Node{n.Left, n.Right} }
func (n *Binary) String() string   { return fmt.Sprintf("Binary(%s)", n.Op) }

type Cast struct {
	base
	Value Node
	Type  Node
}

func NewCast(tok *Token, value, typ Node) *Cast {
	n := &Cast{base: base{kind: KindCast, tok: tok}, Value: value, Type: typ}
	adopt(n, value, typ)
	return n
}
func (n *Cast) Children() []Node { return []Node{n.Value, n.Type} }
func (n *Cast) String() string   { return "Cast" }

type Array struct {
	base
	Items []Node
}

func NewArray(tok *Token) *Array { return &Array{base: base{kind: KindArray, tok: tok}} }
func (n *Array) Children() []Node { return n.Items }
func (n *Array) String() string   { return fmt.Sprintf("Array(%d)", len(n.Items)) }

/*
Generic is a generic instantiation: the base value plus one-or-more
comma-separated type-expression arguments (restored from
original_source, not spelled out verbatim in the distilled grammar).
*/
type Generic struct {
	base
	Value Node
	Args  []Node
}

func NewGeneric(tok *Token, value Node) *Generic {
	n := &Generic{base: base{kind: KindGeneric, tok: tok}, Value: value}
	adopt(n, value)
	return n
}
func (n *Generic) Children() []Node { return append([]Node{n.Value}, n.Args...) }
func (n *Generic) String() string   { return "Generic" }

/*
TypeGeneric is a bare generic argument list parsed in type context
(`<T, U>` following a type name with no preceding value node, e.g. a
declared parameter type).
*/
type TypeGeneric struct {
	base
	Args []Node
}

func NewTypeGeneric(tok *Token) *TypeGeneric {
	return &TypeGeneric{base: base{kind: KindTypeGeneric, tok: tok}}
}
func (n *TypeGeneric) Children() []Node { return n.Args }
func (n *TypeGeneric) String() string   { return "TypeGeneric" }

/*
Constructor builds a struct instance: `Name { field: expr, ... }`.
Each field is stored as a Binary(`:`) pair for simplicity (Left is a
Name, Right the value expression), mirroring how the source expression
buffer sees `field: value` inside the brace.
*/
type Constructor struct {
	base
	StructName Node
	Fields     []*Binary
}

func NewConstructor(tok *Token, structName Node) *Constructor {
	n := &Constructor{base: base{kind: KindConstructor, tok: tok}, StructName: structName}
	adopt(n, structName)
	return n
}
func (n *Constructor) Children() []Node {
	c := []Node{n.StructName}
	for _, f := range n.Fields {
		c = append(c, f)
	}
	return c
}
func (n *Constructor) String() string { return "Constructor" }

/*
Expression wraps a resolved operator tree; TypeContext marks an
Expression parsed for a type position (affects `<`/`>` splitting and
what `{`/`(` mean). Result is the single resolved child node.
*/
type Expression struct {
	base
	TypeContext bool
	Result      Node
}

func NewExpression(tok *Token) *Expression {
	return &Expression{base: base{kind: KindExpression, tok: tok}}
}
func (n *Expression) Children() []Node {
	if n.Result == nil {
		return nil
	}
	return []Node{n.Result}
}
func (n *Expression) String() string { return "Expression" }

/*
RefExpression implements the `=>` / `->` sugar: Head is the left
operand, Body the arrow's right-hand expression, Name the bound
identifier (defaults to "it"), Ref marks whether `&` was requested
before the name, and TakeResult distinguishes `=>` (yields the body's
value) from `->` (yields the original head value).
*/
type RefExpression struct {
	base
	Head       Node
	Body       Node
	Name       string
	Ref        bool
	TakeResult bool
}

func NewRefExpression(tok *Token, head Node) *RefExpression {
	n := &RefExpression{base: base{kind: KindRefExpression, tok: tok}, Head: head, Name: "it"}
	adopt(n, head)
	return n
}
func (n *RefExpression) Children() []Node { return []Node{n.Head, n.Body} }
func (n *RefExpression) String() string   { return fmt.Sprintf("RefExpression(=>%s)", n.Name) }
