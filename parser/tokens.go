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

/*
Keywords maps keyword lexemes to themselves; membership is what
matters. true/false/null are deliberately NOT here - they are ordinary
identifiers resolved to built-in bindings installed in the root Vars,
not reserved words.
*/
var Keywords = map[string]bool{
	"let":      true,
	"fn":       true,
	"if":       true,
	"else":     true,
	"while":    true,
	"for":      true,
	"in":       true,
	"return":   true,
	"break":    true,
	"continue": true,
	"struct":   true,
	"enum":     true,
	"import":   true,
	"const":    true,
	"mut":      true,
}

/*
compoundOperators lists every multi-character operator/punctuator
recognized as a single token, longest first so the lexer's greedy scan
never mis-splits a longer operator into two shorter ones (e.g. `&&=`
must be tried before `&&`, which must be tried before `&`).
*/
var compoundOperators = []string{
	// three characters
	"...", ">>=", "<<=", "&&=", "||=",
	// two characters
	"==", ">=", "<=", "!=", "&&", "||", ">>", "<<",
	"+=", "-=", "*=", "/=", "%=", "^=", "&=", "|=",
	"++", "--", "<>", "<{", "}>", "->", "=>", "::",
	"//", "/*", "*/",
}

/*
singleCharPunct is the set of single-character punctuators from
scanning rule 5. `%` is added to complete the set: the precedence table
and the compound table both use `%`/`%=` but the rule's literal
character class omits it - an evident gap in an otherwise exhaustive
listing, completed here.
*/
var singleCharPunct = map[rune]bool{
	'.': true, ',': true, ':': true, ';': true, '/': true,
	'+': true, '-': true, '*': true, '=': true, '!': true,
	'?': true, '(': true, ')': true, '[': true, ']': true,
	'{': true, '}': true, '<': true, '>': true, '@': true,
	'#': true, '~': true, '^': true, '&': true, '\\': true,
	'|': true, '%': true,
}

/*
NodeKind tags every AST node's concrete variant, used both for
dispatch-table lookups in the interpreter and for AST pretty-printing.
*/
type NodeKind string

const (
	KindBlock             NodeKind = "Block"
	KindLet               NodeKind = "Let"
	KindReturn            NodeKind = "Return"
	KindBreak             NodeKind = "Break"
	KindContinue          NodeKind = "Continue"
	KindIf                NodeKind = "If"
	KindWhile             NodeKind = "While"
	KindFor               NodeKind = "For"
	KindFunction          NodeKind = "Function"
	KindStruct            NodeKind = "Struct"
	KindEnum              NodeKind = "Enum"
	KindEnumMember        NodeKind = "EnumMember"
	KindStructProp        NodeKind = "StructProp"
	KindImport            NodeKind = "Import"
	KindDecorator         NodeKind = "Decorator"
	KindName              NodeKind = "Name"
	KindNumber            NodeKind = "Number"
	KindString            NodeKind = "String"
	KindAccessDot         NodeKind = "AccessDot"
	KindAccessColon       NodeKind = "AccessColon"
	KindAccessColonDouble NodeKind = "AccessColonDouble"
	KindCall              NodeKind = "Call"
	KindIndex             NodeKind = "Index"
	KindPrefix            NodeKind = "Prefix"
	KindPostfix           NodeKind = "Postfix"
	KindBinary            NodeKind = "Binary"
	KindCast              NodeKind = "Cast"
	KindArray             NodeKind = "Array"
	KindGeneric           NodeKind = "Generic"
	KindTypeGeneric       NodeKind = "TypeGeneric"
	KindConstructor       NodeKind = "Constructor"
	KindExpression        NodeKind = "Expression"
	KindRefExpression     NodeKind = "RefExpression"
)

/*
OpArity classifies how an operator token combines with its neighbors
during precedence resolution.
*/
type OpArity int

const (
	OpPrefix OpArity = iota
	OpBinary
	OpPostfix
)

/*
PrecLevel is one row of the precedence table: the set of operator
lexemes valid at this level (each tagged with its arity) plus whether
the level resolves right-to-left instead of the default left-to-right.
*/
type PrecLevel struct {
	Ops         map[string]OpArity
	RightToLeft bool
}

/*
PrecedenceTable lists every level from tightest to loosest, exactly as
enumerated in the operator resolution rules: prefix/postfix levels for
`++`/`--`/unary, then binary levels from `*` down through assignment,
plus the unary spread `...` at the very end.
*/
var PrecedenceTable = []PrecLevel{
	{Ops: map[string]OpArity{"++": OpPostfix, "--": OpPostfix, "*": OpPostfix}},
	{Ops: map[string]OpArity{
		"++": OpPrefix, "--": OpPrefix, "&": OpPrefix, "*": OpPrefix,
		"+": OpPrefix, "-": OpPrefix, "!": OpPrefix, "~": OpPrefix,
	}},
	{Ops: map[string]OpArity{"*": OpBinary, "/": OpBinary, "%": OpBinary}},
	{Ops: map[string]OpArity{"+": OpBinary, "-": OpBinary}},
	{Ops: map[string]OpArity{">>": OpBinary, "<<": OpBinary}},
	{Ops: map[string]OpArity{"==": OpBinary, "!=": OpBinary}},
	{Ops: map[string]OpArity{">": OpBinary, ">=": OpBinary, "<=": OpBinary, "<": OpBinary}},
	{Ops: map[string]OpArity{"&": OpBinary}},
	{Ops: map[string]OpArity{"^": OpBinary}},
	{Ops: map[string]OpArity{"|": OpBinary}},
	{Ops: map[string]OpArity{"&&": OpBinary}},
	{Ops: map[string]OpArity{"||": OpBinary}},
	{
		Ops: map[string]OpArity{
			"=": OpBinary, "+=": OpBinary, "-=": OpBinary, "*=": OpBinary,
			"/=": OpBinary, "%=": OpBinary, "^=": OpBinary, "&=": OpBinary,
			"|=": OpBinary, "&&=": OpBinary, "||=": OpBinary, ">>=": OpBinary,
			"<<=": OpBinary,
		},
		RightToLeft: true,
	},
	{Ops: map[string]OpArity{"...": OpPrefix}},
}

/*
AssignmentOps is the set of level-13 operator lexemes (the assignment
row of PrecedenceTable). Nothing in this module references it; the
interpreter's assignment executor tells plain `=` from a compound
operator such as `+=` by the operator text itself.
*/
var AssignmentOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"^=": true, "&=": true, "|=": true, "&&=": true, "||=": true,
	">>=": true, "<<=": true,
}
