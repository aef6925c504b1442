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
parseBlock parses a brace-delimited block. openTok is the already-
consumed `{` for a nested block, or nil for the top-level root Block
(which has no closing token and runs to EOF).
*/
func (p *Parser) parseBlock(openTok *Token) (*Block, error) {
	var blk *Block
	if openTok != nil {
		p.pushEnclosure(openTok, "}")
		blk = NewBlock(openTok)
	} else {
		blk = NewBlock(p.peek())
		blk.isRoot = true
	}
	pop := p.enter(blk)
	defer pop()

	if err := p.parseBlockBody(blk); err != nil {
		return nil, err
	}
	return blk, nil
}

/*
parseBlockBody implements the Block feeder rule: `;` is a no-op, `@`
starts a decorator accumulated until the next DecoratableNode, keyword
tokens delegate to the matching statement parser, an identifier
immediately followed by `:` inside a struct body starts a StructProp,
and anything else is an expression statement closing on `;` or `}`.
*/
func (p *Parser) parseBlockBody(blk *Block) error {
	var pending []*Decorator

	for {
		tok := p.peek()

		if blk.isRoot && tok.IsEOF() {
			break
		}
		if !blk.isRoot && tok.Is("}") {
			p.next()
			if err := p.popEnclosure("}", tok); err != nil {
				return err
			}
			break
		}
		if !blk.isRoot && tok.IsEOF() {
			return p.errf(tok, "unexpected end of input")
		}
		if tok.Is(";") {
			p.next()
			continue
		}
		if tok.Is("@") {
			dec, err := p.parseDecorator()
			if err != nil {
				return err
			}
			pending = append(pending, dec)
			continue
		}

		node, err := p.parseOneStatement(blk, tok)
		if err != nil {
			return err
		}

		if len(pending) > 0 {
			switch v := node.(type) {
			case *Let:
				v.Decorators = pending
			case *Function:
				v.Decorators = pending
			default:
				return p.errf(node.Tok(), "decorators may only be attached to 'let' or 'fn' declarations")
			}
			pending = nil
		}

		blk.Append(node)
	}

	if len(pending) > 0 {
		return p.errf(p.peek(), "dangling decorator with no following declaration")
	}
	return nil
}

func (p *Parser) parseOneStatement(blk *Block, tok *Token) (Node, error) {
	switch {
	case tok.Is("{"):
		open := p.next()
		return p.parseBlock(open)
	case tok.Is("let"):
		return p.parseLet()
	case tok.Is("if"):
		return p.parseIf(false, nil)
	case tok.Is("fn"):
		return p.parseFunction()
	case tok.Is("return"):
		return p.parseReturn()
	case tok.Is("break"):
		return p.parseBreak()
	case tok.Is("continue"):
		return p.parseContinue()
	case tok.Is("while"):
		return p.parseWhile()
	case tok.Is("for"):
		return p.parseFor()
	case tok.Is("struct"):
		return p.parseStruct()
	case tok.Is("enum"):
		return p.parseEnum()
	case tok.Is("import"):
		return p.parseImport()
	default:
		if blk.StructBody && tok.Kind == TokenIdentifier && p.peekAt(1).Is(":") {
			return p.parseStructProp()
		}
		expr, err := p.parseExpression(map[string]bool{";": true, "}": true}, false, false)
		if err != nil {
			return nil, err
		}
		if p.peek().Is(";") {
			p.next()
		}
		return expr, nil
	}
}

/*
parseLet implements the Let feeder's state sequence: modifiers, name,
then an `=` initializer / `:` type hint (optionally followed by `=`) /
bare `;`.
*/
func (p *Parser) parseLet() (*Let, error) {
	letTok := p.next()
	n := NewLet(letTok)
	pop := p.enter(n)
	defer pop()

	for {
		tok := p.peek()
		switch {
		case tok.Is("const"):
			if n.Const {
				return nil, p.errf(tok, "duplicate 'const' modifier")
			}
			if n.Mut {
				return nil, p.errf(tok, "'const' and 'mut' are incompatible")
			}
			n.Const = true
			p.next()
			continue
		case tok.Is("mut"):
			if n.Mut {
				return nil, p.errf(tok, "duplicate 'mut' modifier")
			}
			if n.Const {
				return nil, p.errf(tok, "'const' and 'mut' are incompatible")
			}
			n.Mut = true
			p.next()
			continue
		}
		break
	}

	nameTok := p.peek()
	if nameTok.Kind != TokenIdentifier || Keywords[nameTok.Text] {
		return nil, p.errf(nameTok, "expected a name after 'let'")
	}
	p.next()
	n.Name = nameTok.Text

	tok := p.peek()
	switch {
	case tok.Is("="):
		p.next()
		expr, err := p.parseExpression(map[string]bool{";": true}, false, false)
		if err != nil {
			return nil, err
		}
		n.Init = expr.Result
		adopt(n, expr.Result)
		if !p.peek().Is(";") {
			return nil, p.errf(p.peek(), "expected ';' after let initializer")
		}
		p.next()
	case tok.Is(":"):
		p.next()
		typeExpr, err := p.parseExpression(map[string]bool{";": true, "=": true}, true, false)
		if err != nil {
			return nil, err
		}
		n.Type = typeExpr.Result
		adopt(n, typeExpr.Result)
		if p.peek().Is("=") {
			p.next()
			expr, err := p.parseExpression(map[string]bool{";": true}, false, false)
			if err != nil {
				return nil, err
			}
			n.Init = expr.Result
			adopt(n, expr.Result)
			if !p.peek().Is(";") {
				return nil, p.errf(p.peek(), "expected ';' after let initializer")
			}
			p.next()
		} else if p.peek().Is(";") {
			p.next()
		} else {
			return nil, p.errf(p.peek(), "expected '=' or ';' after let type hint")
		}
	case tok.Is(";"):
		p.next()
	default:
		return nil, p.errf(tok, "unexpected token %q in let declaration", tok.Text)
	}

	return n, nil
}

func (p *Parser) parseReturn() (*Return, error) {
	tok := p.next()
	n := NewReturn(tok)
	pop := p.enter(n)
	defer pop()
	if !p.peek().Is(";") && !p.peek().Is("}") {
		expr, err := p.parseExpression(map[string]bool{";": true, "}": true}, false, false)
		if err != nil {
			return nil, err
		}
		n.Value = expr.Result
		adopt(n, expr.Result)
	}
	if p.peek().Is(";") {
		p.next()
	}
	return n, nil
}

func (p *Parser) parseBreak() (*Break, error) {
	tok := p.next()
	n := NewBreak(tok)
	pop := p.enter(n)
	defer pop()
	if !p.peek().Is(";") && !p.peek().Is("}") {
		expr, err := p.parseExpression(map[string]bool{";": true, "}": true}, false, false)
		if err != nil {
			return nil, err
		}
		n.Value = expr.Result
		adopt(n, expr.Result)
	}
	if p.peek().Is(";") {
		p.next()
	}
	return n, nil
}

func (p *Parser) parseContinue() (*Continue, error) {
	tok := p.next()
	n := NewContinue(tok)
	pop := p.enter(n)
	defer pop()
	if !p.peek().Is(";") && !p.peek().Is("}") {
		expr, err := p.parseExpression(map[string]bool{";": true, "}": true}, false, false)
		if err != nil {
			return nil, err
		}
		n.Value = expr.Result
		adopt(n, expr.Result)
	}
	if p.peek().Is(";") {
		p.next()
	}
	return n, nil
}

/*
parseBranch parses an If/While/For's then/else body: a brace Block, a
single statement (statement form), or an expression closing on
closeSet (expression form, only reachable for an If used inline in a
larger expression).
*/
func (p *Parser) parseBranch(exprForm bool, closeSet map[string]bool) (Node, error) {
	if p.peek().Is("{") {
		open := p.next()
		return p.parseBlock(open)
	}
	if exprForm {
		return p.parseExpression(closeSet, false, false)
	}
	blk := NewBlock(p.peek())
	pop := p.enter(blk)
	defer pop()
	tok := p.peek()
	node, err := p.parseOneStatement(blk, tok)
	if err != nil {
		return nil, err
	}
	blk.Append(node)
	return blk, nil
}

/*
parseIf implements both statement and expression forms of If. In
expression form an else-branch is mandatory and both branches share
the enclosing expression's closeSet once resolved.
*/
func (p *Parser) parseIf(exprForm bool, outerCloseSet map[string]bool) (*If, error) {
	ifTok := p.next()
	n := NewIf(ifTok)
	n.ExprForm = exprForm
	pop := p.enter(n)
	defer pop()

	open := p.peek()
	if !open.Is("(") {
		return nil, p.errf(open, "expected '(' after 'if'")
	}
	p.next()
	p.pushEnclosure(open, ")")
	cond, err := p.parseExpression(map[string]bool{")": true}, false, false)
	if err != nil {
		return nil, err
	}
	n.Cond = cond.Result
	adopt(n, cond.Result)
	closeTok := p.peek()
	if !closeTok.Is(")") {
		return nil, p.errf(closeTok, "expected ')'")
	}
	p.next()
	if err := p.popEnclosure(")", closeTok); err != nil {
		return nil, err
	}

	thenCloseSet := map[string]bool{"else": true}
	thenNode, err := p.parseBranch(exprForm, thenCloseSet)
	if err != nil {
		return nil, err
	}
	n.Then = thenNode
	adopt(n, thenNode)

	if p.peek().Is("else") {
		p.next()
		if p.peek().Is("if") {
			elseIf, err := p.parseIf(exprForm, outerCloseSet)
			if err != nil {
				return nil, err
			}
			n.Else = elseIf
			adopt(n, elseIf)
		} else {
			elseNode, err := p.parseBranch(exprForm, outerCloseSet)
			if err != nil {
				return nil, err
			}
			n.Else = elseNode
			adopt(n, elseNode)
		}
	} else if exprForm {
		return nil, p.errf(p.peek(), "if-expression requires an 'else' branch")
	}

	return n, nil
}

func (p *Parser) parseWhile() (*While, error) {
	whileTok := p.next()
	n := NewWhile(whileTok)
	pop := p.enter(n)
	defer pop()

	open := p.peek()
	if !open.Is("(") {
		return nil, p.errf(open, "expected '(' after 'while'")
	}
	p.next()
	p.pushEnclosure(open, ")")
	cond, err := p.parseExpression(map[string]bool{")": true}, false, false)
	if err != nil {
		return nil, err
	}
	n.Cond = cond.Result
	adopt(n, cond.Result)
	closeTok := p.peek()
	if !closeTok.Is(")") {
		return nil, p.errf(closeTok, "expected ')'")
	}
	p.next()
	if err := p.popEnclosure(")", closeTok); err != nil {
		return nil, err
	}

	body, err := p.parseBranch(false, nil)
	if err != nil {
		return nil, err
	}
	n.Body = body
	adopt(n, body)
	return n, nil
}

/*
parseFor implements the for-in form: `for IDENT (',' IDENT)? in EXPR
BLOCK`. Type hints on either iterator name are an explicit unsupported
construct per the language's for-loop rule.
*/
func (p *Parser) parseFor() (*For, error) {
	forTok := p.next()
	n := NewFor(forTok)
	pop := p.enter(n)
	defer pop()

	nameTok := p.peek()
	if nameTok.Kind != TokenIdentifier || Keywords[nameTok.Text] {
		return nil, p.errf(nameTok, "expected an iterator name after 'for'")
	}
	p.next()
	n.Iter = nameTok.Text
	if p.peek().Is(":") {
		return nil, p.errf(p.peek(), "type hints on for-loop iterators are not supported")
	}

	if p.peek().Is(",") {
		p.next()
		idxTok := p.peek()
		if idxTok.Kind != TokenIdentifier || Keywords[idxTok.Text] {
			return nil, p.errf(idxTok, "expected an index name after ','")
		}
		p.next()
		n.Index = idxTok.Text
		n.HasIndex = true
		if p.peek().Is(":") {
			return nil, p.errf(p.peek(), "type hints on for-loop iterators are not supported")
		}
	}

	inTok := p.peek()
	if !inTok.Is("in") {
		return nil, p.errf(inTok, "expected 'in'")
	}
	p.next()

	iterExpr, err := p.parseExpression(map[string]bool{"{": true}, false, false)
	if err != nil {
		return nil, err
	}
	n.Iterable = iterExpr.Result
	adopt(n, iterExpr.Result)

	if !p.peek().Is("{") {
		return nil, p.errf(p.peek(), "expected '{' to start the for-loop body")
	}
	open := p.next()
	body, err := p.parseBlock(open)
	if err != nil {
		return nil, err
	}
	n.Body = body
	adopt(n, body)
	return n, nil
}

/*
parseFunction parses both declaration and expression forms: an
optional name, a mandatory parenthesized parameter list, an optional
`-> type` return annotation, and either a brace body or a bare `;` for
a header-only declaration.
*/
func (p *Parser) parseFunction() (*Function, error) {
	fnTok := p.next()
	n := NewFunction(fnTok)
	pop := p.enter(n)
	defer pop()

	if p.peek().Kind == TokenIdentifier && !Keywords[p.peek().Text] {
		n.Name = p.next().Text
	}

	open := p.peek()
	if !open.Is("(") {
		return nil, p.errf(open, "expected '(' in function declaration")
	}
	p.next()
	p.pushEnclosure(open, ")")

	if !p.peek().Is(")") {
		for {
			nameTok := p.peek()
			if nameTok.Kind != TokenIdentifier || Keywords[nameTok.Text] {
				return nil, p.errf(nameTok, "expected a parameter name")
			}
			p.next()
			param := &FunctionParameter{Name: nameTok.Text}

			if p.peek().Is(":") {
				p.next()
				typeExpr, err := p.parseExpression(map[string]bool{",": true, ")": true, "=": true}, true, false)
				if err != nil {
					return nil, err
				}
				param.Type = typeExpr.Result
			}
			if p.peek().Is("=") {
				p.next()
				defExpr, err := p.parseExpression(map[string]bool{",": true, ")": true}, false, false)
				if err != nil {
					return nil, err
				}
				param.Default = defExpr.Result
			}
			n.Params = append(n.Params, param)

			tok := p.peek()
			if tok.Is(",") {
				p.next()
				continue
			}
			if tok.Is(")") {
				break
			}
			return nil, p.errf(tok, "expected ',' or ')' in parameter list")
		}
	}

	closeTok := p.next()
	if err := p.popEnclosure(")", closeTok); err != nil {
		return nil, err
	}

	if p.peek().Is("->") {
		p.next()
		typeExpr, err := p.parseExpression(map[string]bool{"{": true, ";": true}, true, false)
		if err != nil {
			return nil, err
		}
		n.ReturnType = typeExpr.Result
	}

	switch {
	case p.peek().Is("{"):
		open := p.next()
		body, err := p.parseBlock(open)
		if err != nil {
			return nil, err
		}
		n.Body = body
	case p.peek().Is(";"):
		p.next()
	default:
		return nil, p.errf(p.peek(), "expected a function body or ';'")
	}

	return n, nil
}

/*
parseStruct parses `struct NAME? { PROP... }`.
*/
func (p *Parser) parseStruct() (*Struct, error) {
	tok := p.next()
	n := NewStruct(tok)
	pop := p.enter(n)
	defer pop()

	if p.peek().Kind == TokenIdentifier && !Keywords[p.peek().Text] {
		n.Name = p.next().Text
	}

	open := p.peek()
	if !open.Is("{") {
		return nil, p.errf(open, "expected '{' to start the struct body")
	}
	p.next()
	p.pushEnclosure(open, "}")

	body := NewBlock(open)
	body.StructBody = true
	bpop := p.enter(body)

	for {
		tok2 := p.peek()
		if tok2.Is("}") {
			p.next()
			if err := p.popEnclosure("}", tok2); err != nil {
				bpop()
				return nil, err
			}
			break
		}
		if tok2.IsEOF() {
			bpop()
			return nil, p.errf(tok2, "unexpected end of input in struct body")
		}
		prop, err := p.parseStructProp()
		if err != nil {
			bpop()
			return nil, err
		}
		body.Append(prop)
	}
	bpop()

	n.Body = body
	adopt(n, body)
	return n, nil
}

func (p *Parser) parseStructProp() (*StructProp, error) {
	nameTok := p.peek()
	if nameTok.Kind != TokenIdentifier {
		return nil, p.errf(nameTok, "expected a property name")
	}
	p.next()
	prop := NewStructProp(nameTok)
	prop.Name = nameTok.Text
	pop := p.enter(prop)
	defer pop()

	colon := p.peek()
	if !colon.Is(":") {
		return nil, p.errf(colon, "expected ':' after property name")
	}
	p.next()

	typeExpr, err := p.parseExpression(map[string]bool{",": true, ";": true, "}": true}, true, false)
	if err != nil {
		return nil, err
	}
	prop.Type = typeExpr.Result
	adopt(prop, typeExpr.Result)

	if p.peek().Is(",") || p.peek().Is(";") {
		p.next()
	}
	return prop, nil
}

/*
parseEnum parses `enum NAME? ("C")? { MEMBER (, MEMBER)* }`. Because
both the enum name and the "C"-representation tag are plain
identifiers, `enum C { ... }` is ambiguous between an anonymous
C-repr enum and a named enum called "C" with no tag; this parses it as
the latter.
*/
func (p *Parser) parseEnum() (*Enum, error) {
	tok := p.next()
	n := NewEnum(tok)
	pop := p.enter(n)
	defer pop()

	if p.peek().Kind == TokenIdentifier && !Keywords[p.peek().Text] {
		n.Name = p.next().Text
	}
	if p.peek().Kind == TokenIdentifier && p.peek().Text == "C" && p.peekAt(1).Is("{") {
		n.CRepr = true
		p.next()
	}

	open := p.peek()
	if !open.Is("{") {
		return nil, p.errf(open, "expected '{' to start the enum body")
	}
	p.next()
	p.pushEnclosure(open, "}")

	if !p.peek().Is("}") {
		for {
			member, err := p.parseEnumMember(n.CRepr)
			if err != nil {
				return nil, err
			}
			n.Members = append(n.Members, member)
			adopt(n, member)

			if p.peek().Is(",") {
				p.next()
				if p.peek().Is("}") {
					break
				}
				continue
			}
			break
		}
	}

	closeTok := p.peek()
	if !closeTok.Is("}") {
		return nil, p.errf(closeTok, "expected ',' or '}' in enum body")
	}
	p.next()
	if err := p.popEnclosure("}", closeTok); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Parser) parseEnumMember(cRepr bool) (*EnumMember, error) {
	nameTok := p.peek()
	if nameTok.Kind != TokenIdentifier {
		return nil, p.errf(nameTok, "expected an enum member name")
	}
	p.next()
	m := NewEnumMember(nameTok)
	m.Name = nameTok.Text
	pop := p.enter(m)
	defer pop()

	switch {
	case p.peek().Is("("):
		if cRepr {
			return nil, p.errf(p.peek(), "tuple variants are not allowed in a C-representation enum")
		}
		open := p.next()
		p.pushEnclosure(open, ")")
		m.Form = EnumMemberTuple
		for {
			typeExpr, err := p.parseExpression(map[string]bool{",": true, ")": true}, true, false)
			if err != nil {
				return nil, err
			}
			m.TupleTypes = append(m.TupleTypes, typeExpr.Result)
			adopt(m, typeExpr.Result)
			tok := p.peek()
			if tok.Is(",") {
				p.next()
				continue
			}
			if tok.Is(")") {
				p.next()
				if err := p.popEnclosure(")", tok); err != nil {
					return nil, err
				}
				break
			}
			return nil, p.errf(tok, "expected ',' or ')' in tuple variant")
		}
	case p.peek().Is("{"):
		if cRepr {
			return nil, p.errf(p.peek(), "struct variants are not allowed in a C-representation enum")
		}
		open := p.next()
		p.pushEnclosure(open, "}")
		m.Form = EnumMemberStruct
		for {
			fieldTok := p.peek()
			if fieldTok.Kind != TokenIdentifier {
				return nil, p.errf(fieldTok, "expected a field name")
			}
			p.next()
			colon := p.peek()
			if !colon.Is(":") {
				return nil, p.errf(colon, "expected ':' after field name")
			}
			p.next()
			typeExpr, err := p.parseExpression(map[string]bool{",": true, "}": true}, true, false)
			if err != nil {
				return nil, err
			}
			fieldProp := NewStructProp(fieldTok)
			fieldProp.Name = fieldTok.Text
			fieldProp.Type = typeExpr.Result
			adopt(fieldProp, typeExpr.Result)
			m.Fields = append(m.Fields, fieldProp)
			adopt(m, fieldProp)

			tok := p.peek()
			if tok.Is(",") {
				p.next()
				continue
			}
			if tok.Is("}") {
				p.next()
				if err := p.popEnclosure("}", tok); err != nil {
					return nil, err
				}
				break
			}
			return nil, p.errf(tok, "expected ',' or '}' in struct variant")
		}
	default:
		m.Form = EnumMemberUnit
	}
	return m, nil
}

func (p *Parser) parseImport() (*Import, error) {
	tok := p.next()
	n := NewImport(tok)
	pop := p.enter(n)
	defer pop()

	for {
		nameTok := p.peek()
		if nameTok.Kind != TokenIdentifier || Keywords[nameTok.Text] {
			return nil, p.errf(nameTok, "expected a module name")
		}
		p.next()
		n.Names = append(n.Names, nameTok.Text)
		if p.peek().Is(",") {
			p.next()
			continue
		}
		break
	}

	semi := p.peek()
	if !semi.Is(";") {
		return nil, p.errf(semi, "expected ';' after import")
	}
	p.next()
	return n, nil
}

func (p *Parser) parseDecorator() (*Decorator, error) {
	atTok := p.next()
	nameTok := p.peek()
	if nameTok.Kind != TokenIdentifier {
		return nil, p.errf(nameTok, "expected a decorator name after '@'")
	}
	p.next()
	d := NewDecorator(atTok)
	d.Name = nameTok.Text
	pop := p.enter(d)
	defer pop()

	if p.peek().Is("(") {
		open := p.next()
		p.pushEnclosure(open, ")")
		if !p.peek().Is(")") {
			for {
				argExpr, err := p.parseExpression(map[string]bool{",": true, ")": true}, false, false)
				if err != nil {
					return nil, err
				}
				d.Args = append(d.Args, argExpr.Result)
				adopt(d, argExpr.Result)
				if p.peek().Is(",") {
					p.next()
					continue
				}
				break
			}
		}
		closeTok := p.peek()
		if !closeTok.Is(")") {
			return nil, p.errf(closeTok, "expected ')'")
		}
		p.next()
		if err := p.popEnclosure(")", closeTok); err != nil {
			return nil, err
		}
	}

	if p.peek().Is(";") {
		p.next()
	}
	return d, nil
}
