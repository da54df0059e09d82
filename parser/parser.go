// Package parser implements a recursive-descent parser which builds an [ast.Program] from a token stream.
package parser

import (
	"github.com/loxlang/lox/ast"
	"github.com/loxlang/lox/loxerr"
	"github.com/loxlang/lox/token"
)

const maxParams = 255

// unwind is panicked to abandon the current declaration/statement and resynchronise after a parse error.
type unwind struct{}

// Parser parses a fixed token stream, as produced by the scanner, into an [ast.Program].
type Parser struct {
	tokens []token.Token
	pos    int

	errs loxerr.Errors
}

// New constructs a Parser over tokens. tokens must end with an EOF token, as produced by [scanner.Scanner.Scan].
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses the token stream into a Program. On a syntax error, parsing recovers at statement boundaries and
// continues, so the returned Program may be partial; if any errors occurred, the returned error is a non-nil
// [loxerr.Errors].
func (p *Parser) Parse() (ast.Program, error) {
	var stmts []ast.Stmt
	for !p.check(token.EOF) {
		if stmt, ok := p.declaration(); ok {
			stmts = append(stmts, stmt)
		}
	}
	return ast.Program{Stmts: stmts}, p.errs.Err()
}

// declaration parses one top-level declaration or statement. ok is false if a parse error was recovered from, in
// which case the caller should discard the partial statement rather than add it to the tree.
func (p *Parser) declaration() (stmt ast.Stmt, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isUnwind := r.(unwind); !isUnwind {
				panic(r)
			}
			p.synchronise()
			ok = false
		}
	}()

	switch {
	case p.match(token.Class):
		return p.classDecl(), true
	case p.match(token.Fun):
		return p.funDecl(), true
	case p.match(token.Var):
		return p.varDecl(), true
	default:
		return p.statement(), true
	}
}

func (p *Parser) synchronise() {
	for !p.check(token.EOF) {
		if p.previous().Type == token.Semicolon {
			return
		}
		switch p.peek().Type {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

func (p *Parser) classDecl() ast.Stmt {
	classTok := p.previous()
	name := p.consume(token.Ident, "expected class name")

	var superclass *ast.VariableExpr
	if p.match(token.Less) {
		superName := p.consume(token.Ident, "expected superclass name")
		superclass = &ast.VariableExpr{Name: superName}
	}

	p.consume(token.LeftBrace, "expected '{' before class body")
	var methods []*ast.MethodDecl
	for !p.check(token.RightBrace) && !p.check(token.EOF) {
		methods = append(methods, p.methodDecl())
	}
	rightBrace := p.consume(token.RightBrace, "expected '}' after class body")

	return &ast.ClassDecl{
		Class:      classTok,
		Name:       name,
		Superclass: superclass,
		Methods:    methods,
		RightBrace: rightBrace,
	}
}

func (p *Parser) methodDecl() *ast.MethodDecl {
	name := p.consume(token.Ident, "expected method name")
	return &ast.MethodDecl{Name: name, Function: p.function("method")}
}

func (p *Parser) funDecl() ast.Stmt {
	funTok := p.previous()
	name := p.consume(token.Ident, "expected function name")
	return &ast.FunDecl{Fun: funTok, Name: name, Function: p.function("function")}
}

func (p *Parser) function(kind string) *ast.Function {
	p.consume(token.LeftParen, "expected '(' after "+kind+" name")
	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxParams {
				p.errs.Addf(p.peek(), "can't have more than %d parameters", maxParams)
			}
			params = append(params, p.consume(token.Ident, "expected parameter name"))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "expected ')' after parameters")
	p.consume(token.LeftBrace, "expected '{' before "+kind+" body")
	body, rightBrace := p.block()
	return &ast.Function{Params: params, Body: body, RightBrace: rightBrace}
}

func (p *Parser) varDecl() ast.Stmt {
	varTok := p.previous()
	name := p.consume(token.Ident, "expected variable name")
	var initialiser ast.Expr
	if p.match(token.Equal) {
		initialiser = p.expression()
	}
	semicolon := p.consume(token.Semicolon, "expected ';' after variable declaration")
	return ast.VarDecl{Var: varTok, Name: name, Initialiser: initialiser, Semicolon: semicolon}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.Print):
		return p.printStmt()
	case p.match(token.LeftBrace):
		leftBrace := p.previous()
		stmts, rightBrace := p.block()
		return ast.BlockStmt{LeftBrace: leftBrace, Stmts: stmts, RightBrace: rightBrace}
	case p.match(token.If):
		return p.ifStmt()
	case p.match(token.While):
		return p.whileStmt()
	case p.match(token.For):
		return p.forStmt()
	case p.match(token.Return):
		return p.returnStmt()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) printStmt() ast.Stmt {
	printTok := p.previous()
	expr := p.expression()
	semicolon := p.consume(token.Semicolon, "expected ';' after value")
	return ast.PrintStmt{Print: printTok, Expr: expr, Semicolon: semicolon}
}

func (p *Parser) block() ([]ast.Stmt, token.Token) {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.check(token.EOF) {
		if stmt, ok := p.declaration(); ok {
			stmts = append(stmts, stmt)
		}
	}
	rightBrace := p.consume(token.RightBrace, "expected '}' after block")
	return stmts, rightBrace
}

func (p *Parser) ifStmt() ast.Stmt {
	ifTok := p.previous()
	p.consume(token.LeftParen, "expected '(' after 'if'")
	condition := p.expression()
	p.consume(token.RightParen, "expected ')' after if condition")
	then := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch = p.statement()
	}
	return ast.IfStmt{If: ifTok, Condition: condition, Then: then, Else: elseBranch}
}

func (p *Parser) whileStmt() ast.Stmt {
	whileTok := p.previous()
	p.consume(token.LeftParen, "expected '(' after 'while'")
	condition := p.expression()
	p.consume(token.RightParen, "expected ')' after while condition")
	body := p.statement()
	return ast.WhileStmt{While: whileTok, Condition: condition, Body: body}
}

// forStmt desugars `for (init; cond; update) body` into `{ init; while (cond) { body; update; } }` at parse time, so
// the resolver and interpreter never see a dedicated for-loop node.
func (p *Parser) forStmt() ast.Stmt {
	forTok := p.previous()
	p.consume(token.LeftParen, "expected '(' after 'for'")

	var initialiser ast.Stmt
	switch {
	case p.match(token.Semicolon):
	case p.check(token.Var):
		p.advance()
		initialiser = p.varDecl()
	default:
		initialiser = p.exprStmt()
	}

	var condition ast.Expr
	if !p.check(token.Semicolon) {
		condition = p.expression()
	}
	p.consume(token.Semicolon, "expected ';' after loop condition")

	var update ast.Expr
	if !p.check(token.RightParen) {
		update = p.expression()
	}
	closeParen := p.consume(token.RightParen, "expected ')' after for clauses")

	body := p.statement()

	if update != nil {
		body = ast.BlockStmt{
			LeftBrace:  forTok,
			Stmts:      []ast.Stmt{body, ast.ExprStmt{Expr: update, Semicolon: closeParen}},
			RightBrace: closeParen,
		}
	}

	if condition == nil {
		condition = ast.LiteralExpr{Value: token.Token{Type: token.True, Lexeme: "true"}}
	}
	loop := ast.Stmt(ast.WhileStmt{While: forTok, Condition: condition, Body: body})

	if initialiser != nil {
		loop = ast.BlockStmt{LeftBrace: forTok, Stmts: []ast.Stmt{initialiser, loop}, RightBrace: closeParen}
	}
	return loop
}

func (p *Parser) returnStmt() ast.Stmt {
	returnTok := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	semicolon := p.consume(token.Semicolon, "expected ';' after return value")
	return ast.ReturnStmt{Return: returnTok, Value: value, Semicolon: semicolon}
}

func (p *Parser) exprStmt() ast.Stmt {
	expr := p.expression()
	semicolon := p.consume(token.Semicolon, "expected ';' after expression")
	return ast.ExprStmt{Expr: expr, Semicolon: semicolon}
}

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.or()
	if p.match(token.Equal) {
		equals := p.previous()
		value := p.assignment()
		switch left := expr.(type) {
		case *ast.VariableExpr:
			return ast.AssignmentExpr{Left: left.Name, Right: value}
		case ast.GetExpr:
			return ast.SetExpr{Object: left.Object, Name: left.Name, Value: value}
		default:
			p.errs.Addf(equals, "invalid assignment target")
			return expr
		}
	}
	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.Or) {
		op := p.previous()
		right := p.and()
		expr = ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		op := p.previous()
		right := p.equality()
		expr = ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.EqualEqual, token.BangEqual) {
		op := p.previous()
		right := p.comparison()
		expr = ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.Less, token.LessEqual, token.Greater, token.GreaterEqual) {
		op := p.previous()
		right := p.term()
		expr = ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.Plus, token.Minus) {
		op := p.previous()
		right := p.factor()
		expr = ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.Asterisk, token.Slash) {
		op := p.previous()
		right := p.unary()
		expr = ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right := p.unary()
		return ast.UnaryExpr{Op: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.consume(token.Ident, "expected property name after '.'")
			expr = ast.GetExpr{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	leftParen := p.previous()
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxParams {
				p.errs.Addf(p.peek(), "can't have more than %d arguments", maxParams)
			}
			args = append(args, p.assignment())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	rightParen := p.consume(token.RightParen, "expected ')' after arguments")
	return ast.CallExpr{Callee: callee, LeftParen: leftParen, Args: args, RightParen: rightParen}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.False, token.True, token.Nil, token.Number, token.String):
		return ast.LiteralExpr{Value: p.previous()}
	case p.match(token.Super):
		keyword := p.previous()
		p.consume(token.Dot, "expected '.' after 'super'")
		method := p.consume(token.Ident, "expected superclass method name")
		return ast.SuperExpr{Keyword: keyword, Method: method}
	case p.match(token.This):
		return ast.ThisExpr{Keyword: p.previous()}
	case p.match(token.Ident):
		return &ast.VariableExpr{Name: p.previous()}
	case p.match(token.LeftParen):
		leftParen := p.previous()
		expr := p.expression()
		rightParen := p.consume(token.RightParen, "expected ')' after expression")
		return ast.GroupExpr{LeftParen: leftParen, Expr: expr, RightParen: rightParen}
	default:
		p.errs.Addf(p.peek(), "expected expression")
		panic(unwind{})
	}
}

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(t token.Type) bool {
	return p.peek().Type == t
}

func (p *Parser) advance() token.Token {
	if !p.check(token.EOF) {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.pos-1]
}

func (p *Parser) consume(t token.Type, message string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	p.errs.Addf(p.peek(), message)
	panic(unwind{})
}
