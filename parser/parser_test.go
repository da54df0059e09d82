package parser_test

import (
	"testing"

	"github.com/loxlang/lox/ast"
	"github.com/loxlang/lox/parser"
	"github.com/loxlang/lox/scanner"
	"github.com/loxlang/lox/token"
)

func parse(t *testing.T, src string) ast.Program {
	t.Helper()
	file := token.NewFile("test.lox", []byte(src))
	tokens, err := scanner.New(file).Scan()
	if err != nil {
		t.Fatalf("Scan(%q) returned unexpected error: %s", src, err)
	}
	program, err := parser.New(tokens).Parse()
	if err != nil {
		t.Fatalf("Parse(%q) returned unexpected error: %s", src, err)
	}
	return program
}

func exprStmt(t *testing.T, program ast.Program, i int) ast.Expr {
	t.Helper()
	stmt, ok := program.Stmts[i].(ast.ExprStmt)
	if !ok {
		t.Fatalf("Stmts[%d] = %T, want ast.ExprStmt", i, program.Stmts[i])
	}
	return stmt.Expr
}

func TestParseArithmeticPrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3): * binds tighter than +.
	program := parse(t, "1 + 2 * 3;")
	expr, ok := exprStmt(t, program, 0).(ast.BinaryExpr)
	if !ok {
		t.Fatalf("expr = %T, want ast.BinaryExpr", exprStmt(t, program, 0))
	}
	if expr.Op.Type != token.Plus {
		t.Errorf("expr.Op.Type = %s, want %s", expr.Op.Type, token.Plus)
	}
	right, ok := expr.Right.(ast.BinaryExpr)
	if !ok {
		t.Fatalf("expr.Right = %T, want ast.BinaryExpr", expr.Right)
	}
	if right.Op.Type != token.Asterisk {
		t.Errorf("expr.Right.Op.Type = %s, want %s", right.Op.Type, token.Asterisk)
	}
}

func TestParseGroupingOverridesPrecedence(t *testing.T) {
	program := parse(t, "(1 + 2) * 3;")
	expr, ok := exprStmt(t, program, 0).(ast.BinaryExpr)
	if !ok {
		t.Fatalf("expr = %T, want ast.BinaryExpr", exprStmt(t, program, 0))
	}
	if expr.Op.Type != token.Asterisk {
		t.Errorf("expr.Op.Type = %s, want %s", expr.Op.Type, token.Asterisk)
	}
	if _, ok := expr.Left.(ast.GroupExpr); !ok {
		t.Errorf("expr.Left = %T, want ast.GroupExpr", expr.Left)
	}
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	program := parse(t, "a = b = 1;")
	expr, ok := exprStmt(t, program, 0).(ast.AssignmentExpr)
	if !ok {
		t.Fatalf("expr = %T, want ast.AssignmentExpr", exprStmt(t, program, 0))
	}
	if expr.Left.Lexeme != "a" {
		t.Errorf("expr.Left.Lexeme = %q, want %q", expr.Left.Lexeme, "a")
	}
	if _, ok := expr.Right.(ast.AssignmentExpr); !ok {
		t.Errorf("expr.Right = %T, want ast.AssignmentExpr", expr.Right)
	}
}

func TestParseLogicalOperatorsKeepAndTighterThanOr(t *testing.T) {
	program := parse(t, "a or b and c;")
	expr, ok := exprStmt(t, program, 0).(ast.LogicalExpr)
	if !ok {
		t.Fatalf("expr = %T, want ast.LogicalExpr", exprStmt(t, program, 0))
	}
	if expr.Op.Type != token.Or {
		t.Errorf("expr.Op.Type = %s, want %s", expr.Op.Type, token.Or)
	}
	if _, ok := expr.Right.(ast.LogicalExpr); !ok {
		t.Errorf("expr.Right = %T, want ast.LogicalExpr", expr.Right)
	}
}

func TestParseVarDeclWithoutInitialiser(t *testing.T) {
	program := parse(t, "var a;")
	decl, ok := program.Stmts[0].(ast.VarDecl)
	if !ok {
		t.Fatalf("Stmts[0] = %T, want ast.VarDecl", program.Stmts[0])
	}
	if decl.Initialiser != nil {
		t.Errorf("decl.Initialiser = %v, want nil", decl.Initialiser)
	}
}

func TestParseForLoopDesugarsToBlockAndWhile(t *testing.T) {
	program := parse(t, "for (var i = 0; i < 10; i = i + 1) print i;")
	block, ok := program.Stmts[0].(ast.BlockStmt)
	if !ok {
		t.Fatalf("Stmts[0] = %T, want ast.BlockStmt", program.Stmts[0])
	}
	if _, ok := block.Stmts[0].(ast.VarDecl); !ok {
		t.Fatalf("block.Stmts[0] = %T, want ast.VarDecl", block.Stmts[0])
	}
	whileStmt, ok := block.Stmts[1].(ast.WhileStmt)
	if !ok {
		t.Fatalf("block.Stmts[1] = %T, want ast.WhileStmt", block.Stmts[1])
	}
	whileBody, ok := whileStmt.Body.(ast.BlockStmt)
	if !ok {
		t.Fatalf("whileStmt.Body = %T, want ast.BlockStmt", whileStmt.Body)
	}
	if len(whileBody.Stmts) != 2 {
		t.Fatalf("len(whileBody.Stmts) = %d, want 2 (loop body then increment)", len(whileBody.Stmts))
	}
}

func TestParseForLoopWithoutConditionDefaultsToTrue(t *testing.T) {
	program := parse(t, "for (;;) print 1;")
	whileStmt, ok := program.Stmts[0].(ast.WhileStmt)
	if !ok {
		t.Fatalf("Stmts[0] = %T, want ast.WhileStmt", program.Stmts[0])
	}
	lit, ok := whileStmt.Condition.(ast.LiteralExpr)
	if !ok {
		t.Fatalf("whileStmt.Condition = %T, want ast.LiteralExpr", whileStmt.Condition)
	}
	if lit.Value.Type != token.True {
		t.Errorf("whileStmt.Condition = %s, want %s", lit.Value.Type, token.True)
	}
}

func TestParseClassDeclWithSuperclassAndMethods(t *testing.T) {
	program := parse(t, `
		class Animal {
			speak() { return "..."; }
		}
		class Dog < Animal {
			speak() { return "Woof"; }
			init(name) { this.name = name; }
		}
	`)
	dog, ok := program.Stmts[1].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("Stmts[1] = %T, want *ast.ClassDecl", program.Stmts[1])
	}
	if dog.Name.Lexeme != "Dog" {
		t.Errorf("dog.Name.Lexeme = %q, want %q", dog.Name.Lexeme, "Dog")
	}
	if dog.Superclass == nil || dog.Superclass.Name.Lexeme != "Animal" {
		t.Fatalf("dog.Superclass = %v, want a reference to Animal", dog.Superclass)
	}
	if len(dog.Methods) != 2 {
		t.Fatalf("len(dog.Methods) = %d, want 2", len(dog.Methods))
	}
}

func TestParseReportsMissingSemicolon(t *testing.T) {
	file := token.NewFile("test.lox", []byte("var a = 1\nvar b = 2;"))
	tokens, err := scanner.New(file).Scan()
	if err != nil {
		t.Fatalf("Scan() returned unexpected error: %s", err)
	}
	if _, err := parser.New(tokens).Parse(); err == nil {
		t.Fatal("Parse() returned no error for a missing semicolon")
	}
}

func TestParseRecoversAfterErrorAndKeepsParsingFollowingStatements(t *testing.T) {
	file := token.NewFile("test.lox", []byte("var a = ;\nvar b = 2;"))
	tokens, err := scanner.New(file).Scan()
	if err != nil {
		t.Fatalf("Scan() returned unexpected error: %s", err)
	}
	program, err := parser.New(tokens).Parse()
	if err == nil {
		t.Fatal("Parse() returned no error for an invalid expression")
	}
	found := false
	for _, stmt := range program.Stmts {
		if decl, ok := stmt.(ast.VarDecl); ok && decl.Name.Lexeme == "b" {
			found = true
		}
	}
	if !found {
		t.Errorf("Parse() did not recover and parse the statement following the error")
	}
}

func TestParseInvalidAssignmentTargetIsError(t *testing.T) {
	file := token.NewFile("test.lox", []byte("1 + 2 = 3;"))
	tokens, err := scanner.New(file).Scan()
	if err != nil {
		t.Fatalf("Scan() returned unexpected error: %s", err)
	}
	if _, err := parser.New(tokens).Parse(); err == nil {
		t.Fatal("Parse() returned no error for an invalid assignment target")
	}
}
