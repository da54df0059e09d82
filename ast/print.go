package ast

import (
	"fmt"
	"strings"
)

// Sprint formats a Program as an indented s-expression, useful for debugging the parser.
func Sprint(program Program) string {
	var b strings.Builder
	fmt.Fprint(&b, "(program")
	for _, s := range program.Stmts {
		fmt.Fprint(&b, "\n", indent(sprintStmt(s, 1), 1))
	}
	fmt.Fprint(&b, ")")
	return b.String()
}

func indent(s string, depth int) string {
	return strings.Repeat("  ", depth) + s
}

func sexpr(depth int, name string, children ...string) string {
	if len(children) == 0 {
		return fmt.Sprintf("(%s)", name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "(%s", name)
	for _, child := range children {
		fmt.Fprint(&b, "\n", indent(child, depth+1))
	}
	fmt.Fprint(&b, ")")
	return b.String()
}

func sprintStmt(s Stmt, depth int) string {
	switch s := s.(type) {
	case VarDecl:
		if s.Initialiser == nil {
			return sexpr(depth, "var "+s.Name.Lexeme)
		}
		return sexpr(depth, "var "+s.Name.Lexeme, sprintExpr(s.Initialiser, depth+1))
	case ExprStmt:
		return sexpr(depth, "exprstmt", sprintExpr(s.Expr, depth+1))
	case PrintStmt:
		return sexpr(depth, "print", sprintExpr(s.Expr, depth+1))
	case BlockStmt:
		children := make([]string, len(s.Stmts))
		for i, stmt := range s.Stmts {
			children[i] = sprintStmt(stmt, depth+1)
		}
		return sexpr(depth, "block", children...)
	case IfStmt:
		children := []string{sprintExpr(s.Condition, depth+1), sprintStmt(s.Then, depth+1)}
		if s.Else != nil {
			children = append(children, sprintStmt(s.Else, depth+1))
		}
		return sexpr(depth, "if", children...)
	case WhileStmt:
		return sexpr(depth, "while", sprintExpr(s.Condition, depth+1), sprintStmt(s.Body, depth+1))
	case *FunDecl:
		return sexpr(depth, "fun "+s.Name.Lexeme, sprintFunction(s.Function, depth+1)...)
	case ReturnStmt:
		if s.Value == nil {
			return sexpr(depth, "return")
		}
		return sexpr(depth, "return", sprintExpr(s.Value, depth+1))
	case *ClassDecl:
		var children []string
		if s.Superclass != nil {
			children = append(children, "< "+s.Superclass.Name.Lexeme)
		}
		for _, m := range s.Methods {
			children = append(children, sexpr(depth+1, "method "+m.Name.Lexeme, sprintFunction(m.Function, depth+2)...))
		}
		return sexpr(depth, "class "+s.Name.Lexeme, children...)
	default:
		panic(fmt.Sprintf("ast.sprintStmt: unexpected statement type %T", s))
	}
}

func sprintFunction(f *Function, depth int) []string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Lexeme
	}
	children := []string{"(" + strings.Join(params, " ") + ")"}
	for _, stmt := range f.Body {
		children = append(children, sprintStmt(stmt, depth))
	}
	return children
}

func sprintExpr(e Expr, depth int) string {
	switch e := e.(type) {
	case LiteralExpr:
		return e.Value.Lexeme
	case GroupExpr:
		return sexpr(depth, "group", sprintExpr(e.Expr, depth+1))
	case *VariableExpr:
		return e.Name.Lexeme
	case UnaryExpr:
		return sexpr(depth, e.Op.Lexeme, sprintExpr(e.Right, depth+1))
	case BinaryExpr:
		return sexpr(depth, e.Op.Lexeme, sprintExpr(e.Left, depth+1), sprintExpr(e.Right, depth+1))
	case LogicalExpr:
		return sexpr(depth, e.Op.Lexeme, sprintExpr(e.Left, depth+1), sprintExpr(e.Right, depth+1))
	case AssignmentExpr:
		return sexpr(depth, "=", e.Left.Lexeme, sprintExpr(e.Right, depth+1))
	case CallExpr:
		children := make([]string, len(e.Args)+1)
		children[0] = sprintExpr(e.Callee, depth+1)
		for i, arg := range e.Args {
			children[i+1] = sprintExpr(arg, depth+1)
		}
		return sexpr(depth, "call", children...)
	case GetExpr:
		return sexpr(depth, ".", sprintExpr(e.Object, depth+1), e.Name.Lexeme)
	case SetExpr:
		return sexpr(depth, ".=", sprintExpr(e.Object, depth+1), e.Name.Lexeme, sprintExpr(e.Value, depth+1))
	case ThisExpr:
		return "this"
	case SuperExpr:
		return sexpr(depth, "super", e.Method.Lexeme)
	default:
		panic(fmt.Sprintf("ast.sprintExpr: unexpected expression type %T", e))
	}
}
