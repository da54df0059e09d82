// Package resolver implements the static resolution pass that runs between parsing and interpretation. It resolves
// every variable reference to the number of scopes between its use and its declaration, and rejects a handful of
// errors that are only detectable statically: return outside a function, this/super outside a class, and so on.
package resolver

import (
	"fmt"

	"github.com/loxlang/lox/ast"
	"github.com/loxlang/lox/loxerr"
	"github.com/loxlang/lox/stack"
	"github.com/loxlang/lox/token"
)

// Resolve resolves the variable references in program, returning a map from identifier token to the number of
// lexical scopes between the reference and its declaration (0 means the current scope). A token absent from the map
// refers to a global, or to nothing at all, and must be looked up at the outermost scope at runtime.
func Resolve(program ast.Program) (map[token.Token]int, error) {
	r := newResolver()
	r.resolveProgram(program)
	if err := r.errs.Err(); err != nil {
		return nil, err
	}
	return r.distances, nil
}

type identStatus int

const (
	undeclared identStatus = iota
	declared
	defined
)

// scope maps a name to its declaration status in one lexical block.
type scope map[string]identStatus

type functionType int

const (
	noFunction functionType = iota
	function
	method
	initialiser
)

type classType int

const (
	noClass classType = iota
	class
	subclass
)

type resolver struct {
	scopes          *stack.Stack[scope]
	currentFunction functionType
	currentClass    classType

	distances map[token.Token]int
	errs      loxerr.Errors
}

func newResolver() *resolver {
	return &resolver{
		scopes:    stack.New[scope](),
		distances: map[token.Token]int{},
	}
}

func (r *resolver) beginScope() {
	r.scopes.Push(scope{})
}

func (r *resolver) endScope() {
	r.scopes.Pop()
}

func (r *resolver) declare(name token.Token) {
	if r.scopes.Len() == 0 {
		return
	}
	sc := r.scopes.Peek()
	if sc[name.Lexeme] != undeclared {
		r.errs.Addf(name, "%s has already been declared in this scope", name.Lexeme)
		return
	}
	sc[name.Lexeme] = declared
}

func (r *resolver) define(name token.Token) {
	if r.scopes.Len() == 0 {
		return
	}
	r.scopes.Peek()[name.Lexeme] = defined
}

func (r *resolver) resolveLocal(name token.Token) {
	for i, sc := range r.scopes.Backward() {
		if _, ok := sc[name.Lexeme]; ok {
			r.distances[name] = r.scopes.Len() - 1 - i
			return
		}
	}
	// Unresolved names are looked up directly in the global scope at runtime.
}

func (r *resolver) resolveProgram(program ast.Program) {
	for _, stmt := range program.Stmts {
		r.resolveStmt(stmt)
	}
}

func (r *resolver) resolveStmt(stmt ast.Stmt) {
	switch stmt := stmt.(type) {
	case ast.VarDecl:
		r.resolveVarDecl(stmt)
	case *ast.FunDecl:
		r.resolveFunDecl(stmt)
	case *ast.ClassDecl:
		r.resolveClassDecl(stmt)
	case ast.ExprStmt:
		r.resolveExpr(stmt.Expr)
	case ast.PrintStmt:
		r.resolveExpr(stmt.Expr)
	case ast.BlockStmt:
		r.beginScope()
		for _, s := range stmt.Stmts {
			r.resolveStmt(s)
		}
		r.endScope()
	case ast.IfStmt:
		r.resolveExpr(stmt.Condition)
		r.resolveStmt(stmt.Then)
		if stmt.Else != nil {
			r.resolveStmt(stmt.Else)
		}
	case ast.WhileStmt:
		r.resolveExpr(stmt.Condition)
		r.resolveStmt(stmt.Body)
	case ast.ReturnStmt:
		r.resolveReturnStmt(stmt)
	default:
		panic(fmt.Sprintf("resolver: unexpected statement type %T", stmt))
	}
}

func (r *resolver) resolveVarDecl(stmt ast.VarDecl) {
	r.declare(stmt.Name)
	if stmt.Initialiser != nil {
		r.resolveExpr(stmt.Initialiser)
	}
	r.define(stmt.Name)
}

func (r *resolver) resolveFunDecl(stmt *ast.FunDecl) {
	r.declare(stmt.Name)
	r.define(stmt.Name)
	r.resolveFunction(stmt.Function, function)
}

func (r *resolver) resolveFunction(fn *ast.Function, typ functionType) {
	prevFunction := r.currentFunction
	r.currentFunction = typ
	defer func() { r.currentFunction = prevFunction }()

	r.beginScope()
	defer r.endScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	for _, s := range fn.Body {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveClassDecl(stmt *ast.ClassDecl) {
	prevClass := r.currentClass
	r.currentClass = class
	defer func() { r.currentClass = prevClass }()

	r.declare(stmt.Name)
	r.define(stmt.Name)

	if stmt.Superclass != nil {
		if stmt.Superclass.Name.Lexeme == stmt.Name.Lexeme {
			r.errs.Addf(stmt.Superclass.Name, "a class cannot inherit from itself")
		} else {
			r.currentClass = subclass
			r.resolveLocal(stmt.Superclass.Name)
		}
	}

	if stmt.Superclass != nil {
		r.beginScope()
		r.scopes.Peek()["super"] = defined
		defer r.endScope()
	}

	r.beginScope()
	r.scopes.Peek()["this"] = defined
	defer r.endScope()

	for _, m := range stmt.Methods {
		methodType := method
		if m.Name.Lexeme == "init" {
			methodType = initialiser
		}
		r.resolveFunction(m.Function, methodType)
	}
}

func (r *resolver) resolveReturnStmt(stmt ast.ReturnStmt) {
	if r.currentFunction == noFunction {
		r.errs.Addf(stmt.Return, "can't return from top-level code")
	}
	if stmt.Value != nil {
		if r.currentFunction == initialiser {
			r.errs.Addf(stmt.Return, "can't return a value from an initialiser")
		}
		r.resolveExpr(stmt.Value)
	}
}

func (r *resolver) resolveExpr(expr ast.Expr) {
	switch expr := expr.(type) {
	case ast.LiteralExpr:
		// Nothing to resolve.
	case ast.GroupExpr:
		r.resolveExpr(expr.Expr)
	case *ast.VariableExpr:
		r.resolveVariableExpr(expr)
	case ast.UnaryExpr:
		r.resolveExpr(expr.Right)
	case ast.BinaryExpr:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case ast.LogicalExpr:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case ast.AssignmentExpr:
		r.resolveExpr(expr.Right)
		r.resolveLocal(expr.Left)
	case ast.CallExpr:
		r.resolveExpr(expr.Callee)
		for _, arg := range expr.Args {
			r.resolveExpr(arg)
		}
	case ast.GetExpr:
		r.resolveExpr(expr.Object)
	case ast.SetExpr:
		r.resolveExpr(expr.Value)
		r.resolveExpr(expr.Object)
	case ast.ThisExpr:
		r.resolveThisExpr(expr)
	case ast.SuperExpr:
		r.resolveSuperExpr(expr)
	default:
		panic(fmt.Sprintf("resolver: unexpected expression type %T", expr))
	}
}

func (r *resolver) resolveVariableExpr(expr *ast.VariableExpr) {
	if r.scopes.Len() > 0 {
		if status := r.scopes.Peek()[expr.Name.Lexeme]; status == declared {
			r.errs.Addf(expr.Name, "can't read local variable %s in its own initialiser", expr.Name.Lexeme)
			return
		}
	}
	r.resolveLocal(expr.Name)
}

func (r *resolver) resolveThisExpr(expr ast.ThisExpr) {
	if r.currentClass == noClass {
		r.errs.Addf(expr.Keyword, "can't use 'this' outside of a class")
		return
	}
	r.resolveLocal(expr.Keyword)
}

func (r *resolver) resolveSuperExpr(expr ast.SuperExpr) {
	switch r.currentClass {
	case noClass:
		r.errs.Addf(expr.Keyword, "can't use 'super' outside of a class")
	case class:
		r.errs.Addf(expr.Keyword, "can't use 'super' in a class with no superclass")
	default:
		r.resolveLocal(expr.Keyword)
	}
}
