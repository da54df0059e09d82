// Package interpreter implements the tree-walking evaluator for the Lox programming language.
package interpreter

import (
	"fmt"
	"io"
	"os"

	"github.com/loxlang/lox/ast"
	"github.com/loxlang/lox/loxerr"
	"github.com/loxlang/lox/token"
)

const maxCallDepth = 255

// Interpreter walks an AST, evaluating it as it goes. Its state, the global environment and the call stack, is kept
// between calls to Interpret so that a REPL session can build on what came before.
type Interpreter struct {
	globals   *environment
	distances map[token.Token]int
	out       io.Writer
	calls     *callStack
	replMode  bool
}

// Option configures an Interpreter constructed by New.
type Option func(*Interpreter)

// Stdout sets the writer that print statements and, in REPL mode, expression statement results are written to. It
// defaults to os.Stdout.
func Stdout(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// REPLMode causes the interpreter to print the value of every expression statement, as a REPL does after each line.
func REPLMode() Option {
	return func(i *Interpreter) { i.replMode = true }
}

// New constructs an Interpreter with the global environment populated with the builtin functions.
func New(opts ...Option) *Interpreter {
	globals := newEnvironment()
	for name, fn := range builtins {
		globals.Define(name, fn)
	}
	interp := &Interpreter{
		globals: globals,
		out:     os.Stdout,
		calls:   newCallStack(),
	}
	for _, opt := range opts {
		opt(interp)
	}
	return interp
}

// Interpret executes program, using distances (as computed by the resolver) to resolve variable references to the
// right lexical scope. It can be called multiple times with different programs on the same Interpreter; the global
// environment persists between calls, as it does across a REPL session.
func (i *Interpreter) Interpret(program ast.Program, distances map[token.Token]int) (err error) {
	i.distances = distances
	defer func() {
		if r := recover(); r != nil {
			loxErr, ok := r.(*loxerr.Error)
			if !ok {
				panic(r)
			}
			if i.calls.Len() > 0 {
				err = fmt.Errorf("%s\n\n%s", loxErr, i.calls.StackTrace())
				i.calls.Clear()
			} else {
				err = loxErr
			}
		}
	}()
	for _, stmt := range program.Stmts {
		i.execute(stmt, i.globals)
	}
	return nil
}

// stmtResult is the outcome of executing a statement: either nothing of note, or a return value propagating up to
// the enclosing function call.
//
//sumtype:decl
type stmtResult interface {
	isStmtResult()
}

type stmtResultNone struct{}

func (stmtResultNone) isStmtResult() {}

type stmtResultReturn struct {
	Value loxObject
}

func (stmtResultReturn) isStmtResult() {}

func (i *Interpreter) execute(stmt ast.Stmt, env *environment) stmtResult {
	switch stmt := stmt.(type) {
	case ast.VarDecl:
		return i.executeVarDecl(stmt, env)
	case ast.ExprStmt:
		return i.executeExprStmt(stmt, env)
	case ast.PrintStmt:
		return i.executePrintStmt(stmt, env)
	case ast.BlockStmt:
		return i.executeBlock(stmt.Stmts, env.Child())
	case ast.IfStmt:
		return i.executeIfStmt(stmt, env)
	case ast.WhileStmt:
		return i.executeWhileStmt(stmt, env)
	case *ast.FunDecl:
		return i.executeFunDecl(stmt, env)
	case ast.ReturnStmt:
		return i.executeReturnStmt(stmt, env)
	case *ast.ClassDecl:
		return i.executeClassDecl(stmt, env)
	default:
		panic(fmt.Sprintf("interpreter: unexpected statement type %T", stmt))
	}
}

func (i *Interpreter) executeVarDecl(stmt ast.VarDecl, env *environment) stmtResult {
	if stmt.Initialiser == nil {
		env.Declare(stmt.Name.Lexeme)
		return stmtResultNone{}
	}
	env.Define(stmt.Name.Lexeme, i.evaluate(stmt.Initialiser, env))
	return stmtResultNone{}
}

func (i *Interpreter) executeExprStmt(stmt ast.ExprStmt, env *environment) stmtResult {
	value := i.evaluate(stmt.Expr, env)
	if i.replMode {
		fmt.Fprintln(i.out, value.String())
	}
	return stmtResultNone{}
}

func (i *Interpreter) executePrintStmt(stmt ast.PrintStmt, env *environment) stmtResult {
	value := i.evaluate(stmt.Expr, env)
	fmt.Fprintln(i.out, value.String())
	return stmtResultNone{}
}

// executeBlock executes stmts in env, which should already be a fresh child scope, and returns the first non-none
// result produced, stopping early if a return is hit.
func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *environment) stmtResult {
	for _, stmt := range stmts {
		if result := i.execute(stmt, env); result != (stmtResultNone{}) {
			return result
		}
	}
	return stmtResultNone{}
}

func (i *Interpreter) executeIfStmt(stmt ast.IfStmt, env *environment) stmtResult {
	if isTruthy(i.evaluate(stmt.Condition, env)) {
		return i.execute(stmt.Then, env)
	}
	if stmt.Else != nil {
		return i.execute(stmt.Else, env)
	}
	return stmtResultNone{}
}

func (i *Interpreter) executeWhileStmt(stmt ast.WhileStmt, env *environment) stmtResult {
	for isTruthy(i.evaluate(stmt.Condition, env)) {
		if result := i.execute(stmt.Body, env); result != (stmtResultNone{}) {
			return result
		}
	}
	return stmtResultNone{}
}

func (i *Interpreter) executeFunDecl(stmt *ast.FunDecl, env *environment) stmtResult {
	fn := &function{name: stmt.Name.Lexeme, decl: stmt.Function, closure: env}
	env.Define(stmt.Name.Lexeme, fn)
	return stmtResultNone{}
}

func (i *Interpreter) executeReturnStmt(stmt ast.ReturnStmt, env *environment) stmtResult {
	if stmt.Value == nil {
		return stmtResultReturn{Value: Nil{}}
	}
	return stmtResultReturn{Value: i.evaluate(stmt.Value, env)}
}

func (i *Interpreter) executeClassDecl(stmt *ast.ClassDecl, env *environment) stmtResult {
	var superclass *class
	if stmt.Superclass != nil {
		superVal := i.evaluate(stmt.Superclass, env)
		sc, ok := superVal.(*class)
		if !ok {
			panic(runtimeErrorf(stmt.Superclass, "superclass must be a class"))
		}
		superclass = sc
	}

	env.Declare(stmt.Name.Lexeme)

	methodEnv := env
	if superclass != nil {
		methodEnv = env.Child()
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*function, len(stmt.Methods))
	for _, m := range stmt.Methods {
		methods[m.Name.Lexeme] = &function{
			name:          m.Name.Lexeme,
			decl:          m.Function,
			closure:       methodEnv,
			isInitialiser: m.Name.Lexeme == "init",
		}
	}

	env.Define(stmt.Name.Lexeme, &class{name: stmt.Name.Lexeme, superclass: superclass, methodsByName: methods})
	return stmtResultNone{}
}

func (i *Interpreter) evaluate(expr ast.Expr, env *environment) loxObject {
	switch expr := expr.(type) {
	case ast.GroupExpr:
		return i.evaluate(expr.Expr, env)
	case ast.LiteralExpr:
		return i.evaluateLiteralExpr(expr)
	case *ast.VariableExpr:
		return i.lookUpVariable(expr.Name, env)
	case ast.UnaryExpr:
		return i.evaluateUnaryExpr(expr, env)
	case ast.BinaryExpr:
		return i.evaluateBinaryExpr(expr, env)
	case ast.LogicalExpr:
		return i.evaluateLogicalExpr(expr, env)
	case ast.AssignmentExpr:
		return i.evaluateAssignmentExpr(expr, env)
	case ast.CallExpr:
		return i.evaluateCallExpr(expr, env)
	case ast.GetExpr:
		return i.evaluateGetExpr(expr, env)
	case ast.SetExpr:
		return i.evaluateSetExpr(expr, env)
	case ast.ThisExpr:
		return i.lookUpVariable(expr.Keyword, env)
	case ast.SuperExpr:
		return i.evaluateSuperExpr(expr, env)
	default:
		panic(fmt.Sprintf("interpreter: unexpected expression type %T", expr))
	}
}

func (i *Interpreter) evaluateLiteralExpr(expr ast.LiteralExpr) loxObject {
	tok := expr.Value
	switch tok.Type {
	case token.Number:
		value, ok := tok.Literal.(float64)
		if !ok {
			panic(fmt.Sprintf("interpreter: number token has non-float64 literal %#v", tok.Literal))
		}
		return Number(value)
	case token.String:
		value, ok := tok.Literal.(string)
		if !ok {
			panic(fmt.Sprintf("interpreter: string token has non-string literal %#v", tok.Literal))
		}
		return String(value)
	case token.True, token.False:
		return Bool(tok.Type == token.True)
	case token.Nil:
		return Nil{}
	default:
		panic(fmt.Sprintf("interpreter: unexpected literal token type %s", tok.Type))
	}
}

func (i *Interpreter) lookUpVariable(name token.Token, env *environment) loxObject {
	if distance, ok := i.distances[name]; ok {
		return env.GetAt(distance, name)
	}
	return i.globals.Get(name)
}

func (i *Interpreter) evaluateUnaryExpr(expr ast.UnaryExpr, env *environment) loxObject {
	right := i.evaluate(expr.Right, env)
	switch expr.Op.Type {
	case token.Bang:
		return Bool(!isTruthy(right))
	case token.Minus:
		n, ok := right.(Number)
		if !ok {
			panic(runtimeErrorf(expr.Op, "operand must be a number, got %s", typeName(right)))
		}
		return -n
	default:
		panic(fmt.Sprintf("interpreter: unexpected unary operator %s", expr.Op.Type))
	}
}

func (i *Interpreter) evaluateBinaryExpr(expr ast.BinaryExpr, env *environment) loxObject {
	left := i.evaluate(expr.Left, env)
	right := i.evaluate(expr.Right, env)

	switch expr.Op.Type {
	case token.EqualEqual:
		return Bool(isEqual(left, right))
	case token.BangEqual:
		return Bool(!isEqual(left, right))
	case token.Plus:
		switch left := left.(type) {
		case Number:
			right, ok := right.(Number)
			if !ok {
				panic(runtimeErrorf(expr.Op, "operands must be two numbers or two strings"))
			}
			return left + right
		case String:
			right, ok := right.(String)
			if !ok {
				panic(runtimeErrorf(expr.Op, "operands must be two numbers or two strings"))
			}
			return left + right
		default:
			panic(runtimeErrorf(expr.Op, "operands must be two numbers or two strings"))
		}
	case token.Minus, token.Asterisk, token.Slash, token.Less, token.LessEqual, token.Greater, token.GreaterEqual:
		leftNum, ok := left.(Number)
		if !ok {
			panic(runtimeErrorf(expr.Op, "operands must be numbers"))
		}
		rightNum, ok := right.(Number)
		if !ok {
			panic(runtimeErrorf(expr.Op, "operands must be numbers"))
		}
		switch expr.Op.Type {
		case token.Minus:
			return leftNum - rightNum
		case token.Asterisk:
			return leftNum * rightNum
		case token.Slash:
			if rightNum == 0 {
				panic(runtimeErrorf(expr.Op, "cannot divide by zero"))
			}
			return leftNum / rightNum
		case token.Less:
			return Bool(leftNum < rightNum)
		case token.LessEqual:
			return Bool(leftNum <= rightNum)
		case token.Greater:
			return Bool(leftNum > rightNum)
		default:
			return Bool(leftNum >= rightNum)
		}
	default:
		panic(fmt.Sprintf("interpreter: unexpected binary operator %s", expr.Op.Type))
	}
}

func (i *Interpreter) evaluateLogicalExpr(expr ast.LogicalExpr, env *environment) loxObject {
	left := i.evaluate(expr.Left, env)
	switch expr.Op.Type {
	case token.Or:
		if isTruthy(left) {
			return left
		}
	case token.And:
		if !isTruthy(left) {
			return left
		}
	default:
		panic(fmt.Sprintf("interpreter: unexpected logical operator %s", expr.Op.Type))
	}
	return i.evaluate(expr.Right, env)
}

func (i *Interpreter) evaluateAssignmentExpr(expr ast.AssignmentExpr, env *environment) loxObject {
	value := i.evaluate(expr.Right, env)
	if distance, ok := i.distances[expr.Left]; ok {
		env.AssignAt(distance, expr.Left, value)
	} else {
		i.globals.Assign(expr.Left, value)
	}
	return value
}

func (i *Interpreter) evaluateCallExpr(expr ast.CallExpr, env *environment) loxObject {
	callee := i.evaluate(expr.Callee, env)
	args := make([]loxObject, len(expr.Args))
	for j, arg := range expr.Args {
		args[j] = i.evaluate(arg, env)
	}

	fn, ok := callee.(callable)
	if !ok {
		panic(runtimeErrorf(expr.Callee, "%s object is not callable", typeName(callee)))
	}
	if len(args) != fn.Arity() {
		panic(runtimeErrorf(expr, "expected %d argument(s) but got %d", fn.Arity(), len(args)))
	}

	if i.calls.Len() >= maxCallDepth {
		panic(runtimeErrorf(expr, "stack overflow"))
	}
	i.calls.Push(fn, expr.Callee.Start())
	result := fn.Call(i, args)
	i.calls.Pop()
	return result
}

func (i *Interpreter) evaluateGetExpr(expr ast.GetExpr, env *environment) loxObject {
	object := i.evaluate(expr.Object, env)
	inst, ok := object.(*instance)
	if !ok {
		panic(runtimeErrorf(expr.Object, "only instances have properties, got %s", typeName(object)))
	}
	return inst.get(expr.Name)
}

func (i *Interpreter) evaluateSetExpr(expr ast.SetExpr, env *environment) loxObject {
	object := i.evaluate(expr.Object, env)
	inst, ok := object.(*instance)
	if !ok {
		panic(runtimeErrorf(expr.Object, "only instances have fields, got %s", typeName(object)))
	}
	value := i.evaluate(expr.Value, env)
	inst.set(expr.Name, value)
	return value
}

func (i *Interpreter) evaluateSuperExpr(expr ast.SuperExpr, env *environment) loxObject {
	distance := i.distances[expr.Keyword]
	superclass := env.GetAt(distance, expr.Keyword).(*class)
	// "this" is always defined one scope closer than "super", see executeClassDecl.
	this := env.GetAt(distance-1, thisToken(expr.Keyword.Start())).(*instance)
	method, ok := superclass.findMethod(expr.Method.Lexeme)
	if !ok {
		panic(runtimeErrorf(expr.Method, "undefined property %s", expr.Method.Lexeme))
	}
	return method.bind(this)
}

// runtimeErrorf constructs a *loxerr.Error describing a runtime error at rang, for panicking. Interpret is the only
// place which recovers it; any other panic value means an interpreter bug.
func runtimeErrorf(rang token.Range, format string, args ...any) *loxerr.Error {
	return loxerr.Newf(rang, format, args...)
}
