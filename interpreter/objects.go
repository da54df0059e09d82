package interpreter

import (
	"fmt"

	"github.com/loxlang/lox/ast"
	"github.com/loxlang/lox/token"
)

// loxObject is a value that a Lox program can produce or operate on.
type loxObject interface {
	String() string
}

// Nil is the value of the nil literal.
type Nil struct{}

func (Nil) String() string { return "nil" }

// Bool is the value of a true or false literal.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Number is the value of a number literal and the result of arithmetic.
type Number float64

func (n Number) String() string { return fmt.Sprintf("%g", float64(n)) }

// String is the value of a string literal and the result of concatenation.
type String string

func (s String) String() string { return string(s) }

// callable is a loxObject which can appear as the callee of a CallExpr.
type callable interface {
	loxObject
	Arity() int
	Call(interp *Interpreter, args []loxObject) loxObject
}

var (
	_ callable = (*function)(nil)
	_ callable = (*class)(nil)
)

// function is a user-defined function or method, along with the environment it closed over.
type function struct {
	name          string
	decl          *ast.Function
	closure       *environment
	isInitialiser bool
}

func (f *function) String() string { return fmt.Sprintf("<fn %s>", f.name) }

func (f *function) Arity() int { return len(f.decl.Params) }

// Call runs f's body in a fresh child of its closure with args bound to its parameters. A method marked as the
// class's initialiser always returns the bound instance (this), regardless of what, if anything, it returns.
func (f *function) Call(interp *Interpreter, args []loxObject) loxObject {
	env := f.closure.Child()
	for i, param := range f.decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	result := interp.executeBlock(f.decl.Body, env)

	if f.isInitialiser {
		return f.closure.GetAt(0, thisToken(f.decl.End()))
	}
	if ret, ok := result.(stmtResultReturn); ok {
		return ret.Value
	}
	return Nil{}
}

// bind returns a copy of f whose closure has this bound to instance, as when a method is looked up on an instance.
func (f *function) bind(instance *instance) *function {
	env := f.closure.Child()
	env.Define("this", instance)
	return &function{name: f.name, decl: f.decl, closure: env, isInitialiser: f.isInitialiser}
}

// class is a Lox class: a name, an optional superclass, and the methods declared directly on it.
type class struct {
	name          string
	superclass    *class
	methodsByName map[string]*function
}

func (c *class) String() string { return c.name }

// findMethod looks up name on c, falling back to its superclass chain.
func (c *class) findMethod(name string) (*function, bool) {
	if m, ok := c.methodsByName[name]; ok {
		return m, true
	}
	if c.superclass != nil {
		return c.superclass.findMethod(name)
	}
	return nil, false
}

func (c *class) Arity() int {
	if init, ok := c.findMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new instance of c, running its init method, if it has one, on the arguments.
func (c *class) Call(interp *Interpreter, args []loxObject) loxObject {
	inst := &instance{class: c, fieldsByName: make(map[string]loxObject)}
	if init, ok := c.findMethod("init"); ok {
		init.bind(inst).Call(interp, args)
	}
	return inst
}

// instance is an instance of a Lox class: a bag of fields plus a pointer back to its class for method lookup.
type instance struct {
	class        *class
	fieldsByName map[string]loxObject
}

func (i *instance) String() string { return fmt.Sprintf("%s instance", i.class.name) }

// get returns the value of name.Lexeme on i: a field if one has been set, otherwise a method bound to i.
func (i *instance) get(name token.Token) loxObject {
	if v, ok := i.fieldsByName[name.Lexeme]; ok {
		return v
	}
	if m, ok := i.class.findMethod(name.Lexeme); ok {
		return m.bind(i)
	}
	panic(runtimeErrorf(name, "undefined property %s", name.Lexeme))
}

func (i *instance) set(name token.Token, value loxObject) {
	i.fieldsByName[name.Lexeme] = value
}

// isTruthy reports whether v is truthy: everything except nil and false is truthy.
func isTruthy(v loxObject) bool {
	switch v := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}

// isEqual reports whether a and b are equal by Lox's == semantics: values of different types are never equal, nil
// only equals nil, native functions compare by name, and everything else other than numbers/strings/bools compares
// by identity.
func isEqual(a, b loxObject) bool {
	switch a := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Bool:
		b, ok := b.(Bool)
		return ok && a == b
	case Number:
		b, ok := b.(Number)
		return ok && a == b
	case String:
		b, ok := b.(String)
		return ok && a == b
	case nativeFunction:
		// nativeFunction holds a func field, which isn't comparable with ==, so compare by name instead.
		b, ok := b.(nativeFunction)
		return ok && a.name == b.name
	default:
		return a == b
	}
}

func typeName(v loxObject) string {
	switch v.(type) {
	case Nil:
		return "nil"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case *function:
		return "function"
	case *class:
		return "class"
	case *instance:
		return "instance"
	default:
		return fmt.Sprintf("%T", v)
	}
}
