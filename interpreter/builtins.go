package interpreter

import "time"

// builtins are the native functions defined in the global scope of every interpreter.
var builtins = map[string]loxObject{
	"clock": nativeFunction{name: "clock", arity: 0, fn: func(args []loxObject) loxObject {
		return Number(float64(time.Now().UnixNano()) / float64(time.Second))
	}},
}

// nativeFunction is a callable implemented in Go rather than declared in Lox source.
type nativeFunction struct {
	name  string
	arity int
	fn    func(args []loxObject) loxObject
}

func (f nativeFunction) String() string { return "<native fn " + f.name + ">" }

func (f nativeFunction) Arity() int { return f.arity }

func (f nativeFunction) Call(_ *Interpreter, args []loxObject) loxObject { return f.fn(args) }

var _ callable = nativeFunction{}
