package interpreter

import (
	"fmt"

	"github.com/loxlang/lox/token"
)

// environment is one lexical scope: a map from name to value plus an optional parent. A declared-but-not-yet-defined
// variable is present in valuesByName with a nil value, which Get distinguishes from "not declared at all".
type environment struct {
	parent       *environment
	valuesByName map[string]loxObject
}

func newEnvironment() *environment {
	return &environment{valuesByName: make(map[string]loxObject)}
}

// Child creates a new child environment of e.
func (e *environment) Child() *environment {
	return &environment{parent: e, valuesByName: make(map[string]loxObject)}
}

// Declare marks name as declared in e without giving it a value, as for `var x;`.
func (e *environment) Declare(name string) {
	e.valuesByName[name] = nil
}

// Define declares name in e and gives it a value in one step.
func (e *environment) Define(name string, value loxObject) {
	e.valuesByName[name] = value
}

// Assign assigns value to tok's identifier in e or, if e doesn't declare it, in the nearest ancestor that does. A
// resolved local assignment always finds the name in the environment it starts from, since the resolver only computes
// a distance for names it saw declared; a name declared nowhere means tok refers to a global that was never declared
// with var, which is a normal (if rare) Lox runtime error.
func (e *environment) Assign(tok token.Token, value loxObject) {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.valuesByName[tok.Lexeme]; ok {
			env.valuesByName[tok.Lexeme] = value
			return
		}
	}
	panic(runtimeErrorf(tok, "undefined variable %s", tok.Lexeme))
}

// Get returns the value of tok's identifier, looking up through the parent chain if it's not declared in e.
func (e *environment) Get(tok token.Token) loxObject {
	for env := e; env != nil; env = env.parent {
		if value, ok := env.valuesByName[tok.Lexeme]; ok {
			if value == nil {
				panic(runtimeErrorf(tok, "%s has not been defined", tok.Lexeme))
			}
			return value
		}
	}
	panic(runtimeErrorf(tok, "undefined variable %s", tok.Lexeme))
}

// GetAt returns the value of tok's identifier in the environment distance levels up the parent chain, applying the
// same declared-but-undefined check as Get.
func (e *environment) GetAt(distance int, tok token.Token) loxObject {
	return e.ancestor(distance).Get(tok)
}

// thisToken returns a synthetic token for looking up the implicit "this" binding, which is never written by the
// user but still needs a token.Token so that GetAt can report a sensible error if this environment's invariants are
// ever violated.
func thisToken(pos token.Position) token.Token {
	return token.NewToken(token.This, "this", nil, pos, pos)
}

// AssignAt assigns value to name in the environment distance levels up the parent chain.
func (e *environment) AssignAt(distance int, tok token.Token, value loxObject) {
	e.ancestor(distance).Assign(tok, value)
}

func (e *environment) ancestor(distance int) *environment {
	env := e
	for range distance {
		env = env.parent
		if env == nil {
			panic(fmt.Sprintf("interpreter: ancestor %d is out of range", distance))
		}
	}
	return env
}
