package resolver_test

import (
	"strings"
	"testing"

	"github.com/loxlang/lox/parser"
	"github.com/loxlang/lox/resolver"
	"github.com/loxlang/lox/scanner"
	"github.com/loxlang/lox/token"
)

func resolve(t *testing.T, src string) (map[token.Token]int, error) {
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
	return resolver.Resolve(program)
}

func TestResolveLocalVariableDistance(t *testing.T) {
	_, err := resolve(t, `
		var a = "global";
		{
			var a = "block";
			print a;
		}
	`)
	if err != nil {
		t.Fatalf("Resolve() returned unexpected error: %s", err)
	}
}

func TestResolveRejectsSelfReferentialInitialiser(t *testing.T) {
	_, err := resolve(t, `
		var a = "outer";
		{
			var a = a;
		}
	`)
	if err == nil {
		t.Fatal("Resolve() returned no error for a self-referential initialiser")
	}
}

func TestResolveRejectsDuplicateDeclarationInSameScope(t *testing.T) {
	_, err := resolve(t, `{ var a = 1; var a = 2; }`)
	if err == nil {
		t.Fatal("Resolve() returned no error for a duplicate declaration in the same scope")
	}
}

func TestResolveRejectsTopLevelReturn(t *testing.T) {
	_, err := resolve(t, `return 1;`)
	if err == nil {
		t.Fatal("Resolve() returned no error for a top-level return")
	}
}

func TestResolveRejectsReturnValueFromInitialiser(t *testing.T) {
	_, err := resolve(t, `
		class Foo {
			init() { return 1; }
		}
	`)
	if err == nil {
		t.Fatal("Resolve() returned no error for a value-returning initialiser")
	}
	if !strings.Contains(err.Error(), "initialiser") {
		t.Errorf("error = %q, want it to mention the initialiser", err.Error())
	}
}

func TestResolveAllowsBareReturnFromInitialiser(t *testing.T) {
	_, err := resolve(t, `
		class Foo {
			init() { return; }
		}
	`)
	if err != nil {
		t.Fatalf("Resolve() returned unexpected error: %s", err)
	}
}

func TestResolveRejectsThisOutsideClass(t *testing.T) {
	_, err := resolve(t, `print this;`)
	if err == nil {
		t.Fatal("Resolve() returned no error for 'this' outside a class")
	}
}

func TestResolveRejectsSuperOutsideClass(t *testing.T) {
	_, err := resolve(t, `print super.foo;`)
	if err == nil {
		t.Fatal("Resolve() returned no error for 'super' outside a class")
	}
}

func TestResolveRejectsSuperInClassWithNoSuperclass(t *testing.T) {
	_, err := resolve(t, `
		class Foo {
			bar() { return super.bar(); }
		}
	`)
	if err == nil {
		t.Fatal("Resolve() returned no error for 'super' in a class with no superclass")
	}
}

func TestResolveRejectsClassInheritingFromItself(t *testing.T) {
	_, err := resolve(t, `class Foo < Foo {}`)
	if err == nil {
		t.Fatal("Resolve() returned no error for a class inheriting from itself")
	}
}

func TestResolveAllowsSuperInSubclass(t *testing.T) {
	_, err := resolve(t, `
		class Animal {
			speak() { return "..."; }
		}
		class Dog < Animal {
			speak() { return super.speak(); }
		}
	`)
	if err != nil {
		t.Fatalf("Resolve() returned unexpected error: %s", err)
	}
}

func TestResolveAllowsThisInMethod(t *testing.T) {
	_, err := resolve(t, `
		class Foo {
			bar() { return this; }
		}
	`)
	if err != nil {
		t.Fatalf("Resolve() returned unexpected error: %s", err)
	}
}
