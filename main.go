// Command lox is a tree-walking interpreter for the Lox programming language.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"github.com/loxlang/lox/interpreter"
	"github.com/loxlang/lox/parser"
	"github.com/loxlang/lox/resolver"
	"github.com/loxlang/lox/scanner"
	"github.com/loxlang/lox/token"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: lox [script]")
}

func main() {
	switch len(os.Args) {
	case 1:
		if err := runREPL(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case 2:
		if err := runFile(os.Args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}
}

// run scans, parses, resolves, and interprets the contents of name/src as one program, using interp for its
// environment and builtins.
func run(name string, src []byte, interp *interpreter.Interpreter) error {
	file := token.NewFile(name, src)

	tokens, err := scanner.New(file).Scan()
	if err != nil {
		return err
	}

	program, err := parser.New(tokens).Parse()
	if err != nil {
		return err
	}

	distances, err := resolver.Resolve(program)
	if err != nil {
		return err
	}

	return interp.Interpret(program, distances)
}

func runFile(name string) error {
	src, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	if err := run(name, src, interpreter.New()); err != nil {
		return err
	}
	return nil
}

func runREPL() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      ">> ",
		HistoryFile: "history.txt",
	})
	if err != nil {
		return fmt.Errorf("starting REPL: %s", err)
	}
	defer rl.Close()

	interp := interpreter.New(interpreter.REPLMode())
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading input: %s", err)
		}
		if line == "" {
			continue
		}
		if err := run("<stdin>", []byte(line), interp); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
