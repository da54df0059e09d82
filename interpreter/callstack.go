package interpreter

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/loxlang/lox/stack"
	"github.com/loxlang/lox/token"
)

// callStack tracks the chain of calls currently in progress, for stack overflow detection and for rendering a trace
// when a runtime error escapes uncaught.
type callStack struct {
	frames      *stack.Stack[*stackFrame]
	calledFuncs *stack.Stack[string]
}

// stackFrame records where a call was made from and which function was executing at the time.
type stackFrame struct {
	Function string // name of the function being executed, or empty if at the top level
	Location token.Position
}

func newCallStack() *callStack {
	cs := &callStack{
		frames:      stack.New[*stackFrame](),
		calledFuncs: stack.New[string](),
	}
	cs.calledFuncs.Push("")
	return cs
}

// Push records a call to fn made at location.
func (cs *callStack) Push(fn callable, location token.Position) {
	cs.frames.Push(&stackFrame{
		Function: cs.calledFuncs.Peek(),
		Location: location,
	})
	cs.calledFuncs.Push(callableName(fn))
}

func (cs *callStack) Pop() {
	cs.frames.Pop()
	cs.calledFuncs.Pop()
}

func (cs *callStack) Len() int {
	return cs.frames.Len()
}

// Clear resets cs to empty, as after reporting an uncaught error so that a REPL session can keep going.
func (cs *callStack) Clear() {
	cs.frames.Clear()
	cs.calledFuncs.Clear()
	cs.calledFuncs.Push("")
}

func callableName(fn callable) string {
	switch fn := fn.(type) {
	case *function:
		return fn.name
	case *class:
		return fn.name
	default:
		return fmt.Sprintf("%s", fn)
	}
}

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint)
)

// StackTrace renders the current call stack, most recent call first, for inclusion alongside an uncaught runtime
// error.
func (cs *callStack) StackTrace() string {
	var b strings.Builder
	bold.Fprintln(&b, "Stack Trace (most recent call first):")
	locations := make([]string, cs.Len())
	locationWidth := 0
	functions := make([]string, cs.Len())
	functionWidth := 0
	lines := make([]string, cs.Len())
	for i, frame := range cs.frames.Backward() {
		locations[i] = frame.Location.String()
		locationWidth = max(locationWidth, runewidth.StringWidth(locations[i]))
		function := ""
		if frame.Function != "" {
			function = fmt.Sprintf("in %s", frame.Function)
		}
		functions[i] = function
		functionWidth = max(functionWidth, runewidth.StringWidth(functions[i]))
		lines[i] = faint.Sprintf("%s", bytes.TrimLeftFunc(frame.Location.File.Line(frame.Location.Line), unicode.IsSpace))
	}
	for i := cs.Len() - 1; i >= 0; i-- {
		location := runewidth.FillRight(locations[i], locationWidth)
		function := runewidth.FillRight(functions[i], functionWidth)
		fmt.Fprint(&b, "  ", location, " ", function, " ", lines[i])
		if i > 0 {
			fmt.Fprintln(&b)
		}
	}
	return b.String()
}
