// Package eval is a small tree-walking evaluator for Monkey programs.
package eval

import (
	"fmt"
	"strings"

	"github.com/daveroberts0321/monkey/parser/grammar"
)

// ObjectType names the kind of a runtime value.
type ObjectType string

const (
	INTEGER_OBJ      ObjectType = "INTEGER"
	BOOLEAN_OBJ      ObjectType = "BOOLEAN"
	NULL_OBJ         ObjectType = "NULL"
	RETURN_VALUE_OBJ ObjectType = "RETURN_VALUE"
	ERROR_OBJ        ObjectType = "ERROR"
	FUNCTION_OBJ     ObjectType = "FUNCTION"
)

// Object is a runtime value.
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Integer
type Integer struct {
	Value int64
}

func (i Integer) Type() ObjectType { return INTEGER_OBJ }
func (i Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }

// Boolean values compare with ==; there are no shared singletons.
type Boolean struct {
	Value bool
}

func (b Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

// Null is the value of statements and branches that produce nothing.
type Null struct{}

func (n Null) Type() ObjectType { return NULL_OBJ }
func (n Null) Inspect() string  { return "null" }

// ReturnValue carries a returned value up through enclosing blocks.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// Error is a runtime error. It stops evaluation of the enclosing program.
type Error struct {
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "ERROR: " + e.Message }

// Function is a closure over the environment it was defined in.
type Function struct {
	Parameters []*grammar.Identifier
	Body       *grammar.BlockStatement
	Env        *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	params := make([]string, 0, len(f.Parameters))
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}
	return "fn(" + strings.Join(params, ", ") + ") {\n" + f.Body.String() + "\n}"
}

// Environment maps names to values, falling back to an enclosing scope.
type Environment struct {
	store map[string]Object
	outer *Environment
	// depth counts active function calls; shared by every scope nested in
	// the same top-level environment.
	depth *int
}

// NewEnvironment returns an empty top-level environment.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object), depth: new(int)}
}

// NewEnclosedEnvironment returns an empty scope nested in outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: make(map[string]Object), outer: outer, depth: outer.depth}
}

// Get looks name up in this scope and then in the enclosing ones.
func (e *Environment) Get(name string) (Object, bool) {
	obj, ok := e.store[name]
	if !ok && e.outer != nil {
		return e.outer.Get(name)
	}
	return obj, ok
}

// Set binds name in this scope.
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val
	return val
}
