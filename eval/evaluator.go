package eval

import (
	"fmt"

	"github.com/daveroberts0321/monkey/parser/grammar"
)

// MaxCallDepth is the deepest nesting of function calls Eval allows before
// it returns an *Error.
const MaxCallDepth = 2000

var null = Null{}

// Eval evaluates node in env. Runtime failures come back as *Error values.
func Eval(node grammar.Node, env *Environment) Object {
	switch node := node.(type) {
	// Statements
	case *grammar.Program:
		return evalProgram(node, env)

	case *grammar.ExpressionStatement:
		return Eval(node.Expression, env)

	case *grammar.BlockStatement:
		return evalBlockStatement(node, env)

	case *grammar.ReturnStatement:
		val := Eval(node.ReturnValue, env)
		if isError(val) {
			return val
		}
		return &ReturnValue{Value: val}

	case *grammar.LetStatement:
		val := Eval(node.Value, env)
		if isError(val) {
			return val
		}
		env.Set(node.Name.Value, val)
		return null

	// Expressions
	case *grammar.IntegerLiteral:
		return Integer{Value: node.Value}

	case *grammar.Boolean:
		return Boolean{Value: node.Value}

	case *grammar.Identifier:
		return evalIdentifier(node, env)

	case *grammar.PrefixExpression:
		right := Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return evalPrefixExpression(node.Operator, right)

	case *grammar.InfixExpression:
		left := Eval(node.Left, env)
		if isError(left) {
			return left
		}
		right := Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return evalInfixExpression(node.Operator, left, right)

	case *grammar.IfExpression:
		return evalIfExpression(node, env)

	case *grammar.FunctionLiteral:
		return &Function{Parameters: node.Parameters, Body: node.Body, Env: env}

	case *grammar.CallExpression:
		function := Eval(node.Function, env)
		if isError(function) {
			return function
		}
		args := evalExpressions(node.Arguments, env)
		if len(args) == 1 && isError(args[0]) {
			return args[0]
		}
		return applyFunction(function, args)
	}

	return null
}

func evalProgram(program *grammar.Program, env *Environment) Object {
	var result Object = null

	for _, statement := range program.Statements {
		result = Eval(statement, env)

		switch result := result.(type) {
		case *ReturnValue:
			return result.Value
		case *Error:
			return result
		}
	}

	return result
}

func evalBlockStatement(block *grammar.BlockStatement, env *Environment) Object {
	var result Object = null

	for _, statement := range block.Statements {
		result = Eval(statement, env)

		if rt := result.Type(); rt == RETURN_VALUE_OBJ || rt == ERROR_OBJ {
			return result
		}
	}

	return result
}

func evalIdentifier(node *grammar.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	return newError("identifier not found: %s", node.Value)
}

func evalPrefixExpression(operator string, right Object) Object {
	switch operator {
	case "!":
		return Boolean{Value: !isTruthy(right)}
	case "-":
		integer, ok := right.(Integer)
		if !ok {
			return newError("unknown operator: -%s", right.Type())
		}
		return Integer{Value: -integer.Value}
	default:
		return newError("unknown operator: %s%s", operator, right.Type())
	}
}

func evalInfixExpression(operator string, left, right Object) Object {
	switch {
	case left.Type() == INTEGER_OBJ && right.Type() == INTEGER_OBJ:
		return evalIntegerInfixExpression(operator, left.(Integer), right.(Integer))
	case left.Type() != right.Type():
		return newError("type mismatch: %s %s %s", left.Type(), operator, right.Type())
	case left.Type() == BOOLEAN_OBJ:
		return evalBooleanInfixExpression(operator, left.(Boolean), right.(Boolean))
	default:
		return newError("unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

func evalIntegerInfixExpression(operator string, left, right Integer) Object {
	l, r := left.Value, right.Value
	switch operator {
	case "+":
		return Integer{Value: l + r}
	case "-":
		return Integer{Value: l - r}
	case "*":
		return Integer{Value: l * r}
	case "/":
		if r == 0 {
			return newError("division by zero")
		}
		return Integer{Value: l / r}
	case "<":
		return Boolean{Value: l < r}
	case ">":
		return Boolean{Value: l > r}
	case "==":
		return Boolean{Value: l == r}
	case "!=":
		return Boolean{Value: l != r}
	default:
		return newError("unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

func evalBooleanInfixExpression(operator string, left, right Boolean) Object {
	switch operator {
	case "==":
		return Boolean{Value: left.Value == right.Value}
	case "!=":
		return Boolean{Value: left.Value != right.Value}
	default:
		return newError("unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

func evalIfExpression(ie *grammar.IfExpression, env *Environment) Object {
	condition := Eval(ie.Condition, env)
	if isError(condition) {
		return condition
	}

	switch {
	case isTruthy(condition):
		return Eval(ie.Consequence, env)
	case ie.Alternative != nil:
		return Eval(ie.Alternative, env)
	default:
		return null
	}
}

func evalExpressions(exps []grammar.Expression, env *Environment) []Object {
	result := make([]Object, 0, len(exps))

	for _, e := range exps {
		evaluated := Eval(e, env)
		if isError(evaluated) {
			return []Object{evaluated}
		}
		result = append(result, evaluated)
	}

	return result
}

func applyFunction(fn Object, args []Object) Object {
	function, ok := fn.(*Function)
	if !ok {
		return newError("not a function: %s", fn.Type())
	}
	if len(args) != len(function.Parameters) {
		return newError("wrong number of arguments: want=%d, got=%d", len(function.Parameters), len(args))
	}

	if *function.Env.depth >= MaxCallDepth {
		return newError("maximum call depth exceeded")
	}
	*function.Env.depth++
	defer func() { *function.Env.depth-- }()

	env := NewEnclosedEnvironment(function.Env)
	for i, param := range function.Parameters {
		env.Set(param.Value, args[i])
	}

	evaluated := Eval(function.Body, env)
	if rv, ok := evaluated.(*ReturnValue); ok {
		return rv.Value
	}
	return evaluated
}

func isTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case Null:
		return false
	case Boolean:
		return obj.Value
	default:
		return true
	}
}

func isError(obj Object) bool {
	return obj != nil && obj.Type() == ERROR_OBJ
}

func newError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...)}
}
