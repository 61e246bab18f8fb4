// Package astdump renders a parsed Monkey program as a YAML document, one
// mapping per node, keeping field order stable.
package astdump

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/daveroberts0321/monkey/parser/grammar"
)

// Generate converts a parsed program into a YAML document. Every node is a
// mapping that starts with its kind and the literal of its defining token.
func Generate(program *grammar.Program) (string, error) {
	if program == nil {
		return "", fmt.Errorf("nil program")
	}

	out, err := yaml.Marshal(node(program))
	if err != nil {
		return "", fmt.Errorf("marshal ast: %w", err)
	}
	return string(out), nil
}

// WriteFile renders program as YAML and writes it to path, creating the
// parent directory when needed.
func WriteFile(program *grammar.Program, path string) error {
	doc, err := Generate(program)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(doc), 0644)
}

func node(n grammar.Node) interface{} {
	switch n := n.(type) {
	case *grammar.Program:
		if n == nil {
			return nil
		}
		return yaml.MapSlice{
			{Key: "kind", Value: "Program"},
			{Key: "statements", Value: statements(n.Statements)},
		}
	case *grammar.LetStatement:
		if n == nil {
			return nil
		}
		m := header("LetStatement", n.Token)
		m = append(m, yaml.MapItem{Key: "name", Value: node(n.Name)})
		return withChild(m, "value", n.Value)
	case *grammar.ReturnStatement:
		if n == nil {
			return nil
		}
		return withChild(header("ReturnStatement", n.Token), "value", n.ReturnValue)
	case *grammar.ExpressionStatement:
		if n == nil {
			return nil
		}
		return withChild(header("ExpressionStatement", n.Token), "expression", n.Expression)
	case *grammar.BlockStatement:
		if n == nil {
			return nil
		}
		return append(header("BlockStatement", n.Token),
			yaml.MapItem{Key: "statements", Value: statements(n.Statements)})
	case *grammar.Identifier:
		if n == nil {
			return nil
		}
		return append(header("Identifier", n.Token), yaml.MapItem{Key: "value", Value: n.Value})
	case *grammar.IntegerLiteral:
		return append(header("IntegerLiteral", n.Token), yaml.MapItem{Key: "value", Value: n.Value})
	case *grammar.Boolean:
		return append(header("Boolean", n.Token), yaml.MapItem{Key: "value", Value: n.Value})
	case *grammar.PrefixExpression:
		m := append(header("PrefixExpression", n.Token), yaml.MapItem{Key: "operator", Value: n.Operator})
		return withChild(m, "right", n.Right)
	case *grammar.InfixExpression:
		m := withChild(header("InfixExpression", n.Token), "left", n.Left)
		m = append(m, yaml.MapItem{Key: "operator", Value: n.Operator})
		return withChild(m, "right", n.Right)
	case *grammar.IfExpression:
		m := withChild(header("IfExpression", n.Token), "condition", n.Condition)
		m = append(m, yaml.MapItem{Key: "consequence", Value: node(n.Consequence)})
		if n.Alternative != nil {
			m = append(m, yaml.MapItem{Key: "alternative", Value: node(n.Alternative)})
		}
		return m
	case *grammar.FunctionLiteral:
		params := make([]interface{}, 0, len(n.Parameters))
		for _, p := range n.Parameters {
			params = append(params, node(p))
		}
		return append(header("FunctionLiteral", n.Token),
			yaml.MapItem{Key: "parameters", Value: params},
			yaml.MapItem{Key: "body", Value: node(n.Body)})
	case *grammar.CallExpression:
		args := make([]interface{}, 0, len(n.Arguments))
		for _, a := range n.Arguments {
			args = append(args, node(a))
		}
		m := withChild(header("CallExpression", n.Token), "function", n.Function)
		return append(m, yaml.MapItem{Key: "arguments", Value: args})
	default:
		return nil
	}
}

func header(kind string, tok grammar.Token) yaml.MapSlice {
	return yaml.MapSlice{
		{Key: "kind", Value: kind},
		{Key: "token", Value: tok.Literal},
	}
}

// withChild appends key only when child is present.
func withChild(m yaml.MapSlice, key string, child grammar.Node) yaml.MapSlice {
	if child == nil {
		return m
	}
	if v := node(child); v != nil {
		m = append(m, yaml.MapItem{Key: key, Value: v})
	}
	return m
}

func statements(stmts []grammar.Statement) []interface{} {
	out := make([]interface{}, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, node(s))
	}
	return out
}
