package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test the canonical string form of a hand-built tree.
func TestString(t *testing.T) {
	program := &Program{
		Statements: []Statement{
			&LetStatement{
				Token: Token{Type: LET, Literal: "let"},
				Name: &Identifier{
					Token: Token{Type: IDENT, Literal: "myVar"},
					Value: "myVar",
				},
				Value: &Identifier{
					Token: Token{Type: IDENT, Literal: "anotherVar"},
					Value: "anotherVar",
				},
			},
		},
	}
	if program.String() != "let myVar = anotherVar;" {
		t.Fatalf("program.String() wrong, got %q", program.String())
	}
}

// Test string forms of nodes with absent optional children.
func TestStringOptionalChildren(t *testing.T) {
	let := &LetStatement{
		Token: Token{Type: LET, Literal: "let"},
		Name:  &Identifier{Token: Token{Type: IDENT, Literal: "x"}, Value: "x"},
	}
	assert.Equal(t, "let x;", let.String())

	ret := &ReturnStatement{Token: Token{Type: RETURN, Literal: "return"}}
	assert.Equal(t, "return ;", ret.String())

	es := &ExpressionStatement{Token: Token{Type: SEMICOLON, Literal: ";"}}
	assert.Equal(t, "", es.String())
}

// Test token literals, including the empty program.
func TestTokenLiteral(t *testing.T) {
	assert.Equal(t, "", (&Program{}).TokenLiteral())

	program := parse(t, "return x; let y = 1;")
	assert.Equal(t, "return", program.TokenLiteral())

	exp := singleExpression(t, parse(t, "f(1)"))
	assert.Equal(t, "(", exp.TokenLiteral())

	exp = singleExpression(t, parse(t, "1 * 2"))
	assert.Equal(t, "*", exp.TokenLiteral())
}

// Test that Walk visits nodes in construction order.
func TestWalkOrder(t *testing.T) {
	program := parse(t, "let f = fn(a) { if (a > 1) { a } else { -a } }; f(2);")

	var kinds []string
	Walk(program, func(n Node) bool {
		switch n := n.(type) {
		case *Identifier:
			kinds = append(kinds, "ident:"+n.Value)
		case *IntegerLiteral:
			kinds = append(kinds, "int:"+n.TokenLiteral())
		case *PrefixExpression:
			kinds = append(kinds, "prefix:"+n.Operator)
		case *InfixExpression:
			kinds = append(kinds, "infix:"+n.Operator)
		case *IfExpression:
			kinds = append(kinds, "if")
		case *FunctionLiteral:
			kinds = append(kinds, "fn")
		case *CallExpression:
			kinds = append(kinds, "call")
		}
		return true
	})

	want := []string{
		"ident:f", "fn", "ident:a",
		"if", "infix:>", "ident:a", "int:1", "ident:a", "prefix:-", "ident:a",
		"call", "ident:f", "int:2",
	}
	assert.Equal(t, want, kinds)
}

// Test that Walk can prune subtrees and tolerates absent children.
func TestWalkPruneAndNil(t *testing.T) {
	program := parse(t, "if (x) { fn(y) { y } }")

	count := 0
	Walk(program, func(n Node) bool {
		count++
		_, isFn := n.(*FunctionLiteral)
		return !isFn
	})
	// program, stmt, if, x, block, stmt, fn
	assert.Equal(t, 7, count)

	var nilIf *IfExpression
	Walk(nilIf, func(Node) bool {
		t.Fatal("typed nil must not be visited")
		return true
	})

	Walk(&LetStatement{Name: &Identifier{Value: "x"}}, func(Node) bool { return true })
}
