// Package grammar implements the Monkey language front end.
// ast.go defines the program and statement nodes of the syntax tree.
package grammar

import (
	"fmt"
	"strings"
)

// Position is a location in source code.
type Position struct {
	Line   int
	Column int
	Offset int
	File   string
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Node is implemented by every syntax tree node.
type Node interface {
	// TokenLiteral returns the literal of the token that introduced the node.
	TokenLiteral() string
	// String returns the canonical, fully parenthesized source form.
	String() string
}

// Statement nodes
type Statement interface {
	Node
	statementNode()
}

// Expression nodes
type Expression interface {
	Node
	expressionNode()
}

// Program is the root of every syntax tree. Statements are kept in source
// order.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out strings.Builder
	for _, s := range p.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}

// LetStatement binds Name to Value: let <name> = <value>;
type LetStatement struct {
	Token Token // the LET token
	Name  *Identifier
	Value Expression
}

func (ls *LetStatement) statementNode()       {}
func (ls *LetStatement) TokenLiteral() string { return ls.Token.Literal }
func (ls *LetStatement) String() string {
	var out strings.Builder
	out.WriteString(ls.TokenLiteral() + " ")
	out.WriteString(ls.Name.String())
	if ls.Value != nil {
		out.WriteString(" = ")
		out.WriteString(ls.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// ReturnStatement: return <value>;
type ReturnStatement struct {
	Token       Token // the RETURN token
	ReturnValue Expression
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) String() string {
	var out strings.Builder
	out.WriteString(rs.TokenLiteral() + " ")
	if rs.ReturnValue != nil {
		out.WriteString(rs.ReturnValue.String())
	}
	out.WriteString(";")
	return out.String()
}

// ExpressionStatement wraps an expression used in statement position.
type ExpressionStatement struct {
	Token      Token // first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

// BlockStatement is a braced statement list.
type BlockStatement struct {
	Token      Token // the { token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) String() string {
	var out strings.Builder
	for _, s := range bs.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}

// Walk traverses the tree rooted at node depth-first, parents before
// children, in the order the parser built them. If fn returns false the
// children of that node are skipped. Absent optional children are not
// visited.
func Walk(node Node, fn func(Node) bool) {
	if isNilNode(node) || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, s := range n.Statements {
			Walk(s, fn)
		}
	case *LetStatement:
		walkIdent(n.Name, fn)
		walkExpr(n.Value, fn)
	case *ReturnStatement:
		walkExpr(n.ReturnValue, fn)
	case *ExpressionStatement:
		walkExpr(n.Expression, fn)
	case *BlockStatement:
		for _, s := range n.Statements {
			Walk(s, fn)
		}
	case *PrefixExpression:
		walkExpr(n.Right, fn)
	case *InfixExpression:
		walkExpr(n.Left, fn)
		walkExpr(n.Right, fn)
	case *IfExpression:
		walkExpr(n.Condition, fn)
		walkBlock(n.Consequence, fn)
		walkBlock(n.Alternative, fn)
	case *FunctionLiteral:
		for _, p := range n.Parameters {
			walkIdent(p, fn)
		}
		walkBlock(n.Body, fn)
	case *CallExpression:
		walkExpr(n.Function, fn)
		for _, a := range n.Arguments {
			walkExpr(a, fn)
		}
	}
}

func walkExpr(e Expression, fn func(Node) bool) {
	if e != nil {
		Walk(e, fn)
	}
}

func walkIdent(i *Identifier, fn func(Node) bool) {
	if i != nil {
		Walk(i, fn)
	}
}

func walkBlock(b *BlockStatement, fn func(Node) bool) {
	if b != nil {
		Walk(b, fn)
	}
}

// isNilNode catches typed nil pointers stored in a Node interface.
func isNilNode(node Node) bool {
	switch n := node.(type) {
	case nil:
		return true
	case *Program:
		return n == nil
	case *LetStatement:
		return n == nil
	case *ReturnStatement:
		return n == nil
	case *ExpressionStatement:
		return n == nil
	case *BlockStatement:
		return n == nil
	case *Identifier:
		return n == nil
	case *IntegerLiteral:
		return n == nil
	case *Boolean:
		return n == nil
	case *PrefixExpression:
		return n == nil
	case *InfixExpression:
		return n == nil
	case *IfExpression:
		return n == nil
	case *FunctionLiteral:
		return n == nil
	case *CallExpression:
		return n == nil
	}
	return false
}
