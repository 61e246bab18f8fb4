// Package grammar implements the Monkey language front end.
// parser.go contains the Pratt parsing engine and its helper routines.
package grammar

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Monkey Grammar:
//   Program        := { Statement }
//   Statement      := LetStmt | ReturnStmt | ExprStmt
//   LetStmt        := 'let' IDENT '=' Expression [ ';' ]
//   ReturnStmt     := 'return' Expression [ ';' ]
//   ExprStmt       := Expression [ ';' ]
//   Block          := '{' { Statement } '}'
//   Expression     := Prefix { Infix }          (precedence climbing)
//   Prefix         := IDENT | INT | 'true' | 'false' | ('!' | '-') Expression
//                   | '(' Expression ')' | If | Function
//   If             := 'if' '(' Expression ')' Block [ 'else' Block ]
//   Function       := 'fn' '(' [ IDENT { ',' IDENT } ] ')' Block
//   Infix          := BinaryOp Expression | '(' [ Expression { ',' Expression } ] ')'

// Operator precedences, lowest to highest.
const (
	_ int = iota
	LOWEST
	EQUALS      // ==
	LESSGREATER // > or <
	SUM         // +
	PRODUCT     // *
	PREFIX      // -X or !X
	CALL        // myFunction(X)
)

var precedences = map[TokenType]int{
	EQ:       EQUALS,
	NOT_EQ:   EQUALS,
	LT:       LESSGREATER,
	GT:       LESSGREATER,
	PLUS:     SUM,
	MINUS:    SUM,
	SLASH:    PRODUCT,
	ASTERISK: PRODUCT,
	LPAREN:   CALL,
}

type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression
)

// ParseError is a single diagnostic with the position of the offending token.
type ParseError struct {
	Msg string
	Pos Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Option configures a Parser.
type Option func(*Parser)

// WithTrace makes the parser log every production it enters and leaves to w.
func WithTrace(w io.Writer) Option {
	return func(p *Parser) {
		p.tracer = w
	}
}

// Parser builds a Program from the tokens of a Lexer. It looks at most one
// token beyond curToken.
type Parser struct {
	l *Lexer

	curToken  Token
	peekToken Token

	errors      []string
	diagnostics []ParseError

	prefixParseFns map[TokenType]prefixParseFn
	infixParseFns  map[TokenType]infixParseFn

	tracer     io.Writer
	traceLevel int
}

// NewParser returns a parser reading from l with its lookahead window primed.
func NewParser(l *Lexer, opts ...Option) *Parser {
	p := &Parser{
		l:              l,
		errors:         []string{},
		prefixParseFns: make(map[TokenType]prefixParseFn),
		infixParseFns:  make(map[TokenType]infixParseFn),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.registerPrefix(IDENT, p.parseIdentifier)
	p.registerPrefix(INT, p.parseIntegerLiteral)
	p.registerPrefix(BANG, p.parsePrefixExpression)
	p.registerPrefix(MINUS, p.parsePrefixExpression)
	p.registerPrefix(TRUE, p.parseBoolean)
	p.registerPrefix(FALSE, p.parseBoolean)
	p.registerPrefix(LPAREN, p.parseGroupedExpression)
	p.registerPrefix(IF, p.parseIfExpression)
	p.registerPrefix(FUNCTION, p.parseFunctionLiteral)

	for _, tok := range []TokenType{PLUS, MINUS, SLASH, ASTERISK, EQ, NOT_EQ, LT, GT} {
		p.registerInfix(tok, p.parseInfixExpression)
	}
	p.registerInfix(LPAREN, p.parseCallExpression)

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the diagnostics collected so far, in the order they were
// found. An empty slice means the parse succeeded.
func (p *Parser) Errors() []string {
	return p.errors
}

// Diagnostics is Errors with source positions attached.
func (p *Parser) Diagnostics() []ParseError {
	return p.diagnostics
}

// ParseProgram parses statements until EOF. It always returns a Program;
// statements that fail to parse are left out and explained in Errors.
func (p *Parser) ParseProgram() *Program {
	program := &Program{Statements: []Statement{}}

	for !p.curTokenIs(EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program
}

func (p *Parser) registerPrefix(tokenType TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) parseStatement() Statement {
	switch p.curToken.Type {
	case LET:
		return p.parseLetStatement()
	case RETURN:
		return p.parseReturnStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() Statement {
	defer p.untrace(p.trace("parseLetStatement"))

	stmt := &LetStatement{Token: p.curToken}

	if !p.expectPeek(IDENT) {
		return nil
	}
	stmt.Name = &Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(ASSIGN) {
		return nil
	}
	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}

	if p.peekTokenIs(SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseReturnStatement() Statement {
	defer p.untrace(p.trace("parseReturnStatement"))

	stmt := &ReturnStatement{Token: p.curToken}
	p.nextToken()

	stmt.ReturnValue = p.parseExpression(LOWEST)
	if stmt.ReturnValue == nil {
		return nil
	}

	if p.peekTokenIs(SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() Statement {
	defer p.untrace(p.trace("parseExpressionStatement"))

	stmt := &ExpressionStatement{Token: p.curToken}

	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}

	if p.peekTokenIs(SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseBlockStatement() *BlockStatement {
	defer p.untrace(p.trace("parseBlockStatement"))

	block := &BlockStatement{Token: p.curToken, Statements: []Statement{}}
	p.nextToken()

	for !p.curTokenIs(RBRACE) && !p.curTokenIs(EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	return block
}

func (p *Parser) parseExpression(precedence int) Expression {
	defer p.untrace(p.trace("parseExpression"))

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}

	for !p.peekTokenIs(SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()

		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *Parser) parseIdentifier() Expression {
	return &Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() Expression {
	defer p.untrace(p.trace("parseIntegerLiteral"))

	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			p.addError(p.curToken.Pos, fmt.Sprintf("could not parse %q as integer", p.curToken.Literal))
			return nil
		}
		// The lexer only produces INT tokens for runs of ASCII digits.
		panic(fmt.Sprintf("grammar: malformed INT literal %q: %v", p.curToken.Literal, err))
	}

	return &IntegerLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseBoolean() Expression {
	return &Boolean{Token: p.curToken, Value: p.curTokenIs(TRUE)}
}

func (p *Parser) parsePrefixExpression() Expression {
	defer p.untrace(p.trace("parsePrefixExpression"))

	expression := &PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}
	p.nextToken()

	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseInfixExpression(left Expression) Expression {
	defer p.untrace(p.trace("parseInfixExpression"))

	expression := &InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()

	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseGroupedExpression() Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}
	if !p.expectPeek(RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseIfExpression() Expression {
	defer p.untrace(p.trace("parseIfExpression"))

	expression := &IfExpression{Token: p.curToken}

	if !p.expectPeek(LPAREN) {
		return nil
	}
	p.nextToken()

	expression.Condition = p.parseExpression(LOWEST)
	if expression.Condition == nil {
		return nil
	}

	if !p.expectPeek(RPAREN) {
		return nil
	}
	if !p.expectPeek(LBRACE) {
		return nil
	}
	expression.Consequence = p.parseBlockStatement()

	if p.peekTokenIs(ELSE) {
		p.nextToken()

		if !p.expectPeek(LBRACE) {
			return nil
		}
		expression.Alternative = p.parseBlockStatement()
	}

	return expression
}

func (p *Parser) parseFunctionLiteral() Expression {
	defer p.untrace(p.trace("parseFunctionLiteral"))

	lit := &FunctionLiteral{Token: p.curToken}

	if !p.expectPeek(LPAREN) {
		return nil
	}

	params, ok := p.parseFunctionParameters()
	if !ok {
		return nil
	}
	lit.Parameters = params

	if !p.expectPeek(LBRACE) {
		return nil
	}
	lit.Body = p.parseBlockStatement()

	return lit
}

func (p *Parser) parseFunctionParameters() ([]*Identifier, bool) {
	identifiers := []*Identifier{}

	if p.peekTokenIs(RPAREN) {
		p.nextToken()
		return identifiers, true
	}

	if !p.expectPeek(IDENT) {
		return nil, false
	}
	identifiers = append(identifiers, &Identifier{Token: p.curToken, Value: p.curToken.Literal})

	for p.peekTokenIs(COMMA) {
		p.nextToken()
		if !p.expectPeek(IDENT) {
			return nil, false
		}
		identifiers = append(identifiers, &Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}

	if !p.expectPeek(RPAREN) {
		return nil, false
	}
	return identifiers, true
}

func (p *Parser) parseCallExpression(function Expression) Expression {
	defer p.untrace(p.trace("parseCallExpression"))

	exp := &CallExpression{Token: p.curToken, Function: function}

	args, ok := p.parseExpressionList(RPAREN)
	if !ok {
		return nil
	}
	exp.Arguments = args
	return exp
}

// parseExpressionList parses a comma separated, possibly empty, list of
// expressions closed by end. curToken is the opening delimiter.
func (p *Parser) parseExpressionList(end TokenType) ([]Expression, bool) {
	list := []Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil, false
	}
	list = append(list, exp)

	for p.peekTokenIs(COMMA) {
		p.nextToken()
		p.nextToken()
		exp := p.parseExpression(LOWEST)
		if exp == nil {
			return nil, false
		}
		list = append(list, exp)
	}

	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}

// Utility functions
func (p *Parser) curTokenIs(t TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek advances past peekToken when it has type t. Otherwise it records
// a diagnostic and leaves the window untouched.
func (p *Parser) expectPeek(t TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) peekError(t TokenType) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken.Type)
	p.addError(p.peekToken.Pos, msg)
}

func (p *Parser) noPrefixParseFnError(tok Token) {
	msg := fmt.Sprintf("no prefix parse function for %s found", tok.Type)
	p.addError(tok.Pos, msg)
}

func (p *Parser) addError(pos Position, msg string) {
	p.errors = append(p.errors, msg)
	p.diagnostics = append(p.diagnostics, ParseError{Msg: msg, Pos: pos})
}

// Tracing helpers
func (p *Parser) trace(msg string) string {
	if p.tracer == nil {
		return msg
	}
	p.traceLevel++
	p.tracePrint("BEGIN " + msg)
	return msg
}

func (p *Parser) untrace(msg string) {
	if p.tracer == nil {
		return
	}
	p.tracePrint("END " + msg)
	p.traceLevel--
}

func (p *Parser) tracePrint(msg string) {
	fmt.Fprintf(p.tracer, "%s%s (%s %q)\n", strings.Repeat("\t", p.traceLevel-1), msg, p.curToken.Type, p.curToken.Literal)
}
