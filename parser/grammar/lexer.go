// Package grammar implements the Monkey language front end.
// lexer.go turns a source buffer into a pull-based stream of tokens.
package grammar

// Lexer scans Monkey source one byte at a time. It never backtracks: every
// byte is read exactly once.
type Lexer struct {
	input        string
	filename     string
	position     int  // index of ch
	readPosition int  // index of the byte after ch
	ch           byte // 0 at end of input

	line   int
	column int
}

// NewLexer returns a lexer positioned on the first byte of input.
func NewLexer(input string) *Lexer {
	return NewLexerWithFilename(input, "")
}

// NewLexerWithFilename is NewLexer with the file name recorded in every
// token position.
func NewLexerWithFilename(input, filename string) *Lexer {
	l := &Lexer{input: input, filename: filename, line: 1}
	l.readChar()
	return l
}

// NextToken returns the next token. Once the input is exhausted it keeps
// returning EOF.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := l.pos()
	var tok Token

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: EQ, Literal: "=="}
		} else {
			tok = newToken(ASSIGN, l.ch)
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: NOT_EQ, Literal: "!="}
		} else {
			tok = newToken(BANG, l.ch)
		}
	case '+':
		tok = newToken(PLUS, l.ch)
	case '-':
		tok = newToken(MINUS, l.ch)
	case '*':
		tok = newToken(ASTERISK, l.ch)
	case '/':
		tok = newToken(SLASH, l.ch)
	case '<':
		tok = newToken(LT, l.ch)
	case '>':
		tok = newToken(GT, l.ch)
	case ',':
		tok = newToken(COMMA, l.ch)
	case ';':
		tok = newToken(SEMICOLON, l.ch)
	case '(':
		tok = newToken(LPAREN, l.ch)
	case ')':
		tok = newToken(RPAREN, l.ch)
	case '{':
		tok = newToken(LBRACE, l.ch)
	case '}':
		tok = newToken(RBRACE, l.ch)
	case 0:
		return Token{Type: EOF, Literal: "", Pos: pos}
	default:
		if isLetter(l.ch) {
			literal := l.readIdentifier()
			return Token{Type: LookupIdent(literal), Literal: literal, Pos: pos}
		}
		if isDigit(l.ch) {
			return Token{Type: INT, Literal: l.readNumber(), Pos: pos}
		}
		tok = newToken(ILLEGAL, l.ch)
	}

	l.readChar()
	tok.Pos = pos
	return tok
}

// Tokenize returns every token of input up to and including the first EOF.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) pos() Position {
	offset := l.position
	if offset > len(l.input) {
		offset = len(l.input)
	}
	return Position{Line: l.line, Column: l.column, Offset: offset, File: l.filename}
}

func newToken(tokenType TokenType, ch byte) Token {
	return Token{Type: tokenType, Literal: string(ch)}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
