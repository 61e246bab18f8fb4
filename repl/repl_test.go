package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, mode, input string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, Start(strings.NewReader(input), &out, Options{Prompt: "> ", Mode: mode}))
	return out.String()
}

func TestStartLex(t *testing.T) {
	got := run(t, "lex", "let x = 5;\n")
	want := "> {Type:LET Literal:let}\n" +
		"{Type:IDENT Literal:x}\n" +
		"{Type:= Literal:=}\n" +
		"{Type:INT Literal:5}\n" +
		"{Type:; Literal:;}\n" +
		"> "
	assert.Equal(t, want, got)
}

func TestStartParse(t *testing.T) {
	got := run(t, "parse", "1 + 2 * 3\n-a * b\n")
	assert.Equal(t, "> (1 + (2 * 3))\n> ((-a) * b)\n> ", got)
}

func TestStartParserErrors(t *testing.T) {
	got := run(t, "parse", "let = 5;\n")
	want := "> parser has 2 errors\n" +
		"\texpected next token to be IDENT, got = instead\n" +
		"\tno prefix parse function for = found\n" +
		"> "
	assert.Equal(t, want, got)
}

// Test that bindings persist between lines and let lines print nothing.
func TestStartEval(t *testing.T) {
	input := "let a = 5;\nlet f = fn(x) { x * a };\nf(2)\na == 5\nif (false) { 1 }\n"
	got := run(t, "eval", input)
	assert.Equal(t, "> > > 10\n> true\n> null\n> ", got)
}

func TestStartEvalErrors(t *testing.T) {
	got := run(t, "", "-true\nmissing\n")
	assert.Equal(t, "> ERROR: unknown operator: -BOOLEAN\n> ERROR: identifier not found: missing\n> ", got)
}

func TestStartCommands(t *testing.T) {
	got := run(t, "eval", ":mode parse\n1 + 1\n:mode bogus\n:help\n:quit\n1 + 1\n")
	want := "> mode: parse\n" +
		"> (1 + 1)\n" +
		"> usage: :mode lex|parse|eval\n" +
		"> unknown command. Type :quit to exit.\n" +
		"> "
	assert.Equal(t, want, got)
}

func TestStartDefaultsAndBadMode(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Start(strings.NewReader("1\n"), &out, Options{}))
	assert.Equal(t, ">> 1\n>> ", out.String())

	err := Start(strings.NewReader(""), &out, Options{Mode: "compile"})
	assert.EqualError(t, err, `unknown mode "compile"`)
}

func TestGreet(t *testing.T) {
	var out bytes.Buffer
	greet(&out, "ada")
	assert.Equal(t, "Hello ada! This is the Monkey programming language!\nFeel free to type in commands\n", out.String())

	out.Reset()
	greet(&out, "")
	assert.Empty(t, out.String())
}
