package grammar

import (
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Parse reads Monkey source from r and returns the parsed program. The
// program is always returned; the error aggregates every diagnostic and is
// nil when the source parsed cleanly.
func Parse(r io.Reader) (*Program, error) {
	return ParseWithFilename(r, "")
}

// ParseWithFilename allows tracking the source file for better error messages.
func ParseWithFilename(r io.Reader, filename string) (*Program, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	p := NewParser(NewLexerWithFilename(string(src), filename))
	program := p.ParseProgram()
	return program, diagnosticsError(p.Diagnostics())
}

// ParseString parses a string containing Monkey source into an AST.
func ParseString(s string) (*Program, error) {
	return Parse(strings.NewReader(s))
}

func diagnosticsError(diags []ParseError) error {
	var result *multierror.Error
	for i := range diags {
		result = multierror.Append(result, &diags[i])
	}
	return result.ErrorOrNil()
}
