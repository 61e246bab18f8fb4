// Package generator writes Monkey source skeletons into a project.
package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/daveroberts0321/monkey/parser/grammar"
)

// GenerateFunction appends a function skeleton bound to name to
// <dir>/<name>.mk and returns the file path. The name and every parameter
// must lex as a single non-keyword identifier.
func GenerateFunction(dir, name string, params []string) (string, error) {
	if err := checkIdent(name); err != nil {
		return "", fmt.Errorf("invalid function name: %w", err)
	}
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if err := checkIdent(p); err != nil {
			return "", fmt.Errorf("invalid parameter: %w", err)
		}
		if seen[p] {
			return "", fmt.Errorf("duplicate parameter %q", p)
		}
		seen[p] = true
	}

	ret := "0"
	if len(params) > 0 {
		ret = params[0]
	}
	functionTemplate := fmt.Sprintf("let %s = fn(%s) {\n\treturn %s;\n};\n",
		name, strings.Join(params, ", "), ret)

	filename := filepath.Join(dir, name+".mk")

	var content string
	if existingContent, err := os.ReadFile(filename); err == nil {
		content = string(existingContent) + "\n" + functionTemplate
	} else {
		content = functionTemplate
	}

	if _, err := grammar.ParseWithFilename(strings.NewReader(content), filename); err != nil {
		return "", fmt.Errorf("generated source does not parse: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}

func checkIdent(s string) error {
	toks := grammar.Tokenize(s)
	if len(toks) != 2 || toks[0].Literal != s || toks[1].Type != grammar.EOF {
		return fmt.Errorf("%q is not an identifier", s)
	}
	if toks[0].Type != grammar.IDENT {
		return fmt.Errorf("%q is a keyword", s)
	}
	return nil
}
