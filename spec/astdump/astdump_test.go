package astdump

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v2"

	"github.com/daveroberts0321/monkey/parser/grammar"
)

type dumped struct {
	Kind       string   `yaml:"kind"`
	Token      string   `yaml:"token"`
	Value      any      `yaml:"value"`
	Operator   string   `yaml:"operator"`
	Name       *dumped  `yaml:"name"`
	Left       *dumped  `yaml:"left"`
	Right      *dumped  `yaml:"right"`
	Expression *dumped  `yaml:"expression"`
	Function   *dumped  `yaml:"function"`
	Arguments  []dumped `yaml:"arguments"`
	Statements []dumped `yaml:"statements"`
}

// Test that a let statement dumps with ordered, nested nodes.
func TestGenerate(t *testing.T) {
	program, err := grammar.ParseString("let x = 1 + y;")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	doc, err := Generate(program)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if !strings.HasPrefix(doc, "kind: Program\nstatements:\n") {
		t.Fatalf("expected document to start with the program header, got\n%s", doc)
	}

	var got dumped
	if err := yaml.Unmarshal([]byte(doc), &got); err != nil {
		t.Fatalf("dump is not valid YAML: %v\n%s", err, doc)
	}
	want := dumped{
		Kind: "Program",
		Statements: []dumped{{
			Kind:  "LetStatement",
			Token: "let",
			Name:  &dumped{Kind: "Identifier", Token: "x", Value: "x"},
		}},
	}
	// Value of the let is checked separately since it is a nested node.
	let := got.Statements[0]
	value := let.Value
	let.Value = nil
	got.Statements[0] = let
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected dump (-want +got):\n%s", diff)
	}
	if value == nil {
		t.Fatalf("expected let value in dump\n%s", doc)
	}
	for _, c := range []string{"kind: InfixExpression", "kind: IntegerLiteral", "value: 1"} {
		if !strings.Contains(doc, c) {
			t.Fatalf("expected YAML to contain %q\n%s", c, doc)
		}
	}
}

// Test that absent optional children are omitted.
func TestGenerateOmitsAbsentChildren(t *testing.T) {
	program := &grammar.Program{Statements: []grammar.Statement{
		&grammar.ReturnStatement{Token: grammar.Token{Type: grammar.RETURN, Literal: "return"}},
	}}
	doc, err := Generate(program)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	want := "kind: Program\nstatements:\n- kind: ReturnStatement\n  token: return\n"
	if doc != want {
		t.Fatalf("expected %q, got %q", want, doc)
	}

	program, _ = grammar.ParseString("if (a) { b }")
	doc, err = Generate(program)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if strings.Contains(doc, "alternative") {
		t.Fatalf("expected no alternative in dump\n%s", doc)
	}
}

// Test calls keep their argument order.
func TestGenerateCall(t *testing.T) {
	program, err := grammar.ParseString("add(a, b)")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	doc, err := Generate(program)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	var got dumped
	if err := yaml.Unmarshal([]byte(doc), &got); err != nil {
		t.Fatalf("dump is not valid YAML: %v", err)
	}
	call := got.Statements[0].Expression
	if call == nil || call.Kind != "CallExpression" {
		t.Fatalf("expected CallExpression, got %+v", call)
	}
	if call.Function.Token != "add" || len(call.Arguments) != 2 ||
		call.Arguments[0].Token != "a" || call.Arguments[1].Token != "b" {
		t.Fatalf("unexpected call dump\n%s", doc)
	}
}

// Test that WriteFile creates the output directory.
func TestWriteFile(t *testing.T) {
	program, _ := grammar.ParseString("5")
	path := filepath.Join(t.TempDir(), "generated", "main.yaml")
	if err := WriteFile(program, path); err != nil {
		t.Fatalf("write error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if !strings.Contains(string(data), "kind: IntegerLiteral") {
		t.Fatalf("unexpected file contents\n%s", data)
	}
	if _, err := Generate(nil); err == nil {
		t.Fatalf("expected error for nil program")
	}
}
