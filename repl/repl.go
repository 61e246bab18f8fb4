// Package repl implements the read-eval-print loop in three modes: lex,
// parse and eval.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/daveroberts0321/monkey/eval"
	"github.com/daveroberts0321/monkey/parser/grammar"
	"github.com/daveroberts0321/monkey/project"
)

// Options configures a REPL session.
type Options struct {
	Prompt  string
	Mode    string
	History string // history file, used by Interactive only
}

func (o Options) withDefaults() Options {
	if o.Prompt == "" {
		o.Prompt = ">> "
	}
	if o.Mode == "" {
		o.Mode = project.ModeEval
	}
	return o
}

// session holds the state shared by successive lines: the mode and the
// environment that let bindings persist in.
type session struct {
	mode string
	env  *eval.Environment
	out  io.Writer
	// diag decorates diagnostic lines.
	diag func(a ...interface{}) string
}

func newSession(out io.Writer, mode string) (*session, error) {
	if !project.ValidMode(mode) {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	return &session{mode: mode, env: eval.NewEnvironment(), out: out, diag: fmt.Sprint}, nil
}

// Start reads lines from in until it is exhausted or :quit is entered,
// writing a prompt before each line and the result after it.
func Start(in io.Reader, out io.Writer, opts Options) error {
	opts = opts.withDefaults()
	s, err := newSession(out, opts.Mode)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, opts.Prompt)
		if !scanner.Scan() {
			return scanner.Err()
		}
		if quit := s.handle(scanner.Text()); quit {
			return nil
		}
	}
}

// handle processes one input line and reports whether the session is over.
func (s *session) handle(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, ":") {
		return s.command(trimmed)
	}
	if trimmed == "" {
		return false
	}

	switch s.mode {
	case project.ModeLex:
		for _, tok := range grammar.Tokenize(line) {
			if tok.Type == grammar.EOF {
				break
			}
			fmt.Fprintf(s.out, "{Type:%s Literal:%s}\n", tok.Type, tok.Literal)
		}
	case project.ModeParse:
		if program, ok := s.parse(line); ok {
			fmt.Fprintln(s.out, program.String())
		}
	case project.ModeEval:
		program, ok := s.parse(line)
		if !ok {
			return false
		}
		evaluated := eval.Eval(program, s.env)
		if _, isErr := evaluated.(*eval.Error); isErr {
			fmt.Fprintln(s.out, s.diag(evaluated.Inspect()))
			return false
		}
		if endsWithLet(program) {
			return false
		}
		fmt.Fprintln(s.out, evaluated.Inspect())
	}
	return false
}

func (s *session) command(cmd string) bool {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":mode":
		if len(fields) != 2 || !project.ValidMode(fields[1]) {
			fmt.Fprintln(s.out, s.diag("usage: :mode lex|parse|eval"))
			return false
		}
		s.mode = fields[1]
		fmt.Fprintf(s.out, "mode: %s\n", s.mode)
	default:
		fmt.Fprintln(s.out, "unknown command. Type :quit to exit.")
	}
	return false
}

func (s *session) parse(line string) (*grammar.Program, bool) {
	p := grammar.NewParser(grammar.NewLexer(line))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		s.printParserErrors(errs)
		return nil, false
	}
	return program, true
}

func (s *session) printParserErrors(errors []string) {
	fmt.Fprintln(s.out, s.diag(fmt.Sprintf("parser has %d errors", len(errors))))
	for _, msg := range errors {
		fmt.Fprintln(s.out, s.diag("\t"+msg))
	}
}

func endsWithLet(program *grammar.Program) bool {
	if len(program.Statements) == 0 {
		return true
	}
	_, ok := program.Statements[len(program.Statements)-1].(*grammar.LetStatement)
	return ok
}
