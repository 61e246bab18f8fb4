package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/daveroberts0321/monkey/eval"
	"github.com/daveroberts0321/monkey/generator"
	"github.com/daveroberts0321/monkey/parser/grammar"
	"github.com/daveroberts0321/monkey/project"
	"github.com/daveroberts0321/monkey/repl"
	"github.com/daveroberts0321/monkey/spec/astdump"
	"github.com/daveroberts0321/monkey/watch"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes one command and returns the process exit status.
func run(args []string, out io.Writer) int {
	if len(args) < 1 {
		printUsage(out)
		return 0
	}

	cmd := args[0]

	switch cmd {
	case "repl":
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(out, "Error loading config: %v\n", err)
			return 1
		}
		opts := repl.Options{Prompt: cfg.REPL.Prompt, Mode: cfg.REPL.Mode, History: cfg.HistoryPath()}
		if len(args) > 1 {
			opts.Mode = args[1]
		}
		if isatty.IsTerminal(os.Stdin.Fd()) {
			err = repl.Interactive(opts)
		} else {
			err = repl.Start(os.Stdin, out, opts)
		}
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return 1
		}

	case "run", "parse", "tokens", "dump":
		if len(args) < 2 {
			fmt.Fprintf(out, "Usage: monkey %s <file>\n", cmd)
			return 1
		}
		return runFile(cmd, args[1], out)

	case "check":
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(out, "Error loading config: %v\n", err)
			return 1
		}
		dirs := cfg.SourceDirs()
		if len(args) > 1 {
			dirs = args[1:]
		}
		return check(dirs, cfg.Extension, cfg.OutputDir(), out)

	case "build":
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(out, "Error loading config: %v\n", err)
			return 1
		}
		if err := project.Build(cfg); err != nil {
			fmt.Fprintf(out, "Error building project: %v\n", err)
			return 1
		}
		fmt.Fprintln(out, "Project built successfully!")

	case "watch":
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(out, "Error loading config: %v\n", err)
			return 1
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := watch.Watch(ctx, cfg.SourceDirs(), cfg.Extension, func() error { return project.Build(cfg) }); err != nil {
			fmt.Fprintf(out, "Error watching files: %v\n", err)
			return 1
		}

	case "init":
		if len(args) < 2 {
			fmt.Fprintln(out, "Usage: monkey init <project-name>")
			return 1
		}
		projectName := args[1]
		if err := project.Init(projectName); err != nil {
			fmt.Fprintf(out, "Error initializing project: %v\n", err)
			return 1
		}
		fmt.Fprintf(out, "Project '%s' initialized successfully!\n", projectName)
		fmt.Fprintf(out, "   cd %s\n", projectName)
		fmt.Fprintf(out, "   monkey serve\n")

	case "serve":
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(out, "Error loading config: %v\n", err)
			return 1
		}
		if err := project.StartDevServer(cfg); err != nil {
			fmt.Fprintf(out, "Error starting dev server: %v\n", err)
			return 1
		}

	case "gen":
		if len(args) < 3 || args[1] != "fn" {
			fmt.Fprintln(out, "Usage: monkey gen fn <name> [params...]")
			return 1
		}
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(out, "Error loading config: %v\n", err)
			return 1
		}
		path, err := generator.GenerateFunction(cfg.SourceDirs()[0], args[2], args[3:])
		if err != nil {
			fmt.Fprintf(out, "Error generating function: %v\n", err)
			return 1
		}
		fmt.Fprintf(out, "Function %s generated at %s\n", args[2], path)

	case "version":
		fmt.Fprintf(out, "monkey v%s\n", version)

	case "help", "--help", "-h":
		printUsage(out)

	default:
		fmt.Fprintf(out, "Unknown command: %s\n", cmd)
		printUsage(out)
		return 1
	}
	return 0
}

// loadConfig reads monkey.yaml from the working directory, falling back to
// the defaults when there is none.
func loadConfig() (*project.Config, error) {
	cfg, err := project.LoadConfig(project.ConfigFile)
	if errors.Is(err, fs.ErrNotExist) {
		return project.DefaultConfig(), nil
	}
	return cfg, err
}

func runFile(cmd, path string, out io.Writer) int {
	if cmd == "tokens" {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return 1
		}
		l := grammar.NewLexerWithFilename(string(src), path)
		for {
			tok := l.NextToken()
			fmt.Fprintf(out, "%s\t%s\t%q\n", tok.Pos, tok.Type, tok.Literal)
			if tok.Type == grammar.EOF {
				return 0
			}
		}
	}

	program, err := project.ParseSourceFile(path)
	if err != nil {
		fmt.Fprintln(out, err)
		return 1
	}

	switch cmd {
	case "parse":
		fmt.Fprintln(out, program.String())
	case "dump":
		doc, err := astdump.Generate(program)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return 1
		}
		fmt.Fprint(out, doc)
	case "run":
		result := eval.Eval(program, eval.NewEnvironment())
		fmt.Fprintln(out, result.Inspect())
		if _, isErr := result.(*eval.Error); isErr {
			return 1
		}
	}
	return 0
}

func check(dirs []string, ext, output string, out io.Writer) int {
	total, failed := 0, 0
	for _, dir := range dirs {
		files, err := project.FindSourceFiles(dir, ext, output)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return 1
		}
		for _, file := range files {
			total++
			if _, err := project.ParseSourceFile(file); err != nil {
				failed++
				fmt.Fprintln(out, strings.TrimSpace(err.Error()))
			}
		}
	}
	fmt.Fprintf(out, "%d files checked, %d with errors\n", total, failed)
	if failed > 0 {
		return 1
	}
	return 0
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, `monkey - lexer, parser and evaluator for the Monkey language

USAGE:
    monkey <command> [arguments]

COMMANDS:
    repl [lex|parse|eval]   Start the interactive prompt
    run <file>              Evaluate a file and print the result
    parse <file>            Print the canonical form of a file
    tokens <file>           Print the tokens of a file
    dump <file>             Print the syntax tree of a file as YAML
    check [dir...]          Parse every source file and report diagnostics
    build                   Write YAML syntax trees for the project
    watch                   Rebuild on source changes
    init <name>             Initialize a new Monkey project
    serve                   Start the playground server with rebuild on save
    gen fn <name> [params]  Generate a function skeleton
    version                 Show version information
    help                    Show this help message

EXAMPLES:
    monkey init demo
    monkey run src/main.mk
    monkey gen fn add x y
    monkey repl parse`)
}
