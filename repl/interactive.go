package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"os/user"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/peterh/liner"
)

// Interactive runs the REPL on the terminal with line editing and history.
// Diagnostics are printed in red.
func Interactive(opts Options) error {
	opts = opts.withDefaults()
	s, err := newSession(os.Stdout, opts.Mode)
	if err != nil {
		return err
	}
	s.diag = color.New(color.FgRed).SprintFunc()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if opts.History != "" {
		if f, err := os.Open(opts.History); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(opts.History); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		if _, ok := <-sigc; ok {
			ln.Close()
			os.Exit(130)
		}
	}()

	greet(os.Stdout, whoAmI())
	fmt.Printf("Monkey REPL (%s mode). Type :quit to exit.\n", s.mode)
	for {
		line, err := ln.Prompt(opts.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if s.handle(line) {
			return nil
		}
	}
}

// whoAmI returns the login name of the current user, or "" when it is unknown.
func whoAmI() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}

func greet(out io.Writer, name string) {
	if name == "" {
		return
	}
	fmt.Fprintf(out, "Hello %s! This is the Monkey programming language!\n", name)
	fmt.Fprintln(out, "Feel free to type in commands")
}
