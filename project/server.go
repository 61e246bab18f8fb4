package project

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/daveroberts0321/monkey/eval"
	"github.com/daveroberts0321/monkey/parser/grammar"
	"github.com/daveroberts0321/monkey/watch"
)

const maxSourceBytes = 1 << 20

type parseResponse struct {
	Program string   `json:"program"`
	Errors  []string `json:"errors"`
}

type evalResponse struct {
	Result string   `json:"result"`
	Errors []string `json:"errors"`
}

// StartDevServer builds the project, rebuilds it on every source change and
// serves the playground API until the listener fails.
func StartDevServer(cfg *Config) error {
	log.Printf("server: starting Monkey development server")

	if err := Build(cfg); err != nil {
		log.Printf("server: initial build has errors:\n%v", err)
	}

	go func() {
		if err := watch.Watch(context.Background(), cfg.SourceDirs(), cfg.Extension, func() error { return Build(cfg) }); err != nil {
			log.Printf("server: file watcher error: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("Server running at http://localhost%s\n", addr)
	fmt.Printf("   API: http://localhost%s/api/health\n", addr)
	fmt.Printf("   AST dumps: http://localhost%s/generated/\n", addr)
	fmt.Println("\nWatching for file changes...")

	return http.ListenAndServe(addr, NewPlaygroundHandler(cfg))
}

// NewPlaygroundHandler returns the HTTP API of the development server. Each
// request gets its own lexer, parser and environment.
func NewPlaygroundHandler(cfg *Config) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/generated/", http.StripPrefix("/generated/", http.FileServer(http.Dir(cfg.OutputDir()))))

	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status": "ok", "timestamp": "%s"}`, time.Now().Format(time.RFC3339))
	})

	mux.HandleFunc("/api/parse", func(w http.ResponseWriter, r *http.Request) {
		p, program, ok := parseRequest(w, r)
		if !ok {
			return
		}
		writeJSON(w, parseResponse{Program: program.String(), Errors: errorList(p)})
	})

	mux.HandleFunc("/api/eval", func(w http.ResponseWriter, r *http.Request) {
		p, program, ok := parseRequest(w, r)
		if !ok {
			return
		}
		resp := evalResponse{Errors: errorList(p)}
		if len(resp.Errors) == 0 {
			resp.Result = eval.Eval(program, eval.NewEnvironment()).Inspect()
		}
		writeJSON(w, resp)
	})

	return mux
}

func parseRequest(w http.ResponseWriter, r *http.Request) (*grammar.Parser, *grammar.Program, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil, nil, false
	}
	src, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSourceBytes))
	if err != nil {
		http.Error(w, "failed to read body: "+err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}
	p := grammar.NewParser(grammar.NewLexer(string(src)))
	return p, p.ParseProgram(), true
}

// errorList is Errors, never nil.
func errorList(p *grammar.Parser) []string {
	return append([]string{}, p.Errors()...)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: failed to encode response: %v", err)
	}
}
