// Package project implements the Monkey project layout: scaffolding, config,
// batch parsing and the development server.
package project

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/daveroberts0321/monkey/parser/grammar"
	"github.com/daveroberts0321/monkey/spec/astdump"
)

//go:embed templates/*
var templates embed.FS

// Init creates a new Monkey project with scaffolding
func Init(name string) error {
	if _, err := os.Stat(filepath.Join(name, ConfigFile)); err == nil {
		return fmt.Errorf("%s already contains a %s", name, ConfigFile)
	}

	if err := os.MkdirAll(filepath.Join(name, "src"), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	templateFiles := map[string]string{
		ConfigFile:    "templates/monkey.yaml",
		"src/main.mk": "templates/main.mk",
		"README.md":   "templates/README.md",
		".gitignore":  "templates/gitignore",
	}

	for filePath, templatePath := range templateFiles {
		if err := writeTemplateFile(name, filePath, templatePath, filepath.Base(name)); err != nil {
			return fmt.Errorf("failed to write %s: %w", filePath, err)
		}
	}

	return nil
}

func writeTemplateFile(projectDir, filePath, templatePath, projectName string) error {
	content, err := templates.ReadFile(templatePath)
	if err != nil {
		return err
	}

	contentStr := strings.ReplaceAll(string(content), "{{.ProjectName}}", projectName)

	fullPath := filepath.Join(projectDir, filepath.FromSlash(filePath))
	return os.WriteFile(fullPath, []byte(contentStr), 0644)
}

// Build parses every source file of the project and writes a YAML dump of
// each program to the output directory, mirroring the file's path below its
// source directory. All files are processed; the returned error aggregates
// the diagnostics of every file.
func Build(cfg *Config) error {
	type source struct{ dir, path string }

	var files []source
	for _, dir := range cfg.SourceDirs() {
		found, err := FindSourceFiles(dir, cfg.Extension, cfg.OutputDir())
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		for _, f := range found {
			files = append(files, source{dir: dir, path: f})
		}
	}

	if len(files) == 0 {
		log.Printf("build: no %s files found", cfg.Extension)
		return nil
	}

	var result *multierror.Error
	written := make(map[string]string, len(files))
	for _, file := range files {
		program, err := ParseSourceFile(file.path)
		if program == nil {
			result = multierror.Append(result, err)
			continue
		}
		if err != nil {
			result = multierror.Append(result, err)
		}

		dumpPath, err := dumpPathFor(cfg, file.dir, file.path)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if prev, ok := written[dumpPath]; ok {
			result = multierror.Append(result, fmt.Errorf("%s and %s both dump to %s", prev, file.path, dumpPath))
			continue
		}
		written[dumpPath] = file.path

		if err := astdump.WriteFile(program, dumpPath); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to write AST for %s: %w", file.path, err))
		}
	}

	log.Printf("build: processed %d files, wrote %d dumps", len(files), len(written))
	return result.ErrorOrNil()
}

// dumpPathFor maps <dir>/a/b.mk to <output>/a/b.yaml.
func dumpPathFor(cfg *Config, dir, path string) (string, error) {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return "", fmt.Errorf("failed to place AST for %s: %w", path, err)
	}
	return filepath.Join(cfg.OutputDir(), strings.TrimSuffix(rel, cfg.Extension)+".yaml"), nil
}

// ParseSourceFile parses a single file. The program is nil only when the
// file could not be read; otherwise err carries the parse diagnostics.
func ParseSourceFile(filename string) (*grammar.Program, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return grammar.ParseWithFilename(f, filename)
}

// FindSourceFiles returns every file under root with the given extension.
// Directories listed in skip, typically the build output, are not entered.
func FindSourceFiles(root, ext string, skip ...string) ([]string, error) {
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[filepath.Clean(s)] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipped[filepath.Clean(path)] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ext) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
