package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// ConfigFile is the name of the project configuration file.
const ConfigFile = "monkey.yaml"

// REPL modes.
const (
	ModeLex   = "lex"
	ModeParse = "parse"
	ModeEval  = "eval"
)

// Config is the contents of monkey.yaml.
type Config struct {
	Name      string       `yaml:"name"`
	Sources   []string     `yaml:"sources"`
	Extension string       `yaml:"extension"`
	Output    string       `yaml:"output"`
	REPL      REPLConfig   `yaml:"repl"`
	Server    ServerConfig `yaml:"server"`

	// Root is the directory holding the config file. Relative source and
	// output paths are resolved against it.
	Root string `yaml:"-"`
}

type REPLConfig struct {
	Prompt  string `yaml:"prompt"`
	Mode    string `yaml:"mode"`
	History string `yaml:"history"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// DefaultConfig returns the configuration used when no monkey.yaml exists.
func DefaultConfig() *Config {
	cfg := &Config{Root: "."}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads and validates the config file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.Root = filepath.Dir(path)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Sources) == 0 {
		c.Sources = []string{"src"}
	}
	if c.Extension == "" {
		c.Extension = ".mk"
	}
	if c.Output == "" {
		c.Output = "generated"
	}
	if c.REPL.Prompt == "" {
		c.REPL.Prompt = ">> "
	}
	if c.REPL.Mode == "" {
		c.REPL.Mode = ModeEval
	}
	if c.REPL.History == "" {
		c.REPL.History = ".monkey_history"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !ValidMode(c.REPL.Mode) {
		return fmt.Errorf("unknown repl mode %q", c.REPL.Mode)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if !strings.HasPrefix(c.Extension, ".") {
		return fmt.Errorf("extension %q must start with a dot", c.Extension)
	}
	return nil
}

// ValidMode reports whether mode names a REPL mode.
func ValidMode(mode string) bool {
	switch mode {
	case ModeLex, ModeParse, ModeEval:
		return true
	}
	return false
}

// SourceDirs returns the source directories resolved against Root.
func (c *Config) SourceDirs() []string {
	dirs := make([]string, 0, len(c.Sources))
	for _, s := range c.Sources {
		dirs = append(dirs, c.resolve(s))
	}
	return dirs
}

// OutputDir returns the output directory resolved against Root.
func (c *Config) OutputDir() string {
	return c.resolve(c.Output)
}

// HistoryPath returns the REPL history file resolved against Root.
func (c *Config) HistoryPath() string {
	return c.resolve(c.REPL.History)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, p)
}
