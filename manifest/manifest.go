// Package manifest handles skein.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents a skein.toml configuration.
type Manifest struct {
	REPL  REPL  `toml:"repl"`
	Store Store `toml:"store"`
	Trace Trace `toml:"trace"`

	// Dir is the directory containing the skein.toml file (set at load time).
	Dir string `toml:"-"`
}

// REPL configures the interactive session.
type REPL struct {
	Prompt       string `toml:"prompt"`
	Continuation string `toml:"continuation"`
	HistoryFile  string `toml:"history-file"`
}

// Store configures the program store database.
type Store struct {
	Path    string `toml:"path"`
	Enabled bool   `toml:"enabled"`
}

// Trace configures execution tracing.
type Trace struct {
	Enabled   bool `toml:"enabled"`
	Verbosity int  `toml:"verbosity"`
}

// Default returns a manifest with the built-in defaults, rooted at dir.
func Default(dir string) *Manifest {
	m := &Manifest{Dir: dir}
	m.applyDefaults()
	return m
}

func (m *Manifest) applyDefaults() {
	if m.REPL.Prompt == "" {
		m.REPL.Prompt = "> "
	}
	if m.REPL.Continuation == "" {
		m.REPL.Continuation = "- "
	}
	if m.REPL.HistoryFile == "" {
		m.REPL.HistoryFile = ".skein_history"
	}
	if m.Store.Path == "" {
		m.Store.Path = "skein.db"
	}
}

// Load parses a skein.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "skein.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	m.applyDefaults()
	return &m, nil
}

// FindAndLoad walks up from startDir to find a skein.toml file,
// then loads and returns the manifest. Returns the defaults rooted at
// startDir if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for probe := dir; ; {
		path := filepath.Join(probe, "skein.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(probe)
		}

		parent := filepath.Dir(probe)
		if parent == probe {
			// Reached root
			return Default(dir), nil
		}
		probe = parent
	}
}

// HistoryPath returns the absolute path of the REPL history file.
func (m *Manifest) HistoryPath() string {
	return filepath.Join(m.Dir, m.REPL.HistoryFile)
}

// StorePath returns the absolute path of the program store database.
func (m *Manifest) StorePath() string {
	return filepath.Join(m.Dir, m.Store.Path)
}
