// Package home manages the bookindex home directory (~/.bookindex).
package home

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDirName is the default name for the bookindex home directory.
	DefaultDirName = ".bookindex"

	// DumpsDirName is the subdirectory for extracted page dumps.
	DumpsDirName = "dumps"

	// IndexesDirName is the subdirectory for written indexes.
	IndexesDirName = "indexes"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the bookindex home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.bookindex).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// DumpsDir returns the directory holding extracted page dumps.
func (d *Dir) DumpsDir() string {
	return filepath.Join(d.path, DumpsDirName)
}

// DumpPath returns the dump file for a source document.
// book.pdf becomes {home}/dumps/book.yaml.
func (d *Dir) DumpPath(source string) string {
	return filepath.Join(d.DumpsDir(), stem(source)+".yaml")
}

// IndexesDir returns the directory holding written indexes.
func (d *Dir) IndexesDir() string {
	return filepath.Join(d.path, IndexesDirName)
}

// IndexPath returns the index file for a source document and output format.
func (d *Dir) IndexPath(source, format string) string {
	ext := "txt"
	if format != "" && format != "text" {
		ext = format
	}
	return filepath.Join(d.IndexesDir(), stem(source)+"."+ext)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	for _, dir := range []string{d.DumpsDir(), d.IndexesDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
