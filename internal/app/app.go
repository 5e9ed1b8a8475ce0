// Package app wires the loader together with its configuration and an
// isolated logger, and implements the CLI's resolve/discover behaviors.
package app

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/hclmod/internal/loader"
	"github.com/vk/hclmod/internal/searchpath"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ModuleID is the dotted identifier to resolve. Required unless
	// Discover is set.
	ModuleID string
	// EntryDir is the directory treated as the entry script's location.
	EntryDir string
	// ExtraPath holds additional search-path entries, separated by the
	// platform path list separator. They rank after EntryDir and before
	// the HCLMOD_PATH environment entries.
	ExtraPath string
	// NoCache disables the compiled module cache.
	NoCache bool
	// Discover lists resolvable modules instead of resolving ModuleID.
	Discover bool
	// Output selects the namespace listing format, "text" or "json".
	Output string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ModuleID == "" && !cfg.Discover {
		return nil, errors.New("ModuleID is a required configuration field and cannot be empty")
	}
	if cfg.EntryDir == "" {
		cfg.EntryDir = "."
	}
	if cfg.Output == "" {
		cfg.Output = "text"
	}
	return &cfg, nil
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader *loader.Loader
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and loader.
func NewApp(outW io.Writer, logW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	envPath := joinPathLists(config.ExtraPath, os.Getenv(searchpath.EnvVar))
	path := searchpath.Assemble(config.EntryDir, envPath, searchpath.Defaults())
	logger.Debug("Search path assembled.", "path", path)

	ld := loader.New(loader.Options{
		SearchPath:   path,
		DisableCache: config.NoCache,
	})
	logger.Debug("Loader created.")

	return &App{
		outW:   outW,
		logger: logger,
		config: config,
		loader: ld,
	}
}

// Loader returns the application's loader. This is primarily for testing.
func (a *App) Loader() *loader.Loader {
	return a.loader
}

// joinPathLists concatenates path lists, dropping empty operands so no
// spurious separator appears.
func joinPathLists(lists ...string) string {
	var nonEmpty []string
	for _, list := range lists {
		if list != "" {
			nonEmpty = append(nonEmpty, list)
		}
	}
	return strings.Join(nonEmpty, string(filepath.ListSeparator))
}
