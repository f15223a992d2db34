package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdblock/internal/config"
	ferrors "git.home.luguber.info/inful/mdblock/internal/foundation/errors"
	"git.home.luguber.info/inful/mdblock/internal/markdown"
	"git.home.luguber.info/inful/mdblock/internal/metrics"
)

// Global is shared state bound into every command's Run method.
type Global struct {
	Logger *slog.Logger
	Config *config.Config

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// NewGlobal returns a Global wired to the process streams.
func NewGlobal() *Global {
	return &Global{
		Logger: slog.Default(),
		Config: config.Default(),
		In:     os.Stdin,
		Out:    os.Stdout,
		Err:    os.Stderr,
	}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"mdblock.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Tokenize TokenizeCmd `cmd:"" help:"Tokenize a markdown file and print the block token stream"`
	Rules    RulesCmd    `cmd:"" help:"List the block rules, their termination chains and state"`
	Compare  CompareCmd  `cmd:"" help:"Compare top-level block outlines against the goldmark reference parser"`
	Watch    WatchCmd    `cmd:"" help:"Re-tokenize markdown files whenever they change"`
}

// AfterApply runs after flag parsing: load the configuration and set up
// logging once.
func (c *CLI) AfterApply(g *Global) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	g.Config = cfg
	g.Logger = newLogger(g.Err, cfg.Logging, c.Verbose)
	slog.SetDefault(g.Logger)
	return nil
}

func newLogger(w io.Writer, cfg config.Logging, verbose bool) *slog.Logger {
	level := cfg.Level.Slog()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if config.NormalizeLogFormat(string(cfg.Format)) == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newMarkdown builds the configured parser. A nil recorder records nothing.
func newMarkdown(g *Global, logger *slog.Logger, rec metrics.Recorder) (*markdown.Markdown, error) {
	if logger == nil {
		logger = g.Logger
	}
	return markdown.New(g.Config.Parser, markdown.WithLogger(logger), markdown.WithRecorder(rec))
}

// readInput reads path, or the command input stream when path is "" or "-".
// The returned name is used in log records and output headers.
func readInput(g *Global, path string) ([]byte, string, error) {
	if path == "" || path == "-" {
		content, err := io.ReadAll(g.In)
		if err != nil {
			return nil, "", ferrors.FileSystemError("failed to read standard input").WithCause(err).Build()
		}
		return content, "<stdin>", nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", ferrors.FileSystemError("failed to read input file").WithCause(err).
			WithContext("path", path).
			Build()
	}
	return content, path, nil
}

// collectMarkdown expands directories into the markdown files below them.
// Explicit file arguments are kept whatever their extension.
func collectMarkdown(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, ferrors.FileSystemError("path does not exist").WithCause(err).
				WithContext("path", p).
				Build()
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if isMarkdown(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, ferrors.FileSystemError("failed to walk directory").WithCause(err).
				WithContext("path", p).
				Build()
		}
	}
	return files, nil
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}
