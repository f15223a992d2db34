package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/mdblock/internal/foundation/errors"
	"git.home.luguber.info/inful/mdblock/internal/logfields"
	"git.home.luguber.info/inful/mdblock/internal/markdown"
	"git.home.luguber.info/inful/mdblock/internal/metrics"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Paths       []string      `arg:"" name:"path" help:"Markdown files or directories to watch"`
	Debounce    time.Duration `default:"200ms" help:"Quiet period before changed files are re-tokenized"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address (overrides metrics.address and enables metrics)"`
}

// Run watches until interrupted.
func (w *WatchCmd) Run(g *Global) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.watch(ctx, g)
}

func (w *WatchCmd) watch(ctx context.Context, g *Global) error {
	files, err := collectMarkdown(w.Paths)
	if err != nil {
		return err
	}

	var rec metrics.Recorder
	if addr := w.metricsAddress(g); addr != "" {
		reg := prom.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)
		srv := startMetricsServer(addr, reg, g.Logger)
		defer shutdownMetricsServer(srv, g.Logger)
	}

	md, err := newMarkdown(g, nil, rec)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.FileSystemError("failed to create file watcher").WithCause(err).Build()
	}
	defer func() {
		if cerr := watcher.Close(); cerr != nil {
			g.Logger.Error("Error closing file watcher", logfields.Error(cerr))
		}
	}()

	// Directories are watched rather than files so editors that replace
	// files on save keep being followed.
	dirs, explicit, err := watchTargets(w.Paths)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return ferrors.FileSystemError("failed to watch directory").WithCause(err).
				WithContext("path", dir).
				Build()
		}
	}

	for _, f := range files {
		w.reparse(g, md, f)
	}
	g.Logger.Info("Watching for changes", slog.Int("files", len(files)), slog.Int("directories", len(dirs)))

	pending := map[string]struct{}{}
	timer := time.NewTimer(w.Debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			g.Logger.Info("Stopping watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			path := filepath.Clean(event.Name)
			if !isMarkdown(path) && !slices.Contains(explicit, path) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(path); err == nil && info.IsDir() {
					continue
				}
			}
			g.Logger.Debug("Change detected", logfields.Path(path), slog.String("op", event.Op.String()))
			pending[path] = struct{}{}
			timer.Reset(w.Debounce)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			clear(pending)
			slices.Sort(changed)
			for _, path := range changed {
				w.reparse(g, md, path)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.Logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

// reparse tokenizes path and reports the outcome. Failures are reported and
// the watch continues.
func (w *WatchCmd) reparse(g *Global, md *markdown.Markdown, path string) {
	logger := g.Logger.With(logfields.ParseID(uuid.NewString()), logfields.Path(path))

	content, err := os.ReadFile(path)
	if err != nil {
		// Renamed away or deleted between the event and the read.
		logger.Debug("Skipping unreadable file", logfields.Error(err))
		return
	}

	doc, err := md.ParseDocument(content, nil)
	if err != nil {
		logger.Error("Tokenization failed", logfields.Error(err))
		fmt.Fprintf(g.Out, "error  %s: %v\n", path, err)
		return
	}
	logger.Debug("Re-tokenized", logfields.Tokens(len(doc.Tokens)))
	fmt.Fprintf(g.Out, "parsed %s: %d tokens, %d blocks\n", path, len(doc.Tokens), len(markdown.Outline(doc.Tokens)))
}

func (w *WatchCmd) metricsAddress(g *Global) string {
	if w.MetricsAddr != "" {
		return w.MetricsAddr
	}
	if g.Config.Metrics.Enabled {
		return g.Config.Metrics.Address
	}
	return ""
}

// watchTargets returns the directories to register with the watcher and the
// cleaned explicit file arguments.
func watchTargets(paths []string) (dirs, files []string, err error) {
	seen := map[string]struct{}{}
	add := func(dir string) {
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}

	for _, p := range paths {
		p = filepath.Clean(p)
		info, statErr := os.Stat(p)
		if statErr != nil {
			return nil, nil, ferrors.FileSystemError("path does not exist").WithCause(statErr).
				WithContext("path", p).
				Build()
		}
		if !info.IsDir() {
			files = append(files, p)
			add(filepath.Dir(p))
			continue
		}
		walkErr := filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != p && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
		if walkErr != nil {
			return nil, nil, ferrors.FileSystemError("failed to walk directory").WithCause(walkErr).
				WithContext("path", p).
				Build()
		}
	}
	return dirs, files, nil
}

func startMetricsServer(addr string, reg *prom.Registry, logger *slog.Logger) *http.Server {
	srv := metrics.NewServer(addr, reg)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", slog.String("address", addr), logfields.Error(err))
		}
	}()
	logger.Info("Serving metrics", slog.String("address", addr), slog.String("path", metrics.Path))
	return srv
}

func shutdownMetricsServer(srv *http.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Metrics server shutdown failed", logfields.Error(err))
	}
}
