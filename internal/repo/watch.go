package repo

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/miradorstack/mirador-twin/internal/models"
)

// GraphHandler receives every successfully reloaded graph.
type GraphHandler func(models.Graph)

// WatchFile reloads the source's file whenever it changes and passes valid
// graphs to onChange. Invalid intermediate saves are logged and skipped.
// The parent directory is watched so editors that replace the file by rename
// are still observed. WatchFile blocks until ctx ends.
func WatchFile(ctx context.Context, src *FileSource, debounce time.Duration, logger *slog.Logger, onChange GraphHandler) error {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target, err := filepath.Abs(src.Path())
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}
	logger.Info("watching graph file", slog.String("path", target))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("graph watcher error", slog.Any("error", err))
		case <-timer.C:
			graph, err := src.LoadGraph(ctx)
			if err != nil {
				logger.Warn("graph reload failed", slog.String("path", target), slog.Any("error", err))
				continue
			}
			logger.Info("graph file changed", slog.Int("nodes", len(graph.Nodes)), slog.Int("edges", len(graph.Edges)))
			onChange(graph)
		}
	}
}
