package api

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/docketlab/clausehound/pkg/embeddings"
	"github.com/docketlab/clausehound/pkg/index"
)

// Watcher reloads the index blob when it changes on disk and swaps it into
// the handle. Builds write via temp-file rename, so a Create or Rename on
// the watched path is a complete new blob.
type Watcher struct {
	path     string
	handle   *index.Handle
	embedder embeddings.Embedder
	logger   *zap.Logger
	fsw      *fsnotify.Watcher
}

// NewWatcher watches the directory containing path. The embedder is
// reattached to dense indexes after every reload; nil is fine for sparse.
func NewWatcher(path string, handle *index.Handle, embedder embeddings.Embedder, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating index watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching index dir: %w", err)
	}

	return &Watcher{
		path:     path,
		handle:   handle,
		embedder: embedder,
		logger:   logger,
		fsw:      fsw,
	}, nil
}

// Run blocks until ctx is done, reloading on every change to the watched
// blob. Reload failures are logged and the previous index stays active.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event := <-w.fsw.Events:
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.reload()

		case err := <-w.fsw.Errors:
			return fmt.Errorf("index watcher error: %w", err)
		}
	}
}

func (w *Watcher) reload() {
	idx, err := index.Load(w.path)
	if err != nil {
		w.logger.Warn("index reload failed, keeping previous index",
			zap.String("path", w.path),
			zap.Error(err),
		)
		return
	}
	if idx.Engine == index.EngineDense {
		idx.AttachEmbedder(w.embedder)
	}

	version := w.handle.Swap(idx)
	w.logger.Info("index reloaded",
		zap.String("path", w.path),
		zap.String("engine", string(idx.Engine)),
		zap.Int("segments", idx.Meta.Count),
		zap.Uint64("version", version),
	)
}
