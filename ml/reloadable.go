package ml

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Reloadable serves predictions from a model file and swaps in a fresh copy
// whenever the file is rewritten. A failed reload keeps the previous model.
type Reloadable struct {
	modelType string
	path      string
	logger    *zap.Logger

	mu      sync.RWMutex
	current Classifier
	loads   int
}

func NewReloadable(modelType, path string, logger *zap.Logger) (*Reloadable, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Reloadable{modelType: modelType, path: path, logger: logger}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reloadable) Predict(features []float64) (int, float64, error) {
	r.mu.RLock()
	model := r.current
	r.mu.RUnlock()
	if model == nil {
		return 0, 0, ErrNotLoaded
	}
	return model.Predict(features)
}

// Reload reads the model file again.
func (r *Reloadable) Reload() error {
	model, err := LoadModel(r.modelType, r.path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.current = model
	r.loads++
	loads := r.loads
	r.mu.Unlock()
	r.logger.Info("model loaded",
		zap.String("type", r.modelType),
		zap.String("path", r.path),
		zap.Int("generation", loads))
	return nil
}

// Generation counts successful loads, starting at 1.
func (r *Reloadable) Generation() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loads
}

// Watch blocks until ctx is done, reloading the model on every change to its
// file. The parent directory is watched so atomic rename-into-place works.
func (r *Reloadable) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create model watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(r.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(r.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := r.Reload(); err != nil {
				r.logger.Warn("model reload failed, keeping previous model",
					zap.String("path", r.path), zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("model watcher error", zap.Error(err))
		}
	}
}
