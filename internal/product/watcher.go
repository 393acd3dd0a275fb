package product

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"neoshop/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Loader is anything that can be repopulated from its source.
type Loader interface {
	Load(ctx context.Context) error
}

// Watcher reloads a file-backed catalog whenever the file is rewritten.
// The parent directory is watched so editors that save through a rename
// are still picked up.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	loader   Loader
	debounce time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool

	// OnReload, when set, is called after every reload attempt.
	OnReload func(err error)
}

func NewWatcher(path string, loader Loader) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  w,
		path:     abs,
		loader:   loader,
		debounce: 200 * time.Millisecond,
	}, nil
}

// Start is non-blocking; events are handled in a goroutine until Stop or
// ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true

	go w.loop(ctx)
	return nil
}

// Stop ends the event loop and releases the fsnotify handle.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	close(w.stopCh)
	done := w.doneCh
	w.mu.Unlock()

	<-done
	return w.watcher.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "catalog"),
		zap.String("watch", w.path),
	)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("catalog watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			err := w.loader.Load(ctx)
			if err != nil {
				log.Warn("catalog reload failed", zap.Error(err))
			} else {
				log.Info("catalog reloaded")
			}
			if w.OnReload != nil {
				w.OnReload(err)
			}
		}
	}
}
