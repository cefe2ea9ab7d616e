package db

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 150 * time.Millisecond

// watcher republishes every collection when the database file changes on
// disk, which picks up writes from other processes sharing the file.
type watcher struct {
	db      *DB
	fs      *fsnotify.Watcher
	base    string
	stopCh  chan struct{}
	doneCh  chan struct{}
	stopped sync.Once
}

func newWatcher(db *DB) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(db.path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &watcher{
		db:     db,
		fs:     fsw,
		base:   filepath.Base(db.path),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go w.run()
	db.log.Debug("watching database directory", zap.String("dir", dir))
	return w, nil
}

// relevant reports whether name is the database or one of its sidecars
func (w *watcher) relevant(name string) bool {
	base := filepath.Base(name)
	return base == w.base || strings.HasPrefix(base, w.base+"-")
}

func (w *watcher) run() {
	defer close(w.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !w.relevant(event.Name) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.db.log.Warn("file watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			w.db.Republish()
		}
	}
}

func (w *watcher) close() {
	w.stopped.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		if err := w.fs.Close(); err != nil {
			w.db.log.Warn("closing file watcher", zap.Error(err))
		}
	})
}
