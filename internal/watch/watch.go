// Package watch drives script hot-reload: it watches type package
// directories and reports definition-file changes so the caller can
// invalidate the world and the descriptor cache.
package watch

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// EventFunc is called for every definition-file change. Returning an
// error only logs it; watching continues.
type EventFunc func(context.Context, fsnotify.Event) error

// Watcher reports changes to .yaml/.yml files in watched directories.
type Watcher struct {
	watch *fsnotify.Watcher
	log   *logrus.Entry
}

// New creates an idle watcher.
func New() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watch: w,
		log:   logrus.WithField("component", "watch"),
	}, nil
}

// WatchDir watches a package directory until ctx is done. The event
// loop runs on its own goroutine; fn is invoked from that goroutine.
func (w *Watcher) WatchDir(ctx context.Context, dir string, fn EventFunc) error {
	if err := w.watch.Add(dir); err != nil {
		return err
	}
	go w.watchEvent(ctx, fn)
	return nil
}

func (w *Watcher) watchEvent(ctx context.Context, fn EventFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watch.Events:
			if !ok {
				return
			}
			if !isDefinitionFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename) {
				continue
			}
			w.log.WithFields(logrus.Fields{"file": event.Name, "op": event.Op.String()}).Info("definition file changed")
			if err := fn(ctx, event); err != nil {
				w.log.WithError(err).Error("reload callback failed")
			}
		case err, ok := <-w.watch.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Error("watch error")
		}
	}
}

// Close stops watching and releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.watch.Close()
}

func isDefinitionFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}
