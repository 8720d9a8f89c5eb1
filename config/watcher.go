package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/adaptric/go-adaptive-pool/core"
	"github.com/adaptric/go-adaptive-pool/criteria"
)

// Watcher reloads a policy file whenever it changes and hands the result to
// a callback, typically pool.SetPolicy. A reload that fails to parse or
// validate is logged and skipped; the previous policy stays in force.
type Watcher struct {
	path     string
	onUpdate func(*criteria.MultiCriterionPolicy)
	logger   core.Logger

	fw        *fsnotify.Watcher
	closeOnce sync.Once
	done      chan struct{}
}

// WatchPolicy starts watching path. The watch is on the containing
// directory, so editors and config systems that replace the file atomically
// (write + rename) still trigger a reload. Callers load the initial policy
// themselves with LoadPolicy.
func WatchPolicy(path string, onUpdate func(*criteria.MultiCriterionPolicy), logger core.Logger) (*Watcher, error) {
	if onUpdate == nil {
		return nil, fmt.Errorf("onUpdate callback must not be nil")
	}
	if logger == nil {
		logger = core.NewNoOpLogger()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("resolve policy path: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch policy dir: %w", err)
	}

	w := &Watcher{
		path:     abs,
		onUpdate: onUpdate,
		logger:   logger,
		fw:       fw,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("policy watcher error", core.F("path", w.path), core.F("error", err))
		}
	}
}

func (w *Watcher) reload() {
	policy, err := LoadPolicy(w.path)
	if err != nil {
		w.logger.Warn("policy reload failed, keeping previous policy",
			core.F("path", w.path), core.F("error", err))
		return
	}
	w.logger.Info("policy reloaded", core.F("path", w.path), core.F("hardCap", policy.HardCap()))
	w.onUpdate(policy)
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fw.Close()
		<-w.done
	})
	return err
}
