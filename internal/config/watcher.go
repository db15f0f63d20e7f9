package config

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned by operations on a closed watcher.
var ErrWatcherClosed = errors.New("config watcher is closed")

// Watcher reloads a configuration file when it changes on disk.
//
// The file's parent directory is watched rather than the file itself, so
// editors that replace the file via rename (most of them) keep the watch
// alive. Reloaded configs arrive on Configs; parse failures arrive on
// Errors and leave the previous config in effect.
type Watcher struct {
	path string
	fsw  *fsnotify.Watcher

	configs chan Config
	errs    chan error

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// Watch starts watching path for configuration changes.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    abs,
		fsw:     fsw,
		configs: make(chan Config, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Configs returns the channel of reloaded configurations.
func (w *Watcher) Configs() <-chan Config { return w.configs }

// Errors returns the channel of reload failures.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Name != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				w.send(w.errs, err)
				continue
			}
			w.sendConfig(cfg)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.send(w.errs, err)
		}
	}
}

// sendConfig delivers cfg, replacing an undelivered older reload so the
// receiver always observes the newest state.
func (w *Watcher) sendConfig(cfg Config) {
	for {
		select {
		case w.configs <- cfg:
			return
		default:
			select {
			case <-w.configs:
			default:
			}
		}
	}
}

func (w *Watcher) send(ch chan error, err error) {
	select {
	case ch <- err:
	default:
	}
}
