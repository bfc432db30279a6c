package main

import (
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"slider/internal/deck"
)

// settle is how long a burst of file events is collapsed into one reload.
const settle = 100 * time.Millisecond

type (
	reloadMsg   struct{}
	watchErrMsg struct{ err error }
)

// watcher reports changes to the slides. It watches the containing
// directory so editors that replace files on save are still noticed.
type watcher struct {
	fs    *fsnotify.Watcher
	match func(name string) bool
}

func newWatcher(src deck.Source) (*watcher, error) {
	path := filepath.Clean(src.Path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	match := func(name string) bool { return filepath.Clean(name) == path }
	if info.IsDir() {
		dir = path
		match = func(name string) bool { return filepath.Ext(name) == ".md" }
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, err
	}
	return &watcher{fs: fs, match: match}, nil
}

// wait returns a command that blocks until the slides change.
func (w *watcher) wait() tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.fs.Events:
				if !ok {
					return nil
				}
				if !w.match(ev.Name) || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				w.drain()
				return reloadMsg{}
			case err, ok := <-w.fs.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err}
			}
		}
	}
}

func (w *watcher) drain() {
	timer := time.NewTimer(settle)
	defer timer.Stop()
	for {
		select {
		case _, ok := <-w.fs.Events:
			if !ok {
				return
			}
		case <-timer.C:
			return
		}
	}
}

func (w *watcher) Close() error {
	return w.fs.Close()
}
