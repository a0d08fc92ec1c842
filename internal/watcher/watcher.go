// Package watcher reports note changes inside the vault so the file index can
// be patched incrementally.
package watcher

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/Paintersrp/quickswitch/internal/pathutil"
)

type VaultChangedMsg struct {
	Path string
}

type VaultWatcherErrMsg struct {
	Err error
}

var relevantExts = []string{".md", ".canvas"}

type VaultWatcher struct {
	watcher  *fsnotify.Watcher
	vault    string
	done     chan struct{}
	once     sync.Once
	onChange func(string)
	onClose  func()
}

func New(vault string) (*VaultWatcher, error) {
	normalizedVault := pathutil.NormalizePath(vault)
	if normalizedVault == "" {
		return nil, errors.New("vault directory cannot be empty")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &VaultWatcher{
		watcher: w,
		vault:   normalizedVault,
		done:    make(chan struct{}),
	}

	if err := watcher.addRecursive(normalizedVault); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return watcher, nil
}

// Start returns a command that blocks until the next relevant change. The
// caller re-issues it after every VaultChangedMsg.
func (w *VaultWatcher) Start() tea.Cmd {
	if w == nil {
		return nil
	}

	return func() tea.Msg {
		for {
			msg, ok := w.next()
			if !ok {
				return nil
			}
			if msg != nil {
				return msg
			}
		}
	}
}

// Run feeds change callbacks until Close is called. It is used when no
// bubbletea program drives the watcher.
func (w *VaultWatcher) Run() {
	if w == nil {
		return
	}
	for {
		if _, ok := w.next(); !ok {
			return
		}
	}
}

// next waits for one event. A nil message with ok set means the event was
// irrelevant.
func (w *VaultWatcher) next() (tea.Msg, bool) {
	select {
	case <-w.done:
		return nil, false
	case event, ok := <-w.watcher.Events:
		if !ok {
			return nil, false
		}

		if event.Op&fsnotify.Create != 0 {
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				_ = w.addRecursive(event.Name)
				return nil, true
			}
		}

		if !w.isRelevant(event) {
			return nil, true
		}

		rel, err := w.relativePath(event.Name)
		if err != nil || rel == "" {
			return nil, true
		}

		if w.onChange != nil {
			w.onChange(rel)
		}
		return VaultChangedMsg{Path: rel}, true
	case err, ok := <-w.watcher.Errors:
		if !ok {
			return nil, false
		}
		if err != nil {
			return VaultWatcherErrMsg{Err: err}, true
		}
		return nil, true
	}
}

func (w *VaultWatcher) Close() error {
	if w == nil {
		return nil
	}

	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.watcher.Close()
		if w.onClose != nil {
			w.onClose()
		}
	})

	return closeErr
}

// OnChange registers a callback that receives relative note paths whenever the
// watcher detects a relevant change.
func (w *VaultWatcher) OnChange(fn func(string)) {
	if w == nil {
		return
	}
	w.onChange = fn
}

// OnClose registers a callback that is invoked exactly once when the watcher
// shuts down.
func (w *VaultWatcher) OnClose(fn func()) {
	if w == nil {
		return
	}
	w.onClose = fn
}

func (w *VaultWatcher) addRecursive(root string) error {
	normalized := pathutil.NormalizePath(root)
	return filepath.WalkDir(normalized, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return err
		}

		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != normalized {
			return filepath.SkipDir
		}

		return w.watcher.Add(path)
	})
}

func (w *VaultWatcher) isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	rel, err := w.relativePath(event.Name)
	if err != nil || rel == "" {
		return false
	}

	// Removed or renamed folders carry no extension but still invalidate
	// every note below them.
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && filepath.Ext(rel) == "" {
		return true
	}

	ext := filepath.Ext(rel)
	for _, allowed := range relevantExts {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}

func (w *VaultWatcher) relativePath(path string) (string, error) {
	normalized := pathutil.NormalizePath(path)
	rel, err := pathutil.VaultRelative(w.vault, normalized)
	if err != nil {
		return "", err
	}

	if rel == "." || rel == "" || strings.HasPrefix(rel, "..") {
		return "", nil
	}

	return rel, nil
}
