package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestIsRelevant(t *testing.T) {
	dir := t.TempDir()
	w := &VaultWatcher{vault: dir}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"markdown write", fsnotify.Event{Name: filepath.Join(dir, "a.md"), Op: fsnotify.Write}, true},
		{"canvas create", fsnotify.Event{Name: filepath.Join(dir, "b.canvas"), Op: fsnotify.Create}, true},
		{"image write", fsnotify.Event{Name: filepath.Join(dir, "c.png"), Op: fsnotify.Write}, false},
		{"chmod", fsnotify.Event{Name: filepath.Join(dir, "a.md"), Op: fsnotify.Chmod}, false},
		{"folder removed", fsnotify.Event{Name: filepath.Join(dir, "Projects"), Op: fsnotify.Remove}, true},
		{"outside vault", fsnotify.Event{Name: filepath.Join(filepath.Dir(dir), "x.md"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.isRelevant(tt.event); got != tt.want {
				t.Fatalf("isRelevant(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()

	w, err := New(dir)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer w.Close()

	changed := make(chan string, 8)
	w.OnChange(func(rel string) { changed <- rel })
	go w.Run()

	if err := os.WriteFile(filepath.Join(dir, "note.md"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case rel := <-changed:
		if rel != "note.md" {
			t.Fatalf("expected note.md, got %q", rel)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestNewRejectsEmptyVault(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty vault")
	}
}
