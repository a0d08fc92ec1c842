// Package vault indexes the notes of a vault directory and serves them to
// the palette as its file index.
package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Paintersrp/quickswitch/internal/cache"
	"github.com/Paintersrp/quickswitch/internal/palette"
	"github.com/Paintersrp/quickswitch/internal/parser"
	"github.com/Paintersrp/quickswitch/internal/pathutil"
)

// ErrClosed signals that the index has been shut down.
var ErrClosed = errors.New("vault index closed")

// ErrOutsideVault is returned for paths that resolve outside the vault root.
var ErrOutsideVault = pathutil.ErrOutsideVault

const tagCacheSize = 512

// Config describes which files the index picks up.
type Config struct {
	// IgnoredFolders contains directory names skipped while walking.
	IgnoredFolders []string
	// Extensions lists indexed file extensions including the dot. Defaults to
	// .md and .canvas.
	Extensions []string
}

// Entry is one indexed file.
type Entry struct {
	Path    string
	Name    string
	ModTime time.Time
}

// Index keeps a sorted listing of the vault's notes and applies incremental
// updates queued by the watcher.
type Index struct {
	mu          sync.RWMutex
	root        string
	config      Config
	entries     map[string]Entry
	sorted      []palette.File
	pending     map[string]struct{}
	tags        *cache.LRUCache[string, []string]
	lastRebuild time.Time
	closed      bool

	now    func() time.Time
	stat   func(string) (fs.FileInfo, error)
	maxAge time.Duration
}

func NewIndex(root string, cfg Config) *Index {
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".md", ".canvas"}
	}
	return &Index{
		root:    pathutil.NormalizePath(root),
		config:  cfg,
		pending: make(map[string]struct{}),
		tags:    cache.NewLRUCache[string, []string](tagCacheSize),
		now:     time.Now,
		stat:    os.Stat,
		maxAge:  time.Hour,
	}
}

// ListAllFiles returns every indexed file sorted by path.
func (idx *Index) ListAllFiles() []palette.File {
	if err := idx.ensureFresh(); err != nil {
		log.Printf("vault: refreshing index: %v", err)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return append([]palette.File(nil), idx.sorted...)
}

// TagsFor parses rel for inline and front matter tags. Results are cached
// until the file is queued for update.
func (idx *Index) TagsFor(rel string) []string {
	rel = pathutil.CleanRel(rel)
	if tags, ok := idx.tags.Get(rel); ok {
		return tags
	}
	if !strings.EqualFold(filepath.Ext(rel), ".md") {
		return nil
	}

	content, err := idx.ReadFile(rel)
	if err != nil {
		return nil
	}

	doc, err := parser.Parse([]byte(content))
	if err != nil {
		log.Printf("vault: parsing tags of %s: %v", rel, err)
	}
	tags := doc.Tags()
	idx.tags.Put(rel, tags)
	return tags
}

// Exists reports whether rel is a regular file inside the vault.
func (idx *Index) Exists(rel string) bool {
	abs, err := pathutil.Resolve(idx.root, rel)
	if err != nil {
		return false
	}
	info, err := idx.stat(abs)
	return err == nil && !info.IsDir()
}

func (idx *Index) ReadFile(rel string) (string, error) {
	abs, err := pathutil.Resolve(idx.root, rel)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rel, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// CreateFile writes a new file, creating parent folders. Existing files are
// never overwritten.
func (idx *Index) CreateFile(rel, content string) error {
	abs, err := pathutil.Resolve(idx.root, rel)
	if err != nil {
		return fmt.Errorf("create %s: %w", rel, err)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("create folder for %s: %w", rel, err)
	}

	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	idx.QueueUpdate(rel)
	return nil
}

// QueueUpdate schedules a relative path for incremental reindexing.
func (idx *Index) QueueUpdate(rel string) {
	normalized := pathutil.CleanRel(rel)
	if normalized == "" {
		return
	}

	idx.tags.Remove(normalized)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return
	}
	idx.pending[normalized] = struct{}{}
}

// Stats captures lightweight instrumentation about the index.
type Stats struct {
	Files       int
	LastRebuild time.Time
	Pending     int
}

func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return Stats{Files: len(idx.entries), LastRebuild: idx.lastRebuild, Pending: len(idx.pending)}
}

// Close releases the index. Further listings are empty.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return nil
	}
	idx.closed = true
	idx.entries = nil
	idx.sorted = nil
	idx.pending = nil
	idx.tags.Purge()
	return nil
}

// Rebuild walks the vault from scratch.
func (idx *Index) Rebuild() error {
	entries, err := idx.collect()
	if err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return ErrClosed
	}

	idx.entries = entries
	idx.pending = make(map[string]struct{})
	idx.resort()
	idx.lastRebuild = idx.now()
	idx.tags.Purge()
	return nil
}

func (idx *Index) ensureFresh() error {
	idx.mu.RLock()
	closed := idx.closed
	needsRebuild := idx.entries == nil
	if !needsRebuild && idx.maxAge > 0 {
		needsRebuild = idx.now().Sub(idx.lastRebuild) > idx.maxAge
	}
	hasPending := len(idx.pending) > 0
	idx.mu.RUnlock()

	if closed {
		return ErrClosed
	}

	if needsRebuild {
		return idx.Rebuild()
	}
	if hasPending {
		return idx.applyPending()
	}
	return nil
}

func (idx *Index) applyPending() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return ErrClosed
	}
	if len(idx.pending) == 0 {
		return nil
	}

	pending := idx.pending
	idx.pending = make(map[string]struct{})

	for rel := range pending {
		abs, err := pathutil.Resolve(idx.root, rel)
		if err != nil {
			continue
		}

		info, err := idx.stat(abs)
		switch {
		case err == nil && info.IsDir():
			idx.removePrefix(rel)
		case err == nil:
			if idx.indexable(rel) {
				idx.entries[rel] = newEntry(rel, info)
			}
		case errors.Is(err, fs.ErrNotExist):
			delete(idx.entries, rel)
			idx.removePrefix(rel)
		default:
			return fmt.Errorf("stat %s: %w", abs, err)
		}
	}

	idx.resort()
	return nil
}

// removePrefix drops entries below a folder that was removed or renamed.
func (idx *Index) removePrefix(rel string) {
	prefix := rel + "/"
	for p := range idx.entries {
		if strings.HasPrefix(p, prefix) {
			delete(idx.entries, p)
		}
	}
}

func (idx *Index) resort() {
	paths := make([]string, 0, len(idx.entries))
	for p := range idx.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	sorted := make([]palette.File, 0, len(paths))
	for _, p := range paths {
		sorted = append(sorted, palette.File{Path: p, Name: idx.entries[p].Name})
	}
	idx.sorted = sorted
}

func (idx *Index) collect() (map[string]Entry, error) {
	if idx.root == "" {
		return nil, errors.New("vault directory cannot be empty")
	}

	ignored := make(map[string]struct{}, len(idx.config.IgnoredFolders))
	for _, dir := range idx.config.IgnoredFolders {
		ignored[strings.ToLower(dir)] = struct{}{}
	}

	entries := make(map[string]Entry)
	err := filepath.WalkDir(idx.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := strings.ToLower(d.Name())
			if strings.HasPrefix(name, ".") && path != idx.root {
				return filepath.SkipDir
			}
			if _, skip := ignored[name]; skip {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := pathutil.VaultRelative(idx.root, path)
		if err != nil || !idx.indexable(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		entries[rel] = newEntry(rel, info)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (idx *Index) indexable(rel string) bool {
	segments := strings.Split(rel, "/")
	for _, dir := range segments[:len(segments)-1] {
		if strings.HasPrefix(dir, ".") {
			return false
		}
		for _, ignored := range idx.config.IgnoredFolders {
			if strings.EqualFold(dir, ignored) {
				return false
			}
		}
	}

	ext := filepath.Ext(rel)
	for _, allowed := range idx.config.Extensions {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}

func newEntry(rel string, info fs.FileInfo) Entry {
	return Entry{
		Path:    rel,
		Name:    pathutil.Stem(rel),
		ModTime: info.ModTime(),
	}
}
