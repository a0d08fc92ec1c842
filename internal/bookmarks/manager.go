// Package bookmarks manages the file bookmarks kept in the settings record.
package bookmarks

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Paintersrp/quickswitch/internal/config"
	"github.com/Paintersrp/quickswitch/internal/palette"
	"github.com/Paintersrp/quickswitch/internal/pathutil"
)

var (
	ErrExists   = errors.New("bookmark already exists")
	ErrNotFound = errors.New("bookmark does not exist")
)

type Manager struct {
	cfg *config.Config
}

func NewManager(cfg *config.Config) *Manager {
	return &Manager{cfg: cfg}
}

// Store returns the manager as a palette bookmark store, or nil when
// bookmarks are disabled.
func (m *Manager) Store() palette.BookmarkStore {
	if m == nil || !m.cfg.Bookmarks.Enabled {
		return nil
	}
	return m
}

func (m *Manager) Enabled() bool {
	return m.cfg.Bookmarks.Enabled
}

func (m *Manager) List() []config.Bookmark {
	return slices.Clone(m.cfg.Bookmarks.Items)
}

func (m *Manager) ListFileBookmarks() []string {
	paths := make([]string, 0, len(m.cfg.Bookmarks.Items))
	for _, b := range m.cfg.Bookmarks.Items {
		paths = append(paths, b.Path)
	}
	return paths
}

func (m *Manager) Has(path string) bool {
	return m.index(pathutil.CleanRel(path)) >= 0
}

func (m *Manager) AddBookmark(path, title string) error {
	path = pathutil.CleanRel(path)
	if path == "" {
		return errors.New("path must be provided")
	}
	if m.index(path) >= 0 {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	if title == "" {
		title = pathutil.Stem(path)
	}

	m.cfg.Bookmarks.Items = append(m.cfg.Bookmarks.Items, config.Bookmark{Path: path, Title: title})
	return m.cfg.Save()
}

func (m *Manager) RemoveBookmark(path string) error {
	i := m.index(pathutil.CleanRel(path))
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	m.cfg.Bookmarks.Items = slices.Delete(m.cfg.Bookmarks.Items, i, i+1)
	return m.cfg.Save()
}

// Rename changes the display title of an existing bookmark.
func (m *Manager) Rename(path, title string) error {
	if title == "" {
		return errors.New("title must be provided")
	}
	i := m.index(pathutil.CleanRel(path))
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	m.cfg.Bookmarks.Items[i].Title = title
	return m.cfg.Save()
}

func (m *Manager) index(path string) int {
	return slices.IndexFunc(m.cfg.Bookmarks.Items, func(b config.Bookmark) bool {
		return b.Path == path
	})
}
