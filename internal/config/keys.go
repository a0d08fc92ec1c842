package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Paintersrp/quickswitch/internal/palette"
)

type setting struct {
	get  func(*Config) string
	set  func(*Config, string) error
	bool bool
}

func stringSetting(field func(*Config) *string) setting {
	return setting{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error {
			*field(c) = strings.TrimSpace(v)
			return nil
		},
	}
}

func boolSetting(field func(*Config) *bool) setting {
	return setting{
		bool: true,
		get:  func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", v)
			}
			*field(c) = b
			return nil
		},
	}
}

var settings = map[string]setting{
	"vault_dir": stringSetting(func(c *Config) *string { return &c.VaultDir }),
	"editor":    stringSetting(func(c *Config) *string { return &c.Editor }),
	"nvim_args": stringSetting(func(c *Config) *string { return &c.NvimArgs }),

	"palette.excluded_folders": {
		get: func(c *Config) string { return strings.Join(c.Palette.ExcludedFolders, ",") },
		set: func(c *Config, v string) error {
			folders := []string{}
			for _, f := range strings.Split(v, ",") {
				if f = strings.TrimSpace(f); f != "" {
					folders = append(folders, f)
				}
			}
			c.Palette.ExcludedFolders = folders
			return nil
		},
	},
	"palette.show_tags":              boolSetting(func(c *Config) *bool { return &c.Palette.ShowTags }),
	"palette.show_path":              boolSetting(func(c *Config) *bool { return &c.Palette.ShowPath }),
	"palette.sort_order":             stringSetting(func(c *Config) *string { return &c.Palette.SortOrder }),
	"palette.always_open_in_new_tab": boolSetting(func(c *Config) *bool { return &c.Palette.AlwaysOpenInNewTab }),
	"palette.sections.search":        boolSetting(func(c *Config) *bool { return &c.Palette.Sections.Search }),
	"palette.sections.tabs":          boolSetting(func(c *Config) *bool { return &c.Palette.Sections.Tabs }),
	"palette.sections.bookmarks":     boolSetting(func(c *Config) *bool { return &c.Palette.Sections.Bookmarks }),
	"palette.sections.daily_notes":   boolSetting(func(c *Config) *bool { return &c.Palette.Sections.DailyNotes }),

	"daily_notes.format":   stringSetting(func(c *Config) *string { return &c.DailyNotes.Format }),
	"daily_notes.folder":   stringSetting(func(c *Config) *string { return &c.DailyNotes.Folder }),
	"daily_notes.template": stringSetting(func(c *Config) *string { return &c.DailyNotes.Template }),

	"bookmarks.enabled": boolSetting(func(c *Config) *bool { return &c.Bookmarks.Enabled }),
}

// Keys lists every key accepted by Get and Set.
func Keys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (cfg *Config) Get(key string) (string, error) {
	s, ok := settings[key]
	if !ok {
		return "", fmt.Errorf("unknown setting %q", key)
	}
	return s.get(cfg), nil
}

// Set assigns value to key and saves. The record is left untouched when the
// new value does not validate.
func (cfg *Config) Set(key, value string) error {
	s, ok := settings[key]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}

	next := *cfg
	next.Palette.ExcludedFolders = append([]string(nil), cfg.Palette.ExcludedFolders...)
	if err := s.set(&next, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := next.normalize(); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}

	*cfg = next
	return cfg.Save()
}

// Choices lists the accepted values of key, or nil when it takes free text.
func Choices(key string) []string {
	switch key {
	case "editor":
		return append([]string(nil), validEditorNames...)
	case "palette.sort_order":
		return []string{string(palette.SortRecency), string(palette.SortOpeningOrder)}
	}
	if s, ok := settings[key]; ok && s.bool {
		return []string{"true", "false"}
	}
	return nil
}
