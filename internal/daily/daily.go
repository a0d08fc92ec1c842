// Package daily resolves the yesterday/today/tomorrow notes shown in the
// palette and produces the content a missing one is created with.
package daily

import (
	"fmt"
	"log"
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Paintersrp/quickswitch/internal/constants"
	"github.com/Paintersrp/quickswitch/internal/pathutil"
	"github.com/Paintersrp/quickswitch/internal/templater"
)

type Label int

const (
	Yesterday Label = iota
	Today
	Tomorrow
)

func (l Label) String() string {
	switch l {
	case Yesterday:
		return "Yesterday"
	case Today:
		return "Today"
	case Tomorrow:
		return "Tomorrow"
	default:
		return fmt.Sprintf("Label(%d)", int(l))
	}
}

// Offset is the day distance from today.
func (l Label) Offset() int {
	return int(l) - int(Today)
}

// Note is one resolved daily note candidate.
type Note struct {
	Label  Label
	Date   time.Time
	Path   string
	Title  string
	Exists bool
}

// Resolve computes the note for the day offset days away from now.
func Resolve(now time.Time, offset int, format, folder string) Note {
	if strings.TrimSpace(format) == "" {
		format = constants.DefaultDailyFormat
	}

	base := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	date := base.AddDate(0, 0, offset)

	name := Format(date, format)
	rel := name + ".md"
	if folder = pathutil.CleanRel(folder); folder != "" {
		rel = folder + "/" + rel
	}
	rel = pathutil.CleanRel(rel)

	label := Today
	switch {
	case offset < 0:
		label = Yesterday
	case offset > 0:
		label = Tomorrow
	}

	return Note{
		Label: label,
		Date:  date,
		Path:  rel,
		Title: path.Base(name),
	}
}

// Candidates returns yesterday, today and tomorrow in that order, each
// flagged by whether exists reports its path as present.
func Candidates(now time.Time, format, folder string, exists func(string) bool) []Note {
	notes := make([]Note, 0, 3)
	for _, label := range []Label{Yesterday, Today, Tomorrow} {
		n := Resolve(now, label.Offset(), format, folder)
		if exists != nil {
			n.Exists = exists(n.Path)
		}
		notes = append(notes, n)
	}
	return notes
}

var (
	placeholderRe = regexp.MustCompile(`\{\{\s*(date|time|title)\s*(?::([^}]*))?\}\}`)
	loadTemplater = sync.OnceValues(templater.NewTemplater)
)

// Content renders the body a new daily note is created with. An empty
// templatePath selects the embedded daily template, otherwise the vault
// relative template is read through read. Both {{date:FORMAT}} style
// placeholders and text/template actions are expanded. A user template that
// is not a valid text/template keeps its other braces verbatim.
func Content(n Note, templatePath string, at time.Time, read func(string) (string, error)) (string, error) {
	raw, err := templateBody(templatePath, read)
	if err != nil {
		return "", err
	}

	expanded := placeholderRe.ReplaceAllStringFunc(raw, func(match string) string {
		parts := placeholderRe.FindStringSubmatch(match)
		arg := strings.TrimSpace(parts[2])
		switch parts[1] {
		case "title":
			return n.Title
		case "time":
			if arg == "" {
				arg = "HH:mm"
			}
			return Format(at, arg)
		default:
			if arg == "" {
				arg = constants.DefaultDailyFormat
			}
			return Format(n.Date, arg)
		}
	})

	body, err := templater.Render("daily", expanded, templater.TemplateData{
		Title: n.Title,
		Date:  n.Date.Format("2006-01-02"),
		Time:  at.Format("15:04"),
		Label: n.Label.String(),
	})
	if err != nil && templatePath != "" {
		log.Printf("daily: template %s: %v", templatePath, err)
		return expanded, nil
	}
	return body, err
}

func templateBody(templatePath string, read func(string) (string, error)) (string, error) {
	rel := pathutil.CleanRel(templatePath)
	if rel == "" {
		t, err := loadTemplater()
		if err != nil {
			return "", fmt.Errorf("load embedded templates: %w", err)
		}
		return t.Raw("daily")
	}

	if path.Ext(rel) == "" {
		rel += ".md"
	}
	if read == nil {
		return "", fmt.Errorf("read template %s: no reader configured", rel)
	}

	body, err := read(rel)
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", rel, err)
	}
	return body, nil
}
