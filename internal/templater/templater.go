// Package templater renders the content new notes are seeded with.
package templater

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates
var embeddedTemplates embed.FS

// TemplateData is the data passed to templates during rendering.
type TemplateData struct {
	Title string
	Date  string
	Time  string
	Label string
}

type TemplateMap map[string]string

// Templater manages the embedded note templates.
type Templater struct {
	templates TemplateMap
}

func NewTemplater() (*Templater, error) {
	tmplMap := make(TemplateMap)
	if err := tmplMap.loadEmbeddedTemplates(embeddedTemplates); err != nil {
		return nil, err
	}
	return &Templater{templates: tmplMap}, nil
}

// Has reports whether an embedded template with the given name exists.
func (t *Templater) Has(name string) bool {
	_, ok := t.templates[name]
	return ok
}

// Raw returns the unrendered body of a named template.
func (t *Templater) Raw(name string) (string, error) {
	content, ok := t.templates[name]
	if !ok {
		return "", fmt.Errorf("template %q not found", name)
	}
	return content, nil
}

// Execute renders the named embedded template.
func (t *Templater) Execute(name string, data TemplateData) (string, error) {
	content, err := t.Raw(name)
	if err != nil {
		return "", err
	}
	return Render(name, content, data)
}

// Render parses content as a text/template and executes it with data.
func Render(name, content string, data TemplateData) (string, error) {
	if !strings.Contains(content, "{{") {
		return content, nil
	}

	tmpl, err := template.New(name).Option("missingkey=zero").Parse(content)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}

	return rendered.String(), nil
}

func (m TemplateMap) loadEmbeddedTemplates(embeddedFS embed.FS) error {
	return fs.WalkDir(
		embeddedFS,
		"templates",
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			name := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
			if _, exists := m[name]; exists {
				return nil
			}

			data, err := fs.ReadFile(embeddedFS, path)
			if err != nil {
				return err
			}
			m[name] = string(data)
			return nil
		},
	)
}
