// Package parser extracts the tag metadata the palette matches against.
package parser

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

var (
	frontMatterRe = regexp.MustCompile(`(?s)\A---[ \t]*\r?\n(.*?)\r?\n---[ \t]*(?:\r?\n|\z)`)
	inlineTagRe   = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_/\-]+)`)
	digitsOnlyRe  = regexp.MustCompile(`^[0-9/]+$`)
)

// Document is the tag metadata of a single note.
type Document struct {
	// Inline holds "#tag" occurrences from the body, in order of appearance.
	Inline []string
	// FrontMatter holds the "tags" front matter values normalised to "#tag".
	FrontMatter []string
}

// Tags returns inline tags followed by front matter tags, deduplicated
// case-insensitively.
func (d Document) Tags() []string {
	seen := make(map[string]struct{}, len(d.Inline)+len(d.FrontMatter))
	out := make([]string, 0, len(d.Inline)+len(d.FrontMatter))
	for _, group := range [][]string{d.Inline, d.FrontMatter} {
		for _, tag := range group {
			key := strings.ToLower(tag)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

// Parse reads the front matter and markdown body of source.
func Parse(source []byte) (Document, error) {
	fm, body := SplitFrontMatter(source)

	fmTags, err := frontMatterTags(fm)
	if err != nil {
		return Document{}, err
	}

	return Document{
		Inline:      inlineTags(body),
		FrontMatter: fmTags,
	}, nil
}

// SplitFrontMatter separates a leading YAML block from the markdown body.
func SplitFrontMatter(data []byte) ([]byte, []byte) {
	loc := frontMatterRe.FindSubmatchIndex(data)
	if len(loc) < 4 {
		return nil, data
	}
	return data[loc[2]:loc[3]], data[loc[1]:]
}

func frontMatterTags(fm []byte) ([]string, error) {
	if len(strings.TrimSpace(string(fm))) == 0 {
		return nil, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(fm, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}

	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, nil
	}

	var tags []string
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := strings.ToLower(mapping.Content[i].Value)
		if key != "tags" && key != "tag" {
			continue
		}

		value := mapping.Content[i+1]
		switch value.Kind {
		case yaml.ScalarNode:
			if tag := normalizeTag(value.Value); tag != "" {
				tags = append(tags, tag)
			}
		case yaml.SequenceNode:
			for _, child := range value.Content {
				if child.Kind != yaml.ScalarNode {
					continue
				}
				if tag := normalizeTag(child.Value); tag != "" {
					tags = append(tags, tag)
				}
			}
		}
	}
	return tags, nil
}

func normalizeTag(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimLeft(trimmed, "#")
	if trimmed == "" {
		return ""
	}
	return "#" + trimmed
}

func inlineTags(body []byte) []string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(body))

	var tags []string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindParagraph, ast.KindTextBlock, ast.KindHeading:
			var sb strings.Builder
			collectText(n, body, &sb)
			for _, match := range inlineTagRe.FindAllStringSubmatch(sb.String(), -1) {
				name := strings.TrimRight(match[1], "/")
				if name == "" || digitsOnlyRe.MatchString(name) {
					continue
				}
				tags = append(tags, "#"+name)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return tags
}

// collectText concatenates the literal text below n, skipping code spans so
// "`#include`" never reads as a tag.
func collectText(n ast.Node, source []byte, sb *strings.Builder) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.CodeSpan:
			sb.WriteByte(' ')
		case *ast.Text:
			sb.Write(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(c.Value)
		case *ast.AutoLink, *ast.RawHTML:
			sb.WriteByte(' ')
		default:
			collectText(child, source, sb)
		}
	}
}
