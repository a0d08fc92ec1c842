package templater

import (
	"strings"
	"testing"
)

func TestNewTemplaterLoadsEmbeddedDaily(t *testing.T) {
	tmpl, err := NewTemplater()
	if err != nil {
		t.Fatalf("NewTemplater returned error: %v", err)
	}

	if !tmpl.Has("daily") {
		t.Fatalf("expected embedded daily template to be registered")
	}

	out, err := tmpl.Execute("daily", TemplateData{Title: "2024-03-05", Date: "2024-03-05"})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if !strings.Contains(out, "# 2024-03-05") {
		t.Fatalf("expected rendered title heading, got %q", out)
	}
	if !strings.Contains(out, "date: 2024-03-05") {
		t.Fatalf("expected rendered date front matter, got %q", out)
	}
}

func TestExecuteUnknownTemplate(t *testing.T) {
	tmpl, err := NewTemplater()
	if err != nil {
		t.Fatalf("NewTemplater returned error: %v", err)
	}

	if _, err := tmpl.Execute("missing", TemplateData{}); err == nil {
		t.Fatalf("expected error for unknown template")
	}
}

func TestRenderPassesThroughPlainContent(t *testing.T) {
	out, err := Render("plain", "no placeholders here", TemplateData{Title: "x"})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if out != "no placeholders here" {
		t.Fatalf("expected content untouched, got %q", out)
	}
}

func TestRenderReportsParseErrors(t *testing.T) {
	if _, err := Render("broken", "{{ .Title ", TemplateData{}); err == nil {
		t.Fatalf("expected parse error")
	}
}
