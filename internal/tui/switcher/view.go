package switcher

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/lipgloss"

	"github.com/Paintersrp/quickswitch/internal/palette"
)

func (m *Model) View() string {
	snap := m.ctrl.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quick Switcher"))
	b.WriteString("\n")
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderSections(snap))
	b.WriteString("\n")

	switch {
	case snap.Creating:
		b.WriteString(statusStyle.Render(fmt.Sprintf("Creating %s...", snap.Confirm)))
	case m.confirming && snap.Confirm != "":
		b.WriteString(confirmStyle.Render(fmt.Sprintf("Create %s? (y/n)", snap.Confirm)))
	case m.notice != "":
		b.WriteString(statusStyle.Render(m.notice))
	case m.status != "":
		b.WriteString(dimStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return appStyle.Render(b.String())
}

func (m *Model) renderSections(snap palette.Snapshot) string {
	if len(snap.Sections) == 0 {
		return ""
	}

	width := 0
	if m.width > 0 {
		// appStyle padding plus two border and two padding columns per section.
		width = (m.width-4)/len(snap.Sections) - 4
	}

	budget := m.bodyHeight()
	columns := make([]string, 0, len(snap.Sections))
	for _, sec := range snap.Sections {
		columns = append(columns, renderSection(sec, snap, width, budget))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// bodyHeight is the number of lines left for section rows, or 0 when the
// window size is unknown.
func (m *Model) bodyHeight() int {
	if m.height <= 0 {
		return 0
	}
	// app padding, title, bordered input, column border and title, status line.
	return max(m.height-10-lipgloss.Height(m.help.View(m.keys)), 1)
}

func renderSection(sec palette.SectionView, snap palette.Snapshot, width, budget int) string {
	lines := []string{titleStyle.Render(sec.Title)}

	if len(sec.Rows) == 0 {
		lines = append(lines, dimStyle.Render(sec.Empty))
	}
	rows, pager := pageRows(sec, snap, budget)
	for _, row := range rows {
		if row.Separator {
			lines = append(lines, separatorStyle.Render("Recently closed"))
			continue
		}
		lines = append(lines, renderRow(row, snap, width))
	}
	if pager != "" {
		lines = append(lines, pager)
	}

	style := columnStyle
	if sec.Active {
		style = activeColumnStyle
	}
	if width > 0 {
		style = style.Copy().Width(width)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// pageRows returns the page of rows holding the section's selection, plus a
// page indicator when the rows do not fit in budget lines.
func pageRows(sec palette.SectionView, snap palette.Snapshot, budget int) ([]palette.Row, string) {
	if budget <= 0 || len(sec.Rows) == 0 {
		return sec.Rows, ""
	}

	rowHeight := 1
	if snap.ShowPath || snap.ShowTags {
		rowHeight = 2
	}
	if len(sec.Rows)*rowHeight <= budget {
		return sec.Rows, ""
	}

	p := paginator.New()
	p.Type = paginator.Arabic
	// the indicator takes a line of its own
	p.PerPage = max((budget-1)/rowHeight, 1)
	p.SetTotalPages(len(sec.Rows))
	for i, row := range sec.Rows {
		if !row.Separator && row.Index == sec.Selected {
			p.Page = i / p.PerPage
			break
		}
	}

	start, end := p.GetSliceBounds(len(sec.Rows))
	return sec.Rows[start:end], dimStyle.Render(p.View())
}

func renderRow(row palette.Row, snap palette.Snapshot, width int) string {
	item := row.Item

	var b strings.Builder
	b.WriteString(marker(item))
	if note, ok := item.DailyNote(); ok {
		b.WriteString(note.Label.String() + ": ")
	}
	b.WriteString(item.Name)
	if !item.Exists() {
		b.WriteString(" (new)")
	}

	line := b.String()
	if width > 0 {
		line = truncate(line, width)
	}
	if row.Selected {
		line = selectedItemStyle.Render(line)
	} else if item.RecentlyClosed() || !item.Exists() {
		line = dimStyle.Render(line)
	}

	var extra []string
	if snap.ShowPath && item.Dir != "" {
		extra = append(extra, dimStyle.Render(item.Dir))
	}
	if snap.ShowTags && len(item.Tags) > 0 {
		extra = append(extra, tagStyle.Render(strings.Join(item.Tags, " ")))
	}
	if len(extra) == 0 {
		return line
	}
	return line + "\n  " + strings.Join(extra, " ")
}

func marker(item palette.Item) string {
	switch {
	case item.Pinned():
		return "▪ "
	case item.RecentlyClosed():
		return "↺ "
	case item.Bookmarked:
		return "★ "
	default:
		return "  "
	}
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if width < 2 || len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
