package tabs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Paintersrp/quickswitch/internal/palette"
	"github.com/Paintersrp/quickswitch/internal/state"
	shared "github.com/Paintersrp/quickswitch/pkg/cmd"
)

func NewCmdTabs(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tabs",
		Aliases: []string{"t"},
		Short:   "List and manage open tabs.",
		Long: heredoc.Doc(`
			Tabs are the notes you have opened through the switcher. They are kept between
			runs along with the five most recently closed ones. Without a subcommand the
			tabs are listed in the same order the switcher shows them.

			Examples:
			  qs tabs
			  qs tabs next
			  qs tabs close 2
			  qs tabs pin projects/roadmap.md
			  qs tabs reopen
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return list(cmd, s)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls", "l"},
			Short:   "List open and recently closed tabs.",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return list(cmd, s)
			},
		},
		newCmdCycle(s, "next", 1),
		newCmdCycle(s, "prev", -1),
		newCmdClose(s),
		newCmdPin(s, true),
		newCmdPin(s, false),
		newCmdReopen(s),
	)

	return cmd
}

// openTabs opens a palette with the tabs column active.
func openTabs(s *state.State, mutate ...func(*palette.Settings)) (*palette.Controller, error) {
	ctrl, err := s.NewPalette()
	if err != nil {
		return nil, err
	}

	settings := s.Config.PaletteSettings()
	settings.Sections.Tabs = true
	for _, m := range mutate {
		m(&settings)
	}
	if err := ctrl.Open(settings); err != nil {
		return nil, err
	}
	ctrl.SwitchTo(palette.SectionTabs)
	return ctrl, nil
}

func tabRows(ctrl *palette.Controller) []palette.Row {
	for _, sec := range ctrl.Snapshot().Sections {
		if sec.ID == palette.SectionTabs {
			return sec.Rows
		}
	}
	return nil
}

// selectTab points the controller at the tab named by arg, a 1 based number
// from the listing or a path.
func selectTab(s *state.State, ctrl *palette.Controller, arg string, closed bool) error {
	rows := tabRows(ctrl)

	if n, err := strconv.Atoi(arg); err == nil {
		number := 0
		for _, row := range rows {
			if row.Separator {
				continue
			}
			number++
			if number == n {
				if row.Item.RecentlyClosed() != closed {
					break
				}
				ctrl.Select(palette.SectionTabs, row.Index)
				return nil
			}
		}
		return fmt.Errorf("no tab number %d", n)
	}

	rel, err := shared.ResolveVaultPath(s, arg)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if !row.Separator && row.Item.Path == rel && row.Item.RecentlyClosed() == closed {
			ctrl.Select(palette.SectionTabs, row.Index)
			return nil
		}
	}
	return fmt.Errorf("%s is not an open tab", rel)
}

func list(cmd *cobra.Command, s *state.State) error {
	ctrl, err := openTabs(s)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	rows := tabRows(ctrl)
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No open tabs")
		return nil
	}

	active, _ := s.Session.ActiveView()
	lastActive := map[palette.Handle]time.Time{}
	for _, v := range s.Session.ListOpenViews() {
		lastActive[v.Handle] = v.LastActive
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	accent := color.New(color.FgCyan, color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	if width := terminalWidth(); width > 0 {
		tbl.MaxColWidth = uint(width / 2)
	}
	tbl.AddRow(bold.Sprint("#"), "", bold.Sprint("Name"), bold.Sprint("Path"), bold.Sprint("Active"))

	number := 0
	for _, row := range rows {
		if row.Separator {
			tbl.AddRow("", "", faint.Sprint("Recently closed"), "", "")
			continue
		}
		number++
		item := row.Item

		h, live := item.Handle()
		mark, when := "", ""
		switch {
		case live && h == active:
			mark = accent.Sprint("●")
		case item.Pinned():
			mark = "▪"
		case item.RecentlyClosed():
			mark = faint.Sprint("↺")
		}
		if live {
			when = humanize(lastActive[h])
		}

		name := item.Name
		if item.RecentlyClosed() {
			name = faint.Sprint(name)
		}
		tbl.AddRow(number, mark, name, item.Path, when)
	}
	tbl.RightAlign(0)

	_, err = fmt.Fprintln(cmd.OutOrStdout(), tbl)
	return err
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

func humanize(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("2006-01-02")
	}
}
