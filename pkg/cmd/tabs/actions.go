package tabs

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/quickswitch/internal/palette"
	"github.com/Paintersrp/quickswitch/internal/state"
)

func newCmdCycle(s *state.State, use string, delta int) *cobra.Command {
	var noLaunch bool

	short := "Focus the next tab in opening order."
	if delta < 0 {
		short = "Focus the previous tab in opening order."
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.Open(); err != nil {
				return err
			}

			cycle := s.Session.Next
			if delta < 0 {
				cycle = s.Session.Previous
			}
			v, err := cycle()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), v.Path)
			if noLaunch {
				return nil
			}
			return s.LaunchEditor(v.Path)
		},
	}

	cmd.Flags().BoolVar(&noLaunch, "no-launch", false, "Only focus the tab, do not launch the editor")
	return cmd
}

func newCmdClose(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:     "close <number|path>",
		Aliases: []string{"c"},
		Short:   "Close a tab and remember it as recently closed.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := openTabs(s)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if err := selectTab(s, ctrl, args[0], false); err != nil {
				return err
			}
			path, _ := ctrl.SelectedPath()
			if err := outcomeErr(ctrl.CloseSelected()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Closed %s\n", path)
			return nil
		},
	}
}

func newCmdPin(s *state.State, pin bool) *cobra.Command {
	use, short := "pin <number|path>", "Pin a tab so notes opened from it go to a new tab."
	if !pin {
		use, short = "unpin <number|path>", "Unpin a tab."
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := openTabs(s)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if err := selectTab(s, ctrl, args[0], false); err != nil {
				return err
			}
			item, _ := ctrl.Selected()
			if item.Pinned() == pin {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already %s\n", item.Path, pinWord(pin))
				return nil
			}
			if err := outcomeErr(ctrl.PinSelected()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", capitalized(pinWord(pin)), item.Path)
			return nil
		},
	}
}

func newCmdReopen(s *state.State) *cobra.Command {
	var noLaunch bool

	cmd := &cobra.Command{
		Use:     "reopen [number|path]",
		Aliases: []string{"undo"},
		Short:   "Reopen a recently closed tab, the latest one by default.",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := openTabs(s, func(ps *palette.Settings) {
				ps.AlwaysOpenInNewTab = true
			})
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if len(args) == 1 {
				err = selectTab(s, ctrl, args[0], true)
			} else {
				err = selectLatestClosed(ctrl)
			}
			if err != nil {
				return err
			}

			out := ctrl.ActivateSelected()
			if err := outcomeErr(out); err != nil {
				return err
			}
			if out.Kind != palette.OutcomeClose {
				return fmt.Errorf("unable to reopen tab")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Reopened %s\n", out.Path)
			if noLaunch {
				return nil
			}
			return s.LaunchEditor(out.Path)
		},
	}

	cmd.Flags().BoolVar(&noLaunch, "no-launch", false, "Only restore the tab, do not launch the editor")
	return cmd
}

func selectLatestClosed(ctrl *palette.Controller) error {
	for _, row := range tabRows(ctrl) {
		if !row.Separator && row.Item.RecentlyClosed() {
			ctrl.Select(palette.SectionTabs, row.Index)
			return nil
		}
	}
	return fmt.Errorf("no recently closed tabs")
}

func outcomeErr(out palette.Outcome) error {
	if out.Kind == palette.OutcomeNotice {
		return fmt.Errorf("%s", out.Notice)
	}
	return nil
}

func pinWord(pin bool) string {
	if pin {
		return "pinned"
	}
	return "unpinned"
}

func capitalized(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
