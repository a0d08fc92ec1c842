package bookmark

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/quickswitch/internal/pathutil"
	"github.com/Paintersrp/quickswitch/internal/state"
	shared "github.com/Paintersrp/quickswitch/pkg/cmd"
)

func NewCmdBookmark(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmark",
		Aliases: []string{"b", "bm"},
		Short:   "Manage the bookmarks shown in the switcher.",
		Long: heredoc.Doc(`
			Bookmarks are listed in their own column of the switcher. Without a subcommand
			the current bookmarks are printed.

			Examples:
			  qs bookmark
			  qs bookmark add projects/roadmap.md --title Roadmap
			  qs bookmark rename 1 "Weekly review"
			  qs bookmark remove 2
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return list(cmd, s)
		},
	}

	cmd.AddCommand(
		newCmdList(s),
		newCmdAdd(s),
		newCmdRename(s),
		newCmdRemove(s),
	)

	return cmd
}

func newCmdList(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "l"},
		Short:   "List bookmarks.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return list(cmd, s)
		},
	}
}

func newCmdAdd(s *state.State) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:     "add <path> [--title title]",
		Aliases: []string{"a"},
		Short:   "Bookmark a note.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rel, err := shared.ResolveVaultPath(s, args[0])
			if err != nil {
				return err
			}
			abs, err := pathutil.Resolve(s.Config.VaultDir, rel)
			if err != nil {
				return err
			}
			if _, err := os.Stat(abs); err != nil {
				return fmt.Errorf("the specified file does not exist: %s", rel)
			}

			if err := s.Bookmarks.AddBookmark(rel, title); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bookmarked %s\n", rel)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Title shown for the bookmark")
	return cmd
}

func newCmdRemove(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <path|number>",
		Aliases: []string{"rm", "r"},
		Short:   "Remove a bookmark by path or by its number in the list.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rel, err := target(s, args[0])
			if err != nil {
				return err
			}
			if err := s.Bookmarks.RemoveBookmark(rel); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed bookmark %s\n", rel)
			return nil
		},
	}
}

func newCmdRename(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <path|number> <title>",
		Short: "Change the title shown for a bookmark.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rel, err := target(s, args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")
			if err := s.Bookmarks.Rename(rel, title); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed bookmark %s to %q\n", rel, title)
			return nil
		},
	}
}

func target(s *state.State, arg string) (string, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		items := s.Bookmarks.List()
		if n < 1 || n > len(items) {
			return "", fmt.Errorf("no bookmark number %d", n)
		}
		return items[n-1].Path, nil
	}
	return shared.ResolveVaultPath(s, arg)
}

func list(cmd *cobra.Command, s *state.State) error {
	if !s.Bookmarks.Enabled() {
		fmt.Fprintln(cmd.OutOrStdout(), "Bookmarks are disabled. Enable them with `qs settings set bookmarks.enabled true`.")
		return nil
	}

	items := s.Bookmarks.List()
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No bookmarks")
		return nil
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("#"), bold.Sprint("Title"), bold.Sprint("Path"), "")
	for i, b := range items {
		missing := ""
		if abs, err := pathutil.Resolve(s.Config.VaultDir, b.Path); err != nil || !exists(abs) {
			missing = faint.Sprint("missing")
		}
		tbl.AddRow(i+1, b.Title, b.Path, missing)
	}
	tbl.RightAlign(0)

	_, err := fmt.Fprintln(cmd.OutOrStdout(), tbl)
	return err
}

func exists(abs string) bool {
	_, err := os.Stat(abs)
	return err == nil
}
