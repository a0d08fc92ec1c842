package peek

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Paintersrp/quickswitch/internal/pathutil"
	"github.com/Paintersrp/quickswitch/internal/state"
	shared "github.com/Paintersrp/quickswitch/pkg/cmd"
)

const defaultWrap = 100

func NewCmdPeek(s *state.State) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:     "peek [path]",
		Aliases: []string{"cat"},
		Short:   "Print a note, the active tab by default.",
		Long: heredoc.Doc(`
			Renders a note to the terminal without opening the editor. Without a path
			the note in the active tab is shown.

			Examples:
			  qs peek
			  qs peek projects/roadmap.md
			  qs peek --raw daily/2024-01-10.md
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rel, err := target(s, args)
			if err != nil {
				return err
			}

			content, err := s.Files().ReadFile(rel)
			if err != nil {
				return err
			}
			if raw || pathutil.Ext(rel) != "md" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			out, err := render(content, wrapWidth(), termenv.EnvColorProfile())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().BoolVarP(&raw, "raw", "r", false, "Print the markdown source")
	return cmd
}

func target(s *state.State, args []string) (string, error) {
	if err := s.Open(); err != nil {
		return "", err
	}
	if len(args) == 1 {
		return shared.ResolveVaultPath(s, args[0])
	}

	v, ok := s.Session.Active()
	if !ok {
		return "", fmt.Errorf("no active tab, pass a path")
	}
	return v.Path, nil
}

func render(content string, width int, profile termenv.Profile) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(profile),
	)
	if err != nil {
		return "", fmt.Errorf("error creating renderer: %w", err)
	}
	return r.Render(content)
}

func wrapWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWrap
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWrap
	}
	return min(w-2, defaultWrap)
}
