/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package open

import (
	"fmt"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/quickswitch/internal/palette"
	"github.com/Paintersrp/quickswitch/internal/state"
	"github.com/Paintersrp/quickswitch/internal/tui/switcher"
	"github.com/Paintersrp/quickswitch/pkg/flags"
)

type options struct {
	print  bool
	newTab bool
}

func NewCmdOpen(s *state.State) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:     "open [query]",
		Aliases: []string{"o"},
		Short:   "Open the quick switcher.",
		Long: heredoc.Doc(`
			Opens the quick switcher over your open tabs, bookmarks, the daily notes
			around today and the whole vault. The chosen note is opened in your editor.

			Examples:
			  qs open
			  qs open projects
			  qs open --date yesterday
			  qs open --print | xargs cat
		`),
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s, opts, strings.Join(args, " "))
		},
	}

	flags.AddDate(cmd)
	cmd.Flags().BoolVar(&opts.print, "print", false, "Print the chosen path instead of launching the editor")
	cmd.Flags().BoolVarP(&opts.newTab, "new-tab", "n", false, "Always open the chosen note in a new tab")

	return cmd
}

func run(cmd *cobra.Command, s *state.State, opts *options, query string) error {
	at, fixed, err := flags.HandleDate(cmd)
	if err != nil {
		return err
	}

	var popts []palette.Option
	if fixed {
		popts = append(popts, palette.WithClock(func() time.Time { return at }))
	}

	ctrl, err := s.NewPalette(popts...)
	if err != nil {
		return err
	}

	settings := s.Config.PaletteSettings()
	if opts.newTab {
		settings.AlwaysOpenInNewTab = true
	}

	m, err := switcher.NewModel(s, ctrl, settings)
	if err != nil {
		return err
	}
	m.SetQuery(query)

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running switcher: %w", err)
	}

	out, ok := m.Outcome()
	if !ok {
		return nil
	}
	if opts.print {
		fmt.Fprintln(cmd.OutOrStdout(), out.Path)
		return nil
	}
	return s.LaunchEditor(out.Path)
}
