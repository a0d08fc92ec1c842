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
package day

import (
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/erikgeiser/promptkit/confirmation"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/quickswitch/internal/daily"
	"github.com/Paintersrp/quickswitch/internal/palette"
	"github.com/Paintersrp/quickswitch/internal/state"
	"github.com/Paintersrp/quickswitch/pkg/flags"
)

type options struct {
	index    int
	yes      bool
	noLaunch bool
}

// confirm asks before a missing note is created. Tests replace it.
var confirm = func(prompt string) (bool, error) {
	return confirmation.New(prompt, confirmation.Yes).RunPrompt()
}

func NewCmdDay(s *state.State) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:     "day",
		Aliases: []string{"d"},
		Short:   "Create or open a daily note.",
		Long: heredoc.Doc(`
			Opens the daily note for the given day, creating it from the daily note
			template after confirmation when it does not exist yet. The index can be
			negative for past days, positive for future days, or zero for today.

			Examples:
			  qs day                 # today's note
			  qs day --index -1      # yesterday's note
			  qs day --date "Mar 3"  # the note for March 3rd
			  qs day --yes           # create without asking
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s, opts)
		},
	}

	flags.AddDate(cmd)
	cmd.Flags().IntVarP(&opts.index, "index", "i", 0, "Day relative to today. Negative for past days, positive for future days")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Create a missing note without asking")
	cmd.Flags().BoolVar(&opts.noLaunch, "no-launch", false, "Only create or focus the note, do not launch the editor")

	return cmd
}

func run(cmd *cobra.Command, s *state.State, opts *options) error {
	at, fixed, err := flags.HandleDate(cmd)
	if err != nil {
		return err
	}
	if !fixed {
		at = time.Now()
	}

	if err := s.Open(); err != nil {
		return err
	}

	settings := s.Config.PaletteSettings()
	note := daily.Resolve(at, opts.index, settings.DailyFormat, settings.DailyFolder)
	if note.Path == "" {
		return fmt.Errorf("daily note format %q resolves to an empty path", settings.DailyFormat)
	}

	files := s.Files()
	if !files.Exists(note.Path) {
		if !opts.yes {
			ok, err := confirm(fmt.Sprintf("Create %s?", note.Path))
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}

		content, err := daily.Content(note, settings.DailyTemplate, time.Now(), files.ReadFile)
		if err != nil {
			return err
		}
		if err := files.CreateFile(note.Path, content); err != nil {
			return fmt.Errorf("create %s: %w", note.Path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", note.Path)
	}

	if err := focus(s, note.Path); err != nil {
		return err
	}
	if opts.noLaunch {
		return nil
	}
	return s.LaunchEditor(note.Path)
}

// focus brings an existing tab for path to the front or opens a new one.
func focus(s *state.State, path string) error {
	for _, v := range s.Session.ListOpenViews() {
		if v.Path == path {
			return s.Session.Focus(v.Handle)
		}
	}
	_, err := s.Session.OpenFile(path, palette.OpenTarget{NewTab: true})
	return err
}
