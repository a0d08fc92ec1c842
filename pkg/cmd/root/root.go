package root

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paintersrp/quickswitch/internal/constants"
	"github.com/Paintersrp/quickswitch/internal/state"
	"github.com/Paintersrp/quickswitch/pkg/cmd/bookmark"
	"github.com/Paintersrp/quickswitch/pkg/cmd/day"
	"github.com/Paintersrp/quickswitch/pkg/cmd/open"
	"github.com/Paintersrp/quickswitch/pkg/cmd/peek"
	"github.com/Paintersrp/quickswitch/pkg/cmd/settings"
	"github.com/Paintersrp/quickswitch/pkg/cmd/tabs"
)

type rootOptions struct {
	vault   string
	debug   bool
	noColor bool

	logFile *os.File
}

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	opts := &rootOptions{}
	openCmd := open.NewCmdOpen(s)

	cmd := &cobra.Command{
		Use:     "qs",
		Short:   "A quick switcher for the notes in your vault.",
		Version: constants.Version,
		Long: heredoc.Doc(`
			Jump between open tabs, bookmarks, daily notes and every note in your vault
			from one palette. Running qs without a command opens the switcher.

			Examples:
			  qs
			  qs day
			  qs tabs
			  qs settings set vault_dir ~/notes
		`),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		RunE:          openCmd.RunE,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(s)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.teardown(s)
		},
	}

	cmd.Flags().AddFlagSet(openCmd.Flags())

	cmd.PersistentFlags().StringVar(&opts.vault, "vault", "", "Vault directory to use for this run")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Write a debug log to "+filepath.Join("~", constants.ConfigDir, constants.LogFile))
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	viper.BindPFlag("vault", cmd.PersistentFlags().Lookup("vault"))

	cmd.AddCommand(
		openCmd,
		day.NewCmdDay(s),
		tabs.NewCmdTabs(s),
		bookmark.NewCmdBookmark(s),
		peek.NewCmdPeek(s),
		settings.NewCmdSettings(s.Config),
	)

	return cmd, nil
}

func (o *rootOptions) setup(s *state.State) error {
	if o.noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	if o.debug {
		f, err := tea.LogToFile(filepath.Join(s.Home, constants.ConfigDir, constants.LogFile), "qs")
		if err != nil {
			return err
		}
		o.logFile = f
	} else {
		log.SetOutput(io.Discard)
	}

	return s.UseVault(o.vault)
}

func (o *rootOptions) teardown(s *state.State) error {
	err := s.Close()
	if o.logFile != nil {
		if cerr := o.logFile.Close(); err == nil {
			err = cerr
		}
		o.logFile = nil
	}
	return err
}
