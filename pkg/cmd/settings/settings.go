package settings

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/erikgeiser/promptkit/selection"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/quickswitch/internal/config"
)

// choose prompts for one of choices. Tests replace it.
var choose = func(prompt string, choices []string) (string, error) {
	sel := selection.New(prompt, choices)
	sel.Filter = nil
	return sel.RunPrompt()
}

func NewCmdSettings(c *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Aliases: []string{"s"},
		Short:   "Show or change settings.",
		Long: heredoc.Doc(`
			Shows every setting with its current value. Use the get and set subcommands
			to read or change a single key. Settings with a fixed set of values can be
			set interactively by leaving out the value.

			Examples:
			  qs settings
			  qs settings get palette.sort_order
			  qs settings set vault_dir ~/notes
			  qs settings set editor
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return list(cmd, c)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:       "get <key>",
			Short:     "Print the value of a setting.",
			Args:      cobra.ExactArgs(1),
			ValidArgs: config.Keys(),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := c.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
		&cobra.Command{
			Use:       "set <key> [value]",
			Short:     "Change a setting.",
			Args:      cobra.RangeArgs(1, 2),
			ValidArgs: config.Keys(),
			RunE: func(cmd *cobra.Command, args []string) error {
				return set(cmd, c, args)
			},
		},
	)

	return cmd
}

func set(cmd *cobra.Command, c *config.Config, args []string) error {
	key := args[0]
	if _, err := c.Get(key); err != nil {
		return err
	}

	var value string
	if len(args) == 2 {
		value = args[1]
	} else {
		choices := config.Choices(key)
		if len(choices) == 0 {
			return fmt.Errorf("a value is required for %s", key)
		}
		v, err := choose(fmt.Sprintf("Select a value for %s.", key), choices)
		if err != nil {
			return err
		}
		value = v
	}

	if err := c.Set(key, value); err != nil {
		return err
	}

	v, _ := c.Get(key)
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, v)
	return nil
}

func list(cmd *cobra.Command, c *config.Config) error {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Key"), bold.Sprint("Value"))
	for _, key := range config.Keys() {
		v, _ := c.Get(key)
		if v == "" {
			v = faint.Sprint("(unset)")
		}
		tbl.AddRow(key, v)
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), tbl)
	return err
}
