package main

import (
	"github.com/spf13/cobra"

	"github.com/carenav/directory-cli/internal/grouping"
)

var groupCategory string

var groupCmd = &cobra.Command{
	Use:   "group <input.json> [output.json] [mode]",
	Short: "Group a provider feed by normalized address",
	Long: `Group reads a provider feed file, normalizes each provider's address,
and writes the providers grouped by location. The optional third argument
selects base-address mode (true/1/yes/base), which merges suite and unit
variants of the same street address into one location. --category labels
feeds that carry no category of their own (location lists, spreadsheets)
so their adapter applies.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		output := ""
		mode := grouping.ParseMode(cfg.Engine.Mode)
		if len(args) > 1 {
			output = args[1]
		}
		if len(args) > 2 {
			mode = grouping.ParseMode(args[2])
		}

		env, err := initGroupingEnv()
		if err != nil {
			return err
		}

		out, err := env.groupFile(input, mode, groupCategory)
		if err != nil {
			return err
		}

		if err := writeOutput(out, output); err != nil {
			return err
		}
		logSummary(out)
		return nil
	},
}

func init() {
	groupCmd.Flags().StringVar(&groupCategory, "category", "", "category label for feeds that carry none")
	rootCmd.AddCommand(groupCmd)
}
