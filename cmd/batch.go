package main

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/carenav/directory-cli/internal/grouping"
)

var (
	batchInputs      []string
	batchBase        bool
	batchConcurrency int
	batchCategory    string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Group several provider feeds in one run",
	Long: `Batch runs the grouping pipeline over multiple feed files concurrently.
Each input produces a sibling output named <input>.grouped.json. A failing
file is logged and skipped; the command exits non-zero if any file failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := grouping.ParseMode(cfg.Engine.Mode)
		if batchBase {
			mode = grouping.ModeBase
		}

		env, err := initGroupingEnv()
		if err != nil {
			return err
		}

		jobID := uuid.NewString()
		log := zap.L().With(zap.String("job_id", jobID))
		log.Info("batch started",
			zap.Int("files", len(batchInputs)),
			zap.String("grouping_method", mode.Method()),
		)

		var g errgroup.Group
		g.SetLimit(batchConcurrency)

		failed := make([]string, len(batchInputs))
		for i, input := range batchInputs {
			g.Go(func() error {
				output := outputPath(input)
				out, err := env.groupFile(input, mode, batchCategory)
				if err == nil {
					err = writeOutput(out, output)
				}
				if err != nil {
					log.Error("batch file failed",
						zap.String("input", input),
						zap.Error(err),
					)
					failed[i] = input
					return nil
				}
				log.Info("batch file done",
					zap.String("input", input),
					zap.String("output", output),
					zap.Int("locations", out.MetaGrouped.TotalLocations),
					zap.Int("providers", out.MetaGrouped.TotalProviders),
				)
				return nil
			})
		}
		_ = g.Wait()

		var bad []string
		for _, f := range failed {
			if f != "" {
				bad = append(bad, f)
			}
		}
		if len(bad) > 0 {
			return eris.Errorf("batch: %d of %d files failed: %s",
				len(bad), len(batchInputs), strings.Join(bad, ", "))
		}
		log.Info("batch finished", zap.Int("files", len(batchInputs)))
		return nil
	},
}

// outputPath derives the grouped-output filename for a feed input.
func outputPath(input string) string {
	return strings.TrimSuffix(input, ".json") + ".grouped.json"
}

func init() {
	batchCmd.Flags().StringArrayVar(&batchInputs, "input", nil, "feed file to group (repeatable)")
	batchCmd.Flags().BoolVar(&batchBase, "base", false, "merge suite/unit variants into one location")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "maximum files processed in parallel")
	batchCmd.Flags().StringVar(&batchCategory, "category", "", "category label for feeds that carry none")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}
