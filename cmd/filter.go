package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carenav/directory-cli/internal/model"
)

var filterCategory string

var filterCmd = &cobra.Command{
	Use:   "filter <grouped.json> [output.json]",
	Short: "Filter a grouped document down to one provider category",
	Long: `Filter reads a previously grouped document and keeps only providers whose
original_category matches the given value. Locations left without providers
are dropped and the document totals are recomputed.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		output := ""
		if len(args) > 1 {
			output = args[1]
		}

		data, err := os.ReadFile(input)
		if err != nil {
			return eris.Wrapf(err, "filter: open %s", input)
		}
		var doc model.GroupedOutput
		if err := json.Unmarshal(data, &doc); err != nil {
			return eris.Wrapf(err, "filter: parse %s", input)
		}

		out := filterByCategory(doc, filterCategory)
		zap.L().Info("filter applied",
			zap.String("category", filterCategory),
			zap.Int("locations_kept", out.MetaGrouped.TotalLocations),
			zap.Int("providers_kept", out.MetaGrouped.TotalProviders),
			zap.Int("locations_before", doc.MetaGrouped.TotalLocations),
			zap.Int("providers_before", doc.MetaGrouped.TotalProviders),
		)
		return writeOutput(out, output)
	},
}

// filterByCategory keeps only providers whose original_category equals the
// given label and drops locations left empty.
func filterByCategory(doc model.GroupedOutput, category string) model.GroupedOutput {
	out := model.GroupedOutput{
		Meta:        doc.Meta,
		MetaGrouped: doc.MetaGrouped,
	}

	providers := 0
	for _, loc := range doc.Locations {
		var kept []model.Projection
		for _, p := range loc.Providers {
			if v, ok := p["original_category"]; ok && v == category {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			continue
		}
		out.Locations = append(out.Locations, model.LocationGroup{
			Location:      loc.Location,
			ProviderCount: len(kept),
			Providers:     kept,
		})
		providers += len(kept)
	}

	out.MetaGrouped.TotalLocations = len(out.Locations)
	out.MetaGrouped.TotalProviders = providers
	return out
}

func init() {
	filterCmd.Flags().StringVar(&filterCategory, "category", "", "original_category value to keep")
	_ = filterCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(filterCmd)
}
