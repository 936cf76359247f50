package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/carenav/directory-cli/internal/feed"
	"github.com/carenav/directory-cli/internal/grouping"
	"github.com/carenav/directory-cli/internal/model"
)

// groupingEnv bundles the engine components and adapter set a grouping run
// needs, built once from configuration.
type groupingEnv struct {
	grouper   grouping.Grouper
	assembler grouping.Assembler
	adapters  *feed.AdapterSet
}

func initGroupingEnv() (*groupingEnv, error) {
	norm := grouping.NewNormalizer(cfg.Engine.Sentinels...)

	adapters := feed.DefaultAdapters()
	if cfg.Feeds.AdapterFile != "" {
		loaded, err := feed.LoadAdapters(cfg.Feeds.AdapterFile)
		if err != nil {
			return nil, err
		}
		adapters = loaded
	}

	return &groupingEnv{
		grouper:   grouping.NewGrouper(norm),
		assembler: grouping.NewAssembler(norm),
		adapters:  adapters,
	}, nil
}

// groupFile runs the full pipeline for one feed file: load, adapt, group,
// assemble. Spreadsheet exports (.xlsx) are accepted alongside JSON feeds.
// A non-empty category labels records the feed itself does not label
// (locations-shape feeds, spreadsheets), binding them to that adapter.
func (env *groupingEnv) groupFile(path string, mode grouping.Mode, category string) (model.GroupedOutput, error) {
	var (
		doc *feed.Document
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		doc, err = feed.ReadXLSX(path, feed.XLSXOptions{Category: category})
	} else {
		doc, err = feed.Load(path)
	}
	if err != nil {
		return model.GroupedOutput{}, err
	}

	records := make([]model.ProviderRecord, 0, len(doc.Records))
	for _, rec := range doc.Records {
		if rec.Category == "" {
			rec.Category = category
		}
		records = append(records, env.adapters.For(rec.Category).Apply(rec))
	}

	buckets := env.grouper.Group(records, mode)
	resolver := func(rec model.ProviderRecord) []string {
		if fields := env.adapters.For(rec.Category).Projection(); len(fields) > 0 {
			return fields
		}
		return grouping.DefaultProjection
	}

	return env.assembler.Assemble(buckets, doc.Meta, mode, resolver), nil
}

// writeOutput persists the grouped document as indented JSON, or prints it
// to stdout when no path is given.
func writeOutput(out model.GroupedOutput, path string) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal output")
	}

	if path == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return eris.Wrapf(err, "write output %s", path)
	}
	zap.L().Info("output written",
		zap.String("path", path),
		zap.Int("locations", out.MetaGrouped.TotalLocations),
		zap.Int("providers", out.MetaGrouped.TotalProviders),
	)
	return nil
}

// logSummary reports run statistics and the busiest locations.
func logSummary(out model.GroupedOutput) {
	meta := out.MetaGrouped

	avg := 0.0
	if meta.TotalLocations > 0 {
		avg = float64(meta.TotalProviders) / float64(meta.TotalLocations)
	}
	zap.L().Info("grouping summary",
		zap.Int("total_providers", meta.TotalProviders),
		zap.Int("total_locations", meta.TotalLocations),
		zap.Float64("avg_providers_per_location", avg),
		zap.String("grouping_method", meta.GroupingMethod),
	)

	for i, loc := range grouping.TopByProviderCount(out.Locations, 10) {
		zap.L().Info("top location",
			zap.Int("rank", i+1),
			zap.String("full_address", loc.Location.FullAddress),
			zap.Int("provider_count", loc.ProviderCount),
		)
	}
}
