package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carenav/directory-cli/internal/feed"
	"github.com/carenav/directory-cli/internal/grouping"
	"github.com/carenav/directory-cli/internal/model"
)

func newTestEnv() *groupingEnv {
	norm := grouping.NewNormalizer("null")
	return &groupingEnv{
		grouper:   grouping.NewGrouper(norm),
		assembler: grouping.NewAssembler(norm),
		adapters:  feed.DefaultAdapters(),
	}
}

func writeTempFeed(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestGroupFile_FlatFeed(t *testing.T) {
	path := writeTempFeed(t, `{
		"meta": {"source": "network export"},
		"providers": [
			{"name": "Dr. A", "address": "123 Main Street", "city": "Goleta", "state": "CA", "zip": "93117"},
			{"name": "Dr. B", "address": "123 Main St.", "city": "Goleta", "state": "CA", "zip": "93117"}
		]
	}`)

	out, err := newTestEnv().groupFile(path, grouping.ModeExact, "")
	require.NoError(t, err)

	assert.Equal(t, 1, out.MetaGrouped.TotalLocations)
	assert.Equal(t, 2, out.MetaGrouped.TotalProviders)
	require.Len(t, out.Locations, 1)
	assert.Equal(t, "123 Main Street, Goleta, CA, 93117", out.Locations[0].Location.FullAddress)
	assert.Equal(t, "network export", out.Meta["source"])
}

func TestGroupFile_AdapterDefaultsApplied(t *testing.T) {
	path := writeTempFeed(t, `{
		"grouped_providers": {
			"Dental": [
				{"address": "9 Elm St", "city": "Lompoc", "state": "CA", "zip": "93436"}
			]
		}
	}`)

	out, err := newTestEnv().groupFile(path, grouping.ModeExact, "")
	require.NoError(t, err)
	require.Len(t, out.Locations, 1)
	require.Len(t, out.Locations[0].Providers, 1)

	p := out.Locations[0].Providers[0]
	assert.Equal(t, "Dental Provider", p["name"])
	assert.Equal(t, "Dental", p["specialty"])
	_, hasCategory := p["original_category"]
	assert.False(t, hasCategory, "dental projection omits original_category")
}

func TestGroupFile_CategoryLabelsUnlabeledFeed(t *testing.T) {
	path := writeTempFeed(t, `{
		"locations": [
			{
				"location_name": "IV Urgent Care",
				"address": "45 Oak Ave",
				"city": "Goleta",
				"state": "CA",
				"zip": "93117",
				"phone": "805-555-0200",
				"people": [
					{"name": "Dr. A", "provider_role": "Physician"}
				]
			},
			{
				"location_name": "",
				"address": "9 Elm St",
				"city": "Goleta",
				"state": "CA",
				"zip": "93117",
				"people": []
			}
		]
	}`)

	out, err := newTestEnv().groupFile(path, grouping.ModeExact, "urgent_care")
	require.NoError(t, err)
	require.Len(t, out.Locations, 2)

	// Location-shape records carry no category of their own; the flag binds
	// them to the urgent_care adapter and its projection.
	p := out.Locations[0].Providers[0]
	assert.Equal(t, "Dr. A", p["name"])
	assert.Equal(t, "Physician", p["provider_role"])
	_, hasWebsite := p["website"]
	assert.False(t, hasWebsite, "urgent_care projection omits website")

	// A nameless facility record picks up the adapter's default name.
	assert.Equal(t, "Urgent Care Facility", out.Locations[1].Providers[0]["name"])
}

func TestGroupFile_MissingInput(t *testing.T) {
	_, err := newTestEnv().groupFile(filepath.Join(t.TempDir(), "absent.json"), grouping.ModeExact, "")
	assert.Error(t, err)
}

func TestWriteOutput_RoundTrip(t *testing.T) {
	out := model.GroupedOutput{
		Meta: map[string]any{},
		MetaGrouped: model.GroupMeta{
			TotalLocations: 1,
			TotalProviders: 1,
			GroupingMethod: "by_address_location",
		},
		Locations: []model.LocationGroup{{
			Location:      model.Location{FullAddress: "1 A St, Town, CA, 90000"},
			ProviderCount: 1,
			Providers:     []model.Projection{{"name": "Dr. A"}},
		}},
	}

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeOutput(out, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got model.GroupedOutput
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, out.MetaGrouped, got.MetaGrouped)
	require.Len(t, got.Locations, 1)
	assert.Equal(t, "1 A St, Town, CA, 90000", got.Locations[0].Location.FullAddress)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "feeds/dental.grouped.json", outputPath("feeds/dental.json"))
	assert.Equal(t, "export.xlsx.grouped.json", outputPath("export.xlsx"))
}

func TestFilterByCategory(t *testing.T) {
	doc := model.GroupedOutput{
		MetaGrouped: model.GroupMeta{
			TotalLocations: 2,
			TotalProviders: 3,
			GroupingMethod: "by_address_location",
		},
		Locations: []model.LocationGroup{
			{
				Location:      model.Location{FullAddress: "1 A St, Town, CA, 90000"},
				ProviderCount: 2,
				Providers: []model.Projection{
					{"name": "Dr. A", "original_category": "Dental"},
					{"name": "Dr. B", "original_category": "Primary Care"},
				},
			},
			{
				Location:      model.Location{FullAddress: "2 B St, Town, CA, 90000"},
				ProviderCount: 1,
				Providers: []model.Projection{
					{"name": "Dr. C", "original_category": "Primary Care"},
				},
			},
		},
	}

	out := filterByCategory(doc, "Primary Care")
	assert.Equal(t, 2, out.MetaGrouped.TotalLocations)
	assert.Equal(t, 2, out.MetaGrouped.TotalProviders)
	for _, loc := range out.Locations {
		assert.Equal(t, len(loc.Providers), loc.ProviderCount)
		for _, p := range loc.Providers {
			assert.Equal(t, "Primary Care", p["original_category"])
		}
	}

	// Category present at only one location drops the other entirely.
	dental := filterByCategory(doc, "Dental")
	assert.Equal(t, 1, dental.MetaGrouped.TotalLocations)
	assert.Equal(t, 1, dental.MetaGrouped.TotalProviders)

	// Unknown category empties the document.
	none := filterByCategory(doc, "Chiropractic")
	assert.Equal(t, 0, none.MetaGrouped.TotalLocations)
	assert.Equal(t, 0, none.MetaGrouped.TotalProviders)
	assert.Empty(t, none.Locations)

	// Grouping method carries through untouched.
	assert.Equal(t, "by_address_location", out.MetaGrouped.GroupingMethod)
}
