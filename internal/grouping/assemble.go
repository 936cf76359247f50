package grouping

import (
	"sort"
	"strings"

	"github.com/carenav/directory-cli/internal/model"
)

// DefaultProjection is the provider-facing field set used when a feed adapter
// does not specify its own.
var DefaultProjection = []string{"name", "specialty", "phone", "website", "original_category"}

// ProjectionResolver returns the projection field list for a record, letting
// feeds with mixed categories project each record per its own adapter.
type ProjectionResolver func(rec model.ProviderRecord) []string

// Assembler converts buckets into the final grouped output document.
type Assembler struct {
	norm *Normalizer
}

// NewAssembler builds an Assembler over the given normalizer.
func NewAssembler(norm *Normalizer) Assembler {
	return Assembler{norm: norm}
}

// Assemble builds one LocationGroup per bucket, canonical fields taken from
// the bucket's first record, orders the collection by full_address
// (byte-lexicographic, so output is reproducible regardless of bucket
// iteration order), and computes summary metadata. A nil resolver applies
// DefaultProjection to every record.
func (a Assembler) Assemble(b *Buckets, meta map[string]any, mode Mode, project ProjectionResolver) model.GroupedOutput {
	if project == nil {
		project = func(model.ProviderRecord) []string { return DefaultProjection }
	}

	locations := make([]model.LocationGroup, 0, b.Len())
	for _, key := range b.Keys() {
		records := b.Records(key)
		first := records[0]

		providers := make([]model.Projection, 0, len(records))
		for _, rec := range records {
			providers = append(providers, a.Project(rec, project(rec)))
		}

		locations = append(locations, model.LocationGroup{
			Location:      a.location(first),
			ProviderCount: len(records),
			Providers:     providers,
		})
	}

	sort.SliceStable(locations, func(i, j int) bool {
		return locations[i].Location.FullAddress < locations[j].Location.FullAddress
	})

	if meta == nil {
		meta = map[string]any{}
	}

	return model.GroupedOutput{
		Meta: meta,
		MetaGrouped: model.GroupMeta{
			TotalLocations: len(locations),
			TotalProviders: b.Total(),
			GroupingMethod: mode.Method(),
		},
		Locations: locations,
	}
}

// Project builds the provider-facing view of a record. Every listed field is
// present in the result; fields the record lacks (or that carry a sentinel
// value) marshal as null.
func (a Assembler) Project(rec model.ProviderRecord, fields []string) model.Projection {
	out := make(model.Projection, len(fields))
	for _, field := range fields {
		v, ok := rec.Field(field)
		if !ok {
			out[field] = nil
			continue
		}
		if s, isStr := v.(string); isStr {
			if cleaned := a.norm.Clean(s); cleaned != "" {
				out[field] = cleaned
			} else {
				out[field] = nil
			}
			continue
		}
		out[field] = v
	}
	return out
}

// location derives the canonical location fields from a bucket's first
// record.
func (a Assembler) location(rec model.ProviderRecord) model.Location {
	loc := model.Location{
		Address:       a.norm.Clean(rec.Address),
		City:          a.norm.Clean(rec.City),
		State:         a.norm.Clean(rec.State),
		Zip:           a.norm.Clean(rec.Zip),
		County:        a.optional(rec.County),
		Phone:         a.optional(rec.Phone),
		Website:       a.optional(rec.Website),
		DistanceMiles: rec.DistanceMiles,
		LocationName:  a.norm.Clean(rec.LocationName),
	}
	loc.FullAddress = FullAddress(loc.Address, loc.City, loc.State, loc.Zip)
	return loc
}

func (a Assembler) optional(s string) *string {
	if cleaned := a.norm.Clean(s); cleaned != "" {
		return &cleaned
	}
	return nil
}

// FullAddress joins the non-empty parts with ", " in address, city, state,
// zip order. Never empty for a record that passed the usable-address check.
func FullAddress(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

// TopByProviderCount returns up to n groups ordered by descending provider
// count, ties keeping output order. Used for run summaries.
func TopByProviderCount(locations []model.LocationGroup, n int) []model.LocationGroup {
	top := make([]model.LocationGroup, len(locations))
	copy(top, locations)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].ProviderCount > top[j].ProviderCount
	})
	if n < len(top) {
		top = top[:n]
	}
	return top
}
