// Package feed loads heterogeneous provider feeds and normalizes them into
// the common record shape the grouping engine consumes.
package feed

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/carenav/directory-cli/internal/model"
)

// Adapter describes, as data, how one feed category's records are presented:
// default values for gaps and the provider-facing projection field list.
// Adapters exist so per-feed differences live in configuration instead of
// per-feed copies of the grouping logic.
type Adapter struct {
	DefaultName      string   `yaml:"default_name"`
	DefaultSpecialty string   `yaml:"default_specialty"`
	Project          []string `yaml:"project"`
}

// AdapterSet maps feed-category labels to adapters. The "default" entry
// applies to categories without their own adapter.
type AdapterSet struct {
	Adapters map[string]Adapter `yaml:"adapters"`
}

// DefaultAdapters returns the compiled-in adapter set covering the known
// source feeds.
func DefaultAdapters() *AdapterSet {
	return &AdapterSet{
		Adapters: map[string]Adapter{
			"default": {
				Project: []string{"name", "specialty", "phone", "website", "original_category"},
			},
			"Dental": {
				DefaultName:      "Dental Provider",
				DefaultSpecialty: "Dental",
				Project:          []string{"name", "specialty", "phone", "website"},
			},
			"urgent_care": {
				DefaultName:      "Urgent Care Facility",
				DefaultSpecialty: "Urgent Care",
				Project:          []string{"name", "specialties", "provider_role", "gender", "phone"},
			},
		},
	}
}

// LoadAdapters reads an adapter set from a YAML file. Entries present in the
// file override the compiled-in defaults; categories the file does not
// mention keep their default adapter.
func LoadAdapters(path string) (*AdapterSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "feed: read adapter config %s", path)
	}

	var loaded AdapterSet
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, eris.Wrapf(err, "feed: parse adapter config %s", path)
	}

	set := DefaultAdapters()
	for label, adapter := range loaded.Adapters {
		set.Adapters[label] = adapter
	}
	return set, nil
}

// For returns the adapter for a feed-category label, falling back to the
// "default" adapter for unknown labels.
func (s *AdapterSet) For(label string) Adapter {
	if a, ok := s.Adapters[label]; ok {
		return a
	}
	return s.Adapters["default"]
}

// Apply fills a record's gaps from the adapter's defaults. The record is
// passed by value; the caller's copy is never mutated.
func (a Adapter) Apply(rec model.ProviderRecord) model.ProviderRecord {
	if rec.Name == "" && a.DefaultName != "" {
		rec.Name = a.DefaultName
	}
	if len(rec.Specialties) == 0 && a.DefaultSpecialty != "" {
		rec.Specialties = []string{a.DefaultSpecialty}
	}
	return rec
}

// Projection returns the adapter's projection field list, or nil when the
// engine default should apply.
func (a Adapter) Projection() []string {
	return a.Project
}
