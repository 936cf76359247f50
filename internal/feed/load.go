package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/carenav/directory-cli/internal/model"
)

// Shape identifies which batch-input layout a feed file used.
type Shape string

const (
	// ShapeCategories is a mapping from feed-category label to provider
	// records: {"meta": …, "grouped_providers": {"primary_care": […]}}.
	ShapeCategories Shape = "categories"
	// ShapeProviders is a flat record list: {"meta": …, "providers": […]}.
	ShapeProviders Shape = "providers"
	// ShapeLocations is a location list with embedded people:
	// {"locations": [{…, "people": […]}]}.
	ShapeLocations Shape = "locations"
)

// Document is a decoded feed: input-level metadata plus records normalized
// into the common shape, in feed order.
type Document struct {
	Meta    map[string]any
	Records []model.ProviderRecord
	Shape   Shape
}

// envelope covers all accepted batch-input layouts; exactly one of the three
// payload fields is expected to be populated.
type envelope struct {
	Meta             map[string]any                    `json:"meta"`
	GroupedProviders map[string][]model.ProviderRecord `json:"grouped_providers"`
	Providers        []model.ProviderRecord            `json:"providers"`
	Locations        []locationEntry                   `json:"locations"`
}

// locationEntry is the ShapeLocations element: a facility with its people.
type locationEntry struct {
	LocationName string   `json:"location_name"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Zip          string   `json:"zip"`
	County       string   `json:"county"`
	Phone        string   `json:"phone"`
	Website      string   `json:"website"`
	People       []person `json:"people"`
}

type person struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"provider_role"`
}

var multiSpace = regexp.MustCompile(`\s+`)

// scrub collapses line breaks and whitespace runs that upstream exports leave
// inside address strings.
func scrub(s string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}

// Load reads and decodes a feed file, accepting any of the three known
// layouts. A missing file or malformed JSON is fatal; per-record gaps are
// not. Record order follows the feed, including the document order of
// category labels, so the first record at an address is the one the feed
// listed first.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "feed: open %s", path)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, eris.Errorf("feed: parse %s: %v (byte offset %d)", path, err, syntaxErr.Offset)
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, eris.Errorf("feed: parse %s: %v (byte offset %d)", path, err, typeErr.Offset)
		}
		return nil, eris.Wrapf(err, "feed: parse %s", path)
	}

	doc := &Document{Meta: env.Meta}

	switch {
	case env.GroupedProviders != nil:
		doc.Shape = ShapeCategories
		records, err := categoryRecords(data)
		if err != nil {
			return nil, eris.Wrapf(err, "feed: parse %s", path)
		}
		doc.Records = records

	case env.Providers != nil:
		doc.Shape = ShapeProviders
		for _, rec := range env.Providers {
			rec.Address = scrub(rec.Address)
			doc.Records = append(doc.Records, rec)
		}

	case env.Locations != nil:
		doc.Shape = ShapeLocations
		for _, loc := range env.Locations {
			doc.Records = append(doc.Records, loc.records()...)
		}

	default:
		return nil, eris.Errorf("feed: %s: no grouped_providers, providers, or locations payload", path)
	}

	zap.L().Debug("feed loaded",
		zap.String("path", path),
		zap.String("shape", string(doc.Shape)),
		zap.Int("records", len(doc.Records)),
	)
	return doc, nil
}

// categoryRecords flattens grouped_providers by walking the document with a
// token decoder, so category labels are visited in document order (a plain
// map decode would lose it to map iteration).
func categoryRecords(data []byte) ([]model.ProviderRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening { of the envelope
		return nil, err
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if key, _ := keyTok.(string); key != "grouped_providers" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}

		if _, err := dec.Token(); err != nil { // opening { of grouped_providers
			return nil, err
		}
		var out []model.ProviderRecord
		for dec.More() {
			labelTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			label, _ := labelTok.(string)

			var recs []model.ProviderRecord
			if err := dec.Decode(&recs); err != nil {
				return nil, err
			}
			for _, rec := range recs {
				rec.Category = label
				rec.Address = scrub(rec.Address)
				out = append(out, rec)
			}
		}
		return out, nil
	}
	return nil, nil
}

// records expands a location entry into provider records carrying the
// location's address fields. A location without people still represents a
// place of care, so it yields one facility record named after the location.
func (l locationEntry) records() []model.ProviderRecord {
	base := model.ProviderRecord{
		Address:      scrub(l.Address),
		City:         l.City,
		State:        l.State,
		Zip:          l.Zip,
		County:       l.County,
		Phone:        l.Phone,
		Website:      l.Website,
		LocationName: l.LocationName,
	}

	if len(l.People) == 0 {
		rec := base
		rec.Name = l.LocationName
		return []model.ProviderRecord{rec}
	}

	out := make([]model.ProviderRecord, 0, len(l.People))
	for _, p := range l.People {
		rec := base
		rec.Name = p.Name
		rec.ProviderRole = p.Role
		if p.Phone != "" {
			rec.Phone = p.Phone
		}
		out = append(out, rec)
	}
	return out
}
