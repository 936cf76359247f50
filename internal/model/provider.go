// Package model defines the shared record and group types for the
// provider-directory pipeline.
package model

import "encoding/json"

// ProviderRecord is one practitioner or facility entry from a source feed.
// Field values arrive in whatever state the upstream export produced them;
// sentinel placeholders (e.g. the literal string "null") are preserved here
// and mapped to absence by the grouping engine.
type ProviderRecord struct {
	Name          string
	Category      string // source feed classification, e.g. "primary_care", "Dental"
	Specialties   []string
	Phone         string
	Website       string
	Address       string
	City          string
	State         string
	Zip           string
	County        string
	DistanceMiles *float64
	LocationName  string
	ProviderRole  string
	Gender        string

	// Extra holds feed-specific fields that have no dedicated slot above so
	// adapter projections can still surface them.
	Extra map[string]any
}

// knownKeys are the JSON keys bound to dedicated struct fields.
var knownKeys = map[string]struct{}{
	"name": {}, "original_category": {}, "specialty": {}, "specialties": {},
	"phone": {}, "website": {}, "address": {}, "city": {}, "state": {},
	"zip": {}, "county": {}, "distance_miles": {}, "location_name": {},
	"provider_role": {}, "gender": {},
}

// UnmarshalJSON accepts the loose record shapes the feeds produce: specialty
// may be a single string or a list, and unrecognized keys are retained in
// Extra rather than dropped.
func (p *ProviderRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	getString := func(key string) string {
		msg, ok := raw[key]
		if !ok {
			return ""
		}
		var s string
		if err := json.Unmarshal(msg, &s); err == nil {
			return s
		}
		// Non-string scalar (number, bool) — keep its textual form.
		var v any
		if err := json.Unmarshal(msg, &v); err == nil && v != nil {
			if f, ok := v.(float64); ok {
				b, _ := json.Marshal(f)
				return string(b)
			}
		}
		return ""
	}

	p.Name = getString("name")
	p.Category = getString("original_category")
	p.Phone = getString("phone")
	p.Website = getString("website")
	p.Address = getString("address")
	p.City = getString("city")
	p.State = getString("state")
	p.Zip = getString("zip")
	p.County = getString("county")
	p.LocationName = getString("location_name")
	p.ProviderRole = getString("provider_role")
	p.Gender = getString("gender")

	if msg, ok := raw["distance_miles"]; ok {
		var f float64
		if err := json.Unmarshal(msg, &f); err == nil {
			p.DistanceMiles = &f
		}
	}

	for _, key := range []string{"specialty", "specialties"} {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		var list []string
		if err := json.Unmarshal(msg, &list); err == nil {
			p.Specialties = append(p.Specialties, list...)
			continue
		}
		var single string
		if err := json.Unmarshal(msg, &single); err == nil && single != "" {
			p.Specialties = append(p.Specialties, single)
		}
	}

	for key, msg := range raw {
		if _, known := knownKeys[key]; known {
			continue
		}
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[key] = v
	}

	return nil
}

// Field looks up a projection field by its feed-facing name. It returns the
// raw value and whether the record carries that field at all. Specialty is
// surfaced as a single string when the record has exactly one entry, to match
// the source feeds' scalar form.
func (p ProviderRecord) Field(name string) (any, bool) {
	switch name {
	case "name":
		return p.Name, p.Name != ""
	case "original_category":
		return p.Category, p.Category != ""
	case "specialty":
		switch len(p.Specialties) {
		case 0:
			return nil, false
		case 1:
			return p.Specialties[0], true
		default:
			return p.Specialties, true
		}
	case "specialties":
		return p.Specialties, len(p.Specialties) > 0
	case "phone":
		return p.Phone, p.Phone != ""
	case "website":
		return p.Website, p.Website != ""
	case "address":
		return p.Address, p.Address != ""
	case "city":
		return p.City, p.City != ""
	case "state":
		return p.State, p.State != ""
	case "zip":
		return p.Zip, p.Zip != ""
	case "county":
		return p.County, p.County != ""
	case "distance_miles":
		if p.DistanceMiles == nil {
			return nil, false
		}
		return *p.DistanceMiles, true
	case "location_name":
		return p.LocationName, p.LocationName != ""
	case "provider_role":
		return p.ProviderRole, p.ProviderRole != ""
	case "gender":
		return p.Gender, p.Gender != ""
	}
	if v, ok := p.Extra[name]; ok {
		return v, true
	}
	return nil, false
}
