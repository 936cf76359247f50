package model

// Location holds the canonical address fields for a group, taken from the
// first record observed at that address. Pointer fields marshal as null when
// the source carried no usable value.
type Location struct {
	Address       string   `json:"address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	Zip           string   `json:"zip"`
	County        *string  `json:"county"`
	FullAddress   string   `json:"full_address"`
	Phone         *string  `json:"phone"`
	Website       *string  `json:"website"`
	DistanceMiles *float64 `json:"distance_miles,omitempty"`
	LocationName  string   `json:"location_name,omitempty"`
}

// Projection is the provider-facing view of a record. The field set is
// adapter data, so a map rather than a fixed struct.
type Projection map[string]any

// LocationGroup is the deduplicated output unit: one physical address with
// its associated providers.
type LocationGroup struct {
	Location      Location     `json:"location"`
	ProviderCount int          `json:"provider_count"`
	Providers     []Projection `json:"providers"`
}

// GroupMeta summarizes a grouping run.
type GroupMeta struct {
	TotalLocations int    `json:"total_locations"`
	TotalProviders int    `json:"total_providers"`
	GroupingMethod string `json:"grouping_method"`
}

// GroupedOutput is the batch output document.
type GroupedOutput struct {
	Meta        map[string]any  `json:"meta"`
	MetaGrouped GroupMeta       `json:"meta_grouped"`
	Locations   []LocationGroup `json:"locations"`
}
