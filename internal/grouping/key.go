package grouping

import (
	"strings"

	"github.com/carenav/directory-cli/internal/model"
)

// Mode selects how the address component of a location key is derived.
type Mode string

const (
	// ModeExact keys on the fully normalized address, so distinct suites in
	// one building form distinct groups.
	ModeExact Mode = "exact"
	// ModeBase keys on the base address with suite/unit suffixes stripped,
	// consolidating a building's occupants into one group.
	ModeBase Mode = "base"
)

// ParseMode interprets a CLI-style flag value. The truthy values true, 1,
// yes, and base (case-insensitive) select ModeBase; anything else is
// ModeExact.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "base":
		return ModeBase
	}
	return ModeExact
}

// Method returns the grouping_method label for output metadata.
func (m Mode) Method() string {
	if m == ModeBase {
		return "by_base_address"
	}
	return "by_address_location"
}

// keySeparator joins key components. Pipes do not occur in postal address
// fields, so "a"+"b" can never collide with "ab"+"" across field boundaries.
const keySeparator = "|"

// KeyBuilder derives location keys from provider records.
type KeyBuilder struct {
	norm *Normalizer
}

// NewKeyBuilder builds a KeyBuilder over the given normalizer.
func NewKeyBuilder(norm *Normalizer) KeyBuilder {
	return KeyBuilder{norm: norm}
}

// Key computes the grouping key for a record: the mode-dependent address
// component plus lowercase-trimmed city and state and trimmed zip, joined
// with a fixed separator. Pure function of its inputs.
func (k KeyBuilder) Key(rec model.ProviderRecord, mode Mode) string {
	var address string
	if mode == ModeBase {
		address = k.norm.Base(rec.Address)
	} else {
		address = k.norm.Normalize(rec.Address)
	}

	city := strings.ToLower(k.norm.Clean(rec.City))
	state := strings.ToLower(k.norm.Clean(rec.State))
	zip := k.norm.Clean(rec.Zip)

	return strings.Join([]string{address, city, state, zip}, keySeparator)
}
