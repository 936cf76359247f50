// Package grouping implements the address-consolidation engine: address
// normalization, location key derivation, record bucketing, and output
// assembly.
package grouping

import (
	"regexp"
	"strings"
)

// DefaultSentinels are the textual placeholders upstream exports emit to mean
// "value absent". The set is configurable because future feeds may introduce
// others (e.g. "N/A").
var DefaultSentinels = []string{"null"}

// streetExpansions rewrites common street-type abbreviations to their full
// words. Whole-word matches only, with an optional trailing period, so "St"
// in "Stanley" is left alone.
var streetExpansions = []struct {
	re   *regexp.Regexp
	full string
}{
	{regexp.MustCompile(`\b(st|street)\b\.?`), "street"},
	{regexp.MustCompile(`\b(ave|avenue)\b\.?`), "avenue"},
	{regexp.MustCompile(`\b(rd|road)\b\.?`), "road"},
	{regexp.MustCompile(`\b(blvd|boulevard)\b\.?`), "boulevard"},
	{regexp.MustCompile(`\b(dr|drive)\b\.?`), "drive"},
	{regexp.MustCompile(`\b(ct|court)\b\.?`), "court"},
	{regexp.MustCompile(`\b(ln|lane)\b\.?`), "lane"},
}

var (
	// Suite/unit markers are standardized but the following identifier is
	// preserved, so "Suite 200" and "Ste. 200" converge while staying
	// distinct from "Suite 300".
	suiteMarker = regexp.MustCompile(`\b(ste|suite)\b\s*\.?\s*`)
	unitMarker  = regexp.MustCompile(`\b(unit|apt|apartment)\b\s*\.?\s*`)

	// suiteSuffix strips a suite/unit marker and everything after it for
	// base-address derivation.
	suiteSuffix = regexp.MustCompile(`\s*\b(ste|suite|unit|apt|apartment)\b\s*\.?\s*[a-z0-9]+.*$`)

	// separators collapses runs of commas and whitespace (including CR/LF
	// sequences from upstream exports) into a single space.
	separators = regexp.MustCompile(`[,\s]+`)
)

// Normalizer canonicalizes raw address strings into comparable forms.
type Normalizer struct {
	sentinels map[string]struct{}
}

// NewNormalizer builds a Normalizer recognizing the given sentinel values.
// With no arguments it recognizes DefaultSentinels.
func NewNormalizer(sentinels ...string) *Normalizer {
	if len(sentinels) == 0 {
		sentinels = DefaultSentinels
	}
	set := make(map[string]struct{}, len(sentinels))
	for _, s := range sentinels {
		set[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	return &Normalizer{sentinels: set}
}

// IsSentinel reports whether the trimmed, case-folded value is a recognized
// absent-value placeholder.
func (n *Normalizer) IsSentinel(s string) bool {
	_, ok := n.sentinels[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Clean maps sentinel values to the empty string and trims whitespace,
// leaving real values untouched.
func (n *Normalizer) Clean(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || n.IsSentinel(s) {
		return ""
	}
	return s
}

// Normalize canonicalizes an address for comparison: lowercased, trimmed,
// street-type abbreviations expanded, suite/unit markers standardized with
// their identifiers preserved, and separator runs collapsed. Idempotent;
// empty or sentinel input yields "".
func (n *Normalizer) Normalize(address string) string {
	addr := n.Clean(address)
	if addr == "" {
		return ""
	}

	addr = strings.ToLower(addr)

	for _, exp := range streetExpansions {
		addr = exp.re.ReplaceAllString(addr, exp.full)
	}

	addr = suiteMarker.ReplaceAllString(addr, "ste ")
	addr = unitMarker.ReplaceAllString(addr, "unit ")

	addr = separators.ReplaceAllString(addr, " ")
	return strings.TrimSpace(addr)
}

// Base derives the building-level address: lowercased, trimmed, with the
// suite/unit suffix (marker plus identifier) removed. Street types are not
// expanded; the base form exists only to group occupants of the same
// building. Empty or sentinel input yields "".
func (n *Normalizer) Base(address string) string {
	addr := n.Clean(address)
	if addr == "" {
		return ""
	}

	addr = strings.ToLower(addr)
	addr = suiteSuffix.ReplaceAllString(addr, "")
	addr = separators.ReplaceAllString(addr, " ")
	return strings.TrimSpace(addr)
}
