package grouping

import (
	"github.com/carenav/directory-cli/internal/model"
)

// Buckets maps location keys to the records observed at that location.
// Records keep input order within a bucket; keys keep first-occurrence order
// so iteration is deterministic even before the assembler re-sorts.
type Buckets struct {
	keys    []string
	records map[string][]model.ProviderRecord
}

// Keys returns the location keys in first-occurrence order.
func (b *Buckets) Keys() []string { return b.keys }

// Records returns the bucket for a key in first-seen order.
func (b *Buckets) Records(key string) []model.ProviderRecord { return b.records[key] }

// Len returns the number of distinct locations.
func (b *Buckets) Len() int { return len(b.keys) }

// Total returns the number of records across all buckets, i.e. the count of
// input records with a usable address.
func (b *Buckets) Total() int {
	n := 0
	for _, recs := range b.records {
		n += len(recs)
	}
	return n
}

// Grouper partitions provider records into location buckets.
type Grouper struct {
	norm *Normalizer
	keys KeyBuilder
}

// NewGrouper builds a Grouper over the given normalizer.
func NewGrouper(norm *Normalizer) Grouper {
	return Grouper{norm: norm, keys: NewKeyBuilder(norm)}
}

// Usable reports whether a record carries an address the engine can group
// on: present, non-empty after trimming, and not a sentinel value.
func (g Grouper) Usable(rec model.ProviderRecord) bool {
	return g.norm.Clean(rec.Address) != ""
}

// Group partitions records by location key in a single pass. Records without
// a usable address are skipped entirely; they appear in no bucket and are not
// counted downstream. An empty input yields empty buckets.
func (g Grouper) Group(records []model.ProviderRecord, mode Mode) *Buckets {
	b := &Buckets{records: make(map[string][]model.ProviderRecord)}

	for _, rec := range records {
		if !g.Usable(rec) {
			continue
		}
		key := g.keys.Key(rec, mode)
		if _, seen := b.records[key]; !seen {
			b.keys = append(b.keys, key)
		}
		b.records[key] = append(b.records[key], rec)
	}

	return b
}
