// Package taxonomy maps scientific species names to NCBI tax ids and lineages.
//
// A Lookup is built once and only read afterwards, so one instance can be
// shared by every per-database worker.
package taxonomy

import (
	"context"
	"strings"
)

// Separator joins tax id and lineage in a stored record: "<taxid>||<lineage>".
const Separator = "||"

// Entry is one taxonomy record.
type Entry struct {
	TaxID   string
	Lineage string
}

// Record renders e in the stored "<taxid>||<lineage>" form.
func (e Entry) Record() string { return e.TaxID + Separator + e.Lineage }

// ParseRecord splits a stored record. A record without the separator has no
// usable lineage and yields an Entry with only TaxID set.
func ParseRecord(raw string) Entry {
	i := strings.Index(raw, Separator)
	if i < 0 {
		return Entry{TaxID: raw}
	}
	return Entry{TaxID: raw[:i], Lineage: raw[i+len(Separator):]}
}

// Loader produces the full in-memory lookup in one blocking call.
type Loader interface {
	Load(ctx context.Context) (*Lookup, error)
}

// Lookup is a case-insensitive species → Entry map.
type Lookup struct {
	m map[string]Entry
}

// New builds a Lookup. Keys are lowercased. When several keys differ only
// by case, the entry of the smallest key in byte order is kept.
func New(entries map[string]Entry) *Lookup {
	l := &Lookup{m: make(map[string]Entry, len(entries))}
	from := make(map[string]string, len(entries))
	for k, v := range entries {
		lk := strings.ToLower(k)
		if prev, ok := from[lk]; ok && prev < k {
			continue
		}
		from[lk] = k
		l.m[lk] = v
	}
	return l
}

// Len returns the number of species in the lookup.
func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.m)
}

// Get looks up species case-insensitively. The empty species never matches.
func (l *Lookup) Get(species string) (Entry, bool) {
	if l == nil || species == "" {
		return Entry{}, false
	}
	e, ok := l.m[strings.ToLower(species)]
	return e, ok
}

// Lineage returns the lineage for species, or "" when unknown.
func (l *Lookup) Lineage(species string) string {
	e, _ := l.Get(species)
	return e.Lineage
}

// NormalizeSpecies turns a command-line species such as "Homo_sapiens" into
// the lookup key form "homo sapiens". Only the first underscore separates
// genus from epithet.
func NormalizeSpecies(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if g, sp, ok := strings.Cut(s, "_"); ok {
		return g + " " + sp
	}
	return s
}
