// core/selector/compile.go
package selector

import (
	"sort"

	"simfilter/core/hit"
)

// Database is one reference database's selection result.
type Database struct {
	Path string
	Best BestHits
}

// Compile folds per-database winners into one best hit per query. Every hit
// is switched to cross-database mode and flagged as a database hit before
// comparison. Databases are folded in ascending path order, so for distinct
// paths the result does not depend on the order of dbs; databases sharing a
// path keep their order in dbs. The input maps are not modified.
func Compile(params hit.Params, dbs []Database) BestHits {
	ordered := append([]Database(nil), dbs...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Path < ordered[j].Path })

	size := 0
	for _, db := range ordered {
		if len(db.Best) > size {
			size = len(db.Best)
		}
	}
	compiled := make(BestHits, size)
	for _, db := range ordered {
		for _, id := range db.Best.QueryIDs() {
			h := db.Best[id]
			h.Mode = hit.CrossDatabase
			h.DatabaseHit = true

			cur, ok := compiled[id]
			if !ok || params.Better(hit.CrossDatabase, h, cur) {
				compiled[id] = h
			}
		}
	}
	return compiled
}
