// core/stats/table.go
package stats

import "sort"

// TopN is the number of entries shown per frequency table.
const TopN = 10

// Count is one (label, count) row.
type Count struct {
	Label string
	N     int
}

// Table is a frequency table sorted by count, descending.
type Table []Count

// Rank turns a frequency map into a Table ordered by count descending, then
// label ascending so equal counts render in a stable order.
func Rank(m map[string]int) Table {
	t := make(Table, 0, len(m))
	for k, v := range m {
		t = append(t, Count{Label: k, N: v})
	}
	sort.Slice(t, func(i, j int) bool {
		if t[i].N != t[j].N {
			return t[i].N > t[j].N
		}
		return t[i].Label < t[j].Label
	})
	return t
}

// Top returns at most n leading rows.
func (t Table) Top(n int) Table {
	if n < 0 || len(t) <= n {
		return t
	}
	return t[:n]
}

// Sum totals every count in t.
func (t Table) Sum() int {
	s := 0
	for _, c := range t {
		s += c.N
	}
	return s
}

// Percent returns n as a percentage of total, or 0 when total is 0.
func Percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
