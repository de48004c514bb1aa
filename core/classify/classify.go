// Package classify holds the keyword rules that flag contaminant lineages
// and uninformative subject titles. Matching is case-insensitive substring
// search, first match in configured order wins.
package classify

import "strings"

// DefaultUninformative are title phrases that mark a hit as uninformative.
var DefaultUninformative = []string{
	"conserved",
	"predicted",
	"unknown",
	"hypothetical",
	"putative",
	"unidentified",
	"uncultured",
	"uninformative",
}

// Rules is immutable after NewRules and safe for concurrent use.
type Rules struct {
	contaminants  []string
	uninformative []string
}

// NewRules lowercases and trims both lists, dropping empty and duplicate
// entries while keeping the first occurrence order.
func NewRules(contaminants, uninformative []string) Rules {
	return Rules{
		contaminants:  uniqueLower(contaminants),
		uninformative: uniqueLower(uninformative),
	}
}

// Contaminants returns the normalized contaminant keywords.
func (r Rules) Contaminants() []string { return append([]string(nil), r.contaminants...) }

// Uninformative returns the normalized uninformative phrases.
func (r Rules) Uninformative() []string { return append([]string(nil), r.uninformative...) }

// Contaminant reports whether lineage matches a contaminant keyword and
// which keyword matched. An empty keyword list or empty lineage never
// matches.
func (r Rules) Contaminant(lineage string) (bool, string) {
	if len(r.contaminants) == 0 || lineage == "" {
		return false, ""
	}
	l := strings.ToLower(lineage)
	for _, kw := range r.contaminants {
		if strings.Contains(l, kw) {
			return true, kw
		}
	}
	return false, ""
}

// Informative reports whether title contains none of the uninformative phrases.
func (r Rules) Informative(title string) bool {
	t := strings.ToLower(title)
	for _, p := range r.uninformative {
		if strings.Contains(t, p) {
			return false
		}
	}
	return true
}

func uniqueLower(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		l := strings.ToLower(strings.TrimSpace(s))
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
