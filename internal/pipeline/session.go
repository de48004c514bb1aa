package pipeline

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Session is the state of one filter run shared by its stages. It is owned
// by the command driver and passed explicitly.
type Session struct {
	RunID     uuid.UUID
	Started   time.Time
	Databases []string // alignment files, in the order they were given or found
}

// NewSession starts a session over databases. A path given more than once
// (after filepath.Clean) is kept at its first position only.
func NewSession(databases []string) *Session {
	seen := make(map[string]bool, len(databases))
	uniq := make([]string, 0, len(databases))
	for _, p := range databases {
		c := filepath.Clean(p)
		if seen[c] {
			continue
		}
		seen[c] = true
		uniq = append(uniq, p)
	}
	return &Session{
		RunID:     uuid.New(),
		Started:   time.Now(),
		Databases: uniq,
	}
}
