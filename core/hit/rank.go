// core/hit/rank.go
package hit

import "math"

const (
	// DefaultEValueGate is the order-of-magnitude gap at which the smaller
	// e-value wins outright.
	DefaultEValueGate = 7.0
	// DefaultCoverageDelta is the coverage difference (percentage points)
	// that must be exceeded for coverage to decide.
	DefaultCoverageDelta = 5.0
	// ZeroEValue replaces an e-value of 0 before taking its logarithm.
	ZeroEValue = 1e-180
	// DefaultInternalFrame marks frames assigned internally by frame
	// selection; such frames are not comparable by coverage.
	DefaultInternalFrame = "Internal"
)

// Params configures the ranking order.
type Params struct {
	EValueGate    float64
	CoverageDelta float64
	InternalFrame string
}

// DefaultParams returns the fixed thresholds.
func DefaultParams() Params {
	return Params{
		EValueGate:    DefaultEValueGate,
		CoverageDelta: DefaultCoverageDelta,
		InternalFrame: DefaultInternalFrame,
	}
}

// Better reports whether challenger strictly beats incumbent under mode.
// Ties keep the incumbent. Better has no side effects.
func (p Params) Better(mode Mode, challenger, incumbent Hit) bool {
	if mode == PerDatabase {
		e1, e2 := normEValue(challenger.EValue), normEValue(incumbent.EValue)
		if math.Abs(math.Log10(e1)-math.Log10(e2)) >= p.EValueGate {
			return e1 < e2
		}
	}
	return p.tieBreak(challenger, incumbent)
}

// tieBreak is the chain shared by both modes: contaminant status, then
// coverage for comparable frames, then taxonomic score.
func (p Params) tieBreak(a, b Hit) bool {
	if a.Contaminant != b.Contaminant {
		return !a.Contaminant
	}
	if p.framesComparable(a.Frame, b.Frame) {
		if math.Abs(a.Coverage-b.Coverage) > p.CoverageDelta {
			return a.Coverage > b.Coverage
		}
	}
	return a.TaxScore > b.TaxScore
}

func (p Params) framesComparable(f1, f2 string) bool {
	return f1 != "" && f2 != "" && f1 != p.InternalFrame && f2 != p.InternalFrame
}

func normEValue(e float64) float64 {
	if e == 0 {
		return ZeroEValue
	}
	return e
}
