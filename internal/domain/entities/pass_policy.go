package entities

import "math"

// Pass policy defaults.
const (
	DefaultPassFraction = 0.8 // 10 of 12 questions
	LegacyPassScore     = 10  // flat threshold of the first release
)

// PassPolicy decides how many correct answers a chapter attempt needs.
//
// When Fraction is set the threshold is ceil(Fraction * n). Otherwise MinScore is
// used, capped at n so that short chapters stay passable. The result is never
// below 1 for a non-empty chapter.
type PassPolicy struct {
	Fraction float64 // share of the chapter's questions, (0, 1]
	MinScore int     // flat threshold, used when Fraction is zero
}

// DefaultPassPolicy returns the fraction based policy.
func DefaultPassPolicy() PassPolicy {
	return PassPolicy{Fraction: DefaultPassFraction}
}

// FixedPassPolicy returns a flat threshold policy.
func FixedPassPolicy(score int) PassPolicy {
	return PassPolicy{MinScore: score}
}

// Required returns the passing score for a chapter attempt of n questions.
func (p PassPolicy) Required(n int) int {
	if n <= 0 {
		return 0
	}

	var required int
	switch {
	case p.Fraction > 0:
		f := min(p.Fraction, 1)
		// Rounding guard: 0.8*10 is 8.000000000000002 in float64.
		required = int(math.Ceil(f*float64(n) - 1e-9))
	case p.MinScore > 0:
		required = min(p.MinScore, n)
	default:
		required = n
	}

	return max(required, 1)
}

// Passed reports whether score passes a chapter attempt of n questions.
func (p PassPolicy) Passed(score, n int) bool {
	return n > 0 && score >= p.Required(n)
}
