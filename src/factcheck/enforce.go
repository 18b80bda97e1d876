package factcheck

import "slices"

// Enforce downgrades r when the allow-list removed every source the model
// cited. preFilterCount is the number of sources before filtering. A result
// whose model found no sources at all is left untouched.
//
// Enforce reports whether it changed r. Applying it twice is a no-op the
// second time.
func Enforce(r *Result, preFilterCount int) bool {
	if preFilterCount == 0 || len(r.Sources) > 0 {
		return false
	}
	changed := r.Verdict != VerdictUnverified || r.ConfidenceScore != 0 ||
		r.Summary != untrustedSummary || r.IsDeveloping || !slices.Equal(r.KeyFacts, untrustedKeyFacts)

	r.Verdict = VerdictUnverified
	r.ConfidenceScore = 0
	r.Summary = untrustedSummary
	r.IsDeveloping = false
	r.KeyFacts = append([]string(nil), untrustedKeyFacts...)
	r.Sources = []Source{}
	return changed
}
