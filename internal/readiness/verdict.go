package readiness

import "fmt"

// Verdict is the readiness classification of the CI state of a commit.
type Verdict uint8

const (
	VerdictUndefined Verdict = iota
	// VerdictReady means all workflow runs completed successfully or were
	// skipped.
	VerdictReady
	// VerdictPending means at least one workflow run or job did not
	// complete yet.
	VerdictPending
	// VerdictFailed means all runs completed and at least one did not
	// succeed.
	VerdictFailed
)

var verdictStrings = [...]string{
	VerdictUndefined: "UNDEFINED",
	VerdictReady:     "READY",
	VerdictPending:   "PENDING",
	VerdictFailed:    "FAILED",
}

func (v Verdict) String() string {
	if int(v) > len(verdictStrings)-1 {
		return fmt.Sprintf("unsupported Verdict value: %d", v)
	}

	return verdictStrings[v]
}

// BlocksReview returns true if a pull request with the verdict must be
// converted to a draft.
// VerdictPending and VerdictFailed result in the same action, they are only
// distinguished for diagnostics.
func (v Verdict) BlocksReview() bool {
	return v == VerdictPending || v == VerdictFailed
}
