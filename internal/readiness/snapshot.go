package readiness

import (
	"github.com/simplesurance/draftguard/internal/githubclt"
)

// Snapshot is the CI state of a commit, as observed during a single
// evaluation.
type Snapshot struct {
	Runs []*githubclt.WorkflowRun
	// Jobs contains the jobs of runs that were expanded, indexed by run
	// id. Runs that were not expanded have no entry.
	Jobs map[int64][]*githubclt.WorkflowJob
}

// Expanded returns the jobs of the run and true if the jobs of the run were
// retrieved.
func (s *Snapshot) Expanded(runID int64) ([]*githubclt.WorkflowJob, bool) {
	jobs, exists := s.Jobs[runID]
	return jobs, exists
}

func hasIncompleteRun(runs []*githubclt.WorkflowRun) bool {
	for _, run := range runs {
		if !run.Status.IsCompleted() {
			return true
		}
	}

	return false
}
