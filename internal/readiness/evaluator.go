package readiness

import (
	"fmt"

	"github.com/simplesurance/draftguard/internal/githubclt"
)

// Blocker is a workflow run or job that prevents the VerdictReady verdict.
type Blocker struct {
	Run *githubclt.WorkflowRun
	// Job is nil if the run itself is blocking.
	Job *githubclt.WorkflowJob
	// Verdict is the verdict the blocker causes, VerdictPending or
	// VerdictFailed.
	Verdict Verdict
}

func (b *Blocker) String() string {
	if b.Job == nil {
		return fmt.Sprintf("%s: workflow run %s", b.Verdict, b.Run)
	}

	return fmt.Sprintf("%s: job %s of workflow run %s", b.Verdict, b.Job, b.Run)
}

// isNeutral returns true for conclusions that do not prevent a pull request
// from being ready.
func isNeutral(c githubclt.Conclusion) bool {
	return c == githubclt.ConclusionSuccess || c == githubclt.ConclusionSkipped
}

// Evaluate reduces the snapshot to a verdict.
//
// The result is VerdictPending if a run is not completed, or an expanded run
// contains a job that is not completed.
// Otherwise it is VerdictFailed if a run did not succeed and was not skipped.
// For a run that was expanded, its jobs decide instead of the run
// conclusion: the run is neutral if all its jobs succeeded or were skipped.
// A completed run without conclusion and a completed run without any job
// are always VerdictFailed.
// Otherwise, including for an empty snapshot, the result is VerdictReady.
//
// The blockers that caused the returned verdict are returned as second
// value.
func Evaluate(s *Snapshot) (Verdict, []*Blocker) {
	var pending, failed []*Blocker

	for _, run := range s.Runs {
		if !run.Status.IsCompleted() {
			pending = append(pending, &Blocker{Run: run, Verdict: VerdictPending})
			continue
		}

		if isNeutral(run.Conclusion) {
			continue
		}

		if run.Conclusion == githubclt.ConclusionNone {
			failed = append(failed, &Blocker{Run: run, Verdict: VerdictFailed})
			continue
		}

		jobs, expanded := s.Expanded(run.ID)
		if !expanded || len(jobs) == 0 {
			failed = append(failed, &Blocker{Run: run, Verdict: VerdictFailed})
			continue
		}

		for _, job := range jobs {
			if !job.Status.IsCompleted() {
				pending = append(pending, &Blocker{Run: run, Job: job, Verdict: VerdictPending})
				continue
			}

			if !isNeutral(job.Conclusion) {
				failed = append(failed, &Blocker{Run: run, Job: job, Verdict: VerdictFailed})
			}
		}
	}

	if len(pending) > 0 {
		return VerdictPending, pending
	}

	if len(failed) > 0 {
		return VerdictFailed, failed
	}

	return VerdictReady, nil
}
