package readiness

import (
	"github.com/simplesurance/draftguard/internal/githubclt"
)

// ExcludeSelfRun returns runs without the run with the id selfRunID.
// Runs are matched by id only, never by their state.
// If selfRunID is 0, runs is returned unchanged.
func ExcludeSelfRun(runs []*githubclt.WorkflowRun, selfRunID int64) []*githubclt.WorkflowRun {
	if selfRunID == 0 {
		return runs
	}

	result := make([]*githubclt.WorkflowRun, 0, len(runs))
	for _, run := range runs {
		if run.ID == selfRunID {
			continue
		}

		result = append(result, run)
	}

	return result
}

// ExcludeSelfJobs returns jobs without the jobs that belong to the run with
// the id selfRunID.
// If selfRunID is 0, jobs is returned unchanged.
func ExcludeSelfJobs(jobs map[int64][]*githubclt.WorkflowJob, selfRunID int64) map[int64][]*githubclt.WorkflowJob {
	if selfRunID == 0 {
		return jobs
	}

	result := make(map[int64][]*githubclt.WorkflowJob, len(jobs))
	for runID, runJobs := range jobs {
		if runID == selfRunID {
			continue
		}

		filtered := make([]*githubclt.WorkflowJob, 0, len(runJobs))
		for _, job := range runJobs {
			if job.RunID == selfRunID {
				continue
			}

			filtered = append(filtered, job)
		}

		result[runID] = filtered
	}

	return result
}
