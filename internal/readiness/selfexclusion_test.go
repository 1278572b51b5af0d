package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simplesurance/draftguard/internal/githubclt"
)

func TestExcludeSelfRunMatchesByID(t *testing.T) {
	self := run(selfRunID, githubclt.RunStatusInProgress, githubclt.ConclusionNone)
	sibling := run(7, githubclt.RunStatusInProgress, githubclt.ConclusionNone)

	result := ExcludeSelfRun([]*githubclt.WorkflowRun{self, sibling}, selfRunID)
	assert.Equal(t, []*githubclt.WorkflowRun{sibling}, result)
}

func TestExcludeSelfRunWithoutSelfRunID(t *testing.T) {
	runs := []*githubclt.WorkflowRun{successfulRun(1), successfulRun(2)}
	assert.Equal(t, runs, ExcludeSelfRun(runs, 0))
}

func TestOnlySelfRunIsReady(t *testing.T) {
	for _, status := range []githubclt.RunStatus{
		githubclt.RunStatusQueued,
		githubclt.RunStatusInProgress,
		githubclt.RunStatusCompleted,
	} {
		t.Run(string(status), func(t *testing.T) {
			runs := ExcludeSelfRun([]*githubclt.WorkflowRun{run(selfRunID, status, githubclt.ConclusionNone)}, selfRunID)

			verdict, _ := Evaluate(&Snapshot{Runs: runs})
			assert.Equal(t, VerdictReady, verdict)
		})
	}
}

func TestExcludeSelfJobs(t *testing.T) {
	siblingJob := job(10, 7, githubclt.RunStatusCompleted, githubclt.ConclusionFailure)

	jobs := map[int64][]*githubclt.WorkflowJob{
		selfRunID: {job(20, selfRunID, githubclt.RunStatusInProgress, githubclt.ConclusionNone)},
		7:         {siblingJob, job(21, selfRunID, githubclt.RunStatusQueued, githubclt.ConclusionNone)},
	}

	result := ExcludeSelfJobs(jobs, selfRunID)
	assert.Equal(t, map[int64][]*githubclt.WorkflowJob{7: {siblingJob}}, result)
}
