package githubclt

import "fmt"

// RunStatus is the status of a GitHub Actions workflow run or job.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusWaiting    RunStatus = "waiting"
	RunStatusRequested  RunStatus = "requested"
	RunStatusPending    RunStatus = "pending"
)

// IsCompleted returns true if the run or job reached a terminal state.
func (s RunStatus) IsCompleted() bool {
	return s == RunStatusCompleted
}

// Conclusion is the result of a completed workflow run or job.
// It is empty (null) when the run or job did not complete yet.
type Conclusion string

const (
	ConclusionNone           Conclusion = ""
	ConclusionSuccess        Conclusion = "success"
	ConclusionFailure        Conclusion = "failure"
	ConclusionCancelled      Conclusion = "cancelled"
	ConclusionSkipped        Conclusion = "skipped"
	ConclusionNeutral        Conclusion = "neutral"
	ConclusionTimedOut       Conclusion = "timed_out"
	ConclusionActionRequired Conclusion = "action_required"
	ConclusionStale          Conclusion = "stale"
	ConclusionStartupFailure Conclusion = "startup_failure"
)

func (c Conclusion) String() string {
	if c == ConclusionNone {
		return "null"
	}

	return string(c)
}

// WorkflowRun is one execution of a GitHub Actions workflow.
type WorkflowRun struct {
	ID         int64
	RunNumber  int
	RunAttempt int
	Name       string
	HeadSHA    string
	Status     RunStatus
	Conclusion Conclusion
	// PullRequests contains the numbers of the pull requests the run is
	// associated with.
	PullRequests []int
}

func (r *WorkflowRun) String() string {
	return fmt.Sprintf("%s #%d (id: %d, status: %s, conclusion: %s)",
		r.Name, r.RunNumber, r.ID, r.Status, r.Conclusion)
}

// WorkflowJob is a job of a workflow run.
type WorkflowJob struct {
	ID         int64
	RunID      int64
	Name       string
	HeadSHA    string
	Status     RunStatus
	Conclusion Conclusion
}

func (j *WorkflowJob) String() string {
	return fmt.Sprintf("%s (id: %d, status: %s, conclusion: %s)",
		j.Name, j.ID, j.Status, j.Conclusion)
}

// PullRequest is the current state of a pull request.
type PullRequest struct {
	Number int
	// NodeID is the GraphQL node id of the pull request.
	NodeID  string
	Draft   bool
	HeadSHA string
	// State is "open" or "closed".
	State  string
	Merged bool
}

// IsOpen returns true if the pull request is neither closed nor merged.
func (pr *PullRequest) IsOpen() bool {
	return pr.State != "closed" && !pr.Merged
}
