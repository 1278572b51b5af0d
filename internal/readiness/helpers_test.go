package readiness

import (
	"testing"

	"github.com/golang/mock/gomock"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/simplesurance/draftguard/internal/githubclt"
	"github.com/simplesurance/draftguard/internal/readiness/mocks"
)

const (
	repoOwner = "testman"
	repo      = "repo"
	commitSHA = "8ad9dec3f6d9f1a3c1e8e9c0b7d2a4f5e6b7c8d9"
	prNumber  = 42
	prNodeID  = "PR_kwDOAAAB"
	selfRunID = 1000
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupLogger(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))
}

func newMockClient(t *testing.T) *mocks.MockGithubClient {
	t.Helper()

	setupLogger(t)

	return mocks.NewMockGithubClient(gomock.NewController(t))
}

func testRepository() *Repository {
	return &Repository{Owner: repoOwner, Name: repo}
}

func testInput() *Input {
	return &Input{
		Repository:   *testRepository(),
		PullRequest:  prNumber,
		CommitSHA:    commitSHA,
		SelfRunID:    selfRunID,
		LeaveComment: true,
		CommentBody:  "converted to draft",
	}
}

func run(id int64, status githubclt.RunStatus, conclusion githubclt.Conclusion) *githubclt.WorkflowRun {
	return &githubclt.WorkflowRun{
		ID:           id,
		RunNumber:    int(id),
		Name:         "workflow",
		HeadSHA:      commitSHA,
		Status:       status,
		Conclusion:   conclusion,
		PullRequests: []int{prNumber},
	}
}

func successfulRun(id int64) *githubclt.WorkflowRun {
	return run(id, githubclt.RunStatusCompleted, githubclt.ConclusionSuccess)
}

func job(id, runID int64, status githubclt.RunStatus, conclusion githubclt.Conclusion) *githubclt.WorkflowJob {
	return &githubclt.WorkflowJob{
		ID:         id,
		RunID:      runID,
		Name:       "job",
		HeadSHA:    commitSHA,
		Status:     status,
		Conclusion: conclusion,
	}
}

func openPR(draft bool) *githubclt.PullRequest {
	return &githubclt.PullRequest{
		Number:  prNumber,
		NodeID:  prNodeID,
		Draft:   draft,
		HeadSHA: commitSHA,
		State:   "open",
	}
}

// mockRunsPages configures clt to return pages as the result of consecutive
// ListWorkflowRuns calls for commitSHA.
func mockRunsPages(clt *mocks.MockGithubClient, pages ...[]*githubclt.WorkflowRun) {
	for i, runs := range pages {
		page := i + 1
		nextPage := page + 1
		if page == len(pages) {
			nextPage = 0
		}

		clt.EXPECT().
			ListWorkflowRuns(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq(commitSHA), gomock.Eq(page)).
			Return(runs, nextPage, nil)
	}
}

func mockJobs(clt *mocks.MockGithubClient, runID int64, jobs ...*githubclt.WorkflowJob) *gomock.Call {
	return clt.EXPECT().
		ListWorkflowJobs(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq(runID), gomock.Eq(1)).
		Return(jobs, 0, nil)
}

func mockGetPR(clt *mocks.MockGithubClient, pr *githubclt.PullRequest) *gomock.Call {
	return clt.EXPECT().
		PullRequest(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq(prNumber)).
		Return(pr, nil)
}

func mockConvertToDraft(clt *mocks.MockGithubClient, err error) *gomock.Call {
	return clt.EXPECT().
		ConvertPullRequestToDraft(gomock.Any(), gomock.Eq(prNodeID)).
		Return(err)
}

func mockCreateComment(clt *mocks.MockGithubClient, err error) *gomock.Call {
	return clt.EXPECT().
		CreateIssueComment(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq(prNumber), gomock.Any()).
		Return(err)
}
