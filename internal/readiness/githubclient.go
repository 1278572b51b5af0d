package readiness

import (
	"context"

	"github.com/simplesurance/draftguard/internal/githubclt"
)

//go:generate mockgen -destination mocks/githubclient.go -package mocks . GithubClient

// GithubClient is the GitHub API used for evaluating and converting pull
// requests.
// List methods return a single page, pages start at 1, a nextPage value of 0
// marks the last page.
type GithubClient interface {
	ListWorkflowRuns(ctx context.Context, owner, repo, headSHA string, page int) ([]*githubclt.WorkflowRun, int, error)
	ListWorkflowJobs(ctx context.Context, owner, repo string, runID int64, page int) ([]*githubclt.WorkflowJob, int, error)
	PullRequest(ctx context.Context, owner, repo string, number int) (*githubclt.PullRequest, error)
	ConvertPullRequestToDraft(ctx context.Context, nodeID string) error
	CreateIssueComment(ctx context.Context, owner, repo string, issueOrPRNr int, comment string) error
}

var _ GithubClient = (*githubclt.Client)(nil)
