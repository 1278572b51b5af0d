package readiness

import (
	"context"

	"go.uber.org/zap"

	"github.com/simplesurance/draftguard/internal/githubclt"
)

// DryGithubClient is a github-client that does not do any changes on github.
// All operations that could cause a change are simulated and always succeed.
// All all other operations are forwarded to a wrapped GithubClient.
type DryGithubClient struct {
	clt    GithubClient
	logger *zap.Logger
}

func NewDryGithubClient(clt GithubClient, logger *zap.Logger) *DryGithubClient {
	return &DryGithubClient{
		clt:    clt,
		logger: logger.Named("dry_github_client"),
	}
}

func (c *DryGithubClient) ListWorkflowRuns(ctx context.Context, owner, repo, headSHA string, page int) ([]*githubclt.WorkflowRun, int, error) {
	return c.clt.ListWorkflowRuns(ctx, owner, repo, headSHA, page)
}

func (c *DryGithubClient) ListWorkflowJobs(ctx context.Context, owner, repo string, runID int64, page int) ([]*githubclt.WorkflowJob, int, error) {
	return c.clt.ListWorkflowJobs(ctx, owner, repo, runID, page)
}

func (c *DryGithubClient) PullRequest(ctx context.Context, owner, repo string, number int) (*githubclt.PullRequest, error) {
	return c.clt.PullRequest(ctx, owner, repo, number)
}

func (c *DryGithubClient) ConvertPullRequestToDraft(_ context.Context, nodeID string) error {
	c.logger.Info(
		"simulated converting pull request to draft, pull request was not changed on github",
		zap.String("github.pull_request_node_id", nodeID),
	)
	return nil
}

func (c *DryGithubClient) CreateIssueComment(context.Context, string, string, int, string) error {
	c.logger.Info("simulated creating of github issue comment, no comment created on github")
	return nil
}
