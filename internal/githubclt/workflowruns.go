package githubclt

import (
	"context"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"

	"github.com/simplesurance/draftguard/internal/guarderr"
	"github.com/simplesurance/draftguard/internal/logfields"
)

// ListWorkflowRuns returns one page of the GitHub Actions workflow runs of
// the repository that were triggered for the commit headSHA.
// Pages start at 1. nextPage is 0 when page was the last page.
// If the response does not contain a workflow_runs array, a
// guarderr.SchemaError is returned.
func (clt *Client) ListWorkflowRuns(ctx context.Context, owner, repo, headSHA string, page int) (runs []*WorkflowRun, nextPage int, err error) {
	result, resp, err := clt.restClt.Actions.ListRepositoryWorkflowRuns(ctx, owner, repo, &github.ListWorkflowRunsOptions{
		HeadSHA: headSHA,
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	})
	if err != nil {
		return nil, 0, clt.wrapRetryableErrors(err)
	}

	if result == nil || result.WorkflowRuns == nil {
		return nil, 0, &guarderr.SchemaError{Field: "workflow_runs"}
	}

	runs = make([]*WorkflowRun, 0, len(result.WorkflowRuns))
	for _, r := range result.WorkflowRuns {
		runs = append(runs, toWorkflowRun(r))
	}

	clt.logger.Debug(
		"retrieved workflow runs page",
		logfields.Event("github_workflow_runs_page_retrieved"),
		logfields.RepositoryOwner(owner),
		logfields.Repository(repo),
		logfields.Commit(headSHA),
		zap.Int("page", page),
		zap.Int("next_page", resp.NextPage),
		zap.Int("workflow_runs_count", len(runs)),
		zap.Int("workflow_runs_total_count", result.GetTotalCount()),
	)

	return runs, resp.NextPage, nil
}

// ListWorkflowJobs returns one page of the jobs of the latest attempt of a
// workflow run.
// Pages start at 1. nextPage is 0 when page was the last page.
// If the response does not contain a jobs array, a guarderr.SchemaError is
// returned.
func (clt *Client) ListWorkflowJobs(ctx context.Context, owner, repo string, runID int64, page int) (jobs []*WorkflowJob, nextPage int, err error) {
	result, resp, err := clt.restClt.Actions.ListWorkflowJobs(ctx, owner, repo, runID, &github.ListWorkflowJobsOptions{
		Filter: "latest",
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	})
	if err != nil {
		return nil, 0, clt.wrapRetryableErrors(err)
	}

	if result == nil || result.Jobs == nil {
		return nil, 0, &guarderr.SchemaError{Field: "jobs"}
	}

	jobs = make([]*WorkflowJob, 0, len(result.Jobs))
	for _, j := range result.Jobs {
		jobs = append(jobs, toWorkflowJob(j))
	}

	clt.logger.Debug(
		"retrieved workflow jobs page",
		logfields.Event("github_workflow_jobs_page_retrieved"),
		logfields.RepositoryOwner(owner),
		logfields.Repository(repo),
		logfields.WorkflowRun(runID),
		zap.Int("page", page),
		zap.Int("next_page", resp.NextPage),
		zap.Int("workflow_jobs_count", len(jobs)),
	)

	return jobs, resp.NextPage, nil
}

func toWorkflowRun(r *github.WorkflowRun) *WorkflowRun {
	prs := make([]int, 0, len(r.PullRequests))
	for _, pr := range r.PullRequests {
		prs = append(prs, pr.GetNumber())
	}

	return &WorkflowRun{
		ID:           r.GetID(),
		RunNumber:    r.GetRunNumber(),
		RunAttempt:   r.GetRunAttempt(),
		Name:         r.GetName(),
		HeadSHA:      r.GetHeadSHA(),
		Status:       RunStatus(r.GetStatus()),
		Conclusion:   Conclusion(r.GetConclusion()),
		PullRequests: prs,
	}
}

func toWorkflowJob(j *github.WorkflowJob) *WorkflowJob {
	return &WorkflowJob{
		ID:         j.GetID(),
		RunID:      j.GetRunID(),
		Name:       j.GetName(),
		HeadSHA:    j.GetHeadSHA(),
		Status:     RunStatus(j.GetStatus()),
		Conclusion: Conclusion(j.GetConclusion()),
	}
}
