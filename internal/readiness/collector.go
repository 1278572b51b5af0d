package readiness

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/simplesurance/draftguard/internal/githubclt"
	"github.com/simplesurance/draftguard/internal/guarderr"
	"github.com/simplesurance/draftguard/internal/logfields"
)

// Collector retrieves the workflow runs of a commit.
type Collector struct {
	clt    GithubClient
	logger *zap.Logger
}

func NewCollector(clt GithubClient) *Collector {
	return &Collector{
		clt:    clt,
		logger: zap.L().Named(loggerName).Named("collector"),
	}
}

// Collect returns all workflow runs for the commit sha.
// All pages are retrieved, runs that are listed multiple times are only
// returned once and runs for other commits are omitted.
// When retrieving a page fails, a guarderr.FetchError is returned.
func (c *Collector) Collect(ctx context.Context, repo *Repository, sha string) ([]*githubclt.WorkflowRun, error) {
	var result []*githubclt.WorkflowRun

	logger := c.logger.With(
		logfields.RepositoryOwner(repo.Owner),
		logfields.Repository(repo.Name),
		logfields.Commit(sha),
	)

	seen := map[int64]struct{}{}
	page := 1
	pageCnt := 0

	for {
		runs, nextPage, err := c.clt.ListWorkflowRuns(ctx, repo.Owner, repo.Name, sha, page)
		if err != nil {
			return nil, &guarderr.FetchError{
				Op:  fmt.Sprintf("listing workflow runs of commit %s (page %d)", sha, page),
				Err: err,
			}
		}
		pageCnt++

		for _, run := range runs {
			if run.HeadSHA != sha {
				logger.Debug(
					"ignoring workflow run, it is for a different commit",
					logEventRunIgnored,
					logfields.WorkflowRun(run.ID),
					zap.String("workflow_run_head_sha", run.HeadSHA),
				)
				continue
			}

			// the listing can shift while new runs are created, a
			// run can appear on multiple pages
			if _, exists := seen[run.ID]; exists {
				continue
			}

			seen[run.ID] = struct{}{}
			result = append(result, run)
		}

		if nextPage == 0 {
			break
		}

		if nextPage <= page {
			return nil, &guarderr.FetchError{
				Op:  fmt.Sprintf("listing workflow runs of commit %s (page %d)", sha, page),
				Err: fmt.Errorf("next page number %d is not greater than the current page number", nextPage),
			}
		}

		page = nextPage
	}

	logger.Debug(
		"collected workflow runs",
		logEventRunsCollected,
		zap.Int("pages", pageCnt),
		zap.Int("workflow_runs_count", len(result)),
	)

	return result, nil
}
