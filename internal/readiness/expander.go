package readiness

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/simplesurance/draftguard/internal/githubclt"
	"github.com/simplesurance/draftguard/internal/guarderr"
	"github.com/simplesurance/draftguard/internal/logfields"
	"github.com/simplesurance/draftguard/internal/routines"
)

const DefMaxParallelJobFetches = 4

// Expander retrieves the jobs of workflow runs.
type Expander struct {
	clt         GithubClient
	logger      *zap.Logger
	maxParallel int
}

func NewExpander(clt GithubClient, maxParallel int) *Expander {
	if maxParallel < 1 {
		maxParallel = DefMaxParallelJobFetches
	}

	return &Expander{
		clt:         clt,
		logger:      zap.L().Named(loggerName).Named("expander"),
		maxParallel: maxParallel,
	}
}

// Expand retrieves the jobs of all runs that did not complete successfully
// and were not skipped.
// The result contains an entry for every expanded run.
// If all runs completed successfully or were skipped, no jobs are retrieved
// and an empty map is returned.
// Jobs of multiple runs are retrieved in parallel. When retrieving jobs for a
// run fails, the remaining retrievals are cancelled and a guarderr.FetchError
// is returned.
func (e *Expander) Expand(ctx context.Context, repo *Repository, runs []*githubclt.WorkflowRun) (map[int64][]*githubclt.WorkflowJob, error) {
	result := map[int64][]*githubclt.WorkflowJob{}

	toExpand := make([]*githubclt.WorkflowRun, 0, len(runs))
	for _, run := range runs {
		// the jobs of neutral runs are not evaluated
		if run.Status.IsCompleted() && isNeutral(run.Conclusion) {
			continue
		}

		toExpand = append(toExpand, run)
	}

	if len(toExpand) == 0 {
		e.logger.Debug(
			"all workflow runs succeeded or were skipped, skipping retrieving jobs",
			logEventExpansionSkipped,
			logFieldReason("all_runs_neutral"),
		)
		return result, nil
	}

	ctx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()

	var lock sync.Mutex
	var firstErr error

	workers := e.maxParallel
	if len(toExpand) < workers {
		workers = len(toExpand)
	}

	pool := routines.NewPool(workers)

	for _, run := range toExpand {
		run := run

		pool.Queue(func() {
			if err := ctx.Err(); err != nil {
				lock.Lock()
				if firstErr == nil {
					firstErr = err
				}
				lock.Unlock()

				return
			}

			jobs, err := e.listAllJobs(ctx, repo, run.ID)

			lock.Lock()
			defer lock.Unlock()

			if err != nil {
				if firstErr == nil {
					firstErr = err
					cancelFn()
				}

				return
			}

			result[run.ID] = jobs
		})
	}

	pool.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	e.logger.Debug(
		"retrieved jobs of workflow runs",
		logEventJobsExpanded,
		logfields.RepositoryOwner(repo.Owner),
		logfields.Repository(repo.Name),
		zap.Int("expanded_runs_count", len(result)),
	)

	return result, nil
}

func (e *Expander) listAllJobs(ctx context.Context, repo *Repository, runID int64) ([]*githubclt.WorkflowJob, error) {
	result := []*githubclt.WorkflowJob{}
	page := 1

	for {
		jobs, nextPage, err := e.clt.ListWorkflowJobs(ctx, repo.Owner, repo.Name, runID, page)
		if err != nil {
			return nil, &guarderr.FetchError{
				Op:  fmt.Sprintf("listing jobs of workflow run %d (page %d)", runID, page),
				Err: err,
			}
		}

		result = append(result, jobs...)

		if nextPage == 0 {
			return result, nil
		}

		if nextPage <= page {
			return nil, &guarderr.FetchError{
				Op:  fmt.Sprintf("listing jobs of workflow run %d (page %d)", runID, page),
				Err: fmt.Errorf("next page number %d is not greater than the current page number", nextPage),
			}
		}

		page = nextPage
	}
}
