package readiness

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simplesurance/draftguard/internal/githubclt"
	"github.com/simplesurance/draftguard/internal/guarderr"
	"github.com/simplesurance/draftguard/internal/logfields"
)

const loggerName = "readiness"

// DefSettleDelay is the default time waited before the workflow runs of a
// commit are collected.
const DefSettleDelay = 5 * time.Second

// Result is the outcome of an evaluation.
type Result struct {
	EvaluationID string
	Verdict      Verdict
	Snapshot     *Snapshot
	Blockers     []*Blocker
	Mutation     MutationOutcome
	// CommentErr is set when the pull request was converted to a draft
	// but the comment could not be created.
	CommentErr error
}

// Engine evaluates the CI state of pull request commits and converts pull
// requests to drafts when they are not ready.
type Engine struct {
	collector *Collector
	expander  *Expander
	mutator   *Mutator
	logger    *zap.Logger

	settleDelay           time.Duration
	maxParallelJobFetches int
}

type Option func(*Engine)

// WithSettleDelay sets the time that is waited before collecting workflow
// runs. A value of 0 disables waiting.
func WithSettleDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.settleDelay = d
	}
}

// WithMaxParallelJobFetches sets how many workflow run jobs are retrieved
// concurrently.
func WithMaxParallelJobFetches(n int) Option {
	return func(e *Engine) {
		e.maxParallelJobFetches = n
	}
}

func NewEngine(clt GithubClient, opts ...Option) *Engine {
	e := Engine{
		collector:             NewCollector(clt),
		mutator:               NewMutator(clt),
		logger:                zap.L().Named(loggerName),
		settleDelay:           DefSettleDelay,
		maxParallelJobFetches: DefMaxParallelJobFetches,
	}

	for _, opt := range opts {
		opt(&e)
	}

	e.expander = NewExpander(clt, e.maxParallelJobFetches)

	return &e
}

// Evaluate determines the verdict for the commit in.CommitSHA and converts
// the pull request to a draft if the verdict is VerdictPending or
// VerdictFailed.
//
// When the CI state can not be retrieved completely, an error is returned
// and the pull request is not modified.
// Converting the pull request is the last operation, when ctx is cancelled
// before, the pull request stays unchanged.
func (e *Engine) Evaluate(ctx context.Context, in *Input) (*Result, error) {
	startTime := time.Now()

	if err := in.Validate(); err != nil {
		metrics.EvaluationErrorsInc(errorType(err))
		return nil, err
	}

	result := Result{EvaluationID: uuid.NewString()}

	logger := e.logger.With(in.LogFields()...).With(logfields.EvaluationID(result.EvaluationID))

	logger.Debug(
		"evaluation started",
		logEventEvaluationStarted,
		zap.Duration("settle_delay", e.settleDelay),
	)

	err := e.evaluate(ctx, logger, in, &result)
	metrics.EvaluationDurationObserve(time.Since(startTime).Seconds())
	if err != nil {
		metrics.EvaluationErrorsInc(errorType(err))

		logger.Debug(
			"evaluation failed",
			logEventEvaluationFailed,
			zap.Error(err),
		)

		return nil, err
	}

	return &result, nil
}

func (e *Engine) evaluate(ctx context.Context, logger *zap.Logger, in *Input, result *Result) error {
	if err := e.settle(ctx); err != nil {
		return err
	}

	runs, err := e.collector.Collect(ctx, &in.Repository, in.CommitSHA)
	if err != nil {
		return err
	}

	result.Snapshot = &Snapshot{
		Runs: ExcludeSelfRun(runs, in.SelfRunID),
		Jobs: map[int64][]*githubclt.WorkflowJob{},
	}

	if hasIncompleteRun(result.Snapshot.Runs) {
		logger.Debug(
			"workflow runs are in progress, skipping retrieving jobs",
			logEventExpansionSkipped,
			logFieldReason("runs_in_progress"),
		)
	} else {
		jobs, err := e.expander.Expand(ctx, &in.Repository, result.Snapshot.Runs)
		if err != nil {
			return err
		}

		result.Snapshot.Jobs = ExcludeSelfJobs(jobs, in.SelfRunID)
	}

	result.Verdict, result.Blockers = Evaluate(result.Snapshot)
	metrics.EvaluationsInc(result.Verdict)

	logger.Info(
		"evaluated readiness of pull request",
		logEventVerdict,
		logfields.Verdict(result.Verdict.String()),
		zap.Int("workflow_runs_count", len(result.Snapshot.Runs)),
		zap.Stringers("blockers", result.Blockers),
	)

	mutation, err := e.mutator.Apply(ctx, in, result.Verdict)
	if err != nil {
		return err
	}

	result.Mutation = mutation.Outcome
	result.CommentErr = mutation.CommentErr

	metrics.MutationsInc(result.Mutation)
	if result.CommentErr != nil {
		metrics.CommentErrorsInc()
	}

	return nil
}

func (e *Engine) settle(ctx context.Context) error {
	if e.settleDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(e.settleDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func errorType(err error) string {
	var inputErr *guarderr.InputError
	var fetchErr *guarderr.FetchError
	var mutationErr *guarderr.MutationError

	switch {
	case errors.As(err, &inputErr):
		return "input"
	case errors.As(err, &fetchErr):
		return "fetch"
	case errors.As(err, &mutationErr):
		return "mutation"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "other"
	}
}
