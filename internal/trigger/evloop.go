package trigger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/simplesurance/draftguard/internal/logfields"
	"github.com/simplesurance/draftguard/internal/provider/github"
	"github.com/simplesurance/draftguard/internal/readiness"
	"github.com/simplesurance/draftguard/internal/retryer"
)

const DefEventChannelBufferSize = 512

const loggerName = "event_loop"

// Evaluator evaluates the readiness of a pull request.
type Evaluator interface {
	Evaluate(context.Context, *readiness.Input) (*readiness.Result, error)
}

type evaluationKey struct {
	repository  readiness.Repository
	pullRequest int
	commitSHA   string
}

func (k *evaluationKey) String() string {
	return fmt.Sprintf("%s#%d@%s", &k.repository, k.pullRequest, k.commitSHA)
}

type inFlightEvaluation struct {
	// rerun is set when an event for the same key was received while
	// the evaluation was running.
	rerun bool
}

// EvLoop receives github webhook events and evaluates the pull requests they
// refer to.
// Evaluations run asynchronously in go-routines and are retried by a
// retryer.Retryer when they fail with a retryable error.
// Events for a pull request head commit that is already being evaluated
// are coalesced into a single additional evaluation that runs after the
// current one finished.
type EvLoop struct {
	ch        chan *github.Event
	logger    *zap.Logger
	filter    *Filter
	evaluator Evaluator
	retryer   *retryer.Retryer

	leaveComment bool
	commentBody  string

	ctx      context.Context
	cancelFn context.CancelFunc

	lock     sync.Mutex
	inFlight map[evaluationKey]*inFlightEvaluation

	started        atomic.Bool
	startDone      chan struct{}
	wg             sync.WaitGroup
	routineDeferFn func()
}

type Option func(*EvLoop)

// WithFilter sets a filter, events that do not match it are ignored.
func WithFilter(f *Filter) Option {
	return func(e *EvLoop) {
		e.filter = f
	}
}

// WithRetryer sets the retryer that runs evaluations.
func WithRetryer(r *retryer.Retryer) Option {
	return func(e *EvLoop) {
		e.retryer = r
	}
}

// WithComment enables creating body as comment on pull requests that are
// converted to drafts.
func WithComment(body string) Option {
	return func(e *EvLoop) {
		e.leaveComment = true
		e.commentBody = body
	}
}

// WithRoutineDeferFunc sets a function to be run when a go-routine that
// runs an evaluation returns.
// It can be used to set a panic handler.
func WithRoutineDeferFunc(fn func()) Option {
	return func(e *EvLoop) {
		e.routineDeferFn = fn
	}
}

func NewEventLoop(evaluator Evaluator, opts ...Option) *EvLoop {
	ctx, cancelFn := context.WithCancel(context.Background())

	evl := EvLoop{
		ch:        make(chan *github.Event, DefEventChannelBufferSize),
		logger:    zap.L().Named(loggerName),
		evaluator: evaluator,
		ctx:       ctx,
		cancelFn:  cancelFn,
		inFlight:  map[evaluationKey]*inFlightEvaluation{},
		startDone: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(&evl)
	}

	if evl.filter == nil {
		evl.filter = &Filter{}
	}

	if evl.retryer == nil {
		evl.retryer = retryer.New(0)
	}

	return &evl
}

// C returns the event channel.
// Events sent to this channel will be processed.
// The channel is closed when Stop() is called.
func (e *EvLoop) C() chan<- *github.Event {
	return e.ch
}

// Start processes events until the event channel is closed.
func (e *EvLoop) Start() {
	if !e.started.CompareAndSwap(false, true) {
		e.logger.Panic("event loop was already started")
	}

	defer close(e.startDone)

	e.logger.Info("ready to process events", logfields.Event("eventloop_started"))

	for providerEv := range e.ch {
		ev := fromProviderEvent(providerEv)
		logger := e.logger.With(ev.LogFields...)

		logger.Debug("event received", logfields.Event("event_received"))

		if len(ev.PullRequestNrs) == 0 || ev.CommitID == "" {
			logger.Debug(
				"ignoring event, it does not refer to a pull request head commit",
				logfields.Event("event_ignored"),
			)
			metrics.EventsInc(ev.EventType, "ignored")

			continue
		}

		match, err := e.filter.Match(e.ctx, ev)
		if err != nil {
			logger.Error(
				"matching event with trigger query failed",
				logfields.Event("trigger_query_matching_failed"),
				zap.Error(err),
			)
			metrics.EventsInc(ev.EventType, "filter_error")

			continue
		}

		logger.Debug(
			"evaluated result of matching event with trigger query",
			logfields.Event("trigger_query_match_result_evaluated"),
			zap.Stringer("match_result", match),
		)

		if match != Match {
			metrics.EventsInc(ev.EventType, "filtered")
			continue
		}

		metrics.EventsInc(ev.EventType, "accepted")

		for _, in := range e.inputs(ev) {
			e.scheduleEvaluation(in, logger)
		}
	}

	e.logger.Info(
		"event loop terminated, event channel was closed",
		logfields.Event("eventloop_terminated"),
	)
}

func (e *EvLoop) inputs(ev *Event) []*readiness.Input {
	result := make([]*readiness.Input, 0, len(ev.PullRequestNrs))

	for _, prNr := range ev.PullRequestNrs {
		result = append(result, &readiness.Input{
			Repository: readiness.Repository{
				Owner: ev.RepositoryOwner,
				Name:  ev.Repository,
			},
			PullRequest:  prNr,
			CommitSHA:    ev.CommitID,
			LeaveComment: e.leaveComment,
			CommentBody:  e.commentBody,
		})
	}

	return result
}

func (e *EvLoop) scheduleEvaluation(in *readiness.Input, logger *zap.Logger) {
	key := evaluationKey{
		repository:  in.Repository,
		pullRequest: in.PullRequest,
		commitSHA:   in.CommitSHA,
	}

	logger = logger.With(zap.Stringer("evaluation_key", &key))

	e.lock.Lock()
	if state, exists := e.inFlight[key]; exists {
		state.rerun = true
		e.lock.Unlock()

		logger.Debug(
			"evaluation for pull request commit is in progress, coalesced event",
			logfields.Event("evaluation_coalesced"),
		)
		metrics.CoalescedInc()

		return
	}

	state := inFlightEvaluation{}
	e.inFlight[key] = &state
	e.lock.Unlock()

	e.wg.Add(1)

	go func() {
		if e.routineDeferFn != nil {
			defer e.routineDeferFn()
		}

		defer e.wg.Done()

		for {
			e.runEvaluation(in, logger)

			e.lock.Lock()
			if state.rerun && e.ctx.Err() == nil {
				state.rerun = false
				e.lock.Unlock()

				logger.Debug(
					"running coalesced evaluation",
					logfields.Event("coalesced_evaluation_started"),
				)

				continue
			}

			delete(e.inFlight, key)
			e.lock.Unlock()

			return
		}
	}()
}

func (e *EvLoop) runEvaluation(in *readiness.Input, logger *zap.Logger) {
	var result *readiness.Result

	err := e.retryer.Run(
		e.ctx,
		func(ctx context.Context) error {
			var err error
			result, err = e.evaluator.Evaluate(ctx, in)
			return err
		},
		in.LogFields(),
	)
	if err != nil {
		if errors.Is(err, retryer.ErrStopped) || errors.Is(err, context.Canceled) {
			logger.Info(
				"evaluation cancelled, event loop is terminating",
				logfields.Event("evaluation_cancelled"),
			)
			return
		}

		logger.Error(
			"evaluating pull request failed",
			logfields.Event("evaluation_failed"),
			zap.Error(err),
		)

		return
	}

	logger = logger.With(
		logfields.EvaluationID(result.EvaluationID),
		logfields.Verdict(result.Verdict.String()),
		zap.Stringer("mutation", result.Mutation),
	)

	if result.CommentErr != nil {
		logger.Warn(
			"pull request was converted to draft but creating the comment failed",
			logfields.Event("evaluation_comment_failed"),
			zap.Error(result.CommentErr),
		)

		return
	}

	logger.Info(
		"evaluated pull request",
		logfields.Event("evaluation_finished"),
	)
}

// Stop stops the event loop, it waits until all running evaluations
// terminated.
// The event channel (Evloop.C()) will be closed.
func (e *EvLoop) Stop() {
	e.logger.Debug("event loop terminating", logfields.Event("eventloop_terminating"))
	close(e.ch)

	e.retryer.Stop()
	e.cancelFn()

	if e.started.Load() {
		<-e.startDone
	}

	e.logger.Debug(
		"waiting for running evaluations to terminate",
		logfields.Event("eventloop_terminating"),
	)
	e.wg.Wait()

	e.logger.Info("event loop terminated", logfields.Event("eventloop_terminated"))
}
