package trigger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/simplesurance/draftguard/internal/readiness"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeEvaluator struct {
	calls   atomic.Int32
	release chan struct{}
	err     error

	lock   sync.Mutex
	inputs []*readiness.Input
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, in *readiness.Input) (*readiness.Result, error) {
	f.calls.Inc()

	f.lock.Lock()
	f.inputs = append(f.inputs, in)
	f.lock.Unlock()

	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.err != nil {
		return nil, f.err
	}

	return &readiness.Result{
		EvaluationID: "1",
		Verdict:      readiness.VerdictReady,
		Mutation:     readiness.MutationNone,
	}, nil
}

func startEventLoop(t *testing.T, evaluator Evaluator, opts ...Option) *EvLoop {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	evl := NewEventLoop(evaluator, opts...)
	go evl.Start()
	t.Cleanup(evl.Stop)

	return evl
}

func TestEventLoopEvaluatesAllPullRequestsOfEvent(t *testing.T) {
	evaluator := fakeEvaluator{}
	evl := startEventLoop(t, &evaluator, WithComment("converted"))

	evl.C() <- workflowRunEvent(ghPullRequest(1, commitSHA), ghPullRequest(2, commitSHA))

	require.Eventually(t, func() bool { return evaluator.calls.Load() == 2 }, 5*time.Second, 10*time.Millisecond)

	evaluator.lock.Lock()
	defer evaluator.lock.Unlock()

	prs := []int{evaluator.inputs[0].PullRequest, evaluator.inputs[1].PullRequest}
	assert.ElementsMatch(t, []int{1, 2}, prs)

	for _, in := range evaluator.inputs {
		assert.Equal(t, repoOwner, in.Repository.Owner)
		assert.Equal(t, repo, in.Repository.Name)
		assert.Equal(t, commitSHA, in.CommitSHA)
		assert.Zero(t, in.SelfRunID)
		assert.True(t, in.LeaveComment)
		assert.Equal(t, "converted", in.CommentBody)
	}
}

func TestEventLoopIgnoresEventsWithoutPullRequest(t *testing.T) {
	evaluator := fakeEvaluator{}
	evl := startEventLoop(t, &evaluator)

	evl.C() <- workflowRunEvent()
	evl.C() <- pullRequestEvent("labeled", ghPullRequest(1, commitSHA))

	assert.Never(t, func() bool { return evaluator.calls.Load() != 0 }, 200*time.Millisecond, 10*time.Millisecond)
}

func TestEventLoopAppliesFilter(t *testing.T) {
	filter, err := NewFilter(`.action == "synchronize"`)
	require.NoError(t, err)

	evaluator := fakeEvaluator{}
	evl := startEventLoop(t, &evaluator, WithFilter(filter))

	evl.C() <- pullRequestEvent("opened", ghPullRequest(1, commitSHA))
	evl.C() <- pullRequestEvent("synchronize", ghPullRequest(2, commitSHA))

	require.Eventually(t, func() bool { return evaluator.calls.Load() == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Never(t, func() bool { return evaluator.calls.Load() > 1 }, 200*time.Millisecond, 10*time.Millisecond)

	evaluator.lock.Lock()
	defer evaluator.lock.Unlock()
	assert.Equal(t, 2, evaluator.inputs[0].PullRequest)
}

func TestEventLoopCoalescesEventsForSameCommit(t *testing.T) {
	evaluator := fakeEvaluator{release: make(chan struct{})}
	evl := startEventLoop(t, &evaluator)

	evl.C() <- pullRequestEvent("synchronize", ghPullRequest(1, commitSHA))
	require.Eventually(t, func() bool { return evaluator.calls.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	for i := 0; i < 3; i++ {
		evl.C() <- workflowRunEvent(ghPullRequest(1, commitSHA))
	}

	key := evaluationKey{
		repository:  readiness.Repository{Owner: repoOwner, Name: repo},
		pullRequest: 1,
		commitSHA:   commitSHA,
	}

	require.Eventually(t, func() bool {
		evl.lock.Lock()
		defer evl.lock.Unlock()

		state, exists := evl.inFlight[key]
		return exists && state.rerun
	}, 5*time.Second, 10*time.Millisecond)

	close(evaluator.release)

	require.Eventually(t, func() bool {
		evl.lock.Lock()
		defer evl.lock.Unlock()

		return len(evl.inFlight) == 0
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, int32(2), evaluator.calls.Load())
}

func TestEventLoopDoesNotRetryPermanentErrors(t *testing.T) {
	evaluator := fakeEvaluator{err: errors.New("error mocked by TestEventLoopDoesNotRetryPermanentErrors")}
	evl := startEventLoop(t, &evaluator)

	evl.C() <- pullRequestEvent("opened", ghPullRequest(1, commitSHA))

	require.Eventually(t, func() bool { return evaluator.calls.Load() == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Never(t, func() bool { return evaluator.calls.Load() > 1 }, 200*time.Millisecond, 10*time.Millisecond)
}

func TestEventLoopStopCancelsRunningEvaluations(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	evaluator := fakeEvaluator{release: make(chan struct{})}
	evl := NewEventLoop(&evaluator)
	go evl.Start()

	evl.C() <- pullRequestEvent("opened", ghPullRequest(1, commitSHA))
	require.Eventually(t, func() bool { return evaluator.calls.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		evl.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}
