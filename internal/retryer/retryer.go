package retryer

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"github.com/simplesurance/draftguard/internal/guarderr"
	"github.com/simplesurance/draftguard/internal/logfields"
)

const (
	DefTimeout                    = 10 * time.Minute
	defBackoffInitialInterval     = 5 * time.Second
	defBackoffRandomizationFactor = backoff.DefaultRandomizationFactor
)

// ErrStopped is returned by Run when the Retryer was stopped before fn
// succeeded.
var ErrStopped = errors.New("retryer stopped")

// Retryer executes a function repeatedly until it was successful or cancel
// condition happened.
type Retryer struct {
	logger       *zap.Logger
	shutdownChan chan struct{}

	defTimeout                 time.Duration
	backoffInitialInterval     time.Duration
	backoffRandomizationFactor float64
}

// New returns a Retryer that gives up retrying after timeout when the
// context passed to Run has no deadline.
// If timeout is 0, DefTimeout is used.
func New(timeout time.Duration) *Retryer {
	if timeout <= 0 {
		timeout = DefTimeout
	}

	return &Retryer{
		logger:                     zap.L().Named("retryer"),
		shutdownChan:               make(chan struct{}),
		defTimeout:                 timeout,
		backoffInitialInterval:     defBackoffInitialInterval,
		backoffRandomizationFactor: defBackoffRandomizationFactor,
	}
}

// Run executes fn until it was successful, it returned an error that
// does not wrap guarderr.RetryableError or the execution was aborted via the
// context.
// If ctx has no deadline, the deadline is set to the retryer's default
// timeout.
func (r *Retryer) Run(ctx context.Context, fn func(context.Context) error, logF []zap.Field) error {
	var tryCnt uint

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancelFn context.CancelFunc
		ctx, cancelFn = context.WithTimeout(ctx, r.defTimeout)
		defer cancelFn()
	}

	deadline, _ := ctx.Deadline()

	retryTimer := time.NewTimer(0)
	defer retryTimer.Stop()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.backoffInitialInterval
	bo.RandomizationFactor = r.backoffRandomizationFactor
	bo.MaxElapsedTime = 0
	bo.Reset()

	logger := r.logger.With(logF...)

	for {
		tryCnt++
		logger := logger.With(zap.Uint("try_count", tryCnt))

		select {
		case <-ctx.Done():
			logger.Info(
				"execution cancelled",
				logfields.Event("retryer_execution_cancelled"),
				zap.Error(ctx.Err()),
			)

			return ctx.Err()

		case <-retryTimer.C:
			logger.Debug(
				"running operation",
				logfields.Event("retryer_running"),
				zap.Duration("age", bo.GetElapsedTime()),
			)

			err := fn(ctx)
			if err == nil {
				logger.Debug(
					"operation executed successfully",
					logfields.Event("retryer_execution_successful"),
				)

				return nil
			}

			var retryError *guarderr.RetryableError

			logger = logger.With(zap.Error(err))

			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				logger.Info(
					"operation cancelled",
					logfields.Event("retryer_operation_cancelled"),
				)

				return err
			}

			if !errors.As(err, &retryError) {
				logger.Debug(
					"operation failed, not retryable",
					logfields.Event("retryer_operation_failed"),
				)

				return err
			}

			if retryError.After.After(deadline) {
				logger.Warn(
					"operation failed, next possible retry time is after timeout expiration",
					logfields.Event("retryer_operation_failed"),
					zap.Time("earliest_allowed_retry", retryError.After),
					zap.Time("deadline", deadline),
				)

				return err
			}

			retryIn := bo.NextBackOff()
			if untilAllowed := time.Until(retryError.After); untilAllowed > retryIn {
				retryIn = untilAllowed
			}

			retryTimer.Reset(retryIn)
			logger.Info(
				"operation failed, retry scheduled",
				logfields.Event("retryer_retry_scheduled"),
				zap.Duration("retry_in", retryIn),
				zap.Duration("age", bo.GetElapsedTime()),
			)

		case <-r.shutdownChan:
			logger.Info(
				"retryer terminating, operation not executed",
				logfields.Event("retryer_execution_cancelled_terminated"),
			)

			return ErrStopped
		}
	}
}

// Stop notifies all Run() methods to terminate.
// It does not wait for their termination.
func (r *Retryer) Stop() {
	r.logger.Debug("retryer terminating", logfields.Event("retryer_terminating"))

	select {
	case <-r.shutdownChan:
		return // already closed
	default:
		close(r.shutdownChan)
	}
}
