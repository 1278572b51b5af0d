package readiness

import (
	"go.uber.org/zap"

	"github.com/simplesurance/draftguard/internal/logfields"
)

var (
	logEventRunsCollected     = logfields.Event("workflow_runs_collected")
	logEventRunIgnored        = logfields.Event("workflow_run_ignored")
	logEventExpansionSkipped  = logfields.Event("job_expansion_skipped")
	logEventJobsExpanded      = logfields.Event("workflow_jobs_expanded")
	logEventVerdict           = logfields.Event("verdict_evaluated")
	logEventPRAlreadyDraft    = logfields.Event("pull_request_already_draft")
	logEventPRHeadChanged     = logfields.Event("pull_request_head_changed")
	logEventPRConverted       = logfields.Event("pull_request_converted_to_draft")
	logEventCommentCreated    = logfields.Event("pull_request_comment_created")
	logEventCommentFailed     = logfields.Event("pull_request_comment_failed")
	logEventEvaluationStarted = logfields.Event("evaluation_started")
	logEventEvaluationFailed  = logfields.Event("evaluation_failed")
)

func logFieldReason(reason string) zap.Field {
	return zap.String("reason", reason)
}
