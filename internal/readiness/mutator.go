package readiness

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/simplesurance/draftguard/internal/guarderr"
	"github.com/simplesurance/draftguard/internal/logfields"
)

var ErrPullRequestIsClosed = errors.New("pull request is closed")

// MutationOutcome describes what the Mutator did with the pull request.
type MutationOutcome uint8

const (
	// MutationNone means no change was required.
	MutationNone MutationOutcome = iota
	// MutationAlreadyDraft means the pull request already was a draft.
	MutationAlreadyDraft
	// MutationSupersededHead means the head commit of the pull request
	// changed since it was evaluated, the verdict does not apply anymore.
	MutationSupersededHead
	// MutationConverted means the pull request was converted to a draft.
	MutationConverted
)

var mutationOutcomeStrings = [...]string{
	MutationNone:           "none",
	MutationAlreadyDraft:   "already_draft",
	MutationSupersededHead: "superseded_head",
	MutationConverted:      "converted",
}

func (m MutationOutcome) String() string {
	if int(m) > len(mutationOutcomeStrings)-1 {
		return fmt.Sprintf("unsupported MutationOutcome value: %d", m)
	}

	return mutationOutcomeStrings[m]
}

// MutationResult is the result of Mutator.Apply.
type MutationResult struct {
	Outcome MutationOutcome
	// CommentErr is a guarderr.CommentError if the pull request was
	// converted but creating the comment failed.
	CommentErr error
}

// Mutator converts pull requests to drafts.
type Mutator struct {
	clt    GithubClient
	logger *zap.Logger
}

func NewMutator(clt GithubClient) *Mutator {
	return &Mutator{
		clt:    clt,
		logger: zap.L().Named(loggerName).Named("mutator"),
	}
}

// Apply converts the pull request to a draft if verdict blocks the review.
//
// The current state of the pull request is retrieved first. If it is
// already a draft or its head commit is not in.CommitSHA anymore, nothing is
// done.
// When the pull request was converted and in.LeaveComment is true,
// in.CommentBody is created as comment. A failure to create the comment is
// returned as MutationResult.CommentErr, the conversion is still reported as
// successful.
//
// A guarderr.MutationError is returned if the pull request is closed or
// converting it was rejected.
func (m *Mutator) Apply(ctx context.Context, in *Input, verdict Verdict) (*MutationResult, error) {
	if !verdict.BlocksReview() {
		return &MutationResult{Outcome: MutationNone}, nil
	}

	logger := m.logger.With(in.LogFields()...)

	pr, err := m.clt.PullRequest(ctx, in.Repository.Owner, in.Repository.Name, in.PullRequest)
	if err != nil {
		return nil, &guarderr.FetchError{
			Op:  fmt.Sprintf("retrieving pull request #%d", in.PullRequest),
			Err: err,
		}
	}

	if pr.Draft {
		logger.Info(
			"pull request is already a draft, nothing to do",
			logEventPRAlreadyDraft,
		)

		return &MutationResult{Outcome: MutationAlreadyDraft}, nil
	}

	if !pr.IsOpen() {
		return nil, &guarderr.MutationError{
			PullRequest: in.PullRequest,
			Err:         ErrPullRequestIsClosed,
		}
	}

	if pr.HeadSHA != in.CommitSHA {
		logger.Info(
			"head commit of pull request changed since it was evaluated, skipping converting it to draft",
			logEventPRHeadChanged,
			zap.String("pull_request_head_sha", pr.HeadSHA),
		)

		return &MutationResult{Outcome: MutationSupersededHead}, nil
	}

	if err := m.clt.ConvertPullRequestToDraft(ctx, pr.NodeID); err != nil {
		return nil, &guarderr.MutationError{
			PullRequest: in.PullRequest,
			Err:         err,
		}
	}

	logger.Info(
		"converted pull request to draft",
		logEventPRConverted,
		logfields.Verdict(verdict.String()),
	)

	result := MutationResult{Outcome: MutationConverted}

	if !in.LeaveComment || in.CommentBody == "" {
		return &result, nil
	}

	err = m.clt.CreateIssueComment(ctx, in.Repository.Owner, in.Repository.Name, in.PullRequest, in.CommentBody)
	if err != nil {
		result.CommentErr = &guarderr.CommentError{
			PullRequest: in.PullRequest,
			Err:         err,
		}

		logger.Warn(
			"pull request was converted to draft, but creating the comment failed",
			logEventCommentFailed,
			zap.Error(err),
		)

		return &result, nil
	}

	logger.Debug("created comment on pull request", logEventCommentCreated)

	return &result, nil
}
