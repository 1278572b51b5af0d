package readiness

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplesurance/draftguard/internal/guarderr"
)

func TestApplyReadyDoesNothing(t *testing.T) {
	clt := newMockClient(t)

	res, err := NewMutator(clt).Apply(context.Background(), testInput(), VerdictReady)
	require.NoError(t, err)
	assert.Equal(t, MutationNone, res.Outcome)
}

func TestApplyConvertsAndComments(t *testing.T) {
	for _, verdict := range []Verdict{VerdictPending, VerdictFailed} {
		t.Run(verdict.String(), func(t *testing.T) {
			clt := newMockClient(t)

			gomock.InOrder(
				mockGetPR(clt, openPR(false)),
				mockConvertToDraft(clt, nil),
				clt.EXPECT().
					CreateIssueComment(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq(prNumber), gomock.Eq("converted to draft")).
					Return(nil),
			)

			res, err := NewMutator(clt).Apply(context.Background(), testInput(), verdict)
			require.NoError(t, err)
			assert.Equal(t, MutationConverted, res.Outcome)
			assert.NoError(t, res.CommentErr)
		})
	}
}

func TestApplyWithoutComment(t *testing.T) {
	clt := newMockClient(t)

	mockGetPR(clt, openPR(false))
	mockConvertToDraft(clt, nil)

	in := testInput()
	in.LeaveComment = false

	res, err := NewMutator(clt).Apply(context.Background(), in, VerdictPending)
	require.NoError(t, err)
	assert.Equal(t, MutationConverted, res.Outcome)
}

func TestApplyAlreadyDraftIsNoop(t *testing.T) {
	clt := newMockClient(t)

	mockGetPR(clt, openPR(true)).Times(2)

	mutator := NewMutator(clt)
	for i := 0; i < 2; i++ {
		res, err := mutator.Apply(context.Background(), testInput(), VerdictPending)
		require.NoError(t, err)
		assert.Equal(t, MutationAlreadyDraft, res.Outcome)
	}
}

func TestApplyCommentFailureIsReportedSeparately(t *testing.T) {
	clt := newMockClient(t)

	mockGetPR(clt, openPR(false))
	mockConvertToDraft(clt, nil)
	mockCreateComment(clt, errors.New("error mocked by TestApplyCommentFailureIsReportedSeparately"))

	res, err := NewMutator(clt).Apply(context.Background(), testInput(), VerdictFailed)
	require.NoError(t, err)
	assert.Equal(t, MutationConverted, res.Outcome)

	var commentErr *guarderr.CommentError
	assert.ErrorAs(t, res.CommentErr, &commentErr)
}

func TestApplyRejectedConversionIsMutationError(t *testing.T) {
	clt := newMockClient(t)

	mockGetPR(clt, openPR(false))
	mockConvertToDraft(clt, errors.New("Resource not accessible by integration"))

	res, err := NewMutator(clt).Apply(context.Background(), testInput(), VerdictFailed)
	require.Error(t, err)
	assert.Nil(t, res)

	var mutationErr *guarderr.MutationError
	require.ErrorAs(t, err, &mutationErr)
	assert.Equal(t, prNumber, mutationErr.PullRequest)
	assert.False(t, guarderr.IsRetryable(err))
}

func TestApplyTransientConversionFailureStaysRetryable(t *testing.T) {
	clt := newMockClient(t)

	mockGetPR(clt, openPR(false))
	mockConvertToDraft(clt, guarderr.NewRetryableAnytimeError(errors.New("non-200 OK status code: 502 Bad Gateway")))

	res, err := NewMutator(clt).Apply(context.Background(), testInput(), VerdictPending)
	assert.Nil(t, res)

	var mutationErr *guarderr.MutationError
	require.ErrorAs(t, err, &mutationErr)
	assert.True(t, guarderr.IsRetryable(err))
}

func TestApplyClosedPullRequest(t *testing.T) {
	clt := newMockClient(t)

	pr := openPR(false)
	pr.State = "closed"
	pr.Merged = true
	mockGetPR(clt, pr)

	_, err := NewMutator(clt).Apply(context.Background(), testInput(), VerdictPending)

	var mutationErr *guarderr.MutationError
	require.ErrorAs(t, err, &mutationErr)
	assert.ErrorIs(t, err, ErrPullRequestIsClosed)
}

func TestApplySkipsWhenHeadChanged(t *testing.T) {
	clt := newMockClient(t)

	pr := openPR(false)
	pr.HeadSHA = "def4560000000000000000000000000000000000"
	mockGetPR(clt, pr)

	res, err := NewMutator(clt).Apply(context.Background(), testInput(), VerdictPending)
	require.NoError(t, err)
	assert.Equal(t, MutationSupersededHead, res.Outcome)
}

func TestApplyPullRequestRetrievalFailure(t *testing.T) {
	clt := newMockClient(t)

	clt.EXPECT().
		PullRequest(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, guarderr.NewRetryableAnytimeError(errors.New("502")))

	_, err := NewMutator(clt).Apply(context.Background(), testInput(), VerdictPending)

	var fetchErr *guarderr.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, guarderr.IsRetryable(err))
}
