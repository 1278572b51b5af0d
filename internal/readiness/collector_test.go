package readiness

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplesurance/draftguard/internal/githubclt"
	"github.com/simplesurance/draftguard/internal/guarderr"
)

func TestCollectMergesAllPages(t *testing.T) {
	clt := newMockClient(t)

	mockRunsPages(clt,
		[]*githubclt.WorkflowRun{successfulRun(1)},
		[]*githubclt.WorkflowRun{successfulRun(2)},
	)

	runs, err := NewCollector(clt).Collect(context.Background(), testRepository(), commitSHA)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(1), runs[0].ID)
	assert.Equal(t, int64(2), runs[1].ID)
}

func TestCollectDeduplicatesShiftedRuns(t *testing.T) {
	clt := newMockClient(t)

	mockRunsPages(clt,
		[]*githubclt.WorkflowRun{successfulRun(3), successfulRun(2)},
		[]*githubclt.WorkflowRun{successfulRun(2), successfulRun(1)},
	)

	runs, err := NewCollector(clt).Collect(context.Background(), testRepository(), commitSHA)
	require.NoError(t, err)
	require.Len(t, runs, 3)
}

func TestCollectIgnoresRunsOfOtherCommits(t *testing.T) {
	clt := newMockClient(t)

	other := successfulRun(2)
	other.HeadSHA = "def4560000000000000000000000000000000000"

	mockRunsPages(clt, []*githubclt.WorkflowRun{successfulRun(1), other})

	runs, err := NewCollector(clt).Collect(context.Background(), testRepository(), commitSHA)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, int64(1), runs[0].ID)
}

func TestCollectNoRunsIsNotAnError(t *testing.T) {
	clt := newMockClient(t)

	mockRunsPages(clt, []*githubclt.WorkflowRun{})

	runs, err := NewCollector(clt).Collect(context.Background(), testRepository(), commitSHA)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestCollectFailsWhenAPageFails(t *testing.T) {
	clt := newMockClient(t)

	clt.EXPECT().
		ListWorkflowRuns(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq(commitSHA), gomock.Eq(1)).
		Return([]*githubclt.WorkflowRun{successfulRun(1)}, 2, nil)
	clt.EXPECT().
		ListWorkflowRuns(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq(commitSHA), gomock.Eq(2)).
		Return(nil, 0, errors.New("error mocked by TestCollectFailsWhenAPageFails"))

	runs, err := NewCollector(clt).Collect(context.Background(), testRepository(), commitSHA)
	require.Error(t, err)
	assert.Nil(t, runs)

	var fetchErr *guarderr.FetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestCollectSchemaErrorIsFetchError(t *testing.T) {
	clt := newMockClient(t)

	clt.EXPECT().
		ListWorkflowRuns(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, 0, &guarderr.SchemaError{Field: "workflow_runs"})

	_, err := NewCollector(clt).Collect(context.Background(), testRepository(), commitSHA)

	var fetchErr *guarderr.FetchError
	require.ErrorAs(t, err, &fetchErr)

	var schemaErr *guarderr.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestCollectFailsOnNonIncreasingPage(t *testing.T) {
	clt := newMockClient(t)

	clt.EXPECT().
		ListWorkflowRuns(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(1)).
		Return([]*githubclt.WorkflowRun{successfulRun(1)}, 1, nil)

	_, err := NewCollector(clt).Collect(context.Background(), testRepository(), commitSHA)

	var fetchErr *guarderr.FetchError
	assert.ErrorAs(t, err, &fetchErr)
}
