package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplesurance/draftguard/internal/githubclt"
	"github.com/simplesurance/draftguard/internal/readiness"
)

func testInput() *readiness.Input {
	return &readiness.Input{
		Repository:  readiness.Repository{Owner: "testman", Name: "testrepo"},
		PullRequest: 42,
		CommitSHA:   "8ad9dec",
	}
}

func failedResult() *readiness.Result {
	build := githubclt.WorkflowRun{
		ID:         1,
		RunNumber:  12,
		Name:       "build",
		Status:     githubclt.RunStatusCompleted,
		Conclusion: githubclt.ConclusionFailure,
	}
	lint := githubclt.WorkflowRun{
		ID:         2,
		RunNumber:  3,
		Name:       "lint | vet",
		Status:     githubclt.RunStatusCompleted,
		Conclusion: githubclt.ConclusionSuccess,
	}
	failedJob := githubclt.WorkflowJob{
		ID:         11,
		RunID:      1,
		Name:       "test",
		Status:     githubclt.RunStatusCompleted,
		Conclusion: githubclt.ConclusionFailure,
	}
	skippedJob := githubclt.WorkflowJob{
		ID:         12,
		RunID:      1,
		Name:       "deploy",
		Status:     githubclt.RunStatusCompleted,
		Conclusion: githubclt.ConclusionSkipped,
	}

	return &readiness.Result{
		EvaluationID: "1",
		Verdict:      readiness.VerdictFailed,
		Snapshot: &readiness.Snapshot{
			Runs: []*githubclt.WorkflowRun{&build, &lint},
			Jobs: map[int64][]*githubclt.WorkflowJob{
				1: {&skippedJob, &failedJob},
			},
		},
		Blockers: []*readiness.Blocker{
			{Run: &build, Job: &failedJob, Verdict: readiness.VerdictFailed},
		},
		Mutation: readiness.MutationConverted,
	}
}

func TestText(t *testing.T) {
	out := Text(testInput(), failedResult())

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 7)

	assert.Equal(t, "testman/testrepo#42 (commit 8ad9dec) is FAILED: pull request was converted to a draft", lines[0])
	assert.Empty(t, lines[1])
	assert.Equal(t, "WORKFLOW RUN   STATUS     CONCLUSION  BLOCKING", lines[2])
	assert.Equal(t, "build #12      completed  failure", lines[3])
	assert.Equal(t, "  deploy       completed  skipped", lines[4])
	assert.Equal(t, "  test         completed  failure     FAILED", lines[5])
	assert.Equal(t, "lint | vet #3  completed  success", lines[6])
}

func TestTextTruncatesLongNames(t *testing.T) {
	res := failedResult()
	res.Snapshot.Runs[1].Name = strings.Repeat("x", 100)

	out := Text(testInput(), res)
	assert.NotContains(t, out, strings.Repeat("x", maxNameWidth))
	assert.Contains(t, out, "…")
}

func TestTextWithoutRuns(t *testing.T) {
	res := readiness.Result{
		Verdict:  readiness.VerdictReady,
		Snapshot: &readiness.Snapshot{},
		Mutation: readiness.MutationNone,
	}

	assert.Equal(
		t,
		"testman/testrepo#42 (commit 8ad9dec) is READY: no change required\nno workflow runs\n",
		Text(testInput(), &res),
	)
}

func TestMarkdown(t *testing.T) {
	res := failedResult()
	res.CommentErr = errors.New("creating comment failed")

	out := Markdown(testInput(), res)

	assert.True(t, strings.HasPrefix(out, "### Pull request readiness: FAILED\n"))
	assert.Contains(t, out, "> **Warning:** creating comment failed")
	assert.Contains(t, out, "| build #12 | completed | failure |  |\n")
	assert.Contains(t, out, "| ↳ test | completed | failure | FAILED |\n")
	assert.Contains(t, out, `| lint \| vet #3 | completed | success |  |`)
}

func TestBlockers(t *testing.T) {
	out := Blockers(failedResult(), "  ")
	assert.True(t, strings.HasPrefix(out, "  FAILED: job test (id: 11"))
	assert.NotContains(t, out, "\n")
}
