package ghactions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pullRequestPayload = `{
  "action": "synchronize",
  "number": 42,
  "pull_request": {
    "number": 42,
    "draft": false,
    "head": {"ref": "feature", "sha": "abc123"}
  },
  "repository": {"name": "repo", "owner": {"login": "testman"}}
}`

const workflowRunPayload = `{
  "action": "completed",
  "workflow_run": {
    "id": 7,
    "head_sha": "abc123",
    "pull_requests": [
      {"number": 41, "head": {"sha": "def456"}},
      {"number": 42, "head": {"sha": "abc123"}}
    ]
  }
}`

func writeEventPayload(t *testing.T, payload string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	return path
}

func actionsEnv(eventName, eventPath string) LookupEnvFunc {
	env := map[string]string{
		"GITHUB_ACTIONS":    "true",
		"GITHUB_REPOSITORY": "testman/repo",
		"GITHUB_RUN_ID":     "1000",
		"GITHUB_EVENT_NAME": eventName,
		"GITHUB_EVENT_PATH": eventPath,
	}

	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestContextFromPullRequestEvent(t *testing.T) {
	for _, eventName := range []string{"pull_request", "pull_request_target"} {
		t.Run(eventName, func(t *testing.T) {
			ctx, err := ContextFromEnv(actionsEnv(eventName, writeEventPayload(t, pullRequestPayload)))
			require.NoError(t, err)

			assert.Equal(t, "testman", ctx.RepositoryOwner)
			assert.Equal(t, "repo", ctx.Repository)
			assert.Equal(t, int64(1000), ctx.RunID)
			assert.Equal(t, 42, ctx.PullRequest)
			assert.Equal(t, "abc123", ctx.HeadSHA)
		})
	}
}

func TestContextFromWorkflowRunEvent(t *testing.T) {
	ctx, err := ContextFromEnv(actionsEnv("workflow_run", writeEventPayload(t, workflowRunPayload)))
	require.NoError(t, err)

	assert.Equal(t, 42, ctx.PullRequest)
	assert.Equal(t, "abc123", ctx.HeadSHA)
}

func TestContextFromOtherEvent(t *testing.T) {
	ctx, err := ContextFromEnv(actionsEnv("push", writeEventPayload(t, `{"ref": "refs/heads/main"}`)))
	require.NoError(t, err)

	assert.Equal(t, "testman", ctx.RepositoryOwner)
	assert.Zero(t, ctx.PullRequest)
	assert.Empty(t, ctx.HeadSHA)
}

func TestContextFromEnvOutsideOfActions(t *testing.T) {
	_, err := ContextFromEnv(func(string) (string, bool) { return "", false })
	assert.ErrorIs(t, err, ErrNotInActions)
}

func TestContextFromEnvInvalidValues(t *testing.T) {
	t.Run("runID", func(t *testing.T) {
		env := actionsEnv("pull_request", "")
		_, err := ContextFromEnv(func(key string) (string, bool) {
			if key == "GITHUB_RUN_ID" {
				return "abc", true
			}
			return env(key)
		})
		assert.Error(t, err)
	})

	t.Run("missingPayloadFile", func(t *testing.T) {
		_, err := ContextFromEnv(actionsEnv("pull_request", filepath.Join(t.TempDir(), "missing.json")))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalidPayload", func(t *testing.T) {
		_, err := ContextFromEnv(actionsEnv("pull_request", writeEventPayload(t, "{")))
		assert.Error(t, err)
	})
}
