package ghactions

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/cli/go-gh/v2/pkg/repository"
	"github.com/google/go-github/v57/github"
)

// ErrNotInActions is returned when the GITHUB_ACTIONS environment variable is
// not set to "true".
var ErrNotInActions = errors.New("not running in a github actions workflow")

// LookupEnvFunc has the signature of os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// Context describes the workflow run that the process is executed in.
// Fields that are not available are empty or 0.
type Context struct {
	RepositoryOwner string
	Repository      string
	RunID           int64
	EventName       string
	// PullRequest and HeadSHA are set when the workflow was triggered by a
	// pull_request, pull_request_target or workflow_run event.
	PullRequest int
	HeadSHA     string
}

type pullRequestGetter interface {
	GetPullRequest() *github.PullRequest
}

// ContextFromEnv reads the GitHub Actions run context from environment
// variables, the event payload is read from the file referenced by
// GITHUB_EVENT_PATH.
func ContextFromEnv(lookupEnv LookupEnvFunc) (*Context, error) {
	if v, _ := lookupEnv("GITHUB_ACTIONS"); v != "true" {
		return nil, ErrNotInActions
	}

	var result Context

	if v, ok := lookupEnv("GITHUB_REPOSITORY"); ok && v != "" {
		repo, err := repository.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("parsing GITHUB_REPOSITORY failed: %w", err)
		}

		result.RepositoryOwner = repo.Owner
		result.Repository = repo.Name
	}

	if v, ok := lookupEnv("GITHUB_RUN_ID"); ok && v != "" {
		runID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing GITHUB_RUN_ID failed: %w", err)
		}

		result.RunID = runID
	}

	result.EventName, _ = lookupEnv("GITHUB_EVENT_NAME")

	eventPath, _ := lookupEnv("GITHUB_EVENT_PATH")
	if eventPath == "" || result.EventName == "" {
		return &result, nil
	}

	payload, err := os.ReadFile(eventPath)
	if err != nil {
		return nil, fmt.Errorf("reading event payload failed: %w", err)
	}

	if err := result.parseEventPayload(payload); err != nil {
		return nil, fmt.Errorf("parsing %s event payload failed: %w", result.EventName, err)
	}

	return &result, nil
}

func (c *Context) parseEventPayload(payload []byte) error {
	switch c.EventName {
	case "pull_request", "pull_request_target", "workflow_run":
	default:
		return nil
	}

	event, err := github.ParseWebHook(c.EventName, payload)
	if err != nil {
		return err
	}

	if ev, ok := event.(pullRequestGetter); ok {
		pr := ev.GetPullRequest()
		c.PullRequest = pr.GetNumber()
		c.HeadSHA = pr.GetHead().GetSHA()

		return nil
	}

	if ev, ok := event.(*github.WorkflowRunEvent); ok {
		run := ev.GetWorkflowRun()
		c.HeadSHA = run.GetHeadSHA()

		for _, pr := range run.PullRequests {
			if pr.GetHead().GetSHA() == c.HeadSHA {
				c.PullRequest = pr.GetNumber()
				break
			}
		}
	}

	return nil
}
