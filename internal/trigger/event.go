package trigger

import (
	"fmt"

	go_github "github.com/google/go-github/v57/github"
	"go.uber.org/zap"

	"github.com/simplesurance/draftguard/internal/logfields"
	"github.com/simplesurance/draftguard/internal/provider/github"
)

// pullRequestActions are the actions of pull_request events that cause an
// evaluation. Other actions do not change the head commit or the draft
// state in a way that requires it.
var pullRequestActions = map[string]struct{}{
	"opened":           {},
	"synchronize":      {},
	"reopened":         {},
	"ready_for_review": {},
}

type repoGetter interface {
	GetRepo() *go_github.Repository
}

// Event is a github webhook event reduced to the information that is
// needed to evaluate the pull requests it refers to.
type Event struct {
	JSON []byte

	DeliveryID      string
	EventType       string
	Action          string
	RepositoryOwner string
	Repository      string
	CommitID        string
	// PullRequestNrs are the numbers of the pull requests that have
	// CommitID as head commit. It is empty if the event does not refer
	// to a pull request.
	PullRequestNrs []int

	LogFields []zap.Field
}

func (e *Event) String() string {
	return fmt.Sprintf("github/%s (deliveryID: %s)", e.EventType, e.DeliveryID)
}

func fromProviderEvent(event *github.Event) *Event {
	result := extractEventInfo(event.Event)
	result.JSON = event.JSON
	result.DeliveryID = event.DeliveryID
	result.EventType = event.Type
	result.Action = event.Action
	result.LogFields = eventLogFields(event, result)

	return result
}

func extractEventInfo(ghEvent any) *Event {
	var result Event

	if v, ok := ghEvent.(repoGetter); ok {
		if repo := v.GetRepo(); repo != nil {
			result.Repository = repo.GetName()
			result.RepositoryOwner = repo.GetOwner().GetLogin()
		}
	}

	switch ev := ghEvent.(type) {
	case *go_github.WorkflowRunEvent:
		run := ev.GetWorkflowRun()
		result.CommitID = run.GetHeadSHA()
		result.PullRequestNrs = pullRequestNumbers(run.PullRequests, result.CommitID)

	case *go_github.CheckSuiteEvent:
		suite := ev.GetCheckSuite()
		result.CommitID = suite.GetHeadSHA()
		result.PullRequestNrs = pullRequestNumbers(suite.PullRequests, result.CommitID)

	case *go_github.PullRequestEvent:
		if _, exists := pullRequestActions[ev.GetAction()]; !exists {
			break
		}

		pr := ev.GetPullRequest()
		if pr.GetState() != "open" {
			break
		}

		result.CommitID = pr.GetHead().GetSHA()
		result.PullRequestNrs = []int{pr.GetNumber()}
	}

	return &result
}

// pullRequestNumbers returns the numbers of prs that have headSHA as head
// commit.
// Pull requests that are listed in workflow_run and check_suite events can
// have a different head commit when they were updated after the run was
// created, they are evaluated when the events for their new head commit
// arrive.
func pullRequestNumbers(prs []*go_github.PullRequest, headSHA string) []int {
	result := make([]int, 0, len(prs))

	for _, pr := range prs {
		if pr.GetNumber() <= 0 {
			continue
		}

		if sha := pr.GetHead().GetSHA(); sha != "" && sha != headSHA {
			continue
		}

		result = append(result, pr.GetNumber())
	}

	return result
}

func eventLogFields(providerEvent *github.Event, ev *Event) []zap.Field {
	result := make([]zap.Field, 0, len(providerEvent.LogFields)+4)
	result = append(result, providerEvent.LogFields...)

	if ev.Repository != "" {
		result = append(result, logfields.Repository(ev.Repository))
	}

	if ev.RepositoryOwner != "" {
		result = append(result, logfields.RepositoryOwner(ev.RepositoryOwner))
	}

	if ev.CommitID != "" {
		result = append(result, logfields.Commit(ev.CommitID))
	}

	if len(ev.PullRequestNrs) != 0 {
		result = append(result, zap.Ints("github.pull_requests", ev.PullRequestNrs))
	}

	return result
}
