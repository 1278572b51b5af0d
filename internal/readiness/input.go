package readiness

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/simplesurance/draftguard/internal/guarderr"
	"github.com/simplesurance/draftguard/internal/logfields"
)

var commitSHARe = regexp.MustCompile(`^[0-9a-f]{40}$`)

// Repository identifies a GitHub repository.
type Repository struct {
	Owner string
	Name  string
}

func (r *Repository) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// Input contains everything needed to evaluate a pull request.
type Input struct {
	Repository  Repository
	PullRequest int
	// CommitSHA is the commit for that workflow runs are evaluated.
	// It must be the full 40 character lowercase hex sha.
	CommitSHA string
	// SelfRunID is the id of the workflow run that invoked the
	// evaluation. It is excluded from the evaluation.
	// 0 means the evaluation was not invoked by a workflow run.
	SelfRunID int64

	// LeaveComment enables creating CommentBody as comment when the pull
	// request was converted to a draft.
	LeaveComment bool
	CommentBody  string
}

// Validate returns a guarderr.InputError if a mandatory field is unset.
func (in *Input) Validate() error {
	if in.PullRequest <= 0 {
		return &guarderr.InputError{Err: guarderr.ErrMissingPullRequest}
	}

	if in.CommitSHA == "" {
		return &guarderr.InputError{Err: guarderr.ErrMissingCommit}
	}

	// workflow runs and pull requests are matched by exact comparison with
	// the sha github reports, which is always the full lowercase form
	if !commitSHARe.MatchString(in.CommitSHA) {
		return &guarderr.InputError{Err: fmt.Errorf("%w: %q", guarderr.ErrInvalidCommit, in.CommitSHA)}
	}

	if in.Repository.Owner == "" || in.Repository.Name == "" {
		return &guarderr.InputError{Err: guarderr.ErrMissingRepository}
	}

	if in.SelfRunID < 0 {
		return &guarderr.InputError{Err: fmt.Errorf("workflow run id is negative: %d", in.SelfRunID)}
	}

	return nil
}

func (in *Input) LogFields() []zap.Field {
	fields := []zap.Field{
		logfields.RepositoryOwner(in.Repository.Owner),
		logfields.Repository(in.Repository.Name),
		logfields.PullRequest(in.PullRequest),
		logfields.Commit(in.CommitSHA),
	}

	if in.SelfRunID != 0 {
		fields = append(fields, logfields.SelfWorkflowRun(in.SelfRunID))
	}

	return fields
}
