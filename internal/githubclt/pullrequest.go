package githubclt

import (
	"context"
	"errors"
	"fmt"

	"github.com/shurcooL/githubv4"

	"github.com/simplesurance/draftguard/internal/logfields"
)

// PullRequest returns the current state of a pull request.
func (clt *Client) PullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	pr, _, err := clt.restClt.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, clt.wrapRetryableErrors(err)
	}

	if pr.GetNodeID() == "" {
		return nil, errors.New("got pull request object with empty node_id")
	}

	prHead := pr.GetHead()
	if prHead == nil {
		return nil, errors.New("got pull request object with empty head")
	}

	if prHead.GetSHA() == "" {
		return nil, errors.New("got pull request object with empty head sha")
	}

	return &PullRequest{
		Number:  pr.GetNumber(),
		NodeID:  pr.GetNodeID(),
		Draft:   pr.GetDraft(),
		HeadSHA: prHead.GetSHA(),
		State:   pr.GetState(),
		Merged:  pr.GetMerged(),
	}, nil
}

// ConvertPullRequestToDraft converts the pull request with the GraphQL node
// id to a draft pull request.
// Converting a pull request that is already a draft succeeds.
func (clt *Client) ConvertPullRequestToDraft(ctx context.Context, nodeID string) error {
	var m struct {
		ConvertPullRequestToDraft struct {
			PullRequest struct {
				Number  githubv4.Int
				IsDraft githubv4.Boolean
			}
		} `graphql:"convertPullRequestToDraft(input: $input)"`
	}

	input := githubv4.ConvertPullRequestToDraftInput{
		PullRequestID: githubv4.ID(nodeID),
	}

	err := clt.graphQLClt.Mutate(ctx, &m, input, nil)
	if err != nil {
		return clt.wrapGraphQLRetryableErrors(err)
	}

	pr := m.ConvertPullRequestToDraft.PullRequest
	if !pr.IsDraft {
		return fmt.Errorf("pull request #%d is not a draft after running the convertPullRequestToDraft mutation", pr.Number)
	}

	clt.logger.Debug(
		"converted pull request to draft",
		logfields.Event("github_pull_request_converted_to_draft"),
		logfields.PullRequest(int(pr.Number)),
	)

	return nil
}
