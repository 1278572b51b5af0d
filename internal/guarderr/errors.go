// Package guarderr defines the error types returned when evaluating and
// gating pull requests.
package guarderr

import (
	"errors"
	"fmt"
)

var (
	ErrMissingPullRequest = errors.New("pull request number is undefined")
	ErrMissingCommit      = errors.New("commit sha is undefined")
	ErrInvalidCommit      = errors.New("commit sha is not a full lowercase hex object id")
	ErrMissingRepository  = errors.New("repository owner or name is undefined")
)

// InputError is returned when the evaluation can not start because required
// input values are missing or invalid.
type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// FetchError is returned when reading data from GitHub failed.
// Op names the failed call, e.g. "list workflow runs".
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// SchemaError is returned when a response does not contain an expected
// field.
// An absent array field is not interpreted as an empty result.
type SchemaError struct {
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("response does not contain the %q field", e.Field)
}

// MutationError is returned when converting a pull request to draft was
// rejected.
type MutationError struct {
	PullRequest int
	Err         error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("converting pull request #%d to draft failed: %s", e.PullRequest, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// CommentError is returned when creating the explanatory comment on a pull
// request failed.
type CommentError struct {
	PullRequest int
	Err         error
}

func (e *CommentError) Error() string {
	return fmt.Sprintf("creating comment on pull request #%d failed: %s", e.PullRequest, e.Err)
}

func (e *CommentError) Unwrap() error {
	return e.Err
}
