// Package readiness decides if a pull request is ready for review, based on
// the GitHub Actions workflow runs of its head commit, and converts it to a
// draft when it is not.
//
// An evaluation is a fresh, independent reduction over data fetched from
// GitHub:
//
// - the Collector retrieves all workflow runs of the commit, following
// pagination until the last page,
//
// - the workflow run that invoked the evaluation is removed (ExcludeSelfRun),
// otherwise it would always see itself in progress,
//
// - when no run is in progress, the Expander retrieves the jobs of all runs
// that did not succeed, to tell skipped jobs apart from failed ones,
//
// - Evaluate reduces the snapshot to a Verdict: VerdictReady, VerdictPending
// or VerdictFailed,
//
// - for VerdictPending and VerdictFailed the Mutator converts the pull
// request to a draft, if it isn't one already, and optionally comments on it.
//
// GitHub creates the workflow runs for a commit asynchronously. The Engine
// waits a short settle delay before collecting, to give sibling workflows of
// the invoking run the chance to be registered.
//
// The package does not retry failed GitHub API calls. An evaluation that
// could not observe the complete CI state fails without modifying the pull
// request. Callers can rerun the whole evaluation, e.g. with the retryer
// package, when the returned error wraps a guarderr.RetryableError.
package readiness
