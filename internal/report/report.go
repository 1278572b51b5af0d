// Package report renders the result of a readiness evaluation for humans.
package report

import (
	"fmt"
	"strings"

	"github.com/simplesurance/draftguard/internal/githubclt"
	"github.com/simplesurance/draftguard/internal/readiness"
	"github.com/simplesurance/draftguard/internal/stringutils"
)

const maxNameWidth = 48

type row struct {
	name       string
	status     string
	conclusion string
	blocking   string
}

type blockerIndex struct {
	runs map[int64]readiness.Verdict
	jobs map[int64]readiness.Verdict
}

func newBlockerIndex(blockers []*readiness.Blocker) *blockerIndex {
	idx := blockerIndex{
		runs: map[int64]readiness.Verdict{},
		jobs: map[int64]readiness.Verdict{},
	}

	for _, b := range blockers {
		if b.Job != nil {
			idx.jobs[b.Job.ID] = b.Verdict
			continue
		}

		idx.runs[b.Run.ID] = b.Verdict
	}

	return &idx
}

func blockingStr(v readiness.Verdict, isBlocker bool) string {
	if !isBlocker {
		return ""
	}

	return v.String()
}

func runName(run *githubclt.WorkflowRun) string {
	return fmt.Sprintf("%s #%d", run.Name, run.RunNumber)
}

func rows(res *readiness.Result) []*row {
	if res.Snapshot == nil {
		return nil
	}

	idx := newBlockerIndex(res.Blockers)
	result := make([]*row, 0, len(res.Snapshot.Runs))

	for _, run := range res.Snapshot.Runs {
		v, isBlocker := idx.runs[run.ID]
		result = append(result, &row{
			name:       runName(run),
			status:     string(run.Status),
			conclusion: run.Conclusion.String(),
			blocking:   blockingStr(v, isBlocker),
		})

		jobs, _ := res.Snapshot.Expanded(run.ID)
		for _, job := range jobs {
			v, isBlocker := idx.jobs[job.ID]
			result = append(result, &row{
				name:       "  " + job.Name,
				status:     string(job.Status),
				conclusion: job.Conclusion.String(),
				blocking:   blockingStr(v, isBlocker),
			})
		}
	}

	return result
}

// Headline returns a single line describing the verdict and what was done
// with the pull request.
func Headline(in *readiness.Input, res *readiness.Result) string {
	var action string

	switch res.Mutation {
	case readiness.MutationNone:
		action = "no change required"
	case readiness.MutationAlreadyDraft:
		action = "pull request is already a draft"
	case readiness.MutationSupersededHead:
		action = "pull request head commit changed, pull request was not changed"
	case readiness.MutationConverted:
		action = "pull request was converted to a draft"
	default:
		action = res.Mutation.String()
	}

	return fmt.Sprintf(
		"%s#%d (commit %s) is %s: %s",
		&in.Repository, in.PullRequest, in.CommitSHA, res.Verdict, action,
	)
}

// Text renders the workflow runs and jobs of the result as table.
// Columns are aligned for monospace terminals.
func Text(in *readiness.Input, res *readiness.Result) string {
	var sb strings.Builder

	sb.WriteString(Headline(in, res))
	sb.WriteString("\n")

	rows := rows(res)
	if len(rows) == 0 {
		sb.WriteString("no workflow runs\n")
		return sb.String()
	}

	header := row{name: "WORKFLOW RUN", status: "STATUS", conclusion: "CONCLUSION", blocking: "BLOCKING"}

	nameW := stringutils.Width(header.name)
	statusW := stringutils.Width(header.status)
	conclusionW := stringutils.Width(header.conclusion)

	for _, r := range rows {
		r.name = stringutils.Truncate(r.name, maxNameWidth)
		nameW = max(nameW, stringutils.Width(r.name))
		statusW = max(statusW, stringutils.Width(r.status))
		conclusionW = max(conclusionW, stringutils.Width(r.conclusion))
	}

	sb.WriteString("\n")

	for _, r := range append([]*row{&header}, rows...) {
		line := strings.Join([]string{
			stringutils.PadRight(r.name, nameW),
			stringutils.PadRight(r.status, statusW),
			stringutils.PadRight(r.conclusion, conclusionW),
			r.blocking,
		}, "  ")

		sb.WriteString(strings.TrimRight(line, " "))
		sb.WriteString("\n")
	}

	return sb.String()
}

var markdownEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

// Markdown renders the result as markdown document, it is suitable as
// GitHub Actions job summary.
func Markdown(in *readiness.Input, res *readiness.Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "### Pull request readiness: %s\n\n", res.Verdict)
	fmt.Fprintf(&sb, "%s\n\n", markdownEscaper.Replace(Headline(in, res)))

	if res.CommentErr != nil {
		fmt.Fprintf(&sb, "> **Warning:** %s\n\n", markdownEscaper.Replace(res.CommentErr.Error()))
	}

	rows := rows(res)
	if len(rows) == 0 {
		sb.WriteString("No workflow runs were found for the commit.\n")
		return sb.String()
	}

	sb.WriteString("| Workflow run / job | Status | Conclusion | Blocking |\n")
	sb.WriteString("| --- | --- | --- | --- |\n")

	for _, r := range rows {
		name := markdownEscaper.Replace(r.name)
		if strings.HasPrefix(r.name, "  ") {
			name = "↳ " + strings.TrimPrefix(name, "  ")
		}

		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", name, r.status, r.conclusion, r.blocking)
	}

	return sb.String()
}

// Blockers returns a line per blocker, indented by indent.
func Blockers(res *readiness.Result, indent string) string {
	lines := make([]string, 0, len(res.Blockers))
	for _, b := range res.Blockers {
		lines = append(lines, b.String())
	}

	return stringutils.IndentString(strings.Join(lines, "\n"), indent)
}
