package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/repository"
	"github.com/spf13/cobra"
	"github.com/thecodeteam/goodbye"
	"go.uber.org/zap"

	"github.com/simplesurance/draftguard/internal/cfg"
	"github.com/simplesurance/draftguard/internal/ghactions"
	"github.com/simplesurance/draftguard/internal/logfields"
	"github.com/simplesurance/draftguard/internal/readiness"
	"github.com/simplesurance/draftguard/internal/report"
	"github.com/simplesurance/draftguard/internal/retryer"
)

type checkArguments struct {
	Repository   string
	PullRequest  int
	CommitSHA    string
	RunID        int64
	DryRun       bool
	Summary      bool
	LeaveComment bool
	CommentBody  string
}

func newCheckCmd() *cobra.Command {
	var args checkArguments

	cmd := cobra.Command{
		Use:   "check",
		Short: "Evaluate the workflow runs of a pull request commit once",
		Long: "Evaluate the workflow runs of a pull request head commit and convert the pull request\n" +
			"to a draft if a workflow run is pending or failed.\n" +
			"Unset arguments are read from the GitHub Actions environment, the repository and\n" +
			"API token can also be discovered from the local gh configuration.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, &args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&args.Repository, "repository", "r", "", "repository in the format [HOST/]OWNER/NAME")
	flags.IntVarP(&args.PullRequest, "pr", "p", 0, "number of the pull request")
	flags.StringVar(&args.CommitSHA, "sha", "", "full sha of the pull request head commit to evaluate")
	flags.Int64Var(&args.RunID, "run-id", 0, "id of the invoking workflow run, it is excluded from the evaluation")
	flags.BoolVar(&args.DryRun, "dry-run", false, "do not modify the pull request, only log what would be done")
	flags.BoolVar(&args.Summary, "summary", false, "print a table of the evaluated workflow runs and jobs")
	flags.BoolVar(&args.LeaveComment, "leave-comment", false, "comment on the pull request when it is converted to a draft")
	flags.StringVar(&args.CommentBody, "comment-body", cfg.DefCommentBody, "text of the comment")

	return &cmd
}

// applyFlags overwrites config settings with flags that were set explicitly.
func applyFlags(cmd *cobra.Command, args *checkArguments, config *cfg.Config) {
	flags := cmd.Flags()

	if flags.Changed("dry-run") {
		config.DryRun = args.DryRun
	}

	if flags.Changed("leave-comment") {
		config.LeaveComment = args.LeaveComment
	}

	if flags.Changed("comment-body") {
		config.CommentBody = args.CommentBody
	}
}

// resolveInput creates the evaluation input from the command line arguments.
// Unset arguments are taken from actx, when it is not nil.
// If the repository is still unknown, currentRepo is called to determine it.
// The returned string is the host of the repository, it is empty if it is
// unknown.
func resolveInput(
	args *checkArguments,
	config *cfg.Config,
	actx *ghactions.Context,
	currentRepo func() (repository.Repository, error),
) (*readiness.Input, string, error) {
	in := readiness.Input{
		PullRequest:  args.PullRequest,
		CommitSHA:    args.CommitSHA,
		SelfRunID:    args.RunID,
		LeaveComment: config.LeaveComment,
		CommentBody:  config.CommentBody,
	}

	var host string

	if args.Repository != "" {
		repo, err := repository.Parse(args.Repository)
		if err != nil {
			return nil, "", fmt.Errorf("invalid repository argument: %w", err)
		}

		in.Repository = readiness.Repository{Owner: repo.Owner, Name: repo.Name}
		host = repo.Host
	}

	if actx != nil {
		if in.Repository.Owner == "" {
			in.Repository = readiness.Repository{Owner: actx.RepositoryOwner, Name: actx.Repository}
		}

		if in.PullRequest == 0 {
			in.PullRequest = actx.PullRequest
		}

		if in.CommitSHA == "" {
			in.CommitSHA = actx.HeadSHA
		}

		if in.SelfRunID == 0 {
			in.SelfRunID = actx.RunID
		}
	}

	if in.Repository.Owner == "" && currentRepo != nil {
		repo, err := currentRepo()
		if err != nil {
			return nil, "", fmt.Errorf("repository argument is missing and the repository could not be determined from the git configuration: %w", err)
		}

		in.Repository = readiness.Repository{Owner: repo.Owner, Name: repo.Name}
		host = repo.Host
	}

	in.CommitSHA = strings.ToLower(strings.TrimSpace(in.CommitSHA))

	if err := in.Validate(); err != nil {
		return nil, "", err
	}

	return &in, host, nil
}

func mustActionsContext() *ghactions.Context {
	actx, err := ghactions.ContextFromEnv(os.LookupEnv)
	if err != nil {
		if errors.Is(err, ghactions.ErrNotInActions) {
			return nil
		}

		exitOnErr("reading github actions context failed", err)
	}

	return actx
}

func runCheck(cmd *cobra.Command, args *checkArguments) error {
	config := mustLoadCfg()
	applyFlags(cmd, args, config)
	exitOnErr("invalid configuration", config.Validate())

	mustInitLogger(config)

	actx := mustActionsContext()

	in, host, err := resolveInput(args, config, actx, repository.Current)
	if err != nil {
		return err
	}

	token := apiToken(config, host)

	logger.Info(
		"evaluating pull request",
		append(
			in.LogFields(),
			logfields.Event("check_started"),
			zap.String("cfg_file", globalArgs.ConfigFile),
			zap.String("github_api_token", hide(token)),
			zap.String("github_api_url", config.GithubAPIURL),
			zap.Bool("dry_run", config.DryRun),
			zap.Bool("leave_comment", config.LeaveComment),
			zap.Stringer("settle_delay", config.SettleDelay),
			zap.Bool("github_actions", actx != nil),
		)...,
	)

	engine := newEngine(config, mustNewGithubClient(config, token))

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	rt := retryer.New(time.Duration(config.RetryTimeout))

	goodbye.Register(func(_ context.Context, sig os.Signal) {
		if sig != nil {
			logger.Info(fmt.Sprintf("terminating, received signal %s", sig.String()))
		}

		rt.Stop()
		cancelFn()
	})

	var result *readiness.Result
	err = rt.Run(
		ctx,
		func(ctx context.Context) error {
			var err error
			result, err = engine.Evaluate(ctx, in)
			return err
		},
		in.LogFields(),
	)

	var commands *ghactions.Commands
	if actx != nil {
		commands = ghactions.NewCommands(os.Stdout)
	}

	if err != nil {
		if commands != nil {
			commands.Error(fmt.Sprintf("evaluating pull request #%d failed: %s", in.PullRequest, err))
		}

		return err
	}

	writeResult(os.Stdout, commands, args.Summary, in, result)

	return nil
}

func writeResult(
	out io.Writer,
	commands *ghactions.Commands,
	summary bool,
	in *readiness.Input,
	result *readiness.Result,
) {
	headline := report.Headline(in, result)

	if commands != nil {
		if result.Verdict == readiness.VerdictReady {
			commands.Notice(headline)
		} else {
			commands.Warning(headline + "\n" + report.Blockers(result, "  "))
		}

		if result.CommentErr != nil {
			commands.Warning(result.CommentErr.Error())
		}
	}

	if result.CommentErr != nil {
		logger.Warn(
			"pull request was converted to draft but creating the comment failed",
			logfields.Event("check_comment_failed"),
			logfields.EvaluationID(result.EvaluationID),
			zap.Error(result.CommentErr),
		)
	}

	logger.Info(
		headline,
		logfields.Event("check_finished"),
		logfields.EvaluationID(result.EvaluationID),
		logfields.Verdict(result.Verdict.String()),
		zap.Stringer("mutation", result.Mutation),
		zap.Int("blockers", len(result.Blockers)),
	)

	if !summary {
		return
	}

	fmt.Fprint(out, report.Text(in, result))

	written, err := ghactions.AppendStepSummary(os.LookupEnv, report.Markdown(in, result))
	if err != nil {
		logger.Warn(
			"writing job summary failed",
			logfields.Event("step_summary_write_failed"),
			zap.Error(err),
		)

		return
	}

	if written {
		logger.Debug("job summary written", logfields.Event("step_summary_written"))
	}
}
