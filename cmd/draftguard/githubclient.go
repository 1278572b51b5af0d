package main

import (
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/auth"
	"go.uber.org/zap"

	"github.com/simplesurance/draftguard/internal/cfg"
	"github.com/simplesurance/draftguard/internal/githubclt"
	"github.com/simplesurance/draftguard/internal/logfields"
	"github.com/simplesurance/draftguard/internal/readiness"
)

const defGithubHost = "github.com"

func isGithubDotCom(apiURL string) bool {
	switch strings.TrimSuffix(apiURL, "/") {
	case "", "https://api.github.com":
		return true
	default:
		return false
	}
}

// graphQLURL returns the GraphQL endpoint of a GitHub Enterprise Server
// installation with the REST API endpoint restURL.
func graphQLURL(config *cfg.Config) string {
	if config.GithubGraphQLURL != "" {
		return config.GithubGraphQLURL
	}

	restURL := strings.TrimSuffix(config.GithubAPIURL, "/")
	if base, found := strings.CutSuffix(restURL, "/api/v3"); found {
		return base + "/api/graphql"
	}

	return restURL + "/graphql"
}

// apiToken returns the configured API token, if none is configured the token
// of the GitHub CLI configuration for host is returned.
func apiToken(config *cfg.Config, host string) string {
	if config.GithubAPIToken != "" {
		return config.GithubAPIToken
	}

	if host == "" {
		host = defGithubHost
	}

	token, source := auth.TokenForHost(host)
	if token != "" {
		logger.Debug(
			"using github api token from gh configuration",
			logfields.Event("github_token_discovered"),
			zap.String("source", source),
			zap.String("host", host),
		)
	}

	return token
}

func mustNewGithubClient(config *cfg.Config, token string) readiness.GithubClient {
	var clt readiness.GithubClient

	if isGithubDotCom(config.GithubAPIURL) {
		clt = githubclt.New(token)
	} else {
		var err error

		clt, err = githubclt.NewEnterprise(token, config.GithubAPIURL, graphQLURL(config))
		if err != nil {
			logger.Fatal(
				"creating github client failed",
				logfields.Event("github_client_creation_failed"),
				zap.String("github_api_url", config.GithubAPIURL),
				zap.Error(err),
			)
		}
	}

	if config.DryRun {
		logger.Info(
			"dry-run mode enabled, pull requests will not be modified",
			logfields.Event("dry_run_enabled"),
		)

		return readiness.NewDryGithubClient(clt, zap.L().Named("dry_run"))
	}

	return clt
}

func newEngine(config *cfg.Config, clt readiness.GithubClient) *readiness.Engine {
	return readiness.NewEngine(
		clt,
		readiness.WithSettleDelay(time.Duration(config.SettleDelay)),
		readiness.WithMaxParallelJobFetches(config.MaxParallelJobFetches),
	)
}
