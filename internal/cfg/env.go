package cfg

import (
	"fmt"
	"strconv"
	"strings"
)

// LookupEnvFunc has the signature of os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// ApplyEnv overwrites settings with the values of GitHub Actions inputs
// (INPUT_<NAME> environment variables) and the GitHub Actions default
// environment variables.
// Unset and empty variables are ignored.
func (c *Config) ApplyEnv(lookupEnv LookupEnvFunc) error {
	get := func(key string) (string, bool) {
		val, exists := lookupEnv(key)
		if !exists {
			return "", false
		}

		val = strings.TrimSpace(val)
		return val, val != ""
	}

	if val, ok := get("GITHUB_TOKEN"); ok {
		c.GithubAPIToken = val
	}
	if val, ok := get("INPUT_GITHUB_TOKEN"); ok {
		c.GithubAPIToken = val
	}

	if val, ok := get("GITHUB_API_URL"); ok {
		c.GithubAPIURL = val
	}
	if val, ok := get("GITHUB_GRAPHQL_URL"); ok {
		c.GithubGraphQLURL = val
	}

	if val, ok := get("INPUT_LEAVE_COMMENT"); ok {
		b, err := parseBool(val)
		if err != nil {
			return fmt.Errorf("INPUT_LEAVE_COMMENT: %w", err)
		}

		c.LeaveComment = b
	}

	if val, ok := get("INPUT_COMMENT_BODY"); ok {
		c.CommentBody = val
	}

	if val, ok := get("INPUT_SETTLE_DELAY"); ok {
		if err := c.SettleDelay.UnmarshalText([]byte(val)); err != nil {
			return fmt.Errorf("INPUT_SETTLE_DELAY: %w", err)
		}
	}

	if val, ok := get("INPUT_DRY_RUN"); ok {
		b, err := parseBool(val)
		if err != nil {
			return fmt.Errorf("INPUT_DRY_RUN: %w", err)
		}

		c.DryRun = b
	}

	return nil
}

// parseBool additionally accepts "yes", "no", "on" and "off", values that
// are commonly used in workflow files.
func parseBool(val string) (bool, error) {
	switch strings.ToLower(val) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}

	return strconv.ParseBool(val)
}
