package cfg

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a configuration file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

const (
	DefLogFormat             = "logfmt"
	DefLogTimeKey            = "time_iso8601"
	DefLogLevel              = "info"
	DefSettleDelay           = 5 * time.Second
	DefMaxParallelJobFetches = 4
	DefRetryTimeout          = 10 * time.Minute
	DefWebhookEndpoint       = "/listener/github"
	DefMetricsEndpoint       = "/metrics"
	DefCommentBody           = "This pull request was converted to a draft because its CI workflow runs " +
		"are still in progress or did not succeed.\n" +
		"Mark it as ready for review again when all workflow runs succeeded."
)

type Config struct {
	GithubAPIToken   string `toml:"github_api_token" yaml:"github_api_token"`
	GithubAPIURL     string `toml:"github_api_url" yaml:"github_api_url"`
	GithubGraphQLURL string `toml:"github_graphql_url" yaml:"github_graphql_url"`

	LogFormat  string `toml:"log_format" yaml:"log_format"`
	LogTimeKey string `toml:"log_time_key" yaml:"log_time_key"`
	LogLevel   string `toml:"log_level" yaml:"log_level"`

	LeaveComment          bool     `toml:"leave_comment" yaml:"leave_comment"`
	CommentBody           string   `toml:"comment_body" yaml:"comment_body"`
	SettleDelay           Duration `toml:"settle_delay" yaml:"settle_delay"`
	MaxParallelJobFetches int      `toml:"max_parallel_job_fetches" yaml:"max_parallel_job_fetches"`
	RetryTimeout          Duration `toml:"retry_timeout" yaml:"retry_timeout"`
	DryRun                bool     `toml:"dry_run" yaml:"dry_run"`

	HTTPListenAddr            string `toml:"http_server_listen_addr" yaml:"http_server_listen_addr"`
	HTTPGithubWebhookEndpoint string `toml:"github_webhook_endpoint" yaml:"github_webhook_endpoint"`
	GithubWebHookSecret       string `toml:"github_webhook_secret" yaml:"github_webhook_secret"`
	HTTPMetricsEndpoint       string `toml:"metrics_endpoint" yaml:"metrics_endpoint"`
	TriggerQuery              string `toml:"trigger_query" yaml:"trigger_query"`
}

// Default returns a Config with the default values set.
func Default() *Config {
	return &Config{
		LogFormat:                 DefLogFormat,
		LogTimeKey:                DefLogTimeKey,
		LogLevel:                  DefLogLevel,
		CommentBody:               DefCommentBody,
		SettleDelay:               Duration(DefSettleDelay),
		MaxParallelJobFetches:     DefMaxParallelJobFetches,
		RetryTimeout:              Duration(DefRetryTimeout),
		HTTPGithubWebhookEndpoint: DefWebhookEndpoint,
		HTTPMetricsEndpoint:       DefMetricsEndpoint,
	}
}

// FormatFromPath returns FormatYAML for files with a .yaml or .yml
// extension and FormatTOML otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Load reads a configuration in the given format from reader.
// Settings that are not defined in the configuration have their default
// value.
func Load(reader io.Reader, format Format) (*Config, error) {
	result := Default()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, result)
	case FormatYAML:
		err = yaml.Unmarshal(data, result)
	default:
		return nil, fmt.Errorf("unsupported configuration format: %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s configuration failed: %w", format, err)
	}

	return result, nil
}

// LoadFile reads the configuration file at path, the format is
// determined by FormatFromPath.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Load(f, FormatFromPath(path))
}

// Validate returns an error if a setting has an invalid value.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case "logfmt", "console", "json":
	default:
		return fmt.Errorf("log_format: unsupported value: %q", c.LogFormat)
	}

	if c.SettleDelay < 0 {
		return fmt.Errorf("settle_delay: must be >=0, is: %s", c.SettleDelay)
	}

	if c.MaxParallelJobFetches < 1 {
		return fmt.Errorf("max_parallel_job_fetches: must be >0, is: %d", c.MaxParallelJobFetches)
	}

	if c.RetryTimeout < 0 {
		return fmt.Errorf("retry_timeout: must be >=0, is: %s", c.RetryTimeout)
	}

	if c.GithubGraphQLURL != "" && c.GithubAPIURL == "" {
		return fmt.Errorf("github_graphql_url is set but github_api_url is empty")
	}

	return nil
}
