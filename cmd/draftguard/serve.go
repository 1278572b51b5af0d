package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/thecodeteam/goodbye"
	"go.uber.org/zap"

	"github.com/simplesurance/draftguard/internal/cfg"
	"github.com/simplesurance/draftguard/internal/logfields"
	"github.com/simplesurance/draftguard/internal/provider/github"
	"github.com/simplesurance/draftguard/internal/retryer"
	"github.com/simplesurance/draftguard/internal/trigger"
)

func newServeCmd() *cobra.Command {
	var dryRun bool

	cmd := cobra.Command{
		Use:   "serve",
		Short: "Receive GitHub webhook events and evaluate the pull requests they refer to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config := mustLoadCfg()
			if cmd.Flags().Changed("dry-run") {
				config.DryRun = dryRun
			}

			return runServe(config)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "do not modify pull requests, only log what would be done")

	return &cmd
}

// startHTTPServer starts a http server in a go-routine, the returned
// function shuts it down.
func startHTTPServer(listenAddr string, mux *http.ServeMux) (shutdownFn func()) {
	httpServer := http.Server{
		Addr:              listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 30 * time.Second,
	}

	shutdownFn = func() {
		const shutdownTimeout = 30 * time.Second
		ctx, cancelFn := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelFn()

		logger.Debug(
			"terminating http server",
			logfields.Event("http_server_terminating"),
			zap.Duration("shutdown_timeout", shutdownTimeout),
		)

		err := httpServer.Shutdown(ctx)
		if err != nil {
			logger.Warn(
				"shutting down http server failed",
				logfields.Event("http_server_termination_failed"),
				zap.Error(err),
			)
		}
	}

	go func() {
		defer panicHandler()

		logger.Info(
			"http server started",
			logfields.Event("http_server_started"),
			zap.String("listenAddr", listenAddr),
		)

		err := httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			logger.Info("http server terminated", logfields.Event("http_server_terminated"))
			return
		}

		logger.Fatal(
			"http server terminated unexpectedly",
			logfields.Event("http_server_terminated_unexpectedly"),
			zap.Error(err),
		)
	}()

	return shutdownFn
}

func runServe(config *cfg.Config) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if config.HTTPListenAddr == "" {
		return errors.New("http_server_listen_addr must be defined in the config file")
	}

	mustInitLogger(config)

	filter, err := trigger.NewFilter(config.TriggerQuery)
	if err != nil {
		return fmt.Errorf("could not parse trigger_query: %w", err)
	}

	logger.Info(
		"loaded cfg file",
		logfields.Event("cfg_loaded"),
		zap.String("cfg_file", globalArgs.ConfigFile),
		zap.String("http_server_listen_addr", config.HTTPListenAddr),
		zap.String("github_webhook_endpoint", config.HTTPGithubWebhookEndpoint),
		zap.String("github_webhook_secret", hide(config.GithubWebHookSecret)),
		zap.String("metrics_endpoint", config.HTTPMetricsEndpoint),
		zap.String("github_api_token", hide(config.GithubAPIToken)),
		zap.String("github_api_url", config.GithubAPIURL),
		zap.String("log_format", config.LogFormat),
		zap.String("log_time_key", config.LogTimeKey),
		zap.String("log_level", config.LogLevel),
		zap.Bool("dry_run", config.DryRun),
		zap.Bool("leave_comment", config.LeaveComment),
		zap.Stringer("settle_delay", config.SettleDelay),
		zap.Int("max_parallel_job_fetches", config.MaxParallelJobFetches),
		zap.Stringer("retry_timeout", config.RetryTimeout),
		zap.Stringer("trigger_query", filter),
	)

	goodbye.Register(func(_ context.Context, sig os.Signal) {
		if sig != nil {
			logger.Info(fmt.Sprintf("terminating, received signal %s", sig.String()))
		}
	})

	engine := newEngine(config, mustNewGithubClient(config, apiToken(config, "")))

	evLoopOpts := []trigger.Option{
		trigger.WithFilter(filter),
		trigger.WithRetryer(retryer.New(time.Duration(config.RetryTimeout))),
		trigger.WithRoutineDeferFunc(panicHandler),
	}
	if config.LeaveComment {
		evLoopOpts = append(evLoopOpts, trigger.WithComment(config.CommentBody))
	}

	evLoop := trigger.NewEventLoop(engine, evLoopOpts...)

	gh := github.New(
		evLoop.C(),
		github.WithPayloadSecret(config.GithubWebHookSecret),
	)

	mux := http.NewServeMux()

	mux.HandleFunc(config.HTTPGithubWebhookEndpoint, gh.HTTPHandler)
	logger.Info(
		"registered github webhook event http endpoint",
		logfields.Event("github_http_handler_registered"),
		zap.String("endpoint", config.HTTPGithubWebhookEndpoint),
	)

	if config.HTTPMetricsEndpoint != "" {
		mux.Handle(config.HTTPMetricsEndpoint, promhttp.Handler())
		logger.Info(
			"registered prometheus metrics http endpoint",
			logfields.Event("metrics_http_handler_registered"),
			zap.String("endpoint", config.HTTPMetricsEndpoint),
		)
	}

	go func() {
		defer panicHandler()
		evLoop.Start()
	}()

	shutdownHTTPServerFn := startHTTPServer(config.HTTPListenAddr, mux)

	goodbye.Register(func(context.Context, os.Signal) {
		// the webhook handler must not send events to the closed event
		// channel, the http server is stopped first
		shutdownHTTPServerFn()

		logger.Debug(
			"stopping event loop",
			logfields.Event("event_loop_stopping"),
		)

		evLoop.Stop()
	})

	select {}
}
