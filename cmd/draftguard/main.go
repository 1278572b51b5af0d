package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thecodeteam/goodbye"
	"go.uber.org/zap"

	"github.com/simplesurance/draftguard/internal/cfg"
)

const appName = "draftguard"

var logger = zap.NewNop()

// Version is set via a ldflag on compilation
var Version = "unknown"

type globalArguments struct {
	Verbose    bool
	ConfigFile string
}

var globalArgs globalArguments

func exitOnErr(msg string, err error) {
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "ERROR:", msg+", error:", err.Error())
	os.Exit(1)
}

func panicHandler() {
	if r := recover(); r != nil {
		logger.Info(
			"panic caught , terminating gracefully",
			zap.String("panic", fmt.Sprintf("%v", r)),
			zap.StackSkip("stacktrace", 1),
		)

		ctx, cancelFn := context.WithTimeout(context.Background(), time.Minute)
		defer cancelFn()

		goodbye.Exit(ctx, 1)
	}
}

func hide(in string) string {
	if in == "" {
		return in
	}

	return "**hidden**"
}

func addGlobalFlags(flags *pflag.FlagSet) {
	flags.BoolVarP(
		&globalArgs.Verbose,
		"verbose",
		"v",
		false,
		"enable verbose logging",
	)
	flags.StringVarP(
		&globalArgs.ConfigFile,
		"cfg-file",
		"c",
		"",
		"path to a TOML or YAML configuration file",
	)
}

// mustLoadCfg loads the configuration file if one was specified and applies
// the environment variable overwrites.
func mustLoadCfg() *cfg.Config {
	// we use exitOnErr in this function instead of logger.Fatal() because
	// the logger is not initialized yet

	config := cfg.Default()

	if globalArgs.ConfigFile != "" {
		var err error

		config, err = cfg.LoadFile(globalArgs.ConfigFile)
		exitOnErr(fmt.Sprintf("could not load configuration file: %s", globalArgs.ConfigFile), err)
	}

	exitOnErr("could not apply environment variables", config.ApplyEnv(os.LookupEnv))

	return config
}

func newRootCmd() *cobra.Command {
	rootCmd := cobra.Command{
		Use:   appName,
		Short: "Convert pull requests to drafts while their CI workflow runs are pending or failed",
		Long: appName + " evaluates the GitHub Actions workflow runs of a pull request head commit.\n" +
			"If a workflow run other than the invoking one is still running or did not succeed,\n" +
			"the pull request is converted to a draft.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newCheckCmd(), newServeCmd())

	return &rootCmd
}

func main() {
	defer panicHandler()

	goodbye.Notify(context.Background())

	exitCode := 0
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err.Error())
		exitCode = 1
	}

	goodbye.Exit(context.Background(), exitCode)
}
