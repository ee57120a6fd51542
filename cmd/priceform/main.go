package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-priceform/internal/config"
	"github.com/goliatone/go-priceform/internal/logging"
	"github.com/goliatone/go-priceform/pkg/predict"
)

// errSubmissionFailed is returned after the failure was already shown to the
// user; main exits non-zero without repeating it.
var errSubmissionFailed = errors.New("priceform: submission failed")

// app carries flag values and the state PersistentPreRunE prepares.
type app struct {
	configPath string
	envFile    string
	endpoint   string
	contract   string
	timeout    time.Duration
	verbose    bool
	logFile    string

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "priceform",
		Short: "House price form backed by a prediction service",
		Long: `priceform collects the fields of a house listing, posts them to a price
prediction endpoint and shows the predicted price.

Run without arguments to open the interactive form.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runUI(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.StringVarP(&a.endpoint, "endpoint", "e", "", "prediction endpoint (default "+predict.DefaultEndpoint+")")
	flags.StringVar(&a.contract, "contract", "", "OpenAPI field contract path or URL (default: embedded)")
	flags.DurationVar(&a.timeout, "timeout", 0, "request timeout, 0 for none")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to this file")

	root.AddCommand(newUICmd(a), newPredictCmd(a), newFieldsCmd(a), newLintCmd(a))
	return root
}

// setup resolves configuration (defaults < file < env < flags) and builds the
// logger. The terminal UI owns the screen, so it only logs to a file.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, a.envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = a.endpoint
	}
	if flags.Changed("contract") {
		cfg.Contract = a.contract
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if flags.Changed("log-file") {
		cfg.Log.File = a.logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	interactive := cmd.Name() == "ui" || cmd == cmd.Root()
	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Verbose: a.verbose,
		File:    cfg.Log.File,
		Quiet:   interactive,
	})
	if err != nil {
		return err
	}
	a.logger = logger.Named("priceform")
	a.logger.Debug("configuration resolved",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("contract", cfg.Contract),
		zap.Duration("timeout", cfg.Timeout),
	)
	return nil
}

func (a *app) client() *predict.Client {
	return predict.NewClient(
		predict.WithEndpoint(a.cfg.Endpoint),
		predict.WithTimeout(a.cfg.Timeout),
		predict.WithLogger(a.logger),
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errSubmissionFailed) && !errors.Is(err, errLintFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
