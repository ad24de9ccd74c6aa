// Command labutils exposes the lab utilities (balanced cross-validation folds,
// HRF generation, Fisher transforms, network participation, PubMed queries,
// downloads and shell commands) on the command line.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/poldracklab/labutils/config"
	"github.com/poldracklab/labutils/logging"
	"github.com/poldracklab/labutils/metrics"
	"github.com/poldracklab/labutils/shell"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	configPath string
	verbose    bool
	metricsOut string

	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Recorder
	runID   string
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "labutils",
		Short:         "Research utilities for neuroimaging and cross-validation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.finish()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "labutils.yaml", "path to YAML config (missing file = defaults)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging and fit reports")
	pf.StringVar(&a.metricsOut, "metrics-out", "", "write Prometheus textfile metrics to this path")

	root.AddCommand(
		a.kfoldCmd(),
		a.hrfCmd(),
		a.rtozCmd(),
		a.ztorCmd(),
		a.participationCmd(),
		a.pubmedCmd(),
		a.downloadCmd(),
		a.runCmd(),
	)

	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.runID = uuid.NewString()
	a.log = log.With(zap.String("run_id", a.runID))
	if a.metricsOut == "" {
		a.metricsOut = cfg.Metrics.TextfilePath
	}
	if a.metricsOut != "" {
		a.metrics = metrics.New(cfg.Metrics.Namespace)
	}

	return nil
}

func (a *app) finish() error {
	defer func() { _ = a.log.Sync() }()
	if a.metricsOut == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.metricsOut); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	a.log.Debug("metrics written", zap.String("path", a.metricsOut))

	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "labutils:", err)
		var exitErr *shell.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
