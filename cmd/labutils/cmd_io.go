package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/poldracklab/labutils/download"
	"github.com/poldracklab/labutils/pubmed"
	"github.com/poldracklab/labutils/shell"
)

// signalContext cancels on SIGINT/SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
}

func (a *app) pubmedCmd() *cobra.Command {
	var retmax int
	cmd := &cobra.Command{
		Use:   "pubmed QUERY",
		Short: "Query PubMed and print records keyed by DOI as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			e := a.cfg.Entrez
			email := e.Email
			if email == "" {
				var err error
				if email, err = pubmed.EmailFromEnv(); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("retmax") {
				retmax = e.RetMax
			}
			client, err := pubmed.NewClient(pubmed.Options{
				BaseURL:   e.BaseURL,
				Email:     email,
				APIKey:    e.APIKey,
				Tool:      e.Tool,
				RateLimit: e.RateLimit,
				BatchSize: e.BatchSize,
				Logger:    a.log,
				OnRequest: a.metrics.ObserveEntrez,
			})
			if err != nil {
				return err
			}
			recs, err := client.ProcessedQuery(ctx, strings.Join(args, " "), retmax)
			if err != nil {
				return err
			}
			a.log.Info("pubmed query done", zap.Int("records", len(recs)))
			return writeJSON(cmd.OutOrStdout(), recs)
		},
	}
	cmd.Flags().IntVar(&retmax, "retmax", pubmed.DefaultRetMax, "maximum number of PMIDs to retrieve")
	return cmd
}

func (a *app) downloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download URL DEST",
		Short: "Download a URL to a local file with retries",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			d := a.cfg.Download
			n, err := download.File(ctx, args[0], args[1],
				download.WithConnectTimeout(a.cfg.ConnectTimeout()),
				download.WithChunkSize(d.ChunkSize),
				download.WithMaxRetries(uint(max(d.MaxRetries, 0))),
				download.WithRetryStatuses(d.RetryStatuses...),
				download.WithLogger(a.log),
				download.OnRetry(a.metrics.ObserveRetry),
			)
			if err != nil {
				return err
			}
			a.metrics.AddDownloadBytes(n)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bytes\n", args[1], n)
			return err
		},
	}
}

func (a *app) runCmd() *cobra.Command {
	var dir string
	var quiet bool
	cmd := &cobra.Command{
		Use:   "run -- COMMAND...",
		Short: "Run a shell command and print its trimmed stdout lines",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			lines, err := shell.Run(ctx, strings.Join(args, " "),
				shell.WithDir(dir),
				shell.WithVerbose(!quiet),
				shell.WithStderr(cmd.ErrOrStderr()),
				shell.WithLogger(a.log),
			)
			out := cmd.OutOrStdout()
			for _, l := range lines {
				fmt.Fprintln(out, l)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "working directory")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not log output lines")
	return cmd
}
