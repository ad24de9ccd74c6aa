package main

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/poldracklab/labutils/kfold"
)

type foldJSON struct {
	Train []int `json:"train"`
	Test  []int `json:"test"`
}

type splitJSON struct {
	PValue   float64    `json:"pvalue"`
	Accepted bool       `json:"accepted"`
	Attempts int        `json:"attempts"`
	Folds    []foldJSON `json:"folds"`
}

func (a *app) kfoldCmd() *cobra.Command {
	var (
		input     string
		nfolds    int
		pthresh   float64
		maxSplits int
		seed      uint64
		format    string
	)
	cmd := &cobra.Command{
		Use:   "kfold",
		Short: "Split samples into folds balanced on a response variable",
		Long: `Reads the response (one value per line) and draws shuffled K-fold
partitions until fold membership explains none of its variance (F-test p-value
above --pthresh), falling back to the best of --max-splits candidates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := openInput(input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer in.Close()
			y, err := readFloats(in)
			if err != nil {
				return fmt.Errorf("read response: %w", err)
			}

			opts := kfold.Options{
				NFolds:      a.cfg.KFold.NFolds,
				PThresh:     a.cfg.KFold.PThresh,
				MaxSplits:   a.cfg.KFold.MaxSplits,
				Verbose:     a.verbose,
				Logger:      a.log,
				OnCandidate: a.metrics.ObserveCandidate,
			}
			flags := cmd.Flags()
			if flags.Changed("nfolds") {
				opts.NFolds = nfolds
			}
			if flags.Changed("pthresh") {
				opts.PThresh = pthresh
			}
			if flags.Changed("max-splits") {
				opts.MaxSplits = maxSplits
			}
			switch {
			case flags.Changed("seed"):
				opts.Rand = rand.New(rand.NewPCG(seed, seed))
			case a.cfg.KFold.Seed != nil:
				s := *a.cfg.KFold.Seed
				opts.Rand = rand.New(rand.NewPCG(s, s))
			}

			bkf, err := kfold.New(opts)
			if err != nil {
				return err
			}
			split, err := bkf.Split(y)
			if err != nil {
				return err
			}
			a.metrics.ObserveSplit(split.Accepted)

			out := cmd.OutOrStdout()
			if format == "table" {
				rows := make([][]string, 0, len(split.Folds))
				for i, f := range split.Folds {
					rows = append(rows, []string{strconv.Itoa(i), strconv.Itoa(len(f.Train)), strconv.Itoa(len(f.Test)), joinInts(f.Test)})
				}
				writeTable(out, []string{"fold", "n_train", "n_test", "test"}, rows)
				_, err := fmt.Fprintf(out, "p = %.4g (accepted=%t, attempts=%d)\n", split.PValue, split.Accepted, split.Attempts)
				return err
			}

			res := splitJSON{PValue: split.PValue, Accepted: split.Accepted, Attempts: split.Attempts}
			for train, test := range split.All() {
				res.Folds = append(res.Folds, foldJSON{Train: train, Test: test})
			}
			return writeJSON(out, res)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", "-", "response file, one value per line (- = stdin)")
	f.IntVarP(&nfolds, "nfolds", "k", kfold.DefaultNFolds, "number of folds")
	f.Float64Var(&pthresh, "pthresh", kfold.DefaultPThresh, "accept splits with F-test p above this")
	f.IntVar(&maxSplits, "max-splits", kfold.DefaultMaxSplits, "candidate budget before falling back")
	f.Uint64Var(&seed, "seed", 0, "random seed (default: random)")
	f.StringVar(&format, "format", "json", "output format: json or table")

	return cmd
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, " ")
}
