package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/poldracklab/labutils/network"
	"github.com/poldracklab/labutils/stats"
)

// valuesFrom parses positional arguments, or the --input stream when none are given.
func valuesFrom(cmd *cobra.Command, args []string, input string) ([]float64, error) {
	if len(args) > 0 {
		out := make([]float64, len(args))
		for i, s := range args {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i+1, err)
			}
			out[i] = v
		}
		return out, nil
	}
	in, err := openInput(input, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	defer in.Close()

	return readFloats(in)
}

func (a *app) rtozCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "rtoz [r...]",
		Short: "Fisher r-to-z transform (±1 map to NaN)",
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := valuesFrom(cmd, args, input)
			if err != nil {
				return err
			}
			return writeFloats(cmd.OutOrStdout(), stats.RToZSlice(rs))
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "values file when no arguments are given")
	return cmd
}

func (a *app) ztorCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "ztor [z...]",
		Short: "Inverse Fisher z-to-r transform",
		RunE: func(cmd *cobra.Command, args []string) error {
			zs, err := valuesFrom(cmd, args, input)
			if err != nil {
				return err
			}
			return writeFloats(cmd.OutOrStdout(), stats.ZToRSlice(zs))
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "values file when no arguments are given")
	return cmd
}

func (a *app) participationCmd() *cobra.Command {
	var matrixPath, labelsPath string
	cmd := &cobra.Command{
		Use:   "participation",
		Short: "Participation coefficient of each node of a weighted network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mf, err := openInput(matrixPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer mf.Close()
			W, err := readMatrix(mf)
			if err != nil {
				return fmt.Errorf("read matrix: %w", err)
			}
			lf, err := openInput(labelsPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer lf.Close()
			ci, err := readInts(lf)
			if err != nil {
				return fmt.Errorf("read labels: %w", err)
			}

			p, err := network.Participation(W, ci)
			if err != nil {
				return err
			}
			deg, err := network.Degrees(W)
			if err != nil {
				return err
			}
			rows := make([][]string, len(p))
			for i := range p {
				rows[i] = []string{
					strconv.Itoa(i),
					strconv.Itoa(ci[i]),
					strconv.FormatFloat(deg[i], 'g', 6, 64),
					strconv.FormatFloat(p[i], 'f', 4, 64),
				}
			}
			writeTable(cmd.OutOrStdout(), []string{"node", "community", "strength", "participation"}, rows)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&matrixPath, "matrix", "", "connectivity matrix CSV")
	f.StringVar(&labelsPath, "labels", "", "community labels, one integer per line")
	_ = cmd.MarkFlagRequired("matrix")
	_ = cmd.MarkFlagRequired("labels")
	return cmd
}
