package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/poldracklab/labutils/hrf"
)

func (a *app) hrfCmd() *cobra.Command {
	var (
		tr       float64
		fmriT    float64
		params   []float64
		stimulus string
	)
	cmd := &cobra.Command{
		Use:   "hrf",
		Short: "Print the SPM canonical HRF sampled at the repetition time",
		Long: `Prints the double-gamma HRF, one sample per line. With --convolve the
stimulus train (one value per scan) is convolved with the kernel instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := hrf.Params(a.cfg.HRF.Params)
			if cmd.Flags().Changed("params") {
				if len(params) != len(p) {
					return fmt.Errorf("--params needs %d values, got %d", len(p), len(params))
				}
				copy(p[:], params)
			}
			mt := a.cfg.HRF.FMRIT
			if cmd.Flags().Changed("fmri-t") {
				mt = fmriT
			}

			kernel, err := hrf.SPM(tr, hrf.WithParams(p), hrf.WithMicrotime(mt))
			if err != nil {
				return err
			}
			a.log.Debug("hrf kernel", zap.Float64("tr", tr), zap.Int("samples", len(kernel)))
			if stimulus == "" {
				return writeFloats(cmd.OutOrStdout(), kernel)
			}

			in, err := openInput(stimulus, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer in.Close()
			sig, err := readFloats(in)
			if err != nil {
				return fmt.Errorf("read stimulus: %w", err)
			}
			bold, err := hrf.Convolve(sig, kernel)
			if err != nil {
				return err
			}
			return writeFloats(cmd.OutOrStdout(), bold)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&tr, "tr", 2.0, "repetition time in seconds")
	f.Float64Var(&fmriT, "fmri-t", hrf.DefaultFMRIT, "microtime steps per scan")
	f.Float64SliceVar(&params, "params", nil, "seven double-gamma parameters")
	f.StringVar(&stimulus, "convolve", "", "stimulus file to convolve with the kernel (- = stdin)")

	return cmd
}
