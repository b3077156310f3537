package main

import (
	"fmt"
	"io"
	"math/cmplx"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/eegprep/dsp/filter/design/band"
	"github.com/cwbudde/eegprep/internal/config"
	"github.com/cwbudde/eegprep/internal/pipeline"
)

var defaultProbes = []float64{0.5, 1, 3, 6, 10, 20, 40, 60, 90, 120, 200, 400}

// Impulse-response decay to -60 dB, searched over at most ten seconds.
const (
	settlingTol     = 1e-3
	settlingSeconds = 10
)

func newFilterInfoCmd(base config.Config) *cobra.Command {
	cfg := base

	var probes []float64

	cmd := &cobra.Command{
		Use:   "filter-info",
		Short: "Print the band-pass coefficients and magnitude response",
		Long: `Design the band-pass filter from the current settings and print its
second-order sections, padding requirement and magnitude response.

Example: eegprep filter-info --lowcut 6 --highcut 90 --probe 3,6,50,90,120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec, err := pipeline.DesignFilter(cfg)
			if err != nil {
				return err
			}

			return printFilter(cmd.OutOrStdout(), spec, cfg, probes)
		},
	}

	bindFilterFlags(cmd, &cfg)
	cmd.Flags().Float64Var(&cfg.SourceRate, "source-rate", cfg.SourceRate, "recording sample rate in Hz")
	cmd.Flags().Float64SliceVar(&probes, "probe", defaultProbes, "probe frequencies in Hz")

	return cmd
}

func printFilter(w io.Writer, spec band.Spec, cfg config.Config, probes []float64) error {
	if _, err := fmt.Fprintf(w, "Chebyshev I band-pass %g-%g Hz at %g Hz, order %d, ripple %g dB\n",
		cfg.LowHz, cfg.HighHz, cfg.SourceRate, cfg.FilterOrder, cfg.RippleDB); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "taps=%d sections=%d padding=%d min-input=%d settling=%d\n\n",
		len(spec.B), len(spec.Sections), spec.PadLength(), spec.MinInputLength(),
		spec.Settling(settlingTol, int(settlingSeconds*cfg.SourceRate))); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Section\tb0\tb1\tb2\ta1\ta2\tzeros\t|pole|\n")
	fmt.Fprintf(tw, "-------\t--\t--\t--\t--\t--\t-----\t------\n")

	for i, s := range spec.Sections {
		z, p := s.Zeros(), s.Poles()
		fmt.Fprintf(tw, "%d\t%.9g\t%.9g\t%.9g\t%.9g\t%.9g\t%.3g %.3g\t%.6f\n",
			i+1, s.B0, s.B1, s.B2, s.A1, s.A2,
			max(real(z[0]), real(z[1])), min(real(z[0]), real(z[1])), max(cmplx.Abs(p[0]), cmplx.Abs(p[1])))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Freq [Hz]\tMagnitude [dB]\n")
	fmt.Fprintf(tw, "---------\t--------------\n")

	for _, f := range probes {
		if f <= 0 || f >= cfg.SourceRate/2 {
			continue
		}

		fmt.Fprintf(tw, "%g\t%.3f\n", f, spec.MagnitudeDB(f, cfg.SourceRate))
	}

	return tw.Flush()
}
