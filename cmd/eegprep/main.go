// Command eegprep preprocesses per-subject EEG recordings into normalized,
// labeled segments split into train, validation and test sets.
//
// Usage:
//
//	eegprep run --input DIR --output DIR [flags]
//	eegprep synth --output DIR [--subjects N] [flags]
//	eegprep filter-info [flags]
//
// Settings come from defaults, then EEGPREP_* environment variables (a .env
// file in the working directory is loaded first), then flags.
//
// Examples:
//
//	eegprep synth --output data --subjects 3
//	eegprep run --input data --output out --seed 42 --workers 4
//	eegprep filter-info --lowcut 6 --highcut 90 --order 4
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cwbudde/eegprep/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(config.FromEnv()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(base config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "eegprep",
		Short:         "Preprocess EEG recordings into normalized training segments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRunCmd(base),
		newSynthCmd(base),
		newFilterInfoCmd(base),
	)

	return root
}
