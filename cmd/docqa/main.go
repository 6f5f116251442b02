// Command docqa extracts question-answer pairs from folders of documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/docqa/internal/app"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := app.LoadEnvFiles(".env"); err != nil {
		log.Warn().Err(err).Msg("failed to load .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process status. An empty result is a
// warning, not a failure.
func exitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, app.ErrNoPairs):
		return 0
	case errors.Is(err, app.ErrInputDirMissing):
		log.Error().Err(err).Msg("input folder not found")
		return 1
	default:
		log.Error().Err(err).Msg("run failed")
		return 1
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "docqa",
		Short: "Extract question-answer pairs from docx and pdf documents",
		Long: `docqa scans a folder of .docx and .pdf documents, finds question
paragraphs with simple text rules and pairs each with the paragraph that
follows it. The pairs are written to one CSV (UTF-8 with BOM) or JSONL file.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	root.AddCommand(newExtractCmd(), newAskCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.VersionString())
		},
	}
}

// run executes one extraction batch and prints the summary line.
func run(ctx context.Context, cfg app.Config, stdout io.Writer) (app.Summary, error) {
	a, err := app.New(cfg)
	if err != nil {
		return app.Summary{}, fmt.Errorf("init app: %w", err)
	}
	sum, err := a.Run(ctx)
	if err == nil || errors.Is(err, app.ErrNoPairs) {
		app.PrintSummary(stdout, sum)
	}
	return sum, err
}
