package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/docqa/internal/app"
)

type extractOptions struct {
	configPath string
	input      string
	output     string
	format     string
	formats    string
	strategy   string
	reviewPDF  string
	reviewFont string
	system     string
	noManifest bool
}

func newExtractCmd() *cobra.Command {
	var o extractOptions
	cmd := &cobra.Command{
		Use:   "extract [folder]",
		Short: "Extract question-answer pairs from every document in a folder",
		Long: `Extract question-answer pairs from every supported document directly
inside a folder. Subfolders are not visited. Files that fail to open are
reported and skipped.

Examples:
  # Write cleaned_output_<timestamp>.csv in the current directory
  docqa extract ./docs

  # Fine-tuning records, block strategy, saved web pages too
  docqa extract --input ./docs --format jsonl --strategy block --formats docx,pdf,html --output train.jsonl`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config(cmd, args)
			if err != nil {
				return err
			}
			_, err = run(cmd.Context(), cfg, cmd.OutOrStdout())
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "Path to YAML or JSON config file")
	f.StringVarP(&o.input, "input", "i", "", "Folder with .docx/.pdf documents")
	f.StringVarP(&o.output, "output", "o", "", "Output file (default cleaned_output_<timestamp>.csv)")
	f.StringVar(&o.format, "format", "csv", "Output format: csv or jsonl")
	f.StringVar(&o.formats, "formats", "docx,pdf", "Comma-separated document formats to read (docx, pdf, html)")
	f.StringVar(&o.strategy, "strategy", "paragraph", "Matching strategy: paragraph or block")
	f.StringVar(&o.reviewPDF, "review.pdf", "", "Also render the pairs to this PDF for manual review")
	f.StringVar(&o.reviewFont, "review.font", "", "UTF-8 TrueType font for the review PDF (needed for CJK text)")
	f.StringVar(&o.system, "prompts.system", "", "System prompt written into JSONL records")
	f.BoolVar(&o.noManifest, "no-manifest", false, "Do not write the <output>.manifest.json sidecar")
	return cmd
}

// config layers defaults, config file, environment and explicitly set flags,
// in increasing precedence. A positional folder argument counts as --input.
func (o *extractOptions) config(cmd *cobra.Command, args []string) (app.Config, error) {
	cfg := app.DefaultConfig()
	if o.configPath != "" {
		fc, err := app.LoadConfigFile(o.configPath)
		if err != nil {
			return cfg, err
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	flags := cmd.Flags()
	if len(args) > 0 {
		cfg.InputDir = args[0]
	}
	if flags.Changed("input") {
		cfg.InputDir = o.input
	}
	if flags.Changed("output") {
		cfg.OutputPath = o.output
	}
	if flags.Changed("format") {
		cfg.OutputFormat = o.format
	}
	if flags.Changed("formats") {
		cfg.Formats = splitComma(o.formats)
	}
	if flags.Changed("strategy") {
		cfg.Strategy = o.strategy
	}
	if flags.Changed("review.pdf") {
		cfg.ReviewPDFPath = o.reviewPDF
	}
	if flags.Changed("review.font") {
		cfg.ReviewFontPath = o.reviewFont
	}
	if flags.Changed("prompts.system") {
		cfg.SystemPrompt = o.system
	}
	if flags.Changed("no-manifest") {
		cfg.DisableManifest = o.noManifest
	}
	if v, err := cmd.Flags().GetBool("verbose"); err == nil && v {
		cfg.Verbose = true
	}
	return cfg, app.ValidateConfig(cfg)
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			list = append(list, v)
		}
	}
	return list
}
