package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/docqa/internal/extract"
	"github.com/hyperifyio/docqa/internal/output"
	"github.com/hyperifyio/docqa/internal/qa"
)

// ErrInputDirMissing is returned when the input folder does not exist. Nothing
// is processed or written.
var ErrInputDirMissing = errors.New("input folder does not exist")

// ErrNoPairs is returned when a run completes without extracting any pair.
// It is a warning outcome: no output file is written.
var ErrNoPairs = errors.New("no question-answer pairs extracted")

// Summary reports the outcome of one batch run.
type Summary struct {
	RunID       string
	TotalFiles  int
	FailedFiles int
	TotalPairs  int
	// Rows is the number of rows written; JSONL omits incomplete pairs.
	Rows       int
	OutputPath string
	Written    bool
}

type App struct {
	cfg      Config
	formats  []extract.Format
	strategy qa.Strategy
	outFmt   output.Format
	now      func() time.Time
}

// New validates cfg and resolves its enumerations.
func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	formats, err := extract.ParseFormats(cfg.Formats)
	if err != nil {
		return nil, err
	}
	strategy, err := qa.StrategyFor(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	outFmt, err := output.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}
	return &App{cfg: cfg, formats: formats, strategy: strategy, outFmt: outFmt, now: time.Now}, nil
}

// fileResult is the outcome for one input document.
type fileResult struct {
	name  string
	path  string
	pairs []qa.Pair
	err   error
}

// Run processes every supported file directly inside the input folder, in
// name order, and writes the combined table. A file that fails to open or
// parse contributes no pairs and does not stop the batch.
func (a *App) Run(ctx context.Context) (Summary, error) {
	sum := Summary{RunID: uuid.NewString()}
	started := a.now()

	dir := a.cfg.InputDir
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return sum, fmt.Errorf("%w: %s", ErrInputDirMissing, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return sum, fmt.Errorf("read input folder: %w", err)
	}

	var results []fileResult
	var all []qa.Pair
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ex, ok := extract.ForPath(e.Name(), a.formats)
		if !ok {
			log.Debug().Str("file", e.Name()).Msg("skipping unsupported file")
			continue
		}
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		res := a.processFile(ex, dir, e.Name())
		results = append(results, res)
		sum.TotalFiles++
		if res.err != nil {
			sum.FailedFiles++
			log.Warn().Err(res.err).Str("file", res.name).Msg("failed to process file")
		} else {
			log.Info().Str("file", res.name).Int("pairs", len(res.pairs)).Int("processed", sum.TotalFiles).Msg("processed file")
		}
		all = append(all, res.pairs...)
	}
	sum.TotalPairs = len(all)

	if len(all) == 0 {
		log.Warn().Int("files", sum.TotalFiles).Msg("no question-answer pairs found; nothing written")
		return sum, ErrNoPairs
	}

	outPath := strings.TrimSpace(a.cfg.OutputPath)
	if outPath == "" {
		outPath = output.DefaultPath(a.outFmt, started.Format("20060102_150405"))
	}
	rows, err := output.WriteFile(outPath, a.outFmt, all, output.Options{SystemPrompt: a.cfg.SystemPrompt})
	if err != nil {
		return sum, fmt.Errorf("write output: %w", err)
	}
	sum.Rows = rows
	sum.OutputPath = outPath
	sum.Written = true
	log.Info().Str("out", outPath).Int("rows", rows).Msg("wrote output")

	if p := strings.TrimSpace(a.cfg.ReviewPDFPath); p != "" {
		if err := writeReviewPDF(all, p, a.cfg.ReviewFontPath); err != nil {
			log.Warn().Err(err).Str("out", p).Msg("review sheet failed")
		} else {
			log.Info().Str("out", p).Msg("wrote review sheet")
		}
	}

	if !a.cfg.DisableManifest {
		meta := manifestMeta{
			RunID:        sum.RunID,
			Strategy:     a.strategyName(),
			OutputFormat: string(a.outFmt),
			FileCount:    sum.TotalFiles,
			PairCount:    sum.TotalPairs,
			GeneratedAt:  a.now().UTC(),
		}
		if err := writeManifest(deriveManifestSidecarPath(outPath), meta, buildManifestEntries(results)); err != nil {
			log.Warn().Err(err).Msg("manifest write failed")
		}
	}
	return sum, nil
}

// processFile extracts the pairs of one file, tagging each with the file name.
// Parser panics are converted to errors.
func (a *App) processFile(ex extract.Extractor, dir, name string) (res fileResult) {
	res = fileResult{name: name, path: filepath.Join(dir, name)}
	defer func() {
		if r := recover(); r != nil {
			res.pairs = nil
			res.err = fmt.Errorf("panic while reading %s: %v", name, r)
		}
	}()

	paras, err := ex.Paragraphs(res.path)
	if err != nil {
		res.err = err
		return res
	}
	pairs := a.strategy(paras)
	for i := range pairs {
		pairs[i].SourceFile = name
	}
	res.pairs = pairs
	return res
}

func (a *App) strategyName() string {
	if s := strings.ToLower(strings.TrimSpace(a.cfg.Strategy)); s != "" {
		return s
	}
	return qa.StrategyParagraph
}

// PrintSummary writes the human-readable final line for a run.
func PrintSummary(w io.Writer, sum Summary) {
	if !sum.Written {
		color.New(color.FgYellow).Fprintf(w, "No data extracted from %d file(s) (%d failed)\n", sum.TotalFiles, sum.FailedFiles)
		return
	}
	color.New(color.FgGreen).Fprintf(w, "Processed %d file(s), extracted %d pair(s), saved to %s\n", sum.TotalFiles, sum.TotalPairs, sum.OutputPath)
	if sum.FailedFiles > 0 {
		color.New(color.FgYellow).Fprintf(w, "%d file(s) could not be read\n", sum.FailedFiles)
	}
}
