package app

import (
	"time"

	"github.com/hyperifyio/docqa/internal/chat"
	"github.com/hyperifyio/docqa/internal/extract"
	"github.com/hyperifyio/docqa/internal/output"
	"github.com/hyperifyio/docqa/internal/qa"
)

// Config holds runtime configuration for the extract and ask commands.
type Config struct {
	// Extraction
	InputDir string
	// OutputPath empty means a timestamped name in the working directory.
	OutputPath   string
	OutputFormat string
	Formats      []string
	Strategy     string

	// Extras written next to the table
	ReviewPDFPath   string
	ReviewFontPath  string
	DisableManifest bool

	// SystemPrompt is the system turn for JSONL export and ask.
	SystemPrompt string

	// LLM
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Reply cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool
	DisableCache     bool

	Verbose bool
}

const defaultCacheDir = ".docqa-cache"

// DefaultConfig returns the baseline configuration that config files,
// environment and flags are layered onto.
func DefaultConfig() Config {
	formats := make([]string, 0, len(extract.DefaultFormats))
	for _, f := range extract.DefaultFormats {
		formats = append(formats, string(f))
	}
	return Config{
		OutputFormat: string(output.CSV),
		Formats:      formats,
		Strategy:     qa.StrategyParagraph,
		SystemPrompt: chat.DefaultSystemPrompt,
		CacheDir:     defaultCacheDir,
	}
}
