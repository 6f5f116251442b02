package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/docqa/internal/extract"
	"github.com/hyperifyio/docqa/internal/output"
	"github.com/hyperifyio/docqa/internal/qa"
)

// FileConfig is the single-file configuration schema.
type FileConfig struct {
	Input    string   `yaml:"input" json:"input"`
	Output   string   `yaml:"output" json:"output"`
	Format   string   `yaml:"format" json:"format"`
	Formats  []string `yaml:"formats" json:"formats"`
	Strategy string   `yaml:"strategy" json:"strategy"`
	Manifest *bool    `yaml:"manifest" json:"manifest"`
	Verbose  bool     `yaml:"verbose" json:"verbose"`

	Review struct {
		PDF  string `yaml:"pdf" json:"pdf"`
		Font string `yaml:"font" json:"font"`
	} `yaml:"review" json:"review"`

	Prompts struct {
		System     string `yaml:"system" json:"system"`
		SystemFile string `yaml:"systemFile" json:"systemFile"`
	} `yaml:"prompts" json:"prompts"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
		Disable     bool          `yaml:"disable" json:"disable"`
	} `yaml:"cache" json:"cache"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	if p := strings.TrimSpace(fc.Prompts.SystemFile); p != "" {
		if !filepath.IsAbs(p) {
			p = filepath.Join(filepath.Dir(path), p)
		}
		sb, err := os.ReadFile(p)
		if err != nil {
			return fc, fmt.Errorf("read system prompt file: %w", err)
		}
		fc.Prompts.System = strings.TrimSpace(string(sb))
	}
	return fc, nil
}

// ApplyFileConfig overlays every value set in fc onto cfg. It is applied to
// DefaultConfig before environment and flags, which take precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	setString(&cfg.InputDir, fc.Input)
	setString(&cfg.OutputPath, fc.Output)
	setString(&cfg.OutputFormat, fc.Format)
	setString(&cfg.Strategy, fc.Strategy)
	if len(fc.Formats) > 0 {
		cfg.Formats = append([]string{}, fc.Formats...)
	}
	if fc.Manifest != nil {
		cfg.DisableManifest = !*fc.Manifest
	}
	if fc.Verbose {
		cfg.Verbose = true
	}

	setString(&cfg.ReviewPDFPath, fc.Review.PDF)
	setString(&cfg.ReviewFontPath, fc.Review.Font)
	setString(&cfg.SystemPrompt, fc.Prompts.System)

	setString(&cfg.LLMBaseURL, fc.LLM.BaseURL)
	setString(&cfg.LLMModel, fc.LLM.Model)
	setString(&cfg.LLMAPIKey, fc.LLM.APIKey)

	setString(&cfg.CacheDir, fc.Cache.Dir)
	if fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
	if fc.Cache.Disable {
		cfg.DisableCache = true
	}
}

// ValidateConfig checks the settings the extract command needs.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.InputDir) == "" {
		return errors.New("config: input folder is required")
	}
	if _, err := output.ParseFormat(cfg.OutputFormat); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := extract.ParseFormats(cfg.Formats); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := qa.StrategyFor(cfg.Strategy); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if strings.TrimSpace(cfg.ReviewFontPath) != "" && strings.TrimSpace(cfg.ReviewPDFPath) == "" {
		return errors.New("config: review.font requires review.pdf")
	}
	return nil
}

// ValidateAskConfig checks the settings the ask command needs.
func ValidateAskConfig(cfg Config) error {
	if strings.TrimSpace(cfg.LLMModel) == "" {
		return errors.New("config: llm.model is required (or set LLM_MODEL)")
	}
	if cfg.CacheMaxAge < 0 {
		return errors.New("config: cache.maxAge must not be negative")
	}
	return nil
}
