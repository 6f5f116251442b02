package app

import (
	"os"
	"strings"
	"time"
)

// ApplyEnvOverrides overrides cfg fields from environment variables that are
// set. It runs after the config file and before flags, so env beats the file
// and flags beat env.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if v := os.Getenv("DOCQA_INPUT"); v != "" {
		cfg.InputDir = v
	}
	if v := os.Getenv("DOCQA_OUTPUT"); v != "" {
		cfg.OutputPath = v
	}
	if v := os.Getenv("DOCQA_FORMAT"); v != "" {
		cfg.OutputFormat = v
	}
	if v := strings.TrimSpace(os.Getenv("DOCQA_FORMATS")); v != "" {
		cfg.Formats = splitList(v)
	}
	if v := os.Getenv("DOCQA_STRATEGY"); v != "" {
		cfg.Strategy = v
	}
	if v := os.Getenv("DOCQA_SYSTEM_PROMPT"); v != "" {
		cfg.SystemPrompt = v
	}

	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLMBaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLMModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLMAPIKey = v
	}

	if v := os.Getenv("CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if s := os.Getenv("CACHE_MAX_AGE"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.CacheMaxAge = d
		}
	}

	setBool := func(dst *bool, envKey string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			}
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
	setBool(&cfg.DisableCache, "CACHE_DISABLE")
	setBool(&cfg.DisableManifest, "DOCQA_NO_MANIFEST")
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			list = append(list, v)
		}
	}
	return list
}
