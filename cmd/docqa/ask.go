package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/docqa/internal/app"
	"github.com/hyperifyio/docqa/internal/cache"
	"github.com/hyperifyio/docqa/internal/chat"
	"github.com/hyperifyio/docqa/internal/llm"
)

type askOptions struct {
	configPath  string
	llmBase     string
	llmModel    string
	llmKey      string
	system      string
	cacheDir    string
	cacheMaxAge time.Duration
	cacheClear  bool
	cacheStrict bool
	noCache     bool
}

func newAskCmd() *cobra.Command {
	var o askOptions
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the fine-tuned chat model a question",
		Long: `Send one question to an OpenAI-compatible chat endpoint with the same
system prompt used for the JSONL training records and print the reply.

Examples:
  docqa ask --llm.base http://localhost:11434/v1 --llm.model periop "术前需要禁食吗？"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config(cmd)
			if err != nil {
				return err
			}
			return ask(cmd.Context(), cfg, strings.Join(args, " "), cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "Path to YAML or JSON config file")
	f.StringVar(&o.llmBase, "llm.base", "", "OpenAI-compatible base URL")
	f.StringVar(&o.llmModel, "llm.model", "", "Model name")
	f.StringVar(&o.llmKey, "llm.key", "", "API key for the endpoint")
	f.StringVar(&o.system, "prompts.system", "", "Override the system prompt")
	f.StringVar(&o.cacheDir, "cache.dir", "", "Reply cache directory (default .docqa-cache)")
	f.DurationVar(&o.cacheMaxAge, "cache.maxAge", 0, "Purge cached replies older than this (e.g. 24h); 0 disables")
	f.BoolVar(&o.cacheClear, "cache.clear", false, "Clear the reply cache before asking")
	f.BoolVar(&o.cacheStrict, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	f.BoolVar(&o.noCache, "no-cache", false, "Do not read or write the reply cache")
	return cmd
}

func (o *askOptions) config(cmd *cobra.Command) (app.Config, error) {
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
	if flags.Changed("llm.base") {
		cfg.LLMBaseURL = o.llmBase
	}
	if flags.Changed("llm.model") {
		cfg.LLMModel = o.llmModel
	}
	if flags.Changed("llm.key") {
		cfg.LLMAPIKey = o.llmKey
	}
	if flags.Changed("prompts.system") {
		cfg.SystemPrompt = o.system
	}
	if flags.Changed("cache.dir") {
		cfg.CacheDir = o.cacheDir
	}
	if flags.Changed("cache.maxAge") {
		cfg.CacheMaxAge = o.cacheMaxAge
	}
	if flags.Changed("cache.clear") {
		cfg.CacheClear = o.cacheClear
	}
	if flags.Changed("cache.strictPerms") {
		cfg.CacheStrictPerms = o.cacheStrict
	}
	if flags.Changed("no-cache") {
		cfg.DisableCache = o.noCache
	}
	return cfg, app.ValidateAskConfig(cfg)
}

// ask sends question to the configured model and prints the reply.
func ask(ctx context.Context, cfg app.Config, question string, stdout io.Writer) error {
	provider := llm.NewOpenAI(cfg.LLMBaseURL, cfg.LLMAPIKey)
	preflight(ctx, provider)

	asker := &chat.Asker{
		Client:       provider,
		Model:        cfg.LLMModel,
		SystemPrompt: cfg.SystemPrompt,
		Temperature:  chat.DefaultTemperature,
		Cache:        replyCache(cfg),
	}
	reply, err := asker.Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}
	fmt.Fprintln(stdout, reply)
	return nil
}

// replyCache applies the invalidation settings and returns the cache, or nil
// when caching is off.
func replyCache(cfg app.Config) *cache.ReplyCache {
	if cfg.DisableCache || strings.TrimSpace(cfg.CacheDir) == "" {
		return nil
	}
	if cfg.CacheClear {
		if err := cache.ClearDir(cfg.CacheDir); err != nil {
			log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
		}
	}
	if cfg.CacheMaxAge > 0 {
		if n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
			log.Warn().Err(err).Msg("cache purge failed")
		} else if n > 0 {
			log.Debug().Int("count", n).Msg("purged stale replies")
		}
	}
	return &cache.ReplyCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
}

// preflight lists models to surface connectivity problems early. It never
// fails the command.
func preflight(ctx context.Context, lister llm.ModelLister) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := lister.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return
	}
	log.Debug().Int("count", len(models.Models)).Msg("LLM models available")
}
