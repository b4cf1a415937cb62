package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dayuer/aibot-go/internal/agent"
	"github.com/dayuer/aibot-go/internal/cache"
	"github.com/dayuer/aibot-go/internal/config"
	"github.com/dayuer/aibot-go/internal/providers"
	"github.com/dayuer/aibot-go/internal/tools"
)

// loadConfig reads .env, the config file and the environment, in that order.
func loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("[Config] %v", err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	config.ApplyEnv(&cfg, os.Getenv)
	return cfg, nil
}

// resolveProvider picks the provider for the configured model.
// An explicit agent.provider wins; otherwise the model name decides, and a
// gateway with a key is used when the matching provider has no credentials.
func resolveProvider(cfg config.Config) (*providers.ProviderSpec, config.ProviderConfig, error) {
	if name := cfg.Agent.Provider; name != "" {
		spec := providers.FindByName(name)
		if spec == nil {
			return nil, config.ProviderConfig{}, fmt.Errorf("unknown provider %q", name)
		}
		return spec, cfg.ProviderFor(spec.Name), nil
	}

	direct := providers.FindByModel(cfg.Agent.Model)
	if direct != nil {
		if pc := cfg.ProviderFor(direct.Name); pc.APIKey != "" || pc.APIBase != "" {
			return direct, pc, nil
		}
	}

	for _, spec := range providers.Providers {
		if !spec.IsGateway {
			continue
		}
		if pc := cfg.ProviderFor(spec.Name); pc.APIKey != "" {
			return spec, pc, nil
		}
	}

	if direct != nil {
		return direct, cfg.ProviderFor(direct.Name), nil
	}
	return nil, config.ProviderConfig{}, fmt.Errorf("no provider matches model %q; set agent.provider", cfg.Agent.Model)
}

// makeProvider creates the LLM client for the loaded config.
func makeProvider(ctx context.Context, cfg config.Config) (providers.LLMProvider, error) {
	spec, pc, err := resolveProvider(cfg)
	if err != nil {
		return nil, err
	}
	model := providers.GatewayModel(spec, cfg.Agent.Model)
	log.Printf("[Agent] Provider: %s, model: %s", spec.Label(), model)

	switch spec.Kind {
	case providers.KindAnthropic:
		return providers.NewAnthropicProvider(pc.APIKey, pc.APIBase, cfg.Agent.Model), nil
	case providers.KindGemini:
		return providers.NewGeminiProvider(ctx, pc.APIKey, cfg.Agent.Model)
	default:
		apiBase := pc.APIBase
		if apiBase == "" {
			apiBase = spec.DefaultAPIBase
		}
		p := providers.NewProvider(pc.APIKey, apiBase, model, spec.Name)
		p.ExtraHeaders = pc.ExtraHeaders
		return p, nil
	}
}

// makeRegistry registers the research tools. rc may be nil.
func makeRegistry(cfg config.Config, rc tools.ResultCache) *tools.Registry {
	reg := tools.NewRegistry()

	var backend tools.SearchBackend
	switch strings.ToLower(cfg.Tools.Search.Provider) {
	case "brave":
		backend = tools.NewBraveSearch(cfg.Tools.Search.APIKey)
	default:
		backend = tools.NewDuckDuckGo()
	}
	reg.Register(&tools.WebSearchTool{
		Backend:    backend,
		MaxResults: cfg.Tools.Search.MaxResults,
		Cache:      rc,
	})

	wiki := tools.NewWikipediaTool(cfg.Tools.Wikipedia.Language, cfg.Tools.Wikipedia.TopK, cfg.Tools.Wikipedia.MaxChars)
	wiki.Cache = rc
	reg.Register(wiki)

	reg.Register(&tools.SaveTool{
		Dir:             cfg.Tools.Save.Dir,
		DefaultFilename: cfg.Tools.Save.Filename,
		AllowedDir:      cfg.Tools.Save.AllowedDir,
	})
	return reg
}

// resultCache returns store as a tools.ResultCache, or nil when Redis is off.
func resultCache(store *cache.Store) tools.ResultCache {
	if store == nil || !store.IsAvailable() {
		return nil
	}
	return store
}

func cacheConfig(cfg config.Config) cache.Config {
	return cache.Config{
		URL:      cfg.Cache.URL,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
		TTL:      time.Duration(cfg.Cache.TTLSeconds) * time.Second,
	}
}

func agentConfig(cfg config.Config) agent.AgentConfig {
	return agent.AgentConfig{
		Model:         cfg.Agent.Model,
		MaxIterations: cfg.Agent.MaxIterations,
		Temperature:   cfg.Agent.Temperature,
		MaxTokens:     cfg.Agent.MaxTokens,
	}
}
