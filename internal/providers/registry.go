// Provider Registry: single source of truth for LLM provider metadata.

package providers

import (
	"regexp"
	"strings"
)

// Kind selects the client implementation used for a provider.
type Kind string

const (
	KindOpenAI    Kind = "openai"    // OpenAI-compatible HTTP (chat/completions)
	KindAnthropic Kind = "anthropic" // Anthropic Messages API via anthropic-sdk-go
	KindGemini    Kind = "gemini"    // Gemini API via genai
)

// ProviderSpec holds metadata for one LLM provider.
type ProviderSpec struct {
	Name              string          // config field name, e.g. "deepseek"
	Kind              Kind            // client implementation
	Keywords          []string        // model-name keywords for matching (lowercase)
	EnvKey            string          // env var for API key, e.g. "DEEPSEEK_API_KEY"
	DisplayName       string          // shown in status
	IsGateway         bool            // can route any model (OpenRouter, AiHubMix)
	DetectByKeyPrefix string          // match api_key prefix
	DetectByBaseKW    string          // match substring in api_base URL
	DefaultAPIBase    string          // fallback base URL
	StripModelPrefix  bool            // strip "provider/" before sending to a gateway
	GatewayPrefix     string          // vendor prefix gateways expect, e.g. "google"
	DottedVersions    bool            // gateways spell "3-5" as "3.5"
	ModelOverrides    []ModelOverride // per-model param overrides
}

// ModelOverride applies parameter overrides when a model name matches a pattern.
type ModelOverride struct {
	Pattern   string         // substring to match in model name (lowercase)
	Overrides map[string]any // params to override
}

// Label returns a display label.
func (s *ProviderSpec) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	if s.Name == "" {
		return ""
	}
	return strings.ToUpper(s.Name[:1]) + s.Name[1:]
}

// Providers is the registry. Order = priority. Gateways first.
var Providers = []*ProviderSpec{
	// OpenRouter
	{
		Name: "openrouter", Kind: KindOpenAI, Keywords: []string{"openrouter"},
		EnvKey: "OPENROUTER_API_KEY", DisplayName: "OpenRouter",
		IsGateway: true, DetectByKeyPrefix: "sk-or-", DetectByBaseKW: "openrouter",
		DefaultAPIBase: "https://openrouter.ai/api/v1",
	},
	// AiHubMix
	{
		Name: "aihubmix", Kind: KindOpenAI, Keywords: []string{"aihubmix"},
		EnvKey: "AIHUBMIX_API_KEY", DisplayName: "AiHubMix",
		IsGateway: true, DetectByBaseKW: "aihubmix",
		DefaultAPIBase:   "https://aihubmix.com/v1",
		StripModelPrefix: true,
	},
	// Anthropic
	{
		Name: "anthropic", Kind: KindAnthropic, Keywords: []string{"anthropic", "claude"},
		EnvKey: "ANTHROPIC_API_KEY", DisplayName: "Anthropic",
		GatewayPrefix: "anthropic", DottedVersions: true,
	},
	// OpenAI
	{
		Name: "openai", Kind: KindOpenAI, Keywords: []string{"openai", "gpt"},
		EnvKey: "OPENAI_API_KEY", DisplayName: "OpenAI",
		GatewayPrefix:  "openai",
		DefaultAPIBase: "https://api.openai.com/v1",
		ModelOverrides: []ModelOverride{
			{Pattern: "gpt-5", Overrides: map[string]any{"temperature": 1.0}},
		},
	},
	// Gemini
	{
		Name: "gemini", Kind: KindGemini, Keywords: []string{"gemini"},
		EnvKey: "GEMINI_API_KEY", DisplayName: "Gemini",
		GatewayPrefix: "google",
	},
	// DeepSeek
	{
		Name: "deepseek", Kind: KindOpenAI, Keywords: []string{"deepseek"},
		EnvKey: "DEEPSEEK_API_KEY", DisplayName: "DeepSeek",
		GatewayPrefix:  "deepseek",
		DefaultAPIBase: "https://api.deepseek.com/v1",
	},
	// Groq
	{
		Name: "groq", Kind: KindOpenAI, Keywords: []string{"groq"},
		EnvKey: "GROQ_API_KEY", DisplayName: "Groq",
		DefaultAPIBase: "https://api.groq.com/openai/v1",
	},
	// Ollama (local, OpenAI-compatible)
	{
		Name: "ollama", Kind: KindOpenAI, Keywords: []string{"ollama"},
		EnvKey: "OLLAMA_API_KEY", DisplayName: "Ollama",
		DefaultAPIBase: "http://localhost:11434/v1",
	},
}

// FindByModel returns a standard provider spec matching a model name keyword.
// Skips gateways.
func FindByModel(model string) *ProviderSpec {
	lower := strings.ToLower(model)
	for _, spec := range Providers {
		if spec.IsGateway {
			continue
		}
		for _, kw := range spec.Keywords {
			if strings.Contains(lower, kw) {
				return spec
			}
		}
	}
	return nil
}

var (
	reDatedSuffix   = regexp.MustCompile(`-\d{8}$`)
	reDashedVersion = regexp.MustCompile(`(\d)-(\d)(\D|$)`)
)

// GatewayModel rewrites a bare model name into the id a gateway routes,
// e.g. "claude-3-5-sonnet-20241022" becomes "anthropic/claude-3.5-sonnet".
// Names that already carry a prefix, or that no provider claims, pass through.
func GatewayModel(gateway *ProviderSpec, model string) string {
	if gateway == nil || !gateway.IsGateway || gateway.StripModelPrefix || strings.Contains(model, "/") {
		return model
	}
	direct := FindByModel(model)
	if direct == nil || direct.GatewayPrefix == "" {
		return model
	}
	name := reDatedSuffix.ReplaceAllString(model, "")
	if direct.DottedVersions {
		name = reDashedVersion.ReplaceAllString(name, "$1.$2$3")
	}
	return direct.GatewayPrefix + "/" + name
}

// FindGateway detects a gateway provider.
// Priority: 1) provider_name  2) api_key prefix  3) api_base keyword.
func FindGateway(providerName, apiKey, apiBase string) *ProviderSpec {
	if providerName != "" {
		spec := FindByName(providerName)
		if spec != nil && spec.IsGateway {
			return spec
		}
	}
	for _, spec := range Providers {
		if !spec.IsGateway {
			continue
		}
		if spec.DetectByKeyPrefix != "" && apiKey != "" &&
			strings.HasPrefix(apiKey, spec.DetectByKeyPrefix) {
			return spec
		}
		if spec.DetectByBaseKW != "" && apiBase != "" &&
			strings.Contains(apiBase, spec.DetectByBaseKW) {
			return spec
		}
	}
	return nil
}

// FindByName finds a provider spec by config field name.
func FindByName(name string) *ProviderSpec {
	for _, spec := range Providers {
		if spec.Name == name {
			return spec
		}
	}
	return nil
}
