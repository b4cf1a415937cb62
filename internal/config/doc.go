// Package config handles configuration loading, saving, and schema definition.
package config

// Config is the top-level aibot configuration.
// Uses camelCase json/yaml tags to match the config file format.
type Config struct {
	Agent     AgentConfig               `json:"agent" yaml:"agent"`
	Providers map[string]ProviderConfig `json:"providers,omitempty" yaml:"providers,omitempty"`
	Tools     ToolsConfig               `json:"tools" yaml:"tools"`
	Cache     CacheConfig               `json:"cache" yaml:"cache"`
}

// AgentConfig holds agent behavior settings.
type AgentConfig struct {
	Model         string  `json:"model,omitempty" yaml:"model,omitempty"`
	Provider      string  `json:"provider,omitempty" yaml:"provider,omitempty"` // force a provider by name
	MaxTokens     int     `json:"maxTokens,omitempty" yaml:"maxTokens,omitempty"`
	Temperature   float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxIterations int     `json:"maxIterations,omitempty" yaml:"maxIterations,omitempty"`
}

// ProviderConfig holds credentials for one LLM provider, keyed by
// provider name (see providers.Providers).
type ProviderConfig struct {
	APIKey       string            `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	APIBase      string            `json:"apiBase,omitempty" yaml:"apiBase,omitempty"`
	ExtraHeaders map[string]string `json:"extraHeaders,omitempty" yaml:"extraHeaders,omitempty"` // OpenAI-compatible providers only
}

// ToolsConfig holds tool-related settings.
type ToolsConfig struct {
	Search    SearchConfig    `json:"search" yaml:"search"`
	Wikipedia WikipediaConfig `json:"wikipedia" yaml:"wikipedia"`
	Save      SaveConfig      `json:"save" yaml:"save"`
}

// SearchConfig holds web search settings.
type SearchConfig struct {
	Provider   string `json:"provider,omitempty" yaml:"provider,omitempty"` // "duckduckgo" or "brave"
	APIKey     string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	MaxResults int    `json:"maxResults,omitempty" yaml:"maxResults,omitempty"`
}

// WikipediaConfig bounds how much encyclopedia text reaches the model.
type WikipediaConfig struct {
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	TopK     int    `json:"topK,omitempty" yaml:"topK,omitempty"`
	MaxChars int    `json:"maxChars,omitempty" yaml:"maxChars,omitempty"`
}

// SaveConfig holds settings for the save_text_to_file tool.
type SaveConfig struct {
	Dir        string `json:"dir,omitempty" yaml:"dir,omitempty"` // relative filenames resolve here
	Filename   string `json:"filename,omitempty" yaml:"filename,omitempty"`
	AllowedDir string `json:"allowedDir,omitempty" yaml:"allowedDir,omitempty"` // refuse writes outside it
}

// CacheConfig holds Redis connection settings for the tool result cache.
// An empty URL disables caching.
type CacheConfig struct {
	URL        string `json:"url,omitempty" yaml:"url,omitempty"` // redis://host:port
	Password   string `json:"password,omitempty" yaml:"password,omitempty"`
	DB         int    `json:"db,omitempty" yaml:"db,omitempty"`
	TTLSeconds int    `json:"ttlSeconds,omitempty" yaml:"ttlSeconds,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Agent: AgentConfig{
			Model:         "claude-3-haiku-20240307",
			MaxTokens:     4096,
			Temperature:   0.7,
			MaxIterations: 25,
		},
		Tools: ToolsConfig{
			Search: SearchConfig{
				Provider:   "duckduckgo",
				MaxResults: 5,
			},
			Wikipedia: WikipediaConfig{
				Language: "en",
				TopK:     1,
				MaxChars: 100,
			},
			Save: SaveConfig{
				Dir:      ".",
				Filename: "response_output.txt",
			},
		},
		Cache: CacheConfig{
			TTLSeconds: 86400,
		},
	}
}
