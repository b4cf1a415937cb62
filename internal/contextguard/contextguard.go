// Package contextguard estimates how much of a model's context window a
// conversation uses and shrinks old tool output when it gets close to the limit.
package contextguard

import (
	"log"
	"strings"
	"unicode/utf8"

	"github.com/dayuer/aibot-go/internal/providers"
)

// Action describes the pre-check result.
type Action string

const (
	ActionPass     Action = "pass"     // Token usage OK
	ActionWarn     Action = "warn"     // Approaching limit
	ActionCompress Action = "compress" // Old tool results should be shortened
	ActionCritical Action = "critical" // Everything but the latest round should be shortened
)

// PreCheckResult holds the result of a token pre-check.
type PreCheckResult struct {
	Action        Action
	TokenEstimate int
	TokenLimit    int
	Ratio         float64
}

// ModelTokenLimits maps model names to their context window sizes.
var ModelTokenLimits = map[string]int{
	// Anthropic
	"claude-3-haiku-20240307": 200_000,
	"claude-3-5":              200_000,
	"claude-sonnet-4":         200_000,
	// OpenAI
	"gpt-4o":      128_000,
	"gpt-4o-mini": 128_000,
	"gpt-4-turbo": 128_000,
	// Gemini
	"gemini-2.0-flash": 1_048_576,
	"gemini-2.5":       1_048_576,
	// DeepSeek
	"deepseek-chat":     64_000,
	"deepseek-reasoner": 64_000,
	// Default
	"_default": 64_000,
}

// GetModelLimit returns the token limit for a model. A "provider/" prefix is ignored.
func GetModelLimit(model string) int {
	if i := strings.LastIndex(model, "/"); i >= 0 {
		model = model[i+1:]
	}
	if limit, ok := ModelTokenLimits[model]; ok {
		return limit
	}
	// Longest matching prefix wins.
	best, limit := 0, ModelTokenLimits["_default"]
	for k, v := range ModelTokenLimits {
		if strings.HasPrefix(model, k) && len(k) > best {
			best, limit = len(k), v
		}
	}
	return limit
}

// EstimateTokens estimates the token count for a list of messages.
// Uses total characters / 2, which overestimates for English text.
func EstimateTokens(messages []providers.Message) int {
	total := 0
	for _, msg := range messages {
		total += utf8.RuneCountInString(msg.Content)
		for _, tc := range msg.ToolCalls {
			total += len(tc.Name)
			for k, v := range tc.Arguments {
				total += len(k)
				if s, ok := v.(string); ok {
					total += utf8.RuneCountInString(s)
				}
			}
		}
	}
	return total / 2
}

// Config holds Guard thresholds and how much tool output survives compression.
type Config struct {
	WarnRatio      float64 // 0.70 → log warning
	CompressRatio  float64 // 0.80 → shorten old tool results
	CriticalRatio  float64 // 0.95 → shorten all but the latest round
	KeepRecent     int     // tool results left untouched by ActionCompress
	TruncatedChars int     // length a shortened tool result is cut to
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		WarnRatio:      0.70,
		CompressRatio:  0.80,
		CriticalRatio:  0.95,
		KeepRecent:     3,
		TruncatedChars: 200,
	}
}

// Guard monitors token usage across the iterations of one run.
type Guard struct {
	cfg Config

	// Stats
	TotalChecks      int
	WarningCount     int
	CompressionCount int
}

// NewGuard creates a new context guard.
func NewGuard(cfg Config) *Guard {
	return &Guard{cfg: cfg}
}

// PreCheck performs a token pre-check before calling the LLM.
func (g *Guard) PreCheck(messages []providers.Message, model string) PreCheckResult {
	g.TotalChecks++

	tokenEstimate := EstimateTokens(messages)
	tokenLimit := GetModelLimit(model)
	ratio := float64(tokenEstimate) / float64(tokenLimit)

	result := PreCheckResult{
		TokenEstimate: tokenEstimate,
		TokenLimit:    tokenLimit,
		Ratio:         ratio,
	}

	switch {
	case ratio >= g.cfg.CriticalRatio:
		result.Action = ActionCritical
		g.CompressionCount++
		log.Printf("[ContextGuard] CRITICAL %.0f%% (%d/%d) → compressing all but latest round",
			ratio*100, tokenEstimate, tokenLimit)

	case ratio >= g.cfg.CompressRatio:
		result.Action = ActionCompress
		g.CompressionCount++
		log.Printf("[ContextGuard] COMPRESS %.0f%% (%d/%d) → shortening old tool results",
			ratio*100, tokenEstimate, tokenLimit)

	case ratio >= g.cfg.WarnRatio:
		result.Action = ActionWarn
		g.WarningCount++
		log.Printf("[ContextGuard] WARN %.0f%% (%d/%d)",
			ratio*100, tokenEstimate, tokenLimit)

	default:
		result.Action = ActionPass
	}

	return result
}

// Apply runs PreCheck and returns messages compressed as the result demands.
// The input slice is not modified.
func (g *Guard) Apply(messages []providers.Message, model string) []providers.Message {
	switch g.PreCheck(messages, model).Action {
	case ActionCompress:
		return Compress(messages, g.cfg.KeepRecent, g.cfg.TruncatedChars)
	case ActionCritical:
		return Compress(messages, 1, g.cfg.TruncatedChars)
	default:
		return messages
	}
}

// Compress returns a copy of messages in which every tool result except the
// last keepRecent is cut to maxChars runes. System, user and assistant
// messages are kept as they are.
func Compress(messages []providers.Message, keepRecent, maxChars int) []providers.Message {
	out := make([]providers.Message, len(messages))
	copy(out, messages)

	seen := 0
	for i := len(out) - 1; i >= 0; i-- {
		if out[i].Role != providers.RoleTool {
			continue
		}
		seen++
		if seen <= keepRecent {
			continue
		}
		if utf8.RuneCountInString(out[i].Content) > maxChars {
			runes := []rune(out[i].Content)
			out[i].Content = string(runes[:maxChars]) + " …[truncated]"
		}
	}
	return out
}

// Stats returns guard statistics.
func (g *Guard) Stats() map[string]any {
	return map[string]any{
		"totalChecks":      g.TotalChecks,
		"warningCount":     g.WarningCount,
		"compressionCount": g.CompressionCount,
	}
}
