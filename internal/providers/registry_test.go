package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Registry Lookup Tests ---

func TestFindByModel_Anthropic(t *testing.T) {
	spec := FindByModel("anthropic/claude-sonnet-4-5")
	require.NotNil(t, spec)
	assert.Equal(t, "anthropic", spec.Name)
	assert.Equal(t, KindAnthropic, spec.Kind)
}

func TestFindByModel_Claude(t *testing.T) {
	spec := FindByModel("claude-3-haiku-20240307")
	require.NotNil(t, spec)
	assert.Equal(t, "anthropic", spec.Name)
}

func TestFindByModel_GPT(t *testing.T) {
	spec := FindByModel("gpt-4o-mini")
	require.NotNil(t, spec)
	assert.Equal(t, "openai", spec.Name)
	assert.Equal(t, KindOpenAI, spec.Kind)
}

func TestFindByModel_Gemini(t *testing.T) {
	spec := FindByModel("gemini-2.0-flash")
	require.NotNil(t, spec)
	assert.Equal(t, KindGemini, spec.Kind)
}

func TestFindByModel_Unknown(t *testing.T) {
	assert.Nil(t, FindByModel("some-unknown-model"))
}

func TestFindByModel_SkipsGateways(t *testing.T) {
	spec := FindByModel("openrouter/something")
	assert.True(t, spec == nil || !spec.IsGateway)
}

func TestFindGateway_ByName(t *testing.T) {
	spec := FindGateway("openrouter", "", "")
	require.NotNil(t, spec)
	assert.True(t, spec.IsGateway)
}

func TestFindGateway_ByKeyPrefix(t *testing.T) {
	spec := FindGateway("", "sk-or-abc123", "")
	require.NotNil(t, spec)
	assert.Equal(t, "openrouter", spec.Name)
}

func TestFindGateway_ByBaseKeyword(t *testing.T) {
	spec := FindGateway("", "", "https://aihubmix.com/v1")
	require.NotNil(t, spec)
	assert.Equal(t, "aihubmix", spec.Name)
}

func TestFindGateway_NoMatch(t *testing.T) {
	assert.Nil(t, FindGateway("", "sk-normal-key", "https://api.example.com"))
}

func TestFindGateway_StandardProviderNotGateway(t *testing.T) {
	assert.Nil(t, FindGateway("deepseek", "", ""))
}

func TestFindByName(t *testing.T) {
	spec := FindByName("deepseek")
	require.NotNil(t, spec)
	assert.Equal(t, "DeepSeek", spec.DisplayName)
	assert.Equal(t, "https://api.deepseek.com/v1", spec.DefaultAPIBase)

	assert.Nil(t, FindByName("nonexistent"))
}

func TestProviderSpec_Label(t *testing.T) {
	spec := &ProviderSpec{Name: "test", DisplayName: "Test Provider"}
	assert.Equal(t, "Test Provider", spec.Label())

	spec2 := &ProviderSpec{Name: "test"}
	assert.Equal(t, "Test", spec2.Label())
}

func TestProviderSpec_ModelOverrides(t *testing.T) {
	spec := FindByName("openai")
	require.NotNil(t, spec)
	require.Len(t, spec.ModelOverrides, 1)
	assert.Equal(t, 1.0, spec.ModelOverrides[0].Overrides["temperature"])
}

func TestProviders_EveryKindHasAnEntry(t *testing.T) {
	kinds := map[Kind]bool{}
	for _, spec := range Providers {
		require.NotEmpty(t, spec.Kind, spec.Name)
		kinds[spec.Kind] = true
	}
	assert.True(t, kinds[KindOpenAI])
	assert.True(t, kinds[KindAnthropic])
	assert.True(t, kinds[KindGemini])
}

func TestGatewayModel(t *testing.T) {
	openrouter := FindByName("openrouter")
	assert.Equal(t, "anthropic/claude-3-haiku", GatewayModel(openrouter, "claude-3-haiku-20240307"))
	assert.Equal(t, "anthropic/claude-sonnet-4.5", GatewayModel(openrouter, "claude-sonnet-4-5-20250929"))
	assert.Equal(t, "google/gemini-2.0-flash", GatewayModel(openrouter, "gemini-2.0-flash"))
	assert.Equal(t, "anthropic/claude-3-haiku", GatewayModel(openrouter, "anthropic/claude-3-haiku"))
	assert.Equal(t, "llama3", GatewayModel(openrouter, "llama3"))
}

func TestGatewayModel_NotAGateway(t *testing.T) {
	assert.Equal(t, "claude-3-haiku-20240307", GatewayModel(FindByName("anthropic"), "claude-3-haiku-20240307"))
	assert.Equal(t, "gpt-4o", GatewayModel(nil, "gpt-4o"))
}

func TestGatewayModel_StrippingGatewayKeepsName(t *testing.T) {
	assert.Equal(t, "claude-3-haiku-20240307", GatewayModel(FindByName("aihubmix"), "claude-3-haiku-20240307"))
}
