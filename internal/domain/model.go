package domain

// Provider is the upstream AI vendor a model is served by.
type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderAnthropic  Provider = "anthropic"
	ProviderGoogle     Provider = "google"
	ProviderXAI        Provider = "xai"
	ProviderGroq       Provider = "groq"
	ProviderDeepSeek   Provider = "deepseek"
	ProviderOpenRouter Provider = "openrouter"
)

// Capabilities lists the feature flags of a model.
type Capabilities struct {
	Text               bool `json:"text" yaml:"text" toml:"text"`
	ImageGeneration    bool `json:"image_generation" yaml:"image_generation" toml:"image_generation"`
	ImageUnderstanding bool `json:"image_understanding" yaml:"image_understanding" toml:"image_understanding"`
	WebSearch          bool `json:"web_search" yaml:"web_search" toml:"web_search"`
	FileUpload         bool `json:"file_upload" yaml:"file_upload" toml:"file_upload"`
	FunctionCalling    bool `json:"function_calling" yaml:"function_calling" toml:"function_calling"`
}

// ModelConfig describes an upstream model and what it can do. Model configs
// are loaded once at startup and never mutated.
type ModelConfig struct {
	Name         string       `json:"name" yaml:"name" toml:"name" validate:"required"`
	Provider     Provider     `json:"provider" yaml:"provider" toml:"provider" validate:"required"`
	Company      string       `json:"company" yaml:"company" toml:"company"`
	MaxTokens    int          `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens" validate:"gte=0"`
	Capabilities Capabilities `json:"capabilities" yaml:"capabilities" toml:"capabilities"`
	Description  string       `json:"description" yaml:"description" toml:"description"`
}

// DefaultModel mirrors the fallback used when no catalog entry is available.
func DefaultModel() ModelConfig {
	return ModelConfig{
		Name:         "gpt-4o",
		Provider:     ProviderOpenAI,
		Company:      "openai",
		MaxTokens:    128000,
		Capabilities: Capabilities{Text: true},
		Description:  "OpenAI's most advanced model",
	}
}
