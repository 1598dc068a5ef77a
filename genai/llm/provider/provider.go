package provider

// Canonical provider identifiers registered by NewDefaultRegistry.
const (
	OpenAI    = "openai"
	Gemini    = "gemini"
	Anthropic = "anthropic"
	Ollama    = "ollama"
)
