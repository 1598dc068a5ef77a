package provider

import (
	"os"
	"strings"

	"github.com/viant/arbiter/genai/llm/provider/anthropic"
	"github.com/viant/arbiter/genai/llm/provider/gemini"
	"github.com/viant/arbiter/genai/llm/provider/ollama"
	"github.com/viant/arbiter/genai/llm/provider/openai"
)

// NewDefaultRegistry builds a Registry with every backend this codebase
// ships an adapter for, plus the caller-friendly id aliases.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(OpenAI, openai.NewAdapter)
	r.Register(Gemini, gemini.NewAdapter)
	r.Register(Anthropic, anthropic.NewAdapter)
	r.Register(Ollama, ollama.NewAdapter)

	r.Alias("OpenAI", OpenAI)
	r.Alias("gpt", OpenAI)
	r.Alias("Gemini", Gemini)
	r.Alias("google", Gemini)
	r.Alias("Anthropic", Anthropic)
	r.Alias("claude", Anthropic)
	r.Alias("Ollama", Ollama)
	return r
}

// EnvOptions resolves per-provider factory options (apiKey, baseURL) from
// process environment variables, the way every adapter is expected to load
// its own credentials (§6).
func EnvOptions(providerID string) map[string]string {
	switch strings.ToLower(strings.TrimSpace(providerID)) {
	case OpenAI, "gpt":
		return map[string]string{"apiKey": os.Getenv("OPENAI_API_KEY")}
	case Gemini, "google":
		return map[string]string{"apiKey": os.Getenv("GEMINI_API_KEY")}
	case Anthropic, "claude":
		return map[string]string{"apiKey": os.Getenv("ANTHROPIC_API_KEY")}
	case Ollama:
		opts := map[string]string{}
		if base := os.Getenv("OLLAMA_BASE_URL"); base != "" {
			opts["baseURL"] = base
		}
		return opts
	default:
		return nil
	}
}
