package anthropic

import (
	basecfg "github.com/viant/arbiter/genai/llm/provider/base"
	"github.com/viant/arbiter/genai/llm/provider"
)

// NewAdapter is the provider.Factory for the Anthropic backend. Recognized
// opts: "apiKey", "baseURL", "model".
func NewAdapter(opts map[string]string) (provider.Adapter, error) {
	var options []ClientOption
	if baseURL := opts["baseURL"]; baseURL != "" {
		options = append(options, basecfg.WithBaseURL(baseURL))
	}
	return NewClient(opts["apiKey"], opts["model"], options...), nil
}
