package llm

// Options carries per-call generation hints. Fields are uniformly optional:
// a backend that doesn't understand a hint silently ignores it (§4.1).
type Options struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`

	// Temperature is the sampling temperature, between 0 and 1.
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`

	// Reasoning configures reasoning depth for backends that support it.
	// Effort is one of "low", "medium", "high".
	Reasoning *Reasoning `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`

	// Verbosity is one of "low", "medium", "high"; ignored by backends that
	// do not understand it.
	Verbosity string `json:"verbosity,omitempty" yaml:"verbosity,omitempty"`
}

// Reasoning specifies options for the model's internal reasoning process.
type Reasoning struct {
	Effort string `json:"effort,omitempty" yaml:"effort,omitempty"`
}
