package base

import "github.com/viant/arbiter/genai/llm"

// UsageListener is a callback type for token usage reports. It is declared as
// a function type so users can pass simple lambdas (e.g.
// `WithUsageListener(func(model string, usage *llm.Usage){…})`). None of the
// adapters in this module calls it.
//
// The `OnUsage` method attached to the function type lets a listener also be
// invoked method-style.  Therefore:
//   listener := func(model string, usage *llm.Usage) { … }
//   // satisfies usageListener because the method below adapts it.
//   var _ UsageListener = UsageListener(listener)
//
// A struct can also implement its own `OnUsage` method and be converted to
// UsageListener by using its method value, e.g. `myAggregator.OnUsage`.
type UsageListener func(model string, usage *llm.Usage)

// OnUsage invokes f; a nil listener is a no-op.
func (f UsageListener) OnUsage(model string, usage *llm.Usage) {
	if f == nil {
		return
	}
	f(model, usage)
}
