// Package arbiterd hosts the deliberation engine's CLI entry point: a
// single "deliberate" sub-command reading a Request as JSON and writing a
// Response as JSON, laid out as a root Options struct plus one sub-command
// struct.
package arbiterd

// Options is the root command that groups sub-commands. Struct tags are
// interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Config     string         `short:"f" long:"config" description:"engine config YAML path"`
	Deliberate *DeliberateCmd `command:"deliberate" description:"Run a deliberation and print the Response as JSON"`
}

// Init instantiates the sub-command referenced by the first argument so
// flags.Parse can populate its fields.
func (o *Options) Init(firstArg string) {
	switch firstArg {
	case "deliberate":
		o.Deliberate = &DeliberateCmd{}
	}
}
