package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type Opts struct {
	Config    string `long:"config" env:"DOCKETWATCH_CONFIG" default:"docketwatch.yaml" description:"Path to the settings file"`
	Port      string `long:"port" env:"PORT" default:"8080" description:"HTTP port for the serve command"`
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"docketwatch/1.0" description:"User agent string for feed requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Args struct {
		Command string `positional-arg-name:"command" description:"One of: reader, filter, writer, cleaner, monitor, serve"`
	} `positional-args:"yes" required:"yes"`
}

// Load parses command-line flags and environment variables. A nil result
// with a nil error means help was requested and printed.
func Load() (*Opts, error) {
	var opts Opts

	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] command"

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return &opts, nil
}
