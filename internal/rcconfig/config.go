// Package rcconfig loads rillc.toml, the compiler's configuration file:
// start_address, the default grammar path, and trace verbosity. Grounded
// on how tunaq's own ambient stack carries github.com/BurntSushi/toml as a
// dependency for struct-tagged config loading.
package rcconfig

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the decoded shape of rillc.toml.
type Config struct {
	// StartAddress is the instruction-address offset added to every
	// quadruple index, spec.md §6 ("default 100").
	StartAddress int `toml:"start_address"`

	// Grammar is the default grammar file path to load when none is given
	// on the command line.
	Grammar string `toml:"grammar"`

	// Trace turns on the full step-by-step parse trace in CLI/REPL output.
	Trace bool `toml:"trace"`
}

// Default returns the configuration used when no rillc.toml is present.
func Default() Config {
	return Config{
		StartAddress: 100,
		Grammar:      "grammar.cfg",
		Trace:        false,
	}
}

// Load reads and decodes path, starting from Default() so any field the
// file omits keeps its default value.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("rcconfig: %s: %w", path, err)
	}
	return cfg, nil
}
