// Package config holds wasmcrid's persistable knobs: the module-store root
// directory and the pod CIDR. An optional TOML file can set either; CLI
// flags explicitly passed at startup take precedence over the file.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is wasmcrid's persisted configuration. Zero values mean "use the
// CLI default".
type Config struct {
	Dir     string `toml:"dir"`
	PodCIDR string `toml:"pod_cidr"`
}

// LoadFile reads a TOML file into cfg, overwriting only the fields the file
// actually sets; an absent path is not an error.
func LoadFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("cannot read config file %s: %w", path, err)
	}
	return nil
}
