// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"
	"runtime"

	"github.com/spf13/viper"
)

// BootstrapConfig are settings for bootstrap support computation
type BootstrapConfig struct {
	// the number of resampled replicate builds
	Replicates int `mapstructure:"replicates"`

	// the seed behind the replicate column draws
	Seed int64 `mapstructure:"seed"`
}

// Config is the root-level settings struct and is a mix of settings
// available in phylo.yaml and those available from the command line
type Config struct {
	// the default substitution model
	Model string `mapstructure:"model"`

	// worker count for the parallel stages
	Workers int `mapstructure:"workers"`

	// whether to keep negative branch lengths from Neighbor-Joining
	Negative bool `mapstructure:"negative"`

	// the path of a Newick guide tree to constrain clustering with
	Constraint string `mapstructure:"constraint"`

	// bootstrap settings
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
}

// setDefaults registers the fallbacks used when neither the settings file
// nor the command line say otherwise
func setDefaults() {
	viper.SetDefault("model", "jc")
	viper.SetDefault("workers", runtime.NumCPU())
	viper.SetDefault("bootstrap.replicates", 100)
	viper.SetDefault("bootstrap.seed", 1)
}

// New returns a new Config struct populated by Viper settings (either from
// the local phylo.yaml) and/or command line arguments
func New() *Config {
	setDefaults()

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		log.Fatalf("unable to decode settings into struct, %v", err)
	}
	return c
}
