// Package config builds the runtime configuration shared by the CLI and
// the server from config.yaml, the environment and command line flags.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds the runtime settings.
type Config struct {
	// Output is the directory normalized CSVs are written to; empty means
	// print to stdout.
	Output string `mapstructure:"output"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log-level"`
	// Header is the default assumption for files whose headeredness is not
	// declared explicitly.
	Header bool `mapstructure:"header"`
}

// Build loads configuration in increasing order of precedence: defaults,
// config file, environment (TABNORM_*), then flags.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	_ = gotenv.Load() // .env is optional

	v := viper.New()
	v.SetDefault("log-level", "info")
	v.SetDefault("header", true)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("tabnorm")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; an explicit or malformed
		// one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
