package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName      = "crasim"
	configType      = "yaml"
	envPrefix       = "CRASIM"
	envKeySeparator = "_"
)

// Load reads configuration from the §6 defaults, a config file, and
// environment variables prefixed CRASIM_, in that increasing order of
// precedence — the same three-tier precedence as the pack's codefang loader.
func Load(configPath string) (Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func applyDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("maximum_size", d.MaximumSize)
	v.SetDefault("strategy", d.Strategy)
	v.SetDefault("trace_format", d.TraceFormat)
	v.SetDefault("trace_path", d.TracePath)
	v.SetDefault("percent_main", d.PercentMain)
	v.SetDefault("percent_main_protected", d.PercentMainProtected)
	v.SetDefault("max_lists", d.MaxLists)
	v.SetDefault("k_values", d.K)
	v.SetDefault("sketch", d.Sketch)
	v.SetDefault("percent_pivot", d.PercentPivot)
	v.SetDefault("percent_sample", d.PercentSample)
	v.SetDefault("beta1", d.Beta1)
	v.SetDefault("beta2", d.Beta2)
	v.SetDefault("epsilon", d.Epsilon)
	v.SetDefault("tolerance", d.Tolerance)
	v.SetDefault("step_decay_rate", d.StepDecayRate)
	v.SetDefault("sample_decay_rate", d.SampleDecayRate)
	v.SetDefault("restart_threshold", d.RestartThreshold)
}
