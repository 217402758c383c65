package generator

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

const DefaultOutputDir = "generated-skills"

// Policy holds the optional, opt-in permission policy.
type Policy struct {
	// BlockDangerousCombinations turns the first dangerous tool combination
	// into a request rejection instead of an advisory.
	BlockDangerousCombinations bool `mapstructure:"block_dangerous_combinations" json:"block_dangerous_combinations" yaml:"block_dangerous_combinations"`
	// BaselineTools are considered already granted when detecting escalation.
	BaselineTools []string `mapstructure:"baseline_tools" json:"baseline_tools" yaml:"baseline_tools"`
}

// Config is the generator configuration as loaded from viper.
type Config struct {
	OutputDir string             `mapstructure:"output_dir" json:"output_dir" yaml:"output_dir"`
	Format    skill.OutputFormat `mapstructure:"format" json:"format" yaml:"format"`
	Policy    Policy             `mapstructure:"policy" json:"policy" yaml:"policy"`
}

// NewConfig returns the default configuration.
func NewConfig() Config {
	return Config{
		OutputDir: DefaultOutputDir,
		Format:    skill.DefaultFormat,
	}
}

// SetViperDefaults registers the configuration defaults with viper.
func SetViperDefaults() {
	viper.SetDefault("output_dir", DefaultOutputDir)
	viper.SetDefault("format", string(skill.DefaultFormat))
	viper.SetDefault("policy.block_dangerous_combinations", false)
	viper.SetDefault("policy.baseline_tools", []string{})
}

// GetConfigFromViper loads the generator configuration from the global viper
// instance.
func GetConfigFromViper() (Config, error) {
	config := NewConfig()
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal generator config")
	}
	if config.OutputDir == "" {
		config.OutputDir = DefaultOutputDir
	}
	if config.Format == "" {
		config.Format = skill.DefaultFormat
	}
	if !config.Format.IsValid() {
		return Config{}, skill.NewInvalidOutputFormatError(string(config.Format))
	}
	return config, nil
}

// Options converts the configuration into generator options.
func (c Config) Options() []Option {
	opts := []Option{WithPolicy(c.Policy)}
	if c.Format != "" {
		opts = append(opts, WithDefaultFormat(c.Format))
	}
	return opts
}
