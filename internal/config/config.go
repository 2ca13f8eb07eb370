// Package config loads application settings from defaults, an optional YAML
// file, environment variables and (for the CLI) command flags, in increasing
// order of precedence.
package config

import (
	"fmt"
	"strings"

	"sheet-sifter/internal/models"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "SHEETSIFTER"

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds every tunable the GUI and CLI share.
type Config struct {
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
	Debug     bool   `mapstructure:"debug"`

	// PreviewRows bounds how many rows the results table renders.
	PreviewRows int `mapstructure:"preview-rows"`

	// MembershipThreshold is the distinct-value count below which a text
	// column gets a value picker instead of a free-text search.
	MembershipThreshold int `mapstructure:"membership-threshold"`

	FilterStyle string `mapstructure:"filter-style"`

	// ExportSheet names the worksheet written on spreadsheet export.
	ExportSheet string `mapstructure:"export-sheet"`

	ConfigFile string `mapstructure:"-"`
}

func Default() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           LogFormatText,
		PreviewRows:         100,
		MembershipThreshold: models.DefaultMembershipThreshold,
		FilterStyle:         models.StyleCheckbox,
		ExportSheet:         "Results",
	}
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	switch c.FilterStyle {
	case models.StyleCheckbox, models.StyleDropdown:
	default:
		return fmt.Errorf("invalid filter style %q: must be one of checkbox, dropdown", c.FilterStyle)
	}

	if c.PreviewRows < 1 {
		return fmt.Errorf("preview-rows must be positive, got %d", c.PreviewRows)
	}
	if c.MembershipThreshold < 0 {
		return fmt.Errorf("membership-threshold must not be negative, got %d", c.MembershipThreshold)
	}
	if strings.TrimSpace(c.ExportSheet) == "" {
		return fmt.Errorf("export-sheet must not be empty")
	}

	return nil
}

// RegistryOptions is the filter-building policy these settings select.
func (c *Config) RegistryOptions() models.RegistryOptions {
	return models.RegistryOptions{
		MembershipThreshold: c.MembershipThreshold,
		Style:               c.FilterStyle,
	}
}

// EffectiveLogLevel honours the DEBUG=1 shortcut.
func (c *Config) EffectiveLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}

// Load builds a Config. cmd may be nil when there are no flags to bind.
// A fresh viper instance is used on every call.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	if err := configureEnv(v); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %q: %w", configFile, err)
		}
	}

	if cmd != nil {
		if err := bindFlags(v, cmd); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.FilterStyle = strings.ToLower(cfg.FilterStyle)
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("debug", false)
	v.SetDefault("preview-rows", d.PreviewRows)
	v.SetDefault("membership-threshold", d.MembershipThreshold)
	v.SetDefault("filter-style", d.FilterStyle)
	v.SetDefault("export-sheet", d.ExportSheet)
}

func configureEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Unprefixed LOG_LEVEL and DEBUG are honoured for compatibility with
	// existing launch scripts.
	if err := v.BindEnv("log-level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return fmt.Errorf("binding log level env: %w", err)
	}
	if err := v.BindEnv("debug", EnvPrefix+"_DEBUG", "DEBUG"); err != nil {
		return fmt.Errorf("binding debug env: %w", err)
	}
	return nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	var bindErr error
	bind := func(f *pflag.Flag) {
		if bindErr != nil || f.Name == "config" {
			return
		}
		if err := v.BindPFlag(f.Name, f); err != nil {
			bindErr = fmt.Errorf("binding flag %q: %w", f.Name, err)
		}
	}
	cmd.Flags().VisitAll(bind)
	cmd.InheritedFlags().VisitAll(bind)
	return bindErr
}
