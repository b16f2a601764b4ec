package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

const DefaultFile = "modelslots.yaml"

type Config struct {
	Spec           string         `koanf:"spec"`
	Root           string         `koanf:"root"`
	ExcludeSchemas []string       `koanf:"exclude-schemas"`
	Validate       bool           `koanf:"validate"`
	DryRun         bool           `koanf:"dry-run"`
	Templates      TemplateConfig `koanf:"templates"`
	Output         OutputConfig   `koanf:"output"`
	Log            LogConfig      `koanf:"log"`
}

type TemplateConfig struct {
	Dir string `koanf:"dir"`
}

type OutputConfig struct {
	File   string `koanf:"file"`
	Format string `koanf:"format"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaults() map[string]any {
	return map[string]any{
		"root":          "Models",
		"output.format": "yaml",
		"log.level":     "info",
		"log.format":    "text",
	}
}

// BindFlags binds the generate flags to cmd.
func BindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Config file path (default: "+DefaultFile+")")
	flags.StringP("spec", "s", "", "OpenAPI spec file path")
	flags.String("root", "", "Name of the slot generated models attach under")
	flags.StringSlice("exclude-schemas", nil, "Schemas to exclude")
	flags.Bool("validate", false, "Validate the document and report findings as warnings")
	flags.String("templates", "", "Custom templates directory")
	flags.StringP("output", "o", "", "Write the generated scene tree to this file")
	flags.String("format", "", "Output format: yaml, json")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text, json")
	flags.Bool("dry-run", false, "Print output without writing files")
}

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		configFile, _ = cmd.PersistentFlags().GetString("config")
	}
	if configFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			configFile = DefaultFile
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	getString := func(name string) string {
		if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
			return v
		}
		if v, err := cmd.PersistentFlags().GetString(name); err == nil && v != "" {
			return v
		}
		return ""
	}

	getStringSlice := func(name string) []string {
		if v, err := cmd.Flags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		if v, err := cmd.PersistentFlags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		return nil
	}

	flagChanged := func(name string) bool {
		return cmd.Flags().Changed(name) || cmd.PersistentFlags().Changed(name)
	}

	getBool := func(name string) bool {
		if v, err := cmd.Flags().GetBool(name); err == nil {
			return v
		}
		if v, err := cmd.PersistentFlags().GetBool(name); err == nil {
			return v
		}
		return false
	}

	if v := getString("spec"); v != "" {
		m["spec"] = v
	}
	if v := getString("root"); v != "" {
		m["root"] = v
	}
	if v := getStringSlice("exclude-schemas"); len(v) > 0 {
		m["exclude-schemas"] = v
	}
	if flagChanged("validate") {
		m["validate"] = getBool("validate")
	}
	if flagChanged("dry-run") {
		m["dry-run"] = getBool("dry-run")
	}
	if v := getString("templates"); v != "" {
		m["templates.dir"] = v
	}
	if v := getString("output"); v != "" {
		m["output.file"] = v
	}
	if v := getString("format"); v != "" {
		m["output.format"] = v
	}
	if v := getString("log-level"); v != "" {
		m["log.level"] = v
	}
	if v := getString("log-format"); v != "" {
		m["log.format"] = v
	}

	return m
}

func (c *Config) Validate() error {
	if c.Spec == "" {
		return fmt.Errorf("spec file is required")
	}
	if strings.TrimSpace(c.Root) == "" {
		return fmt.Errorf("root slot name is required")
	}

	validFormats := map[string]bool{"": true, "yaml": true, "json": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output format: %s (valid: yaml, json)", c.Output.Format)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}

	validLogFormats := map[string]bool{"": true, "text": true, "json": true}
	if !validLogFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", c.Log.Format)
	}

	return nil
}

// SlogLevel parses the configured level; empty means info.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", l.Level)
	}
	return level, nil
}

// IsExcluded reports whether the named schema is excluded from generation.
func (c *Config) IsExcluded(name string) bool {
	return slices.Contains(c.ExcludeSchemas, name)
}
