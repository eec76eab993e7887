package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// settableKeys maps each configurable key to a parser that validates and
// types its value before it reaches viper. Anything else is a typo, and a
// typo silently ignored at set time surfaces as a wrong pipeline run later.
var settableKeys = map[string]func(string) (any, error){
	"genome.reference": parseNonEmpty("genome.reference"),
	"genome.length":    parseGenomeLength,
	"snpeff.jar":       parseNonEmpty("snpeff.jar"),
	"snpeff.timeout":   parseSnpeffTimeout,
	"db.dsn":           parseNonEmpty("db.dsn"),
	"store.path":       parseNonEmpty("store.path"),
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage mutmap configuration",
		Long: "Show, get, or set configuration values. Config is stored in ~/.mutmap.yaml.\n\n" +
			"Settable keys: " + strings.Join(knownConfigKeys(), ", ") + ".",
		Example: `  mutmap config                                  # show all config
  mutmap config set snpeff.jar /opt/snpeff/snpEff.jar
  mutmap config set genome.length 29727
  mutmap config get genome.length`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func runConfigShow() error {
	settings := viper.AllSettings()
	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigSet(key, value string) error {
	parsed, err := parseConfigValue(key, value)
	if err != nil {
		return err
	}
	viper.Set(key, parsed)

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".mutmap.yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %v in %s\n", key, parsed, cfgFile)
	return nil
}

func runConfigGet(key string) error {
	if _, ok := settableKeys[key]; !ok {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(knownConfigKeys(), ", "))
	}
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Println(val)
	return nil
}

// parseConfigValue validates key and value, returning the typed value to
// store.
func parseConfigValue(key, value string) (any, error) {
	parse, ok := settableKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(knownConfigKeys(), ", "))
	}
	return parse(value)
}

func knownConfigKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parseNonEmpty(key string) func(string) (any, error) {
	return func(value string) (any, error) {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%s must not be empty", key)
		}
		return value, nil
	}
}

func parseGenomeLength(value string) (any, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 1 {
		return nil, fmt.Errorf("genome.length must be a positive integer, got %q", value)
	}
	return n, nil
}

func parseSnpeffTimeout(value string) (any, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return nil, fmt.Errorf("snpeff.timeout must be a duration such as 30m, got %q", value)
	}
	if d <= 0 {
		return nil, fmt.Errorf("snpeff.timeout must be positive, got %s", d)
	}
	return d, nil
}
