package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/ec2kit/internal/config"

	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value",
		Long: "Get a persistent configuration value.\n\n" +
			"Without a key, every setting is listed with its effective value.\n" +
			"Values that fall back to a default are marked \"(default)\".\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  ec2kit config get               # list everything\n" +
			"  ec2kit config get key-name      # print a single value",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(args) == 0 {
		for _, spec := range config.Keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", spec.Name, describeValue(cfg, &spec))
		}
		return nil
	}

	spec := config.Lookup(args[0])
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
	}

	value := cfg.Value(spec.Name)
	if value == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "not set")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), value)
	}
	return nil
}

func describeValue(cfg *config.Config, spec *config.KeySpec) string {
	if v := spec.Get(cfg); v != "" {
		return v
	}
	if spec.Default != "" {
		return spec.Default + " (default)"
	}
	return "(not set)"
}
