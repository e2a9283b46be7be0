package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/ec2kit/internal/config"
	"nathanbeddoewebdev/ec2kit/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  ec2kit config set region us-east-1\n" +
			"  ec2kit config set ssh-cidr 203.0.113.0/24\n" +
			"  ec2kit config set wait-timeout 10m",
		Args:         cobra.ExactArgs(2),
		RunE:         runSet,
		SilenceUsage: true,
	}

	return cmd
}

func runSet(cmd *cobra.Command, args []string) error {
	spec := config.Lookup(args[0])
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
	}

	value := strings.TrimSpace(args[1])
	if !spec.CaseSensitive {
		value = util.NormalizeKey(value)
	}
	if value == "" {
		return fmt.Errorf("value for %s must not be empty", spec.Name)
	}

	if spec.Validate != nil {
		if err := spec.Validate(value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", spec.Name, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	spec.Set(cfg, value)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, value)
	return nil
}
