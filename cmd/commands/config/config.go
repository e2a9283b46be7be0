package config

import (
	"nathanbeddoewebdev/ec2kit/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ec2kit configuration",
		Long: "View and modify persistent ec2kit settings.\n\n" +
			"Configuration is stored at ~/.config/ec2kit/config.json.\n" +
			"Flags passed to a command override these values.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
