package auth

import (
	"fmt"

	"nathanbeddoewebdev/ec2kit/internal/services/auth"
	"nathanbeddoewebdev/ec2kit/internal/util"

	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored AWS credentials",
		Long: `Manage static AWS credentials kept in the local keychain.

Stored credentials take precedence over the SDK default chain
(environment variables, ~/.aws profiles, instance metadata). Without
stored credentials ec2kit uses that chain unchanged.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(StatusCommand())
	cmd.AddCommand(LogoutCommand())

	return cmd
}

func requireAWS(provider string) error {
	if util.NormalizeKey(provider) != auth.AWSProvider {
		return fmt.Errorf("unsupported provider %q (only %q is supported)", provider, auth.AWSProvider)
	}
	return nil
}
