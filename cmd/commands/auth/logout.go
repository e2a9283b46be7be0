package auth

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/ec2kit/internal/services/auth"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "logout <provider>",
		Short:        "Remove stored AWS credentials",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAWS(args[0]); err != nil {
				return err
			}

			err := auth.DefaultStore().DeleteToken(auth.AWSProvider)
			if errors.Is(err, auth.ErrTokenNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "No credentials stored for %s\n", auth.AWSProvider)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed credentials for %s\n", auth.AWSProvider)
			return nil
		},
	}

	return cmd
}
