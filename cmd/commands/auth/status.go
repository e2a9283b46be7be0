package auth

import (
	"errors"
	"fmt"
	"os"

	"nathanbeddoewebdev/ec2kit/internal/services/auth"
	"nathanbeddoewebdev/ec2kit/internal/tui/styles"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether AWS credentials are stored",
		Long: `Show whether static AWS credentials are stored in the keychain.

Example:
  ec2kit auth status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			styled := term.IsTerminal(int(os.Stdout.Fd()))

			creds, err := auth.LoadAWSCredentials(auth.DefaultStore())
			switch {
			case err == nil:
				msg := fmt.Sprintf("logged in (access key %s)", maskKeyID(creds.AccessKeyID))
				if styled {
					msg = styles.SuccessText.Render(msg)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", auth.AWSProvider, msg)
			case errors.Is(err, auth.ErrTokenNotFound):
				msg := "not logged in (using the AWS default credential chain)"
				if styled {
					msg = styles.MutedText.Render(msg)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", auth.AWSProvider, msg)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: error (%v)\n", auth.AWSProvider, err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
