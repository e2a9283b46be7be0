package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"nathanbeddoewebdev/ec2kit/internal/services/auth"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <provider>",
		Short: "Store AWS credentials in the keychain",
		Long: `Store a static AWS access key in the local keychain.

Values not given as flags are prompted for. The secret is read without echo.

Example:
  ec2kit auth login aws
  ec2kit auth login aws --access-key-id AKIA... --secret-access-key ...`,
		Args:         cobra.ExactArgs(1),
		RunE:         runLogin,
		SilenceUsage: true,
	}

	cmd.Flags().String("access-key-id", "", "AWS access key ID")
	cmd.Flags().String("secret-access-key", "", "AWS secret access key (optional, overrides prompt)")
	cmd.Flags().String("session-token", "", "Session token for temporary credentials")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	if err := requireAWS(args[0]); err != nil {
		return err
	}

	keyID, _ := cmd.Flags().GetString("access-key-id")
	secret, _ := cmd.Flags().GetString("secret-access-key")
	session, _ := cmd.Flags().GetString("session-token")

	keyID = strings.TrimSpace(keyID)
	secret = strings.TrimSpace(secret)

	if keyID == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Access key ID: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read access key ID: %w", err)
		}
		keyID = strings.TrimSpace(line)
	}

	if secret == "" {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return errors.New("secret access key must be passed with --secret-access-key when stdin is not a terminal")
		}
		fmt.Fprint(cmd.ErrOrStderr(), "Secret access key: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("failed to read secret access key: %w", err)
		}
		secret = strings.TrimSpace(string(b))
	}

	creds := auth.AWSCredentials{
		AccessKeyID:     keyID,
		SecretAccessKey: secret,
		SessionToken:    strings.TrimSpace(session),
	}
	if err := auth.SaveAWSCredentials(auth.DefaultStore(), creds); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved credentials for %s (access key %s)\n", auth.AWSProvider, maskKeyID(keyID))
	return nil
}

// maskKeyID keeps the last four characters of an access key ID.
func maskKeyID(id string) string {
	if len(id) <= 4 {
		return strings.Repeat("*", len(id))
	}
	return strings.Repeat("*", len(id)-4) + id[len(id)-4:]
}
