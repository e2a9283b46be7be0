package keypair

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/ec2kit/internal/auditlog"
	"nathanbeddoewebdev/ec2kit/internal/domain"
	"nathanbeddoewebdev/ec2kit/internal/providers"
	"nathanbeddoewebdev/ec2kit/internal/services/auth"
	"nathanbeddoewebdev/ec2kit/internal/sshkeys"
	"nathanbeddoewebdev/ec2kit/internal/util"

	"github.com/spf13/cobra"
)

func CreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a key pair and write <name>.pem",
		Long: `Create an RSA key pair in EC2 and write the private key to <name>.pem
with mode 0400. EC2 only returns the private key once.

Examples:
  ec2kit keypair create my-python-key
  ec2kit keypair create deploy --dir ~/.ssh`,
		Args:         cobra.ExactArgs(1),
		RunE:         runCreate,
		SilenceUsage: true,
	}

	cmd.Flags().String("dir", "", "Directory to write the .pem file to (default: current directory)")
	cmd.Flags().Bool("force", false, "Overwrite an existing local .pem file")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if err := util.ValidateResourceName(name); err != nil {
		return err
	}

	dir, _ := cmd.Flags().GetString("dir")
	force, _ := cmd.Flags().GetBool("force")
	path, err := sshkeys.PrivateKeyPath(dir, name)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		if !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	region := cmd.Flag("region").Value.String()
	compute, err := providers.New(cmd.Context(), region, auth.DefaultStore())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Creating key pair %q...\n", name)
	kp, err := compute.CreateKeyPair(cmd.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("key pair %q already exists in AWS; its private key cannot be downloaded again: %w", name, err)
		}
		return err
	}

	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
		ResourceType: auditlog.ResourceKeyPair,
		ResourceID:   kp.ID,
		ResourceName: kp.Name,
	}))

	if err := sshkeys.WritePrivateKey(path, kp.Material, force); err != nil {
		return fmt.Errorf("key pair %q was created but the private key could not be saved: %w", name, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Key pair %q created (%s).\n", kp.Name, kp.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "Private key saved to %s\n", path)
	return nil
}
