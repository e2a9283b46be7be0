package keypair

import (
	"nathanbeddoewebdev/ec2kit/internal/auditlog"
	"nathanbeddoewebdev/ec2kit/internal/config"

	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keypair",
		Short: "Manage EC2 key pairs",
		Long:  `Create EC2 key pairs and save the private key locally.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			region, err := config.ResolveRegion(cmd.Flag("region").Value.String())
			if err != nil {
				return err
			}
			if err := cmd.Flag("region").Value.Set(region); err != nil {
				return err
			}
			cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{Region: region}))
			return nil
		},
	}

	cmd.AddCommand(CreateCommand())

	cmd.PersistentFlags().String("region", "", "AWS region (overrides config)")

	return cmd
}
