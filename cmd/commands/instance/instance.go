package instance

import (
	"nathanbeddoewebdev/ec2kit/internal/auditlog"
	"nathanbeddoewebdev/ec2kit/internal/config"

	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instance",
		Short: "List and provision EC2 instances",
		Long: `List EC2 instances in a region, or provision a single instance that is
reachable over SSH.

The region comes from --region, then 'ec2kit config get region', then the
AWS SDK defaults (AWS_REGION, ~/.aws/config).`,
		PersistentPreRunE: resolveRegion,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ProvisionCommand())

	cmd.PersistentFlags().String("region", "", "AWS region (overrides config)")

	return cmd
}

// resolveRegion fills --region from config when it was not passed and
// records the region for the audit log.
func resolveRegion(cmd *cobra.Command, args []string) error {
	region, err := config.ResolveRegion(cmd.Flag("region").Value.String())
	if err != nil {
		return err
	}
	if err := cmd.Flag("region").Value.Set(region); err != nil {
		return err
	}
	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{Region: region}))
	return nil
}
