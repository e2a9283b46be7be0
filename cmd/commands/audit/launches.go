package audit

import (
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/ec2kit/internal/auditlog"
	"nathanbeddoewebdev/ec2kit/internal/util"

	"github.com/spf13/cobra"
)

func LaunchesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launches",
		Short: "List instances launched by 'ec2kit instance provision'",
		Long: `List successful provisioning runs with the instance, type, and security
group each one used. Instances terminated since then are still listed.

Examples:
  ec2kit audit launches
  ec2kit audit launches --region us-east-1 -o json`,
		RunE:         runLaunches,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of launches to display")
	cmd.Flags().String("region", "", "Only launches in this region")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runLaunches(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("--limit must be greater than 0")
	}
	region, _ := cmd.Flags().GetString("region")
	region = util.NormalizeKey(region)
	if region != "" {
		if err := util.ValidateRegion(region); err != nil {
			return fmt.Errorf("invalid --region: %w", err)
		}
	}
	output, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	repo, err := auditlog.Open(cmd.Context())
	if err != nil {
		return err
	}
	defer repo.Close()

	launches, err := repo.Launches(cmd.Context(), region, limit)
	if err != nil {
		return err
	}

	if output == "json" {
		return writeJSON(cmd.OutOrStdout(), launches)
	}
	if len(launches) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No launches recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tREGION\tINSTANCE ID\tNAME\tTYPE\tSECURITY GROUP")
	for _, e := range launches {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			formatTime(e.Timestamp),
			orDash(e.Region),
			orDash(e.ResourceID),
			orDash(e.ResourceName),
			orDash(e.InstanceType),
			orDash(e.SecurityGroup),
		)
	}
	return w.Flush()
}
