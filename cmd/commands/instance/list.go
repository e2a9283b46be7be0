package instance

import (
	"fmt"

	"nathanbeddoewebdev/ec2kit/internal/providers"
	"nathanbeddoewebdev/ec2kit/internal/services/auth"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all instances",
		Long: `List every instance in the region, in the order EC2 returns them.

Examples:
  ec2kit instance list
  ec2kit instance list --region eu-west-1 -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	region := cmd.Flag("region").Value.String()
	compute, err := providers.New(cmd.Context(), region, auth.DefaultStore())
	if err != nil {
		return err
	}

	instances, err := compute.ListInstances(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list instances: %w", err)
	}

	if output == "json" {
		return printInstancesJSON(cmd, instances)
	}

	if len(instances) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No instances found.")
		return nil
	}
	printInstancesTable(cmd, instances)
	return nil
}
