package instance

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/ec2kit/internal/domain"
	"nathanbeddoewebdev/ec2kit/internal/services/provision"

	"github.com/spf13/cobra"
)

func printInstancesJSON(cmd *cobra.Command, instances []domain.Instance) error {
	if instances == nil {
		instances = []domain.Instance{}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(instances)
}

func printInstancesTable(cmd *cobra.Command, instances []domain.Instance) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "INSTANCE ID\tSTATE\tTYPE\tNAME\tPUBLIC IPv4")
	fmt.Fprintln(w, "-----------\t-----\t----\t----\t-----------")

	for _, inst := range instances {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			inst.ID,
			inst.State,
			inst.InstanceType,
			orDash(inst.Name),
			orDash(inst.PublicIPv4),
		)
	}

	w.Flush()
}

func printResultJSON(cmd *cobra.Command, res *provision.Result) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// printResultDetail prints a vertical key-value table of the launched instance.
func printResultDetail(cmd *cobra.Command, res *provision.Result) {
	inst := res.Instance
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "  Instance ID:\t%s\n", inst.ID)
	if inst.Name != "" {
		fmt.Fprintf(w, "  Name:\t%s\n", inst.Name)
	}
	fmt.Fprintf(w, "  State:\t%s\n", inst.State)
	fmt.Fprintf(w, "  Type:\t%s\n", res.InstanceType)
	fmt.Fprintf(w, "  Key pair:\t%s\n", res.KeyName)
	fmt.Fprintf(w, "  Security group:\t%s\n", res.SecurityGroupID)
	if inst.AvailabilityZone != "" {
		fmt.Fprintf(w, "  Zone:\t%s\n", inst.AvailabilityZone)
	}
	if inst.PublicIPv4 != "" {
		fmt.Fprintf(w, "  Public IPv4:\t%s\n", inst.PublicIPv4)
	}
	if inst.PrivateIPv4 != "" {
		fmt.Fprintf(w, "  Private IP:\t%s\n", inst.PrivateIPv4)
	}
	if res.ReportPath != "" {
		fmt.Fprintf(w, "  Report:\t%s\n", res.ReportPath)
	}

	w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
