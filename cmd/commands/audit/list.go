package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/ec2kit/internal/auditlog"
	"nathanbeddoewebdev/ec2kit/internal/util"

	"github.com/spf13/cobra"
)

var resourceTypes = []string{auditlog.ResourceInstance, auditlog.ResourceKeyPair}

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit entries",
		Long: `List recent audit entries, newest first.

Examples:
  ec2kit audit list
  ec2kit audit list --region eu-west-1 --outcome error
  ec2kit audit list --resource-type key-pair --since 7d
  ec2kit audit list --command "ec2kit instance provision" -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().String("command", "", "Only entries for this exact command path")
	cmd.Flags().String("region", "", "Only entries recorded against this region")
	cmd.Flags().String("resource-type", "", "Only entries that touched this resource type: "+strings.Join(resourceTypes, " or "))
	cmd.Flags().String("outcome", "", "Only entries with this outcome: success or error")
	cmd.Flags().String("since", "", "Only entries newer than this age (e.g. 12h, 7d)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
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

	entries, err := repo.List(cmd.Context(), filter)
	if err != nil {
		return err
	}

	if output == "json" {
		return writeJSON(cmd.OutOrStdout(), entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit entries found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tCOMMAND\tREGION\tOUTCOME\tDURATION\tRESOURCE\tDETAIL")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			formatTime(e.Timestamp),
			e.Command,
			orDash(e.Region),
			e.Outcome,
			formatDuration(e.DurationMs),
			formatResource(e),
			orDash(e.Detail),
		)
	}
	return w.Flush()
}

// filterFromFlags validates the list flags and turns them into a query.
func filterFromFlags(cmd *cobra.Command) (auditlog.Filter, error) {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return auditlog.Filter{}, fmt.Errorf("--limit must be greater than 0")
	}
	f := auditlog.Filter{Limit: limit}

	f.Command, _ = cmd.Flags().GetString("command")

	if region, _ := cmd.Flags().GetString("region"); region != "" {
		region = util.NormalizeKey(region)
		if err := util.ValidateRegion(region); err != nil {
			return f, fmt.Errorf("invalid --region: %w", err)
		}
		f.Region = region
	}

	if rt, _ := cmd.Flags().GetString("resource-type"); rt != "" {
		rt = util.NormalizeKey(rt)
		if !slices.Contains(resourceTypes, rt) {
			return f, fmt.Errorf("unknown --resource-type %q (use %s)", rt, strings.Join(resourceTypes, " or "))
		}
		f.ResourceType = rt
	}

	if outcome, _ := cmd.Flags().GetString("outcome"); outcome != "" {
		outcome = util.NormalizeKey(outcome)
		if outcome != auditlog.OutcomeSuccess && outcome != auditlog.OutcomeError {
			return f, fmt.Errorf("unknown --outcome %q (use success or error)", outcome)
		}
		f.Outcome = outcome
	}

	if since, _ := cmd.Flags().GetString("since"); since != "" {
		age, err := parseAge(since)
		if err != nil {
			return f, fmt.Errorf("invalid --since: %w", err)
		}
		f.Since = time.Now().Add(-age)
	}

	return f, nil
}

func outputFormat(cmd *cobra.Command) (string, error) {
	output, _ := cmd.Flags().GetString("output")
	switch output {
	case "", "table":
		return "table", nil
	case "json":
		return "json", nil
	default:
		return "", fmt.Errorf("unsupported output format %q", output)
	}
}

func writeJSON(w io.Writer, entries []auditlog.AuditEntry) error {
	if entries == nil {
		entries = []auditlog.AuditEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", ms)
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// formatResource renders e.g. "instance:i-0abc (web) t3.micro" or
// "key-pair (my-python-key)".
func formatResource(e auditlog.AuditEntry) string {
	var parts []string
	switch {
	case e.ResourceType != "" && e.ResourceID != "":
		parts = append(parts, e.ResourceType+":"+e.ResourceID)
	case e.ResourceType != "":
		parts = append(parts, e.ResourceType)
	case e.ResourceID != "":
		parts = append(parts, e.ResourceID)
	}
	if e.ResourceName != "" {
		parts = append(parts, "("+e.ResourceName+")")
	}
	if e.InstanceType != "" {
		parts = append(parts, e.InstanceType)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
