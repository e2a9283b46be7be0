package audit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"nathanbeddoewebdev/ec2kit/internal/auditlog"

	"github.com/spf13/cobra"
)

func PruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete audit entries older than an age",
		Long: `Delete audit entries older than an age.

Examples:
  ec2kit audit prune --older-than 30d
  ec2kit audit prune --older-than 2w --dry-run
  ec2kit audit prune --older-than 72h`,
		RunE:         runPrune,
		SilenceUsage: true,
	}

	cmd.Flags().String("older-than", "", "Remove entries older than this age (e.g. 30d, 2w, 72h)")
	cmd.Flags().Bool("dry-run", false, "Report how many entries would be removed without removing them")
	_ = cmd.MarkFlagRequired("older-than")

	return cmd
}

func runPrune(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetString("older-than")
	age, err := parseAge(raw)
	if err != nil {
		return fmt.Errorf("invalid --older-than: %w", err)
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	repo, err := auditlog.Open(cmd.Context())
	if err != nil {
		return err
	}
	defer repo.Close()

	n, err := repo.Prune(cmd.Context(), time.Now().Add(-age), dryRun)
	if err != nil {
		return err
	}

	verb := "Removed"
	if dryRun {
		verb = "Would remove"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d audit %s.\n", verb, n, pluralize(n, "entry", "entries"))
	return nil
}

// ageUnits extends time.ParseDuration with day and week suffixes.
var ageUnits = map[string]time.Duration{
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
}

// parseAge parses a positive age such as "30d", "2w", or any
// time.ParseDuration string.
func parseAge(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("age cannot be empty")
	}

	var d time.Duration
	unit, ok := ageUnits[input[len(input)-1:]]
	if ok {
		n, err := strconv.Atoi(input[:len(input)-1])
		if err != nil {
			return 0, fmt.Errorf("invalid age %q", input)
		}
		d = time.Duration(n) * unit
	} else {
		var err error
		if d, err = time.ParseDuration(input); err != nil {
			return 0, fmt.Errorf("invalid age %q (examples: 30d, 2w, 72h)", input)
		}
	}

	if d <= 0 {
		return 0, fmt.Errorf("age must be positive, got %q", input)
	}
	return d, nil
}

func pluralize(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
