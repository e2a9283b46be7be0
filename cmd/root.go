package cmd

import (
	"context"
	"os"
	"strings"
	"time"

	"nathanbeddoewebdev/ec2kit/cmd/commands/audit"
	"nathanbeddoewebdev/ec2kit/cmd/commands/auth"
	cfgcmd "nathanbeddoewebdev/ec2kit/cmd/commands/config"
	"nathanbeddoewebdev/ec2kit/cmd/commands/instance"
	"nathanbeddoewebdev/ec2kit/cmd/commands/keypair"
	"nathanbeddoewebdev/ec2kit/internal/auditlog"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "ec2kit",
		Short: "List and provision EC2 instances",
		Long: `ec2kit lists EC2 instances and provisions a single instance that is
ready for SSH: it checks the key pair, picks a free-tier instance type,
reuses or creates a security group, launches, waits, and prints how to
connect.

Quick start:
  ec2kit keypair create my-python-key   # Create a key pair and save the .pem
  ec2kit instance provision             # Launch an instance
  ec2kit instance list                  # List instances`,
		SilenceUsage: true,
	}

	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(instance.NewCommand())
	cmd.AddCommand(keypair.NewCommand())
	cmd.AddCommand(audit.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()

	start := time.Now()
	executed, err := root.ExecuteC()
	recordAudit(executed, start, err)

	if err != nil {
		os.Exit(1)
	}
}

// skipAudit lists command paths that are not recorded.
var skipAudit = map[string]bool{
	"ec2kit":                true,
	"ec2kit help":           true,
	"ec2kit completion":     true,
	"ec2kit audit list":     true,
	"ec2kit audit launches": true,
}

// auditTimeout bounds opening and writing the audit database.
const auditTimeout = 3 * time.Second

// recordAudit writes a best-effort audit entry for the executed command.
// Failures to open or write the audit log are ignored.
func recordAudit(cmd *cobra.Command, start time.Time, err error) {
	if cmd == nil {
		return
	}
	path := cmd.CommandPath()
	if skipAudit[path] || strings.HasPrefix(path, "ec2kit completion ") {
		return
	}

	// cmd.Context may already be cancelled (Ctrl-C during a wait).
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	repo, openErr := auditlog.Open(ctx)
	if openErr != nil {
		return
	}
	defer repo.Close()

	meta := auditlog.MetadataFromContext(cmd.Context())
	_ = repo.Save(ctx, auditlog.NewEntry(path, os.Args[1:], meta, start, err))
}
