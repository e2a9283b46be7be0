package instance

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/ec2kit/internal/auditlog"
	"nathanbeddoewebdev/ec2kit/internal/config"
	"nathanbeddoewebdev/ec2kit/internal/domain"
	"nathanbeddoewebdev/ec2kit/internal/providers"
	"nathanbeddoewebdev/ec2kit/internal/services/auth"
	"nathanbeddoewebdev/ec2kit/internal/services/provision"
	"nathanbeddoewebdev/ec2kit/internal/tui"
	"nathanbeddoewebdev/ec2kit/internal/util"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// provisionFlags maps flag names to the config key they override.
var provisionFlags = []struct {
	flag, key, usage string
}{
	{"key-name", config.KeyKeyName, "EC2 key pair name"},
	{"image-id", config.KeyImageID, "AMI to launch"},
	{"fallback-type", config.KeyFallbackType, "Instance type used when no free-tier type is found"},
	{"security-group", config.KeySecurityGroup, "Security group name to reuse or create"},
	{"security-group-description", config.KeySecurityGroupDescription, "Description for a newly created security group"},
	{"ssh-port", config.KeySSHPort, "Inbound TCP port for a new security group"},
	{"ssh-cidr", config.KeySSHCIDR, "Source CIDR for the inbound rule"},
	{"name", config.KeyInstanceName, "Name tag for the instance"},
	{"ssh-user", config.KeySSHUser, "Login user for connection instructions"},
	{"wait-timeout", config.KeyWaitTimeout, "Maximum time to wait for the instance to run"},
}

func ProvisionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Launch one SSH-reachable instance",
		Long: `Launch a single EC2 instance and print how to connect to it.

The steps run in order and stop at the first failure:
  1. Check the key pair exists in AWS and <key-name>.pem exists locally
  2. Pick the first free-tier instance type (or --fallback-type)
  3. Reuse the security group, or create it with one inbound rule
  4. Launch the instance and wait until it is running
  5. Print connection instructions and write instance_connection.txt

Resources created before a failure are left in place.

Every flag defaults to the matching 'ec2kit config' key.

Examples:
  ec2kit instance provision
  ec2kit instance provision --key-name deploy --ssh-cidr 203.0.113.0/24 --yes
  ec2kit instance provision --instance-type t3.small -o json`,
		RunE:         runProvision,
		SilenceUsage: true,
	}

	for _, f := range provisionFlags {
		cmd.Flags().String(f.flag, "", fmt.Sprintf("%s (default: config %s)", f.usage, f.key))
	}
	cmd.Flags().String("instance-type", "", "Instance type to launch (skips the free-tier lookup)")
	cmd.Flags().String("key-dir", "", "Directory containing <key-name>.pem (default: current directory)")
	cmd.Flags().Bool("allow-missing-key-file", false, "Launch even when the local .pem file is missing")
	cmd.Flags().String("report", provision.ReportFileName, "Path of the connection report file")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runProvision(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	values := make(map[string]string, len(provisionFlags))
	for _, f := range provisionFlags {
		v, err := resolveValue(cmd, cfg, f.flag, f.key)
		if err != nil {
			return err
		}
		values[f.key] = v
	}

	port, err := util.ValidatePort(values[config.KeySSHPort])
	if err != nil {
		return err
	}
	timeout, err := util.ValidateTimeout(values[config.KeyWaitTimeout])
	if err != nil {
		return err
	}

	instanceType, _ := cmd.Flags().GetString("instance-type")
	keyDir, _ := cmd.Flags().GetString("key-dir")
	allowMissing, _ := cmd.Flags().GetBool("allow-missing-key-file")
	reportPath, _ := cmd.Flags().GetString("report")

	plan := provision.Plan{
		KeyName:                  values[config.KeyKeyName],
		KeyDir:                   keyDir,
		AllowMissingKeyFile:      allowMissing,
		ImageID:                  values[config.KeyImageID],
		InstanceType:             strings.TrimSpace(instanceType),
		FallbackType:             values[config.KeyFallbackType],
		SecurityGroup:            values[config.KeySecurityGroup],
		SecurityGroupDescription: values[config.KeySecurityGroupDescription],
		Ingress: domain.IngressRule{
			Protocol:    "tcp",
			Port:        port,
			CIDR:        values[config.KeySSHCIDR],
			Description: "SSH access",
		},
		NameTag:     values[config.KeyInstanceName],
		SSHUser:     values[config.KeySSHUser],
		WaitTimeout: timeout,
		ReportPath:  reportPath,
	}

	region := cmd.Flag("region").Value.String()
	accessible := os.Getenv("ACCESSIBLE") != ""
	interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))

	if yes, _ := cmd.Flags().GetBool("yes"); !yes && interactive {
		err := tui.ConfirmLaunch(tui.LaunchSummary{
			Region:        region,
			ImageID:       plan.ImageID,
			InstanceType:  plan.InstanceType,
			KeyName:       plan.KeyName,
			SecurityGroup: plan.SecurityGroup,
			IngressCIDR:   plan.Ingress.CIDR,
			IngressPort:   plan.Ingress.Port,
			NameTag:       plan.NameTag,
		}, accessible)
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Provisioning cancelled.")
			return nil
		}
		if err != nil {
			return err
		}
	}

	compute, err := providers.New(cmd.Context(), region, auth.DefaultStore())
	if err != nil {
		return err
	}

	var opts []provision.Option
	if term.IsTerminal(int(os.Stderr.Fd())) {
		opts = append(opts, provision.WithWaitFunc(tui.SpinnerWait(cmd.ErrOrStderr(), accessible)))
	}
	svc := provision.NewService(compute, cmd.ErrOrStderr(), opts...)

	res, err := svc.Run(cmd.Context(), plan)
	if res != nil {
		cmd.SetContext(auditlog.WithMetadata(cmd.Context(), launchMetadata(plan, res)))
	}
	if err != nil {
		return err
	}

	if output == "json" {
		return printResultJSON(cmd, res)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	printResultDetail(cmd, res)
	return nil
}

// launchMetadata records what a provisioning run created or reused. The
// instance fields stay empty when the run stopped before launching.
func launchMetadata(plan provision.Plan, res *provision.Result) auditlog.Metadata {
	meta := auditlog.Metadata{
		ResourceType:  auditlog.ResourceInstance,
		ResourceName:  plan.NameTag,
		InstanceType:  res.InstanceType,
		SecurityGroup: res.SecurityGroupID,
	}
	if res.Instance != nil {
		meta.ResourceID = res.Instance.ID
	}
	return meta
}

// resolveValue returns the flag value when it was passed, otherwise the
// configured value or its default. Flag values are validated like
// 'config set' values.
func resolveValue(cmd *cobra.Command, cfg *config.Config, flag, key string) (string, error) {
	if !cmd.Flags().Changed(flag) {
		return cfg.Value(key), nil
	}

	value, _ := cmd.Flags().GetString(flag)
	value = strings.TrimSpace(value)
	if spec := config.Lookup(key); spec != nil && spec.Validate != nil {
		if err := spec.Validate(value); err != nil {
			return "", fmt.Errorf("invalid --%s: %w", flag, err)
		}
	}
	return value, nil
}
