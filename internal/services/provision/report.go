package provision

import (
	"fmt"
	"io"
	"os"
	"strings"

	"nathanbeddoewebdev/ec2kit/internal/tui/styles"
)

// Report is the connection information for a launched instance.
type Report struct {
	InstanceID string
	PublicIP   string
	KeyName    string
	SSHUser    string
}

func (r Report) keyFile() string { return r.KeyName + ".pem" }

func (r Report) target() string { return r.SSHUser + "@" + r.PublicIP }

// Lines returns the four lines stored in the report file.
func (r Report) Lines() []string {
	return []string{
		"Instance ID: " + r.InstanceID,
		"Public IP: " + r.PublicIP,
		"Key Pair: " + r.keyFile(),
		"Connect: " + r.target(),
	}
}

// WriteReport writes the report to path, replacing any existing file.
func WriteReport(path string, r Report) error {
	data := strings.Join(r.Lines(), "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("failed to write connection report: %w", err)
	}
	return nil
}

// PrintConnectionInstructions prints how to reach the instance from common
// SSH clients.
func PrintConnectionInstructions(w io.Writer, r Report) {
	heading := func(s string) { fmt.Fprintln(w, "\n"+styles.Title.Render(s)) }
	command := func(s string) { fmt.Fprintln(w, "  "+styles.AccentText.Render(s)) }

	fmt.Fprintln(w, "\n"+styles.SuccessText.Render("Instance is ready!"))
	fmt.Fprintf(w, "%s %s\n", styles.Label.Render("Public IP:"), styles.Value.Render(r.PublicIP))

	heading("Connect with OpenSSH (Linux, macOS, Windows 10+):")
	command(fmt.Sprintf("chmod 400 %s", r.keyFile()))
	command(fmt.Sprintf("ssh -i %s %s", r.keyFile(), r.target()))

	heading("Connect with MobaXterm:")
	fmt.Fprintf(w, "  1. Session > SSH, remote host %s, username %s\n", r.PublicIP, r.SSHUser)
	fmt.Fprintf(w, "  2. Advanced SSH settings > Use private key > %s\n", r.keyFile())

	heading("Connect with PuTTY:")
	fmt.Fprintf(w, "  1. Convert %s to .ppk with PuTTYgen\n", r.keyFile())
	fmt.Fprintf(w, "  2. Host Name: %s\n", r.target())
	fmt.Fprintln(w, "  3. Connection > SSH > Auth > Credentials > select the .ppk file")

	heading("Connect with Session Manager (no SSH port needed):")
	command(fmt.Sprintf("aws ssm start-session --target %s", r.InstanceID))
	fmt.Fprintln(w, "  "+styles.MutedText.Render("Requires the SSM agent and an instance profile with SSM permissions."))
}
