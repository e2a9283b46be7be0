package tui

import (
	"errors"
	"fmt"
	"strings"

	"nathanbeddoewebdev/ec2kit/internal/tui/styles"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when a user cancels the interactive flow.
var ErrAborted = errors.New("launch aborted by user")

// LaunchSummary is what the user is shown before an instance is launched.
type LaunchSummary struct {
	Region        string
	ImageID       string
	InstanceType  string
	KeyName       string
	SecurityGroup string
	IngressCIDR   string
	IngressPort   int32
	NameTag       string
}

func (s LaunchSummary) render() string {
	var b strings.Builder
	row := func(label, value string) {
		if value == "" {
			value = "(auto)"
		}
		fmt.Fprintf(&b, "%s %s\n", styles.Label.Render(fmt.Sprintf("%-15s", label+":")), styles.Value.Render(value))
	}
	row("Region", s.Region)
	row("Image", s.ImageID)
	row("Instance type", s.InstanceType)
	row("Key pair", s.KeyName)
	row("Security group", s.SecurityGroup)
	row("Inbound", fmt.Sprintf("tcp/%d from %s", s.IngressPort, s.IngressCIDR))
	row("Name tag", s.NameTag)
	return strings.TrimRight(b.String(), "\n")
}

// ConfirmLaunch shows the summary and asks for confirmation. It returns
// ErrAborted when the user declines or cancels.
func ConfirmLaunch(summary LaunchSummary, accessible bool) error {
	confirm := false
	err := runForm(accessible, huh.NewGroup(
		huh.NewNote().
			Title("Launch EC2 instance").
			Description(summary.render()),
		huh.NewConfirm().
			Title("Launch this instance?").
			Affirmative("Launch").
			Negative("Cancel").
			Value(&confirm),
	))
	if err != nil {
		return err
	}
	if !confirm {
		return ErrAborted
	}
	return nil
}

// runForm creates and runs a huh.Form, translating ErrUserAborted to ErrAborted.
func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}
