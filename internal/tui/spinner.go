package tui

import (
	"io"

	"github.com/charmbracelet/huh/spinner"
)

// SpinnerWait returns a wait wrapper that shows a spinner on out while
// wait runs.
func SpinnerWait(out io.Writer, accessible bool) func(title string, wait func() error) error {
	return func(title string, wait func() error) error {
		var waitErr error
		spinErr := spinner.New().
			Title(title).
			Accessible(accessible).
			Output(out).
			Action(func() {
				waitErr = wait()
			}).
			Run()
		if spinErr != nil {
			return spinErr
		}
		return waitErr
	}
}
