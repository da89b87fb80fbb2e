// Package prompt provides the interactive confirmation commitgen shows before
// committing.
package prompt

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C).
var ErrAborted = errors.New("aborted")

// IsAborted reports whether the error indicates the user aborted.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}

// Confirm prompts for yes/no confirmation.
// Returns false, nil for "n"; ErrAborted on Ctrl+C.
func Confirm(label string, defaultYes bool) (bool, error) {
	defaultStr := "y/N"
	if defaultYes {
		defaultStr = "Y/n"
	}

	p := promptui.Prompt{
		Label:     fmt.Sprintf("%s [%s]", label, defaultStr),
		IsConfirm: true,
	}

	result, err := p.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, ErrAborted
		}
		// promptui signals an explicit "n" with ErrAbort
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		if result == "" {
			return defaultYes, nil
		}
		return false, err
	}
	return result == "y" || result == "Y" || result == "yes", nil
}
