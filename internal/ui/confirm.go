package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// PromptConfirmer asks the operator to approve an action interactively.
// Implements provisioning.Confirmer.
type PromptConfirmer struct{}

// Confirm shows the summary and asks for approval. Without a terminal it
// declines and tells the operator to pass --yes.
func (PromptConfirmer) Confirm(title, summary string) (bool, error) {
	if !isTerminal() {
		return false, fmt.Errorf("stdin is not a terminal, re-run with --yes to skip confirmation")
	}

	approved := false
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(summary).
				Affirmative("Deploy").
				Negative("Abort").
				Value(&approved),
		),
	).Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return approved, nil
}

func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
