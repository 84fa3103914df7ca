package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/towerctl/cmd/towerctl/handlers"
)

// Baseline returns the command for enabling the security baseline.
//
// The command delegates administration of AWS Config, GuardDuty, and
// Security Hub to the audit account (or a configured override) and enables
// each service organization-wide. Every service is attempted even when an
// earlier one fails.
func Baseline() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Enable the organization-wide security baseline",
		Long: `Enable the organization-wide security services.

Delegates AWS Config, GuardDuty, and Security Hub to the audit account
and turns on organization-wide enrollment for each. Services already
enabled are left untouched.

The prerequisites stage runs first so the shared accounts and control
roles are resolved; it is idempotent and adopts whatever already exists.

Examples:
  towerctl baseline
  towerctl baseline -c production.yaml --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Baseline(cmd.Context(), configPath, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: towerctl.yaml)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
