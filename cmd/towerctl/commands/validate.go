package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/towerctl/cmd/towerctl/handlers"
)

// Validate returns the command for pre-deployment readiness checks.
//
// The command probes the management account without changing anything:
// credentials, organization feature set, control roles, landing zone
// conflicts, and account email collisions.
//
// Optional flags:
//
//	--config, -c: Path to deployment configuration YAML file (default: towerctl.yaml)
func Validate() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check whether the organization is ready for deployment",
		Long: `Check whether the management account is ready for a landing zone deployment.

Runs read-only probes against AWS Organizations and Control Tower and
prints a readiness report. Nothing is created or modified.

Examples:
  # Validate using towerctl.yaml in the current directory
  towerctl validate

  # Validate a specific configuration
  towerctl validate -c production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: towerctl.yaml)")

	return cmd
}
