package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/towerctl/cmd/towerctl/handlers"
)

// Status returns the command for inspecting the deployed posture.
//
// The command runs the readiness probes and compares the deployed landing
// zone, guardrail policies, and security services against the declared
// configuration. Nothing is modified.
//
// Optional flags:
//
//	--config, -c:   Path to deployment configuration YAML file (default: towerctl.yaml)
//	--policy-state: Path to the guardrail policy state file (default: policy-state.yaml)
//	--json:         Emit the report as JSON instead of styled text
func Status() *cobra.Command {
	var (
		configPath string
		policyPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show readiness and compliance against the configuration",
		Long: `Show the current state of the landing zone.

Runs the read-only readiness probes and reconciles the deployed posture
against the configuration: landing zone version and state, guardrail
policies, security services, and the centralized log bucket.

Examples:
  towerctl status
  towerctl status --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), configPath, policyPath, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: towerctl.yaml)")
	cmd.Flags().StringVar(&policyPath, "policy-state", "", "Path to policy state file (default: policy-state.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
