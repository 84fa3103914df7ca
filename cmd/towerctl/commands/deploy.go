package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/towerctl/cmd/towerctl/handlers"
)

// Deploy returns the command for the full landing zone deployment.
//
// The command runs the complete pipeline: readiness checks, prerequisites,
// landing zone creation or update, guardrail policy attachment, the
// security baseline, and a final validation against the declared posture.
//
// Optional flags:
//
//	--config, -c:     Path to deployment configuration YAML file (default: towerctl.yaml)
//	--policy-state:   Path to the guardrail policy state file (default: policy-state.yaml)
//	--yes, -y:        Skip the interactive confirmation prompt
//	--skip-baseline:  Skip the security baseline stage
func Deploy() *cobra.Command {
	var (
		configPath   string
		policyPath   string
		yes          bool
		skipBaseline bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy or update the landing zone",
		Long: `Deploy or update the AWS landing zone.

The pipeline runs in a fixed order: readiness checks, prerequisites,
landing zone deployment with guardrail policies, security baseline, and
validation. A failed stage stops the pipeline; completed work is never
rolled back, and re-running reconciles from wherever the last run
stopped.

Deployment takes up to 90 minutes while Control Tower sets up the
landing zone.

Examples:
  # Deploy using towerctl.yaml in the current directory
  towerctl deploy

  # Deploy non-interactively
  towerctl deploy --yes

  # Deploy without touching the security services
  towerctl deploy --skip-baseline`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), handlers.DeployOptions{
				ConfigPath:   configPath,
				PolicyPath:   policyPath,
				AutoApprove:  yes,
				SkipBaseline: skipBaseline,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: towerctl.yaml)")
	cmd.Flags().StringVar(&policyPath, "policy-state", "", "Path to policy state file (default: policy-state.yaml)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&skipBaseline, "skip-baseline", false, "Skip the security baseline stage")

	return cmd
}
