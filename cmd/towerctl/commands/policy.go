package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/towerctl/cmd/towerctl/handlers"
)

// Policy returns the parent command for guardrail policy operations.
func Policy() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect guardrail policies",
	}

	cmd.AddCommand(policyResolve())

	return cmd
}

// policyResolve returns the command that prints an account's effective
// guardrail set: the cumulative policies of its tier, after OU overrides
// and account exceptions.
func policyResolve() *cobra.Command {
	var (
		configPath string
		policyPath string
		accountID  string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the effective guardrail set for an account",
		Long: `Print the guardrail policies that apply to one account.

The effective set is the cumulative policy set of the account's tier.
The tier is the global one unless an OU on the account's parent chain
carries an override; the deepest override wins. Account exceptions then
remove individual policies.

Examples:
  towerctl policy resolve --account 111111111111`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.PolicyResolve(cmd.Context(), configPath, policyPath, accountID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: towerctl.yaml)")
	cmd.Flags().StringVar(&policyPath, "policy-state", "", "Path to policy state file (default: policy-state.yaml)")
	cmd.Flags().StringVar(&accountID, "account", "", "Account id to resolve (required)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}
