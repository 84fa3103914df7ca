package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/towerctl/cmd/towerctl/handlers"
)

// Prereqs returns the command for provisioning organization prerequisites.
//
// The command ensures the security OU, any additional OUs, the log archive
// and audit accounts, and the three Control Tower service roles. All
// operations are idempotent; existing resources are adopted.
func Prereqs() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "prereqs",
		Short: "Provision the organization prerequisites",
		Long: `Provision the organizational units, shared accounts, and IAM roles a
landing zone deployment requires.

Account creation is asynchronous; the command polls until the accounts
are active. Resources that already exist are adopted, so re-running is
safe.

Examples:
  towerctl prereqs
  towerctl prereqs -c production.yaml --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Prereqs(cmd.Context(), configPath, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: towerctl.yaml)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
