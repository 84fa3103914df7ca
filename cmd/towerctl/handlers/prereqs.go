package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/towerctl/internal/config"
	"github.com/imamik/towerctl/internal/prereq"
	"github.com/imamik/towerctl/internal/provisioning"
	"github.com/imamik/towerctl/internal/ui"
)

// Prereqs provisions the organization prerequisites: OUs, shared accounts,
// and control roles. Existing resources are adopted, but missing accounts
// are created, so the operator confirms before anything runs.
func Prereqs(ctx context.Context, configPath string, yes bool) error {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}
	policyState, err := loadPolicyState("")
	if err != nil {
		return err
	}

	orgsAPI, err := newOrgsClient(ctx, cfg.AWS.HomeRegion, cfg.AWS.Profile)
	if err != nil {
		return err
	}

	pCtx := newProvisioningContext(ctx, cfg, policyState, orgsAPI, nil, nil, nil)
	if !yes {
		pCtx.Confirm = newConfirmer()
	}

	approved, err := pCtx.Confirm.Confirm("Provision prerequisites", prereqSummary(cfg))
	if err != nil {
		return err
	}
	if !approved {
		printOutput("prerequisites aborted\n")
		return nil
	}

	records, err := runStages(pCtx, []provisioning.Stage{prereq.NewStage()})
	printOutput(ui.RenderStages(records))
	return err
}

// prereqSummary describes what the stage is about to ensure, for the
// confirmation prompt.
func prereqSummary(cfg *config.Config) string {
	ous := []string{cfg.Organization.SecurityOUName}
	for _, spec := range cfg.Organization.AdditionalOUs {
		ous = append(ous, spec.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "organizational units: %s\n", strings.Join(ous, ", "))
	fmt.Fprintf(&b, "log archive:          %s\n", cfg.Accounts.LogArchive.Email)
	fmt.Fprintf(&b, "audit:                %s\n", cfg.Accounts.Audit.Email)
	b.WriteString("\nMissing accounts are created; everything that already exists is adopted.")
	return b.String()
}
