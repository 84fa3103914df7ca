package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/towerctl/internal/baseline"
	"github.com/imamik/towerctl/internal/config"
	"github.com/imamik/towerctl/internal/prereq"
	"github.com/imamik/towerctl/internal/provisioning"
	"github.com/imamik/towerctl/internal/ui"
)

// Baseline enables the organization-wide security baseline.
//
// The prerequisites stage runs first so the shared accounts and control
// roles are resolved in state; it adopts anything that already exists but
// may create missing accounts, so the operator confirms up front.
func Baseline(ctx context.Context, configPath string, yes bool) error {
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
	secAPI, err := newSecurityClient(ctx, cfg.AWS.HomeRegion, cfg.AWS.Profile)
	if err != nil {
		return err
	}

	pCtx := newProvisioningContext(ctx, cfg, policyState, orgsAPI, nil, secAPI, nil)
	if !yes {
		pCtx.Confirm = newConfirmer()
	}

	approved, err := pCtx.Confirm.Confirm("Enable security baseline", baselineSummary(cfg))
	if err != nil {
		return err
	}
	if !approved {
		printOutput("baseline aborted\n")
		return nil
	}

	records, runErr := runStages(pCtx, []provisioning.Stage{prereq.NewStage(), baseline.NewStage()})
	printOutput(ui.RenderStages(records))
	if len(pCtx.State.ServiceResults) > 0 {
		printOutput(ui.RenderBaseline(pCtx.State.ServiceResults))
	}
	return runErr
}

// baselineSummary describes the services about to be delegated and
// enabled, for the confirmation prompt.
func baselineSummary(cfg *config.Config) string {
	services := make([]string, 0, 3)
	if cfg.Security.Services.ConfigRecordingEnabled() {
		services = append(services, "config")
	}
	if cfg.Security.Services.GuardDutyEnabled() {
		services = append(services, "guardduty")
	}
	if cfg.Security.Services.SecurityHubEnabled() {
		services = append(services, "securityhub")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "services: %s\n", strings.Join(services, ", "))
	fmt.Fprintf(&b, "audit:    %s\n", cfg.Accounts.Audit.Email)
	b.WriteString("\nPrerequisites run first; missing shared accounts are created.")
	return b.String()
}
