package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/towerctl/internal/baseline"
	"github.com/imamik/towerctl/internal/config"
	"github.com/imamik/towerctl/internal/deploy"
	"github.com/imamik/towerctl/internal/prereq"
	"github.com/imamik/towerctl/internal/provisioning"
	"github.com/imamik/towerctl/internal/reconcile"
	"github.com/imamik/towerctl/internal/ui"
)

// DeployOptions carries the deploy command flags.
type DeployOptions struct {
	ConfigPath   string
	PolicyPath   string
	AutoApprove  bool
	SkipBaseline bool
}

// Deploy runs the full landing zone pipeline.
//
// The order is fixed: readiness checks, prerequisites, landing zone
// deployment with guardrail policies, security baseline, validation. A
// failed stage stops the pipeline; completed work stays in place and a
// re-run reconciles from there.
func Deploy(ctx context.Context, opts DeployOptions) error {
	cfg, err := loadConfigFile(opts.ConfigPath)
	if err != nil {
		return err
	}
	policyState, err := loadPolicyState(opts.PolicyPath)
	if err != nil {
		return err
	}

	orgsAPI, err := newOrgsClient(ctx, cfg.AWS.HomeRegion, cfg.AWS.Profile)
	if err != nil {
		return err
	}
	lzAPI, err := newLandingZoneClient(ctx, cfg.AWS.HomeRegion, cfg.AWS.Profile)
	if err != nil {
		return err
	}
	secAPI, err := newSecurityClient(ctx, cfg.AWS.HomeRegion, cfg.AWS.Profile)
	if err != nil {
		return err
	}
	logAPI, err := newLogArchiveClient(ctx, cfg.AWS.HomeRegion, cfg.AWS.Profile)
	if err != nil {
		return err
	}

	if err := runReadiness(ctx, cfg, orgsAPI, lzAPI); err != nil {
		return err
	}

	pCtx := newProvisioningContext(ctx, cfg, policyState, orgsAPI, lzAPI, secAPI, logAPI)
	if !opts.AutoApprove {
		pCtx.Confirm = newConfirmer()
	}

	approved, err := pCtx.Confirm.Confirm("Deploy landing zone", deploySummary(cfg, policyState))
	if err != nil {
		return err
	}
	if !approved {
		printOutput("deployment aborted\n")
		return nil
	}

	stages := []provisioning.Stage{prereq.NewStage(), deploy.NewStage()}
	if !opts.SkipBaseline {
		stages = append(stages, baseline.NewStage())
	}
	stages = append(stages, reconcile.NewStage())

	records, runErr := runStages(pCtx, stages)
	printOutput(ui.RenderStages(records))
	if len(pCtx.State.ServiceResults) > 0 {
		printOutput(ui.RenderBaseline(pCtx.State.ServiceResults))
	}
	return runErr
}

// deploySummary describes what the pipeline is about to do, for the
// confirmation prompt.
func deploySummary(cfg *config.Config, state *config.PolicyState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "home region:      %s\n", cfg.AWS.HomeRegion)
	fmt.Fprintf(&b, "governed regions: %s\n", strings.Join(cfg.AWS.GovernedRegions, ", "))
	fmt.Fprintf(&b, "security tier:    %s\n", state.Tier)
	fmt.Fprintf(&b, "log archive:      %s\n", cfg.Accounts.LogArchive.Email)
	fmt.Fprintf(&b, "audit:            %s\n", cfg.Accounts.Audit.Email)
	b.WriteString("\nDeployment can take up to 90 minutes.")
	return b.String()
}
