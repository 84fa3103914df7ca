// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/towerctl/internal/config"
	"github.com/imamik/towerctl/internal/errs"
	"github.com/imamik/towerctl/internal/platform/landingzone"
	"github.com/imamik/towerctl/internal/platform/logarchive"
	"github.com/imamik/towerctl/internal/platform/orgs"
	"github.com/imamik/towerctl/internal/platform/security"
	"github.com/imamik/towerctl/internal/provisioning"
	"github.com/imamik/towerctl/internal/readiness"
	"github.com/imamik/towerctl/internal/ui"
)

// readinessConcurrency bounds the parallel readiness probes.
const readinessConcurrency = 4

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads the deployment configuration.
	loadConfigFile = config.LoadFile

	// loadPolicyState loads the guardrail policy state.
	loadPolicyState = config.LoadPolicyState

	// newOrgsClient creates the Organizations/IAM client.
	newOrgsClient = func(ctx context.Context, region, profile string) (orgs.API, error) {
		return orgs.NewRealClient(ctx, region, profile)
	}

	// newLandingZoneClient creates the Control Tower client.
	newLandingZoneClient = func(ctx context.Context, region, profile string) (landingzone.API, error) {
		return landingzone.NewRealClient(ctx, region, profile)
	}

	// newSecurityClient creates the security-services client.
	newSecurityClient = func(ctx context.Context, region, profile string) (security.API, error) {
		return security.NewRealClient(ctx, region, profile)
	}

	// newLogArchiveClient creates the log-bucket client.
	newLogArchiveClient = func(ctx context.Context, region, profile string) (logarchive.API, error) {
		return logarchive.NewClient(ctx, region, profile)
	}

	// newProvisioningContext creates a deployment context.
	newProvisioningContext = provisioning.NewContext

	// runStages executes a stage pipeline.
	runStages = provisioning.RunStages

	// newConfirmer creates the interactive deployment confirmer.
	newConfirmer = func() provisioning.Confirmer { return ui.PromptConfirmer{} }

	// printOutput writes rendered reports to the terminal.
	printOutput = func(s string) { fmt.Print(s) }
)

// runReadiness executes the readiness probes and prints the report.
// A report with failed checks yields a prerequisite error.
func runReadiness(ctx context.Context, cfg *config.Config, orgsAPI orgs.API, lzAPI landingzone.API) error {
	runner := readiness.NewRunner(orgsAPI, lzAPI, readinessConcurrency)
	report, err := runner.Run(ctx, cfg)
	if err != nil {
		return err
	}

	printOutput(ui.RenderReadiness(report))

	if !report.Ready() {
		return errs.Newf(errs.KindPrerequisite, "readiness", "run checks",
			"%d readiness checks failed", len(report.Failures())).
			WithRemedy("fix the failed checks above and re-run")
	}
	return nil
}
