package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imamik/towerctl/internal/baseline"
	"github.com/imamik/towerctl/internal/config"
	"github.com/imamik/towerctl/internal/platform/landingzone"
	"github.com/imamik/towerctl/internal/platform/logarchive"
	"github.com/imamik/towerctl/internal/platform/orgs"
	"github.com/imamik/towerctl/internal/platform/security"
	"github.com/imamik/towerctl/internal/readiness"
	"github.com/imamik/towerctl/internal/reconcile"
	"github.com/imamik/towerctl/internal/ui"
)

// StatusReport is the JSON shape of the status command.
type StatusReport struct {
	Ready      bool             `json:"ready"`
	Checks     []CheckStatus    `json:"checks"`
	InSync     bool             `json:"inSync"`
	Mismatches []MismatchStatus `json:"mismatches,omitempty"`
}

// CheckStatus is one readiness probe result.
type CheckStatus struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Detail      string `json:"detail,omitempty"`
	Remediation string `json:"remediation,omitempty"`
}

// MismatchStatus is one reconciliation finding.
type MismatchStatus struct {
	Field       string `json:"field"`
	Desired     string `json:"desired"`
	Observed    string `json:"observed"`
	Class       string `json:"class"`
	Remediation string `json:"remediation,omitempty"`
}

// Status reports readiness and compliance without modifying anything.
//
// The deployed posture is read back from the provider and compared against
// the configuration: landing zone state and version, guardrail policies,
// security services, and the centralized log bucket.
func Status(ctx context.Context, configPath, policyPath string, jsonOutput bool) error {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}
	policyState, err := loadPolicyState(policyPath)
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

	runner := readiness.NewRunner(orgsAPI, lzAPI, readinessConcurrency)
	report, err := runner.Run(ctx, cfg)
	if err != nil {
		return err
	}

	compliance, err := observePosture(ctx, cfg, policyState, orgsAPI, lzAPI, secAPI, logAPI)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printStatusJSON(report, compliance)
	}

	printOutput(ui.RenderReadiness(report))
	printOutput(ui.RenderCompliance(compliance))
	return nil
}

// observePosture reads the deployed posture back from the provider and
// compares it with the configuration.
func observePosture(
	ctx context.Context,
	cfg *config.Config,
	policyState *config.PolicyState,
	orgsAPI orgs.API,
	lzAPI landingzone.API,
	secAPI security.API,
	logAPI logarchive.API,
) (*reconcile.Report, error) {
	accounts, err := orgsAPI.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	logArchiveID := ""
	for _, acct := range accounts {
		if acct.Name == cfg.Accounts.LogArchive.Name {
			logArchiveID = acct.ID
		}
	}

	desired := reconcile.DesiredFromConfig(cfg, policyState, logArchiveID)
	observed := reconcile.Observed{Services: make(map[string]bool)}

	id, err := lzAPI.FindLandingZone(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find landing zone: %w", err)
	}
	if id == "" {
		observed.LandingZoneState = landingzone.StateNotStarted
	} else {
		details, err := lzAPI.GetLandingZone(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to read landing zone: %w", err)
		}
		observed.LandingZoneState = details.State
		observed.LandingZoneVersion = details.Version
		observed.Drifted = details.Drifted
	}

	policies, err := orgsAPI.ListPolicies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	for _, p := range policies {
		observed.PolicyNames = append(observed.PolicyNames, p.Name)
	}

	aggregator, err := secAPI.AggregatorExists(ctx, baseline.AggregatorName)
	if err != nil {
		return nil, fmt.Errorf("failed to check aggregator: %w", err)
	}
	observed.Services["config"] = aggregator

	detectorID, err := secAPI.FindDetector(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find detector: %w", err)
	}
	if detectorID != "" {
		auto, err := secAPI.DetectorAutoEnabled(ctx, detectorID)
		if err != nil {
			return nil, fmt.Errorf("failed to check detector enrollment: %w", err)
		}
		observed.Services["guardduty"] = auto
	}

	hub, err := secAPI.HubEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check security hub: %w", err)
	}
	observed.Services["securityhub"] = hub

	if desired.LogBucket != "" {
		exists, err := logAPI.BucketExists(ctx, desired.LogBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to check log bucket: %w", err)
		}
		observed.LogBucketExists = exists
	}

	return reconcile.Compare(desired, observed), nil
}

func printStatusJSON(report *readiness.Report, compliance *reconcile.Report) error {
	status := StatusReport{
		Ready:  report.Ready(),
		Checks: make([]CheckStatus, 0, len(report.Checks)),
		InSync: compliance.InSync(),
	}
	for _, check := range report.Checks {
		status.Checks = append(status.Checks, CheckStatus{
			Name:        check.Name,
			Status:      string(check.Status),
			Detail:      check.Detail,
			Remediation: check.Remediation,
		})
	}
	for _, m := range compliance.Mismatches {
		status.Mismatches = append(status.Mismatches, MismatchStatus{
			Field:       m.Field,
			Desired:     m.Desired,
			Observed:    m.Observed,
			Class:       string(m.Class),
			Remediation: m.Remediation,
		})
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}
	printOutput(string(data) + "\n")
	return nil
}
