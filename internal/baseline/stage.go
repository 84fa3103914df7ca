// Package baseline implements the security baseline stage: delegated
// administration and organization-wide enablement of configuration
// recording, threat detection, and findings aggregation.
package baseline

import (
	"fmt"
	"strings"

	"github.com/imamik/towerctl/internal/errs"
	"github.com/imamik/towerctl/internal/provisioning"
)

// Service principals for delegated administration.
const (
	configPrincipal      = "config.amazonaws.com"
	guardDutyPrincipal   = "guardduty.amazonaws.com"
	securityHubPrincipal = "securityhub.amazonaws.com"
)

// AggregatorName is the organization-wide configuration aggregator created
// in the management account.
const AggregatorName = "Tower-OrgAggregator"

// FindingFrequency is the GuardDuty finding publishing cadence.
const FindingFrequency = "SIX_HOURS"

// Stage enables the three organization-wide security services. Each service
// is attempted independently so one failure never hides the state of the
// others; the stage fails afterwards if any enabled service could not be
// brought up.
type Stage struct{}

// NewStage creates the security baseline stage.
func NewStage() *Stage { return &Stage{} }

// Name implements provisioning.Stage.
func (s *Stage) Name() string { return "security_baseline" }

// Run implements provisioning.Stage.
func (s *Stage) Run(ctx *provisioning.Context) error {
	auditID := ctx.State.AccountID(ctx.Config.Accounts.Audit.Name)
	adminID := ctx.Config.Security.DelegatedAdmin(auditID)
	if adminID == "" {
		return errs.Newf(errs.KindBaseline, "security_baseline", "resolve delegated admin",
			"no delegated administrator account available")
	}

	services := []struct {
		name      string
		enabled   bool
		principal string
		enable    func(*provisioning.Context) error
	}{
		{"config", ctx.Config.Security.Services.ConfigRecordingEnabled(), configPrincipal, s.enableConfig},
		{"guardduty", ctx.Config.Security.Services.GuardDutyEnabled(), guardDutyPrincipal, s.enableGuardDuty},
		{"securityhub", ctx.Config.Security.Services.SecurityHubEnabled(), securityHubPrincipal, s.enableSecurityHub},
	}

	var failures []string
	for _, svc := range services {
		result := provisioning.ServiceResult{Service: svc.name}
		observer := ctx.Observer.WithFields(map[string]string{"service": svc.name})

		if !svc.enabled {
			result.Reason = "disabled by configuration"
			ctx.State.ServiceResults = append(ctx.State.ServiceResults, result)
			continue
		}

		// Delegation has to hold before the service is switched on, so a
		// delegation failure skips enablement for this service only.
		if err := delegate(ctx, adminID, svc.principal); err != nil {
			result.Reason = fmt.Sprintf("delegation failed: %v", err)
			ctx.State.ServiceResults = append(ctx.State.ServiceResults, result)
			failures = append(failures, svc.name)
			provisioning.LogResourceFailed(observer, "security_baseline", "delegation", svc.name, err)
			continue
		}
		result.Delegated = true

		if err := svc.enable(ctx); err != nil {
			result.Reason = fmt.Sprintf("enablement failed: %v", err)
			ctx.State.ServiceResults = append(ctx.State.ServiceResults, result)
			failures = append(failures, svc.name)
			provisioning.LogResourceFailed(observer, "security_baseline", "enablement", svc.name, err)
			continue
		}
		result.Enabled = true
		ctx.State.ServiceResults = append(ctx.State.ServiceResults, result)
		observer.Printf("[security_baseline] %s enabled", svc.name)
	}

	if len(failures) > 0 {
		return errs.Newf(errs.KindBaseline, "security_baseline", "enable services",
			"%d of %d services failed: %s", len(failures), len(services), strings.Join(failures, ", "))
	}
	return nil
}

// delegate grants the admin account delegated administration for the
// service. Both calls are idempotent on the provider side.
func delegate(ctx *provisioning.Context, adminID, principal string) error {
	if err := ctx.Orgs.EnableServiceAccess(ctx, principal); err != nil {
		return fmt.Errorf("enable service access for %s: %w", principal, err)
	}
	if err := ctx.Orgs.RegisterDelegatedAdministrator(ctx, adminID, principal); err != nil {
		return fmt.Errorf("register delegated administrator for %s: %w", principal, err)
	}
	return nil
}

// enableConfig puts the organization aggregator in place unless it already
// exists.
func (s *Stage) enableConfig(ctx *provisioning.Context) error {
	exists, err := ctx.Security.AggregatorExists(ctx, AggregatorName)
	if err != nil {
		return err
	}
	if exists {
		provisioning.LogResourceExists(ctx.Observer, "security_baseline", "aggregator", AggregatorName, "")
		return nil
	}
	return ctx.Security.PutAggregator(ctx, AggregatorName, ctx.State.RoleArns["AWSControlTowerAdmin"])
}

// enableGuardDuty ensures a detector exists, enrolls the organization, and
// sets the finding cadence.
func (s *Stage) enableGuardDuty(ctx *provisioning.Context) error {
	detectorID, err := ctx.Security.EnsureDetector(ctx)
	if err != nil {
		return err
	}

	autoEnabled, err := ctx.Security.DetectorAutoEnabled(ctx, detectorID)
	if err != nil {
		return err
	}
	if !autoEnabled {
		if err := ctx.Security.EnableDetectorAutoEnable(ctx, detectorID); err != nil {
			return err
		}
	}

	return ctx.Security.SetFindingFrequency(ctx, detectorID, FindingFrequency)
}

// enableSecurityHub enables the hub, enrolls the organization, and
// subscribes the foundational standard.
func (s *Stage) enableSecurityHub(ctx *provisioning.Context) error {
	enabled, err := ctx.Security.HubEnabled(ctx)
	if err != nil {
		return err
	}
	if !enabled {
		if err := ctx.Security.EnableHub(ctx); err != nil {
			return err
		}
	}

	autoEnabled, err := ctx.Security.HubAutoEnabled(ctx)
	if err != nil {
		return err
	}
	if !autoEnabled {
		if err := ctx.Security.EnableHubAutoEnable(ctx); err != nil {
			return err
		}
	}

	_, err = ctx.Security.EnableFoundationalStandards(ctx)
	return err
}
