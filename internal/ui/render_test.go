package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/imamik/towerctl/internal/provisioning"
	"github.com/imamik/towerctl/internal/readiness"
	"github.com/imamik/towerctl/internal/reconcile"
)

func TestRenderReadiness(t *testing.T) {
	t.Parallel()
	report := &readiness.Report{Checks: []readiness.Check{
		{Name: "credentials", Status: readiness.StatusPass, Detail: "management account 111111111111"},
		{Name: "organization_features", Status: readiness.StatusFail, Detail: "feature set is CONSOLIDATED_BILLING", Remediation: "enable all features"},
		{Name: "control_roles", Status: readiness.StatusWarn, Detail: "1 control roles missing"},
	}}

	out := RenderReadiness(report)

	assert.Contains(t, out, "credentials")
	assert.Contains(t, out, "management account 111111111111")
	assert.Contains(t, out, "enable all features")
	assert.Contains(t, out, "1 checks failed")
	assert.NotContains(t, out, "ready to deploy")
}

func TestRenderReadiness_Ready(t *testing.T) {
	t.Parallel()
	report := &readiness.Report{Checks: []readiness.Check{
		{Name: "credentials", Status: readiness.StatusPass},
	}}

	assert.Contains(t, RenderReadiness(report), "ready to deploy")
}

func TestRenderStages(t *testing.T) {
	t.Parallel()
	now := time.Now()
	records := []provisioning.StageRecord{
		{Name: "prerequisites", Status: provisioning.StatusSucceeded, StartedAt: now, FinishedAt: now.Add(2 * time.Second)},
		{Name: "landing_zone", Status: provisioning.StatusFailed, Err: errors.New("operation failed")},
		{Name: "security_baseline", Status: provisioning.StatusNotStarted},
	}

	out := RenderStages(records)

	assert.Contains(t, out, "prerequisites")
	assert.Contains(t, out, "2s")
	assert.Contains(t, out, "operation failed")
	assert.Contains(t, out, "not started")
}

func TestRenderBaseline(t *testing.T) {
	t.Parallel()
	results := []provisioning.ServiceResult{
		{Service: "config", Delegated: true, Enabled: true},
		{Service: "guardduty", Reason: "delegation failed: access denied"},
		{Service: "securityhub", Reason: "disabled by configuration"},
	}

	out := RenderBaseline(results)

	assert.Contains(t, out, "config")
	assert.Contains(t, out, "enabled")
	assert.Contains(t, out, "delegation failed")
	assert.Contains(t, out, "disabled by configuration")
}

func TestRenderCompliance_InSync(t *testing.T) {
	t.Parallel()
	out := RenderCompliance(&reconcile.Report{})
	assert.Contains(t, out, "in sync")
}

func TestRenderCompliance_Mismatches(t *testing.T) {
	t.Parallel()
	report := &reconcile.Report{Mismatches: []reconcile.Mismatch{
		{Field: "landing_zone.version", Desired: "3.3", Observed: "3.2", Class: reconcile.ClassDrift, Remediation: "run deploy"},
		{Field: "landing_zone.state", Desired: "AVAILABLE", Observed: "IN_PROGRESS", Class: reconcile.ClassPending},
	}}

	out := RenderCompliance(report)

	assert.Contains(t, out, "landing_zone.version")
	assert.Contains(t, out, "want 3.3, have 3.2")
	assert.Contains(t, out, "run deploy")
}
