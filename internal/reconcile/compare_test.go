package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/towerctl/internal/config"
	"github.com/imamik/towerctl/internal/platform/landingzone"
)

func desiredFixture() Desired {
	return Desired{
		LandingZoneVersion: "3.3",
		PolicyNames: []string{
			"Tower-Standard-deny_leave_org",
			"Tower-Standard-deny_root_access",
			"Tower-Standard-require_mfa",
			"Tower-Standard-restrict_regions",
		},
		Services: map[string]bool{"config": true, "guardduty": true, "securityhub": true},
	}
}

func inSyncObserved() Observed {
	return Observed{
		LandingZoneState:   landingzone.StateAvailable,
		LandingZoneVersion: "3.3",
		PolicyNames: []string{
			"Tower-Standard-deny_leave_org",
			"Tower-Standard-deny_root_access",
			"Tower-Standard-require_mfa",
			"Tower-Standard-restrict_regions",
		},
		Services: map[string]bool{"config": true, "guardduty": true, "securityhub": true},
	}
}

func TestCompare_InSync(t *testing.T) {
	t.Parallel()
	report := Compare(desiredFixture(), inSyncObserved())

	assert.True(t, report.InSync())
	assert.Empty(t, report.Drifts())
}

func TestCompare_InProgressIsPending(t *testing.T) {
	t.Parallel()
	observed := inSyncObserved()
	observed.LandingZoneState = landingzone.StateInProgress

	report := Compare(desiredFixture(), observed)

	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, ClassPending, report.Mismatches[0].Class)
	assert.Empty(t, report.Drifts(), "a running operation is not drift")
}

func TestCompare_FreshOrganizationIsPendingNotDrift(t *testing.T) {
	t.Parallel()
	observed := Observed{
		LandingZoneState: landingzone.StateNotStarted,
		Services:         map[string]bool{},
	}

	report := Compare(desiredFixture(), observed)

	assert.False(t, report.InSync())
	assert.Empty(t, report.Drifts(), "nothing deployed yet is expected work, not drift")
	for _, m := range report.Mismatches {
		assert.Equal(t, ClassPending, m.Class, "field %s", m.Field)
	}
}

func TestCompare_FailedZoneIsDrift(t *testing.T) {
	t.Parallel()
	observed := inSyncObserved()
	observed.LandingZoneState = landingzone.StateFailed

	report := Compare(desiredFixture(), observed)

	require.Len(t, report.Drifts(), 1)
	assert.Equal(t, "landing_zone.state", report.Drifts()[0].Field)
}

func TestCompare_DriftedZone(t *testing.T) {
	t.Parallel()
	observed := inSyncObserved()
	observed.LandingZoneState = landingzone.StateDrifted
	observed.Drifted = true

	report := Compare(desiredFixture(), observed)

	assert.False(t, report.InSync())
	assert.NotEmpty(t, report.Drifts())
}

func TestCompare_VersionMismatchIsDrift(t *testing.T) {
	t.Parallel()
	observed := inSyncObserved()
	observed.LandingZoneVersion = "3.2"

	report := Compare(desiredFixture(), observed)

	require.Len(t, report.Mismatches, 1)
	m := report.Mismatches[0]
	assert.Equal(t, "landing_zone.version", m.Field)
	assert.Equal(t, ClassDrift, m.Class)
	assert.Equal(t, "3.3", m.Desired)
	assert.Equal(t, "3.2", m.Observed)
}

func TestCompare_MissingPolicyIsDrift(t *testing.T) {
	t.Parallel()
	observed := inSyncObserved()
	observed.PolicyNames = observed.PolicyNames[:2]

	report := Compare(desiredFixture(), observed)

	drifts := report.Drifts()
	require.Len(t, drifts, 2)
	assert.Contains(t, drifts[0].Field, "policy.")
	assert.Equal(t, "missing", drifts[0].Observed)
}

func TestCompare_DisabledServiceIsDrift(t *testing.T) {
	t.Parallel()
	observed := inSyncObserved()
	observed.Services["guardduty"] = false

	report := Compare(desiredFixture(), observed)

	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, "service.guardduty", report.Mismatches[0].Field)
	assert.Equal(t, ClassDrift, report.Mismatches[0].Class)
}

func TestCompare_ServiceDisabledByConfigIgnored(t *testing.T) {
	t.Parallel()
	desired := desiredFixture()
	desired.Services["guardduty"] = false
	observed := inSyncObserved()
	observed.Services["guardduty"] = false

	report := Compare(desired, observed)
	assert.True(t, report.InSync())
}

func TestCompare_MissingBucketIsPending(t *testing.T) {
	t.Parallel()
	desired := desiredFixture()
	desired.LogBucket = "aws-controltower-logs-222222222222-eu-west-1"
	observed := inSyncObserved()
	observed.LogBucketExists = false

	report := Compare(desired, observed)

	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, "logging.bucket", report.Mismatches[0].Field)
	assert.Equal(t, ClassPending, report.Mismatches[0].Class)
}

func TestCompare_Deterministic(t *testing.T) {
	t.Parallel()
	desired := desiredFixture()
	observed := Observed{
		LandingZoneState: landingzone.StateFailed,
		Services:         map[string]bool{},
	}

	first := Compare(desired, observed)
	second := Compare(desired, observed)

	require.Equal(t, len(first.Mismatches), len(second.Mismatches))
	for i := range first.Mismatches {
		assert.Equal(t, first.Mismatches[i].Field, second.Mismatches[i].Field)
	}
}

func TestDesiredFromConfig(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		AWS: config.AWSConfig{HomeRegion: "eu-west-1"},
		Organization: config.OrganizationConfig{
			SecurityOUName: "Security",
			AdditionalOUs:  []config.OUSpec{{Name: "Workloads"}},
		},
		LandingZone: config.LandingZoneConfig{Version: "3.3"},
	}
	state := config.DefaultPolicyState()
	state.OUOverrides = map[string]string{"Workloads": "strict"}

	desired := DesiredFromConfig(cfg, state, "222222222222")

	assert.Equal(t, "3.3", desired.LandingZoneVersion)
	assert.Equal(t, "aws-controltower-logs-222222222222-eu-west-1", desired.LogBucket)
	assert.True(t, desired.Services["guardduty"])
	// Security keeps the standard tier, Workloads escalates to strict.
	assert.Contains(t, desired.PolicyNames, "Tower-Standard-require_mfa")
	assert.Contains(t, desired.PolicyNames, "Tower-Strict-require_encryption")
	assert.NotContains(t, desired.PolicyNames, "Tower-Standard-require_encryption")
}
