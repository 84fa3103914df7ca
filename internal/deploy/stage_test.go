package deploy

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/towerctl/internal/config"
	"github.com/imamik/towerctl/internal/errs"
	"github.com/imamik/towerctl/internal/platform/landingzone"
	"github.com/imamik/towerctl/internal/platform/orgs"
	"github.com/imamik/towerctl/internal/provisioning"
)

func testContext(t *testing.T, lz *landingzone.MockClient, o *orgs.MockClient) *provisioning.Context {
	t.Helper()
	if o == nil {
		o = &orgs.MockClient{}
	}
	ctx := &provisioning.Context{
		Context:     context.Background(),
		Config:      manifestConfig(),
		Policy:      config.DefaultPolicyState(),
		State:       provisioning.NewState(),
		Orgs:        o,
		LandingZone: lz,
		Observer:    provisioning.NewConsoleObserver(),
		Confirm:     provisioning.AutoApprove{},
		Timeouts: &config.Timeouts{
			DeployPollInterval: time.Millisecond,
			DeployMaxWait:      100 * time.Millisecond,
			RetryMaxAttempts:   2,
			RetryInitialDelay:  time.Millisecond,
		},
	}
	ctx.State.Accounts["log-archive"] = orgs.Account{ID: "222222222222", Name: "log-archive", Status: orgs.AccountActive}
	ctx.State.Accounts["audit"] = orgs.Account{ID: "333333333333", Name: "audit", Status: orgs.AccountActive}
	ctx.Config.Accounts = config.AccountsConfig{
		LogArchive: config.AccountSpec{Name: "log-archive", Email: "log@example.com"},
		Audit:      config.AccountSpec{Name: "audit", Email: "audit@example.com"},
	}
	ctx.State.OUIDs["Security"] = "ou-sec"
	ctx.State.OUIDs["Workloads"] = "ou-work"
	return ctx
}

func TestStageRun_CreatesWhenAbsent(t *testing.T) {
	var createdVersion string
	created := false
	lz := &landingzone.MockClient{
		// The lookup after a successful create resolves the new zone's id.
		FindLandingZoneFunc: func(context.Context) (string, error) {
			if created {
				return "lz-1", nil
			}
			return "", nil
		},
		CreateLandingZoneFunc: func(_ context.Context, _ map[string]any, version string) (string, error) {
			createdVersion = version
			created = true
			return "op-1", nil
		},
		GetOperationFunc: func(context.Context, string) (landingzone.OperationStatus, error) {
			return landingzone.OperationStatus{State: landingzone.OperationSucceeded}, nil
		},
	}
	ctx := testContext(t, lz, nil)

	err := NewStage().Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, "3.3", createdVersion)
	assert.Equal(t, "op-1", ctx.State.OperationID)
	assert.Equal(t, "lz-1", ctx.State.LandingZoneID)
	assert.NotEmpty(t, ctx.State.AttachedPolicies)
}

func TestStageRun_UpdatesWhenAvailable(t *testing.T) {
	var updated bool
	lz := &landingzone.MockClient{
		FindLandingZoneFunc: func(context.Context) (string, error) { return "lz-1", nil },
		GetLandingZoneFunc: func(_ context.Context, id string) (landingzone.Details, error) {
			return landingzone.Details{ID: id, State: landingzone.StateAvailable, Version: "3.2"}, nil
		},
		UpdateLandingZoneFunc: func(_ context.Context, id string, _ map[string]any, _ string) (string, error) {
			updated = true
			return "op-2", nil
		},
	}
	ctx := testContext(t, lz, nil)

	err := NewStage().Run(ctx)
	require.NoError(t, err)

	assert.True(t, updated)
	assert.Equal(t, "lz-1", ctx.State.LandingZoneID)
}

func TestStageRun_InProgressConflictFailsFast(t *testing.T) {
	var submitted bool
	lz := &landingzone.MockClient{
		FindLandingZoneFunc: func(context.Context) (string, error) { return "lz-1", nil },
		GetLandingZoneFunc: func(_ context.Context, id string) (landingzone.Details, error) {
			return landingzone.Details{ID: id, State: landingzone.StateInProgress}, nil
		},
		UpdateLandingZoneFunc: func(context.Context, string, map[string]any, string) (string, error) {
			submitted = true
			return "", nil
		},
	}
	ctx := testContext(t, lz, nil)

	err := NewStage().Run(ctx)
	require.Error(t, err)

	assert.False(t, submitted, "no operation must be submitted while another is running")
	assert.True(t, errs.Is(err, errs.KindDeployment))
	assert.Contains(t, err.Error(), "already in progress")
}

func TestWaitForOperation_TerminalFailureStopsPolling(t *testing.T) {
	var polls int32
	lz := &landingzone.MockClient{
		GetOperationFunc: func(context.Context, string) (landingzone.OperationStatus, error) {
			n := atomic.AddInt32(&polls, 1)
			if n <= 5 {
				return landingzone.OperationStatus{State: landingzone.OperationInProgress}, nil
			}
			return landingzone.OperationStatus{State: landingzone.OperationFailed, Message: "baseline rollout failed"}, nil
		},
	}
	ctx := testContext(t, lz, nil)

	err := waitForOperation(ctx, "op-1")
	require.Error(t, err)

	assert.True(t, errs.Is(err, errs.KindDeployment))
	assert.Contains(t, err.Error(), "baseline rollout failed")
	assert.Equal(t, int32(6), atomic.LoadInt32(&polls), "polling must stop at the terminal failure")
}

func TestWaitForOperation_TransportBlipDoesNotEndWait(t *testing.T) {
	var polls int32
	lz := &landingzone.MockClient{
		GetOperationFunc: func(context.Context, string) (landingzone.OperationStatus, error) {
			if atomic.AddInt32(&polls, 1) == 1 {
				return landingzone.OperationStatus{}, errors.New("read tcp 10.0.0.2:443: connection reset by peer")
			}
			return landingzone.OperationStatus{State: landingzone.OperationSucceeded}, nil
		},
	}
	ctx := testContext(t, lz, nil)

	require.NoError(t, waitForOperation(ctx, "op-1"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&polls), "the wait must survive one dropped connection")
}

func TestWaitForOperation_TypedRejectionEndsWait(t *testing.T) {
	var polls int32
	lz := &landingzone.MockClient{
		GetOperationFunc: func(context.Context, string) (landingzone.OperationStatus, error) {
			atomic.AddInt32(&polls, 1)
			return landingzone.OperationStatus{}, &smithy.GenericAPIError{Code: "AccessDeniedException"}
		},
	}
	ctx := testContext(t, lz, nil)

	err := waitForOperation(ctx, "op-1")
	require.Error(t, err)

	assert.True(t, errs.Is(err, errs.KindDeployment))
	assert.Equal(t, int32(1), atomic.LoadInt32(&polls), "a provider rejection must end the wait")
}

func TestWaitForOperation_TimesOut(t *testing.T) {
	lz := &landingzone.MockClient{
		GetOperationFunc: func(context.Context, string) (landingzone.OperationStatus, error) {
			return landingzone.OperationStatus{State: landingzone.OperationInProgress}, nil
		},
	}
	ctx := testContext(t, lz, nil)

	err := waitForOperation(ctx, "op-1")
	require.Error(t, err)

	assert.True(t, errs.Is(err, errs.KindDeployment))
	assert.Contains(t, err.Error(), "still running after")
}

func TestApplyPolicies_AttachesTierGuardrailsPerOU(t *testing.T) {
	attached := make(map[string][]string) // targetID -> policy ids
	created := make(map[string]string)    // policy name -> id
	o := &orgs.MockClient{
		CreatePolicyFunc: func(_ context.Context, name, _, _ string) (string, error) {
			id := "p-" + name
			created[name] = id
			return id, nil
		},
		AttachPolicyFunc: func(_ context.Context, policyID, targetID string) error {
			attached[targetID] = append(attached[targetID], policyID)
			return nil
		},
	}
	ctx := testContext(t, &landingzone.MockClient{}, o)

	require.NoError(t, applyPolicies(ctx))

	// Standard tier carries four guardrails, applied to both OUs.
	assert.Len(t, attached["ou-sec"], 4)
	assert.Len(t, attached["ou-work"], 4)
	assert.Contains(t, created, "Tower-Standard-require_mfa")
	assert.Contains(t, created, "Tower-Standard-deny_leave_org")
	assert.Len(t, ctx.State.AttachedPolicies, 8)
}

func TestApplyPolicies_OUOverrideChangesTier(t *testing.T) {
	created := make(map[string]bool)
	o := &orgs.MockClient{
		CreatePolicyFunc: func(_ context.Context, name, _, _ string) (string, error) {
			created[name] = true
			return "p-" + name, nil
		},
	}
	ctx := testContext(t, &landingzone.MockClient{}, o)
	ctx.Policy.OUOverrides = map[string]string{"Workloads": "basic"}

	require.NoError(t, applyPolicies(ctx))

	assert.True(t, created["Tower-Basic-deny_root_access"], "override tier names the attachment")
	assert.True(t, created["Tower-Standard-restrict_regions"], "other OUs keep the global tier")
}

func TestApplyPolicies_CollectsFailuresWithoutSkipping(t *testing.T) {
	var attachCalls int32
	o := &orgs.MockClient{
		AttachPolicyFunc: func(_ context.Context, policyID, targetID string) error {
			atomic.AddInt32(&attachCalls, 1)
			if targetID == "ou-sec" {
				return assert.AnError
			}
			return nil
		},
	}
	ctx := testContext(t, &landingzone.MockClient{}, o)

	err := applyPolicies(ctx)
	require.Error(t, err)

	assert.True(t, errs.Is(err, errs.KindDeployment))
	assert.Contains(t, err.Error(), "4 policy attachments failed")
	// The other OU's guardrails were still attached.
	assert.Len(t, ctx.State.AttachedPolicies, 4)
}

type pipelineRecorder struct {
	events   []provisioning.Event
	progress []int
	total    int
}

func (r *pipelineRecorder) Printf(string, ...interface{}) {}
func (r *pipelineRecorder) Event(e provisioning.Event)    { r.events = append(r.events, e) }
func (r *pipelineRecorder) Progress(_ string, current, total int) {
	r.progress = append(r.progress, current)
	r.total = total
}
func (r *pipelineRecorder) WithFields(map[string]string) provisioning.Observer { return r }

func TestApplyPolicies_ReportsProgressAndFailureEvents(t *testing.T) {
	o := &orgs.MockClient{
		AttachPolicyFunc: func(_ context.Context, _, targetID string) error {
			if targetID == "ou-sec" {
				return assert.AnError
			}
			return nil
		},
	}
	ctx := testContext(t, &landingzone.MockClient{}, o)
	rec := &pipelineRecorder{}
	ctx.Observer = rec

	require.Error(t, applyPolicies(ctx))

	// Two OUs with four standard guardrails each.
	assert.Equal(t, 8, rec.total)
	require.Len(t, rec.progress, 8)
	assert.Equal(t, 8, rec.progress[7], "progress must cover failed attachments too")

	var failed []provisioning.Event
	for _, e := range rec.events {
		if e.Type == provisioning.EventResourceFailed {
			failed = append(failed, e)
		}
	}
	require.Len(t, failed, 4)
	assert.Contains(t, failed[0].Resource, "Security")
}

func TestApplyPolicies_ExistingPolicyUpdatedNotDuplicated(t *testing.T) {
	var creates, updates int32
	o := &orgs.MockClient{
		ListPoliciesFunc: func(context.Context) ([]orgs.PolicySummary, error) {
			return []orgs.PolicySummary{
				{ID: "p-1", Name: "Tower-Standard-deny_root_access"},
			}, nil
		},
		CreatePolicyFunc: func(_ context.Context, name, _, _ string) (string, error) {
			atomic.AddInt32(&creates, 1)
			return "p-" + name, nil
		},
		UpdatePolicyFunc: func(context.Context, string, string, string, string) error {
			atomic.AddInt32(&updates, 1)
			return nil
		},
	}
	ctx := testContext(t, &landingzone.MockClient{}, o)
	delete(ctx.State.OUIDs, "Workloads")

	require.NoError(t, applyPolicies(ctx))

	// deny_root_access already existed: one update, three creates.
	assert.Equal(t, int32(3), atomic.LoadInt32(&creates))
	assert.Equal(t, int32(1), atomic.LoadInt32(&updates))
}
