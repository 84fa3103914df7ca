package prereq

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/towerctl/internal/config"
	"github.com/imamik/towerctl/internal/errs"
	"github.com/imamik/towerctl/internal/platform/orgs"
	"github.com/imamik/towerctl/internal/provisioning"

	"github.com/aws/smithy-go"
)

func testConfig() *config.Config {
	return &config.Config{
		AWS: config.AWSConfig{
			HomeRegion:      "eu-west-1",
			GovernedRegions: []string{"eu-west-1"},
		},
		Organization: config.OrganizationConfig{
			SecurityOUName: "Security",
			AdditionalOUs:  []config.OUSpec{{Name: "Workloads"}},
		},
		Accounts: config.AccountsConfig{
			LogArchive: config.AccountSpec{Name: "log-archive", Email: "log@example.com"},
			Audit:      config.AccountSpec{Name: "audit", Email: "audit@example.com"},
		},
	}
}

func testContext(t *testing.T, mock *orgs.MockClient) *provisioning.Context {
	t.Helper()
	return &provisioning.Context{
		Context:  context.Background(),
		Config:   testConfig(),
		State:    provisioning.NewState(),
		Orgs:     mock,
		Observer: provisioning.NewConsoleObserver(),
		Confirm:  provisioning.AutoApprove{},
		Timeouts: &config.Timeouts{
			AccountPollInterval: time.Millisecond,
			AccountMaxWait:      50 * time.Millisecond,
			RetryMaxAttempts:    3,
			RetryInitialDelay:   time.Millisecond,
		},
	}
}

func TestStageRun_PopulatesState(t *testing.T) {
	mock := &orgs.MockClient{}
	ctx := testContext(t, mock)

	err := NewStage().Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, "r-mock", ctx.State.RootID)
	assert.NotEmpty(t, ctx.State.SecurityOUID)
	assert.Contains(t, ctx.State.OUIDs, "Security")
	assert.Contains(t, ctx.State.OUIDs, "Workloads")
	assert.Contains(t, ctx.State.Accounts, "log-archive")
	assert.Contains(t, ctx.State.Accounts, "audit")
	assert.Equal(t, "log_archive", ctx.State.Accounts["log-archive"].Role)
	assert.Equal(t, "audit", ctx.State.Accounts["audit"].Role)
	assert.Len(t, ctx.State.RoleArns, 3)
	assert.Contains(t, ctx.State.RoleArns, "AWSControlTowerAdmin")
}

func TestEnsureAccount_AdoptsExistingByEmail(t *testing.T) {
	var creates int32
	mock := &orgs.MockClient{
		ListAccountsFunc: func(context.Context) ([]orgs.Account, error) {
			return []orgs.Account{
				// Email comparison must be case-insensitive.
				{ID: "222222222222", Name: "legacy-logs", Email: "LOG@example.com", Status: orgs.AccountActive},
			}, nil
		},
		CreateAccountFunc: func(context.Context, string, string) (orgs.CreateAccountHandle, error) {
			atomic.AddInt32(&creates, 1)
			return orgs.CreateAccountHandle{}, nil
		},
	}
	ctx := testContext(t, mock)

	account, err := ensureAccount(ctx, config.AccountSpec{Name: "log-archive", Email: "log@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "222222222222", account.ID)
	assert.Equal(t, orgs.AccountActive, account.Status)
	assert.Zero(t, atomic.LoadInt32(&creates), "an existing account must not be recreated")
}

func TestEnsureAccount_CreateAndPoll(t *testing.T) {
	var polls int32
	mock := &orgs.MockClient{
		DescribeCreateAccountFunc: func(context.Context, orgs.CreateAccountHandle) (orgs.CreateAccountResult, error) {
			if atomic.AddInt32(&polls, 1) < 3 {
				return orgs.CreateAccountResult{State: orgs.AccountCreating}, nil
			}
			return orgs.CreateAccountResult{State: orgs.AccountActive, AccountID: "333333333333"}, nil
		},
	}
	ctx := testContext(t, mock)

	account, err := ensureAccount(ctx, config.AccountSpec{Name: "audit", Email: "audit@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "333333333333", account.ID)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&polls), int32(3))
}

func TestEnsureAccount_PollSurvivesTransportBlip(t *testing.T) {
	var polls int32
	mock := &orgs.MockClient{
		DescribeCreateAccountFunc: func(context.Context, orgs.CreateAccountHandle) (orgs.CreateAccountResult, error) {
			if atomic.AddInt32(&polls, 1) == 1 {
				return orgs.CreateAccountResult{}, errors.New("dial tcp: lookup organizations.eu-west-1.amazonaws.com: no such host")
			}
			return orgs.CreateAccountResult{State: orgs.AccountActive, AccountID: "333333333333"}, nil
		},
	}
	ctx := testContext(t, mock)

	account, err := ensureAccount(ctx, config.AccountSpec{Name: "audit", Email: "audit@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "333333333333", account.ID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&polls), "the wait must survive one failed poll")
}

func TestEnsureAccount_PollRejectionEndsWait(t *testing.T) {
	var polls int32
	mock := &orgs.MockClient{
		DescribeCreateAccountFunc: func(context.Context, orgs.CreateAccountHandle) (orgs.CreateAccountResult, error) {
			atomic.AddInt32(&polls, 1)
			return orgs.CreateAccountResult{}, &smithy.GenericAPIError{Code: "AccessDeniedException"}
		},
	}
	ctx := testContext(t, mock)

	_, err := ensureAccount(ctx, config.AccountSpec{Name: "audit", Email: "audit@example.com"})
	require.Error(t, err)

	assert.True(t, errs.Is(err, errs.KindProvisioning))
	assert.Equal(t, int32(1), atomic.LoadInt32(&polls), "a provider rejection must end the wait")
}

func TestEnsureAccount_CreationFailed(t *testing.T) {
	mock := &orgs.MockClient{
		DescribeCreateAccountFunc: func(context.Context, orgs.CreateAccountHandle) (orgs.CreateAccountResult, error) {
			return orgs.CreateAccountResult{State: orgs.AccountFailed, FailureReason: "EMAIL_ALREADY_EXISTS"}, nil
		},
	}
	ctx := testContext(t, mock)

	account, err := ensureAccount(ctx, config.AccountSpec{Name: "audit", Email: "audit@example.com"})
	require.Error(t, err)

	assert.Equal(t, orgs.AccountFailed, account.Status)
	assert.True(t, errs.Is(err, errs.KindProvisioning))
	assert.Contains(t, err.Error(), "EMAIL_ALREADY_EXISTS")
}

func TestEnsureAccount_IndeterminateOnTimeout(t *testing.T) {
	mock := &orgs.MockClient{
		DescribeCreateAccountFunc: func(context.Context, orgs.CreateAccountHandle) (orgs.CreateAccountResult, error) {
			return orgs.CreateAccountResult{State: orgs.AccountCreating}, nil
		},
	}
	ctx := testContext(t, mock)

	account, err := ensureAccount(ctx, config.AccountSpec{Name: "audit", Email: "audit@example.com"})
	require.Error(t, err)

	assert.Equal(t, orgs.AccountIndeterminate, account.Status)
	assert.True(t, errs.Is(err, errs.KindProvisioning))
	assert.Contains(t, err.Error(), "still pending")
}

func TestEnsureAccount_StructuralErrorNotRetried(t *testing.T) {
	var creates int32
	mock := &orgs.MockClient{
		CreateAccountFunc: func(context.Context, string, string) (orgs.CreateAccountHandle, error) {
			atomic.AddInt32(&creates, 1)
			return orgs.CreateAccountHandle{}, &smithy.GenericAPIError{Code: "ConstraintViolationException"}
		},
	}
	ctx := testContext(t, mock)

	_, err := ensureAccount(ctx, config.AccountSpec{Name: "audit", Email: "audit@example.com"})
	require.Error(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&creates), "structural failures must not be retried")
	assert.True(t, errs.Is(err, errs.KindProvisioning))
	assert.Contains(t, err.Error(), "email may already be in use")
}

func TestEnsureOU_ExistingNotRecreated(t *testing.T) {
	var creates int32
	mock := &orgs.MockClient{
		ListOUsFunc: func(context.Context, string) ([]orgs.OrganizationalUnit, error) {
			return []orgs.OrganizationalUnit{{ID: "ou-sec", Name: "Security", ParentID: "r-mock"}}, nil
		},
		CreateOUFunc: func(context.Context, string, string) (orgs.OrganizationalUnit, error) {
			atomic.AddInt32(&creates, 1)
			return orgs.OrganizationalUnit{}, nil
		},
	}
	ctx := testContext(t, mock)

	ou, err := ensureOU(ctx, "Security", "r-mock")
	require.NoError(t, err)

	assert.Equal(t, "ou-sec", ou.ID)
	assert.Zero(t, atomic.LoadInt32(&creates))
}

func TestEnsureOU_ThrottlingRetried(t *testing.T) {
	var lists int32
	mock := &orgs.MockClient{
		ListOUsFunc: func(context.Context, string) ([]orgs.OrganizationalUnit, error) {
			if atomic.AddInt32(&lists, 1) == 1 {
				return nil, &smithy.GenericAPIError{Code: "TooManyRequestsException"}
			}
			return nil, nil
		},
	}
	ctx := testContext(t, mock)

	ou, err := ensureOU(ctx, "Workloads", "r-mock")
	require.NoError(t, err)

	assert.Equal(t, "Workloads", ou.Name)
	assert.Equal(t, int32(2), atomic.LoadInt32(&lists))
}

func TestEnsureRoles_ExistingNotRecreated(t *testing.T) {
	var creates int32
	mock := &orgs.MockClient{
		CreateRoleFunc: func(context.Context, string, string, string) (orgs.Role, error) {
			atomic.AddInt32(&creates, 1)
			return orgs.Role{}, nil
		},
	}
	ctx := testContext(t, mock)

	require.NoError(t, ensureRoles(ctx))
	assert.Zero(t, atomic.LoadInt32(&creates), "existing roles must not be recreated")
	assert.Len(t, ctx.State.RoleArns, 3)
}

func TestEnsureRoles_CreatesMissing(t *testing.T) {
	created := make(map[string]string)
	mock := &orgs.MockClient{
		GetRoleFunc: func(_ context.Context, name string) (orgs.Role, error) {
			return orgs.Role{}, &smithy.GenericAPIError{Code: "NoSuchEntity"}
		},
		CreateRoleFunc: func(_ context.Context, name, _, trustService string) (orgs.Role, error) {
			created[name] = trustService
			return orgs.Role{Name: name, Arn: "arn:aws:iam::111111111111:role/" + name, TrustService: trustService}, nil
		},
	}
	ctx := testContext(t, mock)

	require.NoError(t, ensureRoles(ctx))

	assert.Equal(t, "controltower.amazonaws.com", created["AWSControlTowerAdmin"])
	assert.Equal(t, "cloudformation.amazonaws.com", created["AWSControlTowerStackSetRole"])
	assert.Equal(t, "cloudtrail.amazonaws.com", created["AWSControlTowerCloudTrailRole"])
}

func TestMoveToOU_AlreadyMovedIsNoError(t *testing.T) {
	mock := &orgs.MockClient{
		MoveAccountFunc: func(context.Context, string, string, string) error {
			return &smithy.GenericAPIError{Code: "AccountNotFoundException"}
		},
	}
	ctx := testContext(t, mock)

	err := moveToOU(ctx, orgs.Account{ID: "222222222222", Name: "log-archive"}, "r-mock", "ou-sec")
	assert.NoError(t, err)
}

func TestStageName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "prerequisites", NewStage().Name())
}
