package prereq

import (
	"fmt"
	"strings"
	"time"

	"github.com/imamik/towerctl/internal/config"
	"github.com/imamik/towerctl/internal/errs"
	"github.com/imamik/towerctl/internal/platform/orgs"
	"github.com/imamik/towerctl/internal/provisioning"
	"github.com/imamik/towerctl/internal/util/retry"
)

// ensureAccount returns the account matching the spec, creating it if no
// account uses the spec's email. Matching is by email, so a re-run after a
// partial failure adopts the account created by the earlier run instead of
// provisioning a second one.
func ensureAccount(ctx *provisioning.Context, spec config.AccountSpec) (orgs.Account, error) {
	existing, err := findAccountByEmail(ctx, spec.Email)
	if err != nil {
		return orgs.Account{}, err
	}
	if existing != nil {
		provisioning.LogResourceExists(ctx.Observer, "prerequisites", "account", existing.Name, existing.ID)
		return *existing, nil
	}

	provisioning.LogResourceCreating(ctx.Observer, "prerequisites", "account", spec.Name)
	handle, err := startCreateAccount(ctx, spec)
	if err != nil {
		return orgs.Account{}, err
	}

	account, err := waitForAccount(ctx, spec, handle)
	if err != nil {
		return account, err
	}
	provisioning.LogResourceCreated(ctx.Observer, "prerequisites", "account", account.Name, account.ID)
	return account, nil
}

func findAccountByEmail(ctx *provisioning.Context, email string) (*orgs.Account, error) {
	var accounts []orgs.Account
	err := retry.WithExponentialBackoff(ctx, func() error {
		listed, err := ctx.Orgs.ListAccounts(ctx)
		if err != nil {
			if orgs.IsThrottling(err) {
				return err
			}
			return retry.Fatal(err)
		}
		accounts = listed
		return nil
	},
		retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay),
	)
	if err != nil {
		return nil, errs.New(errs.KindProvisioning, "prerequisites", "list accounts", err)
	}

	for i := range accounts {
		if strings.EqualFold(accounts[i].Email, email) {
			return &accounts[i], nil
		}
	}
	return nil, nil
}

func startCreateAccount(ctx *provisioning.Context, spec config.AccountSpec) (orgs.CreateAccountHandle, error) {
	var handle orgs.CreateAccountHandle
	err := retry.WithExponentialBackoff(ctx, func() error {
		h, err := ctx.Orgs.CreateAccount(ctx, spec.Name, spec.Email)
		if err != nil {
			if orgs.IsThrottling(err) {
				return err
			}
			// Duplicate and constraint errors are structural; retrying
			// would only create more noise.
			return retry.Fatal(err)
		}
		handle = h
		return nil
	},
		retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay),
	)
	if err != nil {
		classified := errs.New(errs.KindProvisioning, "prerequisites", "create account "+spec.Name, err)
		if orgs.IsConstraintViolation(err) {
			classified.WithRemedy("the email may already be in use outside this organization, or an account quota was reached")
		}
		return orgs.CreateAccountHandle{}, classified
	}
	return handle, nil
}

// waitForAccount polls the asynchronous creation until it reaches a
// terminal state or the bounded wait elapses. On timeout the account is
// reported indeterminate; the caller must not blindly retry the create.
func waitForAccount(ctx *provisioning.Context, spec config.AccountSpec, handle orgs.CreateAccountHandle) (orgs.Account, error) {
	deadline := time.Now().Add(ctx.Timeouts.AccountMaxWait)
	ticker := time.NewTicker(ctx.Timeouts.AccountPollInterval)
	defer ticker.Stop()

	for {
		result, err := ctx.Orgs.DescribeCreateAccount(ctx, handle)
		switch {
		case err != nil:
			// Transient poll errors do not fail the wait; the next tick
			// asks again. Only a definitive provider rejection ends it.
			if !orgs.IsTransient(err) {
				return orgs.Account{}, errs.New(errs.KindProvisioning, "prerequisites",
					"poll account creation "+spec.Name, err)
			}
		case result.State == orgs.AccountActive:
			return orgs.Account{
				ID:     result.AccountID,
				Name:   spec.Name,
				Email:  spec.Email,
				Status: orgs.AccountActive,
			}, nil
		case result.State == orgs.AccountFailed:
			return orgs.Account{Name: spec.Name, Email: spec.Email, Status: orgs.AccountFailed},
				errs.Newf(errs.KindProvisioning, "prerequisites", "create account "+spec.Name,
					"account creation failed: %s", result.FailureReason)
		}

		if time.Now().After(deadline) {
			indeterminate := orgs.Account{Name: spec.Name, Email: spec.Email, Status: orgs.AccountIndeterminate}
			return indeterminate, errs.Newf(errs.KindProvisioning, "prerequisites",
				"create account "+spec.Name,
				"creation still pending after %v", ctx.Timeouts.AccountMaxWait).
				WithRemedy("inspect the pending request in the organization console before re-running")
		}

		select {
		case <-ctx.Done():
			return orgs.Account{}, fmt.Errorf("account creation wait interrupted: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// moveToOU places the account under the destination OU. Accounts adopted
// from an earlier run may already be there, which is not an error.
func moveToOU(ctx *provisioning.Context, account orgs.Account, rootID, destOUID string) error {
	err := retry.WithExponentialBackoff(ctx, func() error {
		if err := ctx.Orgs.MoveAccount(ctx, account.ID, rootID, destOUID); err != nil {
			if orgs.IsThrottling(err) {
				return err
			}
			// Not found on the source parent means the account was moved
			// already.
			if orgs.IsNotFound(err) {
				return nil
			}
			return retry.Fatal(err)
		}
		return nil
	},
		retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay),
	)
	if err != nil {
		return errs.New(errs.KindProvisioning, "prerequisites", "move account "+account.Name, err)
	}
	return nil
}
