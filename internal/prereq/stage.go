package prereq

import (
	"github.com/imamik/towerctl/internal/config"
	"github.com/imamik/towerctl/internal/errs"
	"github.com/imamik/towerctl/internal/platform/orgs"
	"github.com/imamik/towerctl/internal/provisioning"
	"github.com/imamik/towerctl/internal/util/retry"
)

// Stage ensures the organizational units, shared accounts, and control
// roles the landing zone requires.
type Stage struct{}

// NewStage creates the prerequisites stage.
func NewStage() *Stage { return &Stage{} }

// Name implements provisioning.Stage.
func (s *Stage) Name() string { return "prerequisites" }

// Run implements provisioning.Stage.
func (s *Stage) Run(ctx *provisioning.Context) error {
	rootID, err := getRootID(ctx)
	if err != nil {
		return err
	}
	ctx.State.RootID = rootID

	securityOU, err := ensureOU(ctx, ctx.Config.Organization.SecurityOUName, rootID)
	if err != nil {
		return err
	}
	ctx.State.SecurityOUID = securityOU.ID
	ctx.State.OUIDs[securityOU.Name] = securityOU.ID

	for _, spec := range ctx.Config.Organization.AdditionalOUs {
		ou, err := ensureOU(ctx, spec.Name, rootID)
		if err != nil {
			return err
		}
		ctx.State.OUIDs[ou.Name] = ou.ID
	}

	for _, shared := range []struct {
		spec config.AccountSpec
		role string
	}{
		{ctx.Config.Accounts.LogArchive, "log_archive"},
		{ctx.Config.Accounts.Audit, "audit"},
	} {
		account, err := ensureAccount(ctx, shared.spec)
		if err != nil {
			return err
		}
		if err := moveToOU(ctx, account, rootID, securityOU.ID); err != nil {
			return err
		}
		account.Role = shared.role
		ctx.State.Accounts[shared.spec.Name] = account
	}

	return ensureRoles(ctx)
}

func getRootID(ctx *provisioning.Context) (string, error) {
	var rootID string
	err := retry.WithExponentialBackoff(ctx, func() error {
		id, err := ctx.Orgs.GetRootID(ctx)
		if err != nil {
			if orgs.IsThrottling(err) {
				return err
			}
			return retry.Fatal(err)
		}
		rootID = id
		return nil
	},
		retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay),
	)
	if err != nil {
		return "", errs.New(errs.KindPrerequisite, "prerequisites", "resolve organization root", err)
	}
	return rootID, nil
}
