package prereq

import (
	"github.com/imamik/towerctl/internal/errs"
	"github.com/imamik/towerctl/internal/platform/orgs"
	"github.com/imamik/towerctl/internal/provisioning"
	"github.com/imamik/towerctl/internal/util/retry"
)

// ensureOU returns the organizational unit with the given name under
// parentID, creating it if it does not exist.
func ensureOU(ctx *provisioning.Context, name, parentID string) (orgs.OrganizationalUnit, error) {
	var ou orgs.OrganizationalUnit
	err := retry.WithExponentialBackoff(ctx, func() error {
		existing, err := ctx.Orgs.ListOUs(ctx, parentID)
		if err != nil {
			if orgs.IsThrottling(err) {
				return err
			}
			return retry.Fatal(err)
		}
		for _, candidate := range existing {
			if candidate.Name == name {
				provisioning.LogResourceExists(ctx.Observer, "prerequisites", "organizational unit", name, candidate.ID)
				ou = candidate
				return nil
			}
		}

		provisioning.LogResourceCreating(ctx.Observer, "prerequisites", "organizational unit", name)
		created, err := ctx.Orgs.CreateOU(ctx, name, parentID)
		if err != nil {
			if orgs.IsThrottling(err) {
				return err
			}
			// Duplicate means another actor created it between the list
			// and the create; the next attempt will find it.
			if orgs.IsDuplicate(err) {
				return err
			}
			return retry.Fatal(err)
		}
		provisioning.LogResourceCreated(ctx.Observer, "prerequisites", "organizational unit", name, created.ID)
		ou = created
		return nil
	},
		retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay),
	)
	if err != nil {
		return orgs.OrganizationalUnit{}, errs.New(errs.KindProvisioning, "prerequisites", "ensure organizational unit "+name, err)
	}
	return ou, nil
}
