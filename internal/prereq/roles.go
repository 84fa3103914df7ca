package prereq

import (
	"github.com/imamik/towerctl/internal/errs"
	"github.com/imamik/towerctl/internal/platform/orgs"
	"github.com/imamik/towerctl/internal/provisioning"
	"github.com/imamik/towerctl/internal/util/retry"
)

// RoleSpec describes one IAM control role the landing zone requires in the
// management account.
type RoleSpec struct {
	Name         string
	Description  string
	TrustService string
}

// RequiredRoles returns the control roles the landing zone service assumes
// during setup and operation.
func RequiredRoles() []RoleSpec {
	return []RoleSpec{
		{
			Name:         "AWSControlTowerAdmin",
			Description:  "Service role for landing zone administration",
			TrustService: "controltower.amazonaws.com",
		},
		{
			Name:         "AWSControlTowerStackSetRole",
			Description:  "Role assumed to deploy stack sets into member accounts",
			TrustService: "cloudformation.amazonaws.com",
		},
		{
			Name:         "AWSControlTowerCloudTrailRole",
			Description:  "Role assumed to publish organization trail logs",
			TrustService: "cloudtrail.amazonaws.com",
		},
	}
}

// ensureRoles creates any missing control roles and records their ARNs in
// the deployment state.
func ensureRoles(ctx *provisioning.Context) error {
	for _, spec := range RequiredRoles() {
		role, err := ensureRole(ctx, spec)
		if err != nil {
			return err
		}
		ctx.State.RoleArns[role.Name] = role.Arn
	}
	return nil
}

func ensureRole(ctx *provisioning.Context, spec RoleSpec) (orgs.Role, error) {
	var role orgs.Role
	err := retry.WithExponentialBackoff(ctx, func() error {
		existing, err := ctx.Orgs.GetRole(ctx, spec.Name)
		if err == nil {
			provisioning.LogResourceExists(ctx.Observer, "prerequisites", "role", spec.Name, existing.Arn)
			role = existing
			return nil
		}
		if !orgs.IsNotFound(err) {
			if orgs.IsThrottling(err) {
				return err
			}
			return retry.Fatal(err)
		}

		provisioning.LogResourceCreating(ctx.Observer, "prerequisites", "role", spec.Name)
		created, err := ctx.Orgs.CreateRole(ctx, spec.Name, spec.Description, spec.TrustService)
		if err != nil {
			if orgs.IsThrottling(err) {
				return err
			}
			return retry.Fatal(err)
		}
		provisioning.LogResourceCreated(ctx.Observer, "prerequisites", "role", spec.Name, created.Arn)
		role = created
		return nil
	},
		retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay),
	)
	if err != nil {
		return orgs.Role{}, errs.New(errs.KindPrerequisite, "prerequisites", "ensure role "+spec.Name, err)
	}
	return role, nil
}
