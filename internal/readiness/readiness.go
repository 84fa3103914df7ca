// Package readiness runs the pre-flight checks a deployment depends on.
// The checks are read-only and independent, so they run concurrently; one
// check failing never prevents another from running, and the report lists
// every check in a fixed order regardless of completion order.
package readiness

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/towerctl/internal/config"
	"github.com/imamik/towerctl/internal/errs"
	"github.com/imamik/towerctl/internal/platform/landingzone"
	"github.com/imamik/towerctl/internal/platform/orgs"
	"github.com/imamik/towerctl/internal/prereq"
	"github.com/imamik/towerctl/internal/util/async"
)

// Status is the outcome of one readiness check.
type Status string

const (
	// StatusPass means the check found nothing blocking.
	StatusPass Status = "pass"
	// StatusWarn means the check found something the deployment will fix
	// or tolerate.
	StatusWarn Status = "warn"
	// StatusFail means the deployment cannot proceed until the finding is
	// remediated.
	StatusFail Status = "fail"
)

// Check is the result of one readiness probe.
type Check struct {
	Name        string
	Status      Status
	Detail      string
	Remediation string
}

// Report aggregates all readiness checks for one run.
type Report struct {
	Checks []Check
}

// Ready reports whether the deployment may proceed: true iff no check
// failed. Warnings do not block.
func (r *Report) Ready() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return false
		}
	}
	return true
}

// Failures returns the failing checks.
func (r *Report) Failures() []Check {
	var failed []Check
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			failed = append(failed, c)
		}
	}
	return failed
}

// Runner executes the readiness checks against the live organization.
type Runner struct {
	Orgs        orgs.API
	LandingZone landingzone.API
	Concurrency int
}

// NewRunner creates a readiness runner.
func NewRunner(orgsAPI orgs.API, lzAPI landingzone.API, concurrency int) *Runner {
	return &Runner{Orgs: orgsAPI, LandingZone: lzAPI, Concurrency: concurrency}
}

// Run executes every check and returns the aggregated report. The report
// order matches the check definition order, not completion order.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) (*Report, error) {
	probes := []struct {
		name string
		fn   func(context.Context, *config.Config) Check
	}{
		{"credentials", r.checkCredentials},
		{"organization_features", r.checkOrganizationFeatures},
		{"control_roles", r.checkControlRoles},
		{"landing_zone_conflict", r.checkLandingZoneConflict},
		{"account_email_conflicts", r.checkAccountEmails},
	}

	results := make([]Check, len(probes))
	tasks := make([]async.Task, len(probes))
	for i, probe := range probes {
		tasks[i] = async.Task{
			Name: probe.name,
			Func: func(ctx context.Context) error {
				results[i] = probe.fn(ctx, cfg)
				return nil
			},
		}
	}

	if err := async.RunParallel(ctx, tasks, r.Concurrency); err != nil {
		return nil, errs.New(errs.KindValidation, "readiness", "run checks", err)
	}
	return &Report{Checks: results}, nil
}

// checkCredentials verifies the configured credentials resolve to a usable
// management account identity.
func (r *Runner) checkCredentials(ctx context.Context, _ *config.Config) Check {
	accountID, err := r.Orgs.CallerAccountID(ctx)
	if err != nil {
		return Check{
			Name:        "credentials",
			Status:      StatusFail,
			Detail:      fmt.Sprintf("could not resolve caller identity: %v", err),
			Remediation: "verify AWS credentials for the management account are configured",
		}
	}
	return Check{
		Name:   "credentials",
		Status: StatusPass,
		Detail: "management account " + accountID,
	}
}

// checkOrganizationFeatures verifies the organization has all features
// enabled, not consolidated billing only.
func (r *Runner) checkOrganizationFeatures(ctx context.Context, _ *config.Config) Check {
	featureSet, err := r.Orgs.DescribeOrganization(ctx)
	if err != nil {
		return Check{
			Name:        "organization_features",
			Status:      StatusFail,
			Detail:      fmt.Sprintf("could not describe organization: %v", err),
			Remediation: "create an organization in the management account first",
		}
	}
	if featureSet != "ALL" {
		return Check{
			Name:        "organization_features",
			Status:      StatusFail,
			Detail:      "organization feature set is " + featureSet,
			Remediation: "enable all features on the organization before deploying",
		}
	}
	return Check{Name: "organization_features", Status: StatusPass, Detail: "all features enabled"}
}

// checkControlRoles looks for the required control roles. Missing roles
// only warn, because the prerequisites stage creates them.
func (r *Runner) checkControlRoles(ctx context.Context, _ *config.Config) Check {
	var missing []string
	for _, spec := range prereq.RequiredRoles() {
		if _, err := r.Orgs.GetRole(ctx, spec.Name); err != nil {
			if orgs.IsNotFound(err) {
				missing = append(missing, spec.Name)
				continue
			}
			return Check{
				Name:        "control_roles",
				Status:      StatusFail,
				Detail:      fmt.Sprintf("could not read role %s: %v", spec.Name, err),
				Remediation: "verify the credentials can read IAM roles",
			}
		}
	}
	if len(missing) > 0 {
		return Check{
			Name:        "control_roles",
			Status:      StatusWarn,
			Detail:      fmt.Sprintf("%d control roles missing, deployment will create them", len(missing)),
			Remediation: "no action needed",
		}
	}
	return Check{Name: "control_roles", Status: StatusPass, Detail: "all control roles present"}
}

// checkLandingZoneConflict fails when an operation is already running and
// warns when a landing zone exists that the deployment will update.
func (r *Runner) checkLandingZoneConflict(ctx context.Context, _ *config.Config) Check {
	id, err := r.LandingZone.FindLandingZone(ctx)
	if err != nil {
		return Check{
			Name:        "landing_zone_conflict",
			Status:      StatusFail,
			Detail:      fmt.Sprintf("could not list landing zones: %v", err),
			Remediation: "verify the credentials can call the landing zone service",
		}
	}
	if id == "" {
		return Check{Name: "landing_zone_conflict", Status: StatusPass, Detail: "no landing zone exists yet"}
	}

	details, err := r.LandingZone.GetLandingZone(ctx, id)
	if err != nil {
		return Check{
			Name:        "landing_zone_conflict",
			Status:      StatusFail,
			Detail:      fmt.Sprintf("could not read landing zone %s: %v", id, err),
			Remediation: "verify the credentials can call the landing zone service",
		}
	}
	switch details.State {
	case landingzone.StateInProgress:
		return Check{
			Name:        "landing_zone_conflict",
			Status:      StatusFail,
			Detail:      "a landing zone operation is already in progress",
			Remediation: "wait for the running operation to finish before deploying",
		}
	case landingzone.StateDrifted:
		return Check{
			Name:   "landing_zone_conflict",
			Status: StatusWarn,
			Detail: "landing zone has drifted, deployment will update it",
		}
	default:
		return Check{
			Name:   "landing_zone_conflict",
			Status: StatusWarn,
			Detail: fmt.Sprintf("landing zone %s exists (%s), deployment will update it", id, details.State),
		}
	}
}

// checkAccountEmails verifies that a configured shared-account email is not
// already taken by an account with a different name, which would make the
// adopt-by-email step pick up the wrong account.
func (r *Runner) checkAccountEmails(ctx context.Context, cfg *config.Config) Check {
	accounts, err := r.Orgs.ListAccounts(ctx)
	if err != nil {
		return Check{
			Name:        "account_email_conflicts",
			Status:      StatusFail,
			Detail:      fmt.Sprintf("could not list accounts: %v", err),
			Remediation: "verify the credentials can list organization accounts",
		}
	}

	byEmail := make(map[string]orgs.Account, len(accounts))
	for _, a := range accounts {
		byEmail[normalizeEmail(a.Email)] = a
	}

	specs := []config.AccountSpec{cfg.Accounts.LogArchive, cfg.Accounts.Audit}
	for _, spec := range specs {
		existing, ok := byEmail[normalizeEmail(spec.Email)]
		if !ok {
			continue
		}
		if existing.Name != spec.Name {
			return Check{
				Name:   "account_email_conflicts",
				Status: StatusWarn,
				Detail: fmt.Sprintf("email for %q is used by existing account %q, it will be adopted",
					spec.Name, existing.Name),
			}
		}
	}
	return Check{Name: "account_email_conflicts", Status: StatusPass, Detail: "no conflicting accounts"}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
