package deploy

import (
	"sort"
	"strings"

	"github.com/imamik/towerctl/internal/errs"
	"github.com/imamik/towerctl/internal/platform/orgs"
	"github.com/imamik/towerctl/internal/policy"
	"github.com/imamik/towerctl/internal/provisioning"
	"github.com/imamik/towerctl/internal/util/retry"
)

// applyPolicies ensures every guardrail of each OU's effective tier exists
// as a service control policy and is attached to the OU. Attachment
// failures are collected, not short-circuited, so one broken guardrail
// does not block the rest; the stage still fails if any were broken.
func applyPolicies(ctx *provisioning.Context) error {
	existing, err := listPolicies(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]orgs.PolicySummary, len(existing))
	for _, p := range existing {
		byName[p.Name] = p
	}

	overrides := ctx.Policy.Overrides()
	globalTier := ctx.Policy.GlobalTier()

	ouNames := make([]string, 0, len(ctx.State.OUIDs))
	for name := range ctx.State.OUIDs {
		ouNames = append(ouNames, name)
	}
	sort.Strings(ouNames)

	total := 0
	for _, ouName := range ouNames {
		tier := globalTier
		if override, ok := overrides[ouName]; ok {
			tier = override
		}
		total += len(tier.Policies())
	}

	var failures []string
	done := 0
	for _, ouName := range ouNames {
		tier := globalTier
		if override, ok := overrides[ouName]; ok {
			tier = override
		}

		for _, id := range policy.Sorted(tier.Policies()) {
			name := policy.AttachmentName(tier, id)
			err := applyPolicy(ctx, byName, tier, id, ctx.State.OUIDs[ouName])
			done++
			ctx.Observer.Progress("landing_zone", done, total)
			if err != nil {
				provisioning.LogResourceFailed(ctx.Observer, "landing_zone", "policy attachment", name+" -> "+ouName, err)
				failures = append(failures, name+" -> "+ouName)
				continue
			}
			ctx.State.AttachedPolicies = append(ctx.State.AttachedPolicies, name)
		}
	}

	if len(failures) > 0 {
		return errs.Newf(errs.KindDeployment, "landing_zone", "attach policies",
			"%d policy attachments failed: %s", len(failures), strings.Join(failures, ", "))
	}
	return nil
}

// applyPolicy creates or updates one guardrail policy and attaches it to
// the target OU.
func applyPolicy(ctx *provisioning.Context, byName map[string]orgs.PolicySummary, tier policy.Tier, id policy.ID, targetID string) error {
	doc, err := policy.DocumentFor(id)
	if err != nil {
		return errs.New(errs.KindPolicy, "landing_zone", "resolve policy document", err)
	}

	name := policy.AttachmentName(tier, id)
	policyID := ""
	if summary, ok := byName[name]; ok {
		policyID = summary.ID
	}

	return retry.WithExponentialBackoff(ctx, func() error {
		if policyID == "" {
			created, err := ctx.Orgs.CreatePolicy(ctx, name, doc.Description, doc.Content)
			if err != nil {
				if orgs.IsThrottling(err) {
					return err
				}
				if !orgs.IsDuplicate(err) {
					return retry.Fatal(err)
				}
				// Created by an earlier partial run after our listing.
				refreshed, listErr := ctx.Orgs.ListPolicies(ctx)
				if listErr != nil {
					return listErr
				}
				for _, p := range refreshed {
					if p.Name == name {
						policyID = p.ID
						byName[name] = p
						break
					}
				}
			} else {
				policyID = created
				byName[name] = orgs.PolicySummary{ID: created, Name: name}
			}
		} else if err := ctx.Orgs.UpdatePolicy(ctx, policyID, name, doc.Description, doc.Content); err != nil {
			if orgs.IsThrottling(err) {
				return err
			}
			return retry.Fatal(err)
		}

		if err := ctx.Orgs.AttachPolicy(ctx, policyID, targetID); err != nil {
			if orgs.IsThrottling(err) {
				return err
			}
			return retry.Fatal(err)
		}
		return nil
	},
		retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay),
	)
}

func listPolicies(ctx *provisioning.Context) ([]orgs.PolicySummary, error) {
	var policies []orgs.PolicySummary
	err := retry.WithExponentialBackoff(ctx, func() error {
		listed, err := ctx.Orgs.ListPolicies(ctx)
		if err != nil {
			if orgs.IsThrottling(err) {
				return err
			}
			return retry.Fatal(err)
		}
		policies = listed
		return nil
	},
		retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay),
	)
	if err != nil {
		return nil, errs.New(errs.KindDeployment, "landing_zone", "list policies", err)
	}
	return policies, nil
}
