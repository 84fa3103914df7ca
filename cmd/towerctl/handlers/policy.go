package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/towerctl/internal/errs"
	"github.com/imamik/towerctl/internal/platform/orgs"
	"github.com/imamik/towerctl/internal/policy"
)

// PolicyResolve prints the effective guardrail set for one account.
//
// The account's OU placement is read from the organization, then the pure
// resolver computes the cumulative tier set minus the account's exceptions.
func PolicyResolve(ctx context.Context, configPath, policyPath, accountID string) error {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}
	policyState, err := loadPolicyState(policyPath)
	if err != nil {
		return err
	}

	orgsAPI, err := newOrgsClient(ctx, cfg.AWS.HomeRegion, cfg.AWS.Profile)
	if err != nil {
		return err
	}

	membership, err := lookupMembership(ctx, orgsAPI, accountID)
	if err != nil {
		return err
	}

	effective, err := policy.Resolve(accountID, membership,
		policyState.GlobalTier(), policyState.Overrides(), policyState.Exceptions())
	if err != nil {
		return err
	}

	var b strings.Builder
	if membership.OU != "" {
		fmt.Fprintf(&b, "Effective guardrails for %s (OU %s):\n", accountID, membership.OU)
	} else {
		fmt.Fprintf(&b, "Effective guardrails for %s (organization root):\n", accountID)
	}
	for _, id := range policy.Sorted(effective) {
		fmt.Fprintf(&b, "  - %s\n", id)
	}
	printOutput(b.String())
	return nil
}

// lookupMembership locates the account in the OU tree. The tree is one
// level deep: every OU sits directly under the organization root.
func lookupMembership(ctx context.Context, orgsAPI orgs.API, accountID string) (policy.Membership, error) {
	rootID, err := orgsAPI.GetRootID(ctx)
	if err != nil {
		return policy.Membership{}, err
	}
	ous, err := orgsAPI.ListOUs(ctx, rootID)
	if err != nil {
		return policy.Membership{}, err
	}

	membership := policy.Membership{Parents: make(map[string]string, len(ous))}
	found := false
	for _, ou := range ous {
		membership.Parents[ou.Name] = ""
		accounts, err := orgsAPI.ListAccountsForParent(ctx, ou.ID)
		if err != nil {
			return policy.Membership{}, err
		}
		for _, acct := range accounts {
			if acct.ID == accountID {
				membership.OU = ou.Name
				found = true
			}
		}
	}
	if found {
		return membership, nil
	}

	// Not under any OU: accept the account only if it sits at the root.
	rootAccounts, err := orgsAPI.ListAccountsForParent(ctx, rootID)
	if err != nil {
		return policy.Membership{}, err
	}
	for _, acct := range rootAccounts {
		if acct.ID == accountID {
			return membership, nil
		}
	}
	return policy.Membership{}, errs.Newf(errs.KindConfiguration, "", "resolve_policy",
		"account %s not found in the organization", accountID)
}
