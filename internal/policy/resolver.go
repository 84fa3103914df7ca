package policy

import (
	"github.com/imamik/towerctl/internal/errs"
)

// Exception removes one named policy from one account's effective set,
// regardless of tier.
type Exception struct {
	AccountID string
	PolicyID  ID
	Reason    string
}

// Membership places an account in the OU tree: the OU it belongs to plus the
// parent chain up to the root. Parents maps child OU name to parent OU name;
// the root OU has no entry.
type Membership struct {
	OU      string
	Parents map[string]string
}

// Resolve computes an account's effective guardrail set.
//
// The effective tier is determined by walking from the account's OU upward
// toward the root; the deepest OU with an override wins, falling back to
// globalTier. The cumulative policy set for that tier is then reduced by the
// account's exceptions. Overrides and exceptions referencing undefined OUs or
// policies are rejected.
func Resolve(accountID string, membership Membership, globalTier Tier, overrides map[string]Tier, exceptions []Exception) (map[ID]struct{}, error) {
	if !globalTier.Valid() {
		return nil, errs.Newf(errs.KindPolicy, "", "resolve", "undefined global tier %d", int(globalTier))
	}

	if err := validateOverrides(membership, overrides); err != nil {
		return nil, err
	}

	effective := effectiveTier(membership, globalTier, overrides)
	set := effective.Policies()

	for _, exc := range exceptions {
		if !Defined(exc.PolicyID) {
			return nil, errs.Newf(errs.KindPolicy, "", "resolve",
				"exception for account %s references undefined policy %q", exc.AccountID, exc.PolicyID)
		}
		if exc.AccountID == accountID {
			delete(set, exc.PolicyID)
		}
	}

	return set, nil
}

// effectiveTier walks from the account's OU toward the root and returns the
// first override found, or the global tier.
func effectiveTier(membership Membership, globalTier Tier, overrides map[string]Tier) Tier {
	for ou := membership.OU; ou != ""; ou = membership.Parents[ou] {
		if tier, ok := overrides[ou]; ok {
			return tier
		}
	}
	return globalTier
}

// validateOverrides rejects overrides naming unknown OUs or invalid tiers.
func validateOverrides(membership Membership, overrides map[string]Tier) error {
	known := make(map[string]bool, len(membership.Parents)+1)
	if membership.OU != "" {
		known[membership.OU] = true
	}
	for child, parent := range membership.Parents {
		known[child] = true
		if parent != "" {
			known[parent] = true
		}
	}

	for ou, tier := range overrides {
		if !tier.Valid() {
			return errs.Newf(errs.KindPolicy, "", "resolve",
				"override for OU %q references undefined tier %d", ou, int(tier))
		}
		if !known[ou] {
			return errs.Newf(errs.KindConfiguration, "", "resolve",
				"override references unknown OU %q", ou)
		}
	}
	return nil
}
