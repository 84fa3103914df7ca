// Package policy implements hierarchical guardrail policy resolution.
//
// A tier is an ordered, cumulative bundle of guardrails. OU overrides replace
// the global tier for a subtree; account exceptions remove one named policy
// from one account. Resolution is a pure function of its inputs.
package policy

import (
	"fmt"
	"sort"
)

// Tier is an ordered guardrail tier.
type Tier int

const (
	// TierBasic applies minimal restrictions for development environments.
	TierBasic Tier = iota + 1
	// TierStandard applies balanced security for production workloads.
	TierStandard
	// TierStrict applies maximum security for compliance environments.
	TierStrict
)

// ID names one guardrail policy.
type ID string

// Guardrail policies by tier. Each tier is an increment over the previous
// one; the effective set for a tier is the union of all tiers up to it.
var tierIncrements = map[Tier][]ID{
	TierBasic:    {"deny_root_access", "require_mfa"},
	TierStandard: {"restrict_regions", "deny_leave_org"},
	TierStrict:   {"restrict_instance_types", "require_encryption"},
}

// ParseTier parses a tier name.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "basic":
		return TierBasic, nil
	case "standard":
		return TierStandard, nil
	case "strict":
		return TierStrict, nil
	default:
		return 0, fmt.Errorf("invalid tier %q: must be basic, standard, or strict", s)
	}
}

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierBasic:
		return "basic"
	case TierStandard:
		return "standard"
	case TierStrict:
		return "strict"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Valid reports whether t is a defined tier.
func (t Tier) Valid() bool {
	return t >= TierBasic && t <= TierStrict
}

// Policies returns the cumulative policy set for the tier: the union of all
// policies defined at basic through t.
func (t Tier) Policies() map[ID]struct{} {
	set := make(map[ID]struct{})
	for cur := TierBasic; cur <= t; cur++ {
		for _, id := range tierIncrements[cur] {
			set[id] = struct{}{}
		}
	}
	return set
}

// Defined reports whether id names a guardrail in any tier.
func Defined(id ID) bool {
	for _, ids := range tierIncrements {
		for _, known := range ids {
			if known == id {
				return true
			}
		}
	}
	return false
}

// Sorted returns the ids of a policy set in lexicographic order, for stable
// output.
func Sorted(set map[ID]struct{}) []ID {
	ids := make([]ID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
