package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/imamik/towerctl/internal/errs"
	"github.com/imamik/towerctl/internal/policy"
)

// DefaultPolicyStateFile is where the guardrail policy state lives when no
// path is given. It is deliberately separate from the deployment config so
// tier changes do not touch the main file.
const DefaultPolicyStateFile = "policy-state.yaml"

// PolicyState holds the persisted guardrail policy configuration: the global
// tier, per-OU overrides, and per-account exceptions.
type PolicyState struct {
	Tier              string            `yaml:"security_tier"`
	OUOverrides       map[string]string `yaml:"ou_overrides,omitempty"`
	AccountExceptions []ExceptionSpec   `yaml:"account_exceptions,omitempty"`
}

// ExceptionSpec removes one policy from one account.
type ExceptionSpec struct {
	AccountID string `yaml:"account_id"`
	PolicyID  string `yaml:"policy_id"`
	Reason    string `yaml:"reason,omitempty"`
}

// DefaultPolicyState returns the state written when no file exists yet.
func DefaultPolicyState() *PolicyState {
	return &PolicyState{Tier: "standard"}
}

// LoadPolicyState reads policy state from path, returning the default state
// if the file does not exist.
func LoadPolicyState(path string) (*PolicyState, error) {
	if path == "" {
		path = DefaultPolicyStateFile
	}

	// #nosec G304
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultPolicyState(), nil
	}
	if err != nil {
		return nil, errs.New(errs.KindConfiguration, "", "load_policy_state",
			fmt.Errorf("failed to read policy state: %w", err))
	}

	var state PolicyState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, errs.New(errs.KindConfiguration, "", "load_policy_state",
			fmt.Errorf("failed to unmarshal policy state: %w", err))
	}
	if state.Tier == "" {
		state.Tier = "standard"
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}
	return &state, nil
}

// Save writes the policy state to path.
func (s *PolicyState) Save(path string) error {
	if path == "" {
		path = DefaultPolicyStateFile
	}
	if err := s.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal policy state: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create policy state directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write policy state: %w", err)
	}
	return nil
}

// Validate rejects undefined tiers and policy ids.
func (s *PolicyState) Validate() error {
	if _, err := policy.ParseTier(s.Tier); err != nil {
		return errs.New(errs.KindPolicy, "", "validate_policy_state", err)
	}
	for ou, tier := range s.OUOverrides {
		if _, err := policy.ParseTier(tier); err != nil {
			return errs.Newf(errs.KindPolicy, "", "validate_policy_state",
				"override for OU %q: %v", ou, err)
		}
	}
	for _, exc := range s.AccountExceptions {
		if exc.AccountID == "" {
			return errs.Newf(errs.KindConfiguration, "", "validate_policy_state",
				"account exception missing account_id")
		}
		if !policy.Defined(policy.ID(exc.PolicyID)) {
			return errs.Newf(errs.KindPolicy, "", "validate_policy_state",
				"exception for account %s references undefined policy %q", exc.AccountID, exc.PolicyID)
		}
	}
	return nil
}

// GlobalTier returns the parsed global tier.
func (s *PolicyState) GlobalTier() policy.Tier {
	tier, err := policy.ParseTier(s.Tier)
	if err != nil {
		return policy.TierStandard
	}
	return tier
}

// Overrides returns the parsed OU override map.
func (s *PolicyState) Overrides() map[string]policy.Tier {
	if len(s.OUOverrides) == 0 {
		return nil
	}
	out := make(map[string]policy.Tier, len(s.OUOverrides))
	for ou, tier := range s.OUOverrides {
		if parsed, err := policy.ParseTier(tier); err == nil {
			out[ou] = parsed
		}
	}
	return out
}

// Exceptions returns the parsed exception list.
func (s *PolicyState) Exceptions() []policy.Exception {
	out := make([]policy.Exception, 0, len(s.AccountExceptions))
	for _, exc := range s.AccountExceptions {
		out = append(out, policy.Exception{
			AccountID: exc.AccountID,
			PolicyID:  policy.ID(exc.PolicyID),
			Reason:    exc.Reason,
		})
	}
	return out
}
