package provisioning

import "github.com/imamik/towerctl/internal/platform/orgs"

// State holds the shared results of deployment stages.
// It is progressively populated as each stage completes and is passed
// to subsequent stages that need earlier results.
type State struct {
	// Organization results (populated by the prerequisites stage)
	RootID       string
	SecurityOUID string
	OUIDs        map[string]string       // ouName -> ouID
	Accounts     map[string]orgs.Account // accountName -> account
	RoleArns     map[string]string       // roleName -> ARN

	// Landing zone results (populated by the landing zone stage)
	LandingZoneID    string
	OperationID      string
	AttachedPolicies []string // attachment names, e.g. "Tower-Standard-require_mfa"

	// Baseline results (populated by the security baseline stage)
	ServiceResults []ServiceResult

	// Validation results (populated by the validation stage)
	ValidationFindings []string
}

// ServiceResult records the outcome of enabling one security service.
type ServiceResult struct {
	Service   string
	Delegated bool
	Enabled   bool
	Reason    string
}

// NewState creates an empty deployment state.
func NewState() *State {
	return &State{
		OUIDs:    make(map[string]string),
		Accounts: make(map[string]orgs.Account),
		RoleArns: make(map[string]string),
	}
}

// AccountID returns the id of the named account, or "" if the
// prerequisites stage has not resolved it yet.
func (s *State) AccountID(name string) string {
	if acct, ok := s.Accounts[name]; ok {
		return acct.ID
	}
	return ""
}
