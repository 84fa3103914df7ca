package orgs

import "context"

// MockClient is a mock implementation of API.
type MockClient struct {
	DescribeOrganizationFunc           func(ctx context.Context) (string, error)
	GetRootIDFunc                      func(ctx context.Context) (string, error)
	ListOUsFunc                        func(ctx context.Context, parentID string) ([]OrganizationalUnit, error)
	CreateOUFunc                       func(ctx context.Context, name, parentID string) (OrganizationalUnit, error)
	ListAccountsFunc                   func(ctx context.Context) ([]Account, error)
	ListAccountsForParentFunc          func(ctx context.Context, parentID string) ([]Account, error)
	CreateAccountFunc                  func(ctx context.Context, name, email string) (CreateAccountHandle, error)
	DescribeCreateAccountFunc          func(ctx context.Context, handle CreateAccountHandle) (CreateAccountResult, error)
	MoveAccountFunc                    func(ctx context.Context, accountID, sourceParentID, destParentID string) error
	ListPoliciesFunc                   func(ctx context.Context) ([]PolicySummary, error)
	CreatePolicyFunc                   func(ctx context.Context, name, description, content string) (string, error)
	UpdatePolicyFunc                   func(ctx context.Context, policyID, name, description, content string) error
	AttachPolicyFunc                   func(ctx context.Context, policyID, targetID string) error
	GetRoleFunc                        func(ctx context.Context, name string) (Role, error)
	CreateRoleFunc                     func(ctx context.Context, name, description, trustService string) (Role, error)
	EnableServiceAccessFunc            func(ctx context.Context, servicePrincipal string) error
	RegisterDelegatedAdministratorFunc func(ctx context.Context, accountID, servicePrincipal string) error
	CallerAccountIDFunc                func(ctx context.Context) (string, error)
}

// Ensure interface compliance
var _ API = (*MockClient)(nil)

// DescribeOrganization mocks the organization feature-set lookup.
func (m *MockClient) DescribeOrganization(ctx context.Context) (string, error) {
	if m.DescribeOrganizationFunc != nil {
		return m.DescribeOrganizationFunc(ctx)
	}
	return "ALL", nil
}

// GetRootID mocks the root lookup.
func (m *MockClient) GetRootID(ctx context.Context) (string, error) {
	if m.GetRootIDFunc != nil {
		return m.GetRootIDFunc(ctx)
	}
	return "r-mock", nil
}

// ListOUs mocks listing child organizational units.
func (m *MockClient) ListOUs(ctx context.Context, parentID string) ([]OrganizationalUnit, error) {
	if m.ListOUsFunc != nil {
		return m.ListOUsFunc(ctx, parentID)
	}
	return nil, nil
}

// CreateOU mocks organizational unit creation.
func (m *MockClient) CreateOU(ctx context.Context, name, parentID string) (OrganizationalUnit, error) {
	if m.CreateOUFunc != nil {
		return m.CreateOUFunc(ctx, name, parentID)
	}
	return OrganizationalUnit{ID: "ou-mock", Name: name, ParentID: parentID}, nil
}

// ListAccounts mocks listing member accounts.
func (m *MockClient) ListAccounts(ctx context.Context) ([]Account, error) {
	if m.ListAccountsFunc != nil {
		return m.ListAccountsFunc(ctx)
	}
	return nil, nil
}

// ListAccountsForParent mocks the per-parent account listing.
func (m *MockClient) ListAccountsForParent(ctx context.Context, parentID string) ([]Account, error) {
	if m.ListAccountsForParentFunc != nil {
		return m.ListAccountsForParentFunc(ctx, parentID)
	}
	return nil, nil
}

// CreateAccount mocks starting an account creation.
func (m *MockClient) CreateAccount(ctx context.Context, name, email string) (CreateAccountHandle, error) {
	if m.CreateAccountFunc != nil {
		return m.CreateAccountFunc(ctx, name, email)
	}
	return CreateAccountHandle{RequestID: "car-mock"}, nil
}

// DescribeCreateAccount mocks polling an account creation.
func (m *MockClient) DescribeCreateAccount(ctx context.Context, handle CreateAccountHandle) (CreateAccountResult, error) {
	if m.DescribeCreateAccountFunc != nil {
		return m.DescribeCreateAccountFunc(ctx, handle)
	}
	return CreateAccountResult{State: AccountActive, AccountID: "111111111111"}, nil
}

// MoveAccount mocks moving an account between parents.
func (m *MockClient) MoveAccount(ctx context.Context, accountID, sourceParentID, destParentID string) error {
	if m.MoveAccountFunc != nil {
		return m.MoveAccountFunc(ctx, accountID, sourceParentID, destParentID)
	}
	return nil
}

// ListPolicies mocks listing service control policies.
func (m *MockClient) ListPolicies(ctx context.Context) ([]PolicySummary, error) {
	if m.ListPoliciesFunc != nil {
		return m.ListPoliciesFunc(ctx)
	}
	return nil, nil
}

// CreatePolicy mocks policy creation.
func (m *MockClient) CreatePolicy(ctx context.Context, name, description, content string) (string, error) {
	if m.CreatePolicyFunc != nil {
		return m.CreatePolicyFunc(ctx, name, description, content)
	}
	return "p-mock", nil
}

// UpdatePolicy mocks policy updates.
func (m *MockClient) UpdatePolicy(ctx context.Context, policyID, name, description, content string) error {
	if m.UpdatePolicyFunc != nil {
		return m.UpdatePolicyFunc(ctx, policyID, name, description, content)
	}
	return nil
}

// AttachPolicy mocks policy attachment.
func (m *MockClient) AttachPolicy(ctx context.Context, policyID, targetID string) error {
	if m.AttachPolicyFunc != nil {
		return m.AttachPolicyFunc(ctx, policyID, targetID)
	}
	return nil
}

// GetRole mocks the role lookup.
func (m *MockClient) GetRole(ctx context.Context, name string) (Role, error) {
	if m.GetRoleFunc != nil {
		return m.GetRoleFunc(ctx, name)
	}
	return Role{Name: name, Arn: "arn:aws:iam::111111111111:role/" + name}, nil
}

// CreateRole mocks role creation.
func (m *MockClient) CreateRole(ctx context.Context, name, description, trustService string) (Role, error) {
	if m.CreateRoleFunc != nil {
		return m.CreateRoleFunc(ctx, name, description, trustService)
	}
	return Role{Name: name, Arn: "arn:aws:iam::111111111111:role/" + name, TrustService: trustService}, nil
}

// EnableServiceAccess mocks enabling trusted service access.
func (m *MockClient) EnableServiceAccess(ctx context.Context, servicePrincipal string) error {
	if m.EnableServiceAccessFunc != nil {
		return m.EnableServiceAccessFunc(ctx, servicePrincipal)
	}
	return nil
}

// RegisterDelegatedAdministrator mocks delegated admin registration.
func (m *MockClient) RegisterDelegatedAdministrator(ctx context.Context, accountID, servicePrincipal string) error {
	if m.RegisterDelegatedAdministratorFunc != nil {
		return m.RegisterDelegatedAdministratorFunc(ctx, accountID, servicePrincipal)
	}
	return nil
}

// CallerAccountID mocks the identity lookup.
func (m *MockClient) CallerAccountID(ctx context.Context) (string, error) {
	if m.CallerAccountIDFunc != nil {
		return m.CallerAccountIDFunc(ctx)
	}
	return "111111111111", nil
}
