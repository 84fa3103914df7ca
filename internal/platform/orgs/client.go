// Package orgs provides a wrapper around AWS Organizations and IAM.
package orgs

import (
	"context"
)

// AccountStatus is the lifecycle status of a member account.
type AccountStatus string

const (
	// AccountAbsent means no account exists for the spec.
	AccountAbsent AccountStatus = "absent"
	// AccountCreating means an asynchronous create is still running.
	AccountCreating AccountStatus = "creating"
	// AccountActive means the account exists and is usable.
	AccountActive AccountStatus = "active"
	// AccountFailed means the provider reported a terminal creation failure.
	AccountFailed AccountStatus = "failed"
	// AccountIndeterminate means the creation outcome is unknown after the
	// bounded wait elapsed; the account needs manual follow-up, not a blind
	// retry.
	AccountIndeterminate AccountStatus = "indeterminate"
)

// Account is a member account of the organization.
type Account struct {
	ID     string
	Name   string
	Email  string
	Role   string // "log_archive", "audit", or other
	Status AccountStatus
}

// OrganizationalUnit is a node of the account-grouping tree.
type OrganizationalUnit struct {
	ID       string
	Name     string
	ParentID string
}

// CreateAccountHandle identifies a pending asynchronous account creation.
type CreateAccountHandle struct {
	RequestID string
}

// CreateAccountResult is the polled status of a pending creation.
type CreateAccountResult struct {
	State         AccountStatus // creating, active, or failed
	AccountID     string
	FailureReason string
}

// PolicySummary describes one service control policy.
type PolicySummary struct {
	ID         string
	Name       string
	AWSManaged bool
}

// Role is an IAM control role.
type Role struct {
	Name         string
	Arn          string
	TrustService string
}

// OrganizationService provides read access to the organization and OU tree.
type OrganizationService interface {
	// DescribeOrganization returns the feature set, e.g. "ALL" or
	// "CONSOLIDATED_BILLING".
	DescribeOrganization(ctx context.Context) (featureSet string, err error)
	GetRootID(ctx context.Context) (string, error)
	// ListOUs returns the direct children of parentID.
	ListOUs(ctx context.Context, parentID string) ([]OrganizationalUnit, error)
	CreateOU(ctx context.Context, name, parentID string) (OrganizationalUnit, error)
}

// AccountService manages member accounts.
type AccountService interface {
	ListAccounts(ctx context.Context) ([]Account, error)
	// ListAccountsForParent returns the accounts sitting directly under
	// one root or organizational unit.
	ListAccountsForParent(ctx context.Context, parentID string) ([]Account, error)
	// CreateAccount starts an asynchronous creation and returns a handle to poll.
	CreateAccount(ctx context.Context, name, email string) (CreateAccountHandle, error)
	DescribeCreateAccount(ctx context.Context, handle CreateAccountHandle) (CreateAccountResult, error)
	MoveAccount(ctx context.Context, accountID, sourceParentID, destParentID string) error
}

// PolicyService manages service control policies.
type PolicyService interface {
	ListPolicies(ctx context.Context) ([]PolicySummary, error)
	CreatePolicy(ctx context.Context, name, description, content string) (string, error)
	UpdatePolicy(ctx context.Context, policyID, name, description, content string) error
	// AttachPolicy attaches a policy to an OU or account; attaching an
	// already-attached policy succeeds as a no-op.
	AttachPolicy(ctx context.Context, policyID, targetID string) error
}

// RoleService manages the IAM control roles.
type RoleService interface {
	GetRole(ctx context.Context, name string) (Role, error)
	CreateRole(ctx context.Context, name, description, trustService string) (Role, error)
}

// DelegationService manages delegated administration for security services.
type DelegationService interface {
	EnableServiceAccess(ctx context.Context, servicePrincipal string) error
	// RegisterDelegatedAdministrator makes accountID the administrator for
	// servicePrincipal; registering an already-registered account succeeds.
	RegisterDelegatedAdministrator(ctx context.Context, accountID, servicePrincipal string) error
}

// IdentityService resolves the calling identity.
type IdentityService interface {
	// CallerAccountID returns the management account id of the current
	// credentials, verifying they are usable.
	CallerAccountID(ctx context.Context) (string, error)
}

// API combines all Organizations-side interfaces.
type API interface {
	OrganizationService
	AccountService
	PolicyService
	RoleService
	DelegationService
	IdentityService
}
