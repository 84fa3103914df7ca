package orgs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	orgtypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// RealClient implements API against AWS Organizations, IAM, and STS.
type RealClient struct {
	org *organizations.Client
	iam *iam.Client
	sts *sts.Client
}

var _ API = (*RealClient)(nil)

// NewRealClient creates a client for the given region. An empty profile uses
// the default credential chain.
func NewRealClient(ctx context.Context, region, profile string) (*RealClient, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &RealClient{
		org: organizations.NewFromConfig(cfg),
		iam: iam.NewFromConfig(cfg),
		sts: sts.NewFromConfig(cfg),
	}, nil
}

// DescribeOrganization returns the organization's feature set.
func (c *RealClient) DescribeOrganization(ctx context.Context) (string, error) {
	out, err := c.org.DescribeOrganization(ctx, &organizations.DescribeOrganizationInput{})
	if err != nil {
		return "", fmt.Errorf("failed to describe organization: %w", err)
	}
	return string(out.Organization.FeatureSet), nil
}

// GetRootID returns the id of the organization root.
func (c *RealClient) GetRootID(ctx context.Context) (string, error) {
	out, err := c.org.ListRoots(ctx, &organizations.ListRootsInput{})
	if err != nil {
		return "", fmt.Errorf("failed to list roots: %w", err)
	}
	if len(out.Roots) == 0 {
		return "", fmt.Errorf("organization has no root")
	}
	return aws.ToString(out.Roots[0].Id), nil
}

// ListOUs returns the direct child OUs of parentID.
func (c *RealClient) ListOUs(ctx context.Context, parentID string) ([]OrganizationalUnit, error) {
	var ous []OrganizationalUnit
	paginator := organizations.NewListOrganizationalUnitsForParentPaginator(c.org,
		&organizations.ListOrganizationalUnitsForParentInput{ParentId: aws.String(parentID)})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list OUs under %s: %w", parentID, err)
		}
		for _, ou := range page.OrganizationalUnits {
			ous = append(ous, OrganizationalUnit{
				ID:       aws.ToString(ou.Id),
				Name:     aws.ToString(ou.Name),
				ParentID: parentID,
			})
		}
	}
	return ous, nil
}

// CreateOU creates an OU under parentID.
func (c *RealClient) CreateOU(ctx context.Context, name, parentID string) (OrganizationalUnit, error) {
	out, err := c.org.CreateOrganizationalUnit(ctx, &organizations.CreateOrganizationalUnitInput{
		Name:     aws.String(name),
		ParentId: aws.String(parentID),
	})
	if err != nil {
		return OrganizationalUnit{}, fmt.Errorf("failed to create OU %s: %w", name, err)
	}
	return OrganizationalUnit{
		ID:       aws.ToString(out.OrganizationalUnit.Id),
		Name:     aws.ToString(out.OrganizationalUnit.Name),
		ParentID: parentID,
	}, nil
}

// ListAccounts returns all member accounts.
func (c *RealClient) ListAccounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	paginator := organizations.NewListAccountsPaginator(c.org, &organizations.ListAccountsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}
		accounts = append(accounts, convertAccounts(page.Accounts)...)
	}
	return accounts, nil
}

// ListAccountsForParent returns the accounts directly under one parent.
func (c *RealClient) ListAccountsForParent(ctx context.Context, parentID string) ([]Account, error) {
	var accounts []Account
	paginator := organizations.NewListAccountsForParentPaginator(c.org, &organizations.ListAccountsForParentInput{
		ParentId: aws.String(parentID),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts under %s: %w", parentID, err)
		}
		accounts = append(accounts, convertAccounts(page.Accounts)...)
	}
	return accounts, nil
}

func convertAccounts(in []orgtypes.Account) []Account {
	accounts := make([]Account, 0, len(in))
	for _, acct := range in {
		status := AccountActive
		if acct.Status != orgtypes.AccountStatusActive {
			status = AccountFailed
		}
		accounts = append(accounts, Account{
			ID:     aws.ToString(acct.Id),
			Name:   aws.ToString(acct.Name),
			Email:  aws.ToString(acct.Email),
			Status: status,
		})
	}
	return accounts
}

// CreateAccount starts an asynchronous account creation.
func (c *RealClient) CreateAccount(ctx context.Context, name, email string) (CreateAccountHandle, error) {
	out, err := c.org.CreateAccount(ctx, &organizations.CreateAccountInput{
		AccountName: aws.String(name),
		Email:       aws.String(email),
	})
	if err != nil {
		return CreateAccountHandle{}, fmt.Errorf("failed to create account %s: %w", name, err)
	}
	return CreateAccountHandle{RequestID: aws.ToString(out.CreateAccountStatus.Id)}, nil
}

// DescribeCreateAccount polls a pending account creation.
func (c *RealClient) DescribeCreateAccount(ctx context.Context, handle CreateAccountHandle) (CreateAccountResult, error) {
	out, err := c.org.DescribeCreateAccountStatus(ctx, &organizations.DescribeCreateAccountStatusInput{
		CreateAccountRequestId: aws.String(handle.RequestID),
	})
	if err != nil {
		return CreateAccountResult{}, fmt.Errorf("failed to check account creation status: %w", err)
	}

	status := out.CreateAccountStatus
	result := CreateAccountResult{AccountID: aws.ToString(status.AccountId)}
	switch status.State {
	case orgtypes.CreateAccountStateSucceeded:
		result.State = AccountActive
	case orgtypes.CreateAccountStateFailed:
		result.State = AccountFailed
		result.FailureReason = string(status.FailureReason)
	default:
		result.State = AccountCreating
	}
	return result, nil
}

// MoveAccount moves an account between parents.
func (c *RealClient) MoveAccount(ctx context.Context, accountID, sourceParentID, destParentID string) error {
	_, err := c.org.MoveAccount(ctx, &organizations.MoveAccountInput{
		AccountId:           aws.String(accountID),
		SourceParentId:      aws.String(sourceParentID),
		DestinationParentId: aws.String(destParentID),
	})
	if err != nil {
		return fmt.Errorf("failed to move account %s: %w", accountID, err)
	}
	return nil
}

// ListPolicies returns all service control policies.
func (c *RealClient) ListPolicies(ctx context.Context) ([]PolicySummary, error) {
	var policies []PolicySummary
	paginator := organizations.NewListPoliciesPaginator(c.org, &organizations.ListPoliciesInput{
		Filter: orgtypes.PolicyTypeServiceControlPolicy,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list policies: %w", err)
		}
		for _, p := range page.Policies {
			policies = append(policies, PolicySummary{
				ID:         aws.ToString(p.Id),
				Name:       aws.ToString(p.Name),
				AWSManaged: p.AwsManaged,
			})
		}
	}
	return policies, nil
}

// CreatePolicy creates a service control policy and returns its id.
func (c *RealClient) CreatePolicy(ctx context.Context, name, description, content string) (string, error) {
	out, err := c.org.CreatePolicy(ctx, &organizations.CreatePolicyInput{
		Name:        aws.String(name),
		Description: aws.String(description),
		Content:     aws.String(content),
		Type:        orgtypes.PolicyTypeServiceControlPolicy,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create policy %s: %w", name, err)
	}
	return aws.ToString(out.Policy.PolicySummary.Id), nil
}

// UpdatePolicy replaces the content of an existing policy.
func (c *RealClient) UpdatePolicy(ctx context.Context, policyID, name, description, content string) error {
	_, err := c.org.UpdatePolicy(ctx, &organizations.UpdatePolicyInput{
		PolicyId:    aws.String(policyID),
		Name:        aws.String(name),
		Description: aws.String(description),
		Content:     aws.String(content),
	})
	if err != nil {
		return fmt.Errorf("failed to update policy %s: %w", name, err)
	}
	return nil
}

// AttachPolicy attaches a policy to a target. Duplicate attachment is a no-op.
func (c *RealClient) AttachPolicy(ctx context.Context, policyID, targetID string) error {
	_, err := c.org.AttachPolicy(ctx, &organizations.AttachPolicyInput{
		PolicyId: aws.String(policyID),
		TargetId: aws.String(targetID),
	})
	if err != nil {
		if isDuplicateAttachment(err) {
			return nil
		}
		return fmt.Errorf("failed to attach policy %s to %s: %w", policyID, targetID, err)
	}
	return nil
}

// GetRole returns an IAM role by name.
func (c *RealClient) GetRole(ctx context.Context, name string) (Role, error) {
	out, err := c.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(name)})
	if err != nil {
		return Role{}, fmt.Errorf("failed to get role %s: %w", name, err)
	}
	return Role{
		Name:         aws.ToString(out.Role.RoleName),
		Arn:          aws.ToString(out.Role.Arn),
		TrustService: trustServiceOf(aws.ToString(out.Role.AssumeRolePolicyDocument)),
	}, nil
}

// CreateRole creates an IAM role trusting the given service principal.
func (c *RealClient) CreateRole(ctx context.Context, name, description, trustService string) (Role, error) {
	trustPolicy, err := json.Marshal(map[string]any{
		"Version": "2012-10-17",
		"Statement": []map[string]any{{
			"Effect":    "Allow",
			"Principal": map[string]any{"Service": trustService},
			"Action":    "sts:AssumeRole",
		}},
	})
	if err != nil {
		return Role{}, fmt.Errorf("failed to marshal trust policy: %w", err)
	}

	out, err := c.iam.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 aws.String(name),
		Description:              aws.String(description),
		AssumeRolePolicyDocument: aws.String(string(trustPolicy)),
	})
	if err != nil {
		return Role{}, fmt.Errorf("failed to create role %s: %w", name, err)
	}
	return Role{
		Name:         aws.ToString(out.Role.RoleName),
		Arn:          aws.ToString(out.Role.Arn),
		TrustService: trustService,
	}, nil
}

// EnableServiceAccess enables trusted access for a service principal.
func (c *RealClient) EnableServiceAccess(ctx context.Context, servicePrincipal string) error {
	_, err := c.org.EnableAWSServiceAccess(ctx, &organizations.EnableAWSServiceAccessInput{
		ServicePrincipal: aws.String(servicePrincipal),
	})
	if err != nil {
		return fmt.Errorf("failed to enable service access for %s: %w", servicePrincipal, err)
	}
	return nil
}

// RegisterDelegatedAdministrator registers accountID for a service principal.
// An already-registered account is a no-op.
func (c *RealClient) RegisterDelegatedAdministrator(ctx context.Context, accountID, servicePrincipal string) error {
	_, err := c.org.RegisterDelegatedAdministrator(ctx, &organizations.RegisterDelegatedAdministratorInput{
		AccountId:        aws.String(accountID),
		ServicePrincipal: aws.String(servicePrincipal),
	})
	if err != nil {
		if isAlreadyRegistered(err) {
			return nil
		}
		return fmt.Errorf("failed to register delegated administrator %s for %s: %w",
			accountID, servicePrincipal, err)
	}
	return nil
}

// CallerAccountID verifies the credentials and returns the caller's account id.
func (c *RealClient) CallerAccountID(ctx context.Context) (string, error) {
	out, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}
	return aws.ToString(out.Account), nil
}

// trustServiceOf extracts the trusted service principal from a URL-encoded
// assume-role policy document.
func trustServiceOf(encoded string) string {
	doc, err := url.QueryUnescape(encoded)
	if err != nil {
		return ""
	}
	var parsed struct {
		Statement []struct {
			Principal struct {
				Service string `json:"Service"`
			} `json:"Principal"`
		} `json:"Statement"`
	}
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil || len(parsed.Statement) == 0 {
		// Some principals come back as lists; fall back to a substring probe.
		if i := strings.Index(doc, ".amazonaws.com"); i >= 0 {
			start := strings.LastIndex(doc[:i], `"`) + 1
			return doc[start : i+len(".amazonaws.com")]
		}
		return ""
	}
	return parsed.Statement[0].Principal.Service
}
