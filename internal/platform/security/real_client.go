package security

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/configservice"
	cstypes "github.com/aws/aws-sdk-go-v2/service/configservice/types"
	"github.com/aws/aws-sdk-go-v2/service/guardduty"
	gdtypes "github.com/aws/aws-sdk-go-v2/service/guardduty/types"
	"github.com/aws/aws-sdk-go-v2/service/securityhub"
	shtypes "github.com/aws/aws-sdk-go-v2/service/securityhub/types"
)

// FoundationalStandardArn is the Security Hub foundational best practices
// standard subscribed during baseline setup.
const FoundationalStandardArn = "arn:aws:securityhub:::standards/aws-foundational-security-best-practices/v/1.0.0"

// RealClient implements API against GuardDuty, Security Hub, and AWS Config.
type RealClient struct {
	cfg *configservice.Client
	gd  *guardduty.Client
	sh  *securityhub.Client
}

var _ API = (*RealClient)(nil)

// NewRealClient creates security-service clients for the given region.
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
		cfg: configservice.NewFromConfig(cfg),
		gd:  guardduty.NewFromConfig(cfg),
		sh:  securityhub.NewFromConfig(cfg),
	}, nil
}

// AggregatorExists reports whether the named organization aggregator exists.
func (c *RealClient) AggregatorExists(ctx context.Context, name string) (bool, error) {
	_, err := c.cfg.DescribeConfigurationAggregators(ctx, &configservice.DescribeConfigurationAggregatorsInput{
		ConfigurationAggregatorNames: []string{name},
	})
	if err != nil {
		if isAggregatorNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to describe aggregator %s: %w", name, err)
	}
	return true, nil
}

// PutAggregator creates or updates the organization-wide aggregator.
func (c *RealClient) PutAggregator(ctx context.Context, name, roleArn string) error {
	_, err := c.cfg.PutConfigurationAggregator(ctx, &configservice.PutConfigurationAggregatorInput{
		ConfigurationAggregatorName: aws.String(name),
		OrganizationAggregationSource: &cstypes.OrganizationAggregationSource{
			RoleArn:       aws.String(roleArn),
			AllAwsRegions: true,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to put aggregator %s: %w", name, err)
	}
	return nil
}

// FindDetector returns the GuardDuty detector id, or empty if absent.
func (c *RealClient) FindDetector(ctx context.Context) (string, error) {
	out, err := c.gd.ListDetectors(ctx, &guardduty.ListDetectorsInput{})
	if err != nil {
		return "", fmt.Errorf("failed to list detectors: %w", err)
	}
	if len(out.DetectorIds) == 0 {
		return "", nil
	}
	return out.DetectorIds[0], nil
}

// EnsureDetector returns the GuardDuty detector id, creating one if absent.
func (c *RealClient) EnsureDetector(ctx context.Context) (string, error) {
	id, err := c.FindDetector(ctx)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}

	created, err := c.gd.CreateDetector(ctx, &guardduty.CreateDetectorInput{
		Enable: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create detector: %w", err)
	}
	return aws.ToString(created.DetectorId), nil
}

// DetectorAutoEnabled reports whether GuardDuty auto-enrolls new members.
func (c *RealClient) DetectorAutoEnabled(ctx context.Context, detectorID string) (bool, error) {
	out, err := c.gd.DescribeOrganizationConfiguration(ctx, &guardduty.DescribeOrganizationConfigurationInput{
		DetectorId: aws.String(detectorID),
	})
	if err != nil {
		return false, fmt.Errorf("failed to describe organization configuration: %w", err)
	}
	return out.AutoEnableOrganizationMembers == gdtypes.AutoEnableMembersAll, nil
}

// EnableDetectorAutoEnable enrolls all members, current and future.
func (c *RealClient) EnableDetectorAutoEnable(ctx context.Context, detectorID string) error {
	_, err := c.gd.UpdateOrganizationConfiguration(ctx, &guardduty.UpdateOrganizationConfigurationInput{
		DetectorId:                    aws.String(detectorID),
		AutoEnableOrganizationMembers: gdtypes.AutoEnableMembersAll,
	})
	if err != nil {
		return fmt.Errorf("failed to update organization configuration: %w", err)
	}
	return nil
}

// SetFindingFrequency sets the finding publishing frequency on the detector.
func (c *RealClient) SetFindingFrequency(ctx context.Context, detectorID, frequency string) error {
	_, err := c.gd.UpdateDetector(ctx, &guardduty.UpdateDetectorInput{
		DetectorId:                 aws.String(detectorID),
		FindingPublishingFrequency: gdtypes.FindingPublishingFrequency(frequency),
	})
	if err != nil {
		return fmt.Errorf("failed to set finding frequency: %w", err)
	}
	return nil
}

// HubEnabled reports whether Security Hub is enabled in this account.
func (c *RealClient) HubEnabled(ctx context.Context) (bool, error) {
	_, err := c.sh.DescribeHub(ctx, &securityhub.DescribeHubInput{})
	if err != nil {
		if isHubNotEnabled(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to describe hub: %w", err)
	}
	return true, nil
}

// EnableHub enables Security Hub in this account.
func (c *RealClient) EnableHub(ctx context.Context) error {
	_, err := c.sh.EnableSecurityHub(ctx, &securityhub.EnableSecurityHubInput{
		EnableDefaultStandards: aws.Bool(false),
	})
	if err != nil {
		if isAlreadyEnabled(err) {
			return nil
		}
		return fmt.Errorf("failed to enable security hub: %w", err)
	}
	return nil
}

// HubAutoEnabled reports whether Security Hub auto-enrolls new
// member accounts.
func (c *RealClient) HubAutoEnabled(ctx context.Context) (bool, error) {
	out, err := c.sh.DescribeOrganizationConfiguration(ctx, &securityhub.DescribeOrganizationConfigurationInput{})
	if err != nil {
		return false, fmt.Errorf("failed to describe organization configuration: %w", err)
	}
	return aws.ToBool(out.AutoEnable), nil
}

// EnableHubAutoEnable enrolls new member accounts automatically.
func (c *RealClient) EnableHubAutoEnable(ctx context.Context) error {
	_, err := c.sh.UpdateOrganizationConfiguration(ctx, &securityhub.UpdateOrganizationConfigurationInput{
		AutoEnable: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to update organization configuration: %w", err)
	}
	return nil
}

// EnableFoundationalStandards subscribes to the foundational standard.
func (c *RealClient) EnableFoundationalStandards(ctx context.Context) ([]string, error) {
	out, err := c.sh.BatchEnableStandards(ctx, &securityhub.BatchEnableStandardsInput{
		StandardsSubscriptionRequests: []shtypes.StandardsSubscriptionRequest{
			{StandardsArn: aws.String(FoundationalStandardArn)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enable standards: %w", err)
	}

	arns := make([]string, 0, len(out.StandardsSubscriptions))
	for _, sub := range out.StandardsSubscriptions {
		arns = append(arns, aws.ToString(sub.StandardsArn))
	}
	return arns, nil
}
