package landingzone

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/controltower"
	cttypes "github.com/aws/aws-sdk-go-v2/service/controltower/types"
	"github.com/aws/aws-sdk-go-v2/service/controltower/document"
)

// RealClient implements API against AWS Control Tower.
type RealClient struct {
	ct *controltower.Client
}

var _ API = (*RealClient)(nil)

// NewRealClient creates a Control Tower client for the given region.
func NewRealClient(ctx context.Context, region, profile string) (*RealClient, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &RealClient{ct: controltower.NewFromConfig(cfg)}, nil
}

// FindLandingZone returns the landing-zone identifier, or empty if none
// exists. Control Tower allows at most one landing zone per organization.
func (c *RealClient) FindLandingZone(ctx context.Context) (string, error) {
	out, err := c.ct.ListLandingZones(ctx, &controltower.ListLandingZonesInput{})
	if err != nil {
		return "", fmt.Errorf("failed to list landing zones: %w", err)
	}
	if len(out.LandingZones) == 0 {
		return "", nil
	}
	return aws.ToString(out.LandingZones[0].Arn), nil
}

// GetLandingZone returns the lifecycle state of an existing landing zone.
func (c *RealClient) GetLandingZone(ctx context.Context, id string) (Details, error) {
	out, err := c.ct.GetLandingZone(ctx, &controltower.GetLandingZoneInput{
		LandingZoneIdentifier: aws.String(id),
	})
	if err != nil {
		return Details{}, fmt.Errorf("failed to get landing zone %s: %w", id, err)
	}

	lz := out.LandingZone
	details := Details{
		ID:      aws.ToString(lz.Arn),
		Version: aws.ToString(lz.Version),
	}
	if lz.DriftStatus != nil && lz.DriftStatus.Status == cttypes.LandingZoneDriftStatusDrifted {
		details.Drifted = true
	}

	switch lz.Status {
	case cttypes.LandingZoneStatusActive:
		if details.Drifted {
			details.State = StateDrifted
		} else {
			details.State = StateAvailable
		}
	case cttypes.LandingZoneStatusProcessing:
		details.State = StateInProgress
	case cttypes.LandingZoneStatusFailed:
		details.State = StateFailed
	default:
		details.State = StateNotStarted
	}
	return details, nil
}

// CreateLandingZone submits a landing-zone create request.
func (c *RealClient) CreateLandingZone(ctx context.Context, manifest map[string]any, version string) (string, error) {
	out, err := c.ct.CreateLandingZone(ctx, &controltower.CreateLandingZoneInput{
		Manifest: document.NewLazyDocument(manifest),
		Version:  aws.String(version),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create landing zone: %w", err)
	}
	return aws.ToString(out.OperationIdentifier), nil
}

// UpdateLandingZone submits a landing-zone update request.
func (c *RealClient) UpdateLandingZone(ctx context.Context, id string, manifest map[string]any, version string) (string, error) {
	out, err := c.ct.UpdateLandingZone(ctx, &controltower.UpdateLandingZoneInput{
		LandingZoneIdentifier: aws.String(id),
		Manifest:              document.NewLazyDocument(manifest),
		Version:               aws.String(version),
	})
	if err != nil {
		return "", fmt.Errorf("failed to update landing zone %s: %w", id, err)
	}
	return aws.ToString(out.OperationIdentifier), nil
}

// GetOperation polls a landing-zone operation.
func (c *RealClient) GetOperation(ctx context.Context, operationID string) (OperationStatus, error) {
	out, err := c.ct.GetLandingZoneOperation(ctx, &controltower.GetLandingZoneOperationInput{
		OperationIdentifier: aws.String(operationID),
	})
	if err != nil {
		return OperationStatus{}, fmt.Errorf("failed to get operation %s: %w", operationID, err)
	}

	detail := out.OperationDetails
	status := OperationStatus{Message: aws.ToString(detail.StatusMessage)}
	switch detail.Status {
	case cttypes.LandingZoneOperationStatusSucceeded:
		status.State = OperationSucceeded
	case cttypes.LandingZoneOperationStatusFailed:
		status.State = OperationFailed
	default:
		status.State = OperationInProgress
	}
	return status, nil
}
