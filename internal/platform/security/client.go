// Package security provides wrappers around the organization-wide security
// services: AWS Config aggregation, GuardDuty, and Security Hub.
package security

import (
	"context"
)

// ConfigService manages organization-wide configuration recording.
type ConfigService interface {
	// AggregatorExists reports whether the named organization aggregator is
	// already in place.
	AggregatorExists(ctx context.Context, name string) (bool, error)
	// PutAggregator creates or updates the organization aggregator.
	PutAggregator(ctx context.Context, name, roleArn string) error
}

// ThreatDetectionService manages organization-wide GuardDuty.
type ThreatDetectionService interface {
	// FindDetector returns the detector id, or empty if none exists.
	FindDetector(ctx context.Context) (string, error)
	// EnsureDetector returns the detector id, creating an enabled detector
	// if none exists.
	EnsureDetector(ctx context.Context) (string, error)
	// DetectorAutoEnabled reports whether new member accounts are
	// enrolled automatically.
	DetectorAutoEnabled(ctx context.Context, detectorID string) (bool, error)
	EnableDetectorAutoEnable(ctx context.Context, detectorID string) error
	SetFindingFrequency(ctx context.Context, detectorID, frequency string) error
}

// FindingsService manages organization-wide Security Hub.
type FindingsService interface {
	// HubEnabled reports whether Security Hub is enabled in this account.
	HubEnabled(ctx context.Context) (bool, error)
	EnableHub(ctx context.Context) error
	// HubAutoEnabled reports whether new member accounts are
	// enrolled automatically.
	HubAutoEnabled(ctx context.Context) (bool, error)
	EnableHubAutoEnable(ctx context.Context) error
	// EnableFoundationalStandards subscribes to the foundational best
	// practices standard and returns the subscribed standard ARNs.
	EnableFoundationalStandards(ctx context.Context) ([]string, error)
}

// API combines the three security-service interfaces.
type API interface {
	ConfigService
	ThreatDetectionService
	FindingsService
}
