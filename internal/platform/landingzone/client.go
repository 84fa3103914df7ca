// Package landingzone provides a wrapper around the AWS Control Tower API.
package landingzone

import (
	"context"
)

// State is the observed landing-zone lifecycle state.
type State string

const (
	// StateNotStarted means no landing zone exists yet.
	StateNotStarted State = "NOT_STARTED"
	// StateInProgress means a create or update operation is running.
	StateInProgress State = "IN_PROGRESS"
	// StateAvailable means the landing zone is deployed and in sync.
	StateAvailable State = "AVAILABLE"
	// StateFailed means the last operation reached a terminal failure.
	// Re-enterable via a new create or update.
	StateFailed State = "FAILED"
	// StateDrifted means the deployed state diverged out-of-band.
	// Re-enterable via a new update.
	StateDrifted State = "DRIFTED"
)

// OperationState is the status of one create or update operation.
type OperationState string

const (
	// OperationInProgress means the operation is still running.
	OperationInProgress OperationState = "IN_PROGRESS"
	// OperationSucceeded means the operation finished successfully.
	OperationSucceeded OperationState = "SUCCEEDED"
	// OperationFailed means the provider reported a terminal failure.
	OperationFailed OperationState = "FAILED"
)

// OperationStatus is the polled status of a landing-zone operation.
type OperationStatus struct {
	State   OperationState
	Message string
}

// Details describes an existing landing zone.
type Details struct {
	ID      string
	State   State
	Version string
	Drifted bool
}

// API is the Control Tower surface the deployer needs.
type API interface {
	// FindLandingZone returns the identifier of the organization's landing
	// zone, or empty if none exists.
	FindLandingZone(ctx context.Context) (string, error)
	GetLandingZone(ctx context.Context, id string) (Details, error)
	// CreateLandingZone submits a create and returns an operation identifier
	// to poll.
	CreateLandingZone(ctx context.Context, manifest map[string]any, version string) (string, error)
	// UpdateLandingZone submits an update of an existing landing zone.
	UpdateLandingZone(ctx context.Context, id string, manifest map[string]any, version string) (string, error)
	GetOperation(ctx context.Context, operationID string) (OperationStatus, error)
}
