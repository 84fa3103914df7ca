package landingzone

import "context"

// MockClient is a mock implementation of API.
type MockClient struct {
	FindLandingZoneFunc   func(ctx context.Context) (string, error)
	GetLandingZoneFunc    func(ctx context.Context, id string) (Details, error)
	CreateLandingZoneFunc func(ctx context.Context, manifest map[string]any, version string) (string, error)
	UpdateLandingZoneFunc func(ctx context.Context, id string, manifest map[string]any, version string) (string, error)
	GetOperationFunc      func(ctx context.Context, operationID string) (OperationStatus, error)
}

// Ensure interface compliance
var _ API = (*MockClient)(nil)

// FindLandingZone mocks the landing zone lookup.
func (m *MockClient) FindLandingZone(ctx context.Context) (string, error) {
	if m.FindLandingZoneFunc != nil {
		return m.FindLandingZoneFunc(ctx)
	}
	return "", nil
}

// GetLandingZone mocks reading landing zone details.
func (m *MockClient) GetLandingZone(ctx context.Context, id string) (Details, error) {
	if m.GetLandingZoneFunc != nil {
		return m.GetLandingZoneFunc(ctx, id)
	}
	return Details{ID: id, State: StateAvailable, Version: "3.3"}, nil
}

// CreateLandingZone mocks submitting a create operation.
func (m *MockClient) CreateLandingZone(ctx context.Context, manifest map[string]any, version string) (string, error) {
	if m.CreateLandingZoneFunc != nil {
		return m.CreateLandingZoneFunc(ctx, manifest, version)
	}
	return "op-mock", nil
}

// UpdateLandingZone mocks submitting an update operation.
func (m *MockClient) UpdateLandingZone(ctx context.Context, id string, manifest map[string]any, version string) (string, error) {
	if m.UpdateLandingZoneFunc != nil {
		return m.UpdateLandingZoneFunc(ctx, id, manifest, version)
	}
	return "op-mock", nil
}

// GetOperation mocks polling an operation.
func (m *MockClient) GetOperation(ctx context.Context, operationID string) (OperationStatus, error) {
	if m.GetOperationFunc != nil {
		return m.GetOperationFunc(ctx, operationID)
	}
	return OperationStatus{State: OperationSucceeded}, nil
}
