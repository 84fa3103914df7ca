package security

import "context"

// MockClient is a mock implementation of API.
type MockClient struct {
	AggregatorExistsFunc            func(ctx context.Context, name string) (bool, error)
	PutAggregatorFunc               func(ctx context.Context, name, roleArn string) error
	FindDetectorFunc                func(ctx context.Context) (string, error)
	EnsureDetectorFunc              func(ctx context.Context) (string, error)
	DetectorAutoEnabledFunc         func(ctx context.Context, detectorID string) (bool, error)
	EnableDetectorAutoEnableFunc    func(ctx context.Context, detectorID string) error
	SetFindingFrequencyFunc         func(ctx context.Context, detectorID, frequency string) error
	HubEnabledFunc                  func(ctx context.Context) (bool, error)
	EnableHubFunc                   func(ctx context.Context) error
	HubAutoEnabledFunc              func(ctx context.Context) (bool, error)
	EnableHubAutoEnableFunc         func(ctx context.Context) error
	EnableFoundationalStandardsFunc func(ctx context.Context) ([]string, error)
}

// Ensure interface compliance
var _ API = (*MockClient)(nil)

// AggregatorExists mocks the aggregator lookup.
func (m *MockClient) AggregatorExists(ctx context.Context, name string) (bool, error) {
	if m.AggregatorExistsFunc != nil {
		return m.AggregatorExistsFunc(ctx, name)
	}
	return false, nil
}

// PutAggregator mocks aggregator creation.
func (m *MockClient) PutAggregator(ctx context.Context, name, roleArn string) error {
	if m.PutAggregatorFunc != nil {
		return m.PutAggregatorFunc(ctx, name, roleArn)
	}
	return nil
}

// FindDetector mocks the detector lookup.
func (m *MockClient) FindDetector(ctx context.Context) (string, error) {
	if m.FindDetectorFunc != nil {
		return m.FindDetectorFunc(ctx)
	}
	return "detector-mock", nil
}

// EnsureDetector mocks detector creation.
func (m *MockClient) EnsureDetector(ctx context.Context) (string, error) {
	if m.EnsureDetectorFunc != nil {
		return m.EnsureDetectorFunc(ctx)
	}
	return "detector-mock", nil
}

// DetectorAutoEnabled mocks the auto-enroll lookup.
func (m *MockClient) DetectorAutoEnabled(ctx context.Context, detectorID string) (bool, error) {
	if m.DetectorAutoEnabledFunc != nil {
		return m.DetectorAutoEnabledFunc(ctx, detectorID)
	}
	return false, nil
}

// EnableDetectorAutoEnable mocks enabling auto-enrollment.
func (m *MockClient) EnableDetectorAutoEnable(ctx context.Context, detectorID string) error {
	if m.EnableDetectorAutoEnableFunc != nil {
		return m.EnableDetectorAutoEnableFunc(ctx, detectorID)
	}
	return nil
}

// SetFindingFrequency mocks setting the publishing frequency.
func (m *MockClient) SetFindingFrequency(ctx context.Context, detectorID, frequency string) error {
	if m.SetFindingFrequencyFunc != nil {
		return m.SetFindingFrequencyFunc(ctx, detectorID, frequency)
	}
	return nil
}

// HubEnabled mocks the hub status lookup.
func (m *MockClient) HubEnabled(ctx context.Context) (bool, error) {
	if m.HubEnabledFunc != nil {
		return m.HubEnabledFunc(ctx)
	}
	return false, nil
}

// EnableHub mocks enabling the hub.
func (m *MockClient) EnableHub(ctx context.Context) error {
	if m.EnableHubFunc != nil {
		return m.EnableHubFunc(ctx)
	}
	return nil
}

// HubAutoEnabled mocks the hub auto-enroll lookup.
func (m *MockClient) HubAutoEnabled(ctx context.Context) (bool, error) {
	if m.HubAutoEnabledFunc != nil {
		return m.HubAutoEnabledFunc(ctx)
	}
	return false, nil
}

// EnableHubAutoEnable mocks enabling hub auto-enrollment.
func (m *MockClient) EnableHubAutoEnable(ctx context.Context) error {
	if m.EnableHubAutoEnableFunc != nil {
		return m.EnableHubAutoEnableFunc(ctx)
	}
	return nil
}

// EnableFoundationalStandards mocks the standards subscription.
func (m *MockClient) EnableFoundationalStandards(ctx context.Context) ([]string, error) {
	if m.EnableFoundationalStandardsFunc != nil {
		return m.EnableFoundationalStandardsFunc(ctx)
	}
	return []string{FoundationalStandardArn}, nil
}
