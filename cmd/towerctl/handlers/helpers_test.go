package handlers

import (
	"bytes"
	"context"
	"testing"

	"github.com/imamik/towerctl/internal/config"
	"github.com/imamik/towerctl/internal/platform/landingzone"
	"github.com/imamik/towerctl/internal/platform/logarchive"
	"github.com/imamik/towerctl/internal/platform/orgs"
	"github.com/imamik/towerctl/internal/platform/security"
)

// bucketStub implements logarchive.API for handler tests.
type bucketStub struct {
	exists bool
}

func (s *bucketStub) BucketExists(_ context.Context, _ string) (bool, error)    { return s.exists, nil }
func (s *bucketStub) BucketEncrypted(_ context.Context, _ string) (bool, error) { return s.exists, nil }

// stubEnv holds the injected fakes for one handler test.
type stubEnv struct {
	out     *bytes.Buffer
	orgs    *orgs.MockClient
	lz      *landingzone.MockClient
	sec     *security.MockClient
	buckets *bucketStub
}

// stubFactories swaps every factory variable for test doubles and restores
// them when the test finishes.
func stubFactories(t *testing.T) *stubEnv {
	t.Helper()

	env := &stubEnv{
		out:     &bytes.Buffer{},
		orgs:    &orgs.MockClient{},
		lz:      &landingzone.MockClient{},
		sec:     &security.MockClient{},
		buckets: &bucketStub{},
	}

	origLoadConfig := loadConfigFile
	origLoadPolicy := loadPolicyState
	origOrgs := newOrgsClient
	origLz := newLandingZoneClient
	origSec := newSecurityClient
	origLog := newLogArchiveClient
	origPrint := printOutput
	t.Cleanup(func() {
		loadConfigFile = origLoadConfig
		loadPolicyState = origLoadPolicy
		newOrgsClient = origOrgs
		newLandingZoneClient = origLz
		newSecurityClient = origSec
		newLogArchiveClient = origLog
		printOutput = origPrint
	})

	loadConfigFile = func(_ string) (*config.Config, error) { return testCfg(), nil }
	loadPolicyState = func(_ string) (*config.PolicyState, error) { return config.DefaultPolicyState(), nil }
	newOrgsClient = func(_ context.Context, _, _ string) (orgs.API, error) { return env.orgs, nil }
	newLandingZoneClient = func(_ context.Context, _, _ string) (landingzone.API, error) { return env.lz, nil }
	newSecurityClient = func(_ context.Context, _, _ string) (security.API, error) { return env.sec, nil }
	newLogArchiveClient = func(_ context.Context, _, _ string) (logarchive.API, error) { return env.buckets, nil }
	printOutput = func(s string) { env.out.WriteString(s) }

	return env
}

func testCfg() *config.Config {
	return &config.Config{
		AWS: config.AWSConfig{
			HomeRegion:      "eu-west-1",
			GovernedRegions: []string{"eu-west-1"},
		},
		Organization: config.OrganizationConfig{
			SecurityOUName: "Security",
			AdditionalOUs:  []config.OUSpec{{Name: "Workloads"}},
		},
		Accounts: config.AccountsConfig{
			LogArchive: config.AccountSpec{Name: "log-archive", Email: "log@example.com"},
			Audit:      config.AccountSpec{Name: "audit", Email: "audit@example.com"},
		},
		LandingZone: config.LandingZoneConfig{Version: "3.3"},
		Security:    config.SecurityConfig{Tier: "standard"},
	}
}
