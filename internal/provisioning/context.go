package provisioning

import (
	"context"

	"github.com/imamik/towerctl/internal/config"
	"github.com/imamik/towerctl/internal/platform/landingzone"
	"github.com/imamik/towerctl/internal/platform/logarchive"
	"github.com/imamik/towerctl/internal/platform/orgs"
	"github.com/imamik/towerctl/internal/platform/security"
)

// Context wraps all dependencies and state needed for a deployment stage.
type Context struct {
	context.Context
	Config      *config.Config
	Policy      *config.PolicyState
	State       *State
	Orgs        orgs.API
	LandingZone landingzone.API
	Security    security.API
	LogArchive  logarchive.API
	Observer    Observer
	Confirm     Confirmer
	Timeouts    *config.Timeouts
}

// NewContext creates a new deployment context.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	policy *config.PolicyState,
	orgsAPI orgs.API,
	lzAPI landingzone.API,
	secAPI security.API,
	logAPI logarchive.API,
) *Context {
	return &Context{
		Context:     ctx,
		Config:      cfg,
		Policy:      policy,
		State:       NewState(),
		Orgs:        orgsAPI,
		LandingZone: lzAPI,
		Security:    secAPI,
		LogArchive:  logAPI,
		Observer:    NewConsoleObserver(),
		Confirm:     AutoApprove{},
		Timeouts:    config.LoadTimeouts(),
	}
}
