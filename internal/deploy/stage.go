package deploy

import (
	"fmt"
	"time"

	"github.com/imamik/towerctl/internal/errs"
	"github.com/imamik/towerctl/internal/platform/landingzone"
	"github.com/imamik/towerctl/internal/provisioning"
)

// Stage deploys or updates the landing zone and attaches the service
// control policies.
type Stage struct{}

// NewStage creates the landing zone stage.
func NewStage() *Stage { return &Stage{} }

// Name implements provisioning.Stage.
func (s *Stage) Name() string { return "landing_zone" }

// Run implements provisioning.Stage.
func (s *Stage) Run(ctx *provisioning.Context) error {
	logArchiveID := ctx.State.AccountID(ctx.Config.Accounts.LogArchive.Name)
	auditID := ctx.State.AccountID(ctx.Config.Accounts.Audit.Name)

	manifest, err := BuildManifest(ctx.Config, logArchiveID, auditID)
	if err != nil {
		return err
	}

	operationID, err := submit(ctx, manifest)
	if err != nil {
		return err
	}
	ctx.State.OperationID = operationID

	if err := waitForOperation(ctx, operationID); err != nil {
		return err
	}

	if ctx.State.LandingZoneID == "" {
		id, err := ctx.LandingZone.FindLandingZone(ctx)
		if err != nil {
			return errs.New(errs.KindDeployment, "landing_zone", "resolve landing zone id", err)
		}
		ctx.State.LandingZoneID = id
	}

	return applyPolicies(ctx)
}

// submit decides between create and update. Updating is only valid when
// the zone is available or drifted; an operation already in progress is a
// conflict the operator has to wait out, not something to race.
func submit(ctx *provisioning.Context, manifest map[string]any) (string, error) {
	version := ctx.Config.LandingZone.Version

	id, err := ctx.LandingZone.FindLandingZone(ctx)
	if err != nil {
		return "", errs.New(errs.KindDeployment, "landing_zone", "find landing zone", err)
	}

	if id == "" {
		provisioning.LogResourceCreating(ctx.Observer, "landing_zone", "landing zone", version)
		operationID, err := ctx.LandingZone.CreateLandingZone(ctx, manifest, version)
		if err != nil {
			if landingzone.IsConflict(err) {
				return "", errs.New(errs.KindDeployment, "landing_zone", "create landing zone", err).
					WithRemedy("another landing zone operation is running, wait for it to finish")
			}
			return "", errs.New(errs.KindDeployment, "landing_zone", "create landing zone", err)
		}
		return operationID, nil
	}

	details, err := ctx.LandingZone.GetLandingZone(ctx, id)
	if err != nil {
		return "", errs.New(errs.KindDeployment, "landing_zone", "read landing zone", err)
	}
	ctx.State.LandingZoneID = id

	if details.State == landingzone.StateInProgress {
		return "", errs.Newf(errs.KindDeployment, "landing_zone", "update landing zone",
			"an operation is already in progress on landing zone %s", id).
			WithRemedy("wait for the running operation to finish before deploying")
	}

	ctx.Observer.Printf("[landing_zone] updating landing zone %s to version %s", id, version)
	operationID, err := ctx.LandingZone.UpdateLandingZone(ctx, id, manifest, version)
	if err != nil {
		if landingzone.IsConflict(err) {
			return "", errs.New(errs.KindDeployment, "landing_zone", "update landing zone", err).
				WithRemedy("another landing zone operation is running, wait for it to finish")
		}
		return "", errs.New(errs.KindDeployment, "landing_zone", "update landing zone", err)
	}
	return operationID, nil
}

// waitForOperation polls until the operation reaches a terminal state or
// the bounded wait elapses. A terminal failure surfaces immediately with
// the provider's message; transient poll errors do not end the wait.
func waitForOperation(ctx *provisioning.Context, operationID string) error {
	deadline := time.Now().Add(ctx.Timeouts.DeployMaxWait)
	ticker := time.NewTicker(ctx.Timeouts.DeployPollInterval)
	defer ticker.Stop()

	for {
		status, err := ctx.LandingZone.GetOperation(ctx, operationID)
		switch {
		case err != nil:
			// A dropped connection on one poll is not the operation
			// failing; the next tick asks again.
			if !landingzone.IsTransient(err) {
				return errs.New(errs.KindDeployment, "landing_zone", "poll operation", err)
			}
		case status.State == landingzone.OperationSucceeded:
			ctx.Observer.Printf("[landing_zone] operation %s succeeded", operationID)
			return nil
		case status.State == landingzone.OperationFailed:
			return errs.Newf(errs.KindDeployment, "landing_zone", "operation "+operationID,
				"landing zone operation failed: %s", status.Message)
		default:
			ctx.Observer.Printf("[landing_zone] operation %s in progress", operationID)
		}

		if time.Now().After(deadline) {
			return errs.Newf(errs.KindDeployment, "landing_zone", "operation "+operationID,
				"operation still running after %v", ctx.Timeouts.DeployMaxWait).
				WithRemedy("the operation continues server-side, check its status before re-running")
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("operation wait interrupted: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
