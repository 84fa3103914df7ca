package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/imamik/towerctl/internal/config"
	"github.com/imamik/towerctl/internal/errs"
	"github.com/imamik/towerctl/internal/platform/landingzone"
	"github.com/imamik/towerctl/internal/policy"
	"github.com/imamik/towerctl/internal/provisioning"
)

// Stage verifies the deployed landing zone matches the declared posture.
// It runs last in the pipeline; pending mismatches only warn, drift fails
// the stage.
type Stage struct{}

// NewStage creates the validation stage.
func NewStage() *Stage { return &Stage{} }

// Name implements provisioning.Stage.
func (s *Stage) Name() string { return "validation" }

// Run implements provisioning.Stage.
func (s *Stage) Run(ctx *provisioning.Context) error {
	desired := DesiredFromConfig(ctx.Config, ctx.Policy, ctx.State.AccountID(ctx.Config.Accounts.LogArchive.Name))

	observed, err := observe(ctx, desired)
	if err != nil {
		return err
	}

	report := Compare(desired, observed)
	for _, m := range report.Mismatches {
		ctx.State.ValidationFindings = append(ctx.State.ValidationFindings,
			fmt.Sprintf("%s: want %s, have %s (%s)", m.Field, m.Desired, m.Observed, m.Class))

		eventType := provisioning.EventCheckError
		if m.Class == ClassPending {
			eventType = provisioning.EventCheckWarning
		}
		ctx.Observer.Event(provisioning.Event{
			Type:    eventType,
			Stage:   "validation",
			Message: fmt.Sprintf("%s: want %s, have %s", m.Field, m.Desired, m.Observed),
			Fields:  map[string]string{"class": string(m.Class)},
		})
	}

	if drifts := report.Drifts(); len(drifts) > 0 {
		fields := make([]string, 0, len(drifts))
		for _, m := range drifts {
			fields = append(fields, m.Field)
		}
		return errs.Newf(errs.KindValidation, "validation", "compare posture",
			"%d fields drifted: %s", len(drifts), strings.Join(fields, ", "))
	}
	return nil
}

// DesiredFromConfig derives the desired posture from the configuration and
// persisted policy state.
func DesiredFromConfig(cfg *config.Config, state *config.PolicyState, logArchiveID string) Desired {
	desired := Desired{
		LandingZoneVersion: cfg.LandingZone.Version,
		Services: map[string]bool{
			"config":      cfg.Security.Services.ConfigRecordingEnabled(),
			"guardduty":   cfg.Security.Services.GuardDutyEnabled(),
			"securityhub": cfg.Security.Services.SecurityHubEnabled(),
		},
	}

	if logArchiveID != "" {
		desired.LogBucket = fmt.Sprintf("aws-controltower-logs-%s-%s", logArchiveID, cfg.AWS.HomeRegion)
	}

	overrides := state.Overrides()
	globalTier := state.GlobalTier()
	names := make(map[string]struct{})
	for _, ouName := range cfg.OUNames() {
		tier := globalTier
		if override, ok := overrides[ouName]; ok {
			tier = override
		}
		for _, id := range policy.Sorted(tier.Policies()) {
			names[policy.AttachmentName(tier, id)] = struct{}{}
		}
	}
	desired.PolicyNames = make([]string, 0, len(names))
	for name := range names {
		desired.PolicyNames = append(desired.PolicyNames, name)
	}
	sort.Strings(desired.PolicyNames)

	return desired
}

// observe reads the deployed posture back from the provider and the
// results the earlier stages recorded in state.
func observe(ctx *provisioning.Context, desired Desired) (Observed, error) {
	observed := Observed{
		PolicyNames: ctx.State.AttachedPolicies,
		Services:    make(map[string]bool),
	}

	id := ctx.State.LandingZoneID
	if id == "" {
		found, err := ctx.LandingZone.FindLandingZone(ctx)
		if err != nil {
			return Observed{}, errs.New(errs.KindValidation, "validation", "find landing zone", err)
		}
		id = found
	}
	if id == "" {
		observed.LandingZoneState = landingzone.StateNotStarted
	} else {
		details, err := ctx.LandingZone.GetLandingZone(ctx, id)
		if err != nil {
			return Observed{}, errs.New(errs.KindValidation, "validation", "read landing zone", err)
		}
		observed.LandingZoneState = details.State
		observed.LandingZoneVersion = details.Version
		observed.Drifted = details.Drifted
	}

	for _, result := range ctx.State.ServiceResults {
		observed.Services[result.Service] = result.Enabled
	}

	if desired.LogBucket != "" && ctx.LogArchive != nil {
		exists, err := ctx.LogArchive.BucketExists(ctx, desired.LogBucket)
		if err != nil {
			return Observed{}, errs.New(errs.KindValidation, "validation", "check log bucket", err)
		}
		observed.LogBucketExists = exists
	}

	return observed, nil
}
