// Package reconcile compares the desired landing zone posture against what
// is actually deployed. The comparison itself is pure; the validation stage
// gathers the observed side and acts on the report.
package reconcile

import (
	"fmt"
	"sort"
	"time"

	"github.com/imamik/towerctl/internal/platform/landingzone"
)

// Class distinguishes why a field is out of sync.
type Class string

const (
	// ClassDrift means the deployed state diverged from the desired state
	// and needs an explicit remediation.
	ClassDrift Class = "drift"
	// ClassPending means an operation already underway is expected to
	// close the gap without intervention.
	ClassPending Class = "pending"
)

// Mismatch is one field that differs between desired and observed state.
type Mismatch struct {
	Field       string
	Desired     string
	Observed    string
	Class       Class
	Remediation string
}

// Desired is the posture the configuration and policy state call for.
type Desired struct {
	LandingZoneVersion string
	PolicyNames        []string        // expected SCP attachment names
	Services           map[string]bool // service name -> should be enabled
	LogBucket          string          // expected log archive bucket, empty to skip
}

// Observed is the posture read back from the provider.
type Observed struct {
	LandingZoneState   landingzone.State
	LandingZoneVersion string
	Drifted            bool
	PolicyNames        []string
	Services           map[string]bool
	LogBucketExists    bool
}

// Report lists every mismatch found in one comparison.
type Report struct {
	CheckedAt  time.Time
	Mismatches []Mismatch
}

// InSync reports whether desired and observed agree.
func (r *Report) InSync() bool { return len(r.Mismatches) == 0 }

// Drifts returns the mismatches that need intervention.
func (r *Report) Drifts() []Mismatch {
	var drifts []Mismatch
	for _, m := range r.Mismatches {
		if m.Class == ClassDrift {
			drifts = append(drifts, m)
		}
	}
	return drifts
}

// Compare evaluates observed against desired and classifies every
// difference. The result is deterministic: mismatches appear in a fixed
// field order and policy names are sorted.
func Compare(desired Desired, observed Observed) *Report {
	report := &Report{CheckedAt: time.Now()}

	// On a fresh organization nothing has been deployed yet, so the
	// absent policies and services below are expected work, not drift.
	dependentClass := ClassDrift

	switch observed.LandingZoneState {
	case landingzone.StateAvailable:
		// In sync unless drifted below.
	case landingzone.StateInProgress:
		report.add(Mismatch{
			Field:       "landing_zone.state",
			Desired:     string(landingzone.StateAvailable),
			Observed:    string(observed.LandingZoneState),
			Class:       ClassPending,
			Remediation: "an operation is running, re-check once it finishes",
		})
	case landingzone.StateNotStarted:
		dependentClass = ClassPending
		report.add(Mismatch{
			Field:       "landing_zone.state",
			Desired:     string(landingzone.StateAvailable),
			Observed:    string(observed.LandingZoneState),
			Class:       ClassPending,
			Remediation: "run deploy to create the landing zone",
		})
	default:
		report.add(Mismatch{
			Field:       "landing_zone.state",
			Desired:     string(landingzone.StateAvailable),
			Observed:    string(observed.LandingZoneState),
			Class:       ClassDrift,
			Remediation: "run deploy to create or repair the landing zone",
		})
	}

	if observed.Drifted {
		report.add(Mismatch{
			Field:       "landing_zone.drift",
			Desired:     "in sync",
			Observed:    "drifted",
			Class:       ClassDrift,
			Remediation: "run deploy to reset the landing zone to the declared manifest",
		})
	}

	if observed.LandingZoneVersion != "" && observed.LandingZoneVersion != desired.LandingZoneVersion {
		report.add(Mismatch{
			Field:       "landing_zone.version",
			Desired:     desired.LandingZoneVersion,
			Observed:    observed.LandingZoneVersion,
			Class:       ClassDrift,
			Remediation: "run deploy to update the landing zone version",
		})
	}

	observedNames := make(map[string]struct{}, len(observed.PolicyNames))
	for _, name := range observed.PolicyNames {
		observedNames[name] = struct{}{}
	}
	missing := make([]string, 0)
	for _, name := range desired.PolicyNames {
		if _, ok := observedNames[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	for _, name := range missing {
		report.add(Mismatch{
			Field:       "policy." + name,
			Desired:     "attached",
			Observed:    "missing",
			Class:       dependentClass,
			Remediation: "run deploy to attach the guardrail policies",
		})
	}

	serviceNames := make([]string, 0, len(desired.Services))
	for name := range desired.Services {
		serviceNames = append(serviceNames, name)
	}
	sort.Strings(serviceNames)
	for _, name := range serviceNames {
		if desired.Services[name] && !observed.Services[name] {
			report.add(Mismatch{
				Field:       "service." + name,
				Desired:     "enabled",
				Observed:    "disabled",
				Class:       dependentClass,
				Remediation: fmt.Sprintf("run baseline to enable %s across the organization", name),
			})
		}
	}

	if desired.LogBucket != "" && !observed.LogBucketExists {
		report.add(Mismatch{
			Field:       "logging.bucket",
			Desired:     desired.LogBucket,
			Observed:    "absent",
			Class:       ClassPending,
			Remediation: "the landing zone provisions the bucket, re-check after deployment settles",
		})
	}

	return report
}

func (r *Report) add(m Mismatch) {
	r.Mismatches = append(r.Mismatches, m)
}
