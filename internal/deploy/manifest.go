// Package deploy implements the landing zone stage: the declarative
// manifest, the create-or-update decision, operation polling, and the
// service control policies attached once the zone is in place.
package deploy

import (
	"regexp"

	"github.com/imamik/towerctl/internal/config"
	"github.com/imamik/towerctl/internal/errs"
)

var accountIDPattern = regexp.MustCompile(`^\d{12}$`)

// BuildManifest assembles the landing zone manifest from the configuration
// and the shared account ids resolved by the prerequisites stage.
func BuildManifest(cfg *config.Config, logArchiveID, auditID string) (map[string]any, error) {
	if err := validateManifestInputs(cfg, logArchiveID, auditID); err != nil {
		return nil, err
	}

	structure := map[string]any{
		"security": map[string]any{"name": cfg.Organization.SecurityOUName},
	}
	if len(cfg.Organization.AdditionalOUs) > 0 {
		structure["sandbox"] = map[string]any{"name": cfg.Organization.AdditionalOUs[0].Name}
	}

	logging := map[string]any{
		"accountId": logArchiveID,
		"enabled":   cfg.Logging.CloudTrailEnabled,
	}
	if cfg.Logging.RetentionDays > 0 {
		logging["configurations"] = map[string]any{
			"loggingBucket":       map[string]any{"retentionDays": cfg.Logging.RetentionDays},
			"accessLoggingBucket": map[string]any{"retentionDays": cfg.Logging.RetentionDays},
		}
	}

	return map[string]any{
		"governedRegions":       cfg.AWS.GovernedRegions,
		"organizationStructure": structure,
		"centralizedLogging":    logging,
		"securityRoles":         map[string]any{"accountId": auditID},
		"accessManagement":      map[string]any{"enabled": cfg.LandingZone.IdentityCenterEnabled},
	}, nil
}

func validateManifestInputs(cfg *config.Config, logArchiveID, auditID string) error {
	if len(cfg.AWS.GovernedRegions) == 0 {
		return errs.Newf(errs.KindConfiguration, "landing_zone", "build manifest",
			"no governed regions configured")
	}
	if cfg.Organization.SecurityOUName == "" {
		return errs.Newf(errs.KindConfiguration, "landing_zone", "build manifest",
			"security OU name is empty")
	}
	if !accountIDPattern.MatchString(logArchiveID) {
		return errs.Newf(errs.KindConfiguration, "landing_zone", "build manifest",
			"log archive account id %q is not a 12-digit account id", logArchiveID)
	}
	if !accountIDPattern.MatchString(auditID) {
		return errs.Newf(errs.KindConfiguration, "landing_zone", "build manifest",
			"audit account id %q is not a 12-digit account id", auditID)
	}
	if logArchiveID == auditID {
		return errs.Newf(errs.KindConfiguration, "landing_zone", "build manifest",
			"log archive and audit must be distinct accounts")
	}
	return nil
}
