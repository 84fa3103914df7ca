package config

import (
	"os"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix for configuration overrides taken from the
// environment. A variable is the prefix plus the underscore-joined path of
// the field, e.g. TOWERCTL_AWS_HOME_REGION or TOWERCTL_SECURITY_TIER.
// List-valued fields accept comma-separated values.
const EnvPrefix = "TOWERCTL_"

// ApplyEnvOverrides overlays environment variables onto cfg. Overrides run
// after YAML decoding and before validation, so an invalid override fails
// the same way an invalid file value does.
func ApplyEnvOverrides(cfg *Config) {
	overrideString("AWS_HOME_REGION", &cfg.AWS.HomeRegion)
	overrideStringList("AWS_GOVERNED_REGIONS", &cfg.AWS.GovernedRegions)
	overrideString("AWS_PROFILE", &cfg.AWS.Profile)

	overrideString("ORGANIZATION_SECURITY_OU_NAME", &cfg.Organization.SecurityOUName)

	overrideString("ACCOUNTS_LOG_ARCHIVE_NAME", &cfg.Accounts.LogArchive.Name)
	overrideString("ACCOUNTS_LOG_ARCHIVE_EMAIL", &cfg.Accounts.LogArchive.Email)
	overrideString("ACCOUNTS_AUDIT_NAME", &cfg.Accounts.Audit.Name)
	overrideString("ACCOUNTS_AUDIT_EMAIL", &cfg.Accounts.Audit.Email)

	overrideBool("LOGGING_CLOUDTRAIL_ENABLED", &cfg.Logging.CloudTrailEnabled)
	overrideInt("LOGGING_RETENTION_DAYS", &cfg.Logging.RetentionDays)

	overrideString("LANDING_ZONE_VERSION", &cfg.LandingZone.Version)
	overrideBool("LANDING_ZONE_IDENTITY_CENTER_ENABLED", &cfg.LandingZone.IdentityCenterEnabled)

	overrideString("SECURITY_TIER", &cfg.Security.Tier)
	overrideString("SECURITY_DELEGATED_ADMIN_ACCOUNT", &cfg.Security.DelegatedAdminAccount)
	overrideBoolPtr("SECURITY_SERVICES_CONFIG_RECORDING", &cfg.Security.Services.ConfigRecording)
	overrideBoolPtr("SECURITY_SERVICES_GUARDDUTY", &cfg.Security.Services.GuardDuty)
	overrideBoolPtr("SECURITY_SERVICES_SECURITY_HUB", &cfg.Security.Services.SecurityHub)
}

func lookup(key string) (string, bool) {
	return os.LookupEnv(EnvPrefix + key)
}

func overrideString(key string, dst *string) {
	if val, ok := lookup(key); ok {
		*dst = val
	}
}

func overrideStringList(key string, dst *[]string) {
	if val, ok := lookup(key); ok {
		parts := strings.Split(val, ",")
		out := parts[:0]
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		*dst = out
	}
}

func overrideBool(key string, dst *bool) {
	if val, ok := lookup(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func overrideBoolPtr(key string, dst **bool) {
	if val, ok := lookup(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = &b
		}
	}
}

func overrideInt(key string, dst *int) {
	if val, ok := lookup(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}
