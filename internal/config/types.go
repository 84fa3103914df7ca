// Package config defines the configuration structure and methods for the application.
package config

// Config holds the deployment configuration. It is loaded once and passed
// explicitly to every component; nothing reads it through ambient state.
type Config struct {
	AWS          AWSConfig          `mapstructure:"aws" yaml:"aws"`
	Organization OrganizationConfig `mapstructure:"organization" yaml:"organization"`
	Accounts     AccountsConfig     `mapstructure:"accounts" yaml:"accounts"`
	Logging      LoggingConfig      `mapstructure:"logging" yaml:"logging"`
	LandingZone  LandingZoneConfig  `mapstructure:"landing_zone" yaml:"landing_zone"`
	Security     SecurityConfig     `mapstructure:"security" yaml:"security"`
}

// AWSConfig holds provider-level settings.
type AWSConfig struct {
	HomeRegion string `mapstructure:"home_region" yaml:"home_region"`

	// GovernedRegions are the regions the landing zone governs. The home
	// region is inserted at the head if missing. At most ten entries.
	GovernedRegions []string `mapstructure:"governed_regions" yaml:"governed_regions"`

	// Profile selects a shared-credentials profile; empty uses the default chain.
	Profile string `mapstructure:"profile" yaml:"profile"`
}

// OrganizationConfig describes the desired OU structure.
type OrganizationConfig struct {
	// SecurityOUName is the foundational OU holding the shared accounts.
	// Default: "Security".
	SecurityOUName string `mapstructure:"security_ou_name" yaml:"security_ou_name"`

	// AdditionalOUs are created under the root alongside the security OU.
	AdditionalOUs []OUSpec `mapstructure:"additional_ous" yaml:"additional_ous"`
}

// OUSpec names one organizational unit.
type OUSpec struct {
	Name string `mapstructure:"name" yaml:"name"`
}

// AccountsConfig holds the shared-account specifications.
type AccountsConfig struct {
	LogArchive AccountSpec `mapstructure:"log_archive" yaml:"log_archive"`
	Audit      AccountSpec `mapstructure:"audit" yaml:"audit"`
}

// AccountSpec describes one account to ensure.
type AccountSpec struct {
	Name  string `mapstructure:"name" yaml:"name"`
	Email string `mapstructure:"email" yaml:"email"`
}

// LoggingConfig holds centralized-logging settings.
type LoggingConfig struct {
	CloudTrailEnabled bool `mapstructure:"cloudtrail_enabled" yaml:"cloudtrail_enabled"`

	// RetentionDays applies to the logging and access-logging buckets.
	// Zero means provider default.
	RetentionDays int `mapstructure:"retention_days" yaml:"retention_days"`
}

// LandingZoneConfig holds landing-zone deployment settings.
type LandingZoneConfig struct {
	// Version of the landing zone schema. Default: "3.3".
	Version string `mapstructure:"version" yaml:"version"`

	// IdentityCenterEnabled adds the accessManagement section to the manifest.
	IdentityCenterEnabled bool `mapstructure:"identity_center_enabled" yaml:"identity_center_enabled"`
}

// SecurityConfig holds security-baseline settings.
type SecurityConfig struct {
	// Tier is the global guardrail tier: basic, standard, or strict.
	// Default: "standard".
	Tier string `mapstructure:"tier" yaml:"tier"`

	// Services toggles the three organization-wide security services.
	Services ServicesConfig `mapstructure:"services" yaml:"services"`

	// DelegatedAdminAccount overrides the audit account as delegated
	// administrator. Empty uses the audit account.
	DelegatedAdminAccount string `mapstructure:"delegated_admin_account" yaml:"delegated_admin_account"`
}

// ServicesConfig holds per-service enablement flags.
type ServicesConfig struct {
	ConfigRecording *bool `mapstructure:"config_recording" yaml:"config_recording"`
	GuardDuty       *bool `mapstructure:"guardduty" yaml:"guardduty"`
	SecurityHub     *bool `mapstructure:"security_hub" yaml:"security_hub"`
}

// Enabled reports a service flag with enabled-by-default semantics.
func enabled(flag *bool) bool {
	return flag == nil || *flag
}

// ConfigRecordingEnabled reports whether organization-wide configuration
// recording should be enabled.
func (s ServicesConfig) ConfigRecordingEnabled() bool { return enabled(s.ConfigRecording) }

// GuardDutyEnabled reports whether organization-wide threat detection should
// be enabled.
func (s ServicesConfig) GuardDutyEnabled() bool { return enabled(s.GuardDuty) }

// SecurityHubEnabled reports whether organization-wide findings aggregation
// should be enabled.
func (s ServicesConfig) SecurityHubEnabled() bool { return enabled(s.SecurityHub) }

// DelegatedAdmin returns the delegated administrator account id, falling
// back to the resolved audit account id.
func (s SecurityConfig) DelegatedAdmin(auditAccountID string) string {
	if s.DelegatedAdminAccount != "" {
		return s.DelegatedAdminAccount
	}
	return auditAccountID
}
