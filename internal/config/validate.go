package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/imamik/towerctl/internal/errs"
)

// MaxGovernedRegions is the provider's governed-region limit per landing zone.
const MaxGovernedRegions = 10

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate checks the configuration and normalizes the governed-region list.
// A home region missing from governed regions is inserted at the head rather
// than rejected, matching the provider console's behavior.
func (c *Config) Validate() error {
	if c.AWS.HomeRegion == "" {
		return configErr("aws.home_region is required")
	}

	if !containsRegion(c.AWS.GovernedRegions, c.AWS.HomeRegion) {
		c.AWS.GovernedRegions = append([]string{c.AWS.HomeRegion}, c.AWS.GovernedRegions...)
	}
	if len(c.AWS.GovernedRegions) > MaxGovernedRegions {
		return configErr("aws.governed_regions has %d entries: at most %d regions may be governed",
			len(c.AWS.GovernedRegions), MaxGovernedRegions)
	}

	if err := c.validateAccounts(); err != nil {
		return err
	}
	if err := c.validateOrganization(); err != nil {
		return err
	}

	switch c.Security.Tier {
	case "basic", "standard", "strict":
	default:
		return configErr("security.tier %q is invalid: must be basic, standard, or strict", c.Security.Tier)
	}

	if c.Logging.RetentionDays < 0 {
		return configErr("logging.retention_days must not be negative")
	}

	return nil
}

func (c *Config) validateAccounts() error {
	for _, spec := range []struct {
		field string
		acct  AccountSpec
	}{
		{"accounts.log_archive", c.Accounts.LogArchive},
		{"accounts.audit", c.Accounts.Audit},
	} {
		if spec.acct.Name == "" {
			return configErr("%s.name is required", spec.field)
		}
		if !emailPattern.MatchString(spec.acct.Email) {
			return configErr("%s.email %q is not a valid email address", spec.field, spec.acct.Email)
		}
	}

	if strings.EqualFold(c.Accounts.LogArchive.Email, c.Accounts.Audit.Email) {
		return configErr("log_archive and audit accounts must use different email addresses")
	}
	if c.Accounts.LogArchive.Name == c.Accounts.Audit.Name {
		return configErr("log_archive and audit accounts must use different names")
	}
	return nil
}

func (c *Config) validateOrganization() error {
	seen := map[string]bool{c.Organization.SecurityOUName: true}
	for _, ou := range c.Organization.AdditionalOUs {
		if ou.Name == "" {
			return configErr("organization.additional_ous entries must have a name")
		}
		if seen[ou.Name] {
			return configErr("duplicate OU name %q", ou.Name)
		}
		seen[ou.Name] = true
	}
	return nil
}

// OUNames returns all desired OU names, security OU first.
func (c *Config) OUNames() []string {
	names := []string{c.Organization.SecurityOUName}
	for _, ou := range c.Organization.AdditionalOUs {
		names = append(names, ou.Name)
	}
	return names
}

func containsRegion(regions []string, region string) bool {
	for _, r := range regions {
		if r == region {
			return true
		}
	}
	return false
}

func configErr(format string, args ...any) error {
	return errs.New(errs.KindConfiguration, "", "validate_config", fmt.Errorf(format, args...))
}
