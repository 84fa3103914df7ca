package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable poll and retry values.
// These values can be customized via environment variables.
type Timeouts struct {
	DeployPollInterval  time.Duration // Interval between landing-zone status polls
	DeployMaxWait       time.Duration // Maximum total wait for landing-zone deployment
	AccountPollInterval time.Duration // Interval between account-creation status polls
	AccountMaxWait      time.Duration // Maximum total wait for account creation
	RetryMaxAttempts    int           // Maximum number of retry attempts for transient errors
	RetryInitialDelay   time.Duration // Initial delay between retries
	CheckConcurrency    int           // Worker bound for independent read-only checks
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - TOWERCTL_TIMEOUT_DEPLOY_POLL (default: 30s)
//   - TOWERCTL_TIMEOUT_DEPLOY_MAX_WAIT (default: 90m)
//   - TOWERCTL_TIMEOUT_ACCOUNT_POLL (default: 15s)
//   - TOWERCTL_TIMEOUT_ACCOUNT_MAX_WAIT (default: 15m)
//   - TOWERCTL_RETRY_MAX_ATTEMPTS (default: 5)
//   - TOWERCTL_RETRY_INITIAL_DELAY (default: 1s)
//   - TOWERCTL_CHECK_CONCURRENCY (default: 4)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		DeployPollInterval:  parseEnvDuration("TOWERCTL_TIMEOUT_DEPLOY_POLL", 30*time.Second),
		DeployMaxWait:       parseEnvDuration("TOWERCTL_TIMEOUT_DEPLOY_MAX_WAIT", 90*time.Minute),
		AccountPollInterval: parseEnvDuration("TOWERCTL_TIMEOUT_ACCOUNT_POLL", 15*time.Second),
		AccountMaxWait:      parseEnvDuration("TOWERCTL_TIMEOUT_ACCOUNT_MAX_WAIT", 15*time.Minute),
		RetryMaxAttempts:    parseEnvInt("TOWERCTL_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay:   parseEnvDuration("TOWERCTL_RETRY_INITIAL_DELAY", 1*time.Second),
		CheckConcurrency:    parseEnvInt("TOWERCTL_CHECK_CONCURRENCY", 4),
	}
}

// parseEnvDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseEnvDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseEnvInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseEnvInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
