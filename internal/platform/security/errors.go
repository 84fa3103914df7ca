package security

import (
	"errors"

	"github.com/aws/smithy-go"
)

func isAPIErrorCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.ErrorCode() == code {
			return true
		}
	}
	return false
}

// IsThrottling reports whether the error is a rate-limit response that a
// retry with backoff can recover from.
func IsThrottling(err error) bool {
	return isAPIErrorCode(err,
		"ThrottlingException",
		"TooManyRequestsException",
		"RequestLimitExceeded",
	)
}

// isAggregatorNotFound matches the Config response for an aggregator name
// that has never been created.
func isAggregatorNotFound(err error) bool {
	return isAPIErrorCode(err, "NoSuchConfigurationAggregatorException")
}

// isHubNotEnabled matches the DescribeHub response in an account where
// Security Hub has not been enabled yet.
func isHubNotEnabled(err error) bool {
	return isAPIErrorCode(err,
		"InvalidAccessException",
		"ResourceNotFoundException",
	)
}

// isAlreadyEnabled matches the EnableSecurityHub response when the hub is
// already active.
func isAlreadyEnabled(err error) bool {
	return isAPIErrorCode(err, "ResourceConflictException")
}
