package orgs

import (
	"context"
	"errors"

	orgtypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// isAPIErrorCode checks if the error is an AWS API error with one of the
// given codes.
func isAPIErrorCode(err error, codes ...string) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		for _, c := range codes {
			if code == c {
				return true
			}
		}
	}
	return false
}

// IsThrottling checks if an error indicates throttling or rate limiting.
// These errors are retryable.
func IsThrottling(err error) bool {
	var tmr *orgtypes.TooManyRequestsException
	if errors.As(err, &tmr) {
		return true
	}
	return isAPIErrorCode(err,
		"TooManyRequestsException",
		"ThrottlingException",
		"RequestLimitExceeded",
	)
}

// IsTransient checks if an error is safe to retry on the next poll:
// throttling, 5xx responses, and transport failures that never carried a
// provider answer. Any other typed API error means the provider rejected
// the request, and asking again will not change that. Cancellation is
// never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if IsThrottling(err) {
		return true
	}
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode() >= 500
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return false
	}
	// Connection resets, DNS failures, and client-side timeouts reach
	// here as plain wrapped errors.
	return true
}

// IsDuplicate checks if an error indicates the entity already exists.
// These errors are structural and must not be retried.
func IsDuplicate(err error) bool {
	var dup *orgtypes.DuplicateOrganizationalUnitException
	if errors.As(err, &dup) {
		return true
	}
	var dupPolicy *orgtypes.DuplicatePolicyException
	if errors.As(err, &dupPolicy) {
		return true
	}
	return isAPIErrorCode(err,
		"DuplicateOrganizationalUnitException",
		"DuplicatePolicyException",
		"DuplicateAccountException",
		"EntityAlreadyExists",
	)
}

// IsNotFound checks if an error indicates a missing entity.
func IsNotFound(err error) bool {
	return isAPIErrorCode(err,
		"AccountNotFoundException",
		"OrganizationalUnitNotFoundException",
		"PolicyNotFoundException",
		"NoSuchEntity",
		"AWSOrganizationsNotInUseException",
	)
}

// IsConstraintViolation checks if an error indicates an organization quota or
// constraint was hit, e.g. a reused account email.
func IsConstraintViolation(err error) bool {
	var cve *orgtypes.ConstraintViolationException
	if errors.As(err, &cve) {
		return true
	}
	return isAPIErrorCode(err, "ConstraintViolationException")
}

// isDuplicateAttachment checks if an error indicates the policy is already
// attached to the target.
func isDuplicateAttachment(err error) bool {
	var dpa *orgtypes.DuplicatePolicyAttachmentException
	if errors.As(err, &dpa) {
		return true
	}
	return isAPIErrorCode(err, "DuplicatePolicyAttachmentException")
}

// isAlreadyRegistered checks if an error indicates the delegated
// administrator is already registered.
func isAlreadyRegistered(err error) bool {
	var aar *orgtypes.AccountAlreadyRegisteredException
	if errors.As(err, &aar) {
		return true
	}
	return isAPIErrorCode(err, "AccountAlreadyRegisteredException")
}
