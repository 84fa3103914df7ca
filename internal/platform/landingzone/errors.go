package landingzone

import (
	"context"
	"errors"

	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

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

// IsConflict checks if an error indicates a landing zone already exists or a
// conflicting operation is running. Not retryable.
func IsConflict(err error) bool {
	return isAPIErrorCode(err, "ConflictException")
}

// IsThrottling checks if an error indicates rate limiting. Retryable.
func IsThrottling(err error) bool {
	return isAPIErrorCode(err, "ThrottlingException", "TooManyRequestsException")
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

// IsValidation checks if an error indicates an invalid manifest or
// parameters. Not retryable.
func IsValidation(err error) bool {
	return isAPIErrorCode(err, "ValidationException")
}

// IsNotFound checks if an error indicates the landing zone or operation does
// not exist.
func IsNotFound(err error) bool {
	return isAPIErrorCode(err, "ResourceNotFoundException")
}
