package orgs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "simulated"}
}

func responseError(status int) error {
	return &smithyhttp.ResponseError{
		Response: &smithyhttp.Response{Response: &http.Response{StatusCode: status}},
		Err:      errors.New("simulated"),
	}
}

func TestIsThrottling(t *testing.T) {
	t.Parallel()
	if !IsThrottling(apiError("TooManyRequestsException")) {
		t.Error("expected TooManyRequestsException to be throttling")
	}
	if !IsThrottling(apiError("ThrottlingException")) {
		t.Error("expected ThrottlingException to be throttling")
	}
	if IsThrottling(apiError("ValidationException")) {
		t.Error("ValidationException should not be throttling")
	}
	if IsThrottling(nil) {
		t.Error("nil should not be throttling")
	}
}

func TestIsThrottling_Wrapped(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("calling api: %w", apiError("RequestLimitExceeded"))
	if !IsThrottling(err) {
		t.Error("expected wrapped throttling error to be detected")
	}
}

func TestIsTransient(t *testing.T) {
	t.Parallel()
	if !IsTransient(errors.New("read tcp 10.0.0.2:443: connection reset by peer")) {
		t.Error("expected a plain transport error to be transient")
	}
	if !IsTransient(fmt.Errorf("calling api: %w", apiError("ThrottlingException"))) {
		t.Error("expected throttling to be transient")
	}
	if !IsTransient(responseError(http.StatusServiceUnavailable)) {
		t.Error("expected a 503 response to be transient")
	}
	if IsTransient(responseError(http.StatusForbidden)) {
		t.Error("a 403 response should not be transient")
	}
	if IsTransient(apiError("AccessDeniedException")) {
		t.Error("an access denial should not be transient")
	}
	if IsTransient(fmt.Errorf("poll: %w", context.Canceled)) {
		t.Error("cancellation should not be transient")
	}
	if IsTransient(nil) {
		t.Error("nil should not be transient")
	}
}

func TestIsDuplicate(t *testing.T) {
	t.Parallel()
	if !IsDuplicate(apiError("DuplicateOrganizationalUnitException")) {
		t.Error("expected duplicate OU error to be duplicate")
	}
	if !IsDuplicate(apiError("DuplicatePolicyException")) {
		t.Error("expected duplicate policy error to be duplicate")
	}
	if IsDuplicate(errors.New("plain")) {
		t.Error("plain error should not be duplicate")
	}
}

func TestIsConstraintViolation(t *testing.T) {
	t.Parallel()
	if !IsConstraintViolation(apiError("ConstraintViolationException")) {
		t.Error("expected constraint violation to be detected")
	}
	if IsConstraintViolation(apiError("AccessDeniedException")) {
		t.Error("access denied is not a constraint violation")
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()
	if !IsNotFound(apiError("AccountNotFoundException")) {
		t.Error("expected account not found to be detected")
	}
	if !IsNotFound(apiError("AWSOrganizationsNotInUseException")) {
		t.Error("expected organizations-not-in-use to be not found")
	}
}

func TestDuplicateAttachmentTreatedAsSuccess(t *testing.T) {
	t.Parallel()
	if !isDuplicateAttachment(apiError("DuplicatePolicyAttachmentException")) {
		t.Error("expected duplicate attachment to be detected")
	}
}

func TestAlreadyRegisteredTreatedAsSuccess(t *testing.T) {
	t.Parallel()
	if !isAlreadyRegistered(apiError("AccountAlreadyRegisteredException")) {
		t.Error("expected already-registered to be detected")
	}
}

func TestTrustServiceOf(t *testing.T) {
	t.Parallel()
	doc := `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"Service":"controltower.amazonaws.com"},"Action":"sts:AssumeRole"}]}`
	if got := trustServiceOf(doc); got != "controltower.amazonaws.com" {
		t.Errorf("expected controltower.amazonaws.com, got %q", got)
	}
	if got := trustServiceOf("%%%bad"); got != "" {
		t.Errorf("expected empty for undecodable document, got %q", got)
	}
}
