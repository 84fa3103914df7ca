package landingzone

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

func TestIsConflict(t *testing.T) {
	t.Parallel()
	if !IsConflict(apiError("ConflictException")) {
		t.Error("expected ConflictException to be a conflict")
	}
	if IsConflict(apiError("ValidationException")) {
		t.Error("ValidationException should not be a conflict")
	}
}

func TestIsThrottling(t *testing.T) {
	t.Parallel()
	if !IsThrottling(apiError("ThrottlingException")) {
		t.Error("expected ThrottlingException to be throttling")
	}
	if !IsThrottling(fmt.Errorf("calling api: %w", apiError("TooManyRequestsException"))) {
		t.Error("expected wrapped throttling error to be detected")
	}
	if IsThrottling(nil) {
		t.Error("nil should not be throttling")
	}
}

func TestIsTransient(t *testing.T) {
	t.Parallel()
	if !IsTransient(errors.New("read tcp 10.0.0.2:443: connection reset by peer")) {
		t.Error("expected a plain transport error to be transient")
	}
	if !IsTransient(apiError("ThrottlingException")) {
		t.Error("expected throttling to be transient")
	}
	if !IsTransient(responseError(http.StatusBadGateway)) {
		t.Error("expected a 502 response to be transient")
	}
	if IsTransient(responseError(http.StatusNotFound)) {
		t.Error("a 404 response should not be transient")
	}
	if IsTransient(apiError("ResourceNotFoundException")) {
		t.Error("a typed rejection should not be transient")
	}
	if IsTransient(fmt.Errorf("poll: %w", context.Canceled)) {
		t.Error("cancellation should not be transient")
	}
	if IsTransient(nil) {
		t.Error("nil should not be transient")
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()
	if !IsNotFound(apiError("ResourceNotFoundException")) {
		t.Error("expected ResourceNotFoundException to be not found")
	}
	if IsNotFound(errors.New("plain")) {
		t.Error("plain error should not be not found")
	}
}
