// Package errs defines the error taxonomy shared across towerctl components.
//
// Every failure surfaced to a caller carries a Kind from a closed set, the
// stage it occurred in, and the specific sub-operation. Transient conditions
// are never surfaced directly: they are absorbed by retry logic and escalate
// to one of the other kinds once retries are exhausted.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a towerctl error.
type Kind int

const (
	// KindConfiguration indicates malformed, missing, or contradictory input.
	KindConfiguration Kind = iota + 1
	// KindPrerequisite indicates the environment is not ready (missing roles,
	// organization features disabled).
	KindPrerequisite
	// KindProvisioning indicates account or OU creation failed or timed out.
	KindProvisioning
	// KindPolicy indicates an undefined tier or policy id was referenced.
	KindPolicy
	// KindDeployment indicates a landing-zone operation reached a terminal
	// failure state.
	KindDeployment
	// KindBaseline indicates one or more security services failed to enable.
	KindBaseline
	// KindTransient indicates a retryable network or throttling condition.
	// Internal only; retry loops absorb it.
	KindTransient
	// KindValidation indicates a readiness or reconciliation check failed.
	KindValidation
)

// String returns the kind name used in error output.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindPrerequisite:
		return "prerequisite"
	case KindProvisioning:
		return "provisioning"
	case KindPolicy:
		return "policy"
	case KindDeployment:
		return "deployment"
	case KindBaseline:
		return "baseline"
	case KindTransient:
		return "transient"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// ExitCode maps a kind to the process exit status.
func (k Kind) ExitCode() int {
	switch k {
	case KindConfiguration, KindPolicy:
		return 2
	case KindPrerequisite, KindProvisioning:
		return 3
	case KindDeployment, KindBaseline:
		return 4
	case KindValidation:
		return 5
	default:
		return 1
	}
}

// Error is a classified towerctl error with stage and operation context.
type Error struct {
	Kind    Kind
	Stage   string // pipeline stage, e.g. "landing_zone"
	Op      string // sub-operation, e.g. "create_landing_zone"
	Remedy  string // remediation hint, may be empty
	Wrapped error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error", e.Kind)
	if e.Stage != "" {
		msg += fmt.Sprintf(" in stage %s", e.Stage)
	}
	if e.Op != "" {
		msg += fmt.Sprintf(" during %s", e.Op)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	if e.Remedy != "" {
		msg += " (" + e.Remedy + ")"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// New creates a classified error wrapping err.
func New(kind Kind, stage, op string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Op: op, Wrapped: err}
}

// Newf creates a classified error from a format string.
func Newf(kind Kind, stage, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Stage: stage, Op: op, Wrapped: fmt.Errorf(format, args...)}
}

// WithRemedy attaches a remediation hint and returns the error.
func (e *Error) WithRemedy(remedy string) *Error {
	e.Remedy = remedy
	return e
}

// KindOf returns the kind of err, or 0 if err is not a classified error.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsTransient reports whether err is a retryable transient condition.
func IsTransient(err error) bool {
	return Is(err, KindTransient)
}

// ExitCode returns the exit status for err: 0 for nil, the kind's code for
// classified errors, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if kind := KindOf(err); kind != 0 {
		return kind.ExitCode()
	}
	return 1
}
