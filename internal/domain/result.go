package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrServiceDisabled is returned for every invocation while the kill
// switch is active. The literal "service disabled" message is part of the
// wire contract; operator tooling matches on it.
var ErrServiceDisabled = errors.New("service disabled")

// CorrelationFields are the data fields every invocation must carry, in
// the exact order they are checked. Validation short-circuits on the first
// missing field.
var CorrelationFields = []string{
	"agent_id",
	"process_id",
	"blueprint_id",
	"timestamp_last_touched",
}

// InvocationResult is the outcome of a successful upstream call.
type InvocationResult struct {
	// Result is the upstream response body, decoded from JSON.
	Result interface{}

	// ExecutionTime is the measured wall-clock duration of the upstream
	// call, request write to response decode.
	ExecutionTime time.Duration
}

// MissingFieldError reports a request whose data is missing one of the
// required correlation fields. The message must literally embed the field
// name; downstream callers branch on it by substring.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Missing required field: %s", e.Field)
}

// FailureKind classifies how an upstream invocation failed.
type FailureKind string

const (
	// FailureUpstream means the upstream API answered with a non-2xx status.
	FailureUpstream FailureKind = "upstream_error"
	// FailureNetwork means the request never completed (connection refused,
	// DNS failure, reset, ...).
	FailureNetwork FailureKind = "network_error"
	// FailureTimeout means the bounded call deadline elapsed.
	FailureTimeout FailureKind = "timeout_error"
	// FailureDecode means the upstream answered 2xx but the body was not
	// valid JSON.
	FailureDecode FailureKind = "decode_error"
)

// InvocationError reports a failed upstream invocation. Message is safe to
// surface to callers: it never carries credentials, URLs, or stack traces.
type InvocationError struct {
	Kind    FailureKind
	Message string
}

func (e *InvocationError) Error() string {
	return e.Message
}

// ServiceStatus is the snapshot reported by the status operation. It is
// recomputed on every call; nothing here is cached.
type ServiceStatus struct {
	Service          string
	KillSwitch       bool
	APIKeyConfigured bool
}
