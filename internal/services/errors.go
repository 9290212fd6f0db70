package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration         = errors.New("configuration error")
	ErrValidation            = errors.New("validation error")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrExternalTool          = errors.New("external tool error")
	ErrNetwork               = errors.New("network error")
	ErrNotFound              = errors.New("not found")
)

// ServiceError carries the stage context of a failure alongside its marker so
// the executor can log structured details and surface a clean message.
type ServiceError struct {
	Marker    error
	Stage     string
	Operation string
	Message   string
	Cause     error
}

func (e *ServiceError) Error() string {
	detail := buildDetail(e.Stage, e.Operation, e.Message)
	if e.Cause != nil {
		return fmt.Sprintf("%v: %s: %v", e.Marker, detail, e.Cause)
	}
	return fmt.Sprintf("%v: %s", e.Marker, detail)
}

// Unwrap exposes both the marker and the cause to errors.Is / errors.As.
func (e *ServiceError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Marker != nil {
		out = append(out, e.Marker)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

// Wrap builds an error that includes stage context while tagging it with the
// provided marker for later classification. The marker should be one of the
// exported sentinel errors above or a package-level sentinel that wraps one.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrExternalTool
	}
	return &ServiceError{
		Marker:    marker,
		Stage:     strings.TrimSpace(stage),
		Operation: strings.TrimSpace(operation),
		Message:   strings.TrimSpace(message),
		Cause:     err,
	}
}

// ErrorKind names the taxonomy bucket of a failure.
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindInput         ErrorKind = "input"
	KindUnavailable   ErrorKind = "dependency_unavailable"
	KindExternal      ErrorKind = "external_failure"
	KindNetwork       ErrorKind = "network"
	KindNotFound      ErrorKind = "not_found"
	KindUnknown       ErrorKind = "unknown"
)

// ErrorDetails is the structured view of an error used for logging.
type ErrorDetails struct {
	Kind      ErrorKind
	Stage     string
	Operation string
	Message   string
	Cause     error
}

// Details classifies err and extracts the stage context recorded by Wrap.
func Details(err error) ErrorDetails {
	details := ErrorDetails{Kind: Classify(err)}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		details.Stage = svcErr.Stage
		details.Operation = svcErr.Operation
		details.Message = svcErr.Message
		details.Cause = svcErr.Cause
	}
	return details
}

// Classify maps err onto the failure taxonomy.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrValidation):
		return KindInput
	case errors.Is(err, ErrDependencyUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrExternalTool):
		return KindExternal
	default:
		return KindUnknown
	}
}

// UserMessage returns the human-readable message recorded on a failed job.
// Wrapped errors contribute their message (and the cause when it adds
// information); anything else falls back to err.Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		return strings.TrimSpace(err.Error())
	}
	message := svcErr.Message
	if message == "" {
		message = buildDetail(svcErr.Stage, svcErr.Operation, "")
	}
	if svcErr.Cause != nil {
		cause := strings.TrimSpace(svcErr.Cause.Error())
		if cause != "" && !strings.Contains(message, cause) {
			message = message + ": " + cause
		}
	}
	return message
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
