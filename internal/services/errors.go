package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrConfiguration   = errors.New("configuration error")
	ErrNotFound        = errors.New("not found")
	ErrExternalService = errors.New("external service error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalService
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
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

// Remote holds the error code and message reported by a remote service.
type Remote struct {
	Code    string
	Message string
}

// RemoteDetail extracts the service error code and message from err. When err
// is not an API error the code is empty and the message is err's text.
func RemoteDetail(err error) Remote {
	if err == nil {
		return Remote{}
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return Remote{Code: apiErr.ErrorCode(), Message: apiErr.ErrorMessage()}
	}
	return Remote{Message: err.Error()}
}

func (r Remote) String() string {
	switch {
	case r.Code != "" && r.Message != "":
		return r.Code + ": " + r.Message
	case r.Code != "":
		return r.Code
	default:
		return r.Message
	}
}

// DispatchError reports that the orchestration service rejected a submission.
type DispatchError struct {
	Target string
	Remote
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("start execution on %s: %s", e.Target, e.Remote)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// LookupError reports that an execution could not be described.
type LookupError struct {
	Handle string
	Remote
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("describe execution %s: %s", e.Handle, e.Remote)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Is reports unknown executions as ErrNotFound.
func (e *LookupError) Is(target error) bool {
	return target == ErrNotFound && e.Code == "ExecutionDoesNotExist"
}

// ProjectionError reports that a narrowed view was requested but the record
// does not yet carry the data it depends on.
type ProjectionError struct {
	Handle string
	Reason string
}

func (e *ProjectionError) Error() string {
	if e.Handle == "" {
		return "project output uris: " + e.Reason
	}
	return fmt.Sprintf("project output uris for %s: %s", e.Handle, e.Reason)
}

// JobCreationError reports that the bulk job service rejected a job.
type JobCreationError struct {
	AccountID string
	Remote
	Err error
}

func (e *JobCreationError) Error() string {
	return fmt.Sprintf("create batch job in account %s: %s", e.AccountID, e.Remote)
}

func (e *JobCreationError) Unwrap() error { return e.Err }
