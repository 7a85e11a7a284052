// Package errors defines the error taxonomy shared by every projectpilot
// component.
//
// # Error Types
//
//   - ValidationError: bad or missing input, reported immediately and never retried
//   - NotFoundError: a path, project id, or editor id is absent
//   - ToolUnavailableError: a required external command is missing from PATH
//   - ProcessLaunchError: a child process could not be started
//   - StorageError: backend initialization or I/O failure
//   - RemoteOperationError: a clone failed, classified from the tool's stderr
//
// Every type implements UserMessage, which the boundary layer uses to build
// result values. UserMessage(err) walks the chain and falls back to err.Error().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Kind classifies an error for callers that branch on the category.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindToolUnavailable
	KindProcessLaunch
	KindStorage
	KindRemoteOperation
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindToolUnavailable:
		return "tool_unavailable"
	case KindProcessLaunch:
		return "process_launch"
	case KindStorage:
		return "storage"
	case KindRemoteOperation:
		return "remote_operation"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrNotConnected is returned by write operations on a store with no backend.
	ErrNotConnected = New("store not connected")
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrUnsupported indicates the current platform cannot perform the operation.
	ErrUnsupported = New("operation not supported on this platform")
)

// -----------------------------------------------------------------------------
// Base Error
// -----------------------------------------------------------------------------

type baseError struct {
	message string
	cause   error
}

func (e *baseError) Unwrap() error {
	return e.cause
}

func (e *baseError) format(prefix string, parts []string) string {
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", prefix, strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// ValidationError represents bad or missing input.
//
// Example:
//
//	err := errors.NewValidationError("url", "repository URL is required")
//	fmt.Println(err) // "validation error [field=url]: repository URL is required"
type ValidationError struct {
	baseError
	Field string
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{baseError: baseError{message: message}, Field: field}
}

func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, "field="+e.Field)
	}
	return e.format("validation error", parts)
}

func (e *ValidationError) Kind() Kind          { return KindValidation }
func (e *ValidationError) UserMessage() string { return e.message }

// NotFoundError represents a missing path, project, or editor.
type NotFoundError struct {
	baseError
	Resource string
	ID       string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{message: resource + " not found"},
		Resource:  resource,
		ID:        id,
	}
}

func (e *NotFoundError) Error() string {
	var parts []string
	if e.ID != "" {
		parts = append(parts, fmt.Sprintf("%s=%s", e.Resource, e.ID))
	}
	return e.format("not found", parts)
}

func (e *NotFoundError) Kind() Kind { return KindNotFound }

func (e *NotFoundError) UserMessage() string {
	if e.ID == "" {
		return capitalize(e.message)
	}
	return fmt.Sprintf("%s not found: %s", capitalize(e.Resource), e.ID)
}

// ToolUnavailableError reports a required external command missing from PATH.
type ToolUnavailableError struct {
	baseError
	Tool string
}

// NewToolUnavailableError creates a new ToolUnavailableError.
func NewToolUnavailableError(tool string) *ToolUnavailableError {
	return &ToolUnavailableError{
		baseError: baseError{message: "command not found in PATH"},
		Tool:      tool,
	}
}

func (e *ToolUnavailableError) Error() string {
	return e.format("tool unavailable", []string{"tool=" + e.Tool})
}

func (e *ToolUnavailableError) Kind() Kind { return KindToolUnavailable }

// UserMessage names the missing command and how to fix it.
func (e *ToolUnavailableError) UserMessage() string {
	return fmt.Sprintf("%s is not installed or not in PATH. Install %s and make sure the '%s' command is available, then try again.",
		e.Tool, e.Tool, e.Tool)
}

// ProcessLaunchError represents a failure to start a child process.
type ProcessLaunchError struct {
	baseError
	Command  string
	Name     string
	NotFound bool
}

// NewProcessLaunchError creates a new ProcessLaunchError.
func NewProcessLaunchError(command string, cause error) *ProcessLaunchError {
	return &ProcessLaunchError{
		baseError: baseError{message: "failed to start process", cause: cause},
		Command:   command,
	}
}

// WithNotFound marks the error as a missing executable.
func (e *ProcessLaunchError) WithNotFound(notFound bool) *ProcessLaunchError {
	e.NotFound = notFound
	return e
}

// WithName sets the display name used in the user message.
func (e *ProcessLaunchError) WithName(name string) *ProcessLaunchError {
	e.Name = name
	return e
}

func (e *ProcessLaunchError) Error() string {
	parts := []string{"command=" + e.Command}
	if e.NotFound {
		parts = append(parts, "not_found")
	}
	return e.format("launch error", parts)
}

func (e *ProcessLaunchError) Kind() Kind { return KindProcessLaunch }

func (e *ProcessLaunchError) UserMessage() string {
	name := e.Name
	if name == "" {
		name = e.Command
	}
	if e.NotFound {
		return fmt.Sprintf("%s command '%s' not found in PATH", name, e.Command)
	}
	if e.cause != nil {
		return fmt.Sprintf("Failed to open %s: %v", name, e.cause)
	}
	return fmt.Sprintf("Failed to open %s", name)
}

// StorageError represents a backend initialization or I/O failure.
type StorageError struct {
	baseError
	Op      string
	Backend string
}

// NewStorageError creates a new StorageError.
func NewStorageError(op string, cause error) *StorageError {
	return &StorageError{
		baseError: baseError{message: op + " failed", cause: cause},
		Op:        op,
	}
}

// WithBackend records which backend produced the error.
func (e *StorageError) WithBackend(kind string) *StorageError {
	e.Backend = kind
	return e
}

func (e *StorageError) Error() string {
	var parts []string
	if e.Backend != "" {
		parts = append(parts, "backend="+e.Backend)
	}
	return e.format("storage error", parts)
}

func (e *StorageError) Kind() Kind { return KindStorage }

func (e *StorageError) UserMessage() string {
	if errors.Is(e.cause, ErrNotConnected) {
		return "Project storage is not available"
	}
	return fmt.Sprintf("Could not %s projects: %v", e.Op, e.cause)
}

// RemoteOperationError represents a failed clone, classified from tool output.
type RemoteOperationError struct {
	baseError
	Op     string
	Reason string
}

// NewRemoteOperationError creates a new RemoteOperationError.
func NewRemoteOperationError(op, reason string, cause error) *RemoteOperationError {
	return &RemoteOperationError{
		baseError: baseError{message: reason, cause: cause},
		Op:        op,
		Reason:    reason,
	}
}

func (e *RemoteOperationError) Error() string {
	return e.format("remote error", []string{"op=" + e.Op})
}

func (e *RemoteOperationError) Kind() Kind { return KindRemoteOperation }

func (e *RemoteOperationError) UserMessage() string {
	return fmt.Sprintf("Failed to %s repository: %s", e.Op, e.Reason)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

type kinded interface {
	Kind() Kind
}

type userMessager interface {
	UserMessage() string
}

// KindOf returns the Kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// UserMessage renders err as text suitable for a notification.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var um userMessager
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	switch {
	case errors.Is(err, ErrNotConnected):
		return "Project storage is not available"
	case errors.Is(err, ErrUnsupported):
		return "This operation is not supported on this platform"
	}
	return err.Error()
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
