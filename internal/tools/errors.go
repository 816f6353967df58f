package tools

import (
	"errors"
	"fmt"
	"strings"
)

// ToolError represents a failure raised while looking up or invoking a tool.
type ToolError struct {
	Code       string `json:"code"`
	ToolID     string `json:"tool_id,omitempty"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	Cause      error  `json:"-"`
}

// Error implements the error interface
func (e *ToolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *ToolError) Unwrap() error {
	return e.Cause
}

// Error codes for tool operations
const (
	ErrConfigNotFound    = "CONFIG_NOT_FOUND"
	ErrToolNotFound      = "TOOL_NOT_FOUND"
	ErrToolMisconfigured = "TOOL_MISCONFIGURED"
	ErrInvalidInput      = "INVALID_INPUT"
	ErrRequestBuild      = "REQUEST_BUILD"
	ErrTransport         = "TRANSPORT"
	ErrHTTPStatus        = "HTTP_STATUS"
	ErrResponseParse     = "RESPONSE_PARSE"
)

// CodeOf extracts the error code from err, or "UNKNOWN_ERROR".
func CodeOf(err error) string {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Code
	}
	return "UNKNOWN_ERROR"
}

// NewConfigNotFoundError creates a config not found error
func NewConfigNotFoundError(path string) *ToolError {
	return &ToolError{
		Code:    ErrConfigNotFound,
		Message: fmt.Sprintf("configuration file not found: %s", path),
	}
}

// NewToolNotFoundError creates a tool not found error
func NewToolNotFoundError(toolID string) *ToolError {
	return &ToolError{
		Code:    ErrToolNotFound,
		ToolID:  toolID,
		Message: fmt.Sprintf("tool not found: %s", toolID),
	}
}

// NewToolMisconfiguredError reports a definition that cannot be invoked
func NewToolMisconfiguredError(toolID string, missing []string) *ToolError {
	return &ToolError{
		Code:    ErrToolMisconfigured,
		ToolID:  toolID,
		Message: fmt.Sprintf("tool %s is missing %s", toolID, strings.Join(missing, ", ")),
	}
}

func NewInvalidInputError(toolID string, cause error) *ToolError {
	return &ToolError{
		Code:    ErrInvalidInput,
		ToolID:  toolID,
		Message: "input does not match the tool's input schema",
		Cause:   cause,
	}
}

func NewRequestBuildError(toolID string, cause error) *ToolError {
	return &ToolError{
		Code:    ErrRequestBuild,
		ToolID:  toolID,
		Message: "failed to build request",
		Cause:   cause,
	}
}

func NewTransportError(toolID string, cause error) *ToolError {
	return &ToolError{
		Code:    ErrTransport,
		ToolID:  toolID,
		Message: "request failed",
		Cause:   cause,
	}
}

// NewHTTPStatusError creates an error for a non-2xx response
func NewHTTPStatusError(toolID string, statusCode int) *ToolError {
	return &ToolError{
		Code:       ErrHTTPStatus,
		ToolID:     toolID,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("unexpected status code: %d", statusCode),
	}
}

func NewResponseParseError(toolID string, cause error) *ToolError {
	return &ToolError{
		Code:    ErrResponseParse,
		ToolID:  toolID,
		Message: "response body is not valid JSON",
		Cause:   cause,
	}
}
