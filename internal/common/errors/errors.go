// Package errors provides standardized error handling for the notification pipeline.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeStorageQueryFailed  ErrorCode = "STORAGE_QUERY_FAILED"
	ErrCodeStorageInsertFailed ErrorCode = "STORAGE_INSERT_FAILED"
	ErrCodeStorageUpdateFailed ErrorCode = "STORAGE_UPDATE_FAILED"

	ErrCodeRenderFailed ErrorCode = "RENDER_FAILED"

	ErrCodeDispatchAuthFailed    ErrorCode = "DISPATCH_AUTH_FAILED"
	ErrCodeDispatchConnectFailed ErrorCode = "DISPATCH_CONNECT_FAILED"
	ErrCodeDispatchSendFailed    ErrorCode = "DISPATCH_SEND_FAILED"

	ErrCodeArchiveConnectFailed ErrorCode = "ARCHIVE_CONNECT_FAILED"
	ErrCodeArchiveAppendFailed  ErrorCode = "ARCHIVE_APPEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewStorageQueryFailedError creates a retryable storage read error.
// Retryable here means the next scheduled scan re-queries the same
// pending criteria; there is no in-invocation retry.
func NewStorageQueryFailedError(table string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageQueryFailed,
		Message:   "Database query failed",
		Details:   fmt.Sprintf("table: %s, error: %s", table, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageInsertFailedError creates a retryable storage write error.
func NewStorageInsertFailedError(table string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageInsertFailed,
		Message:   "Database insert operation failed",
		Details:   fmt.Sprintf("table: %s, error: %s", table, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageUpdateFailedError creates a retryable storage update error.
func NewStorageUpdateFailedError(table string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageUpdateFailed,
		Message:   "Database update operation failed",
		Details:   fmt.Sprintf("table: %s, error: %s", table, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRenderFailedError creates a non-retryable template rendering error.
func NewRenderFailedError(templateKey string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRenderFailed,
		Message:   "Notification template rendering failed",
		Details:   fmt.Sprintf("templateKey: %s, error: %s", templateKey, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDispatchAuthFailedError creates a non-retryable SMTP authentication error.
func NewDispatchAuthFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDispatchAuthFailed,
		Message:   "Mail transport authentication failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDispatchConnectFailedError creates a retryable transport connection error.
func NewDispatchConnectFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDispatchConnectFailed,
		Message:   "Mail transport connection failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDispatchSendFailedError creates a retryable delivery error.
func NewDispatchSendFailedError(to string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDispatchSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("to: %s, error: %s", to, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewArchiveConnectFailedError creates an archive mailbox connection error.
// Archive errors are always swallowed by the caller; they never affect
// document state or loop continuation.
func NewArchiveConnectFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArchiveConnectFailed,
		Message:   "Archive mailbox connection failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewArchiveAppendFailedError creates an archive append error.
func NewArchiveAppendFailedError(folder string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArchiveAppendFailed,
		Message:   "Archive mailbox append failed",
		Details:   fmt.Sprintf("folder: %s, error: %s", folder, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsRetryable reports whether err is a StandardError marked retryable.
func IsRetryable(err error) bool {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Retryable
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "STORAGE"):
		return "STORAGE"
	case strings.Contains(codeStr, "DISPATCH"):
		return "DISPATCH"
	case strings.Contains(codeStr, "ARCHIVE"):
		return "ARCHIVE"
	case strings.Contains(codeStr, "RENDER"):
		return "RENDER"
	default:
		return "OTHER"
	}
}
