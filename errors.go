package spendpermission

import (
	"errors"
	"fmt"
)

// PermissionError represents a failure of a connect or create action
type PermissionError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

func (e *PermissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeNotInitialized           = "not_initialized"
	ErrCodeNotConnected             = "not_connected"
	ErrCodeMissingSpender           = "missing_spender"
	ErrCodeMissingToken             = "missing_token"
	ErrCodeInvalidAllowance         = "invalid_allowance"
	ErrCodeNoAccounts               = "no_accounts"
	ErrCodeProviderRejected         = "provider_rejected"
	ErrCodeInvalidSignatureResponse = "invalid_signature_response"
	ErrCodeOperationInProgress      = "operation_in_progress"
	ErrCodeAlreadyCreated           = "permission_already_created"
	ErrCodeAbortedByHook            = "aborted_by_hook"
	ErrCodeBuildFailed              = "build_failed"
	ErrCodeUnsupportedNetwork       = "unsupported_network"
)

// NewPermissionError creates a new permission error
func NewPermissionError(code, message string, details map[string]interface{}) *PermissionError {
	return &PermissionError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// wrapPermissionError creates a permission error that keeps its cause
func wrapPermissionError(code, message string, err error) *PermissionError {
	return &PermissionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCode returns the PermissionError code carried by err, or "" if none.
func ErrorCode(err error) string {
	var pe *PermissionError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsUserCorrectable reports whether err blocks only the current action
// until the user fixes configuration or input.
func IsUserCorrectable(err error) bool {
	switch ErrorCode(err) {
	case ErrCodeMissingSpender, ErrCodeMissingToken, ErrCodeInvalidAllowance:
		return true
	}
	return false
}
