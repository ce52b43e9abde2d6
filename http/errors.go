package http

import (
	"errors"
	"net/http"

	spendpermission "github.com/base-spend-permission/go"
)

// StatusForError maps a client error to the HTTP status the API returns.
func StatusForError(err error) int {
	switch spendpermission.ErrorCode(err) {
	case spendpermission.ErrCodeMissingSpender,
		spendpermission.ErrCodeMissingToken,
		spendpermission.ErrCodeInvalidAllowance:
		return http.StatusBadRequest
	case spendpermission.ErrCodeNotConnected,
		spendpermission.ErrCodeOperationInProgress,
		spendpermission.ErrCodeAlreadyCreated:
		return http.StatusConflict
	case spendpermission.ErrCodeNotInitialized:
		return http.StatusServiceUnavailable
	case spendpermission.ErrCodeProviderRejected,
		spendpermission.ErrCodeInvalidSignatureResponse,
		spendpermission.ErrCodeNoAccounts:
		return http.StatusBadGateway
	case spendpermission.ErrCodeAbortedByHook:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func asPermissionError(err error) *spendpermission.PermissionError {
	var pe *spendpermission.PermissionError
	if errors.As(err, &pe) {
		return pe
	}
	return nil
}
