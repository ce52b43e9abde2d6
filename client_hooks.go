package spendpermission

import (
	"context"
	"time"
)

// ============================================================================
// Client Hook Context Types
// ============================================================================

// ConnectContext contains information passed to connect hooks
type ConnectContext struct {
	Ctx       context.Context
	SessionID string
	Timestamp time.Time
}

// ConnectResultContext contains the connected account and context
type ConnectResultContext struct {
	ConnectContext
	Account  Account
	Duration time.Duration
}

// ConnectFailureContext contains connect failure and context
type ConnectFailureContext struct {
	ConnectContext
	Error    error
	Duration time.Duration
}

// CreateContext contains information passed to create-permission hooks
type CreateContext struct {
	Ctx        context.Context
	SessionID  string
	Request    PermissionRequest
	Permission SpendPermission
	Timestamp  time.Time
}

// CreateResultContext contains the signed permission and context
type CreateResultContext struct {
	CreateContext
	Result   SignedPermission
	Duration time.Duration
}

// CreateFailureContext contains create failure and context
type CreateFailureContext struct {
	CreateContext
	Error    error
	Duration time.Duration
}

// BeforeHookResult represents the result of a "before" hook
// If Abort is true, the operation will be aborted with the given Reason
type BeforeHookResult struct {
	Abort  bool
	Reason string
}

// ============================================================================
// Client Hook Function Types
// ============================================================================

// AfterConnectHook is called after a successful connect
// Any error returned will be logged but will not affect the connection
type AfterConnectHook func(ConnectResultContext) error

// OnConnectFailureHook is called when connect fails
type OnConnectFailureHook func(ConnectFailureContext)

// BeforeCreateHook is called after the permission is built and before the
// signature is requested. If it returns a result with Abort=true, no
// provider request is sent and an aborted_by_hook error is returned.
type BeforeCreateHook func(CreateContext) (*BeforeHookResult, error)

// AfterCreateHook is called after the wallet signed the permission
// Any error returned will be logged but will not affect the result
type AfterCreateHook func(CreateResultContext) error

// OnCreateFailureHook is called when building or signing fails
type OnCreateFailureHook func(CreateFailureContext)

// ============================================================================
// Client Hook Registration Options
// ============================================================================

// WithAfterConnectHook registers a hook to execute after a successful connect
func WithAfterConnectHook(hook AfterConnectHook) ClientOption {
	return func(c *Client) {
		c.afterConnectHooks = append(c.afterConnectHooks, hook)
	}
}

// WithOnConnectFailureHook registers a hook to execute when connect fails
func WithOnConnectFailureHook(hook OnConnectFailureHook) ClientOption {
	return func(c *Client) {
		c.onConnectFailureHooks = append(c.onConnectFailureHooks, hook)
	}
}

// WithBeforeCreateHook registers a hook to execute before the signature request
func WithBeforeCreateHook(hook BeforeCreateHook) ClientOption {
	return func(c *Client) {
		c.beforeCreateHooks = append(c.beforeCreateHooks, hook)
	}
}

// WithAfterCreateHook registers a hook to execute after a permission is signed
func WithAfterCreateHook(hook AfterCreateHook) ClientOption {
	return func(c *Client) {
		c.afterCreateHooks = append(c.afterCreateHooks, hook)
	}
}

// WithOnCreateFailureHook registers a hook to execute when creating a permission fails
func WithOnCreateFailureHook(hook OnCreateFailureHook) ClientOption {
	return func(c *Client) {
		c.onCreateFailureHooks = append(c.onCreateFailureHooks, hook)
	}
}
