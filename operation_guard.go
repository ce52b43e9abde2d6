package spendpermission

import (
	"context"
	"sync"
)

// Operation names tracked by the guard
const (
	OperationConnect = "connect"
	OperationCreate  = "create_permission"
)

// OperationGuard rejects a user action while the same action is still pending.
// Each in-flight operation holds a done channel that is closed when it finishes,
// so observers can wait for the pending action to settle.
type OperationGuard struct {
	mu       sync.Mutex
	inFlight map[string]chan struct{}
}

// NewOperationGuard creates an empty guard.
func NewOperationGuard() *OperationGuard {
	return &OperationGuard{
		inFlight: make(map[string]chan struct{}),
	}
}

// TryStart atomically checks whether op is running and marks it in-flight if not.
// Returns:
// - true + done channel if the caller should proceed (now marked in-flight)
// - false + the pending operation's done channel otherwise
func (g *OperationGuard) TryStart(op string) (bool, chan struct{}) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if done, exists := g.inFlight[op]; exists {
		return false, done
	}

	done := make(chan struct{})
	g.inFlight[op] = done
	return true, done
}

// Finish removes the in-flight marker and signals any waiters.
func (g *OperationGuard) Finish(op string, done chan struct{}) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if current, exists := g.inFlight[op]; exists && current == done {
		delete(g.inFlight, op)
	}
	close(done)
}

// Busy reports whether op is currently in flight.
func (g *OperationGuard) Busy(op string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, exists := g.inFlight[op]
	return exists
}

// Wait blocks until the pending operation behind done finishes, respecting context cancellation.
func (g *OperationGuard) Wait(ctx context.Context, done chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
