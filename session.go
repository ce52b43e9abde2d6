package spendpermission

import (
	"sync"

	"github.com/google/uuid"
)

// Session holds the state of one user session: the connected account and
// the permission created during it. Nothing is persisted.
//
// Only Client.Connect writes the account and connected flag; only
// Client.CreatePermission writes the permission.
type Session struct {
	mu         sync.RWMutex
	id         string
	account    Account
	connected  bool
	permission *SignedPermission
}

// NewSession creates an empty session with a random id.
func NewSession() *Session {
	return &Session{
		id: uuid.NewString(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Account returns the connected account and whether a connection exists.
func (s *Session) Account() (Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account, s.connected
}

// Permission returns the permission created in this session, if any.
func (s *Session) Permission() *SignedPermission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.permission == nil {
		return nil
	}
	p := *s.permission
	return &p
}

func (s *Session) setAccount(account Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = account
	s.connected = true
}

func (s *Session) setPermission(permission SignedPermission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.permission = &permission
}

func (s *Session) snapshot() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := SessionState{
		ID:        s.id,
		Account:   s.account,
		Connected: s.connected,
	}
	if s.permission != nil {
		p := *s.permission
		state.Permission = &p
	}
	return state
}
