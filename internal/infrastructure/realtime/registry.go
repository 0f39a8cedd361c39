package realtime

import "sync"

// Registry is the authoritative in-memory mapping of authenticated user to
// live connection. It enforces at most one session per user: a new
// authentication for a user displaces the previous session. All state is
// guarded by a single mutex; critical sections never perform I/O.
type Registry struct {
	mu     sync.Mutex
	byUser map[string]Session
	// owner maps session ID back to the user holding it, so disconnects can
	// be resolved without client cooperation.
	owner map[string]string
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]Session),
		owner:  make(map[string]string),
	}
}

// Set binds sess as the live connection for userID, unconditionally replacing
// any prior binding. It returns the displaced session (nil if none) so the
// caller can close it outside the lock.
func (r *Registry) Set(userID string, sess Session) Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	var displaced Session
	if existing, ok := r.byUser[userID]; ok && existing.ID() != sess.ID() {
		displaced = existing
		delete(r.owner, existing.ID())
	}
	r.byUser[userID] = sess
	r.owner[sess.ID()] = userID
	return displaced
}

// Get returns the live session for userID, if any.
func (r *Registry) Get(userID string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.byUser[userID]
	return sess, ok
}

// RemoveIfMatches removes the binding for userID only if it still points at
// sess, reporting whether a removal occurred. This guards the race where a
// user reconnects before the old connection's disconnect is processed.
func (r *Registry) RemoveIfMatches(userID string, sess Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byUser[userID]
	if !ok || current.ID() != sess.ID() {
		return false
	}
	delete(r.byUser, userID)
	delete(r.owner, sess.ID())
	return true
}

// FindUserBySession returns the user currently bound to sess.
func (r *Registry) FindUserBySession(sess Session) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, ok := r.owner[sess.ID()]
	return userID, ok
}

// Broadcast delivers payload to every registered session and returns the
// number of successful sends. Sessions are snapshotted first so no send
// happens under the registry lock.
func (r *Registry) Broadcast(payload []byte) int {
	sessions := r.Sessions()
	delivered := 0
	for _, sess := range sessions {
		if err := sess.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// Sessions returns a snapshot of all registered sessions.
func (r *Registry) Sessions() []Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Session, 0, len(r.byUser))
	for _, sess := range r.byUser {
		out = append(out, sess)
	}
	return out
}

// Len reports the number of registered users.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser)
}
