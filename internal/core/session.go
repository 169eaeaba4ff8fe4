package core

// Session associates one live connection with an identity and the channel it
// currently views. Presence is derived, never stored: a username is online iff
// at least one session exists for it.
type Session struct {
	ConnID    string
	Username  string
	ChannelID string
}

// SessionRegistry tracks every live session keyed by connection identifier.
// It is owned by the hub goroutine and needs no locking.
type SessionRegistry struct {
	sessions map[string]*Session
}

// NewSessionRegistry constructs an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*Session)}
}

// Open creates or replaces the session for this connection.
func (r *SessionRegistry) Open(connID, username, channelID string) *Session {
	s := &Session{ConnID: connID, Username: username, ChannelID: channelID}
	r.sessions[connID] = s
	return s
}

// Close removes and returns the session for this connection, or nil.
func (r *SessionRegistry) Close(connID string) *Session {
	s, ok := r.sessions[connID]
	if !ok {
		return nil
	}
	delete(r.sessions, connID)
	return s
}

// Get returns the session for this connection, or nil.
func (r *SessionRegistry) Get(connID string) *Session {
	return r.sessions[connID]
}

// CountFor returns how many live sessions a username owns. Concurrent
// sessions for one identity are legal (reconnection races).
func (r *SessionRegistry) CountFor(username string) int {
	n := 0
	for _, s := range r.sessions {
		if s.Username == username {
			n++
		}
	}
	return n
}

// IsFirstSessionFor reports whether, after Open, exactly one session exists
// for the username. Used to decide whether to announce arrival.
func (r *SessionRegistry) IsFirstSessionFor(username string) bool {
	return r.CountFor(username) == 1
}

// IsLastSessionFor reports whether, after Close, no session remains for the
// username. Used to decide whether to announce departure.
func (r *SessionRegistry) IsLastSessionFor(username string) bool {
	return r.CountFor(username) == 0
}

// SessionsFor returns every live session owned by the username.
func (r *SessionRegistry) SessionsFor(username string) []*Session {
	var out []*Session
	for _, s := range r.sessions {
		if s.Username == username {
			out = append(out, s)
		}
	}
	return out
}

// Presence returns the derived online flag and viewed channel for a username.
// The channel of an arbitrary session is reported when several are open.
func (r *SessionRegistry) Presence(username string) (online bool, channelID string) {
	for _, s := range r.sessions {
		if s.Username == username {
			return true, s.ChannelID
		}
	}
	return false, ""
}
