package core

import (
	"time"

	"github.com/lanwire/chathub-server/internal/store"
)

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventAuthResult is the private reply to an auth_request.
	EventAuthResult EventKind = iota
	// EventReconnectSuccess is the private reply to a successful reconnect.
	EventReconnectSuccess
	// EventInitialMessages delivers a channel's resolved history.
	EventInitialMessages
	// EventMessage delivers one chat or system message.
	EventMessage
	// EventMessageDeleted announces that a message id is now a tombstone.
	EventMessageDeleted
	// EventChannelList delivers the refreshed channel directory.
	EventChannelList
	// EventUserList delivers the refreshed presence snapshot.
	EventUserList
	// EventChannelDeleted announces a removed channel id.
	EventChannelDeleted
	// EventAdminPanel delivers the privileged dashboard snapshot.
	EventAdminPanel
	// EventNewTicket announces a freshly created support ticket.
	EventNewTicket
	// EventUpdateResult is the private reply to a mutation request.
	EventUpdateResult
	// EventForceLogout instructs a session of a removed account to tear down.
	EventForceLogout
	// EventError reports a domain error privately.
	EventError
)

// SystemAuthor is the author name used for server-generated messages.
const SystemAuthor = "SYSTEM"

// Result is the success/message pair carried by auth_result and update_result.
type Result struct {
	Success bool
	Message string
}

// AccountInfo is the client-visible projection of an account.
type AccountInfo struct {
	Username string
	Glyph    string
	Bio      string
	Role     store.Role
	Color    string
}

// MessageView is a message resolved against the current identity store.
type MessageView struct {
	ID        string
	Username  string
	Glyph     string
	Color     string
	Body      string
	ChannelID string
	Author    string // username key at send time; empty for system messages
	SentAt    time.Time
}

// UserView is one entry of the presence snapshot.
type UserView struct {
	Username         string
	Glyph            string
	Bio              string
	Color            string
	Role             store.Role
	Online           bool
	CurrentChannelID string
}

// AdminPanel is the privileged dashboard snapshot.
type AdminPanel struct {
	Users   []AccountInfo
	Tickets []*store.Ticket
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind EventKind

	Result  *Result
	Account *AccountInfo
	Token   string

	Message  *MessageView
	Messages []MessageView

	MessageID string
	ChannelID string

	Channels   []*store.Channel
	Categories []string

	Users []UserView

	Admin  *AdminPanel
	Ticket *store.Ticket

	Error *CoreError
}

// accountInfo projects a stored account into its client-visible form.
func accountInfo(acc *store.Account) *AccountInfo {
	return &AccountInfo{
		Username: acc.Username,
		Glyph:    acc.Glyph,
		Bio:      acc.Bio,
		Role:     acc.Role,
		Color:    acc.Color,
	}
}
