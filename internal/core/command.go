package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandAuth handles the auth_request event (login or register).
	CommandAuth CommandKind = iota
	// CommandReconnect re-attaches a previously authenticated identity.
	CommandReconnect
	// CommandGetChannels requests the channel directory.
	CommandGetChannels
	// CommandGetHistory requests a channel's message history.
	CommandGetHistory
	// CommandSendMessage appends a message and fans it out.
	CommandSendMessage
	// CommandDeleteMessage removes a message from history.
	CommandDeleteMessage
	// CommandCreateChannel creates a channel or a bare category.
	CommandCreateChannel
	// CommandDeleteChannel removes a non-protected channel.
	CommandDeleteChannel
	// CommandUpdateProfile patches an account's display attributes.
	CommandUpdateProfile
	// CommandDeleteAccount removes an account and force-terminates its sessions.
	CommandDeleteAccount
	// CommandCreateTicket files a support ticket.
	CommandCreateTicket
	// CommandUpdateTicket mutates a ticket's status.
	CommandUpdateTicket
)

// AuthType distinguishes the two auth_request flavors.
const (
	AuthTypeLogin    = "login"
	AuthTypeRegister = "register"
)

// Command represents one action requested by a connection. Only the fields
// relevant to Kind are populated.
type Command struct {
	Kind CommandKind

	// auth / reconnect
	AuthType   string
	Username   string
	Credential string
	Token      string
	Glyph      string
	Bio        string
	Color      string

	// messaging
	ChannelID string
	Body      string
	MessageID string

	// channel administration
	Name         string
	Category     string
	CategoryOnly bool

	// profile administration
	TargetUsername string
	NewUsername    string
	Role           string

	// tickets
	TicketID string
	Status   string
}
