package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors shared by all store implementations.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Role defines the authority tier of an account.
type Role string

const (
	RoleStandard   Role = "user"
	RolePrivileged Role = "admin"
)

// Account represents a registered identity.
type Account struct {
	Username       string
	CredentialHash string
	Glyph          string // short display glyph shown next to the name
	Bio            string
	Role           Role
	Color          string
	CreatedAt      time.Time
}

// IsPrivileged reports whether the account holds the privileged role.
func (a *Account) IsPrivileged() bool {
	return a.Role == RolePrivileged
}

// Channel is one named message stream inside a category.
type Channel struct {
	ID        string // URL-safe slug, immutable
	Name      string
	Category  string
	Protected bool // bootstrap channels cannot be deleted
}

// Message is a persisted chat message. Author is the username captured at
// send time; it is resolved against the identity store when rendered.
type Message struct {
	ID        string
	ChannelID string
	Author    string
	Body      string
	CreatedAt time.Time
}

// TicketStatus is the mutable state of a support ticket.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// Ticket is a support request raised by a participant.
type Ticket struct {
	ID        string
	Author    string
	Body      string
	Status    TicketStatus
	CreatedAt time.Time
}

// AccountStore handles identity persistence. Usernames are the key; rename
// re-keys the record.
type AccountStore interface {
	// CreateAccount inserts a new account. Returns ErrAlreadyExists if the
	// username is taken.
	CreateAccount(ctx context.Context, acc *Account) error

	// GetAccount retrieves an account by username.
	GetAccount(ctx context.Context, username string) (*Account, error)

	// ListAccounts returns every account in creation order.
	ListAccounts(ctx context.Context) ([]*Account, error)

	// UpdateAccount overwrites the stored record for acc.Username.
	UpdateAccount(ctx context.Context, acc *Account) error

	// RenameAccount moves the record from oldname to newname. Returns
	// ErrAlreadyExists if newname is taken, ErrNotFound if oldname is absent.
	RenameAccount(ctx context.Context, oldname, newname string) error

	// DeleteAccount removes the record.
	DeleteAccount(ctx context.Context, username string) error
}

// ChannelStore handles the channel catalog. Implementations must preserve
// insertion order for ListChannels and ListCategories.
type ChannelStore interface {
	// CreateChannel inserts a channel. Returns ErrAlreadyExists on id collision.
	CreateChannel(ctx context.Context, ch *Channel) error

	// GetChannel retrieves a channel by id.
	GetChannel(ctx context.Context, id string) (*Channel, error)

	// ListChannels returns every channel in insertion order.
	ListChannels(ctx context.Context) ([]*Channel, error)

	// DeleteChannel removes a channel by id.
	DeleteChannel(ctx context.Context, id string) error

	// CreateCategory registers a category name; no-op if it already exists.
	CreateCategory(ctx context.Context, name string) error

	// ListCategories returns every category in insertion order.
	ListCategories(ctx context.Context) ([]string, error)

	// DeleteCategory removes a category name.
	DeleteCategory(ctx context.Context, name string) error
}

// MessageStore handles message history.
type MessageStore interface {
	// SaveMessage appends a message.
	SaveMessage(ctx context.Context, msg *Message) error

	// GetMessage retrieves a message by id.
	GetMessage(ctx context.Context, id string) (*Message, error)

	// ListMessages returns a channel's messages in insertion order.
	ListMessages(ctx context.Context, channelID string) ([]*Message, error)

	// DeleteMessage removes a message permanently. A deleted id is never reused.
	DeleteMessage(ctx context.Context, id string) error
}

// TicketStore handles support tickets.
type TicketStore interface {
	// SaveTicket appends a ticket.
	SaveTicket(ctx context.Context, t *Ticket) error

	// GetTicket retrieves a ticket by id.
	GetTicket(ctx context.Context, id string) (*Ticket, error)

	// ListTickets returns every ticket in creation order.
	ListTickets(ctx context.Context) ([]*Ticket, error)

	// UpdateTicketStatus mutates a ticket's status.
	UpdateTicketStatus(ctx context.Context, id string, status TicketStatus) error
}

// Store aggregates all storage capabilities. The in-memory implementation is
// the reference behavior (state lives for the process lifetime); the sqlite
// implementation is a durable substitute behind the same interface.
type Store interface {
	AccountStore
	ChannelStore
	MessageStore
	TicketStore

	// Close releases the underlying resources.
	Close() error
}
