package core

// Client is one live connection as seen by the core layer. Identity is
// attached separately through the session registry once the connection
// authenticates.
type Client struct {
	ID       string // connection identifier
	Commands chan *Command
	Events   chan *Event

	done chan struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 32),
		done:     make(chan struct{}),
	}
}
