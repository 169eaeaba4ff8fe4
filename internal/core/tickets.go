package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lanwire/chathub-server/internal/store"
)

// TicketLog is the append-only support request list with mutable status.
type TicketLog struct {
	tickets store.TicketStore
}

// NewTicketLog constructs a ticket log over the given store.
func NewTicketLog(tickets store.TicketStore) *TicketLog {
	return &TicketLog{tickets: tickets}
}

// Create files a new ticket with status "open".
func (l *TicketLog) Create(ctx context.Context, author, body string) (*store.Ticket, error) {
	t := &store.Ticket{
		ID:        uuid.NewString(),
		Author:    author,
		Body:      body,
		Status:    store.TicketStatusOpen,
		CreatedAt: time.Now(),
	}
	if err := l.tickets.SaveTicket(ctx, t); err != nil {
		return nil, fmt.Errorf("save ticket: %w", err)
	}
	return t, nil
}

// UpdateStatus mutates a ticket's status. Privileged actors only.
func (l *TicketLog) UpdateStatus(ctx context.Context, actor *store.Account, id string, status store.TicketStatus) (*store.Ticket, error) {
	if !actor.IsPrivileged() {
		return nil, coreError(ErrCodeUnauthorized, "only privileged users can update tickets")
	}
	if err := l.tickets.UpdateTicketStatus(ctx, id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, coreError(ErrCodeNotFound, "ticket not found")
		}
		return nil, fmt.Errorf("update ticket status: %w", err)
	}
	return l.tickets.GetTicket(ctx, id)
}

// All returns every ticket in creation order, for the privileged dashboard.
func (l *TicketLog) All(ctx context.Context) ([]*store.Ticket, error) {
	return l.tickets.ListTickets(ctx)
}
