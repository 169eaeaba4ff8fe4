package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lanwire/chathub-server/internal/store"
)

// Fallback display attributes when a message's author no longer resolves
// (account deleted or renamed since the message was sent).
const (
	unknownAuthorName  = "Unknown"
	unknownAuthorGlyph = "?"
	unknownAuthorColor = "#72767d"
)

// MessageLog is the append-only per-channel message history. History is
// resolved against the identity store at read time, so display-attribute
// changes retroactively affect old messages.
type MessageLog struct {
	messages store.MessageStore
	accounts store.AccountStore
}

// NewMessageLog constructs a message log over the given stores.
func NewMessageLog(messages store.MessageStore, accounts store.AccountStore) *MessageLog {
	return &MessageLog{messages: messages, accounts: accounts}
}

// Append stores a new message with a unique id and server-side timestamp.
func (l *MessageLog) Append(ctx context.Context, channelID, author, body string) (*store.Message, error) {
	msg := &store.Message{
		ID:        uuid.NewString(),
		ChannelID: channelID,
		Author:    author,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if err := l.messages.SaveMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}
	return msg, nil
}

// HistoryFor returns a channel's messages in insertion order, resolved
// against the current identity store.
func (l *MessageLog) HistoryFor(ctx context.Context, channelID string) ([]MessageView, error) {
	msgs, err := l.messages.ListMessages(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	views := make([]MessageView, 0, len(msgs))
	for _, msg := range msgs {
		view, err := l.Resolve(ctx, msg)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Resolve joins a stored message with its author's current display attributes.
func (l *MessageLog) Resolve(ctx context.Context, msg *store.Message) (MessageView, error) {
	view := MessageView{
		ID:        msg.ID,
		Username:  unknownAuthorName,
		Glyph:     unknownAuthorGlyph,
		Color:     unknownAuthorColor,
		Body:      msg.Body,
		ChannelID: msg.ChannelID,
		Author:    msg.Author,
		SentAt:    msg.CreatedAt,
	}

	acc, err := l.accounts.GetAccount(ctx, msg.Author)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return view, nil
		}
		return MessageView{}, fmt.Errorf("resolve author: %w", err)
	}
	view.Username = acc.Username
	view.Glyph = acc.Glyph
	view.Color = acc.Color
	return view, nil
}

// Delete permanently removes a message. Only the author or a privileged
// requester may delete; the removed message is returned so the caller can
// announce the tombstone.
func (l *MessageLog) Delete(ctx context.Context, id string, requester *store.Account) (*store.Message, error) {
	msg, err := l.messages.GetMessage(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, coreError(ErrCodeNotFound, "message not found")
		}
		return nil, fmt.Errorf("get message: %w", err)
	}

	if msg.Author != requester.Username && !requester.IsPrivileged() {
		return nil, coreError(ErrCodeUnauthorized, "only the author or a privileged user can delete a message")
	}

	if err := l.messages.DeleteMessage(ctx, id); err != nil {
		return nil, fmt.Errorf("delete message: %w", err)
	}
	return msg, nil
}
