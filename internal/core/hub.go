package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/lanwire/chathub-server/internal/auth"
	"github.com/lanwire/chathub-server/internal/store"
)

// clientCommand pairs a command with the connection that issued it.
type clientCommand struct {
	client *Client
	cmd    *Command
}

// Hub is the connection lifecycle coordinator and broadcast dispatcher.
// A single Run goroutine owns every registry, so one logical operation
// mutates shared state at a time and completes, broadcasts included, before
// the next is admitted.
type Hub struct {
	store     store.Store
	auth      *auth.Service
	identity  *Identity
	directory *Directory
	messages  *MessageLog
	tickets   *TicketLog
	sessions  *SessionRegistry

	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand

	log *zerolog.Logger
}

// NewHub wires the hub over the given store and auth service.
// adminUsername names the bootstrap account that can never be removed.
func NewHub(st store.Store, authService *auth.Service, adminUsername string, logger *zerolog.Logger) *Hub {
	return &Hub{
		store:      st,
		auth:       authService,
		identity:   NewIdentity(st, adminUsername),
		directory:  NewDirectory(st),
		messages:   NewMessageLog(st, st),
		tickets:    NewTicketLog(st),
		sessions:   NewSessionRegistry(),
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan clientCommand),
		log:        logger,
	}
}

// RegisterClient attaches a connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient detaches a connection; the hub treats it as a disconnect.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Run processes registrations, disconnects, and commands until ctx ends.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c.ID] = c
			h.pump(c)
			h.log.Debug().Str("conn_id", c.ID).Msg("client registered")
		case c := <-h.unregister:
			h.handleDisconnect(ctx, c)
		case cc := <-h.commands:
			h.dispatch(ctx, cc.client, cc.cmd)
		}
	}
}

// pump forwards one connection's commands into the central loop, preserving
// per-connection arrival order.
func (h *Hub) pump(c *Client) {
	go func() {
		for {
			select {
			case <-c.done:
				return
			case cmd := <-c.Commands:
				if cmd == nil {
					continue
				}
				select {
				case h.commands <- clientCommand{client: c, cmd: cmd}:
				case <-c.done:
					return
				}
			}
		}
	}()
}

func (h *Hub) dispatch(ctx context.Context, c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandAuth:
		h.handleAuth(ctx, c, cmd)
	case CommandReconnect:
		h.handleReconnect(ctx, c, cmd)
	case CommandGetChannels:
		h.handleGetChannels(ctx, c)
	case CommandGetHistory:
		h.handleGetHistory(ctx, c, cmd)
	case CommandSendMessage:
		h.handleSendMessage(ctx, c, cmd)
	case CommandDeleteMessage:
		h.handleDeleteMessage(ctx, c, cmd)
	case CommandCreateChannel:
		h.handleCreateChannel(ctx, c, cmd)
	case CommandDeleteChannel:
		h.handleDeleteChannel(ctx, c, cmd)
	case CommandUpdateProfile:
		h.handleUpdateProfile(ctx, c, cmd)
	case CommandDeleteAccount:
		h.handleDeleteAccount(ctx, c, cmd)
	case CommandCreateTicket:
		h.handleCreateTicket(ctx, c, cmd)
	case CommandUpdateTicket:
		h.handleUpdateTicket(ctx, c, cmd)
	default:
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeBadRequest, "unknown command")})
	}
}

// ==== lifecycle handlers ====

func (h *Hub) handleAuth(ctx context.Context, c *Client, cmd *Command) {
	switch cmd.AuthType {
	case AuthTypeRegister:
		attrs := auth.DisplayAttrs{Glyph: cmd.Glyph, Bio: cmd.Bio, Color: cmd.Color}
		if _, err := h.auth.Register(ctx, cmd.Username, cmd.Credential, attrs); err != nil {
			h.send(c, &Event{Kind: EventAuthResult, Result: &Result{Success: false, Message: authFailureMessage(err)}})
			return
		}
		h.send(c, &Event{Kind: EventAuthResult, Result: &Result{Success: true, Message: "Registration successful. You can now log in."}})

	case AuthTypeLogin:
		acc, token, err := h.auth.Login(ctx, cmd.Username, cmd.Credential)
		if err != nil {
			h.send(c, &Event{Kind: EventAuthResult, Result: &Result{Success: false, Message: authFailureMessage(err)}})
			return
		}
		h.openSession(ctx, c, acc, token, EventAuthResult)

	default:
		h.send(c, &Event{Kind: EventAuthResult, Result: &Result{Success: false, Message: "unknown auth type"}})
	}
}

func (h *Hub) handleReconnect(ctx context.Context, c *Client, cmd *Command) {
	acc, token, err := h.auth.Reconnect(ctx, cmd.Username, cmd.Token)
	if err != nil {
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeInvalidCredential, "reconnect rejected")})
		return
	}
	h.openSession(ctx, c, acc, token, EventReconnectSuccess)
}

// openSession records the session and runs the shared post-login sequence:
// private account reply, default-channel history, arrival announcement on the
// identity's first session (login only), privileged dashboard, and refreshed
// directory/presence broadcasts.
func (h *Hub) openSession(ctx context.Context, c *Client, acc *store.Account, token string, replyKind EventKind) {
	h.sessions.Open(c.ID, acc.Username, DefaultChannelID)

	h.send(c, &Event{Kind: replyKind, Result: &Result{Success: true}, Account: accountInfo(acc), Token: token})
	h.sendHistory(ctx, c, DefaultChannelID)

	if replyKind == EventAuthResult && h.sessions.IsFirstSessionFor(acc.Username) {
		h.systemBroadcast(EntryExitChannelID, fmt.Sprintf("%s joined the server.", acc.Username))
	}

	if acc.IsPrivileged() {
		if ev, err := h.adminPanelEvent(ctx); err == nil {
			h.send(c, ev)
		}
	}

	h.broadcastChannels(ctx)
	h.broadcastUsers(ctx)

	h.log.Info().Str("conn_id", c.ID).Str("username", acc.Username).Msg("session opened")
}

func (h *Hub) handleDisconnect(ctx context.Context, c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	close(c.done)

	sess := h.sessions.Close(c.ID)
	if sess == nil {
		return
	}

	if h.sessions.IsLastSessionFor(sess.Username) {
		h.systemBroadcast(EntryExitChannelID, fmt.Sprintf("%s left the server.", sess.Username))
	}
	h.broadcastUsers(ctx)

	h.log.Info().Str("conn_id", c.ID).Str("username", sess.Username).Msg("session closed")
}

// ==== channel and history handlers ====

func (h *Hub) handleGetChannels(ctx context.Context, c *Client) {
	channels, categories, err := h.directory.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.send(c, &Event{Kind: EventChannelList, Channels: channels, Categories: categories})
}

func (h *Hub) handleGetHistory(ctx context.Context, c *Client, cmd *Command) {
	if sess := h.sessions.Get(c.ID); sess != nil && sess.ChannelID != cmd.ChannelID {
		sess.ChannelID = cmd.ChannelID
		h.broadcastUsers(ctx)
	}
	h.sendHistory(ctx, c, cmd.ChannelID)
}

func (h *Hub) handleCreateChannel(ctx context.Context, c *Client, cmd *Command) {
	acc, err := h.actor(ctx, c)
	if err != nil {
		h.fail(c, err)
		return
	}

	if cmd.CategoryOnly {
		if err := h.directory.CreateCategory(ctx, acc, cmd.Category); err != nil {
			h.fail(c, err)
			return
		}
		h.broadcastChannels(ctx)
		return
	}

	_, created, err := h.directory.CreateChannel(ctx, acc, cmd.Name, cmd.Category)
	if err != nil {
		h.fail(c, err)
		return
	}
	if created {
		h.broadcastChannels(ctx)
	}
}

func (h *Hub) handleDeleteChannel(ctx context.Context, c *Client, cmd *Command) {
	acc, err := h.actor(ctx, c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.directory.DeleteChannel(ctx, acc, cmd.ChannelID); err != nil {
		h.fail(c, err)
		return
	}
	h.broadcastChannels(ctx)
	h.broadcast(&Event{Kind: EventChannelDeleted, ChannelID: cmd.ChannelID})
}

// ==== message handlers ====

func (h *Hub) handleSendMessage(ctx context.Context, c *Client, cmd *Command) {
	acc, err := h.actor(ctx, c)
	if err != nil {
		h.fail(c, err)
		return
	}

	body := strings.TrimSpace(cmd.Body)
	if body == "" {
		return
	}

	if _, err := h.store.GetChannel(ctx, cmd.ChannelID); err != nil {
		h.fail(c, coreError(ErrCodeNotFound, "channel not found"))
		return
	}

	// Mention announcements are ephemeral system broadcasts, always
	// delivered regardless of viewed channel.
	if strings.Contains(body, "@everyone") {
		h.systemBroadcast(cmd.ChannelID, fmt.Sprintf("@everyone: %s made an announcement.", acc.Username))
	}
	if strings.Contains(body, "@here") {
		h.systemBroadcast(cmd.ChannelID, fmt.Sprintf("@here: %s pinged everyone online.", acc.Username))
	}

	msg, err := h.messages.Append(ctx, cmd.ChannelID, acc.Username, body)
	if err != nil {
		h.fail(c, err)
		return
	}
	view, err := h.messages.Resolve(ctx, msg)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.broadcast(&Event{Kind: EventMessage, Message: &view})
}

func (h *Hub) handleDeleteMessage(ctx context.Context, c *Client, cmd *Command) {
	acc, err := h.actor(ctx, c)
	if err != nil {
		h.fail(c, err)
		return
	}
	msg, err := h.messages.Delete(ctx, cmd.MessageID, acc)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.broadcast(&Event{Kind: EventMessageDeleted, MessageID: msg.ID, ChannelID: msg.ChannelID})
}

// ==== administration handlers ====

func (h *Hub) handleUpdateProfile(ctx context.Context, c *Client, cmd *Command) {
	acc, err := h.actor(ctx, c)
	if err != nil {
		h.fail(c, err)
		return
	}

	patch := ProfilePatch{
		Glyph:       cmd.Glyph,
		Bio:         cmd.Bio,
		NewUsername: cmd.NewUsername,
		Role:        store.Role(cmd.Role),
	}

	if cmd.TargetUsername == acc.Username {
		updated, err := h.identity.UpdateSelf(ctx, acc, patch)
		if err != nil {
			h.failUpdate(c, err)
			return
		}
		h.send(c, &Event{
			Kind:    EventUpdateResult,
			Result:  &Result{Success: true, Message: "Profile updated."},
			Account: accountInfo(updated),
		})
	} else {
		updated, err := h.identity.UpdatePrivileged(ctx, acc, cmd.TargetUsername, patch)
		if err != nil {
			h.failUpdate(c, err)
			return
		}
		h.send(c, &Event{
			Kind:   EventUpdateResult,
			Result: &Result{Success: true, Message: fmt.Sprintf("%s updated.", updated.Username)},
		})
	}

	h.broadcastUsers(ctx)
}

func (h *Hub) handleDeleteAccount(ctx context.Context, c *Client, cmd *Command) {
	acc, err := h.actor(ctx, c)
	if err != nil {
		h.fail(c, err)
		return
	}

	removed, err := h.identity.Remove(ctx, acc, cmd.TargetUsername)
	if err != nil {
		h.failUpdate(c, err)
		return
	}

	// A session cannot outlive its account: every live session of the
	// removed identity is told to tear down and dropped from the registry.
	for _, sess := range h.sessions.SessionsFor(removed.Username) {
		if victim, ok := h.clients[sess.ConnID]; ok {
			h.send(victim, &Event{Kind: EventForceLogout})
		}
		h.sessions.Close(sess.ConnID)
	}

	h.send(c, &Event{
		Kind:   EventUpdateResult,
		Result: &Result{Success: true, Message: fmt.Sprintf("%s removed.", removed.Username)},
	})
	h.broadcastUsers(ctx)
}

func (h *Hub) handleCreateTicket(ctx context.Context, c *Client, cmd *Command) {
	acc, err := h.actor(ctx, c)
	if err != nil {
		h.fail(c, err)
		return
	}

	ticket, err := h.tickets.Create(ctx, acc.Username, cmd.Body)
	if err != nil {
		h.failUpdate(c, err)
		return
	}

	h.broadcast(&Event{Kind: EventNewTicket, Ticket: ticket})
	h.send(c, &Event{
		Kind:   EventUpdateResult,
		Result: &Result{Success: true, Message: "Your support ticket has been created."},
	})
	h.broadcastAdminPanel(ctx)
}

func (h *Hub) handleUpdateTicket(ctx context.Context, c *Client, cmd *Command) {
	acc, err := h.actor(ctx, c)
	if err != nil {
		h.fail(c, err)
		return
	}

	ticket, err := h.tickets.UpdateStatus(ctx, acc, cmd.TicketID, store.TicketStatus(cmd.Status))
	if err != nil {
		h.failUpdate(c, err)
		return
	}

	h.send(c, &Event{
		Kind:   EventUpdateResult,
		Result: &Result{Success: true, Message: fmt.Sprintf("Ticket %s updated.", ticket.ID)},
	})
	h.broadcastAdminPanel(ctx)
}

// ==== broadcast plumbing ====

// send delivers an event to a single connection, dropping if the consumer is
// slow so one stuck socket cannot stall the hub.
func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		h.log.Warn().Str("conn_id", c.ID).Int("kind", int(ev.Kind)).Msg("dropping event for slow consumer")
	}
}

// broadcast delivers an event to every connection. Delivery is not restricted
// to channel members; clients filter by their viewed channel.
func (h *Hub) broadcast(ev *Event) {
	for _, c := range h.clients {
		h.send(c, ev)
	}
}

// broadcastPrivileged delivers an event to authenticated privileged
// connections only.
func (h *Hub) broadcastPrivileged(ctx context.Context, ev *Event) {
	for connID, c := range h.clients {
		sess := h.sessions.Get(connID)
		if sess == nil {
			continue
		}
		acc, err := h.store.GetAccount(ctx, sess.Username)
		if err != nil || !acc.IsPrivileged() {
			continue
		}
		h.send(c, ev)
	}
}

// systemBroadcast emits an ephemeral server-authored message. It is never
// persisted to the message log.
func (h *Hub) systemBroadcast(channelID, text string) {
	h.broadcast(&Event{
		Kind: EventMessage,
		Message: &MessageView{
			Username:  SystemAuthor,
			Body:      text,
			ChannelID: channelID,
			SentAt:    time.Now(),
		},
	})
}

func (h *Hub) sendHistory(ctx context.Context, c *Client, channelID string) {
	views, err := h.messages.HistoryFor(ctx, channelID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.send(c, &Event{Kind: EventInitialMessages, ChannelID: channelID, Messages: views})
}

func (h *Hub) broadcastChannels(ctx context.Context) {
	channels, categories, err := h.directory.List(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("build channel list")
		return
	}
	h.broadcast(&Event{Kind: EventChannelList, Channels: channels, Categories: categories})
}

func (h *Hub) broadcastUsers(ctx context.Context) {
	accounts, err := h.store.ListAccounts(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("build user list")
		return
	}

	users := lo.Map(accounts, func(acc *store.Account, _ int) UserView {
		online, channelID := h.sessions.Presence(acc.Username)
		return UserView{
			Username:         acc.Username,
			Glyph:            acc.Glyph,
			Bio:              acc.Bio,
			Color:            acc.Color,
			Role:             acc.Role,
			Online:           online,
			CurrentChannelID: channelID,
		}
	})
	h.broadcast(&Event{Kind: EventUserList, Users: users})
}

func (h *Hub) adminPanelEvent(ctx context.Context) (*Event, error) {
	accounts, err := h.store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	tickets, err := h.tickets.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	users := lo.Map(accounts, func(acc *store.Account, _ int) AccountInfo {
		return *accountInfo(acc)
	})
	return &Event{Kind: EventAdminPanel, Admin: &AdminPanel{Users: users, Tickets: tickets}}, nil
}

func (h *Hub) broadcastAdminPanel(ctx context.Context) {
	ev, err := h.adminPanelEvent(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("build admin panel")
		return
	}
	h.broadcastPrivileged(ctx, ev)
}

// ==== helpers ====

// actor resolves the authenticated account behind a connection.
func (h *Hub) actor(ctx context.Context, c *Client) (*store.Account, error) {
	sess := h.sessions.Get(c.ID)
	if sess == nil {
		return nil, coreError(ErrCodeUnauthorized, "not authenticated")
	}
	acc, err := h.store.GetAccount(ctx, sess.Username)
	if err != nil {
		return nil, coreError(ErrCodeUnauthorized, "account no longer exists")
	}
	return acc, nil
}

// fail reports a domain error privately; unexpected errors are logged and
// masked.
func (h *Hub) fail(c *Client, err error) {
	var ce *CoreError
	if errors.As(err, &ce) {
		h.send(c, &Event{Kind: EventError, Error: ce})
		return
	}
	h.log.Error().Err(err).Str("conn_id", c.ID).Msg("operation failed")
	h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeInternal, "internal error")})
}

// failUpdate reports a mutation failure through update_result, the way the
// dashboard-facing operations reply.
func (h *Hub) failUpdate(c *Client, err error) {
	var ce *CoreError
	if errors.As(err, &ce) {
		h.send(c, &Event{Kind: EventUpdateResult, Result: &Result{Success: false, Message: ce.Message}})
		return
	}
	h.log.Error().Err(err).Str("conn_id", c.ID).Msg("operation failed")
	h.send(c, &Event{Kind: EventUpdateResult, Result: &Result{Success: false, Message: "internal error"}})
}

func authFailureMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrUserExists):
		return "This username is already registered."
	case errors.Is(err, auth.ErrInvalidUsername):
		return "Username must be between 3 and 32 characters."
	case errors.Is(err, auth.ErrInvalidCredential):
		return "Credential must be at least 4 characters."
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Username or credential is incorrect."
	default:
		return "Authentication failed."
	}
}
