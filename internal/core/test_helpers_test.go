package core

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lanwire/chathub-server/internal/auth"
	"github.com/lanwire/chathub-server/internal/store/memory"
)

const (
	testAdminUsername   = "rw0rR_"
	testAdminCredential = "s3cret"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()

	st := memory.New()
	hash, err := auth.HashCredential(testAdminCredential)
	if err != nil {
		t.Fatalf("hash admin credential: %v", err)
	}
	if err := Seed(context.Background(), st, testAdminUsername, hash); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	}
	logger := zerolog.Nop()
	hub := NewHub(st, auth.NewService(st, jwtConfig), testAdminUsername, &logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	go hub.Run(ctx)

	return hub
}

var connSeq atomic.Int64

// connect attaches a fresh client to the hub and returns it.
func connect(t *testing.T, hub *Hub) *Client {
	t.Helper()

	c := NewClient(fmt.Sprintf("conn-%d", connSeq.Add(1)))
	hub.RegisterClient(c)
	return c
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()
	return mustEventWhere(t, ch, kind, func(*Event) bool { return true })
}

// mustEventWhere drains events until one of the wanted kind matches pred.
func mustEventWhere(t *testing.T, ch <-chan *Event, kind EventKind, pred func(*Event) bool) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind && pred(ev) {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// assertNoEvent drains events for dur and fails if a matching one shows up.
func assertNoEvent(t *testing.T, ch <-chan *Event, kind EventKind, pred func(*Event) bool, dur time.Duration) {
	t.Helper()

	deadline := time.Now().Add(dur)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind && pred(ev) {
				t.Fatalf("unexpected event: %+v", ev)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func registerAccount(t *testing.T, c *Client, username, credential string) {
	t.Helper()

	c.Commands <- &Command{Kind: CommandAuth, AuthType: AuthTypeRegister, Username: username, Credential: credential}
	ev := mustEvent(t, c.Events, EventAuthResult)
	if !ev.Result.Success {
		t.Fatalf("register failed: %s", ev.Result.Message)
	}
}

// login authenticates the client and returns the auth_result event.
func login(t *testing.T, c *Client, username, credential string) *Event {
	t.Helper()

	c.Commands <- &Command{Kind: CommandAuth, AuthType: AuthTypeLogin, Username: username, Credential: credential}
	ev := mustEvent(t, c.Events, EventAuthResult)
	if !ev.Result.Success {
		t.Fatalf("login failed: %s", ev.Result.Message)
	}
	return ev
}

func systemMessageOn(channelID string) func(*Event) bool {
	return func(ev *Event) bool {
		return ev.Message != nil && ev.Message.Username == SystemAuthor && ev.Message.ChannelID == channelID
	}
}
