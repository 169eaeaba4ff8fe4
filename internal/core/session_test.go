package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRegistryOpenClose(t *testing.T) {
	reg := NewSessionRegistry()

	sess := reg.Open("conn-1", "alice", DefaultChannelID)
	require.NotNil(t, sess)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, DefaultChannelID, sess.ChannelID)

	got := reg.Get("conn-1")
	require.NotNil(t, got)
	assert.Same(t, sess, got)

	closed := reg.Close("conn-1")
	require.NotNil(t, closed)
	assert.Nil(t, reg.Get("conn-1"))
	assert.Nil(t, reg.Close("conn-1"), "double close yields nil")
}

func TestSessionRegistryPresenceCounting(t *testing.T) {
	reg := NewSessionRegistry()

	reg.Open("conn-1", "alice", DefaultChannelID)
	assert.True(t, reg.IsFirstSessionFor("alice"))

	reg.Open("conn-2", "alice", "duyuru")
	assert.False(t, reg.IsFirstSessionFor("alice"))
	assert.Equal(t, 2, reg.CountFor("alice"))

	reg.Close("conn-1")
	assert.False(t, reg.IsLastSessionFor("alice"))

	reg.Close("conn-2")
	assert.True(t, reg.IsLastSessionFor("alice"))

	online, _ := reg.Presence("alice")
	assert.False(t, online)
}

func TestSessionRegistryReplaceSameConn(t *testing.T) {
	reg := NewSessionRegistry()

	reg.Open("conn-1", "alice", DefaultChannelID)
	reg.Open("conn-1", "bob", "duyuru")

	assert.Equal(t, 0, reg.CountFor("alice"))
	assert.Equal(t, 1, reg.CountFor("bob"))

	online, channelID := reg.Presence("bob")
	assert.True(t, online)
	assert.Equal(t, "duyuru", channelID)
}

func TestSessionRegistrySessionsFor(t *testing.T) {
	reg := NewSessionRegistry()

	reg.Open("conn-1", "alice", DefaultChannelID)
	reg.Open("conn-2", "bob", DefaultChannelID)
	reg.Open("conn-3", "alice", "duyuru")

	sessions := reg.SessionsFor("alice")
	require.Len(t, sessions, 2)
	for _, s := range sessions {
		assert.Equal(t, "alice", s.Username)
	}
}
