package http

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanwire/chathub-server/internal/core"
	"github.com/lanwire/chathub-server/internal/proto"
	"github.com/lanwire/chathub-server/internal/store"
)

func inbound(t *testing.T, msgType string, data any) proto.Inbound {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return proto.Inbound{Type: msgType, Data: raw}
}

func TestInboundAuthRequest(t *testing.T) {
	cmd, perr := inboundToCommand(inbound(t, proto.InboundTypeAuthRequest, map[string]string{
		"type":       "register",
		"username":   "alice",
		"credential": "pw12",
		"bio":        "hello",
	}))
	require.Nil(t, perr)
	assert.Equal(t, core.CommandAuth, cmd.Kind)
	assert.Equal(t, core.AuthTypeRegister, cmd.AuthType)
	assert.Equal(t, "alice", cmd.Username)
	assert.Equal(t, "pw12", cmd.Credential)
	assert.Equal(t, "hello", cmd.Bio)
}

func TestInboundAuthRequestRejectsUnknownType(t *testing.T) {
	_, perr := inboundToCommand(inbound(t, proto.InboundTypeAuthRequest, map[string]string{
		"type":       "impersonate",
		"username":   "alice",
		"credential": "pw12",
	}))
	require.NotNil(t, perr)
	assert.Equal(t, core.ErrCodeValidation, perr.Code)
}

func TestInboundMissingRequiredField(t *testing.T) {
	_, perr := inboundToCommand(inbound(t, proto.InboundTypeSendMessage, map[string]string{
		"message": "hello",
	}))
	require.NotNil(t, perr)
	assert.Equal(t, core.ErrCodeValidation, perr.Code)
}

func TestInboundSendMessageAllowsEmptyBody(t *testing.T) {
	cmd, perr := inboundToCommand(inbound(t, proto.InboundTypeSendMessage, map[string]string{
		"channelId": "genel",
	}))
	require.Nil(t, perr)
	assert.Equal(t, core.CommandSendMessage, cmd.Kind)
	assert.Equal(t, "genel", cmd.ChannelID)
	assert.Empty(t, cmd.Body)
}

func TestInboundMalformedPayload(t *testing.T) {
	_, perr := inboundToCommand(proto.Inbound{
		Type: proto.InboundTypeSendMessage,
		Data: json.RawMessage(`{"channelId": `),
	})
	require.NotNil(t, perr)
	assert.Equal(t, core.ErrCodeBadRequest, perr.Code)
}

func TestInboundUnknownType(t *testing.T) {
	_, perr := inboundToCommand(proto.Inbound{Type: "start_call"})
	require.NotNil(t, perr)
	assert.Equal(t, core.ErrCodeBadRequest, perr.Code)
}

func TestInboundCreateChannelVariants(t *testing.T) {
	cmd, perr := inboundToCommand(inbound(t, proto.InboundTypeCreateChan, map[string]string{
		"name":     "Game Night",
		"category": "social",
	}))
	require.Nil(t, perr)
	assert.Equal(t, core.CommandCreateChannel, cmd.Kind)
	assert.False(t, cmd.CategoryOnly)
	assert.Equal(t, "Game Night", cmd.Name)

	cmd, perr = inboundToCommand(inbound(t, proto.InboundTypeCreateChan, map[string]string{
		"type":     "category",
		"category": "projects",
	}))
	require.Nil(t, perr)
	assert.True(t, cmd.CategoryOnly)
	assert.Equal(t, "projects", cmd.Category)

	_, perr = inboundToCommand(inbound(t, proto.InboundTypeCreateChan, map[string]string{}))
	require.NotNil(t, perr)
	assert.Equal(t, core.ErrCodeValidation, perr.Code)

	_, perr = inboundToCommand(inbound(t, proto.InboundTypeCreateChan, map[string]string{"type": "category"}))
	require.NotNil(t, perr)
	assert.Equal(t, core.ErrCodeValidation, perr.Code)
}

func TestInboundUpdateProfile(t *testing.T) {
	cmd, perr := inboundToCommand(inbound(t, proto.InboundTypeUpdateUser, map[string]string{
		"username":    "alice",
		"newUsername": "alicia",
		"profilePic":  "Z",
		"role":        "admin",
	}))
	require.Nil(t, perr)
	assert.Equal(t, core.CommandUpdateProfile, cmd.Kind)
	assert.Equal(t, "alice", cmd.TargetUsername)
	assert.Equal(t, "alicia", cmd.NewUsername)
	assert.Equal(t, "Z", cmd.Glyph)
	assert.Equal(t, "admin", cmd.Role)

	_, perr = inboundToCommand(inbound(t, proto.InboundTypeUpdateUser, map[string]string{
		"username": "alice",
		"role":     "supreme-leader",
	}))
	require.NotNil(t, perr)
	assert.Equal(t, core.ErrCodeValidation, perr.Code)
}

func TestInboundGetChannelsNeedsNoPayload(t *testing.T) {
	cmd, perr := inboundToCommand(proto.Inbound{Type: proto.InboundTypeGetChannels})
	require.Nil(t, perr)
	assert.Equal(t, core.CommandGetChannels, cmd.Kind)
}

func TestOutboundAuthResult(t *testing.T) {
	out := outboundFromEvent(&core.Event{
		Kind:   core.EventAuthResult,
		Result: &core.Result{Success: true},
		Account: &core.AccountInfo{
			Username: "alice",
			Glyph:    "A",
			Bio:      "hello",
			Role:     store.RoleStandard,
			Color:    "#5865F2",
		},
		Token: "tok",
	})
	assert.Equal(t, proto.OutboundTypeAuthResult, out.Type)

	data, ok := out.Data.(proto.AuthResultData)
	require.True(t, ok)
	assert.True(t, data.Success)
	assert.Equal(t, "tok", data.Token)
	require.NotNil(t, data.User)
	assert.Equal(t, "alice", data.User.Username)
	assert.Equal(t, "A", data.User.ProfilePic)
	assert.False(t, data.User.IsAdmin)
}

func TestOutboundMessage(t *testing.T) {
	sent := time.Date(2026, 8, 31, 14, 7, 0, 0, time.UTC)
	out := outboundFromEvent(&core.Event{
		Kind: core.EventMessage,
		Message: &core.MessageView{
			ID:        "m1",
			Username:  "alice",
			Glyph:     "A",
			Color:     "#5865F2",
			Body:      "hello",
			ChannelID: "genel",
			Author:    "alice",
			SentAt:    sent,
		},
	})
	assert.Equal(t, proto.OutboundTypeMessage, out.Type)

	data, ok := out.Data.(proto.MessageView)
	require.True(t, ok)
	assert.Equal(t, "hello", data.Body)
	assert.Equal(t, "genel", data.ChannelID)
	assert.Equal(t, "14:07", data.Time)
}

func TestOutboundUserList(t *testing.T) {
	out := outboundFromEvent(&core.Event{
		Kind: core.EventUserList,
		Users: []core.UserView{
			{Username: "alice", Role: store.RoleStandard, Online: true, CurrentChannelID: "genel"},
			{Username: "root", Role: store.RolePrivileged, Online: false},
		},
	})
	assert.Equal(t, proto.OutboundTypeUserList, out.Type)

	users, ok := out.Data.([]proto.UserListEntry)
	require.True(t, ok)
	require.Len(t, users, 2)
	assert.Equal(t, "online", users[0].Status)
	assert.Equal(t, "genel", users[0].CurrentChannelID)
	assert.False(t, users[0].IsAdmin)
	assert.Equal(t, "offline", users[1].Status)
	assert.True(t, users[1].IsAdmin)
}

func TestOutboundChannelList(t *testing.T) {
	out := outboundFromEvent(&core.Event{
		Kind: core.EventChannelList,
		Channels: []*store.Channel{
			{ID: "genel", Name: "genel-sohbet", Category: "GENEL"},
		},
		Categories: []string{"GENEL"},
	})
	data, ok := out.Data.(proto.ChannelListData)
	require.True(t, ok)
	require.Len(t, data.Channels, 1)
	assert.Equal(t, "text", data.Channels[0].Type)
	assert.Equal(t, []string{"GENEL"}, data.Categories)
}

func TestOutboundError(t *testing.T) {
	out := outboundFromEvent(&core.Event{
		Kind:  core.EventError,
		Error: &core.CoreError{Code: core.ErrCodeNotFound, Message: "channel not found"},
	})
	assert.Equal(t, proto.OutboundTypeError, out.Type)
	require.NotNil(t, out.Error)
	assert.Equal(t, core.ErrCodeNotFound, out.Error.Code)
	assert.Equal(t, "channel not found", out.Error.Msg)
}

func TestOutboundForceLogout(t *testing.T) {
	out := outboundFromEvent(&core.Event{Kind: core.EventForceLogout})
	assert.Equal(t, proto.OutboundTypeForceLogout, out.Type)
	assert.Nil(t, out.Data)
}
