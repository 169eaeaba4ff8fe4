package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound event types (participant -> core).
const (
	InboundTypeAuthRequest  = "auth_request"
	InboundTypeReconnect    = "user_reconnect"
	InboundTypeGetChannels  = "get_channels"
	InboundTypeGetMessages  = "get_initial_messages"
	InboundTypeSendMessage  = "mesaj_yolla"
	InboundTypeDeleteMsg    = "delete_message"
	InboundTypeCreateChan   = "create_channel"
	InboundTypeDeleteChan   = "delete_channel"
	InboundTypeUpdateUser   = "update_user_profile"
	InboundTypeDeleteUser   = "admin_delete_user"
	InboundTypeCreateTicket = "create_support_ticket"
	InboundTypeUpdateTicket = "update_support_ticket_status"
)

// Outbound event types (core -> participant).
const (
	OutboundTypeAuthResult     = "auth_result"
	OutboundTypeReconnectOK    = "reconnect_success"
	OutboundTypeInitialMsgs    = "initial_messages"
	OutboundTypeMessage        = "mesaj_al"
	OutboundTypeMessageDeleted = "message_deleted"
	OutboundTypeChannelList    = "channel_list_update"
	OutboundTypeUserList       = "user_list_update"
	OutboundTypeChannelDeleted = "channel_deleted_info"
	OutboundTypeAdminPanel     = "admin_panel_data"
	OutboundTypeNewTicket      = "new_ticket_alert"
	OutboundTypeUpdateResult   = "update_result"
	OutboundTypeForceLogout    = "force_logout"
	OutboundTypeError          = "error"
)

// AuthRequestData carries a login or register attempt.
type AuthRequestData struct {
	Type       string `json:"type" validate:"required,oneof=login register"`
	Username   string `json:"username" validate:"required"`
	Credential string `json:"credential" validate:"required"`
	ProfilePic string `json:"profilePic,omitempty"`
	Bio        string `json:"bio,omitempty"`
	Color      string `json:"color,omitempty"`
}

// ReconnectData re-attaches an identity after a page reload. The token was
// issued in the previous auth_result/reconnect_success and proves continuity.
type ReconnectData struct {
	Username string `json:"username" validate:"required"`
	Token    string `json:"token" validate:"required"`
}

// GetMessagesData requests one channel's history.
type GetMessagesData struct {
	ChannelID string `json:"channelId" validate:"required"`
}

// SendMessageData is a chat message from the client. An empty body is
// ignored by the core rather than rejected.
type SendMessageData struct {
	ChannelID string `json:"channelId" validate:"required"`
	Body      string `json:"message"`
}

// DeleteMessageData requests point deletion of one message.
type DeleteMessageData struct {
	MessageID string `json:"messageId" validate:"required"`
}

// CreateChannelData creates a channel, or a bare category when Type is
// "category".
type CreateChannelData struct {
	Type     string `json:"type,omitempty"`
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
}

// DeleteChannelData removes a non-protected channel.
type DeleteChannelData struct {
	ChannelID string `json:"channelId" validate:"required"`
}

// UpdateProfileData patches an account. Empty fields keep current values;
// newUsername and role take effect for privileged actors only.
type UpdateProfileData struct {
	Username    string `json:"username" validate:"required"`
	NewUsername string `json:"newUsername,omitempty"`
	ProfilePic  string `json:"profilePic,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Role        string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}

// DeleteUserData removes an account.
type DeleteUserData struct {
	Username string `json:"username" validate:"required"`
}

// CreateTicketData files a support request.
type CreateTicketData struct {
	Body string `json:"content" validate:"required"`
}

// UpdateTicketData mutates a ticket's status.
type UpdateTicketData struct {
	TicketID string `json:"ticketId" validate:"required"`
	Status   string `json:"status" validate:"required"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// AccountView is the client-visible projection of an account.
type AccountView struct {
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic"`
	Bio        string `json:"bio"`
	Role       string `json:"role"`
	Color      string `json:"color"`
	IsAdmin    bool   `json:"isAdmin"`
}

// AuthResultData is the private reply to auth_request; User and Token are set
// on successful login. reconnect_success reuses this shape.
type AuthResultData struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *AccountView `json:"user,omitempty"`
	Token   string       `json:"token,omitempty"`
}

// MessageView is one rendered message.
type MessageView struct {
	ID         string `json:"id,omitempty"`
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic,omitempty"`
	Color      string `json:"color,omitempty"`
	Body       string `json:"message"`
	ChannelID  string `json:"channel"`
	UserID     string `json:"userId,omitempty"`
	Time       string `json:"time"`
}

// InitialMessagesData delivers a channel's resolved history.
type InitialMessagesData struct {
	ChannelID string        `json:"channelId"`
	Messages  []MessageView `json:"messages"`
}

// ChannelView is one directory entry.
type ChannelView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Category string `json:"category"`
}

// ChannelListData is the refreshed directory snapshot.
type ChannelListData struct {
	Channels   []ChannelView `json:"channels"`
	Categories []string      `json:"categories"`
}

// UserListEntry is one row of the presence snapshot.
type UserListEntry struct {
	Username         string `json:"username"`
	ProfilePic       string `json:"profilePic"`
	Bio              string `json:"bio"`
	Color            string `json:"color"`
	Role             string `json:"role"`
	IsAdmin          bool   `json:"isAdmin"`
	Status           string `json:"status"`
	CurrentChannelID string `json:"currentChannelId,omitempty"`
}

// MessageDeletedData announces a tombstone.
type MessageDeletedData struct {
	MessageID string `json:"messageId"`
	ChannelID string `json:"channelId"`
}

// ChannelDeletedData announces a removed channel.
type ChannelDeletedData struct {
	ChannelID string `json:"channelId"`
}

// TicketView is one support ticket as shown on the dashboard.
type TicketView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Body     string `json:"content"`
	Status   string `json:"status"`
	Time     string `json:"time"`
}

// AdminPanelData is the privileged dashboard snapshot.
type AdminPanelData struct {
	Users   []AccountView `json:"users"`
	Tickets []TicketView  `json:"tickets"`
}

// UpdateResultData is the private reply to a mutation request. User is set
// when a self profile update succeeds.
type UpdateResultData struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *AccountView `json:"user,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
