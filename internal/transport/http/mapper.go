package http

import (
	"encoding/json"

	"github.com/lanwire/chathub-server/internal/core"
	"github.com/lanwire/chathub-server/internal/proto"
	"github.com/lanwire/chathub-server/internal/store"
)

const timeLayout = "15:04"

// decode unmarshals an inbound payload and checks its required fields.
func decode[T any](raw json.RawMessage) (*T, *proto.Error) {
	var data T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed payload"}
		}
	}
	if err := proto.Validate(&data); err != nil {
		return nil, &proto.Error{Code: core.ErrCodeValidation, Msg: err.Error()}
	}
	return &data, nil
}

// inboundToCommand maps a wire envelope to a core command. A non-nil
// proto.Error is replied to the client without touching the hub.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeAuthRequest:
		data, perr := decode[proto.AuthRequestData](inbound.Data)
		if perr != nil {
			return nil, perr
		}
		return &core.Command{
			Kind:       core.CommandAuth,
			AuthType:   data.Type,
			Username:   data.Username,
			Credential: data.Credential,
			Glyph:      data.ProfilePic,
			Bio:        data.Bio,
			Color:      data.Color,
		}, nil

	case proto.InboundTypeReconnect:
		data, perr := decode[proto.ReconnectData](inbound.Data)
		if perr != nil {
			return nil, perr
		}
		return &core.Command{
			Kind:     core.CommandReconnect,
			Username: data.Username,
			Token:    data.Token,
		}, nil

	case proto.InboundTypeGetChannels:
		return &core.Command{Kind: core.CommandGetChannels}, nil

	case proto.InboundTypeGetMessages:
		data, perr := decode[proto.GetMessagesData](inbound.Data)
		if perr != nil {
			return nil, perr
		}
		return &core.Command{Kind: core.CommandGetHistory, ChannelID: data.ChannelID}, nil

	case proto.InboundTypeSendMessage:
		data, perr := decode[proto.SendMessageData](inbound.Data)
		if perr != nil {
			return nil, perr
		}
		return &core.Command{
			Kind:      core.CommandSendMessage,
			ChannelID: data.ChannelID,
			Body:      data.Body,
		}, nil

	case proto.InboundTypeDeleteMsg:
		data, perr := decode[proto.DeleteMessageData](inbound.Data)
		if perr != nil {
			return nil, perr
		}
		return &core.Command{Kind: core.CommandDeleteMessage, MessageID: data.MessageID}, nil

	case proto.InboundTypeCreateChan:
		data, perr := decode[proto.CreateChannelData](inbound.Data)
		if perr != nil {
			return nil, perr
		}
		if data.Type == "category" {
			if data.Category == "" {
				return nil, &proto.Error{Code: core.ErrCodeValidation, Msg: "category is required"}
			}
			return &core.Command{
				Kind:         core.CommandCreateChannel,
				CategoryOnly: true,
				Category:     data.Category,
			}, nil
		}
		if data.Name == "" {
			return nil, &proto.Error{Code: core.ErrCodeValidation, Msg: "name is required"}
		}
		return &core.Command{
			Kind:     core.CommandCreateChannel,
			Name:     data.Name,
			Category: data.Category,
		}, nil

	case proto.InboundTypeDeleteChan:
		data, perr := decode[proto.DeleteChannelData](inbound.Data)
		if perr != nil {
			return nil, perr
		}
		return &core.Command{Kind: core.CommandDeleteChannel, ChannelID: data.ChannelID}, nil

	case proto.InboundTypeUpdateUser:
		data, perr := decode[proto.UpdateProfileData](inbound.Data)
		if perr != nil {
			return nil, perr
		}
		return &core.Command{
			Kind:           core.CommandUpdateProfile,
			TargetUsername: data.Username,
			NewUsername:    data.NewUsername,
			Glyph:          data.ProfilePic,
			Bio:            data.Bio,
			Role:           data.Role,
		}, nil

	case proto.InboundTypeDeleteUser:
		data, perr := decode[proto.DeleteUserData](inbound.Data)
		if perr != nil {
			return nil, perr
		}
		return &core.Command{Kind: core.CommandDeleteAccount, TargetUsername: data.Username}, nil

	case proto.InboundTypeCreateTicket:
		data, perr := decode[proto.CreateTicketData](inbound.Data)
		if perr != nil {
			return nil, perr
		}
		return &core.Command{Kind: core.CommandCreateTicket, Body: data.Body}, nil

	case proto.InboundTypeUpdateTicket:
		data, perr := decode[proto.UpdateTicketData](inbound.Data)
		if perr != nil {
			return nil, perr
		}
		return &core.Command{
			Kind:     core.CommandUpdateTicket,
			TicketID: data.TicketID,
			Status:   data.Status,
		}, nil

	default:
		return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "unknown message type"}
	}
}

// outboundFromEvent maps a core event to its wire envelope.
func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventAuthResult:
		return proto.Outbound{Type: proto.OutboundTypeAuthResult, Data: authResultData(event)}

	case core.EventReconnectSuccess:
		return proto.Outbound{Type: proto.OutboundTypeReconnectOK, Data: authResultData(event)}

	case core.EventInitialMessages:
		messages := make([]proto.MessageView, 0, len(event.Messages))
		for _, view := range event.Messages {
			messages = append(messages, messageView(&view))
		}
		return proto.Outbound{
			Type: proto.OutboundTypeInitialMsgs,
			Data: proto.InitialMessagesData{ChannelID: event.ChannelID, Messages: messages},
		}

	case core.EventMessage:
		return proto.Outbound{Type: proto.OutboundTypeMessage, Data: messageView(event.Message)}

	case core.EventMessageDeleted:
		return proto.Outbound{
			Type: proto.OutboundTypeMessageDeleted,
			Data: proto.MessageDeletedData{MessageID: event.MessageID, ChannelID: event.ChannelID},
		}

	case core.EventChannelList:
		channels := make([]proto.ChannelView, 0, len(event.Channels))
		for _, ch := range event.Channels {
			channels = append(channels, proto.ChannelView{
				ID:       ch.ID,
				Name:     ch.Name,
				Type:     "text",
				Category: ch.Category,
			})
		}
		categories := event.Categories
		if categories == nil {
			categories = []string{}
		}
		return proto.Outbound{
			Type: proto.OutboundTypeChannelList,
			Data: proto.ChannelListData{Channels: channels, Categories: categories},
		}

	case core.EventUserList:
		users := make([]proto.UserListEntry, 0, len(event.Users))
		for _, u := range event.Users {
			status := "offline"
			if u.Online {
				status = "online"
			}
			users = append(users, proto.UserListEntry{
				Username:         u.Username,
				ProfilePic:       u.Glyph,
				Bio:              u.Bio,
				Color:            u.Color,
				Role:             string(u.Role),
				IsAdmin:          u.Role == store.RolePrivileged,
				Status:           status,
				CurrentChannelID: u.CurrentChannelID,
			})
		}
		return proto.Outbound{Type: proto.OutboundTypeUserList, Data: users}

	case core.EventChannelDeleted:
		return proto.Outbound{
			Type: proto.OutboundTypeChannelDeleted,
			Data: proto.ChannelDeletedData{ChannelID: event.ChannelID},
		}

	case core.EventAdminPanel:
		users := make([]proto.AccountView, 0, len(event.Admin.Users))
		for _, info := range event.Admin.Users {
			users = append(users, accountView(&info))
		}
		tickets := make([]proto.TicketView, 0, len(event.Admin.Tickets))
		for _, t := range event.Admin.Tickets {
			tickets = append(tickets, ticketView(t))
		}
		return proto.Outbound{
			Type: proto.OutboundTypeAdminPanel,
			Data: proto.AdminPanelData{Users: users, Tickets: tickets},
		}

	case core.EventNewTicket:
		return proto.Outbound{Type: proto.OutboundTypeNewTicket, Data: ticketView(event.Ticket)}

	case core.EventUpdateResult:
		data := proto.UpdateResultData{Success: event.Result.Success, Message: event.Result.Message}
		if event.Account != nil {
			view := accountView(event.Account)
			data.User = &view
		}
		return proto.Outbound{Type: proto.OutboundTypeUpdateResult, Data: data}

	case core.EventForceLogout:
		return proto.Outbound{Type: proto.OutboundTypeForceLogout}

	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}

	default:
		return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown event"}}
	}
}

func authResultData(event *core.Event) proto.AuthResultData {
	data := proto.AuthResultData{
		Success: event.Result.Success,
		Message: event.Result.Message,
		Token:   event.Token,
	}
	if event.Account != nil {
		view := accountView(event.Account)
		data.User = &view
	}
	return data
}

func accountView(info *core.AccountInfo) proto.AccountView {
	return proto.AccountView{
		Username:   info.Username,
		ProfilePic: info.Glyph,
		Bio:        info.Bio,
		Role:       string(info.Role),
		Color:      info.Color,
		IsAdmin:    info.Role == store.RolePrivileged,
	}
}

func messageView(view *core.MessageView) proto.MessageView {
	return proto.MessageView{
		ID:         view.ID,
		Username:   view.Username,
		ProfilePic: view.Glyph,
		Color:      view.Color,
		Body:       view.Body,
		ChannelID:  view.ChannelID,
		UserID:     view.Author,
		Time:       view.SentAt.Format(timeLayout),
	}
}

func ticketView(t *store.Ticket) proto.TicketView {
	return proto.TicketView{
		ID:       t.ID,
		Username: t.Author,
		Body:     t.Body,
		Status:   string(t.Status),
		Time:     t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
