package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gorilla/websocket"
	"github.com/katatrina/auctsite-BE/internal/chat"
	"github.com/katatrina/auctsite-BE/internal/event"
	"github.com/rs/zerolog/log"
)

// InboxSession serves one authenticated connection on the user's inbox topic:
// chat messages addressed to the user arrive here, and the user sends
// messages through it.
type InboxSession struct {
	*Session

	userID int64
	relay  *chat.Relay
}

func NewInboxSession(conn *websocket.Conn, events event.EventSender, relay *chat.Relay, userID int64) *InboxSession {
	is := &InboxSession{
		Session: newSession(conn, events, event.InboxTopic(userID)),
		userID:  userID,
		relay:   relay,
	}
	is.handle = is.handleFrame
	return is
}

type inboxFrame struct {
	ChatID         *int64  `json:"chat_id"`
	NewMessageText *string `json:"new_message_text"`
}

func (is *InboxSession) handleFrame(raw []byte) {
	var frame inboxFrame
	if err := json.Unmarshal(raw, &frame); err != nil || frame.ChatID == nil || frame.NewMessageText == nil {
		is.sendError(chat.ErrInvalidMessage.Error())
		return
	}

	_, err := is.relay.SendMessage(context.Background(), chat.SendMessageParams{
		ChatID:   *frame.ChatID,
		SenderID: is.userID,
		Text:     *frame.NewMessageText,
		Origin:   is.id,
	})
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrInvalidMessage),
			errors.Is(err, chat.ErrNotChatMember),
			errors.Is(err, chat.ErrNoRecipient):
			is.sendError(err.Error())
		default:
			log.Error().Err(err).Int64("chat_id", *frame.ChatID).Msg("failed to relay chat message")
			is.sendError("Failed to send the message. Please try again.")
		}
	}
}
