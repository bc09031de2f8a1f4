package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	db "github.com/katatrina/auctsite-BE/internal/db/sqlc"
	"github.com/katatrina/auctsite-BE/internal/event"
	"github.com/katatrina/auctsite-BE/internal/util"
	"github.com/katatrina/auctsite-BE/internal/validator"
	"github.com/rs/zerolog/log"
)

// These error strings travel to the browser inside error-socket frames, so
// they keep the exact text clients have always displayed.
var (
	ErrInvalidMessage = errors.New("The message requires correct 'chat_id' and 'new_message_text' values")
	ErrNotChatMember  = errors.New("You are not a member of this chat")
	ErrNoRecipient    = errors.New("You're single user in the chat, can't send message")
)

// Relay forwards chat messages between the two members of a chat. Messages
// are persisted first, then pushed to both inbox topics with the sender's
// session id as the origin marker, so only the sender renders the self
// variant.
type Relay struct {
	store  db.Store
	events event.EventSender
}

func NewRelay(store db.Store, events event.EventSender) *Relay {
	return &Relay{
		store:  store,
		events: events,
	}
}

type SendMessageParams struct {
	ChatID   int64
	SenderID int64
	Text     string
	Origin   string
}

// SendMessage validates, persists, and relays one chat message.
func (r *Relay) SendMessage(ctx context.Context, arg SendMessageParams) (db.Message, error) {
	text := strings.TrimSpace(arg.Text)
	if text == "" || utf8.RuneCountInString(text) > validator.MaxMessageLength {
		return db.Message{}, ErrInvalidMessage
	}

	chat, err := r.store.GetChatByID(ctx, arg.ChatID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return db.Message{}, ErrInvalidMessage
		}
		return db.Message{}, fmt.Errorf("failed to get chat %d: %w", arg.ChatID, err)
	}

	isMember, err := r.store.IsChatMember(ctx, db.IsChatMemberParams{
		ChatID: chat.ID,
		UserID: arg.SenderID,
	})
	if err != nil {
		return db.Message{}, fmt.Errorf("failed to check chat membership: %w", err)
	}
	if !isMember {
		return db.Message{}, ErrNotChatMember
	}

	sender, err := r.store.GetUserByID(ctx, arg.SenderID)
	if err != nil {
		return db.Message{}, fmt.Errorf("failed to get sender: %w", err)
	}

	recipient, err := r.store.GetChatRecipient(ctx, db.GetChatRecipientParams{
		ChatID:   chat.ID,
		SenderID: arg.SenderID,
	})
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return db.Message{}, ErrNoRecipient
		}
		return db.Message{}, fmt.Errorf("failed to get chat recipient: %w", err)
	}

	return r.deliver(ctx, chat, sender, recipient, text, arg.Origin)
}

// DeliverWinnerMessage sends the "you won my listing" message from the
// listing's owner to the winner, creating their chat if it does not exist.
func (r *Relay) DeliverWinnerMessage(ctx context.Context, listing db.Listing, winner db.User, finalValue float64) error {
	owner, err := r.store.GetUserByID(ctx, listing.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to get listing owner: %w", err)
	}

	chat, err := r.store.GetChatBetweenUsers(ctx, db.GetChatBetweenUsersParams{
		UserA: owner.ID,
		UserB: winner.ID,
	})
	if err != nil {
		if !errors.Is(err, db.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up chat: %w", err)
		}

		chat, err = r.store.CreateChat(ctx)
		if err != nil {
			return fmt.Errorf("failed to create chat: %w", err)
		}
		for _, userID := range []int64{owner.ID, winner.ID} {
			if err = r.store.AddChatMember(ctx, db.AddChatMemberParams{
				ChatID: chat.ID,
				UserID: userID,
			}); err != nil {
				return fmt.Errorf("failed to add chat member %d: %w", userID, err)
			}
		}
	}

	text := fmt.Sprintf("Hi, you won my listing %s at %s. Check it at /market/%d/",
		listing.Name, util.FormatBidValue(finalValue), listing.ID)

	_, err = r.deliver(ctx, chat, owner, winner, text, "")
	return err
}

// deliver persists the message, refreshes the recipient's unread counter,
// and publishes the chat_message event to both inbox topics.
func (r *Relay) deliver(ctx context.Context, chat db.Chat, sender db.User, recipient db.User, text string, origin string) (db.Message, error) {
	messageID, err := uuid.NewV7()
	if err != nil {
		return db.Message{}, fmt.Errorf("failed to generate message ID: %w", err)
	}

	message, err := r.store.CreateMessage(ctx, db.CreateMessageParams{
		ID:       messageID,
		ChatID:   chat.ID,
		SenderID: sender.ID,
		Text:     text,
	})
	if err != nil {
		return db.Message{}, fmt.Errorf("failed to persist message: %w", err)
	}

	unreadCount, err := r.store.CountUnreadMessages(ctx, recipient.ID)
	if err != nil {
		return db.Message{}, fmt.Errorf("failed to count unread messages: %w", err)
	}

	if _, err = r.store.UpdateUserUnreadCount(ctx, db.UpdateUserUnreadCountParams{
		ID:          recipient.ID,
		UnreadCount: unreadCount,
	}); err != nil {
		return db.Message{}, fmt.Errorf("failed to update unread count: %w", err)
	}

	avatarURL := ""
	if sender.AvatarURL != nil {
		avatarURL = *sender.AvatarURL
	}

	data := map[string]any{
		"message":      message.Text,
		"message_date": util.FormatEventTime(message.CreatedAt),
		"sender":       sender.Username,
		"user":         map[string]any{"avatar": map[string]any{"url": avatarURL}},
		"user_inbox":   unreadCount,
	}

	for _, userID := range []int64{recipient.ID, sender.ID} {
		r.events.Broadcast(event.Event{
			Topic:  event.InboxTopic(userID),
			Type:   event.EventTypeChatMessage,
			Origin: origin,
			Data:   data,
		})
	}

	log.Info().
		Int64("chat_id", chat.ID).
		Int64("sender_id", sender.ID).
		Int64("recipient_id", recipient.ID).
		Str("text", util.TruncateContent(message.Text, 30)).
		Msg("chat message relayed")

	return message, nil
}
