package chat

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	db "github.com/katatrina/auctsite-BE/internal/db/sqlc"
	"github.com/katatrina/auctsite-BE/internal/event"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory db.Store covering the queries the relay touches.
type fakeStore struct {
	db.Store

	mu       sync.Mutex
	users    map[int64]db.User
	chats    map[int64]db.Chat
	members  map[int64][]int64
	messages []db.Message
	nextChat int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[int64]db.User),
		chats:    make(map[int64]db.Chat),
		members:  make(map[int64][]int64),
		nextChat: 1,
	}
}

func (s *fakeStore) GetUserByID(_ context.Context, id int64) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return db.User{}, db.ErrRecordNotFound
	}
	return user, nil
}

func (s *fakeStore) GetChatByID(_ context.Context, id int64) (db.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[id]
	if !ok {
		return db.Chat{}, db.ErrRecordNotFound
	}
	return chat, nil
}

func (s *fakeStore) IsChatMember(_ context.Context, arg db.IsChatMemberParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, userID := range s.members[arg.ChatID] {
		if userID == arg.UserID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) GetChatRecipient(_ context.Context, arg db.GetChatRecipientParams) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, userID := range s.members[arg.ChatID] {
		if userID != arg.SenderID {
			return s.users[userID], nil
		}
	}
	return db.User{}, db.ErrRecordNotFound
}

func (s *fakeStore) GetChatBetweenUsers(_ context.Context, arg db.GetChatBetweenUsersParams) (db.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for chatID, members := range s.members {
		hasA, hasB := false, false
		for _, userID := range members {
			hasA = hasA || userID == arg.UserA
			hasB = hasB || userID == arg.UserB
		}
		if hasA && hasB {
			return s.chats[chatID], nil
		}
	}
	return db.Chat{}, db.ErrRecordNotFound
}

func (s *fakeStore) CreateChat(_ context.Context) (db.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := db.Chat{ID: s.nextChat, CreatedAt: time.Now()}
	s.nextChat++
	s.chats[chat.ID] = chat
	return chat, nil
}

func (s *fakeStore) AddChatMember(_ context.Context, arg db.AddChatMemberParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.members[arg.ChatID] = append(s.members[arg.ChatID], arg.UserID)
	return nil
}

func (s *fakeStore) CreateMessage(_ context.Context, arg db.CreateMessageParams) (db.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	message := db.Message{
		ID:        arg.ID,
		ChatID:    arg.ChatID,
		SenderID:  arg.SenderID,
		Text:      arg.Text,
		Unread:    true,
		CreatedAt: time.Now(),
	}
	s.messages = append(s.messages, message)
	return message, nil
}

func (s *fakeStore) CountUnreadMessages(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, message := range s.messages {
		if !message.Unread || message.SenderID == userID {
			continue
		}
		for _, memberID := range s.members[message.ChatID] {
			if memberID == userID {
				count++
				break
			}
		}
	}
	return count, nil
}

func (s *fakeStore) UpdateUserUnreadCount(_ context.Context, arg db.UpdateUserUnreadCountParams) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.users[arg.ID]
	user.UnreadCount = arg.UnreadCount
	s.users[arg.ID] = user
	return user, nil
}

type recordingSender struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recordingSender) Register(string, chan event.Event)   {}
func (r *recordingSender) Unregister(string, chan event.Event) {}
func (r *recordingSender) Run()                                {}
func (r *recordingSender) Shutdown()                           {}

func (r *recordingSender) Broadcast(ev event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingSender) all() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.Event(nil), r.events...)
}

func newTestRelay(t *testing.T) (*Relay, *fakeStore, *recordingSender) {
	t.Helper()

	store := newFakeStore()
	avatar := "https://cdn.example.com/alice.png"
	store.users[1] = db.User{ID: 1, Username: "alice", AvatarURL: &avatar}
	store.users[2] = db.User{ID: 2, Username: "bob"}
	store.chats[1] = db.Chat{ID: 1}
	store.members[1] = []int64{1, 2}
	store.nextChat = 2

	sender := &recordingSender{}
	return NewRelay(store, sender), store, sender
}

func TestSendMessageValidation(t *testing.T) {
	testCases := []struct {
		name    string
		chatID  int64
		sender  int64
		text    string
		wantErr error
	}{
		{name: "empty text", chatID: 1, sender: 1, text: "", wantErr: ErrInvalidMessage},
		{name: "whitespace only", chatID: 1, sender: 1, text: "   \n\t", wantErr: ErrInvalidMessage},
		{name: "too long", chatID: 1, sender: 1, text: strings.Repeat("ă", 301), wantErr: ErrInvalidMessage},
		{name: "unknown chat", chatID: 99, sender: 1, text: "hello", wantErr: ErrInvalidMessage},
		{name: "not a member", chatID: 1, sender: 3, text: "hello", wantErr: ErrNotChatMember},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			relay, store, sender := newTestRelay(t)
			store.users[3] = db.User{ID: 3, Username: "mallory"}

			_, err := relay.SendMessage(context.Background(), SendMessageParams{
				ChatID:   tc.chatID,
				SenderID: tc.sender,
				Text:     tc.text,
			})
			require.ErrorIs(t, err, tc.wantErr)
			require.Empty(t, store.messages)
			require.Empty(t, sender.all())
		})
	}
}

func TestSendMessageMaxLengthAccepted(t *testing.T) {
	relay, _, _ := newTestRelay(t)

	message, err := relay.SendMessage(context.Background(), SendMessageParams{
		ChatID:   1,
		SenderID: 1,
		Text:     strings.Repeat("ă", 300),
	})
	require.NoError(t, err)
	require.Equal(t, 300, len([]rune(message.Text)))
}

func TestSendMessageDelivered(t *testing.T) {
	relay, store, sender := newTestRelay(t)

	message, err := relay.SendMessage(context.Background(), SendMessageParams{
		ChatID:   1,
		SenderID: 1,
		Text:     "  see you at the auction  ",
		Origin:   "sess-1",
	})
	require.NoError(t, err)
	require.Equal(t, "see you at the auction", message.Text)
	require.Len(t, store.messages, 1)

	// The recipient's unread counter is recomputed and persisted.
	require.Equal(t, int64(1), store.users[2].UnreadCount)

	// One event per inbox topic, recipient first, same origin on both.
	events := sender.all()
	require.Len(t, events, 2)
	require.Equal(t, "inbox:2", events[0].Topic)
	require.Equal(t, "inbox:1", events[1].Topic)
	for _, ev := range events {
		require.Equal(t, event.EventTypeChatMessage, ev.Type)
		require.Equal(t, "sess-1", ev.Origin)
		require.Equal(t, "see you at the auction", ev.Data["message"])
		require.Equal(t, "alice", ev.Data["sender"])
		require.Equal(t, int64(1), ev.Data["user_inbox"])
		user := ev.Data["user"].(map[string]any)
		avatar := user["avatar"].(map[string]any)
		require.Equal(t, "https://cdn.example.com/alice.png", avatar["url"])
	}
}

func TestSendMessageNoRecipient(t *testing.T) {
	relay, store, _ := newTestRelay(t)
	store.members[1] = []int64{1}

	_, err := relay.SendMessage(context.Background(), SendMessageParams{
		ChatID:   1,
		SenderID: 1,
		Text:     "anyone there?",
	})
	require.ErrorIs(t, err, ErrNoRecipient)
}

func TestDeliverWinnerMessageCreatesChat(t *testing.T) {
	relay, store, sender := newTestRelay(t)
	store.users[5] = db.User{ID: 5, Username: "winner"}

	listing := db.Listing{ID: 7, OwnerID: 1, Name: "vintage radio"}
	err := relay.DeliverWinnerMessage(context.Background(), listing, store.users[5], 42)
	require.NoError(t, err)

	// A fresh chat between owner and winner was created with both members.
	chat, err := store.GetChatBetweenUsers(context.Background(), db.GetChatBetweenUsersParams{UserA: 1, UserB: 5})
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{1, 5}, store.members[chat.ID])

	require.Len(t, store.messages, 1)
	require.Equal(t, int64(1), store.messages[0].SenderID)
	require.Contains(t, store.messages[0].Text, "you won my listing vintage radio")
	require.Contains(t, store.messages[0].Text, "42.00")
	require.Contains(t, store.messages[0].Text, "/market/7/")

	events := sender.all()
	require.Len(t, events, 2)
	require.Equal(t, "inbox:5", events[0].Topic)
	require.Empty(t, events[0].Origin)
}

func TestDeliverWinnerMessageReusesChat(t *testing.T) {
	relay, store, _ := newTestRelay(t)

	listing := db.Listing{ID: 7, OwnerID: 1, Name: "vintage radio"}
	err := relay.DeliverWinnerMessage(context.Background(), listing, store.users[2], 42)
	require.NoError(t, err)

	require.Len(t, store.chats, 1)
	require.Len(t, store.messages, 1)
	require.Equal(t, int64(1), store.messages[0].ChatID)
}
