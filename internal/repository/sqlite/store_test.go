package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polychat/internal/domain"
	"polychat/internal/domain/models"
	"polychat/internal/domain/repositories"
)

func newTestStore(t *testing.T) *repositories.Store {
	t.Helper()
	store, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createUser(t *testing.T, store *repositories.Store, username, email string) *models.User {
	t.Helper()
	now := time.Now().UTC()
	u := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}

func createChat(t *testing.T, store *repositories.Store, title string, owner *int64, at time.Time) *models.Chat {
	t.Helper()
	c := &models.Chat{Title: title, UserID: owner, IsAnonymous: owner == nil, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, store.Chats.CreateChat(context.Background(), c))
	return c
}

func addMessages(t *testing.T, store *repositories.Store, chatID int64, start time.Time, texts ...string) []*models.Message {
	t.Helper()
	out := make([]*models.Message, 0, len(texts))
	for i, text := range texts {
		sender := models.SenderUser
		if i%2 == 1 {
			sender = models.SenderAI
		}
		m := &models.Message{ChatID: chatID, Text: text, Sender: sender, CreatedAt: start.Add(time.Duration(i) * time.Second)}
		require.NoError(t, store.Messages.CreateMessage(context.Background(), m))
		out = append(out, m)
	}
	return out
}

func texts(msgs []models.Message) []string {
	out := make([]string, len(msgs))
	for i := range msgs {
		out[i] = msgs[i].Text
	}
	return out
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice", "alice@x.com")
	assert.NotZero(t, alice.ID)

	got, err := store.Users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = store.Users.GetByUsername(ctx, "Alice")
	assert.ErrorIs(t, err, domain.ErrNotFound, "usernames are case-sensitive")

	_, err = store.Users.GetByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_Duplicates(t *testing.T) {
	store := newTestStore(t)
	createUser(t, store, "alice", "alice@x.com")

	tests := []struct {
		name      string
		username  string
		email     string
		wantField string
	}{
		{name: "same username", username: "alice", email: "other@x.com", wantField: "username"},
		{name: "same email", username: "alice2", email: "alice@x.com", wantField: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Users.Create(context.Background(), &models.User{
				Username: tt.username, Email: tt.email, PasswordHash: "h", IsActive: true,
			})
			require.ErrorIs(t, err, domain.ErrConflict)
			var conflict *domain.ConflictError
			require.True(t, errors.As(err, &conflict))
			assert.Equal(t, tt.wantField, conflict.Field)
		})
	}
}

func TestUserRepository_ActiveAndPreferences(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inactive := &models.User{Username: "ghost", Email: "g@x.com", PasswordHash: "h", IsActive: false}
	require.NoError(t, store.Users.Create(ctx, inactive))

	_, err := store.Users.GetActiveByID(ctx, inactive.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	bob := createUser(t, store, "bob", "bob@x.com")
	model := "gpt-4o"
	updated, err := store.Users.UpdatePreferences(ctx, bob.ID, &model, nil)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", updated.PreferredModel)
	assert.Equal(t, "", updated.PreferredLanguage)

	lang := "de"
	updated, err = store.Users.UpdatePreferences(ctx, bob.ID, nil, &lang)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", updated.PreferredModel)
	assert.Equal(t, "de", updated.PreferredLanguage)

	_, err = store.Users.UpdatePreferences(ctx, 12345, &model, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChatRepository_ListVisibleChats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	alice := createUser(t, store, "alice", "a@x.com")
	bob := createUser(t, store, "bob", "b@x.com")

	anon := createChat(t, store, "anon", nil, base)
	aliceChat := createChat(t, store, "alice's", &alice.ID, base.Add(time.Minute))
	bobChat := createChat(t, store, "bob's", &bob.ID, base.Add(2*time.Minute))

	forAlice, err := store.Chats.ListVisibleChats(ctx, &alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{aliceChat.ID, anon.ID}, chatIDs(forAlice))

	forAnon, err := store.Chats.ListVisibleChats(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{anon.ID}, chatIDs(forAnon))

	// Touching the anonymous chat moves it to the top
	require.NoError(t, store.Chats.TouchChat(ctx, anon.ID, base.Add(time.Hour)))
	forBob, err := store.Chats.ListVisibleChats(ctx, &bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{anon.ID, bobChat.ID}, chatIDs(forBob))
}

func chatIDs(chats []models.Chat) []int64 {
	ids := make([]int64, len(chats))
	for i := range chats {
		ids[i] = chats[i].ID
	}
	return ids
}

func TestChatRepository_UpdateAndDeleteCascade(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	chat := createChat(t, store, "Trip", nil, now)
	addMessages(t, store, chat.ID, now, "hi", "hello", "bye")

	renamed, err := store.Chats.UpdateTitle(ctx, chat.ID, "Holiday")
	require.NoError(t, err)
	assert.Equal(t, "Holiday", renamed.Title)

	require.NoError(t, store.Chats.DeleteChat(ctx, chat.ID))

	_, err = store.Chats.GetChat(ctx, chat.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	msgs, err := store.Messages.ListMessages(ctx, chat.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs, "messages must cascade with the chat")

	assert.ErrorIs(t, store.Chats.DeleteChat(ctx, chat.ID), domain.ErrNotFound)
}

func TestMessageRepository_OrderingAndWindow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	chat := createChat(t, store, "c", nil, start)
	all := addMessages(t, store, chat.ID, start, "m1", "m2", "m3", "m4", "m5")

	listed, err := store.Messages.ListMessages(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2", "m3", "m4", "m5"}, texts(listed))
	for i := 1; i < len(listed); i++ {
		assert.False(t, listed[i].CreatedAt.Before(listed[i-1].CreatedAt))
	}

	recent, err := store.Messages.RecentMessages(ctx, chat.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"m3", "m4", "m5"}, texts(recent))

	upTo, err := store.Messages.MessagesUpTo(ctx, all[2], 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"m2", "m3"}, texts(upTo))
}

func TestMessageRepository_SameTimestampUsesID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	chat := createChat(t, store, "c", nil, at)
	var msgs []*models.Message
	for _, text := range []string{"a", "b", "c"} {
		m := &models.Message{ChatID: chat.ID, Text: text, Sender: models.SenderUser, CreatedAt: at}
		require.NoError(t, store.Messages.CreateMessage(ctx, m))
		msgs = append(msgs, m)
	}

	removed, err := store.Messages.DeleteMessagesAfter(ctx, msgs[0])
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	listed, err := store.Messages.ListMessages(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, texts(listed))
}

func TestMessageRepository_EditKeepsFirstOriginal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	chat := createChat(t, store, "c", nil, now)
	msg := addMessages(t, store, chat.ID, now, "first")[0]

	orig := "first"
	require.NoError(t, store.Messages.UpdateMessageText(ctx, msg, "second", &orig))
	assert.Equal(t, "second", msg.Text)
	require.NotNil(t, msg.OriginalText)
	assert.Equal(t, "first", *msg.OriginalText)

	again := "second"
	require.NoError(t, store.Messages.UpdateMessageText(ctx, msg, "third", &again))
	assert.Equal(t, "third", msg.Text)
	assert.Equal(t, "first", *msg.OriginalText)

	_, err := store.Messages.GetMessage(ctx, chat.ID+1, msg.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMessageRepository_CreateInMissingChat(t *testing.T) {
	store := newTestStore(t)
	err := store.Messages.CreateMessage(context.Background(), &models.Message{
		ChatID: 404, Text: "x", Sender: models.SenderUser, CreatedAt: time.Now().UTC(),
	})
	assert.Error(t, err, "foreign key must reject orphan messages")
}

func TestTransactionManager_Rollback(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	chat := createChat(t, store, "c", nil, now)
	msgs := addMessages(t, store, chat.ID, now, "q1", "a1", "q2", "a2")

	boom := errors.New("boom")
	err := store.Tx.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := store.Messages.DeleteMessagesAfter(txCtx, msgs[0]); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	listed, err := store.Messages.ListMessages(ctx, chat.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 4, "rolled back truncation must leave the transcript intact")

	err = store.Tx.ExecTx(ctx, func(txCtx context.Context) error {
		_, err := store.Messages.DeleteMessagesAfter(txCtx, msgs[0])
		return err
	})
	require.NoError(t, err)

	listed, err = store.Messages.ListMessages(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, texts(listed))
}
