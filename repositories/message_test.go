package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"roomhub/domain"
	"roomhub/errors"
)

func Test_Messages_List_In_Chronological_Order(t *testing.T) {
	req := require.New(t)
	messages := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	stored := []domain.Message{
		{ID: uuid.New(), RoomCode: "abc123", AuthorID: "alice", Content: "first", At: at},
		{ID: uuid.New(), RoomCode: "abc123", AuthorID: "bob", Content: "second", At: at.Add(time.Minute)},
		{ID: uuid.New(), RoomCode: "abc123", AuthorID: "clara", Content: "third", At: at.Add(2 * time.Minute)},
	}
	// Store out of order: the key layout must restore chronology.
	req.NoError(messages.Store(stored[2]))
	req.NoError(messages.Store(stored[0]))
	req.NoError(messages.Store(stored[1]))

	fetched, err := messages.ListForRoom("abc123")
	req.NoError(err)
	req.Equal(stored, fetched)
}

func Test_Get_By_ID(t *testing.T) {
	req := require.New(t)
	messages := NewMessageRepository(openTestDB(t), slog.Default())

	message := domain.Message{
		ID: uuid.New(), RoomCode: "abc123", AuthorID: "alice",
		Content: "hello", Flagged: true, At: time.Now().UTC(),
	}
	req.NoError(messages.Store(message))

	fetched, err := messages.Get(message.ID)
	req.NoError(err)
	req.Equal(message, fetched)

	_, err = messages.Get(uuid.New())
	req.ErrorIs(err, errors.ErrMessageNotFound)
}

func Test_SetFlagged_Keeps_Timeline_Position(t *testing.T) {
	req := require.New(t)
	messages := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	flagged := domain.Message{ID: uuid.New(), RoomCode: "abc123", AuthorID: "alice", Content: "early", Flagged: true, At: at}
	later := domain.Message{ID: uuid.New(), RoomCode: "abc123", AuthorID: "bob", Content: "later", At: at.Add(time.Minute)}
	req.NoError(messages.Store(flagged))
	req.NoError(messages.Store(later))

	req.NoError(messages.SetFlagged(flagged.ID, false))

	fetched, err := messages.ListForRoom("abc123")
	req.NoError(err)
	req.Len(fetched, 2)
	req.Equal("early", fetched[0].Content)
	req.False(fetched[0].Flagged)

	req.ErrorIs(messages.SetFlagged(uuid.New(), false), errors.ErrMessageNotFound)
}

func Test_Delete_Removes_Row_And_Index(t *testing.T) {
	req := require.New(t)
	messages := NewMessageRepository(openTestDB(t), slog.Default())

	message := domain.Message{
		ID: uuid.New(), RoomCode: "abc123", AuthorID: "alice",
		Content: "to be removed", At: time.Now().UTC(),
	}
	req.NoError(messages.Store(message))
	req.NoError(messages.Delete(message.ID))

	_, err := messages.Get(message.ID)
	req.ErrorIs(err, errors.ErrMessageNotFound)

	fetched, err := messages.ListForRoom("abc123")
	req.NoError(err)
	req.Empty(fetched)

	req.ErrorIs(messages.Delete(message.ID), errors.ErrMessageNotFound)
}
