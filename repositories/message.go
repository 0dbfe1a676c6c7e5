//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"roomhub/domain"
	"roomhub/errors"
)

type IMessageRepository interface {
	Store(m domain.Message) error
	Get(id uuid.UUID) (domain.Message, error)
	ListForRoom(code string) ([]domain.Message, error)
	SetFlagged(id uuid.UUID, flagged bool) error
	Delete(id uuid.UUID) error
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) IMessageRepository {
	return &MessageRepository{db: db, log: log}
}

// Store persists a message under its chronological key plus an id index
// entry, so moderation actions can address a message by id alone.
func (m MessageRepository) Store(message domain.Message) error {
	data, err := encode(fromMessage(message))
	if err != nil {
		return err
	}
	key := messageKey(message.RoomCode, message.At, message.ID)
	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(messageIDKey(message.ID), key)
	})
}

func (m MessageRepository) Get(id uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		record, _, err := getMessageByID(txn, id)
		if err != nil {
			return err
		}
		message, err = toMessage(record)
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, errors.ErrMessageNotFound
	}
	return message, err
}

// ListForRoom scans the room's message prefix forward. Thanks to the
// padded timestamp in the key, the result is already sorted by time
// ascending.
func (m MessageRepository) ListForRoom(code string) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		_, records, err := scanMessages(txn, code)
		if err != nil {
			return err
		}
		for _, record := range records {
			message, err := toMessage(record)
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	return messages, err
}

// SetFlagged rewrites the message record in place at its original key,
// keeping its position in the timeline.
func (m MessageRepository) SetFlagged(id uuid.UUID, flagged bool) error {
	err := m.db.Update(func(txn *badger.Txn) error {
		record, key, err := getMessageByID(txn, id)
		if err != nil {
			return err
		}
		record.Flagged = flagged
		data, err := encode(record)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrMessageNotFound
	}
	return err
}

func (m MessageRepository) Delete(id uuid.UUID) error {
	err := m.db.Update(func(txn *badger.Txn) error {
		_, key, err := getMessageByID(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(messageIDKey(id))
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrMessageNotFound
	}
	return err
}

// getMessageByID resolves the id index to the chronological key, then
// loads the record stored there.
func getMessageByID(txn *badger.Txn, id uuid.UUID) (messageRecord, []byte, error) {
	item, err := txn.Get(messageIDKey(id))
	if err != nil {
		return messageRecord{}, nil, err
	}
	key, err := item.ValueCopy(nil)
	if err != nil {
		return messageRecord{}, nil, err
	}
	item, err = txn.Get(key)
	if err != nil {
		return messageRecord{}, nil, err
	}
	var record messageRecord
	err = item.Value(func(val []byte) error {
		return decode(val, &record)
	})
	if err != nil {
		return messageRecord{}, nil, err
	}
	return record, key, nil
}
