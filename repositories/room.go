//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"roomhub/domain"
	"roomhub/errors"
)

type IRoomRepository interface {
	Create(room domain.Room, creator domain.Membership) error
	Get(code string) (domain.Room, error)
	Delete(code string) error
	ListFor(userID string) ([]domain.Room, error)
}

type RoomRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) IRoomRepository {
	return &RoomRepository{db: db, log: log}
}

// Create inserts the room together with its creator membership in a
// single transaction: both rows commit or neither does. A code already
// present surfaces as ErrRoomCodeTaken so the registry can regenerate;
// losing the optimistic commit to a concurrent creator of the same
// code means that code is now taken, so the conflict maps the same way
// and the registry's retry loop still fires.
func (r RoomRepository) Create(room domain.Room, creator domain.Membership) error {
	roomData, err := encode(fromRoom(room))
	if err != nil {
		return err
	}
	memberData, err := encode(fromMembership(creator))
	if err != nil {
		return err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(roomKey(room.Code)); err == nil {
			return errors.ErrRoomCodeTaken
		}
		if err := txn.Set(roomKey(room.Code), roomData); err != nil {
			return err
		}
		if err := txn.Set(memberKey(room.Code, creator.UserID), memberData); err != nil {
			return err
		}
		return txn.Set(memberOfKey(creator.UserID, room.Code), nil)
	})
	if stderrors.Is(err, badger.ErrConflict) {
		return errors.ErrRoomCodeTaken
	}
	return err
}

func (r RoomRepository) Get(code string) (domain.Room, error) {
	var room domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(roomKey(code))
		if err != nil {
			return err
		}
		var record roomRecord
		if err = item.Value(func(val []byte) error {
			return decode(val, &record)
		}); err != nil {
			return err
		}
		room = toRoom(record)
		return nil
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Room{}, errors.ErrRoomNotFound
	}
	return room, err
}

// Delete cascades in a single transaction, in a fixed order: messages,
// then memberships, then the room itself. A failure anywhere rolls the
// whole cascade back, so no orphaned rows can survive a partial run.
func (r RoomRepository) Delete(code string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		// Messages, with their id index entries.
		msgKeys, records, err := scanMessages(txn, code)
		if err != nil {
			return err
		}
		for i, key := range msgKeys {
			if err := txn.Delete(key); err != nil {
				return err
			}
			parsedID, err := parseMessageID(records[i])
			if err != nil {
				return err
			}
			if err := txn.Delete(messageIDKey(parsedID)); err != nil {
				return err
			}
		}

		// Memberships, with their reverse index entries.
		memberKeys, err := collectKeys(txn, memberPrefix(code))
		if err != nil {
			return err
		}
		for _, key := range memberKeys {
			userID := strings.TrimPrefix(string(key), string(memberPrefix(code)))
			if err := txn.Delete(key); err != nil {
				return err
			}
			if err := txn.Delete(memberOfKey(userID, code)); err != nil {
				return err
			}
		}

		r.log.Debug("room cascade",
			"room", code,
			"messages", len(msgKeys),
			"memberships", len(memberKeys))
		return txn.Delete(roomKey(code))
	})
}

// ListFor walks the user's reverse index and resolves each room record.
func (r RoomRepository) ListFor(userID string) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := memberOfPrefix(userID)
		codes, err := collectKeys(txn, prefix)
		if err != nil {
			return err
		}
		for _, key := range codes {
			code := strings.TrimPrefix(string(key), string(prefix))
			item, err := txn.Get(roomKey(code))
			if err != nil {
				return err
			}
			var record roomRecord
			if err = item.Value(func(val []byte) error {
				return decode(val, &record)
			}); err != nil {
				return err
			}
			rooms = append(rooms, toRoom(record))
		}
		return nil
	})
	return rooms, err
}

// collectKeys copies every key under prefix. Collect-then-mutate keeps
// deletions out of the iterator's view.
func collectKeys(txn *badger.Txn, prefix []byte) ([][]byte, error) {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys, nil
}

// scanMessages returns the message keys and decoded records for a room,
// in key (chronological) order.
func scanMessages(txn *badger.Txn, code string) ([][]byte, []messageRecord, error) {
	prefix := messagePrefix(code)
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	var keys [][]byte
	var records []messageRecord
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		var record messageRecord
		err := item.Value(func(val []byte) error {
			return decode(val, &record)
		})
		if err != nil {
			return nil, nil, err
		}
		keys = append(keys, item.KeyCopy(nil))
		records = append(records, record)
	}
	return keys, records, nil
}
