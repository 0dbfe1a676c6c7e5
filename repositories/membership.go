//go:generate go run go.uber.org/mock/mockgen -source=membership.go -destination=../mocks/mock_membership_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"roomhub/domain"
	"roomhub/errors"
)

type IMembershipRepository interface {
	Create(m domain.Membership) error
	Remove(userID, code string) error
	Exists(userID, code string) (bool, error)
	ListForRoom(code string) ([]domain.Membership, error)
}

type MembershipRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMembershipRepository(db *badger.DB, log *slog.Logger) IMembershipRepository {
	return &MembershipRepository{db: db, log: log}
}

// Create inserts the membership and its reverse index entry. The
// duplicate check runs inside the writing transaction, so a second
// concurrent join of the same pair commits exactly one row and the
// other attempt gets ErrAlreadyMember. A racing join that loses the
// optimistic commit means the winner wrote the same pair, so the
// commit conflict maps to ErrAlreadyMember too.
func (m MembershipRepository) Create(membership domain.Membership) error {
	data, err := encode(fromMembership(membership))
	if err != nil {
		return err
	}
	err = m.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(memberKey(membership.RoomCode, membership.UserID)); err == nil {
			return errors.ErrAlreadyMember
		}
		if err := txn.Set(memberKey(membership.RoomCode, membership.UserID), data); err != nil {
			return err
		}
		return txn.Set(memberOfKey(membership.UserID, membership.RoomCode), nil)
	})
	if stderrors.Is(err, badger.ErrConflict) {
		return errors.ErrAlreadyMember
	}
	return err
}

// Remove deletes the membership AND every message the user authored in
// that room, in one transaction. Leaving a room erases the leaver's
// message history there; other authors' messages are untouched.
func (m MembershipRepository) Remove(userID, code string) error {
	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(memberKey(code, userID)); err != nil {
			return err
		}
		if err := txn.Delete(memberOfKey(userID, code)); err != nil {
			return err
		}

		msgKeys, records, err := scanMessages(txn, code)
		if err != nil {
			return err
		}
		removed := 0
		for i, key := range msgKeys {
			if records[i].AuthorID != userID {
				continue
			}
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
			removed++
		}
		m.log.Debug("leave cascade", "room", code, "user", userID, "messages", removed)
		return nil
	})
}

func (m MembershipRepository) Exists(userID, code string) (bool, error) {
	err := m.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(memberKey(code, userID))
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListForRoom returns memberships in key order, which for a fixed room
// is insertion-independent but stable; callers reorder for display.
func (m MembershipRepository) ListForRoom(code string) ([]domain.Membership, error) {
	var memberships []domain.Membership
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := memberPrefix(code)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var record membershipRecord
			err := it.Item().Value(func(val []byte) error {
				return decode(val, &record)
			})
			if err != nil {
				return err
			}
			memberships = append(memberships, toMembership(record))
		}
		return nil
	})
	return memberships, err
}
