//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"roomhub/domain"
	"roomhub/errors"
)

type IUserRepository interface {
	Create(email, hashedPassword, firstName, lastName string) (string, error)
	GetByEmail(email string) (domain.User, error)
	GetByID(id string) (domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// Create persists a new user and returns the generated id.
// Email uniqueness is checked inside the same transaction that writes
// the record, so two concurrent signups with the same email cannot
// both commit.
func (u UserRepository) Create(email, hashedPassword, firstName, lastName string) (string, error) {
	user := domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    firstName,
		LastName:     lastName,
		CreatedAt:    time.Now().UTC(),
	}
	data, err := encode(fromUser(user))
	if err != nil {
		return "", err
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(userEmailKey(email)); err == nil {
			return errors.ErrEmailTaken
		}
		if err := txn.Set(userEmailKey(email), []byte(user.ID)); err != nil {
			return err
		}
		return txn.Set(userIDKey(user.ID), data)
	})
	// A commit conflict means a concurrent signup committed this email
	// first; same outcome as losing the in-transaction check.
	if stderrors.Is(err, badger.ErrConflict) {
		return "", errors.ErrEmailTaken
	}
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

func (u UserRepository) GetByEmail(email string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(email))
		if err != nil {
			return err
		}
		var id []byte
		if id, err = item.ValueCopy(nil); err != nil {
			return err
		}
		user, err = getUser(txn, string(id))
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	return user, err
}

func (u UserRepository) GetByID(id string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = getUser(txn, id)
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	return user, err
}

func getUser(txn *badger.Txn, id string) (domain.User, error) {
	item, err := txn.Get(userIDKey(id))
	if err != nil {
		return domain.User{}, err
	}
	var record userRecord
	err = item.Value(func(val []byte) error {
		return decode(val, &record)
	})
	if err != nil {
		return domain.User{}, err
	}
	return toUser(record), nil
}
