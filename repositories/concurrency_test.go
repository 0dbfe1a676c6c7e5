package repositories

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"roomhub/domain"
	"roomhub/errors"
)

// raceCreate fires the same create from many goroutines at once and
// returns the outcomes. Exercises both duplicate paths: losing the
// in-transaction check and losing the optimistic commit.
func raceCreate(n int, create func() error) []error {
	results := make([]error, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = create()
		}(i)
	}
	close(start)
	wg.Wait()
	return results
}

func Test_Concurrent_Joins_Commit_Exactly_One_Membership(t *testing.T) {
	req := require.New(t)
	memberships := NewMembershipRepository(openTestDB(t), slog.Default())

	membership := domain.Membership{UserID: "u1", RoomCode: "abc123", JoinedAt: time.Now().UTC()}
	results := raceCreate(16, func() error {
		return memberships.Create(membership)
	})

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		// Never a raw storage error: every loser gets the taxonomy.
		req.ErrorIs(err, errors.ErrAlreadyMember)
		req.ErrorIs(err, errors.ErrConflict)
	}
	req.Equal(1, succeeded)

	listed, err := memberships.ListForRoom("abc123")
	req.NoError(err)
	req.Len(listed, 1)
}

func Test_Concurrent_Room_Creates_Report_Code_Taken(t *testing.T) {
	req := require.New(t)
	rooms := NewRoomRepository(openTestDB(t), slog.Default())

	results := raceCreate(16, func() error {
		room, creator := testRoom("abc123", "admin-1")
		return rooms.Create(room, creator)
	})

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		// The registry retries on this sentinel; anything else would
		// abort code regeneration.
		req.ErrorIs(err, errors.ErrRoomCodeTaken)
		req.ErrorIs(err, errors.ErrConflict)
	}
	req.Equal(1, succeeded)
}

func Test_Concurrent_Signups_Commit_Exactly_One_User(t *testing.T) {
	req := require.New(t)
	users := NewUserRepository(openTestDB(t))

	var mu sync.Mutex
	var ids []string
	results := raceCreate(16, func() error {
		id, err := users.Create("alice@example.com", "hashed", "Alice", "Martin")
		if err == nil {
			mu.Lock()
			ids = append(ids, id)
			mu.Unlock()
		}
		return err
	})

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		req.ErrorIs(err, errors.ErrEmailTaken)
		req.ErrorIs(err, errors.ErrConflict)
	}
	req.Equal(1, succeeded)
	req.Len(ids, 1)

	// The surviving row is the winner's.
	user, err := users.GetByEmail("alice@example.com")
	req.NoError(err)
	req.Equal(ids[0], user.ID)
}

// Distinct pairs racing on the same room must all land; only the
// identical pair is a conflict.
func Test_Concurrent_Distinct_Joins_All_Commit(t *testing.T) {
	req := require.New(t)
	memberships := NewMembershipRepository(openTestDB(t), slog.Default())

	now := time.Now().UTC()
	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = memberships.Create(domain.Membership{
				UserID:   fmt.Sprintf("u%d", i),
				RoomCode: "abc123",
				JoinedAt: now,
			})
		}(i)
	}
	wg.Wait()

	for _, err := range results {
		req.NoError(err)
	}
	listed, err := memberships.ListForRoom("abc123")
	req.NoError(err)
	req.Len(listed, 8)
}
