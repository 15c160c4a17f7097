package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"matchup_server/models"
	"matchup_server/services"
	"matchup_server/services/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(matches *memory.MatchStore, users *memory.UserStore) *services.ReservationService {
	return services.NewReservationService(matches, users)
}

func seedMatch(id int64, max int, members ...string) models.Match {
	return models.Match{
		MatchID:      id,
		MatchTitle:   fmt.Sprintf("match-%d", id),
		MaxMember:    max,
		CurMember:    len(members),
		MatchMembers: members,
	}
}

func seedUsers(ids ...string) *memory.UserStore {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, models.User{UserID: id, ProfileNickname: id})
	}
	return memory.NewUserStore(users...)
}

func TestJoin_AddsMemberAndRecomputesCount(t *testing.T) {
	t.Parallel()

	matches := memory.NewMatchStore(seedMatch(7, 5))
	svc := newService(matches, seedUsers("alice", "bob"))

	updated, err := svc.Join(context.Background(), 7, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, updated.MatchMembers)
	assert.Equal(t, 1, updated.CurMember)

	updated, err = svc.Join(context.Background(), 7, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, updated.MatchMembers)
	assert.Equal(t, 2, updated.CurMember)
}

func TestJoin_MatchNotFound(t *testing.T) {
	t.Parallel()

	svc := newService(memory.NewMatchStore(), seedUsers("alice"))

	_, err := svc.Join(context.Background(), 99, "alice")
	assert.ErrorIs(t, err, services.ErrMatchNotFound)
}

func TestJoin_UserNotFound(t *testing.T) {
	t.Parallel()

	matches := memory.NewMatchStore(seedMatch(7, 5))
	svc := newService(matches, seedUsers())

	_, err := svc.Join(context.Background(), 7, "ghost")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestJoin_SecondJoinRejectedAndStateUnchanged(t *testing.T) {
	t.Parallel()

	matches := memory.NewMatchStore(seedMatch(7, 5))
	svc := newService(matches, seedUsers("alice"))

	_, err := svc.Join(context.Background(), 7, "alice")
	require.NoError(t, err)

	_, err = svc.Join(context.Background(), 7, "alice")
	assert.ErrorIs(t, err, services.ErrAlreadyReserved)

	match, err := matches.GetMatch(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, match.MatchMembers)
	assert.Equal(t, 1, match.CurMember)
}

func TestJoin_FullMatchRejected(t *testing.T) {
	t.Parallel()

	matches := memory.NewMatchStore(seedMatch(7, 2, "alice", "bob"))
	svc := newService(matches, seedUsers("alice", "bob", "carol"))

	_, err := svc.Join(context.Background(), 7, "carol")
	assert.ErrorIs(t, err, services.ErrMatchFull)

	match, err := matches.GetMatch(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, match.CurMember)
}

func TestCancel_RemovesMemberPreservingOrder(t *testing.T) {
	t.Parallel()

	matches := memory.NewMatchStore(seedMatch(7, 5, "alice", "bob", "carol"))
	svc := newService(matches, seedUsers("alice", "bob", "carol"))

	updated, err := svc.Cancel(context.Background(), 7, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "carol"}, updated.MatchMembers)
	assert.Equal(t, 2, updated.CurMember)
}

func TestCancel_IsIdempotent(t *testing.T) {
	t.Parallel()

	matches := memory.NewMatchStore(seedMatch(7, 5, "alice", "bob"))
	svc := newService(matches, seedUsers("alice", "bob"))

	first, err := svc.Cancel(context.Background(), 7, "alice")
	require.NoError(t, err)

	second, err := svc.Cancel(context.Background(), 7, "alice")
	require.NoError(t, err)

	assert.Equal(t, first.MatchMembers, second.MatchMembers)
	assert.Equal(t, first.CurMember, second.CurMember)
}

func TestCancel_NonMemberIsNoOp(t *testing.T) {
	t.Parallel()

	matches := memory.NewMatchStore(seedMatch(7, 5, "alice"))
	svc := newService(matches, seedUsers("alice", "carol"))

	updated, err := svc.Cancel(context.Background(), 7, "carol")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, updated.MatchMembers)
	assert.Equal(t, 1, updated.CurMember)
}

func TestCancel_MatchNotFound(t *testing.T) {
	t.Parallel()

	svc := newService(memory.NewMatchStore(), seedUsers("alice"))

	_, err := svc.Cancel(context.Background(), 99, "alice")
	assert.ErrorIs(t, err, services.ErrMatchNotFound)
}

func TestCancel_RemovesCorruptedDuplicates(t *testing.T) {
	t.Parallel()

	matches := memory.NewMatchStore(seedMatch(7, 5, "alice", "bob", "alice"))
	svc := newService(matches, seedUsers("alice", "bob"))

	updated, err := svc.Cancel(context.Background(), 7, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, updated.MatchMembers)
	assert.Equal(t, 1, updated.CurMember)
}

func TestCancel_RetriesAfterLosingSwap(t *testing.T) {
	t.Parallel()

	matches := memory.NewMatchStore(seedMatch(7, 5, "alice", "bob"))
	contended := &contendedMatchStore{MatchStore: matches, failures: 2}
	svc := services.NewReservationService(contended, seedUsers("alice", "bob"))

	updated, err := svc.Cancel(context.Background(), 7, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, updated.MatchMembers)
	assert.Equal(t, 0, contended.failures)
}

func TestJoinThenCancel_RestoresPriorState(t *testing.T) {
	t.Parallel()

	matches := memory.NewMatchStore(seedMatch(7, 5, "bob", "carol"))
	svc := newService(matches, seedUsers("alice", "bob", "carol"))

	_, err := svc.Join(context.Background(), 7, "alice")
	require.NoError(t, err)

	updated, err := svc.Cancel(context.Background(), 7, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, updated.MatchMembers)
	assert.Equal(t, 2, updated.CurMember)
}

func TestListReservationsForUser_TracksJoinsAndCancels(t *testing.T) {
	t.Parallel()

	matches := memory.NewMatchStore(seedMatch(1, 5), seedMatch(2, 5), seedMatch(3, 5))
	svc := newService(matches, seedUsers("alice"))

	_, err := svc.Join(context.Background(), 1, "alice")
	require.NoError(t, err)
	_, err = svc.Join(context.Background(), 2, "alice")
	require.NoError(t, err)

	reservations, err := svc.ListReservationsForUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, matchIDs(reservations))

	_, err = svc.Cancel(context.Background(), 1, "alice")
	require.NoError(t, err)

	reservations, err = svc.ListReservationsForUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, matchIDs(reservations))
}

// Walks a single match through joins, a rejected duplicate, a cancel and a
// non-member cancel.
func TestReservationLifecycle(t *testing.T) {
	t.Parallel()

	matches := memory.NewMatchStore(seedMatch(7, 5))
	svc := newService(matches, seedUsers("alice", "bob", "carol"))
	ctx := context.Background()

	updated, err := svc.Join(ctx, 7, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, updated.CurMember)

	_, err = svc.Join(ctx, 7, "alice")
	assert.ErrorIs(t, err, services.ErrAlreadyReserved)

	updated, err = svc.Join(ctx, 7, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.CurMember)

	updated, err = svc.Cancel(ctx, 7, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, updated.MatchMembers)
	assert.Equal(t, 1, updated.CurMember)

	updated, err = svc.Cancel(ctx, 7, "carol")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, updated.MatchMembers)
	assert.Equal(t, 1, updated.CurMember)
}

func TestConcurrentJoins_NeverDuplicateOrOverfill(t *testing.T) {
	t.Parallel()

	const capacity = 5
	const workers = 32

	userIDs := make([]string, workers)
	for i := range userIDs {
		userIDs[i] = fmt.Sprintf("user-%d", i)
	}
	matches := memory.NewMatchStore(seedMatch(7, capacity))
	svc := newService(matches, seedUsers(userIDs...))

	var wg sync.WaitGroup
	wg.Add(workers * 2)
	for _, id := range userIDs {
		// Two goroutines per user: one of each pair must lose with
		// AlreadyReserved or MatchFull, never a duplicate entry.
		for i := 0; i < 2; i++ {
			go func(userID string) {
				defer wg.Done()
				_, err := svc.Join(context.Background(), 7, userID)
				if err != nil {
					assert.True(t,
						errors.Is(err, services.ErrAlreadyReserved) || errors.Is(err, services.ErrMatchFull),
						"unexpected join error: %v", err)
				}
			}(id)
		}
	}
	wg.Wait()

	match, err := matches.GetMatch(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, capacity, match.CurMember)
	assert.Len(t, match.MatchMembers, capacity)

	seen := make(map[string]bool, len(match.MatchMembers))
	for _, id := range match.MatchMembers {
		assert.False(t, seen[id], "duplicate member %s", id)
		seen[id] = true
	}
}

func matchIDs(matches []models.Match) []int64 {
	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.MatchID)
	}
	return ids
}

// contendedMatchStore fails the first n compare-and-swaps to force the
// cancel retry path.
type contendedMatchStore struct {
	*memory.MatchStore
	mu       sync.Mutex
	failures int
}

func (s *contendedMatchStore) SetMembers(ctx context.Context, matchID int64, prev, next []string) (*models.Match, error) {
	s.mu.Lock()
	if s.failures > 0 {
		s.failures--
		s.mu.Unlock()
		return nil, &services.ConditionFailedError{}
	}
	s.mu.Unlock()
	return s.MatchStore.SetMembers(ctx, matchID, prev, next)
}
