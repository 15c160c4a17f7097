// Package memory provides mutex-guarded in-memory implementations of the
// reservation store interfaces. They mirror the conditional-update semantics
// of the DynamoDB-backed stores and are used as test doubles.
package memory

import (
	"context"
	"sync"

	"matchup_server/models"
	"matchup_server/services"
)

// MatchStore is an in-memory services.MatchStore.
type MatchStore struct {
	mu     sync.Mutex
	items  map[int64]models.Match
	orders []int64
}

// NewMatchStore seeds a store with the given matches.
func NewMatchStore(matches ...models.Match) *MatchStore {
	s := &MatchStore{items: make(map[int64]models.Match, len(matches))}
	for _, m := range matches {
		s.items[m.MatchID] = m
		s.orders = append(s.orders, m.MatchID)
	}
	return s
}

func (s *MatchStore) GetMatch(_ context.Context, matchID int64) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.items[matchID]
	if !ok {
		return nil, nil
	}
	return copyMatch(m), nil
}

// AppendMember applies the duplicate and capacity guards and the append in
// one critical section, matching the DynamoDB conditional update.
func (s *MatchStore) AppendMember(_ context.Context, matchID int64, userID string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.items[matchID]
	if !ok {
		return nil, services.ErrMatchNotFound
	}
	if m.HasMember(userID) {
		return nil, services.ErrAlreadyReserved
	}
	if m.IsFull() {
		return nil, services.ErrMatchFull
	}

	m.MatchMembers = append(append([]string{}, m.MatchMembers...), userID)
	m.CurMember = len(m.MatchMembers)
	s.items[matchID] = m
	return copyMatch(m), nil
}

// SetMembers replaces the member list only when it still equals prev,
// matching the DynamoDB compare-and-swap.
func (s *MatchStore) SetMembers(_ context.Context, matchID int64, prev, next []string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.items[matchID]
	if !ok {
		return nil, services.ErrMatchNotFound
	}
	if !equalMembers(m.MatchMembers, prev) {
		return nil, &services.ConditionFailedError{}
	}

	m.MatchMembers = append([]string{}, next...)
	m.CurMember = len(m.MatchMembers)
	s.items[matchID] = m
	return copyMatch(m), nil
}

func (s *MatchStore) MatchesWithMember(_ context.Context, userID string) ([]models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Match
	for _, id := range s.orders {
		if m := s.items[id]; m.HasMember(userID) {
			out = append(out, *copyMatch(m))
		}
	}
	return out, nil
}

// UserStore is an in-memory services.UserStore.
type UserStore struct {
	mu    sync.Mutex
	items map[string]models.User
}

// NewUserStore seeds a store with the given users.
func NewUserStore(users ...models.User) *UserStore {
	s := &UserStore{items: make(map[string]models.User, len(users))}
	for _, u := range users {
		s.items[u.UserID] = u
	}
	return s
}

func (s *UserStore) GetUser(_ context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.items[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func copyMatch(m models.Match) *models.Match {
	m.MatchMembers = append([]string{}, m.MatchMembers...)
	return &m
}

func equalMembers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
