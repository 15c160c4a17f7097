package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"matchup_server/models"
)

// Reservation error taxonomy. Controllers map these to HTTP statuses;
// anything else is an internal store failure.
var (
	ErrMatchNotFound   = errors.New("match not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrAlreadyReserved = errors.New("user already reserved this match")
	ErrMatchFull       = errors.New("match is full")
)

// cancelRetries bounds the compare-and-swap loop in Cancel. Contention on a
// single match is a handful of concurrent requests at most.
const cancelRetries = 3

// MatchStore is the slice of the match catalog the reservation service
// consumes. AppendMember must be atomic: the membership check, capacity
// check, list append and count increment happen in one store update.
type MatchStore interface {
	GetMatch(ctx context.Context, matchID int64) (*models.Match, error)
	AppendMember(ctx context.Context, matchID int64, userID string) (*models.Match, error)
	SetMembers(ctx context.Context, matchID int64, prev, next []string) (*models.Match, error)
	MatchesWithMember(ctx context.Context, userID string) ([]models.Match, error)
}

// UserStore resolves user identifiers against the user directory.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// ReservationService maintains the Match.match_members / Match.cur_member
// invariant under concurrent join and cancel requests.
type ReservationService struct {
	Matches MatchStore
	Users   UserStore
}

// NewReservationService creates a new instance of ReservationService
func NewReservationService(matches MatchStore, users UserStore) *ReservationService {
	return &ReservationService{Matches: matches, Users: users}
}

// Join reserves a slot in the match for userID. It fails with
// ErrMatchNotFound or ErrUserNotFound when either lookup misses, with
// ErrAlreadyReserved when the user is already in the member list and with
// ErrMatchFull when the match has reached max_member. The list append and the
// count recompute are committed atomically by the store.
func (rs *ReservationService) Join(ctx context.Context, matchID int64, userID string) (*models.Match, error) {
	match, err := rs.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}

	user, err := rs.Users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	// The pre-read above only produces the 404s; the membership and capacity
	// guards are re-evaluated inside the conditional append so that two
	// concurrent joins cannot both pass a stale check.
	updated, err := rs.Matches.AppendMember(ctx, matchID, userID)
	if err != nil {
		return nil, err
	}

	log.Printf("Reservation added: match=%d user=%s cur_member=%d", matchID, userID, updated.CurMember)
	return updated, nil
}

// Cancel removes every occurrence of userID from the match's member list and
// recomputes cur_member. Cancelling a user who is not a member is a silent
// no-op. Fails with ErrMatchNotFound when the match does not exist.
func (rs *ReservationService) Cancel(ctx context.Context, matchID int64, userID string) (*models.Match, error) {
	for attempt := 0; ; attempt++ {
		match, err := rs.Matches.GetMatch(ctx, matchID)
		if err != nil {
			return nil, err
		}
		if match == nil {
			return nil, ErrMatchNotFound
		}

		next := withoutMember(match.MatchMembers, userID)
		if len(next) == len(match.MatchMembers) {
			// Not a member; nothing to persist.
			return match, nil
		}

		updated, err := rs.Matches.SetMembers(ctx, matchID, match.MatchMembers, next)
		if err == nil {
			log.Printf("Reservation cancelled: match=%d user=%s cur_member=%d", matchID, userID, updated.CurMember)
			return updated, nil
		}
		var cfe *ConditionFailedError
		if !errors.As(err, &cfe) || attempt >= cancelRetries {
			return nil, err
		}
		// Lost the swap to a concurrent mutation; re-read and retry.
	}
}

// ListReservationsForUser returns every match whose member list contains
// userID, in store order.
func (rs *ReservationService) ListReservationsForUser(ctx context.Context, userID string) ([]models.Match, error) {
	matches, err := rs.Matches.MatchesWithMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations for user '%s': %w", userID, err)
	}
	return matches, nil
}

// withoutMember filters every occurrence of userID out of members, tolerating
// a corrupted duplicate state. Order of the remaining members is preserved.
func withoutMember(members []string, userID string) []string {
	next := make([]string, 0, len(members))
	for _, id := range members {
		if id != userID {
			next = append(next, id)
		}
	}
	return next
}
