package session

import (
	"context"
	"errors"
	"time"

	"media_upload_service/pkg/database"
)

const keyPrefix = "session:"

// Status session states mirrored from the identity provider
const (
	StatusActive  = "active"
	StatusEnded   = "ended"
	StatusRevoked = "revoked"
)

// State value stored at session:<sid>
type State struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

// Store session lookups backed by redis.
// A session without a key is treated as active, the token signature already vouches for it.
type Store struct {
	repo database.RedisRepository[State]
}

// NewStore create Store
func NewStore(repo database.RedisRepository[State]) *Store {
	return &Store{repo: repo}
}

// IsActive false only when the identity provider ended or revoked the session
func (s *Store) IsActive(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return true, nil
	}
	state, err := s.repo.Get(ctx, keyPrefix+sessionID)
	if errors.Is(err, database.ErrRedisNil) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return state.Status != StatusEnded && state.Status != StatusRevoked, nil
}

// Revoke mark sessionID revoked for ttl
func (s *Store) Revoke(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	return s.repo.Set(ctx, keyPrefix+sessionID, State{UserID: userID, Status: StatusRevoked}, ttl)
}
