package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/auth"
)

// refreshToken is kept in memory only; sessions do not survive a restart.
type refreshToken struct {
	userID    string
	expiresAt time.Time
	revokedAt *time.Time
	session   auth.SessionTrackingRequest
}

type refreshTokenRepositoryImpl struct {
	store *Store
}

func NewRefreshTokenRepository(store *Store) auth.RefreshTokenRepository {
	return &refreshTokenRepositoryImpl{store: store}
}

// CreateRefreshToken implements auth.RefreshTokenRepository.
func (r *refreshTokenRepositoryImpl) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.tokens[auth.HashToken(token)] = refreshToken{
		userID:    userID,
		expiresAt: time.Unix(expiresAt, 0),
		session:   session,
	}
	return nil
}

// IsRefreshTokenRevoked implements auth.RefreshTokenRepository.
func (r *refreshTokenRepositoryImpl) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.tokens[auth.HashToken(token)]
	if !ok {
		return "", false, auth.ErrInvalidToken
	}
	revoked := t.revokedAt != nil || !time.Now().Before(t.expiresAt)
	return t.userID, revoked, nil
}

// RevokeRefreshToken implements auth.RefreshTokenRepository.
func (r *refreshTokenRepositoryImpl) RevokeRefreshToken(ctx context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	hash := auth.HashToken(token)
	t, ok := r.store.tokens[hash]
	if !ok {
		return auth.ErrInvalidToken
	}
	if t.revokedAt == nil {
		now := time.Now()
		t.revokedAt = &now
		r.store.tokens[hash] = t
	}
	return nil
}

// DeleteExpired implements auth.RefreshTokenRepository.
func (r *refreshTokenRepositoryImpl) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var deleted int64
	for hash, t := range r.store.tokens {
		if t.expiresAt.Before(before) {
			delete(r.store.tokens, hash)
			deleted++
		}
	}
	return deleted, nil
}
