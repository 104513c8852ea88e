package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/auth"
)

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

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (token_hash, user_id, expires_at, user_agent, ip_address)
		VALUES (?, ?, ?, ?, ?)`,
		auth.HashToken(token), userID, expiresAt, session.UserAgent, session.IPAddress,
	)
	return err
}

// IsRefreshTokenRevoked implements auth.RefreshTokenRepository.
func (r *refreshTokenRepositoryImpl) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var (
		userID    string
		expiresAt int64
		revokedAt sql.NullInt64
	)
	err := r.store.db.QueryRowContext(ctx,
		`SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = ?`,
		auth.HashToken(token),
	).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, auth.ErrInvalidToken
		}
		return "", false, err
	}
	revoked := revokedAt.Valid || time.Now().Unix() >= expiresAt
	return userID, revoked, nil
}

// RevokeRefreshToken implements auth.RefreshTokenRepository.
func (r *refreshTokenRepositoryImpl) RevokeRefreshToken(ctx context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result, err := r.store.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = COALESCE(revoked_at, ?) WHERE token_hash = ?`,
		time.Now().Unix(), auth.HashToken(token),
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return auth.ErrInvalidToken
	}
	return nil
}

// DeleteExpired implements auth.RefreshTokenRepository.
func (r *refreshTokenRepositoryImpl) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result, err := r.store.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at < ?`, before.Unix())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
