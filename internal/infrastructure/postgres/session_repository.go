package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo almacén de sesiones sobre PostgreSQL.
type SessionRepo struct {
	pool *pgxpool.Pool
}

// NewSessionRepository construye el adaptador de sesiones.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

// Create inserta la sesión y asigna su ID.
func (r *SessionRepo) Create(ctx context.Context, s *entity.Session) error {
	query := `
		INSERT INTO sessions (user_id, token_hash, device_info, ip_address, last_activity, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		s.UserID, s.TokenHash, s.DeviceInfo, s.IPAddress, s.LastActivity, s.ExpiresAt, s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Touch busca y refresca en una sola sentencia la sesión vigente con ese token.
func (r *SessionRepo) Touch(ctx context.Context, tokenHash string, now time.Time) (*entity.CallerContext, error) {
	query := `
		UPDATE sessions s SET last_activity = $2
		FROM users u
		WHERE s.token_hash = $1 AND s.expires_at > $2 AND u.id = s.user_id
		RETURNING s.user_id, u.tenant_id, u.role`
	var c entity.CallerContext
	err := r.pool.QueryRow(ctx, query, tokenHash, now).Scan(&c.UserID, &c.TenantID, &c.Role)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("touch session: %w", err)
	}
	return &c, nil
}

// Delete borra la sesión del usuario con ese token (idempotente).
func (r *SessionRepo) Delete(ctx context.Context, userID int64, tokenHash string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1 AND token_hash = $2`, userID, tokenHash)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired purga sesiones vencidas y devuelve cuántas borró.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return cmd.RowsAffected(), nil
}
