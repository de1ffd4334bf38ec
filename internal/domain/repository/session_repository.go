package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// SessionRepository define el puerto de persistencia para sesiones.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	// Touch refresca last_activity de la sesión vigente cuyo token coincide y devuelve la
	// identidad del dueño. Devuelve nil (sin error) si no hay coincidencia.
	Touch(ctx context.Context, tokenHash string, now time.Time) (*entity.CallerContext, error)
	// Delete es idempotente: borrar una sesión inexistente no es error.
	Delete(ctx context.Context, userID int64, tokenHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
