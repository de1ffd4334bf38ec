package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// DefaultSweepSchedule frecuencia por defecto de la limpieza de sesiones expiradas.
const DefaultSweepSchedule = "@every 1h"

// SessionSweeper borra periódicamente las sesiones expiradas. La validez de una sesión se
// decide siempre al autenticar; el barrido solo evita que la tabla crezca sin límite.
type SessionSweeper struct {
	repo     repository.SessionRepository
	log      zerolog.Logger
	schedule string
	cron     *cron.Cron
	now      func() time.Time

	mu      sync.Mutex
	running bool
}

// NewSessionSweeper construye el barrido. Un schedule vacío lo deja deshabilitado.
func NewSessionSweeper(repo repository.SessionRepository, log zerolog.Logger, schedule string) *SessionSweeper {
	return &SessionSweeper{
		repo:     repo,
		log:      log.With().Str("component", "session_sweeper").Logger(),
		schedule: schedule,
		cron:     cron.New(),
		now:      time.Now,
	}
}

// Start registra el job y arranca el scheduler.
func (s *SessionSweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("session sweeper: ya está en ejecución")
	}
	if s.schedule == "" {
		s.log.Info().Msg("barrido de sesiones deshabilitado")
		return nil
	}
	if _, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		_, _ = s.Sweep(ctx)
	}); err != nil {
		return fmt.Errorf("session sweeper: schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.running = true
	s.log.Info().Str("schedule", s.schedule).Msg("barrido de sesiones iniciado")
	return nil
}

// Stop detiene el scheduler y espera al job en curso.
func (s *SessionSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
}

// Sweep ejecuta una pasada y devuelve cuántas sesiones se borraron.
func (s *SessionSweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		s.log.Error().Err(err).Msg("error borrando sesiones expiradas")
		return 0, err
	}
	s.log.Info().Int64("deleted", n).Msg("sesiones expiradas eliminadas")
	return n, nil
}
