package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// MinPasswordLength longitud mínima aceptada para una contraseña nueva.
const MinPasswordLength = 8

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// dummy hash para comparar cuando el usuario no existe: el tiempo de respuesta no revela
// si el username está registrado.
func dummyPasswordHash() []byte {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("pos-api-dummy-password"), bcrypt.DefaultCost)
	})
	return dummyHash
}

// CredentialStore verifica username/contraseña contra el hash bcrypt almacenado.
type CredentialStore struct {
	userRepo repository.UserRepository
}

// NewCredentialStore construye el verificador de credenciales.
func NewCredentialStore(userRepo repository.UserRepository) *CredentialStore {
	return &CredentialStore{userRepo: userRepo}
}

// Verify devuelve el usuario si las credenciales son válidas. Los tres fallos posibles
// (usuario inexistente, contraseña incorrecta, cuenta inactiva) cumplen
// errors.Is(err, domain.ErrAuthFailure).
func (s *CredentialStore) Verify(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash(), []byte(password))
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.ErrInvalidPassword
		}
		// hash corrupto o con formato desconocido: se reporta como credencial inválida
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPassword, err)
	}
	if !user.IsActive() {
		return nil, domain.ErrAccountInactive
	}
	return user, nil
}

// HashPassword genera el hash bcrypt (salt y costo embebidos) de una contraseña nueva.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: contraseña demasiado larga", domain.ErrInvalidInput)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
