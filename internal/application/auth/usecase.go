package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/domain/tenancy"
)

// tokenBytes entropía del token de sesión (256 bits).
const tokenBytes = 32

// DefaultSessionTTL vigencia de una sesión nueva si no se configura otra.
const DefaultSessionTTL = 24 * time.Hour

// SessionConfig configuración de sesiones.
type SessionConfig struct {
	TTL time.Duration
}

// SessionUseCase casos de uso de autenticación: login, validación de token, logout y registro.
type SessionUseCase struct {
	creds       *CredentialStore
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	tenantRepo  repository.TenantRepository
	ttl         time.Duration
	now         func() time.Time
}

// NewSessionUseCase construye el caso de uso de sesiones.
func NewSessionUseCase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	tenantRepo repository.TenantRepository,
	cfg SessionConfig,
) *SessionUseCase {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionUseCase{
		creds:       NewCredentialStore(userRepo),
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tenantRepo:  tenantRepo,
		ttl:         ttl,
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *SessionUseCase) WithClock(now func() time.Time) *SessionUseCase {
	uc.now = now
	return uc
}

// LoginInput credenciales y metadatos del dispositivo.
type LoginInput struct {
	Username      string
	Password      string
	DeviceInfo    string
	SourceAddress string
}

// Login verifica credenciales y abre una sesión nueva. Las demás sesiones del usuario no se tocan.
func (uc *SessionUseCase) Login(ctx context.Context, in LoginInput) (*dto.LoginResponse, error) {
	user, err := uc.creds.Verify(ctx, in.Username, in.Password)
	if err != nil {
		return nil, err
	}
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	now := uc.now()
	// last_login primero: si falla no queda una sesión huérfana cuyo token nunca se entregó
	if err := uc.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	session := &entity.Session{
		UserID:       user.ID,
		TokenHash:    HashToken(token),
		DeviceInfo:   in.DeviceInfo,
		IPAddress:    in.SourceAddress,
		LastActivity: now,
		ExpiresAt:    now.Add(uc.ttl),
		CreatedAt:    now,
	}
	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Success: true,
		Token:   token,
		User:    dto.SessionUser{ID: user.ID, Username: user.Username, Role: user.Role},
	}, nil
}

// Authenticate resuelve el token a la identidad del llamador y refresca last_activity en la
// misma sentencia. Token ausente, incorrecto, expirado o revocado dan ErrUnauthenticated.
func (uc *SessionUseCase) Authenticate(ctx context.Context, token string) (*entity.CallerContext, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	caller, err := uc.sessionRepo.Touch(ctx, HashToken(token), uc.now())
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := tenancy.ValidateTenantID(caller.TenantID); err != nil {
		return nil, err
	}
	return caller, nil
}

// Logout elimina la sesión del token para ese usuario. Es idempotente.
func (uc *SessionUseCase) Logout(ctx context.Context, userID int64, token string) error {
	return uc.sessionRepo.Delete(ctx, userID, HashToken(strings.TrimSpace(token)))
}

// RegisterInput datos de alta de un usuario.
type RegisterInput struct {
	TenantID int64
	Username string
	Email    string
	Password string
	Role     string
}

// Register crea un usuario activo en un tenant activo. Username y email son únicos en todo
// el sistema (ErrDuplicate).
func (uc *SessionUseCase) Register(ctx context.Context, in RegisterInput) (*dto.UserResponse, error) {
	if err := tenancy.ValidateTenantID(in.TenantID); err != nil {
		return nil, err
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: username y email son obligatorios", domain.ErrInvalidInput)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleCashier
	}
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}
	tenant, err := uc.tenantRepo.GetByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil || tenant.Status != entity.StatusActive {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		TenantID:     in.TenantID,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		Status:       entity.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Me devuelve el usuario del llamador.
func (uc *SessionUseCase) Me(ctx context.Context, caller *entity.CallerContext) (*dto.UserResponse, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	user, err := uc.userRepo.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.TenantID != caller.TenantID {
		return nil, domain.ErrNotFound
	}
	return ToUserResponse(user), nil
}

// HashToken digest SHA-256 (hex) con el que se persiste y se busca el token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ToUserResponse convierte la entidad al DTO (sin hash de contraseña).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		Status:      u.Status,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
