package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/access"
	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	apphttp "github.com/jhoicas/pos-api/internal/interfaces/http"
)

const (
	adminToken   = "token-admin"
	cashierToken = "token-cajero"
)

// stubSessions resuelve tokens fijos a identidades conocidas.
type stubSessions struct {
	loggedOut []string
}

func (s *stubSessions) Authenticate(_ context.Context, token string) (*entity.CallerContext, error) {
	for _, revoked := range s.loggedOut {
		if revoked == token {
			return nil, domain.ErrUnauthenticated
		}
	}
	switch token {
	case adminToken:
		return &entity.CallerContext{UserID: 1, TenantID: 10, Role: entity.RoleAdmin}, nil
	case cashierToken:
		return &entity.CallerContext{UserID: 2, TenantID: 10, Role: entity.RoleCashier}, nil
	}
	return nil, domain.ErrUnauthenticated
}

func (s *stubSessions) Login(_ context.Context, in auth.LoginInput) (*dto.LoginResponse, error) {
	switch {
	case in.Username == "ana" && in.Password == "secreto123":
		return &dto.LoginResponse{Success: true, Token: adminToken, User: dto.SessionUser{ID: 1, Username: "ana", Role: entity.RoleAdmin}}, nil
	case in.Username == "ana":
		return nil, domain.ErrInvalidPassword
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubSessions) Logout(_ context.Context, _ int64, token string) error {
	s.loggedOut = append(s.loggedOut, token)
	return nil
}

func (s *stubSessions) Register(context.Context, auth.RegisterInput) (*dto.UserResponse, error) {
	return nil, domain.ErrDuplicate
}

func (s *stubSessions) Me(_ context.Context, caller *entity.CallerContext) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: caller.UserID, TenantID: caller.TenantID, Role: caller.Role}, nil
}

// stubProducts solo implementa List; el resto no se invoca en estos tests.
type stubProducts struct {
	apphttp.ProductService
	lastCaller *entity.CallerContext
}

func (s *stubProducts) List(_ context.Context, caller *entity.CallerContext, page dto.PageRequest) (*dto.ProductListResponse, error) {
	s.lastCaller = caller
	return &dto.ProductListResponse{Items: []dto.ProductResponse{}, Page: dto.PageResponse{Limit: page.Limit}}, nil
}

// stubLedger devuelve el error configurado al registrar movimientos.
type stubLedger struct {
	apphttp.LedgerService
	err   error
	input inventory.RecordMovementInput
}

func (s *stubLedger) RecordMovement(_ context.Context, _ *entity.CallerContext, in inventory.RecordMovementInput) (int64, error) {
	s.input = in
	if s.err != nil {
		return 0, s.err
	}
	return 77, nil
}

func (s *stubLedger) LedgerReport(context.Context, *entity.CallerContext, int64) ([]byte, error) {
	return []byte("%PDF-1.3"), nil
}

type testApp struct {
	app      *fiber.App
	sessions *stubSessions
	products *stubProducts
	ledger   *stubLedger
}

// buildTestApp construye la aplicación con el router real y servicios stub.
func buildTestApp(policy access.Policy) *testApp {
	ta := &testApp{sessions: &stubSessions{}, products: &stubProducts{}, ledger: &stubLedger{}}
	ta.app = fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(ta.app, apphttp.RouterDeps{
		Sessions: ta.sessions,
		Products: ta.products,
		Ledger:   ta.ledger,
		Policy:   policy,
	})
	return ta
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bearer(tok string) map[string]string { return map[string]string{"Authorization": "Bearer " + tok} }

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
