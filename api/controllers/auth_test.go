package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lorenagil/storefront-backend/internal/auth"
	"github.com/lorenagil/storefront-backend/internal/profiles"
	pkgauth "github.com/lorenagil/storefront-backend/pkg/auth"
	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
)

type stubAuthService struct {
	profile *profiles.ProfileDTO
	login   *auth.LoginResponse
	err     error

	registered []profiles.RegisterInput
}

func (s *stubAuthService) Register(ctx context.Context, input profiles.RegisterInput) (*profiles.ProfileDTO, error) {
	s.registered = append(s.registered, input)
	return s.profile, s.err
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.login, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, claims *pkgauth.AccessTokenClaims) error {
	return s.err
}

func TestAuthRegisterSuccess(t *testing.T) {
	svc := &stubAuthService{
		profile: &profiles.ProfileDTO{
			Email:   "ada@example.com",
			Name:    "Ada",
			Surname: "Lovelace",
			Role:    "Customer",
		},
	}
	handler := AuthRegister(svc, nil)

	body := `{"email":"ada@example.com","password":"longenough","name":"Ada","surname":"Lovelace"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if len(svc.registered) != 1 {
		t.Fatalf("expected one register call, got %d", len(svc.registered))
	}
	if svc.registered[0].Email != "ada@example.com" {
		t.Fatalf("unexpected email passed to service: %s", svc.registered[0].Email)
	}

	var envelope struct {
		Data *profiles.ProfileDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data == nil || envelope.Data.Email != "ada@example.com" {
		t.Fatalf("expected profile in payload got %+v", envelope.Data)
	}
}

func TestAuthRegisterRejectsShortPassword(t *testing.T) {
	svc := &stubAuthService{}
	handler := AuthRegister(svc, nil)

	body := `{"email":"ada@example.com","password":"short","name":"Ada","surname":"Lovelace"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if len(svc.registered) != 0 {
		t.Fatalf("service should not be called on validation failure")
	}
}

func TestAuthLoginSetsTokenHeader(t *testing.T) {
	svc := &stubAuthService{
		login: &auth.LoginResponse{
			AccessToken: "access-token",
			ExpiresAt:   time.Now().Add(30 * time.Minute),
			Profile:     &profiles.ProfileDTO{Email: "ada@example.com", Role: "Customer"},
		},
	}
	handler := AuthLogin(svc, nil)

	body := `{"email":"ada@example.com","password":"longenough"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-SF-Token"); got != "access-token" {
		t.Fatalf("expected x-sf-token header set to access-token got %s", got)
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, nil)

	body := `{"email":"ada@example.com","password":"wrongpassword"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
