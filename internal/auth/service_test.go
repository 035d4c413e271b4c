package auth

import (
	"context"
	"testing"
	"time"

	"github.com/lorenagil/storefront-backend/internal/profiles"
	pkgauth "github.com/lorenagil/storefront-backend/pkg/auth"
	"github.com/lorenagil/storefront-backend/pkg/auth/session"
	"github.com/lorenagil/storefront-backend/pkg/config"
	"github.com/lorenagil/storefront-backend/pkg/enums"
	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
)

type stubProfiles struct {
	registered []profiles.RegisterInput
	byEmail    map[string]string
}

func newStubProfiles() *stubProfiles {
	return &stubProfiles{byEmail: map[string]string{}}
}

func (s *stubProfiles) Register(_ context.Context, input profiles.RegisterInput) (*profiles.ProfileDTO, error) {
	s.registered = append(s.registered, input)
	s.byEmail[input.Email] = input.Password
	return &profiles.ProfileDTO{
		Email:   input.Email,
		Name:    input.Name,
		Surname: input.Surname,
		Role:    enums.RoleCustomer.String(),
	}, nil
}

func (s *stubProfiles) Authenticate(_ context.Context, email, password string) (*profiles.ProfileDTO, error) {
	stored, ok := s.byEmail[email]
	if !ok || stored != password {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	return &profiles.ProfileDTO{
		Email: email,
		Name:  "Ada",
		Role:  enums.RoleCustomer.String(),
	}, nil
}

type stubSessions struct {
	started map[string]time.Time
	ended   []string
}

func newStubSessions() *stubSessions {
	return &stubSessions{started: map[string]time.Time{}}
}

func (s *stubSessions) Start(_ context.Context, accessID string, loginAt time.Time) error {
	s.started[accessID] = loginAt
	return nil
}

func (s *stubSessions) LoginTime(_ context.Context, accessID string) (time.Time, error) {
	loginAt, ok := s.started[accessID]
	if !ok {
		return time.Time{}, session.ErrNoSession
	}
	return loginAt, nil
}

func (s *stubSessions) End(_ context.Context, accessID string) error {
	s.ended = append(s.ended, accessID)
	return nil
}

type recordedAppend struct {
	email    string
	action   enums.ActivityAction
	at       time.Time
	duration *int
}

type stubActivity struct {
	appends []recordedAppend
}

func (s *stubActivity) Append(_ context.Context, email string, action enums.ActivityAction, at time.Time, durationMinutes *int) {
	s.appends = append(s.appends, recordedAppend{email: email, action: action, at: at, duration: durationMinutes})
}

func (s *stubActivity) Read(_ context.Context, _ string) (string, error) {
	return "", nil
}

func jwtConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "storefront-test",
		ExpirationMinutes: 30,
	}
}

func testService(t *testing.T, p *stubProfiles, sessions *stubSessions, act *stubActivity) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Profiles:       p,
		SessionManager: sessions,
		ActivityLogger: act,
		JWTConfig:      jwtConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginMintsTokenAndStartsSession(t *testing.T) {
	p := newStubProfiles()
	sessions := newStubSessions()
	act := &stubActivity{}
	svc := testService(t, p, sessions, act)
	ctx := context.Background()

	if _, err := svc.Register(ctx, profiles.RegisterInput{
		Email: "ada@example.com", Password: "pw", Name: "Ada", Surname: "Lovelace",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	resp, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(jwtConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Email != "ada@example.com" {
		t.Fatalf("expected email claim, got %s", claims.Email)
	}
	if claims.Role != enums.RoleCustomer {
		t.Fatalf("expected Customer role, got %s", claims.Role)
	}

	if _, ok := sessions.started[claims.ID]; !ok {
		t.Fatalf("expected session started for jti %s", claims.ID)
	}

	// Register + Login both leave activity entries.
	if len(act.appends) != 2 {
		t.Fatalf("expected 2 activity appends, got %d", len(act.appends))
	}
	if act.appends[0].action != enums.ActivityRegister || act.appends[1].action != enums.ActivityLogin {
		t.Fatalf("unexpected activity sequence: %+v", act.appends)
	}
	if act.appends[1].duration != nil {
		t.Fatal("login entry must not carry a session duration")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := testService(t, newStubProfiles(), newStubSessions(), &stubActivity{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "pw"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutEndsSessionAndRecordsDuration(t *testing.T) {
	p := newStubProfiles()
	sessions := newStubSessions()
	act := &stubActivity{}
	svc := testService(t, p, sessions, act)
	ctx := context.Background()

	if _, err := svc.Register(ctx, profiles.RegisterInput{
		Email: "ada@example.com", Password: "pw", Name: "Ada", Surname: "Lovelace",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	resp, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgauth.ParseAccessToken(jwtConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if len(sessions.ended) != 1 || sessions.ended[0] != claims.ID {
		t.Fatalf("expected session %s ended, got %v", claims.ID, sessions.ended)
	}

	last := act.appends[len(act.appends)-1]
	if last.action != enums.ActivityLogout {
		t.Fatalf("expected Logout entry, got %s", last.action)
	}
	if last.duration == nil {
		t.Fatal("expected logout entry to carry a session duration")
	}
	if *last.duration < 0 {
		t.Fatalf("expected non-negative duration, got %d", *last.duration)
	}
}

func TestLogoutDurationComesFromSessionRecord(t *testing.T) {
	p := newStubProfiles()
	sessions := newStubSessions()
	act := &stubActivity{}
	svc := testService(t, p, sessions, act)
	ctx := context.Background()

	if _, err := svc.Register(ctx, profiles.RegisterInput{
		Email: "ada@example.com", Password: "pw", Name: "Ada", Surname: "Lovelace",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	resp, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgauth.ParseAccessToken(jwtConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	// Backdate the session record so the duration reflects the stored
	// login time rather than the token's issue time.
	sessions.started[claims.ID] = time.Now().UTC().Add(-90 * time.Minute)

	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("logout: %v", err)
	}

	last := act.appends[len(act.appends)-1]
	if last.duration == nil {
		t.Fatal("expected logout entry to carry a session duration")
	}
	if *last.duration != 90 {
		t.Fatalf("expected 90 minute session, got %d", *last.duration)
	}
}

func TestLogoutFallsBackToTokenIssueTime(t *testing.T) {
	p := newStubProfiles()
	sessions := newStubSessions()
	act := &stubActivity{}
	svc := testService(t, p, sessions, act)
	ctx := context.Background()

	if _, err := svc.Register(ctx, profiles.RegisterInput{
		Email: "ada@example.com", Password: "pw", Name: "Ada", Surname: "Lovelace",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	resp, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgauth.ParseAccessToken(jwtConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	// Session record already gone, the issue-time fallback still yields
	// a duration.
	delete(sessions.started, claims.ID)

	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("logout: %v", err)
	}

	last := act.appends[len(act.appends)-1]
	if last.duration == nil {
		t.Fatal("expected logout entry to carry a session duration")
	}
	if *last.duration < 0 {
		t.Fatalf("expected non-negative duration, got %d", *last.duration)
	}
}

func TestLogoutWithoutClaims(t *testing.T) {
	svc := testService(t, newStubProfiles(), newStubSessions(), &stubActivity{})

	err := svc.Logout(context.Background(), nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
