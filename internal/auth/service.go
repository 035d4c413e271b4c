package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/lorenagil/storefront-backend/internal/activity"
	"github.com/lorenagil/storefront-backend/internal/profiles"
	pkgauth "github.com/lorenagil/storefront-backend/pkg/auth"
	"github.com/lorenagil/storefront-backend/pkg/auth/session"
	"github.com/lorenagil/storefront-backend/pkg/config"
	"github.com/lorenagil/storefront-backend/pkg/enums"
	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
)

// Service defines the behavior needed by the auth controller. Login and
// logout both leave a trail in the customer's activity log.
type Service interface {
	Register(ctx context.Context, input profiles.RegisterInput) (*profiles.ProfileDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, claims *pkgauth.AccessTokenClaims) error
}

type profileAuthenticator interface {
	Register(ctx context.Context, input profiles.RegisterInput) (*profiles.ProfileDTO, error)
	Authenticate(ctx context.Context, email, password string) (*profiles.ProfileDTO, error)
}

type sessionManager interface {
	Start(ctx context.Context, accessID string, loginAt time.Time) error
	LoginTime(ctx context.Context, accessID string) (time.Time, error)
	End(ctx context.Context, accessID string) error
}

type service struct {
	profiles profileAuthenticator
	session  sessionManager
	activity activity.Logger
	jwtCfg   config.JWTConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Profiles       profileAuthenticator
	SessionManager sessionManager
	ActivityLogger activity.Logger
	JWTConfig      config.JWTConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Profiles == nil {
		return nil, fmt.Errorf("profiles service is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.ActivityLogger == nil {
		return nil, fmt.Errorf("activity logger is required")
	}
	return &service{
		profiles: params.Profiles,
		session:  params.SessionManager,
		activity: params.ActivityLogger,
		jwtCfg:   params.JWTConfig,
	}, nil
}

func (s *service) Register(ctx context.Context, input profiles.RegisterInput) (*profiles.ProfileDTO, error) {
	profile, err := s.profiles.Register(ctx, input)
	if err != nil {
		return nil, err
	}

	s.activity.Append(ctx, profile.Email, enums.ActivityRegister, time.Now().UTC(), nil)

	return profile, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	profile, err := s.profiles.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	role, err := enums.ParseRole(profile.Role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalid profile role")
	}

	now := time.Now().UTC()
	accessID := session.NewAccessID()

	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		Email: profile.Email,
		Name:  profile.Name,
		Role:  role,
		JTI:   accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	if err := s.session.Start(ctx, accessID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "starting session")
	}

	s.activity.Append(ctx, profile.Email, enums.ActivityLogin, now, nil)

	return &LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   now.Add(s.jwtCfg.SessionTTL()),
		Profile:     profile,
	}, nil
}

// Logout tears down the session and its cart, then records the logout with
// the session duration computed from the login time stamped on the session
// record. The token's issue time is the fallback when the record is gone.
func (s *service) Logout(ctx context.Context, claims *pkgauth.AccessTokenClaims) error {
	if claims == nil || claims.ID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}

	now := time.Now().UTC()

	loginAt, err := s.session.LoginTime(ctx, claims.ID)
	if err != nil {
		loginAt = time.Time{}
		if claims.IssuedAt != nil {
			loginAt = claims.IssuedAt.Time
		}
	}

	if err := s.session.End(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ending session")
	}

	var durationPtr *int
	if !loginAt.IsZero() {
		minutes := int(now.Sub(loginAt).Minutes())
		if minutes < 0 {
			minutes = 0
		}
		durationPtr = &minutes
	}

	s.activity.Append(ctx, claims.Email, enums.ActivityLogout, now, durationPtr)

	return nil
}
