package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/lorenagil/storefront-backend/pkg/config"
	"github.com/lorenagil/storefront-backend/pkg/db"
	"github.com/lorenagil/storefront-backend/pkg/db/models"
	"github.com/lorenagil/storefront-backend/pkg/enums"
	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
	"github.com/lorenagil/storefront-backend/pkg/logger"
	"github.com/lorenagil/storefront-backend/pkg/security"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service exposes customer profile management.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*ProfileDTO, error)
	Authenticate(ctx context.Context, email, password string) (*ProfileDTO, error)
	Get(ctx context.Context, email string) (*ProfileDTO, error)
	Update(ctx context.Context, email string, input UpdateProfileInput) (*ProfileDTO, error)
	ListCustomerEmails(ctx context.Context) ([]string, error)
	EnsureAdmin(ctx context.Context) error
}

type profileRepository interface {
	Create(ctx context.Context, profile *models.CustomerProfile) (*models.CustomerProfile, error)
	FindByEmail(ctx context.Context, email string) (*models.CustomerProfile, error)
	Update(ctx context.Context, profile *models.CustomerProfile) (*models.CustomerProfile, error)
	ListCustomerEmails(ctx context.Context) ([]string, error)
}

type objectStore interface {
	Write(ctx context.Context, object string, data []byte, contentType string) error
	Delete(ctx context.Context, object string) error
	ObjectURL(object string) string
}

type service struct {
	repo        profileRepository
	objects     objectStore
	passwordCfg config.PasswordConfig
	gcsCfg      config.GCSConfig
	adminCfg    config.AdminConfig
	logg        *logger.Logger
}

// ServiceParams bundles the dependencies required to build a profiles service.
type ServiceParams struct {
	Repo           profileRepository
	ObjectStore    objectStore
	PasswordConfig config.PasswordConfig
	GCSConfig      config.GCSConfig
	AdminConfig    config.AdminConfig
	Logger         *logger.Logger
}

// NewService constructs a profiles service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("profiles repository is required")
	}
	if params.ObjectStore == nil {
		return nil, fmt.Errorf("object store is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		repo:        params.Repo,
		objects:     params.ObjectStore,
		passwordCfg: params.PasswordConfig,
		gcsCfg:      params.GCSConfig,
		adminCfg:    params.AdminConfig,
		logg:        params.Logger,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*ProfileDTO, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	profile := &models.CustomerProfile{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		Surname:      strings.TrimSpace(input.Surname),
		Phone:        input.Phone,
		PasswordHash: hash,
		Role:         enums.RoleCustomer,
	}

	if input.Image != nil {
		url, err := s.uploadImage(ctx, email, input.Image)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "uploading profile image")
		}
		profile.ImageURL = &url
	}

	created, err := s.repo.Create(ctx, profile)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating profile")
	}

	s.backupProfile(ctx, created)

	return FromModel(created), nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*ProfileDTO, error) {
	profile, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading profile")
	}

	ok, err := security.VerifyPassword(password, profile.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	return FromModel(profile), nil
}

func (s *service) Get(ctx context.Context, email string) (*ProfileDTO, error) {
	profile, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading profile")
	}
	return FromModel(profile), nil
}

func (s *service) Update(ctx context.Context, email string, input UpdateProfileInput) (*ProfileDTO, error) {
	profile, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading profile")
	}

	profile.Name = strings.TrimSpace(input.Name)
	profile.Surname = strings.TrimSpace(input.Surname)
	profile.Phone = input.Phone

	if input.Image != nil {
		oldURL := profile.ImageURL
		url, uploadErr := s.uploadImage(ctx, email, input.Image)
		if uploadErr != nil {
			// Profile detail changes still land when the image upload fails.
			s.logg.Error(ctx, "profile image upload failed", uploadErr)
		} else {
			profile.ImageURL = &url
			s.removeReplacedImage(ctx, oldURL, url)
		}
	}

	updated, err := s.repo.Update(ctx, profile)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating profile")
	}

	s.backupProfile(ctx, updated)

	return FromModel(updated), nil
}

func (s *service) ListCustomerEmails(ctx context.Context) ([]string, error) {
	emails, err := s.repo.ListCustomerEmails(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing customers")
	}
	return emails, nil
}

// EnsureAdmin creates the back-office admin profile when bootstrap
// credentials are configured and the profile does not exist yet.
func (s *service) EnsureAdmin(ctx context.Context) error {
	if s.adminCfg.BootstrapEmail == "" || s.adminCfg.BootstrapPassword == "" {
		return nil
	}

	_, err := s.repo.FindByEmail(ctx, s.adminCfg.BootstrapEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking admin profile")
	}

	hash, err := security.HashPassword(s.adminCfg.BootstrapPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing admin password")
	}

	admin := &models.CustomerProfile{
		Email:        s.adminCfg.BootstrapEmail,
		Name:         s.adminCfg.BootstrapName,
		Surname:      "User",
		PasswordHash: hash,
		Role:         enums.RoleAdmin,
	}

	if _, err := s.repo.Create(ctx, admin); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating admin profile")
	}

	s.logg.Info(s.logg.WithCustomerEmail(ctx, admin.Email), "admin profile bootstrapped")
	return nil
}

func (s *service) uploadImage(ctx context.Context, email string, image *ImageUpload) (string, error) {
	if len(image.Data) == 0 {
		return "", fmt.Errorf("empty image upload")
	}
	object := path.Join(s.gcsCfg.ImagePrefix, fmt.Sprintf("%s_%s", email, image.Filename))
	if err := s.objects.Write(ctx, object, image.Data, image.ContentType); err != nil {
		return "", err
	}
	return s.objects.ObjectURL(object), nil
}

// removeReplacedImage drops the previous image object once a new upload has
// taken its place. Best effort, a stale object is cheap and harmless.
func (s *service) removeReplacedImage(ctx context.Context, oldURL *string, newURL string) {
	if oldURL == nil || *oldURL == "" || *oldURL == newURL {
		return
	}
	base := s.objects.ObjectURL("")
	if base == "" || !strings.HasPrefix(*oldURL, base) {
		return
	}
	if err := s.objects.Delete(ctx, strings.TrimPrefix(*oldURL, base)); err != nil {
		s.logg.Error(ctx, "removing replaced profile image", err)
	}
}

// backupProfile mirrors the profile record to the file store. Best effort,
// the database row is the source of truth.
func (s *service) backupProfile(ctx context.Context, profile *models.CustomerProfile) {
	data, err := json.Marshal(FromModel(profile))
	if err != nil {
		s.logg.Error(ctx, "marshaling profile backup", err)
		return
	}
	object := path.Join(s.gcsCfg.ProfilePrefix, fmt.Sprintf("%s.json", profile.Email))
	if err := s.objects.Write(ctx, object, data, "application/json"); err != nil {
		s.logg.Error(s.logg.WithCustomerEmail(ctx, profile.Email), "writing profile backup", err)
	}
}
