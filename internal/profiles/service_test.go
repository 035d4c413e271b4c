package profiles

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/lorenagil/storefront-backend/pkg/config"
	"github.com/lorenagil/storefront-backend/pkg/db/models"
	"github.com/lorenagil/storefront-backend/pkg/enums"
	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
	"github.com/lorenagil/storefront-backend/pkg/logger"
	"github.com/lorenagil/storefront-backend/pkg/security"
	"gorm.io/gorm"
)

type stubRepo struct {
	profiles map[string]*models.CustomerProfile
	findErr  error
}

func newStubRepo() *stubRepo {
	return &stubRepo{profiles: map[string]*models.CustomerProfile{}}
}

func (s *stubRepo) Create(_ context.Context, profile *models.CustomerProfile) (*models.CustomerProfile, error) {
	if _, ok := s.profiles[profile.Email]; ok {
		return nil, errors.New(`duplicate key value violates unique constraint "customer_profiles_pkey"`)
	}
	s.profiles[profile.Email] = profile
	return profile, nil
}

func (s *stubRepo) FindByEmail(_ context.Context, email string) (*models.CustomerProfile, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	profile, ok := s.profiles[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (s *stubRepo) Update(_ context.Context, profile *models.CustomerProfile) (*models.CustomerProfile, error) {
	s.profiles[profile.Email] = profile
	return profile, nil
}

func (s *stubRepo) ListCustomerEmails(_ context.Context) ([]string, error) {
	var emails []string
	for email, p := range s.profiles {
		if p.Role == enums.RoleCustomer {
			emails = append(emails, email)
		}
	}
	return emails, nil
}

type stubObjectStore struct {
	objects map[string][]byte
	deleted []string
	failAll bool
}

func newStubObjectStore() *stubObjectStore {
	return &stubObjectStore{objects: map[string][]byte{}}
}

func (s *stubObjectStore) Write(_ context.Context, object string, data []byte, _ string) error {
	if s.failAll {
		return errors.New("storage unavailable")
	}
	s.objects[object] = data
	return nil
}

func (s *stubObjectStore) Delete(_ context.Context, object string) error {
	delete(s.objects, object)
	s.deleted = append(s.deleted, object)
	return nil
}

func (s *stubObjectStore) ObjectURL(object string) string {
	return "https://storage.googleapis.com/test-bucket/" + object
}

func testService(t *testing.T, repo *stubRepo, objects *stubObjectStore, adminCfg config.AdminConfig) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:           repo,
		ObjectStore:    objects,
		PasswordConfig: config.PasswordConfig{},
		GCSConfig:      config.GCSConfig{ImagePrefix: "images", ProfilePrefix: "profiles"},
		AdminConfig:    adminCfg,
		Logger:         logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRegisterSuccess(t *testing.T) {
	repo := newStubRepo()
	objects := newStubObjectStore()
	svc := testService(t, repo, objects, config.AdminConfig{})

	dto, err := svc.Register(context.Background(), RegisterInput{
		Email:    "ada@example.com",
		Password: "s3cret",
		Name:     "Ada",
		Surname:  "Lovelace",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.Role != enums.RoleCustomer.String() {
		t.Fatalf("expected Customer role, got %s", dto.Role)
	}

	stored := repo.profiles["ada@example.com"]
	if stored == nil {
		t.Fatal("expected profile to be persisted")
	}
	if stored.PasswordHash == "s3cret" {
		t.Fatal("expected password to be hashed")
	}
	ok, err := security.VerifyPassword("s3cret", stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("expected hash to verify, ok=%v err=%v", ok, err)
	}

	if _, ok := objects.objects["profiles/ada@example.com.json"]; !ok {
		t.Fatalf("expected profile backup object, got %v", keys(objects.objects))
	}
}

func TestRegisterWithImage(t *testing.T) {
	repo := newStubRepo()
	objects := newStubObjectStore()
	svc := testService(t, repo, objects, config.AdminConfig{})

	dto, err := svc.Register(context.Background(), RegisterInput{
		Email:    "ada@example.com",
		Password: "s3cret",
		Name:     "Ada",
		Surname:  "Lovelace",
		Image: &ImageUpload{
			Filename:    "avatar.png",
			ContentType: "image/png",
			Data:        []byte{0x89, 0x50, 0x4e, 0x47},
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.ImageURL == nil {
		t.Fatal("expected image URL to be set")
	}
	if !strings.Contains(*dto.ImageURL, "images/ada@example.com_avatar.png") {
		t.Fatalf("unexpected image URL %s", *dto.ImageURL)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newStubRepo()
	svc := testService(t, repo, newStubObjectStore(), config.AdminConfig{})

	input := RegisterInput{Email: "dup@example.com", Password: "pw", Name: "A", Surname: "B"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	repo := newStubRepo()
	svc := testService(t, repo, newStubObjectStore(), config.AdminConfig{})

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email: "ada@example.com", Password: "s3cret", Name: "Ada", Surname: "Lovelace",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	dto, err := svc.Authenticate(context.Background(), "ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if dto.Email != "ada@example.com" {
		t.Fatalf("unexpected email %s", dto.Email)
	}

	_, err = svc.Authenticate(context.Background(), "ada@example.com", "wrong")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for bad password, got %v", err)
	}

	_, err = svc.Authenticate(context.Background(), "ghost@example.com", "s3cret")
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	svc := testService(t, newStubRepo(), newStubObjectStore(), config.AdminConfig{})

	_, err := svc.Get(context.Background(), "ghost@example.com")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateKeepsImageOnUploadFailure(t *testing.T) {
	repo := newStubRepo()
	objects := newStubObjectStore()
	svc := testService(t, repo, objects, config.AdminConfig{})

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email: "ada@example.com", Password: "pw", Name: "Ada", Surname: "Lovelace",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	objects.failAll = true
	dto, err := svc.Update(context.Background(), "ada@example.com", UpdateProfileInput{
		Name:    "Ada",
		Surname: "King",
		Image:   &ImageUpload{Filename: "a.png", Data: []byte{1}},
	})
	if err != nil {
		t.Fatalf("update should survive image upload failure: %v", err)
	}
	if dto.Surname != "King" {
		t.Fatalf("expected updated surname, got %s", dto.Surname)
	}
	if dto.ImageURL != nil {
		t.Fatalf("expected image URL to stay unset, got %v", dto.ImageURL)
	}
}

func TestUpdateDeletesReplacedImage(t *testing.T) {
	repo := newStubRepo()
	objects := newStubObjectStore()
	svc := testService(t, repo, objects, config.AdminConfig{})

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email: "ada@example.com", Password: "pw", Name: "Ada", Surname: "Lovelace",
		Image: &ImageUpload{Filename: "old.png", Data: []byte{1}},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, ok := objects.objects["images/ada@example.com_old.png"]; !ok {
		t.Fatal("expected original image stored")
	}

	dto, err := svc.Update(context.Background(), "ada@example.com", UpdateProfileInput{
		Name:    "Ada",
		Surname: "Lovelace",
		Image:   &ImageUpload{Filename: "new.png", Data: []byte{2}},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.ImageURL == nil || !strings.HasSuffix(*dto.ImageURL, "images/ada@example.com_new.png") {
		t.Fatalf("expected new image URL, got %v", dto.ImageURL)
	}

	if _, ok := objects.objects["images/ada@example.com_old.png"]; ok {
		t.Fatal("expected replaced image removed")
	}
	if len(objects.deleted) != 1 || objects.deleted[0] != "images/ada@example.com_old.png" {
		t.Fatalf("expected old object deleted, got %v", objects.deleted)
	}
}

func TestGetStoreFailure(t *testing.T) {
	repo := newStubRepo()
	repo.findErr = errors.New("connection refused")
	svc := testService(t, repo, newStubObjectStore(), config.AdminConfig{})

	_, err := svc.Get(context.Background(), "ada@example.com")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	repo := newStubRepo()
	adminCfg := config.AdminConfig{
		BootstrapEmail:    "admin@example.com",
		BootstrapPassword: "admin-pw",
		BootstrapName:     "Admin",
	}
	svc := testService(t, repo, newStubObjectStore(), adminCfg)

	if err := svc.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	admin := repo.profiles["admin@example.com"]
	if admin == nil {
		t.Fatal("expected admin profile to be created")
	}
	if admin.Role != enums.RoleAdmin {
		t.Fatalf("expected Admin role, got %s", admin.Role)
	}

	// Second call is a no-op.
	if err := svc.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("ensure admin twice: %v", err)
	}
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
