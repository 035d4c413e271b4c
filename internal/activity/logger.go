package activity

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lorenagil/storefront-backend/pkg/config"
	"github.com/lorenagil/storefront-backend/pkg/enums"
	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
	"github.com/lorenagil/storefront-backend/pkg/logger"
	"github.com/lorenagil/storefront-backend/pkg/storage/gcs"
)

const (
	lockScope      = "activity"
	entrySeparator = "------------------------------------------------"
	timestampFmt   = "2006-01-02 15:04:05"
)

// Logger appends customer activity entries to the per-customer log object.
// Appends for one customer are serialized through a Redis lock so the
// read-modify-write never loses an entry. Failures are logged and swallowed,
// a broken activity trail must not fail a login or logout.
type Logger interface {
	Append(ctx context.Context, email string, action enums.ActivityAction, at time.Time, durationMinutes *int)
	Read(ctx context.Context, email string) (string, error)
}

type objectStore interface {
	Exists(ctx context.Context, object string) (bool, error)
	ReadAll(ctx context.Context, object string) ([]byte, error)
	Write(ctx context.Context, object string, data []byte, contentType string) error
}

type locker interface {
	LockKey(scope, id string) string
	AcquireLock(ctx context.Context, key, token string, ttl, maxWait time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

type activityLogger struct {
	objects  objectStore
	locker   locker
	logg     *logger.Logger
	prefix   string
	lockTTL  time.Duration
	lockWait time.Duration
}

// LoggerParams bundles the dependencies required to build the activity logger.
type LoggerParams struct {
	ObjectStore objectStore
	Locker      locker
	Logger      *logger.Logger
	GCSConfig   config.GCSConfig
	LockTTL     time.Duration
	LockWait    time.Duration
}

// NewLogger constructs the activity logger with the provided dependencies.
func NewLogger(params LoggerParams) (Logger, error) {
	if params.ObjectStore == nil {
		return nil, fmt.Errorf("object store is required")
	}
	if params.Locker == nil {
		return nil, fmt.Errorf("locker is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	lockTTL := params.LockTTL
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	lockWait := params.LockWait
	if lockWait <= 0 {
		lockWait = 5 * time.Second
	}
	return &activityLogger{
		objects:  params.ObjectStore,
		locker:   params.Locker,
		logg:     params.Logger,
		prefix:   params.GCSConfig.LogPrefix,
		lockTTL:  lockTTL,
		lockWait: lockWait,
	}, nil
}

// Append records one activity entry. It never returns an error: any failure
// is logged and the caller's flow continues.
func (a *activityLogger) Append(ctx context.Context, email string, action enums.ActivityAction, at time.Time, durationMinutes *int) {
	logCtx := a.logg.WithCustomerEmail(ctx, email)

	key := a.locker.LockKey(lockScope, email)
	token := uuid.NewString()

	acquired, err := a.locker.AcquireLock(ctx, key, token, a.lockTTL, a.lockWait)
	if err != nil {
		a.logg.Error(logCtx, "acquiring activity log lock", err)
		return
	}
	if !acquired {
		a.logg.Error(logCtx, "activity log lock busy", fmt.Errorf("lock %s not acquired within %s", key, a.lockWait))
		return
	}
	defer func() {
		if err := a.locker.ReleaseLock(ctx, key, token); err != nil {
			a.logg.Error(logCtx, "releasing activity log lock", err)
		}
	}()

	object := a.objectName(email)
	present, err := a.objects.Exists(ctx, object)
	if err != nil {
		a.logg.Error(logCtx, "checking activity log", err)
		return
	}
	var existing []byte
	if present {
		existing, err = a.objects.ReadAll(ctx, object)
		if err != nil {
			a.logg.Error(logCtx, "reading activity log", err)
			return
		}
	}

	var sb strings.Builder
	sb.Write(existing)
	sb.WriteString(fmt.Sprintf("Action: %s\n", action))
	sb.WriteString(fmt.Sprintf("Timestamp: %s\n", at.Format(timestampFmt)))
	if durationMinutes != nil {
		sb.WriteString(fmt.Sprintf("Session Duration: %d minutes\n", *durationMinutes))
	}
	sb.WriteString(entrySeparator + "\n")

	if err := a.objects.Write(ctx, object, []byte(sb.String()), "text/plain; charset=utf-8"); err != nil {
		a.logg.Error(logCtx, "writing activity log", err)
	}
}

// Read returns the full activity log for the customer, for the admin surface.
func (a *activityLogger) Read(ctx context.Context, email string) (string, error) {
	data, err := a.objects.ReadAll(ctx, a.objectName(email))
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "activity log not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading activity log")
	}
	return string(data), nil
}

func (a *activityLogger) objectName(email string) string {
	return path.Join(a.prefix, fmt.Sprintf("%s_log.txt", email))
}
