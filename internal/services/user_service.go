package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kavya1280/JK-Insights/internal/auth"
	"github.com/kavya1280/JK-Insights/internal/infrastructure"
)

// UserService handles logins and account administration
type UserService struct {
	store   *auth.Store
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewUserService creates the service. metrics may be nil.
func NewUserService(store *auth.Store, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		store:   store,
		metrics: metrics,
		logger:  logger.With(slog.String("service", "users")),
	}
}

// Login authenticates a user and returns it without its password
func (s *UserService) Login(ctx context.Context, username, password string) (auth.User, error) {
	u, err := s.store.Authenticate(ctx, username, password)
	switch {
	case err == nil:
		s.metrics.RecordLogin(ctx, "success")
	case errors.Is(err, auth.ErrAccountInactive):
		s.metrics.RecordLogin(ctx, "inactive")
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.metrics.RecordLogin(ctx, "invalid")
	default:
		s.metrics.RecordLogin(ctx, "error")
	}
	return u, err
}

// List returns every account
func (s *UserService) List(ctx context.Context) []auth.User {
	return s.store.List()
}

// Add creates an account
func (s *UserService) Add(ctx context.Context, in auth.NewUser) (auth.User, error) {
	return s.store.Add(ctx, in)
}

// Update applies a partial update
func (s *UserService) Update(ctx context.Context, id string, patch auth.UserPatch) (auth.User, error) {
	return s.store.Update(ctx, id, patch)
}

// Delete removes an account
func (s *UserService) Delete(ctx context.Context, id string) (auth.User, error) {
	return s.store.Delete(ctx, id)
}
