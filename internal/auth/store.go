package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// StoreConfig configures a Store
type StoreConfig struct {
	Path string
	// BcryptCost defaults to bcrypt.DefaultCost
	BcryptCost int
	// Seed creates one account per role when Path does not exist
	Seed            bool
	DefaultPassword string
}

// Store is a JSON file backed user store. Every mutation rewrites the file.
type Store struct {
	mu     sync.RWMutex
	path   string
	cost   int
	users  []User
	logger *slog.Logger
	now    func() time.Time
}

// Open loads the user file, seeding it first when configured to
func Open(cfg StoreConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	s := &Store{
		path:   cfg.Path,
		cost:   cfg.BcryptCost,
		logger: logger.With(slog.String("component", "auth")),
		now:    time.Now,
	}

	data, err := os.ReadFile(cfg.Path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if cfg.Seed {
			if err := s.seed(cfg.DefaultPassword); err != nil {
				return nil, err
			}
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read user file: %w", err)
	}

	if err := json.Unmarshal(data, &s.users); err != nil {
		return nil, fmt.Errorf("failed to parse user file %s: %w", cfg.Path, err)
	}
	if s.normalize() {
		if err := s.save(); err != nil {
			return nil, err
		}
	}
	s.logger.Info("user store loaded", slog.String("path", cfg.Path), slog.Int("users", len(s.users)))
	return s, nil
}

// normalize fills ids, roles and statuses missing from older files and
// reports whether anything changed
func (s *Store) normalize() bool {
	changed := false
	for i := range s.users {
		u := &s.users[i]
		if u.ID == "" {
			u.ID = uuid.NewString()
			changed = true
		}
		if st, err := ParseStatus(string(u.Status)); err == nil && st != u.Status {
			u.Status = st
			changed = true
		}
		if r, err := ParseRole(string(u.Role)); err == nil && r != u.Role {
			u.Role = r
			changed = true
		}
	}
	return changed
}

func (s *Store) seed(password string) error {
	now := s.now()
	for _, role := range Roles {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		s.users = append(s.users, User{
			ID:        uuid.NewString(),
			Username:  string(role),
			Password:  string(hash),
			Role:      role,
			Status:    StatusActive,
			CreatedAt: now,
		})
	}
	if err := s.save(); err != nil {
		return err
	}
	s.logger.Info("seeded default users", slog.String("path", s.path), slog.Int("users", len(s.users)))
	return nil
}

// save writes the users atomically. Callers hold the write lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal users: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create user directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".users-*.json")
	if err != nil {
		return fmt.Errorf("failed to write user file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write user file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write user file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write user file: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

func isHash(p string) bool {
	return strings.HasPrefix(p, "$2a$") || strings.HasPrefix(p, "$2b$") || strings.HasPrefix(p, "$2y$")
}

// Authenticate checks a username and password. A legacy plaintext password
// is replaced by its hash when it matches.
func (s *Store) Authenticate(ctx context.Context, username, password string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByName(username)
	if idx < 0 {
		s.logger.InfoContext(ctx, "login rejected", slog.String("username", username), slog.String("reason", "unknown user"))
		return User{}, ErrInvalidCredentials
	}
	u := &s.users[idx]

	if isHash(u.Password) {
		if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
			s.logger.InfoContext(ctx, "login rejected", slog.String("username", username), slog.String("reason", "bad password"))
			return User{}, ErrInvalidCredentials
		}
	} else {
		if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
			s.logger.InfoContext(ctx, "login rejected", slog.String("username", username), slog.String("reason", "bad password"))
			return User{}, ErrInvalidCredentials
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
		if err != nil {
			return User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		u.Password = string(hash)
		s.logger.InfoContext(ctx, "upgraded plaintext password", slog.String("username", username))
	}

	if u.Active() {
		now := s.now()
		u.LastLogin = &now
	}
	if err := s.save(); err != nil {
		s.logger.WarnContext(ctx, "failed to persist login", slog.String("error", err.Error()))
	}
	if !u.Active() {
		s.logger.InfoContext(ctx, "login rejected", slog.String("username", username), slog.String("reason", "inactive"))
		return User{}, ErrAccountInactive
	}
	return u.Public(), nil
}

func (s *Store) indexByName(username string) int {
	username = strings.TrimSpace(username)
	for i, u := range s.users {
		if u.Username == username {
			return i
		}
	}
	return -1
}

func (s *Store) indexByID(id string) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// List returns every user without passwords
func (s *Store) List() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, len(s.users))
	for i, u := range s.users {
		out[i] = u.Public()
	}
	return out
}

// Get returns one user without its password
func (s *Store) Get(id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexByID(id)
	if idx < 0 {
		return User{}, fmt.Errorf("user %s: %w", id, ErrUserNotFound)
	}
	return s.users[idx].Public(), nil
}

// Add creates an account
func (s *Store) Add(ctx context.Context, in NewUser) (User, error) {
	role, err := ParseRole(in.Role)
	if err != nil {
		return User{}, fmt.Errorf("%q: %w", in.Role, err)
	}
	status, err := ParseStatus(in.Status)
	if err != nil {
		return User{}, fmt.Errorf("%q: %w", in.Status, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.TrimSpace(in.Username)
	if s.indexByName(name) >= 0 {
		return User{}, fmt.Errorf("%q: %w", name, ErrUserExists)
	}
	u := User{
		ID:        uuid.NewString(),
		Username:  name,
		Password:  string(hash),
		Role:      role,
		Status:    status,
		CreatedAt: s.now(),
	}
	s.users = append(s.users, u)
	if err := s.save(); err != nil {
		s.users = s.users[:len(s.users)-1]
		return User{}, err
	}
	s.logger.InfoContext(ctx, "user added", slog.String("username", name), slog.String("role", string(role)))
	return u.Public(), nil
}

// Update applies a partial update
func (s *Store) Update(ctx context.Context, id string, patch UserPatch) (User, error) {
	var hash string
	if patch.Password != nil {
		h, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), s.cost)
		if err != nil {
			return User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		hash = string(h)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(id)
	if idx < 0 {
		return User{}, fmt.Errorf("user %s: %w", id, ErrUserNotFound)
	}
	u := s.users[idx]

	if patch.Username != nil {
		name := strings.TrimSpace(*patch.Username)
		if other := s.indexByName(name); other >= 0 && other != idx {
			return User{}, fmt.Errorf("%q: %w", name, ErrUserExists)
		}
		u.Username = name
	}
	if patch.Role != nil {
		role, err := ParseRole(*patch.Role)
		if err != nil {
			return User{}, fmt.Errorf("%q: %w", *patch.Role, err)
		}
		u.Role = role
	}
	if patch.Status != nil {
		status, err := ParseStatus(*patch.Status)
		if err != nil {
			return User{}, fmt.Errorf("%q: %w", *patch.Status, err)
		}
		u.Status = status
	}
	if hash != "" {
		u.Password = hash
	}

	prev := s.users[idx]
	s.users[idx] = u
	if err := s.save(); err != nil {
		s.users[idx] = prev
		return User{}, err
	}
	s.logger.InfoContext(ctx, "user updated", slog.String("user_id", id))
	return u.Public(), nil
}

// Delete removes an account and returns it
func (s *Store) Delete(ctx context.Context, id string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(id)
	if idx < 0 {
		return User{}, fmt.Errorf("user %s: %w", id, ErrUserNotFound)
	}
	removed := s.users[idx]
	prev := s.users
	s.users = append(append([]User(nil), s.users[:idx]...), s.users[idx+1:]...)
	if err := s.save(); err != nil {
		s.users = prev
		return User{}, err
	}
	s.logger.InfoContext(ctx, "user deleted", slog.String("username", removed.Username))
	return removed.Public(), nil
}
