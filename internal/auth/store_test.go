package auth

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kavya1280/JK-Insights/internal/shared/testutil"
)

func openStore(t *testing.T, path string, seed bool) *Store {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	s, err := Open(StoreConfig{
		Path:            path,
		BcryptCost:      bcrypt.MinCost,
		Seed:            seed,
		DefaultPassword: "password123",
	}, logger)
	require.NoError(t, err)
	return s
}

func readRaw(t *testing.T, path string) []User {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var users []User
	require.NoError(t, json.Unmarshal(data, &users))
	return users
}

func TestOpen_SeedsDefaultUsers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "users.json")
	s := openStore(t, path, true)

	users := s.List()
	require.Len(t, users, 4)
	for i, role := range Roles {
		assert.Equal(t, string(role), users[i].Username)
		assert.Equal(t, role, users[i].Role)
		assert.Equal(t, StatusActive, users[i].Status)
		assert.Empty(t, users[i].Password)
	}

	raw := readRaw(t, path)
	require.Len(t, raw, 4)
	assert.True(t, isHash(raw[0].Password))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	u, err := s.Authenticate(context.Background(), "admin", "password123")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.NotNil(t, u.LastLogin)
}

func TestOpen_NoSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	s := openStore(t, path, false)
	assert.Empty(t, s.List())
	assert.NoFileExists(t, path)
}

func TestOpen_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	_, err := Open(StoreConfig{Path: path}, nil)
	assert.Error(t, err)
}

func TestAuthenticate_LegacyPlaintextUpgrade(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	legacy := `[
  {"username": "asha", "password": "secret", "role": "Reviewer"},
  {"username": "ravi", "password": "pw", "role": "viewer", "status": "inactive"}
]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))
	s := openStore(t, path, true)

	// missing ids and odd casing are normalized on load, seeding is skipped
	users := s.List()
	require.Len(t, users, 2)
	assert.NotEmpty(t, users[0].ID)
	assert.Equal(t, RoleReviewer, users[0].Role)
	assert.Equal(t, StatusActive, users[0].Status)
	assert.Equal(t, StatusInactive, users[1].Status)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"wrong password", "asha", "nope", ErrInvalidCredentials},
		{"unknown user", "ghost", "secret", ErrInvalidCredentials},
		{"inactive account", "ravi", "pw", ErrAccountInactive},
		{"plaintext match", "asha", "secret", nil},
		{"hash after upgrade", "asha", "secret", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := s.Authenticate(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "asha", u.Username)
			assert.Empty(t, u.Password)
		})
	}

	for _, u := range readRaw(t, path) {
		assert.True(t, isHash(u.Password), "password of %s still plaintext", u.Username)
	}
}

func TestStore_CRUD(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	s := openStore(t, path, false)
	ctx := context.Background()

	u, err := s.Add(ctx, NewUser{Username: " meera ", Password: "pw1", Role: "uploader"})
	require.NoError(t, err)
	assert.Equal(t, "meera", u.Username)
	assert.Equal(t, StatusActive, u.Status)

	_, err = s.Add(ctx, NewUser{Username: "meera", Password: "x", Role: "viewer"})
	assert.ErrorIs(t, err, ErrUserExists)
	_, err = s.Add(ctx, NewUser{Username: "bob", Password: "x", Role: "superuser"})
	assert.ErrorIs(t, err, ErrInvalidRole)
	_, err = s.Add(ctx, NewUser{Username: "bob", Password: "x", Role: "viewer", Status: "suspended"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	role, status, pw := "admin", "Inactive", "pw2"
	updated, err := s.Update(ctx, u.ID, UserPatch{Role: &role, Status: &status, Password: &pw})
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, updated.Role)
	assert.Equal(t, StatusInactive, updated.Status)
	_, err = s.Authenticate(ctx, "meera", "pw2")
	assert.ErrorIs(t, err, ErrAccountInactive)

	_, err = s.Update(ctx, "missing", UserPatch{Role: &role})
	assert.ErrorIs(t, err, ErrUserNotFound)

	other, err := s.Add(ctx, NewUser{Username: "bob", Password: "x", Role: "viewer"})
	require.NoError(t, err)
	taken := "meera"
	_, err = s.Update(ctx, other.ID, UserPatch{Username: &taken})
	assert.ErrorIs(t, err, ErrUserExists)

	removed, err := s.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "meera", removed.Username)
	_, err = s.Delete(ctx, u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = s.Get(u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// reopening reads what was persisted
	reopened := openStore(t, path, false)
	names := make([]string, 0)
	for _, u := range reopened.List() {
		names = append(names, u.Username)
	}
	assert.Equal(t, "bob", strings.Join(names, ","))
}

func TestParseRoleAndStatus(t *testing.T) {
	r, err := ParseRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	st, err := ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, st)
}
