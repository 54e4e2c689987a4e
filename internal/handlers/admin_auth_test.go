package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"konstruksi-backend/internal/auth"
	"konstruksi-backend/internal/config"
	"konstruksi-backend/internal/middleware"
	"konstruksi-backend/internal/models"
	"konstruksi-backend/internal/validation"
)

type memoryUsers struct {
	byID    map[string]models.User
	findErr error
}

func newMemoryUsers(users ...models.User) *memoryUsers {
	m := &memoryUsers{byID: map[string]models.User{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memoryUsers) FindByLogin(ctx context.Context, login string) (models.User, error) {
	if m.findErr != nil {
		return models.User{}, m.findErr
	}
	for _, u := range m.byID {
		if u.Username == login || (u.Email != "" && u.Email == login) {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (m *memoryUsers) Insert(ctx context.Context, user models.User) error {
	for _, u := range m.byID {
		if u.Username == user.Username || (user.Email != "" && u.Email == user.Email) {
			return ErrUserExists
		}
	}
	m.byID[user.ID] = user
	return nil
}

func (m *memoryUsers) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	u, ok := m.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = at
	m.byID[id] = u
	return nil
}

func newTestServer(users UserStore) *Server {
	return &Server{
		Cfg: &config.Config{
			AdminUser:     "admin",
			AdminPassword: "bootstrap-pass",
			AdminSetupKey: "setup-123",
			Timezone:      time.UTC,
		},
		Users:  users,
		Val:    validation.New(),
		Log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tokens: auth.NewManager("secret", 15*time.Minute, time.Hour, "test"),
	}
}

func newRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/v1/admin/login", s.AdminLogin)
	r.Post("/api/v1/admin/refresh", s.AdminRefresh)
	r.Post("/api/v1/admin/logout", s.AdminLogout)
	r.Post("/api/v1/admin/register", s.AdminRegister)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminAuth("", s.Tokens))
		r.Get("/api/v1/admin/session", s.AdminSession)
		r.Post("/api/v1/admin/users", s.AdminCreateUser)
		r.Put("/api/v1/admin/users/{id}/password", s.AdminUpdateUserPassword)
	})
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func storedUser(t *testing.T, id, username, email, password string) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return models.User{ID: id, Username: username, Email: email, PasswordHash: hash, Role: models.UserRoleAdmin}
}

func TestAdminLoginBootstrapCredentials(t *testing.T) {
	h := newRouter(newTestServer(nil))

	rec := do(t, h, http.MethodPost, "/api/v1/admin/login", `{"username":" admin ","password":"bootstrap-pass"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","username":"admin"}`, rec.Body.String())

	access := cookieNamed(rec, auth.AccessCookieName)
	require.NotNil(t, access)
	assert.Equal(t, "/", access.Path)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, 900, access.MaxAge)

	refresh := cookieNamed(rec, auth.RefreshCookieName)
	require.NotNil(t, refresh)
	assert.Equal(t, "/api/v1/admin", refresh.Path)

	rec = do(t, h, http.MethodPost, "/api/v1/admin/login", `{"username":"admin","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, cookieNamed(rec, auth.AccessCookieName))
}

func TestAdminLoginStoredUser(t *testing.T) {
	users := newMemoryUsers(storedUser(t, "u1", "rina", "rina@example.co.id", "kuat-sekali-1"))
	h := newRouter(newTestServer(users))

	rec := do(t, h, http.MethodPost, "/api/v1/admin/login", `{"username":"rina","password":"kuat-sekali-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","username":"rina"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/v1/admin/login", `{"username":"Rina@Example.co.id","password":"kuat-sekali-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/admin/login", `{"username":"rina","password":"salah"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unknown users still fall through to the bootstrap account.
	rec = do(t, h, http.MethodPost, "/api/v1/admin/login", `{"username":"admin","password":"bootstrap-pass"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminLoginRehashesOldCost(t *testing.T) {
	old, err := bcrypt.GenerateFromPassword([]byte("kuat-sekali-1"), bcrypt.MinCost)
	require.NoError(t, err)
	users := newMemoryUsers(models.User{ID: "u1", Username: "rina", PasswordHash: string(old), Role: models.UserRoleAdmin})
	h := newRouter(newTestServer(users))

	rec := do(t, h, http.MethodPost, "/api/v1/admin/login", `{"username":"rina","password":"kuat-sekali-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	upgraded := users.byID["u1"].PasswordHash
	assert.NotEqual(t, string(old), upgraded)
	assert.False(t, auth.NeedsRehash(upgraded))
	assert.NoError(t, auth.ComparePassword(upgraded, "kuat-sekali-1"))
}

func TestAdminLoginErrors(t *testing.T) {
	s := newTestServer(nil)
	s.Tokens = nil
	rec := do(t, newRouter(s), http.MethodPost, "/api/v1/admin/login", `{"username":"admin","password":"bootstrap-pass"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	users := newMemoryUsers()
	users.findErr = errors.New("connection reset")
	rec = do(t, newRouter(newTestServer(users)), http.MethodPost, "/api/v1/admin/login", `{"username":"admin","password":"bootstrap-pass"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(t, newRouter(newTestServer(nil)), http.MethodPost, "/api/v1/admin/login", `{"username":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"password":"required"`)
}

func TestAdminRefreshAndSession(t *testing.T) {
	s := newTestServer(nil)
	h := newRouter(s)

	login := do(t, h, http.MethodPost, "/api/v1/admin/login", `{"username":"admin","password":"bootstrap-pass"}`)
	require.Equal(t, http.StatusOK, login.Code)
	access := cookieNamed(login, auth.AccessCookieName)
	refresh := cookieNamed(login, auth.RefreshCookieName)

	rec := do(t, h, http.MethodGet, "/api/v1/admin/session", "", access)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":true,"username":"admin"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/admin/session", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/admin/refresh", "", refresh)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, cookieNamed(rec, auth.AccessCookieName))

	// An access token is not accepted in place of a refresh token.
	rec = do(t, h, http.MethodPost, "/api/v1/admin/refresh", "", &http.Cookie{Name: auth.RefreshCookieName, Value: access.Value})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/admin/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminLogoutClearsCookies(t *testing.T) {
	rec := do(t, newRouter(newTestServer(nil)), http.MethodPost, "/api/v1/admin/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)

	for _, name := range []string{auth.AccessCookieName, auth.RefreshCookieName} {
		c := cookieNamed(rec, name)
		require.NotNil(t, c, name)
		assert.Empty(t, c.Value)
		assert.Less(t, c.MaxAge, 0)
	}
}

func TestAdminRegister(t *testing.T) {
	users := newMemoryUsers()
	h := newRouter(newTestServer(users))

	rec := do(t, h, http.MethodPost, "/api/v1/admin/register", `{"username":"budi","password":"panjang-sekali","setup_key":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, users.byID)

	rec = do(t, h, http.MethodPost, "/api/v1/admin/register", `{"username":"budi","email":"Budi@Example.co.id","password":"panjang-sekali","setup_key":"setup-123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotNil(t, cookieNamed(rec, auth.AccessCookieName))
	require.Len(t, users.byID, 1)
	for _, u := range users.byID {
		assert.Equal(t, "budi@example.co.id", u.Email)
		assert.NoError(t, auth.ComparePassword(u.PasswordHash, "panjang-sekali"))
	}

	rec = do(t, h, http.MethodPost, "/api/v1/admin/register", `{"username":"budi","password":"panjang-sekali","setup_key":"setup-123"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/admin/register", `{"username":"sari","password":"pendek","setup_key":"setup-123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"password":"min"`)
}

func TestAdminRegisterRequiresSetupKey(t *testing.T) {
	s := newTestServer(newMemoryUsers())
	s.Cfg.AdminSetupKey = ""
	rec := do(t, newRouter(s), http.MethodPost, "/api/v1/admin/register", `{"username":"budi","password":"panjang-sekali","setup_key":"x"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdminCreateUserAndPassword(t *testing.T) {
	users := newMemoryUsers()
	s := newTestServer(users)
	h := newRouter(s)
	access, err := s.Tokens.NewAccessToken("admin", auth.RoleAdmin)
	require.NoError(t, err)
	cookie := &http.Cookie{Name: auth.AccessCookieName, Value: access}

	rec := do(t, h, http.MethodPost, "/api/v1/admin/users", `{"username":"dewi","password":"password-awal"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/admin/users", `{"username":"dewi","password":"password-awal"}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	require.Len(t, users.byID, 1)

	var id string
	for k := range users.byID {
		id = k
	}

	rec = do(t, h, http.MethodPut, "/api/v1/admin/users/"+id+"/password", `{"password":"password-baru"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, auth.ComparePassword(users.byID[id].PasswordHash, "password-baru"))

	rec = do(t, h, http.MethodPut, "/api/v1/admin/users/missing/password", `{"password":"password-baru"}`, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Forty two-byte runes pass the length rule but exceed bcrypt's byte limit.
	long := strings.Repeat("é", 40)
	rec = do(t, h, http.MethodPut, "/api/v1/admin/users/"+id+"/password", `{"password":"`+long+`"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "password too long")
	rec = do(t, h, http.MethodPost, "/api/v1/admin/users", `{"username":"eko","password":"`+long+`"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, users.byID, 1)
}

func TestHealthAndReady(t *testing.T) {
	s := newTestServer(nil)

	rec := httptest.NewRecorder()
	s.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	s.Ping = func(ctx context.Context) error { return errors.New("down") }
	rec = httptest.NewRecorder()
	s.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.Ping = func(ctx context.Context) error { return nil }
	rec = httptest.NewRecorder()
	s.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNormalizeAdminUserIdentity(t *testing.T) {
	u, e := normalizeAdminUserIdentity("  Admin@Example.CO.ID ", " X@Y.Z ")
	assert.Equal(t, "admin@example.co.id", u)
	assert.Equal(t, "x@y.z", e)

	u, _ = normalizeAdminUserIdentity(" Rina ", "")
	assert.Equal(t, "Rina", u)
}
