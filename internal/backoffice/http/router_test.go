package http

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
	"github.com/folioworks/backoffice/internal/backoffice/mail"
	"github.com/folioworks/backoffice/internal/backoffice/service"
	"github.com/folioworks/backoffice/internal/backoffice/store"
	"github.com/folioworks/backoffice/internal/backoffice/store/drivers/sqlite"
	"github.com/folioworks/backoffice/pkg/cryptox"
	"github.com/folioworks/backoffice/pkg/httpx"
	"github.com/folioworks/backoffice/pkg/idx"
	"github.com/folioworks/backoffice/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testBcryptCost = 4

// testClock is a mutable clock shared by the codec and the services.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingMailer struct {
	mu   sync.Mutex
	msgs []mail.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	return nil
}

// lastResetSecret pulls the secret out of the newest emailed link.
func (m *recordingMailer) lastResetSecret(t *testing.T) string {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.msgs)

	for _, line := range strings.Split(m.msgs[len(m.msgs)-1].Text, "\n") {
		if !strings.Contains(line, "/set-password/") {
			continue
		}
		parts := strings.Split(strings.TrimSpace(line), "/")
		return parts[len(parts)-1]
	}

	t.Fatal("no set-password link in reset email")
	return ""
}

type testEnv struct {
	router *Router
	store  store.Store
	codec  *jwtx.Codec
	clock  *testClock
	mailer *recordingMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	clock := &testClock{now: time.Now().UTC()}

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	codec, err := jwtx.NewCodec(jwtx.Config{
		PrivateKey: key,
		Issuer:     "backoffice-test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
		Now:        clock.Now,
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mailer := &recordingMailer{}

	router := NewRouter(codec, "test", st, logger)
	router.SessionService = &service.SessionService{Store: st, Codec: codec, Now: clock.Now}
	router.ResetTokenService = &service.ResetTokenService{
		Store:       st,
		Mailer:      mailer,
		FrontendURL: "https://admin.example.com",
		BcryptCost:  testBcryptCost,
		Now:         clock.Now,
	}
	router.AdminService = &service.AdminService{Store: st, Mailer: mailer, BcryptCost: testBcryptCost}
	router.SkillService = &service.SkillService{Store: st}
	router.ExperienceService = &service.ExperienceService{Store: st}
	router.ApplyRoutes()

	return &testEnv{
		router: router,
		store:  st,
		codec:  codec,
		clock:  clock,
		mailer: mailer,
	}
}

func (env *testEnv) seedAdmin(t *testing.T, email, password string, role domain.Role, active bool) domain.Admin {
	t.Helper()

	hash, err := cryptox.HashPassword(password, testBcryptCost)
	require.NoError(t, err)

	now := time.Now().UTC()
	admin := domain.Admin{
		ID:           idx.New().String(),
		Firstname:    "Ada",
		Lastname:     "Lovelace",
		Nickname:     "ada",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, env.store.Admins().CreateAdmin(context.Background(), admin))
	return admin
}

// do runs one request through the full router chain.
func (env *testEnv) do(t *testing.T, method, target string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

// login authenticates and returns the token cookies.
func (env *testEnv) login(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	return cookies
}

type errorBody struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("success sets both cookies and hides the hash", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.seedAdmin(t, "ada@example.com", "correct horse", domain.RoleAdmin, true)

		rec := env.do(t, http.MethodPost, "/login", map[string]string{
			"email":    "ada@example.com",
			"password": "correct horse",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		byName := map[string]*http.Cookie{}
		for _, c := range rec.Result().Cookies() {
			byName[c.Name] = c
		}
		require.Contains(t, byName, httpx.AccessTokenCookie)
		require.Contains(t, byName, httpx.RefreshTokenCookie)
		require.True(t, byName[httpx.AccessTokenCookie].HttpOnly)

		var body struct {
			Session domain.Session `json:"session"`
			Admin   domain.Admin   `json:"admin"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, admin.ID, body.Admin.ID)
		require.Equal(t, admin.ID, body.Session.OwnerID)
		require.NotContains(t, rec.Body.String(), "passwordHash")
		require.NotContains(t, rec.Body.String(), admin.PasswordHash)
	})

	t.Run("unknown email and wrong password answer alike", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedAdmin(t, "ada@example.com", "correct horse", domain.RoleAdmin, true)

		for _, payload := range []map[string]string{
			{"email": "nobody@example.com", "password": "whatever"},
			{"email": "ada@example.com", "password": "battery staple"},
		} {
			rec := env.do(t, http.MethodPost, "/login", payload, nil)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Equal(t, errorBody{Path: "global", Message: "invalid_credentials"}, decodeError(t, rec))
		}
	})

	t.Run("disabled account", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedAdmin(t, "ada@example.com", "correct horse", domain.RoleAdmin, false)

		rec := env.do(t, http.MethodPost, "/login", map[string]string{
			"email":    "ada@example.com",
			"password": "correct horse",
		}, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, errorBody{Path: "global", Message: "disabled_account"}, decodeError(t, rec))
	})

	t.Run("missing fields", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodPost, "/login", map[string]string{"password": "x"}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, errorBody{Path: "email", Message: "required"}, decodeError(t, rec))
	})
}

func TestSilentRefresh(t *testing.T) {
	t.Run("expired access renews off the refresh cookie", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedAdmin(t, "ada@example.com", "correct horse", domain.RoleAdmin, true)
		cookies := env.login(t, "ada@example.com", "correct horse")

		env.clock.Advance(2 * time.Minute)

		rec := env.do(t, http.MethodGet, "/me/session", nil, cookies)
		require.Equal(t, http.StatusOK, rec.Code)

		renewed := rec.Result().Cookies()
		require.Len(t, renewed, 1)
		require.Equal(t, httpx.AccessTokenCookie, renewed[0].Name)
		require.True(t, env.codec.Verify(renewed[0].Value).Valid)
	})

	t.Run("expired access without refresh stays anonymous", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedAdmin(t, "ada@example.com", "correct horse", domain.RoleAdmin, true)
		cookies := env.login(t, "ada@example.com", "correct horse")

		env.clock.Advance(2 * time.Minute)

		var access []*http.Cookie
		for _, c := range cookies {
			if c.Name == httpx.AccessTokenCookie {
				access = append(access, c)
			}
		}

		rec := env.do(t, http.MethodGet, "/me/session", nil, access)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("tampered access token skips renewal", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedAdmin(t, "ada@example.com", "correct horse", domain.RoleAdmin, true)
		cookies := env.login(t, "ada@example.com", "correct horse")

		// A garbage access token fails for a non-expiry reason; the
		// refresh cookie alongside it must not buy a renewal.
		for _, c := range cookies {
			if c.Name == httpx.AccessTokenCookie {
				c.Value = "not.a.token"
			}
		}

		rec := env.do(t, http.MethodGet, "/me/session", nil, cookies)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Empty(t, rec.Result().Cookies())
	})

	t.Run("renewal denied after session revocation", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.seedAdmin(t, "ada@example.com", "correct horse", domain.RoleAdmin, true)
		cookies := env.login(t, "ada@example.com", "correct horse")

		_, err := env.store.Sessions().RevokeSessions(context.Background(), admin.ID, "")
		require.NoError(t, err)

		env.clock.Advance(2 * time.Minute)

		rec := env.do(t, http.MethodGet, "/me/session", nil, cookies)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t, "ada@example.com", "correct horse", domain.RoleAdmin, true)
	cookies := env.login(t, "ada@example.com", "correct horse")

	rec := env.do(t, http.MethodPost, "/logout", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		require.Empty(t, c.Value)
		require.Negative(t, c.MaxAge)
	}

	// Revocation is detached; the session row flips shortly after.
	require.Eventually(t, func() bool {
		_, err := env.store.Sessions().GetActiveSessionByOwner(context.Background(), admin.ID)
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestResetPasswordEndpoints(t *testing.T) {
	t.Run("request answers the same for unknown emails", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodPost, "/reset-password", map[string]string{
			"email": "nobody@example.com",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("full reset flow", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.seedAdmin(t, "ada@example.com", "correct horse", domain.RoleAdmin, true)

		rec := env.do(t, http.MethodPost, "/reset-password", map[string]string{
			"email": "ada@example.com",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		secret := env.mailer.lastResetSecret(t)
		rec = env.do(t, http.MethodPost, "/set-password/"+admin.ID+"/"+secret, map[string]string{
			"password":        "Battery-Staple-9",
			"confirmPassword": "Battery-Staple-9",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		env.login(t, "ada@example.com", "Battery-Staple-9")
	})

	t.Run("dead token answers 498 with an empty body", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.seedAdmin(t, "ada@example.com", "correct horse", domain.RoleAdmin, true)

		rec := env.do(t, http.MethodPost, "/set-password/"+admin.ID+"/deadbeef", map[string]string{
			"password":        "Battery-Staple-9",
			"confirmPassword": "Battery-Staple-9",
		}, nil)
		require.Equal(t, domain.StatusTokenInvalidOrExpired, rec.Code)
		require.Empty(t, rec.Body.String())
	})

	t.Run("weak password rejected before the token is touched", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.seedAdmin(t, "ada@example.com", "correct horse", domain.RoleAdmin, true)

		rec := env.do(t, http.MethodPost, "/set-password/"+admin.ID+"/whatever", map[string]string{
			"password":        "alllowercase",
			"confirmPassword": "alllowercase",
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, errorBody{Path: "password", Message: "password_too_weak"}, decodeError(t, rec))
	})

	t.Run("mismatched confirmation", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.seedAdmin(t, "ada@example.com", "correct horse", domain.RoleAdmin, true)

		rec := env.do(t, http.MethodPost, "/set-password/"+admin.ID+"/whatever", map[string]string{
			"password":        "Battery-Staple-9",
			"confirmPassword": "Battery-Staple-8",
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, errorBody{Path: "confirmPassword", Message: "passwords_do_not_match"}, decodeError(t, rec))
	})
}

func TestAdminEndpoints(t *testing.T) {
	t.Run("creation is gated on the topmost role", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedAdmin(t, "root@example.com", "correct horse", domain.RoleSuperadmin, true)
		env.seedAdmin(t, "ada@example.com", "correct horse", domain.RoleAdmin, true)

		payload := map[string]string{
			"firstname": "Grace",
			"lastname":  "Hopper",
			"email":     "grace@example.com",
			"password":  "Compilers-4ever",
		}

		asAdmin := env.login(t, "ada@example.com", "correct horse")
		rec := env.do(t, http.MethodPost, "/admins", payload, asAdmin)
		require.Equal(t, http.StatusForbidden, rec.Code)

		asRoot := env.login(t, "root@example.com", "correct horse")
		rec = env.do(t, http.MethodPost, "/admins", payload, asRoot)
		require.Equal(t, http.StatusCreated, rec.Code)

		var created domain.Admin
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		require.Equal(t, domain.RoleAdmin, created.Role)
		require.NotContains(t, rec.Body.String(), "passwordHash")
	})

	t.Run("anonymous requests are rejected", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodGet, "/admins", nil, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, errorBody{Path: "global", Message: "forbidden"}, decodeError(t, rec))
	})

	t.Run("profile updates flow through PATCH /me", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedAdmin(t, "ada@example.com", "correct horse", domain.RoleAdmin, true)
		cookies := env.login(t, "ada@example.com", "correct horse")

		rec := env.do(t, http.MethodPatch, "/me", map[string]string{
			"firstname": "Augusta",
			"lastname":  "King",
			"nickname":  "countess",
		}, cookies)
		require.Equal(t, http.StatusOK, rec.Code)

		var updated domain.Admin
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		require.Equal(t, "Augusta", updated.Firstname)
		require.Equal(t, "countess", updated.Nickname)
	})

	t.Run("duplicate email answers 409", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedAdmin(t, "root@example.com", "correct horse", domain.RoleSuperadmin, true)
		env.seedAdmin(t, "grace@example.com", "correct horse", domain.RoleAdmin, true)
		cookies := env.login(t, "root@example.com", "correct horse")

		rec := env.do(t, http.MethodPost, "/admins", map[string]string{
			"firstname": "Grace",
			"lastname":  "Hopper",
			"email":     "grace@example.com",
			"password":  "Compilers-4ever",
		}, cookies)
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Equal(t, errorBody{Path: "email", Message: "taken"}, decodeError(t, rec))
	})
}

func TestSkillsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "ada@example.com", "correct horse", domain.RoleAdmin, true)

	// Empty collections answer 204 with no body.
	rec := env.do(t, http.MethodGet, "/skills", nil, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())

	// Mutations need a session.
	rec = env.do(t, http.MethodPost, "/skills", map[string]any{
		"name": "Go", "image": "go.svg", "progress": 80,
	}, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	cookies := env.login(t, "ada@example.com", "correct horse")
	rec = env.do(t, http.MethodPost, "/skills", map[string]any{
		"name": "Go", "image": "go.svg", "progress": 80,
	}, cookies)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Skill
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// Reads stay public.
	rec = env.do(t, http.MethodGet, "/skills", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var skills []domain.Skill
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &skills))
	require.Len(t, skills, 1)
	require.Equal(t, created.ID, skills[0].ID)

	rec = env.do(t, http.MethodPost, "/skills", map[string]any{
		"name": "Go", "image": "go.svg", "progress": 180,
	}, cookies)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, errorBody{Path: "progress", Message: "out_of_range"}, decodeError(t, rec))

	rec = env.do(t, http.MethodDelete, "/skills/"+created.ID, nil, cookies)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/skills/"+created.ID, nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExperiencesEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "ada@example.com", "correct horse", domain.RoleAdmin, true)
	cookies := env.login(t, "ada@example.com", "correct horse")

	rec := env.do(t, http.MethodPost, "/experiences", map[string]any{
		"position":     "Backend Engineer",
		"company":      "Acme",
		"city":         "Berlin",
		"country":      "Germany",
		"from":         "2022-03-01T00:00:00Z",
		"to":           "2024-06-30T00:00:00Z",
		"tasks":        "Built the billing pipeline.",
		"technologies": []string{"Go", "SQLite"},
	}, cookies)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Experience
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, []string{"Go", "SQLite"}, created.Technologies)

	// An end date before the start date is rejected.
	rec = env.do(t, http.MethodPost, "/experiences", map[string]any{
		"position": "Backend Engineer",
		"company":  "Acme",
		"from":     "2022-03-01T00:00:00Z",
		"to":       "2021-01-01T00:00:00Z",
	}, cookies)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, errorBody{Path: "to", Message: "before_from"}, decodeError(t, rec))

	rec = env.do(t, http.MethodGet, "/experiences/"+created.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/livez", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/readyz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "ok", health.Database)
}
