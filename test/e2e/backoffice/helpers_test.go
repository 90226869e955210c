package backoffice_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
	backofficehttp "github.com/folioworks/backoffice/internal/backoffice/http"
	"github.com/folioworks/backoffice/internal/backoffice/mail"
	"github.com/folioworks/backoffice/internal/backoffice/service"
	"github.com/folioworks/backoffice/internal/backoffice/store"
	"github.com/folioworks/backoffice/internal/backoffice/store/drivers/sqlite"
	"github.com/folioworks/backoffice/pkg/cryptox"
	"github.com/folioworks/backoffice/pkg/idx"
	"github.com/folioworks/backoffice/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

/*
 * Common helpers for backoffice end-to-end tests. The service runs
 * in-process behind a TLS test server so the http cookie jar carries
 * the Secure token cookies exactly like a browser would.
 */

const (
	bcryptCost = 4

	rootEmail    = "root@example.com"
	rootPassword = "Root-Passw0rd!"

	adminEmail    = "ada@example.com"
	adminPassword = "Admin-Passw0rd!"
)

// clock is shared between the token codec and the services so tests
// can jump past the access TTL without sleeping.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type inboxMailer struct {
	mu   sync.Mutex
	msgs []mail.Message
}

func (m *inboxMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *inboxMailer) lastResetLink(t *testing.T) string {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.msgs)

	for _, line := range strings.Split(m.msgs[len(m.msgs)-1].Text, "\n") {
		if strings.Contains(line, "/set-password/") {
			return strings.TrimSpace(line)
		}
	}

	t.Fatal("no set-password link in reset email")
	return ""
}

type env struct {
	baseURL string
	client  *http.Client
	store   store.Store
	clock   *clock
	mailer  *inboxMailer
	codec   *jwtx.Codec
}

// setupServer boots the full router behind a TLS test server and hands
// back a cookie-carrying client.
func setupServer(t *testing.T) *env {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	clk := &clock{now: time.Now().UTC()}

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	codec, err := jwtx.NewCodec(jwtx.Config{
		PrivateKey: key,
		Issuer:     "backoffice-e2e",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
		Now:        clk.Now,
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mailer := &inboxMailer{}

	router := backofficehttp.NewRouter(codec, "e2e", st, logger)
	router.SessionService = &service.SessionService{Store: st, Codec: codec, Now: clk.Now}
	router.ResetTokenService = &service.ResetTokenService{
		Store:      st,
		Mailer:     mailer,
		BcryptCost: bcryptCost,
		Now:        clk.Now,
	}
	router.AdminService = &service.AdminService{Store: st, Mailer: mailer, BcryptCost: bcryptCost}
	router.SkillService = &service.SkillService{Store: st}
	router.ExperienceService = &service.ExperienceService{Store: st}
	router.ApplyRoutes()

	ts := httptest.NewTLSServer(router)
	t.Cleanup(ts.Close)

	// The reset link must point back at this server so the e2e flow can
	// follow it.
	router.ResetTokenService.FrontendURL = ts.URL

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := ts.Client()
	client.Jar = jar

	return &env{
		baseURL: ts.URL,
		client:  client,
		store:   st,
		clock:   clk,
		mailer:  mailer,
		codec:   codec,
	}
}

func (e *env) seedAdmin(t *testing.T, email, password string, role domain.Role) domain.Admin {
	t.Helper()

	hash, err := cryptox.HashPassword(password, bcryptCost)
	require.NoError(t, err)

	now := time.Now().UTC()
	admin := domain.Admin{
		ID:           idx.New().String(),
		Firstname:    "Test",
		Lastname:     "Admin",
		Nickname:     "tester",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, e.store.Admins().CreateAdmin(context.Background(), admin))
	return admin
}

// request sends one JSON request with the client's cookie jar attached.
func (e *env) request(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(t.Context(), method, e.baseURL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *env) login(t *testing.T, email, password string) {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
