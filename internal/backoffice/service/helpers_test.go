package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
	"github.com/folioworks/backoffice/internal/backoffice/mail"
	"github.com/folioworks/backoffice/internal/backoffice/store"
	"github.com/folioworks/backoffice/internal/backoffice/store/drivers/sqlite"
	"github.com/folioworks/backoffice/pkg/cryptox"
	"github.com/folioworks/backoffice/pkg/idx"
	"github.com/folioworks/backoffice/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// testBcryptCost keeps hashing fast in tests.
const testBcryptCost = 4

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// testClock is a mutable clock shared between the codec and the
// services under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Now().UTC()}
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

func newTestCodec(t *testing.T, clock *testClock) *jwtx.Codec {
	t.Helper()

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
	return codec
}

func seedAdmin(t *testing.T, st store.Store, email, password string, role domain.Role, active bool) domain.Admin {
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
	require.NoError(t, st.Admins().CreateAdmin(context.Background(), admin))
	return admin
}

// captureMailer records outbound messages so tests can pull the reset
// secret out of the emailed link.
type captureMailer struct {
	mu   sync.Mutex
	msgs []mail.Message
}

func (m *captureMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *captureMailer) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.msgs...)
}

// lastResetSecret extracts the secret from the newest reset email's
// set-password link.
func (m *captureMailer) lastResetSecret(t *testing.T) string {
	t.Helper()

	msgs := m.messages()
	require.NotEmpty(t, msgs)

	for _, line := range strings.Split(msgs[len(msgs)-1].Text, "\n") {
		if !strings.Contains(line, "/set-password/") {
			continue
		}
		parts := strings.Split(strings.TrimSpace(line), "/")
		return parts[len(parts)-1]
	}

	t.Fatal("no set-password link in reset email")
	return ""
}

func requireDomainErr(t *testing.T, err error, status int, path string) {
	t.Helper()

	appErr, ok := domain.AsError(err)
	require.True(t, ok, "expected a domain error, got %v", err)
	require.Equal(t, status, appErr.Status)
	require.Equal(t, path, appErr.Path)
}
