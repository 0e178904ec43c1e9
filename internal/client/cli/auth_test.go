package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/shutterpro/internal/client/client"
	"github.com/dmitrijs2005/shutterpro/internal/client/models"
	"github.com/dmitrijs2005/shutterpro/internal/client/session"
	"github.com/dmitrijs2005/shutterpro/internal/common"
	"github.com/dmitrijs2005/shutterpro/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func stubInputs(t *testing.T, text string, password []byte, yes bool) func() {
	t.Helper()
	origST, origGP, origYN := getSimpleText, getPassword, getYesNo
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return text, nil }
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		return append([]byte(nil), password...), nil
	}
	getYesNo = func(_ *bufio.Reader, _ string, _ io.Writer) (bool, error) { return yes, nil }
	return func() {
		getSimpleText = origST
		getPassword = origGP
		getYesNo = origYN
	}
}

type memStore struct{ data map[string][]byte }

func newMemStore() *memStore { return &memStore{data: make(map[string][]byte)} }

func (s *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}
func (s *memStore) Set(ctx context.Context, key string, value []byte) error {
	s.data[key] = value
	return nil
}
func (s *memStore) Delete(ctx context.Context, key string) error {
	delete(s.data, key)
	return nil
}

type memUsers struct{ list []models.UserRecord }

func (u *memUsers) List(ctx context.Context) ([]models.UserRecord, error) {
	out := make([]models.UserRecord, len(u.list))
	copy(out, u.list)
	return out, nil
}
func (u *memUsers) SaveAll(ctx context.Context, list []models.UserRecord) error {
	u.list = list
	return nil
}
func (u *memUsers) FindByEmail(ctx context.Context, email string) (*models.UserRecord, error) {
	for i := range u.list {
		if strings.EqualFold(u.list[i].Email, email) {
			r := u.list[i]
			return &r, nil
		}
	}
	return nil, common.ErrorNotFound
}

type memInvoices struct{ list []models.Invoice }

func (f *memInvoices) Add(ctx context.Context, inv *models.Invoice) error {
	f.list = append(f.list, *inv)
	return nil
}
func (f *memInvoices) GetAll(ctx context.Context) ([]models.Invoice, error) { return f.list, nil }
func (f *memInvoices) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	for i := range f.list {
		if f.list[i].ID == id {
			return &f.list[i], nil
		}
	}
	return nil, common.ErrorNotFound
}

func newTestApp(t *testing.T) (*App, *memStore, *memUsers) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	store := newMemStore()
	users := &memUsers{list: []models.UserRecord{
		{ID: "u1", Email: "anna@example.com", PasswordHash: string(hash), Name: "Anna"},
	}}
	invs := &memInvoices{}

	logger := logging.NewDiscardLogger()
	manager := session.NewManager(store, users, invs,
		session.NewLocalVerifier(users), session.BcryptHasher{}, logger)

	return &App{
		manager:  manager,
		api:      client.NewHTTPClient("http://127.0.0.1:1", time.Second),
		invoices: invs,
		reader:   bufio.NewReader(strings.NewReader("")),
	}, store, users
}

func TestLogin_Success(t *testing.T) {
	a, store, _ := newTestApp(t)

	restore := stubInputs(t, "anna@example.com", []byte("secret1"), true)
	defer restore()

	require.NoError(t, a.Login(context.Background()))
	assert.True(t, a.isLoggedIn())
	assert.NotEmpty(t, store.data[session.SessionKey])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	a, _, _ := newTestApp(t)

	restore := stubInputs(t, "anna@example.com", []byte("wrong"), false)
	defer restore()

	err := a.Login(context.Background())
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.False(t, a.isLoggedIn())
}

func TestLogout(t *testing.T) {
	a, store, _ := newTestApp(t)

	restore := stubInputs(t, "anna@example.com", []byte("secret1"), false)
	defer restore()
	require.NoError(t, a.Login(context.Background()))

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Empty(t, store.data[session.SessionKey])
}

func TestPassword_Change(t *testing.T) {
	a, _, _ := newTestApp(t)

	restore := stubInputs(t, "anna@example.com", []byte("secret1"), false)
	require.NoError(t, a.Login(context.Background()))
	restore()

	orig := getPassword
	answers := [][]byte{[]byte("secret1"), []byte("next1")}
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		pw := answers[0]
		answers = answers[1:]
		return append([]byte(nil), pw...), nil
	}
	defer func() { getPassword = orig }()

	require.NoError(t, a.Password(context.Background()))

	restore2 := stubInputs(t, "anna@example.com", []byte("next1"), false)
	defer restore2()
	require.NoError(t, a.Logout(context.Background()))
	require.NoError(t, a.Login(context.Background()))
}
