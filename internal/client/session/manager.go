// Package session implements the client-side session lifecycle: loading and
// validating the persisted session, login/logout, profile and password
// changes, and per-user invoice statistics.
//
// The manager is a two-state machine. It is Authenticated while it holds an
// in-memory Session and Unauthenticated otherwise. A Session is created only
// by a successful login and destroyed by logout, expiry, or corrupt stored
// data. Navigation concerns stay outside: callers inspect IsAuthenticated
// and decide what to show.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shutterpro/internal/client/models"
	"github.com/dmitrijs2005/shutterpro/internal/common"
	"github.com/dmitrijs2005/shutterpro/internal/logging"
	"github.com/sethvargo/go-retry"
)

// SessionKey is the store key holding the serialized current session.
const SessionKey = "current_user"

// MaxSessionAge is how long a session without remember-me stays valid.
const MaxSessionAge = 24 * time.Hour

// Store is the key-value surface the manager persists sessions to.
// Get must return (nil, nil) for an absent key; Delete must be idempotent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// CredentialStore is the read/write contract over user records.
// Updates are whole-list read-modify-write with no isolation; concurrent
// writers race and the later write wins.
type CredentialStore interface {
	List(ctx context.Context) ([]models.UserRecord, error)
	SaveAll(ctx context.Context, list []models.UserRecord) error
	FindByEmail(ctx context.Context, email string) (*models.UserRecord, error)
}

// InvoiceSource is the read surface for the stats aggregation.
type InvoiceSource interface {
	GetAll(ctx context.Context) ([]models.Invoice, error)
}

// Verifier checks a credential pair and returns the matching user record
// with the secret blanked. A mismatch or an unknown email must both yield
// common.ErrInvalidCredentials.
type Verifier interface {
	Verify(ctx context.Context, email, plain string) (*models.UserRecord, error)
}

// PasswordHasher is the hash/compare pair used by the change-password flow.
// It must apply the same comparison policy as the login path.
type PasswordHasher interface {
	Hash(plain []byte) (string, error)
	Compare(hash string, plain []byte) error
}

// Manager owns the session state machine. Construct one per process with
// injected dependencies and pass it by reference; there is no global.
type Manager struct {
	store    Store
	users    CredentialStore
	invoices InvoiceSource
	verifier Verifier
	hasher   PasswordHasher
	logger   logging.Logger
	now      func() time.Time

	current *models.Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source. Tests use it to age sessions.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager wires a session manager.
func NewManager(store Store, users CredentialStore, invoices InvoiceSource,
	verifier Verifier, hasher PasswordHasher, logger logging.Logger, opts ...Option) *Manager {

	m := &Manager{
		store:    store,
		users:    users,
		invoices: invoices,
		verifier: verifier,
		hasher:   hasher,
		logger:   logger.With("module", "session"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load reads the persisted session and decides the initial state.
//
// Absent key: unauthenticated. Corrupt payload: the stored session is
// discarded and the result is unauthenticated; the parse failure is never
// surfaced. A session without remember-me older than MaxSessionAge is torn
// down the same way a logout would.
func (m *Manager) Load(ctx context.Context) error {
	raw, err := m.store.Get(ctx, SessionKey)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if raw == nil {
		m.current = nil
		return nil
	}

	var s models.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		m.logger.Warn(ctx, "stored session is corrupt, discarding", "error", err)
		return m.teardown(ctx)
	}

	if !s.RememberMe && m.now().Sub(s.LoginTime) > MaxSessionAge {
		m.logger.Info(ctx, "session expired", "user_id", s.UserID)
		return m.teardown(ctx)
	}

	m.current = &s
	return nil
}

// IsAuthenticated reports the current state. No I/O.
func (m *Manager) IsAuthenticated() bool {
	return m.current != nil
}

// CurrentUser returns a copy of the session snapshot, or nil when
// unauthenticated.
func (m *Manager) CurrentUser() *models.Session {
	if m.current == nil {
		return nil
	}
	s := *m.current
	return &s
}

// Login verifies the credentials and, on success, creates and persists a new
// session. On a mismatch the state is unchanged and
// common.ErrInvalidCredentials is returned.
func (m *Manager) Login(ctx context.Context, email, plain string, rememberMe bool) error {
	user, err := m.verifier.Verify(ctx, email, plain)
	if err != nil {
		return err
	}

	s := &models.Session{
		UserID:     user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Company:    user.Company,
		Phone:      user.Phone,
		LoginTime:  m.now(),
		RememberMe: rememberMe,
	}
	if err := m.persist(ctx, s); err != nil {
		return err
	}

	m.current = s
	m.logger.Info(ctx, "login successful", "user_id", s.UserID)
	return nil
}

// Logout clears the in-memory session and deletes the stored one. Calling it
// while already unauthenticated is a no-op, not an error.
func (m *Manager) Logout(ctx context.Context) error {
	return m.teardown(ctx)
}

// UpdateProfile applies a field-level merge to the user record and then to
// the session snapshot. The two writes are not atomic: the credential write
// lands first and stands even if the session write keeps failing after
// retries, in which case the error is surfaced and the in-memory snapshot is
// already refreshed.
func (m *Manager) UpdateProfile(ctx context.Context, patch models.ProfilePatch) error {
	if m.current == nil {
		return common.ErrNotAuthenticated
	}

	list, err := m.users.List(ctx)
	if err != nil {
		return err
	}
	idx := m.indexOfCurrent(list)
	if idx < 0 {
		return common.ErrUserNotFound
	}

	patch.ApplyToUser(&list[idx])
	if err := m.users.SaveAll(ctx, list); err != nil {
		return fmt.Errorf("failed to save user records: %w", err)
	}

	updated := *m.current
	patch.ApplyToSession(&updated)
	m.current = &updated

	backoff := retry.WithMaxRetries(2, retry.NewConstant(50*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		return retry.RetryableError(m.persist(ctx, &updated))
	})
	if err != nil {
		m.logger.Error(ctx, "profile saved but session snapshot write failed", "error", err)
		return fmt.Errorf("%w: session snapshot not persisted", common.ErrStorageUnavailable)
	}
	return nil
}

// ChangePassword verifies the current password with the same policy as login
// and replaces the stored hash. The active session is not rotated.
func (m *Manager) ChangePassword(ctx context.Context, current, next string) error {
	if m.current == nil {
		return common.ErrNotAuthenticated
	}

	list, err := m.users.List(ctx)
	if err != nil {
		return err
	}
	idx := m.indexOfCurrent(list)
	if idx < 0 {
		return common.ErrUserNotFound
	}

	if err := m.hasher.Compare(list[idx].PasswordHash, []byte(current)); err != nil {
		return err
	}

	hash, err := m.hasher.Hash([]byte(next))
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	list[idx].PasswordHash = hash
	if err := m.users.SaveAll(ctx, list); err != nil {
		return fmt.Errorf("failed to save user records: %w", err)
	}

	m.logger.Info(ctx, "password changed", "user_id", m.current.UserID)
	return nil
}

// UserStats aggregates the invoices belonging to the session user. Malformed
// totals contribute zero; a single bad record never aborts the aggregation.
func (m *Manager) UserStats(ctx context.Context) (*models.UserStats, error) {
	if m.current == nil {
		return nil, common.ErrNotAuthenticated
	}

	all, err := m.invoices.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}

	stats := &models.UserStats{}
	for _, inv := range all {
		if inv.UserID != m.current.UserID {
			continue
		}
		stats.TotalInvoices++
		stats.TotalRevenue += models.ParseAmount(inv.Total)
		switch inv.Status {
		case models.InvoiceStatusPending:
			stats.PendingInvoices++
		case models.InvoiceStatusPaid:
			stats.PaidInvoices++
		}
	}
	return stats, nil
}

func (m *Manager) indexOfCurrent(list []models.UserRecord) int {
	for i := range list {
		if list[i].ID == m.current.UserID {
			return i
		}
	}
	return -1
}

func (m *Manager) persist(ctx context.Context, s *models.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.store.Set(ctx, SessionKey, raw); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (m *Manager) teardown(ctx context.Context) error {
	m.current = nil
	if err := m.store.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
