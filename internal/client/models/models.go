// Package models defines the client-side data model: the persisted session,
// locally stored user records, and invoices.
package models

import "time"

// Session is the persisted proof that a user is currently authenticated.
// It is a denormalized view over one UserRecord plus login metadata; the
// profile fields are a snapshot and the UserRecord stays authoritative.
//
// UserID, LoginTime and RememberMe are fixed at creation; only the profile
// snapshot is rewritten afterwards (on profile updates).
type Session struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Company    string    `json:"company"`
	Phone      string    `json:"phone"`
	LoginTime  time.Time `json:"login_time"`
	RememberMe bool      `json:"remember_me"`
}

// UserRecord is one registered account as stored in the credential store.
// PasswordHash is a bcrypt hash; the plaintext never leaves the login prompt.
type UserRecord struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash,omitempty"`
	Name         string `json:"name"`
	Company      string `json:"company"`
	Phone        string `json:"phone"`
}

// ProfilePatch is a field-level merge applied to a UserRecord and its
// session snapshot. Nil fields are left untouched.
type ProfilePatch struct {
	Email   *string
	Name    *string
	Company *string
	Phone   *string
}

// IsEmpty reports whether the patch would change nothing.
func (p ProfilePatch) IsEmpty() bool {
	return p.Email == nil && p.Name == nil && p.Company == nil && p.Phone == nil
}

// ApplyToUser merges the patch into a user record.
func (p ProfilePatch) ApplyToUser(u *UserRecord) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Company != nil {
		u.Company = *p.Company
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
}

// ApplyToSession merges the patch into a session snapshot.
func (p ProfilePatch) ApplyToSession(s *Session) {
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Company != nil {
		s.Company = *p.Company
	}
	if p.Phone != nil {
		s.Phone = *p.Phone
	}
}

// Invoice statuses tracked by the stats aggregation.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
)

// Invoice is one issued invoice. Total is stored as the user typed it
// ("$120.50", "1,200", …); ParseAmount normalizes it for aggregation.
type Invoice struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Client    string    `json:"client"`
	Total     string    `json:"total"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// UserStats aggregates the invoices belonging to one user.
type UserStats struct {
	TotalInvoices   int     `json:"total_invoices"`
	TotalRevenue    float64 `json:"total_revenue"`
	PendingInvoices int     `json:"pending_invoices"`
	PaidInvoices    int     `json:"paid_invoices"`
}
