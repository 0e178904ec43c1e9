package invoices

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/shutterpro/internal/client/models"
	"github.com/dmitrijs2005/shutterpro/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE invoices (
  id         TEXT PRIMARY KEY,
  user_id    TEXT NOT NULL,
  client     TEXT NOT NULL DEFAULT '',
  total      TEXT NOT NULL DEFAULT '',
  status     TEXT NOT NULL DEFAULT 'pending',
  created_at TIMESTAMP NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func sampleInvoice(id, userID string) *models.Invoice {
	return &models.Invoice{
		ID:        id,
		UserID:    userID,
		Client:    "ACME Ltd",
		Total:     "$120.50",
		Status:    models.InvoiceStatusPaid,
		CreatedAt: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestAddAndGetAll(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Add(ctx, sampleInvoice("i1", "u1")))
	require.NoError(t, r.Add(ctx, sampleInvoice("i2", "u2")))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAdd_UpsertUpdatesMutableColumns(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	inv := sampleInvoice("i1", "u1")
	require.NoError(t, r.Add(ctx, inv))

	inv.Status = models.InvoiceStatusPending
	inv.Total = "$99"
	require.NoError(t, r.Add(ctx, inv))

	got, err := r.GetByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPending, got.Status)
	assert.Equal(t, "$99", got.Total)
	assert.Equal(t, "u1", got.UserID)
}

func TestGetByID_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetAll_EmptyTable(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	all, err := r.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
