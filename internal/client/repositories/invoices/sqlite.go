// Package invoices stores the locally kept invoice collection read by the
// session layer's stats aggregation.
package invoices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shutterpro/internal/client/models"
	"github.com/dmitrijs2005/shutterpro/internal/common"
	"github.com/dmitrijs2005/shutterpro/internal/dbx"
)

// Repository is the invoice persistence contract used by the client.
type Repository interface {
	Add(ctx context.Context, inv *models.Invoice) error
	GetAll(ctx context.Context) ([]models.Invoice, error)
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
}

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Add upserts an invoice by id. On conflict, mutable columns are updated.
func (r *SQLiteRepository) Add(ctx context.Context, inv *models.Invoice) error {
	query := `INSERT INTO invoices (id, user_id, client, total, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET client = excluded.client,
				total = excluded.total,
				status = excluded.status
	`
	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.UserID, inv.Client, inv.Total, inv.Status, inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert invoice: %w", err)
	}
	return nil
}

// GetAll lists every stored invoice.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Invoice, error) {
	query := `SELECT id, user_id, client, total, status, created_at FROM invoices`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select invoices: %w", err)
	}
	defer rows.Close()

	var result []models.Invoice
	for rows.Next() {
		var item models.Invoice
		if err := rows.Scan(&item.ID, &item.UserID, &item.Client, &item.Total, &item.Status, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns a single invoice, or common.ErrorNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	query := `SELECT id, user_id, client, total, status, created_at FROM invoices WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	inv := &models.Invoice{}
	if err := row.Scan(&inv.ID, &inv.UserID, &inv.Client, &inv.Total, &inv.Status, &inv.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return inv, nil
}
