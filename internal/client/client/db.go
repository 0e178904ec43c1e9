package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/shutterpro/internal/client/migrations"
	"github.com/dmitrijs2005/shutterpro/internal/client/repositories/invoices"
	"github.com/dmitrijs2005/shutterpro/internal/client/repositories/sessionstore"
	"github.com/dmitrijs2005/shutterpro/internal/client/repositories/users"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Repositories bundles the local storage surfaces the CLI works with.
type Repositories struct {
	Sessions sessionstore.Repository
	Users    users.Repository
	Invoices invoices.Repository
}

// RunMigrations applies the embedded migrations to the given database.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the local SQLite database, migrates it and returns the
// repositories on top of it.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	kv := sessionstore.NewSQLiteRepository(db)
	repos := &Repositories{
		Sessions: kv,
		Users:    users.NewLocalRepository(kv),
		Invoices: invoices.NewSQLiteRepository(db),
	}
	return repos, nil
}
