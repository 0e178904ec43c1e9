// Package server initializes and runs the ShutterPro backend. It opens the
// database, applies migrations, wires the mailer and object storage, handles
// graceful shutdown, and starts the HTTP server.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/shutterpro/internal/logging"
	"github.com/dmitrijs2005/shutterpro/internal/server/archive"
	"github.com/dmitrijs2005/shutterpro/internal/server/config"
	"github.com/dmitrijs2005/shutterpro/internal/server/httpapi"
	"github.com/dmitrijs2005/shutterpro/internal/server/mailer"
	"github.com/dmitrijs2005/shutterpro/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/shutterpro/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *services.UserService
	mailer      *mailer.SMTPMailer
	archive     *archive.S3Archive
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	us := services.NewUserService(db, rm, c)
	ms := mailer.NewSMTPMailer(c.SMTPAddr, c.SMTPFrom, c.SMTPUser, c.SMTPPassword)

	ar, err := archive.NewS3Archive(context.Background(), c)
	if err != nil {
		logger.Warn(context.Background(), "object storage unavailable, archiving disabled", "error", err)
		ar = nil
	}

	return &App{config: c, logger: logger, userService: us, mailer: ms, archive: ar}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	// a typed nil must not end up behind the archiver interface
	var s *httpapi.Server
	if app.archive != nil {
		s = httpapi.NewServer(app.config.EndpointAddr, app.logger, app.userService,
			app.mailer, app.archive, app.config.SecretKey)
	} else {
		s = httpapi.NewServer(app.config.EndpointAddr, app.logger, app.userService,
			app.mailer, nil, app.config.SecretKey)
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
