// Package httpapi exposes the public HTTP surface of the ShutterPro server:
// login, registration, invoice dispatch, health, and Prometheus metrics.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/shutterpro/internal/logging"
	"github.com/dmitrijs2005/shutterpro/internal/metrics"
	"github.com/dmitrijs2005/shutterpro/internal/server/mailer"
	"github.com/dmitrijs2005/shutterpro/internal/server/models"
	"github.com/dmitrijs2005/shutterpro/internal/server/services"
	"github.com/gorilla/mux"
)

// userService is the slice of the user service the handlers need.
type userService interface {
	Login(ctx context.Context, email, plain string) (*services.LoginResult, error)
	Register(ctx context.Context, email, plain, name, company, phone string) (*models.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
}

// mailSender delivers one outbound mail.
type mailSender interface {
	Send(ctx context.Context, mail mailer.Mail) error
}

// archiver keeps a copy of a dispatched PDF and returns its storage key.
type archiver interface {
	Store(ctx context.Context, pdf []byte) (string, error)
}

type Server struct {
	address   string
	users     userService
	mailer    mailSender
	archive   archiver
	logger    logging.Logger
	jwtSecret []byte
}

// NewServer wires the HTTP server. archive may be nil when object storage is
// not configured; dispatch then skips archiving.
func NewServer(address string, l logging.Logger, us userService, ms mailSender, ar archiver, secretKey string) *Server {
	return &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		users:     us,
		mailer:    ms,
		archive:   ar,
		jwtSecret: []byte(secretKey),
	}
}

// Router builds the route table. Split out from Run so tests can drive the
// handlers through httptest.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/api/login", s.instrument("login", http.HandlerFunc(s.handleLogin)))
	r.Handle("/api/register", s.instrument("register", http.HandlerFunc(s.handleRegister)))
	r.Handle("/api/change-password",
		s.instrument("change_password", s.requireToken(http.HandlerFunc(s.handleChangePassword))))
	r.Handle("/api/send-invoice",
		s.instrument("send_invoice", s.requireToken(http.HandlerFunc(s.handleSendInvoice))))
	r.HandleFunc("/api/ping", s.handlePing).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler())

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
