package cli

import (
	"bufio"
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/shutterpro/internal/client/client"
	"github.com/dmitrijs2005/shutterpro/internal/client/config"
	"github.com/dmitrijs2005/shutterpro/internal/client/repositories/invoices"
	"github.com/dmitrijs2005/shutterpro/internal/client/session"
	"github.com/dmitrijs2005/shutterpro/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

type App struct {
	config   *config.Config
	manager  *session.Manager
	api      *client.HTTPClient
	invoices invoices.Repository
	reader   *bufio.Reader

	// mode is written by the online status watcher goroutine and read by
	// the REPL prompt, so access goes through setMode/currentMode.
	mu   sync.Mutex
	mode Mode
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {

	ctx := context.Background()

	repos, err := client.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	api := client.NewHTTPClient(c.ServerEndpointAddr, 10*time.Second)

	verifier := session.NewFallbackVerifier(api, session.NewLocalVerifier(repos.Users), logger)
	manager := session.NewManager(repos.Sessions, repos.Users, repos.Invoices,
		verifier, session.BcryptHasher{}, logger)

	if err := manager.Load(ctx); err != nil {
		return nil, err
	}

	return &App{
		config:   c,
		manager:  manager,
		api:      api,
		invoices: repos.Invoices,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	if changed {
		a.mode = mode
	}
	a.mu.Unlock()
	if changed {
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) Run(ctx context.Context) {
	defer a.api.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.manager.IsAuthenticated()
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.api.Ping(ctx)
			cancel()

			if err != nil {
				if a.currentMode() == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.currentMode() != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
