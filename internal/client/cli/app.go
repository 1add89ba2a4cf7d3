package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/snappy/internal/client/client"
	"github.com/dmitrijs2005/snappy/internal/client/config"
	"github.com/dmitrijs2005/snappy/internal/client/identity"
	"github.com/dmitrijs2005/snappy/internal/client/services"
	"github.com/dmitrijs2005/snappy/internal/logging"

	_ "modernc.org/sqlite"
)

// maxHops bounds how many redirects one command may trigger. Guard
// redirects settle in at most two.
const maxHops = 4

// App is the interactive terminal client. It is the presentation layer for
// the services: it implements their Navigator, Notifier and ContactPublisher
// ports and renders the active screen.
type App struct {
	config *config.Config
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer
	db     *sql.DB

	authService services.AuthService
	guard       *services.SessionGuard
	contacts    *services.ContactSync
	avatars     *services.AvatarProvisioning

	mu       sync.Mutex
	route    services.Route
	pending  services.Route
	userName string
}

// NewApp opens the local database, builds the HTTP client and wires the
// services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(client.HTTPConfig{
		ServerURL:    c.ServerURL,
		AvatarAPIURL: c.AvatarAPIURL,
		Timeout:      c.RequestTimeout,
		Logger:       logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store := identity.NewStore(db, logger)
	a := newApp(c, logger, apiClient, apiClient, store, os.Stdin, os.Stdout)
	a.db = db
	return a, nil
}

func newApp(
	c *config.Config,
	logger logging.Logger,
	apiClient client.Client,
	generator client.AvatarGenerator,
	store *identity.Store,
	in io.Reader,
	out io.Writer,
) *App {
	a := &App{
		config: c,
		logger: logger.With("component", "cli"),
		reader: bufio.NewReader(in),
		out:    out,
	}
	a.authService = services.NewAuthService(apiClient, store, logger)
	a.guard = services.NewSessionGuard(store, a, logger)
	a.contacts = services.NewContactSync(apiClient, a, a, logger)
	a.avatars = services.NewAvatarProvisioning(apiClient, generator, store, a, a, logger)
	return a
}

// Run opens the main screen (the guard sends the user wherever the stored
// identity allows) and serves commands until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer func() {
		_ = a.authService.Close(ctx)
		if a.db != nil {
			_ = a.db.Close()
		}
	}()

	printlnFn("Welcome to Snappy (type 'help' for commands)")
	a.GoTo(services.RouteMain)
	a.settle(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := string(a.route)
	if a.userName != "" {
		s = a.userName + " " + s
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) currentRoute() services.Route {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.route
}
