package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/salonadmin/internal/client/client"
	"github.com/dmitrijs2005/salonadmin/internal/client/config"
	"github.com/dmitrijs2005/salonadmin/internal/client/gateway"
	"github.com/dmitrijs2005/salonadmin/internal/client/guard"
	"github.com/dmitrijs2005/salonadmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/salonadmin/internal/client/session"
	"github.com/dmitrijs2005/salonadmin/internal/client/tenants"
	"github.com/dmitrijs2005/salonadmin/internal/filex"
	"github.com/dmitrijs2005/salonadmin/internal/logging"
	"golang.org/x/time/rate"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	api     client.Client
	session *session.Store
	tenants *tenants.Store
	out     *Printer
	reader  *bufio.Reader

	mu    sync.RWMutex
	route guard.Route
	mode  Mode
}

// NewApp opens local storage and wires the gateway, the API client and both
// stores.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if c.StoragePath != ":memory:" && !strings.HasPrefix(c.StoragePath, "file:") {
		if _, err := filex.EnsureParentDir(c.StoragePath); err != nil {
			return nil, fmt.Errorf("prepare local storage: %w", err)
		}
	}
	db, err := metadata.OpenSQLite(ctx, c.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	gw, err := gateway.New(c.APIBaseURL,
		gateway.WithTimeout(c.RequestTimeout),
		gateway.WithLogger(logger),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	out := NewPrinter(os.Stdout, os.Stderr, ResolveColors())
	a := newApp(c, logger, client.NewRESTClient(gw), metadata.NewSQLiteRepository(db), out, bufio.NewReader(os.Stdin))
	a.db = db

	ics := []gateway.Interceptor{gateway.Logging(logger)}
	if c.RateLimit > 0 {
		ics = append(ics, gateway.RateLimit(rate.NewLimiter(rate.Limit(c.RateLimit), 1)))
	}
	// BearerToken must run before SessionExpiry so the hook sees the presented token.
	ics = append(ics, gateway.BearerToken(a.session), gateway.SessionExpiry(a.session.Expire))
	gw.Use(ics...)

	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, api client.Client, repo metadata.Repository, out *Printer, reader *bufio.Reader) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	a := &App{
		config: c,
		logger: logger.With("module", "console"),
		api:    api,
		out:    out,
		reader: reader,
		route:  guard.RouteLogin,
	}
	a.session = session.NewStore(api, repo, a, logger)
	a.tenants = tenants.NewStore(api, repo, logger)
	return a
}

// Run restores the previous session, starts the connectivity watcher and
// blocks in the REPL until the user exits or ctx ends.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	a.out.Info("Salon admin console (type 'help' for commands)")
	a.start(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

// start restores a stored session and opens the first view.
func (a *App) start(ctx context.Context) {
	if err := a.session.Restore(ctx); err != nil {
		a.logger.Info(ctx, "stored session not restored", "error", err)
		a.out.Warning("Your previous session could not be restored, please log in.")
	}
	if a.isLoggedIn() {
		a.afterSignIn(ctx)
		return
	}
	a.setRoute(guard.RouteLogin)
}

func (a *App) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error(context.Background(), "close local storage", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// Navigate is called by the session store when the server rejects the
// current token.
func (a *App) Navigate(ctx context.Context, route guard.Route) {
	if route == guard.RouteLogin {
		a.tenants.Reset()
		a.out.Warning("Your session has expired, please log in again.")
	}
	a.setRoute(route)
}

func (a *App) setRoute(r guard.Route) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.route = r
}

func (a *App) currentRoute() guard.Route {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.route
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", mode)
	}
}

func (a *App) currentMode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

// getStatus renders the prompt prefix: user, tenant, mode and view.
func (a *App) getStatus() string {
	s := ""
	if id := a.session.Identity(); id != nil {
		s = id.Email
		if t := a.tenants.Current(); t != nil {
			s += "@" + t.Name
		}
		s += " "
	}
	if m := a.currentMode(); m != "" {
		s += string(m) + " "
	}
	return fmt.Sprintf("(%s%s)", s, a.currentRoute())
}

// StartOnlineStatusWatcher probes the backend every interval and flips the
// connectivity mode shown in the prompt.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := a.api.Ping(pctx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

func (a *App) stdout() io.Writer { return a.out.Writer() }
