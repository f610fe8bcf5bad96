// Package httpapi is the backend's REST surface: a chi router under /api
// that speaks the {success, data, error} envelope the console expects.
package httpapi

import (
	"context"
	"net/http"
	"time"

	wire "github.com/dmitrijs2005/salonadmin/internal/client/models"
	"github.com/dmitrijs2005/salonadmin/internal/logging"
	"github.com/dmitrijs2005/salonadmin/internal/server/auth"
	"github.com/dmitrijs2005/salonadmin/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type UserService interface {
	Register(ctx context.Context, req wire.RegisterRequest) (*wire.AuthResult, error)
	Login(ctx context.Context, email, password string) (*wire.AuthResult, error)
	Profile(ctx context.Context, p auth.Principal) (*wire.Identity, error)
	UpdateProfile(ctx context.Context, p auth.Principal, upd wire.ProfileUpdate) (*wire.Identity, error)
}

type TenantService interface {
	List(ctx context.Context, p auth.Principal) ([]*models.Tenant, error)
	Get(ctx context.Context, p auth.Principal, id string) (*models.Tenant, error)
	Create(ctx context.Context, p auth.Principal, in wire.TenantInput) (*models.Tenant, error)
	Update(ctx context.Context, p auth.Principal, id string, patch wire.TenantPatch) (*models.Tenant, error)
	Delete(ctx context.Context, p auth.Principal, id string) error
}

// RouterConfig holds the router's collaborators.
type RouterConfig struct {
	Logger          logging.Logger
	Users           UserService
	Tenants         TenantService
	SecretKey       []byte
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

type handler struct {
	logger  logging.Logger
	users   UserService
	tenants TenantService
}

// NewRouter creates the HTTP handler with every route registered.
func NewRouter(cfg RouterConfig) http.Handler {
	h := &handler{logger: cfg.Logger, users: cfg.Users, tenants: cfg.Tenants}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(Recover(cfg.Logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeData(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(cfg.LoginRateLimit, cfg.LoginRateWindow, cfg.Logger))
			r.Post("/auth/login", h.login)
			r.Post("/auth/register", h.register)
		})

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(cfg.SecretKey))

			r.Get("/auth/profile", h.getProfile)
			r.Put("/auth/profile", h.updateProfile)

			r.Route("/tenants", func(r chi.Router) {
				r.Get("/", h.listTenants)
				r.Post("/", h.createTenant)
				r.Get("/{id}", h.getTenant)
				r.Put("/{id}", h.updateTenant)
				r.Delete("/{id}", h.deleteTenant)
			})
		})
	})

	return r
}

// fail writes err as an envelope. Server-side failures are logged; client
// errors are not.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "error", err, "path", r.URL.Path)
	}
	writeError(w, status, code, msg)
}

func (h *handler) principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing authorization")
	}
	return p, ok
}
