package httpx

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/lindasales/salespro/internal/core"
	"github.com/lindasales/salespro/internal/observability/metrics"
	"github.com/lindasales/salespro/internal/service"
)

//go:embed static
var staticFS embed.FS

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth          *service.AuthService
	Shell         *service.ShellService
	Watcher       *service.SessionWatcher
	Notifications *service.NotificationService
	Leads         *service.LeadService
	Customers     *service.CustomerService
	Offers        *service.OfferService
	Appointments  *service.AppointmentService
	Messages      *service.MessageService
	LeadGen       *service.LeadGenService
	Profiles      core.ProfileRepository

	CookieDomain string
	CallbackURL  string

	// Optional: health probes for the readiness endpoint.
	DB    Pinger
	Cache Pinger

	// Optional: Prometheus collector. If nil, no /metrics route is mounted.
	Metrics *metrics.Collector

	// Optional: rate limit applied to credential endpoints.
	AuthRateLimit *RateLimitConfig

	Logger *slog.Logger
}

// NewRouter creates and configures the HTTP router for the dashboard and API.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer, err := NewPageRenderer(logger)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		Shell:        services.Shell,
		Metrics:      services.Metrics,
		CookieDomain: services.CookieDomain,
		CallbackURL:  services.CallbackURL,
		Logger:       logger,
	}
	pageHandlers := &PageHandlers{Renderer: renderer}
	shellHandlers := &ShellHandlers{Shell: services.Shell, Watcher: services.Watcher}
	profileHandlers := &ProfileHandlers{Watcher: services.Watcher, Profiles: services.Profiles}
	notificationHandlers := &NotificationHandlers{Svc: services.Notifications}
	healthHandlers := &HealthHandlers{DB: services.DB, Cache: services.Cache}

	registerAuthRoutes(mux, authHandlers, services.AuthRateLimit)
	registerPageRoutes(mux, pageHandlers)
	registerAPIRoutes(mux, RouterHandlers{
		Shell:         shellHandlers,
		Profile:       profileHandlers,
		Notifications: notificationHandlers,
		Leads:         &LeadHandlers{Svc: services.Leads},
		Customers:     &CustomerHandlers{Svc: services.Customers},
		Offers:        &OfferHandlers{Svc: services.Offers},
		Appointments:  &AppointmentHandlers{Svc: services.Appointments},
		Messages:      &MessageHandlers{Svc: services.Messages},
		LeadGen:       &LeadGenHandlers{Svc: services.LeadGen, Metrics: services.Metrics, Logger: logger},
	})

	mux.HandleFunc("GET /healthz", healthHandlers.Live)
	mux.HandleFunc("HEAD /healthz", healthHandlers.Live)
	mux.HandleFunc("GET /readyz", healthHandlers.Ready)
	if services.Metrics != nil {
		mux.Handle("GET /metrics", services.Metrics.Handler())
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	var handler http.Handler = mux
	handler = Guard(services.Auth)(handler)
	if services.Metrics != nil {
		handler = services.Metrics.Middleware(handler)
	}
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler, nil
}

// RouterHandlers groups the authenticated API handlers for registration.
type RouterHandlers struct {
	Shell         *ShellHandlers
	Profile       *ProfileHandlers
	Notifications *NotificationHandlers
	Leads         *LeadHandlers
	Customers     *CustomerHandlers
	Offers        *OfferHandlers
	Appointments  *AppointmentHandlers
	Messages      *MessageHandlers
	LeadGen       *LeadGenHandlers
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, rl *RateLimitConfig) {
	limit := func(fn http.HandlerFunc) http.Handler {
		if rl == nil {
			return fn
		}
		return RateLimit(*rl)(fn)
	}

	mux.Handle("POST /api/auth/login", limit(h.PasswordLogin))
	mux.Handle("POST /api/auth/signup", limit(h.Signup))
	mux.HandleFunc("GET /api/auth/session", h.Session)
	mux.HandleFunc("GET /auth/login", h.FederatedLogin)
	mux.HandleFunc("GET /auth/callback", h.FederatedCallback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
}

func registerPageRoutes(mux *http.ServeMux, h *PageHandlers) {
	mux.HandleFunc("GET /login", h.Login)
	mux.HandleFunc("GET /{$}", h.App("home", "Dashboard"))
	mux.HandleFunc("GET /leads", h.App("leads", "Leads"))
	mux.HandleFunc("GET /customers", h.App("customers", "Customers"))
	mux.HandleFunc("GET /lead-gen", h.App("lead-gen", "Lead Generation"))
	mux.HandleFunc("GET /messaging", h.App("messaging", "Messaging"))
	mux.HandleFunc("GET /appointments", h.App("appointments", "Appointments"))
	mux.HandleFunc("GET /sell", h.App("sell", "Sell Online"))
	mux.HandleFunc("GET /help", h.App("help", "Help Center"))
	mux.HandleFunc("GET /settings", h.App("settings", "Settings"))
	// Unknown paths fall back to the shell so the client router can show its
	// own not-found view.
	mux.HandleFunc("GET /", h.App("home", "Dashboard"))
}

func registerAPIRoutes(mux *http.ServeMux, h RouterHandlers) {
	mux.HandleFunc("GET /api/shell", h.Shell.State)
	mux.HandleFunc("POST /api/shell/sidebar/toggle", h.Shell.ToggleSidebar)
	mux.HandleFunc("POST /api/shell/sidebar/close", h.Shell.CloseSidebar)

	mux.HandleFunc("GET /api/profile", h.Profile.Get)
	mux.HandleFunc("GET /api/notifications", h.Notifications.Pending)

	mux.HandleFunc("POST /api/leads", h.Leads.Create)
	mux.HandleFunc("GET /api/leads", h.Leads.List)
	mux.HandleFunc("GET /api/leads/{id}", h.Leads.GetByID)
	mux.HandleFunc("PUT /api/leads/{id}", h.Leads.Update)
	mux.HandleFunc("DELETE /api/leads/{id}", h.Leads.Delete)
	mux.HandleFunc("POST /api/leads/{id}/promote", h.Customers.Promote)

	mux.HandleFunc("POST /api/customers", h.Customers.Create)
	mux.HandleFunc("GET /api/customers", h.Customers.List)
	mux.HandleFunc("GET /api/customers/{id}", h.Customers.GetByID)
	mux.HandleFunc("PUT /api/customers/{id}", h.Customers.Update)
	mux.HandleFunc("DELETE /api/customers/{id}", h.Customers.Delete)

	mux.HandleFunc("POST /api/offers", h.Offers.Create)
	mux.HandleFunc("GET /api/offers", h.Offers.List)
	mux.HandleFunc("GET /api/offers/{id}", h.Offers.GetByID)
	mux.HandleFunc("PUT /api/offers/{id}", h.Offers.Update)
	mux.HandleFunc("DELETE /api/offers/{id}", h.Offers.Delete)

	mux.HandleFunc("POST /api/appointments", h.Appointments.Create)
	mux.HandleFunc("GET /api/appointments", h.Appointments.List)
	mux.HandleFunc("GET /api/appointments/{id}", h.Appointments.GetByID)
	mux.HandleFunc("PUT /api/appointments/{id}", h.Appointments.Update)
	mux.HandleFunc("DELETE /api/appointments/{id}", h.Appointments.Delete)

	mux.HandleFunc("POST /api/messages", h.Messages.Send)
	mux.HandleFunc("GET /api/messages/contacts", h.Messages.Contacts)
	mux.HandleFunc("GET /api/messages/{contact}", h.Messages.Thread)

	mux.HandleFunc("POST /api/lead-gen/capture", h.LeadGen.Capture)
}
