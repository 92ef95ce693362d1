package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lindasales/salespro/config"
	"github.com/lindasales/salespro/internal/adapters/cloudinary"
	redisadapter "github.com/lindasales/salespro/internal/adapters/redis"
	"github.com/lindasales/salespro/internal/core"
	"github.com/lindasales/salespro/internal/data"
	"github.com/lindasales/salespro/internal/domain/session"
	"github.com/lindasales/salespro/internal/observability/metrics"
	"github.com/lindasales/salespro/internal/ports"
	"github.com/lindasales/salespro/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
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

	Profiles core.ProfileRepository
	Broker   *session.Broker
	Metrics  *metrics.Collector
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires repositories, adapters, and services together.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Repositories
	profileRepo := data.NewProfileRepo(deps.DB)
	credentialRepo := data.NewCredentialRepo(deps.DB)
	leadRepo := data.NewLeadRepo(deps.DB)
	customerRepo := data.NewCustomerRepo(deps.DB)
	offerRepo := data.NewOfferRepo(deps.DB)
	appointmentRepo := data.NewAppointmentRepo(deps.DB)
	messageRepo := data.NewMessageRepo(deps.DB)

	// Redis-backed stores
	sessionStore := redisadapter.NewSessionStore(deps.RedisClient)
	notificationStore := redisadapter.NewNotificationStoreWithTTL(deps.RedisClient, cfg.Redis.NotificationTTL)

	notifier := service.NewNotificationService(service.NotificationServiceOptions{
		Store:  notificationStore,
		Logger: logger,
	})

	provider, err := BuildFederatedProvider(cfg, logger)
	if err != nil {
		return nil, err
	}

	var uploader ports.Uploader
	if cfg.Uploads.UploadURL != "" {
		client, uploadErr := cloudinary.NewClient(cloudinary.Config{
			UploadURL:    cfg.Uploads.UploadURL,
			UploadPreset: cfg.Uploads.UploadPreset,
			Timeout:      cfg.Uploads.Timeout,
		})
		if uploadErr != nil {
			return nil, fmt.Errorf("init uploader: %w", uploadErr)
		}
		uploader = client
	}

	broker := session.NewBroker()

	auth := service.NewAuthService(service.AuthServiceOptions{
		Provider:    provider,
		Sessions:    sessionStore,
		Credentials: credentialRepo,
		Profiles:    profileRepo,
		Uploader:    uploader,
		Notifier:    notifier,
		Events:      broker,
		Logger:      logger,
		SessionTTL:  cfg.Auth.SessionTTL,
		BcryptCost:  cfg.Auth.BcryptCost,
	})

	watcher := service.NewSessionWatcher(service.SessionWatcherOptions{
		Events:   broker,
		Profiles: profileRepo,
		Notifier: notifier,
		Logger:   logger,
	})

	shell := service.NewShellService(service.ShellServiceOptions{
		Auth:     auth,
		Notifier: notifier,
		Logger:   logger,
	})

	leadGen, err := service.NewLeadGenService(service.LeadGenServiceOptions{
		LeadRepo: leadRepo,
		Mapping: service.CaptureMapping{
			Name:   cfg.LeadGen.NameExpr,
			Email:  cfg.LeadGen.EmailExpr,
			Phone:  cfg.LeadGen.PhoneExpr,
			Source: cfg.LeadGen.SourceExpr,
		},
		Notifier: notifier,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init lead-gen service: %w", err)
	}

	container := &ServiceContainer{
		Auth:          auth,
		Shell:         shell,
		Watcher:       watcher,
		Notifications: notifier,
		Leads:         service.NewLeadService(service.LeadServiceOptions{LeadRepo: leadRepo, Notifier: notifier}),
		Customers: service.NewCustomerService(service.CustomerServiceOptions{
			CustomerRepo: customerRepo,
			LeadRepo:     leadRepo,
			Notifier:     notifier,
		}),
		Offers: service.NewOfferService(service.OfferServiceOptions{OfferRepo: offerRepo, Notifier: notifier}),
		Appointments: service.NewAppointmentService(service.AppointmentServiceOptions{
			AppointmentRepo: appointmentRepo,
			Notifier:        notifier,
		}),
		Messages: service.NewMessageService(service.MessageServiceOptions{MessageRepo: messageRepo}),
		LeadGen:  leadGen,
		Profiles: profileRepo,
		Broker:   broker,
	}
	if cfg.MetricsEnabled {
		container.Metrics = metrics.NewCollector()
	}
	return container, nil
}

// Start begins the background session watcher.
func (c *ServiceContainer) Start(ctx context.Context) {
	c.Watcher.Start(ctx)
}

// Stop shuts background workers down and closes the event broker. The
// timeout bounds how long we wait for the watcher to drain.
func (c *ServiceContainer) Stop(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		c.Watcher.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
	c.Broker.Close()
}
