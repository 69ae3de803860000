package handler

import (
	"net/http"

	"github.com/VoiceDeskAI/voice-admin-service/internal/adapters/retell"
	"github.com/VoiceDeskAI/voice-admin-service/internal/config"
	"github.com/VoiceDeskAI/voice-admin-service/internal/repository"
	"github.com/VoiceDeskAI/voice-admin-service/internal/resolver"
	"github.com/VoiceDeskAI/voice-admin-service/internal/services/booking"
	"github.com/VoiceDeskAI/voice-admin-service/internal/services/ingest"
	"github.com/VoiceDeskAI/voice-admin-service/pkg/logger"
	appredis "github.com/VoiceDeskAI/voice-admin-service/pkg/redis"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HandlerManager wires repositories, services and handlers together.
type HandlerManager struct {
	config      *config.Config
	repoManager repository.RepositoryManager
	redisSvc    *appredis.RedisService // nil when Redis is unreachable
	platform    *retell.Client

	webhookHandler      *WebhookHandler
	toolHandler         *ToolHandler
	organizationHandler *OrganizationHandler
	agentHandler        *AgentHandler
	callHandler         *CallHandler
	appointmentHandler  *AppointmentHandler
}

// NewHandlerManager creates and initializes all handlers and services.
func NewHandlerManager(cfg *config.Config) (*HandlerManager, error) {
	repoManager, err := repository.NewRepositoryManager()
	if err != nil {
		logger.Base().Error("failed to connect to database", zap.Error(err))
		return nil, err
	}

	// Redis is optional: stats caching and call-event fan-out degrade
	// gracefully without it.
	redisSvc, err := appredis.NewRedisService(&appredis.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err != nil {
		logger.Base().Warn("failed to initialize redis service, running without cache and fan-out", zap.Error(err))
		redisSvc = nil
	}

	platform := retell.NewClient(cfg.RetellBaseURL, cfg.RetellAPIKey)

	tenantResolver := resolver.NewRegistryResolver(repoManager.Agent())

	var notifier ingest.Notifier
	if redisSvc != nil {
		notifier = ingest.NewRedisNotifier(redisSvc)
	}
	ingestSvc := ingest.NewService(tenantResolver, repoManager.CallRecord(), notifier)
	bookingSvc := booking.NewService(tenantResolver, repoManager.Appointment())

	var redisIface appredis.RedisServiceInterface
	if redisSvc != nil {
		redisIface = redisSvc
	}

	return &HandlerManager{
		config:              cfg,
		repoManager:         repoManager,
		redisSvc:            redisSvc,
		platform:            platform,
		webhookHandler:      NewWebhookHandler(ingestSvc),
		toolHandler:         NewToolHandler(bookingSvc),
		organizationHandler: NewOrganizationHandler(repoManager.Organization()),
		agentHandler:        NewAgentHandler(repoManager.Agent(), repoManager.Organization(), platform),
		callHandler:         NewCallHandler(repoManager.CallRecord(), platform, redisIface),
		appointmentHandler:  NewAppointmentHandler(repoManager.Appointment()),
	}, nil
}

// SetupAllRoutes registers every route on the router.
func (m *HandlerManager) SetupAllRoutes(router *mux.Router) {
	router.Use(LoggingMiddleware)
	if m.config.EnableCORS {
		router.Use(CORSMiddleware)
	}

	router.HandleFunc("/health", m.handleHealth).Methods("GET")

	// Inbound endpoints called by the voice platform. No API key: the
	// platform signs nothing we verify here, so these are rate limited
	// instead.
	inboundLimiter := rate.NewLimiter(rate.Limit(m.config.InboundRPS), m.config.InboundRPS*2)

	webhooks := router.PathPrefix("/api/webhooks").Subrouter()
	webhooks.Use(RateLimitMiddleware(inboundLimiter))
	webhooks.HandleFunc("/retell", m.webhookHandler.HandleCallEvent).Methods("POST")

	tools := router.PathPrefix("/api/tools").Subrouter()
	tools.Use(RateLimitMiddleware(inboundLimiter))
	tools.HandleFunc("/create-appointment", m.toolHandler.HandleCreateAppointment).Methods("POST")

	// Management endpoints used by the dashboard. Registered after the
	// inbound subrouters so the more specific prefixes win.
	api := router.PathPrefix("/api").Subrouter()
	api.Use(APIKeyMiddleware(m.config.APIKeySecret))

	api.HandleFunc("/organizations", m.organizationHandler.CreateOrganization).Methods("POST")
	api.HandleFunc("/organizations", m.organizationHandler.ListOrganizations).Methods("GET")
	api.HandleFunc("/organizations/{id}", m.organizationHandler.GetOrganization).Methods("GET")

	api.HandleFunc("/agents", m.agentHandler.CreateAgent).Methods("POST")
	api.HandleFunc("/agents", m.agentHandler.ListAgents).Methods("GET")
	api.HandleFunc("/agents/{id}", m.agentHandler.DeleteAgent).Methods("DELETE")

	api.HandleFunc("/calls", m.callHandler.ListCalls).Methods("GET")
	api.HandleFunc("/appointments", m.appointmentHandler.ListAppointments).Methods("GET")
	api.HandleFunc("/dashboard/stats", m.callHandler.DashboardStats).Methods("GET")
	api.HandleFunc("/calls/web-call", m.callHandler.CreateWebCall).Methods("POST")
	api.HandleFunc("/calls/outbound", m.callHandler.CreateOutboundCall).Methods("POST")
}

// handleHealth reports process and database liveness.
func (m *HandlerManager) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := m.repoManager.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Close releases backing connections.
func (m *HandlerManager) Close() {
	if m.redisSvc != nil {
		if err := m.redisSvc.Close(); err != nil {
			logger.Base().Warn("failed to close redis", zap.Error(err))
		}
	}
	if err := m.repoManager.Close(); err != nil {
		logger.Base().Warn("failed to close database", zap.Error(err))
	}
}
