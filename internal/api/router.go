package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"roomd/internal/api/handler"
	"roomd/internal/api/middleware"
	"roomd/internal/api/response"
	"roomd/internal/dispatch"
	"roomd/internal/services/identity"
	"roomd/internal/services/room"
	"roomd/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	IdentityService *identity.Service
	RoomController  *room.Controller
	HubManager      *sse.HubManager
	Dispatcher      *dispatch.Dispatcher
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	identityHandler := handler.NewIdentityHandler(cfg.IdentityService)
	roomHandler := handler.NewRoomHandler(cfg.RoomController)
	eventsHandler := handler.NewEventsHandler(cfg.RoomController, cfg.HubManager, cfg.Dispatcher)

	// Create middleware
	sessionMiddleware := middleware.Session(cfg.IdentityService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Identity routes (claiming is how a session bootstraps, so no session
	// middleware here; release and heartbeat carry the token in the body)
	api.HandleFunc("/identities/claim", identityHandler.Claim).Methods(http.MethodPost)
	api.HandleFunc("/identities/{id}/release", identityHandler.Release).Methods(http.MethodPost)
	api.HandleFunc("/identities/{id}/heartbeat", identityHandler.Heartbeat).Methods(http.MethodPost)
	api.HandleFunc("/identities", identityHandler.List).Methods(http.MethodGet)

	// Room routes (all require a claimed identity session)
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(sessionMiddleware)
	rooms.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	rooms.HandleFunc("", roomHandler.List).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}/join", roomHandler.Join).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/leave", roomHandler.Leave).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/ready", roomHandler.SetReady).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/start", roomHandler.Start).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}
