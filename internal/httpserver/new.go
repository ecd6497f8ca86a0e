package httpserver

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"intent-assistant/internal/conversation"
	wsDelivery "intent-assistant/internal/conversation/delivery/websocket"
	"intent-assistant/internal/middleware"
	"intent-assistant/internal/schema"
	"intent-assistant/internal/task"
	"intent-assistant/pkg/log"
)

const shutdownTimeout = 10 * time.Second

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string
	mw          middleware.Middleware

	// Task domain
	taskUC task.UseCase

	// Conversation domain
	store    *conversation.Store
	registry *schema.Registry
	turns    wsDelivery.TurnHandler
	wsConfig wsDelivery.Config
}

// Config is the dependency bag passed to New().
type Config struct {
	Port        int
	Mode        string
	Environment string
	Middleware  middleware.Middleware

	// Task domain
	TaskUseCase task.UseCase

	// Conversation domain
	Store     *conversation.Store
	Registry  *schema.Registry
	Turns     wsDelivery.TurnHandler
	WebSocket wsDelivery.Config
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:           logger,
		gin:         gin.New(),
		port:        cfg.Port,
		mode:        cfg.Mode,
		environment: cfg.Environment,
		mw:          cfg.Middleware,
		taskUC:      cfg.TaskUseCase,
		store:       cfg.Store,
		registry:    cfg.Registry,
		turns:       cfg.Turns,
		wsConfig:    cfg.WebSocket,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}
	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.store == nil || srv.registry == nil || srv.turns == nil {
		return errors.New("conversation store, registry and turn handler are required")
	}
	return nil
}
