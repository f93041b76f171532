package http

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/0xsj/overwatch-follows/internal/port/outbound/cache"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Host              string
	Port              int
	AllowedOrigins    []string
	TrustedProxies    []string
	ReadHeaderTimeout time.Duration
}

// Address returns the server address.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate validates the server configuration.
func (c ServerConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// ServerDeps holds the collaborators of the HTTP server. RateLimiter is optional.
type ServerDeps struct {
	Handler     *Handler
	RateLimiter cache.RateLimiter
	Registry    *prometheus.Registry
	Logger      Logger
}

// Server serves the follows page, the JSON API, health and metrics.
type Server struct {
	config     ServerConfig
	engine     *gin.Engine
	httpServer *http.Server
	listener   net.Listener
	logger     Logger
}

// NewServer creates a new HTTP server and registers its routes.
func NewServer(cfg ServerConfig, deps ServerDeps) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}

	engine, err := newEngine(cfg, deps)
	if err != nil {
		return nil, err
	}

	return &Server{
		config: cfg,
		engine: engine,
		httpServer: &http.Server{
			Handler:           engine,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		},
		logger: deps.Logger,
	}, nil
}

func newEngine(cfg ServerConfig, deps ServerDeps) (*gin.Engine, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	m, err := newHTTPMetrics(deps.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register http metrics: %w", err)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.Use(gin.Recovery())
	r.Use(m.instrument())
	r.Use(requestLogger(deps.Logger))

	r.GET("/healthz", deps.Handler.healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	lookups := r.Group("")
	if deps.RateLimiter != nil {
		lookups.Use(rateLimit(deps.RateLimiter, m, deps.Logger))
	}
	{
		lookups.GET("/", deps.Handler.pageHome)
		lookups.GET("/profile/:handle", deps.Handler.pageProfile)

		v1 := lookups.Group("/api/v1")
		if len(cfg.AllowedOrigins) > 0 {
			v1.Use(cors.New(cors.Config{
				AllowOrigins: cfg.AllowedOrigins,
				AllowMethods: []string{"GET"},
			}))
		}
		{
			v1.GET("/follows/:handle", deps.Handler.apiGetFollows)
			v1.GET("/lookups", deps.Handler.apiListLookups)
		}
	}

	return r, nil
}

// Start listens on the configured address and serves until Stop is called.
func (s *Server) Start() error {
	addr := s.config.Address()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	s.logger.Info("HTTP server starting", "address", listener.Addr().String())

	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server stopping")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop http server: %w", err)
	}
	s.logger.Info("HTTP server stopped gracefully")
	return nil
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Address returns the server's listening address.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
