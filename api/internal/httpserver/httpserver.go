package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"design-tutor/api/internal/handle"
	"design-tutor/api/internal/metrics"
)

const (
	EndPointAnalyze = "/api/v1/tutor/analyze"
	EndPointHistory = "/api/v1/tutor/history"
	EndPointHealth  = "/health"
	EndPointMetrics = "/metrics"

	requestIDHeader = "X-Request-ID"
)

type Server struct {
	httpServer *http.Server
	log        *zap.Logger
}

// NewRouter wires middleware and routes around h.
func NewRouter(h *handle.Handle, toolName string, log *zap.Logger) *gin.Engine {
	metrics.Register()

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		// с credentials браузер не принимает "*", поэтому эхо Origin вместо AllowAllOrigins
		AllowOriginFunc:  func(string) bool { return true },
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		MaxAge:           12 * time.Hour,
	}))
	router.Use(requestID(), accessLog(log), trackRequests(toolName))

	router.GET("/", h.Root)
	router.GET(EndPointHealth, h.Health)
	router.GET(EndPointMetrics, gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1/tutor")
	{
		api.POST("/analyze", h.Analyze)
		api.GET("/history", h.History)
	}
	return router
}

// New builds the HTTP server. The write timeout leaves room for the upstream call.
func New(addr string, router http.Handler, upstreamTimeout time.Duration, log *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      upstreamTimeout + 30*time.Second,
			MaxHeaderBytes:    1 << 20, // 1 MB
		},
		log: log,
	}
}

func (s *Server) Run() error {
	s.log.Info("Server is running", zap.String("address", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func trackRequests(toolName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}
		metrics.HTTPRequests.WithLabelValues(
			toolName, endpoint, c.Request.Method, strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}
