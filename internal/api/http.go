package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	twinv1 "github.com/miradorstack/mirador-twin/internal/grpc/twinv1"
)

// HTTPServer exposes the twin service as a JSON API for the editor UI.
type HTTPServer struct {
	service      twinv1.TwinEngineServer
	logger       *slog.Logger
	router       *gin.Engine
	server       *http.Server
	pollInterval time.Duration
}

// HTTPOption customises an HTTPServer.
type HTTPOption func(*HTTPServer)

// WithStreamPollInterval sets how often the event stream checks for new events.
func WithStreamPollInterval(d time.Duration) HTTPOption {
	return func(s *HTTPServer) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

type failBody struct {
	DurationMs int64 `json:"durationMs"`
}

type degradeBody struct {
	Level      *int32 `json:"level" binding:"required"`
	DurationMs int64  `json:"durationMs"`
}

// NewHTTPServer builds the router. Requests go through the same service the
// gRPC server uses, so validation and error mapping are shared.
func NewHTTPServer(address string, origins []string, service twinv1.TwinEngineServer, logger *slog.Logger, opts ...HTTPOption) *HTTPServer {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &HTTPServer{
		service:      service,
		logger:       logger,
		router:       gin.New(),
		pollInterval: 250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(gin.Recovery(), s.requestLogger())
	s.router.Use(cors.New(corsConfig(origins)))

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/status", s.getStatus)
		v1.GET("/health", s.listHealth)
		v1.GET("/health/:id", s.getHealth)
		v1.GET("/telemetry/:id", s.getTelemetry)
		v1.GET("/events", s.listEvents)
		v1.GET("/events/stream", s.streamEvents)
		v1.GET("/blast-radius/:id", s.getBlastRadius)
		v1.GET("/anomalies/:id", s.getAnomalies)

		control := v1.Group("/control")
		control.POST("/start", s.control(s.service.Start))
		control.POST("/pause", s.control(s.service.Pause))
		control.POST("/stop", s.control(s.service.Stop))
		control.POST("/reset", s.control(s.service.Reset))

		nodes := v1.Group("/nodes/:id")
		nodes.POST("/fail", s.failNode)
		nodes.POST("/degrade", s.degradeNode)
		nodes.POST("/recover", s.recoverNode)
	}

	s.server = &http.Server{
		Addr:              address,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Handler exposes the router (useful for tests).
func (s *HTTPServer) Handler() http.Handler { return s.router }

// Start serves until Shutdown; a clean shutdown returns nil.
func (s *HTTPServer) Start() error {
	s.logger.Info("http api listening", slog.String("address", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx ends.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

func (s *HTTPServer) control(call func(context.Context, *emptypb.Empty) (*twinv1.ControlResponse, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := call(c.Request.Context(), &emptypb.Empty{})
		respond(c, resp, err)
	}
}

func (s *HTTPServer) getStatus(c *gin.Context) {
	resp, err := s.service.GetStatus(c.Request.Context(), &emptypb.Empty{})
	respond(c, resp, err)
}

func (s *HTTPServer) listHealth(c *gin.Context) {
	resp, err := s.service.ListHealthStates(c.Request.Context(), &emptypb.Empty{})
	respond(c, resp, err)
}

func (s *HTTPServer) getHealth(c *gin.Context) {
	resp, err := s.service.GetHealthState(c.Request.Context(), &twinv1.HealthStateRequest{NodeId: c.Param("id")})
	respond(c, resp, err)
}

func (s *HTTPServer) getTelemetry(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	resp, err := s.service.GetTelemetry(c.Request.Context(), &twinv1.TelemetryRequest{NodeId: c.Param("id"), Limit: limit})
	respond(c, resp, err)
}

func (s *HTTPServer) listEvents(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	after, ok := queryInt(c, "after")
	if !ok {
		return
	}
	resp, err := s.service.ListEvents(c.Request.Context(), &twinv1.ListEventsRequest{Limit: limit, AfterSeq: uint64(after)})
	respond(c, resp, err)
}

func (s *HTTPServer) getBlastRadius(c *gin.Context) {
	resp, err := s.service.CalculateBlastRadius(c.Request.Context(), &twinv1.BlastRadiusRequest{Epicenter: c.Param("id")})
	respond(c, resp, err)
}

func (s *HTTPServer) getAnomalies(c *gin.Context) {
	threshold := 0.0
	if raw := c.Query("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a number"})
			return
		}
		threshold = v
	}
	resp, err := s.service.DetectAnomalies(c.Request.Context(), &twinv1.DetectAnomaliesRequest{NodeId: c.Param("id"), Threshold: threshold})
	respond(c, resp, err)
}

func (s *HTTPServer) failNode(c *gin.Context) {
	var body failBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	resp, err := s.service.FailNode(c.Request.Context(), &twinv1.FailNodeRequest{NodeId: c.Param("id"), DurationMs: body.DurationMs})
	respond(c, resp, err)
}

func (s *HTTPServer) degradeNode(c *gin.Context) {
	var body degradeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := s.service.DegradeNode(c.Request.Context(), &twinv1.DegradeNodeRequest{
		NodeId:     c.Param("id"),
		Level:      *body.Level,
		DurationMs: body.DurationMs,
	})
	respond(c, resp, err)
}

func (s *HTTPServer) recoverNode(c *gin.Context) {
	resp, err := s.service.RecoverNode(c.Request.Context(), &twinv1.RecoverNodeRequest{NodeId: c.Param("id")})
	respond(c, resp, err)
}

// queryInt parses a non-negative query parameter that must fit the int32 wire fields.
func queryInt(c *gin.Context, key string) (int32, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be a non-negative 32-bit integer"})
		return 0, false
	}
	return int32(v), true
}

func respond(c *gin.Context, body any, err error) {
	if err != nil {
		st := status.Convert(err)
		c.JSON(httpStatus(st.Code()), gin.H{"error": st.Message()})
		return
	}
	c.JSON(http.StatusOK, body)
}

// httpStatus maps gRPC codes returned by the service onto HTTP statuses.
func httpStatus(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.FailedPrecondition:
		return http.StatusConflict
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
