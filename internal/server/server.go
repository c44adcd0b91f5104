// Package server exposes the expression tools over HTTP.
//
// Routes:
//
//	POST /v1/tool           ToolRequest -> ToolResponse
//	POST /v1/expand/batch   BatchRequest -> BatchResponse
//	GET  /v1/health         HealthResponse
//	GET  /v1/schema         SchemaResponse
//	GET  /metrics           Prometheus exposition
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	sym "github.com/njchilds90/gosymcore"
	"github.com/njchilds90/gosymcore/internal/batch"
	"github.com/njchilds90/gosymcore/internal/config"
	"github.com/njchilds90/gosymcore/internal/exprjson"
	"github.com/njchilds90/gosymcore/internal/logging"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

const requestIDHeader = "X-Request-ID"

const maxBodyBytes = 1 << 20 // 1 MiB

type HealthResponse struct {
	Status  string   `json:"status"`
	Version string   `json:"version"`
	Tools   []string `json:"tools"`
}

// SchemaResponse lists the tools for agent registration.
type SchemaResponse struct {
	Tools []ToolSpec `json:"tools"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// BatchRequest holds expressions to expand.
type BatchRequest struct {
	Exprs []map[string]interface{} `json:"exprs"`
}

// BatchResponse holds one ToolResponse per input, in input order.
type BatchResponse struct {
	Results []ToolResponse `json:"results"`
}

type Server struct {
	cfg    config.Config
	logger *logging.Logger
	runner *batch.Runner
	engine *gin.Engine
}

// New builds a Server and its routes.
func New(cfg config.Config, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Server{
		cfg:    cfg,
		logger: logger,
		runner: &batch.Runner{
			Workers:     cfg.Workers,
			MaxExponent: cfg.Limits.MaxExponent,
			MaxBatch:    cfg.Limits.MaxBatch,
			Logger:      logger,
		},
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger(), limitBody(maxBodyBytes))
	v1 := router.Group("/v1")
	{
		v1.POST("/tool", s.HandleTool)
		v1.POST("/expand/batch", s.HandleBatchExpand)
		v1.GET("/health", s.HandleHealth)
		v1.GET("/schema", s.HandleSchema)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine = router
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on cfg.Server.Addr until ctx is done, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.cfg.Server.Addr,
		Handler:     s.engine,
		ReadTimeout: s.cfg.Server.ReadTimeout,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serving")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}

// requestLogger tags each request with an ID and logs its outcome.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set("request_id", id)

		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// HandleTool handles POST /v1/tool.
//
// Response:
//
//	200 OK: ToolResponse with Result
//	400 Bad Request: malformed body, unknown tool or bad params
//	422 Unprocessable Entity: the operation raised a math error or hit a limit
func (s *Server) HandleTool(c *gin.Context) {
	var req ToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: codeBadRequest})
		return
	}
	start := time.Now()
	resp := s.HandleToolCall(c.Request.Context(), req)
	toolLatency.WithLabelValues(req.Tool).Observe(time.Since(start).Seconds())
	toolCalls.WithLabelValues(req.Tool, outcome(resp)).Inc()

	if resp.Error != "" {
		s.logger.Warn("tool failed", "request_id", c.GetString("request_id"), "tool", req.Tool, "code", resp.Code, "error", resp.Error)
	}
	c.JSON(statusFor(resp), resp)
}

// HandleBatchExpand handles POST /v1/expand/batch.
func (s *Server) HandleBatchExpand(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: codeBadRequest})
		return
	}
	batchSize.Observe(float64(len(req.Exprs)))

	out := make([]ToolResponse, len(req.Exprs))
	exprs := make([]sym.Basic, 0, len(req.Exprs))
	slots := make([]int, 0, len(req.Exprs))
	for i, m := range req.Exprs {
		e, err := exprjson.Decode(m)
		if err != nil {
			out[i] = errorResponse(err)
			continue
		}
		exprs = append(exprs, e)
		slots = append(slots, i)
	}

	results, err := s.runner.Expand(c.Request.Context(), exprs)
	if err != nil {
		resp := errorResponse(err)
		c.JSON(statusFor(resp), ErrorResponse{Error: resp.Error, Code: resp.Code})
		return
	}
	for j, r := range results {
		if r.Err != nil {
			out[slots[j]] = errorResponse(r.Err)
			continue
		}
		out[slots[j]] = respond(r.Value)
	}
	for _, r := range out {
		if r.Error != "" {
			batchFailures.Inc()
		}
	}
	c.JSON(http.StatusOK, BatchResponse{Results: out})
}

// HandleHealth handles GET /v1/health.
func (s *Server) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Version: Version, Tools: Tools})
}

// HandleSchema handles GET /v1/schema.
func (s *Server) HandleSchema(c *gin.Context) {
	c.JSON(http.StatusOK, SchemaResponse{Tools: ToolSpecs})
}

// limitBody caps request bodies at n bytes; reads past it fail and the
// JSON binding reports a 400.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

func statusFor(resp ToolResponse) int {
	switch {
	case resp.Error == "":
		return http.StatusOK
	case resp.Code == codeBadRequest:
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}
