package main

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dileep-u-k/coach-gateway/internal/api"
	"github.com/dileep-u-k/coach-gateway/internal/coach"
	"github.com/dileep-u-k/coach-gateway/internal/program"
	"github.com/dileep-u-k/coach-gateway/internal/tools"
)

// GatewayHandler serves the HTTP API on top of the coaching pipeline.
type GatewayHandler struct {
	service   *coach.Service
	registry  *tools.Registry
	generator string
	build     BuildInfo
}

// NewGatewayHandler builds the handler. generator names the configured text
// generator, or is empty when none is configured.
func NewGatewayHandler(service *coach.Service, registry *tools.Registry, generator string, build BuildInfo) *GatewayHandler {
	return &GatewayHandler{
		service:   service,
		registry:  registry,
		generator: generator,
		build:     build,
	}
}

// Register mounts every route on engine.
func (h *GatewayHandler) Register(engine *gin.Engine) {
	engine.GET("/healthz", h.HandleHealth)
	v1 := engine.Group("/api/v1")
	{
		v1.POST("/chat", h.HandleChat)
		v1.POST("/analyze", h.HandleAnalyze)
		v1.GET("/programs/:regimen", h.HandleProgram)
		v1.GET("/tools", h.HandleTools)
	}
}

// HandleChat answers a message, streaming it as server-sent events when the
// request asks for it.
func (h *GatewayHandler) HandleChat(c *gin.Context) {
	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}
	log.Printf("--- New Chat Request (Prompt: '%.30s...', Stream: %v) ---", req.Message, req.Stream)

	if req.Stream {
		h.streamChat(c, req)
		return
	}

	resp, err := h.service.Chat(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	if resp.CacheStatus == api.CacheHit {
		log.Println("✅ Cache HIT")
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GatewayHandler) streamChat(c *gin.Context, req api.ChatRequest) {
	stream, err := h.service.ChatStream(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		chunk, ok := <-stream.Chunks
		if !ok {
			c.SSEvent("done", stream.Done)
			return false
		}
		if chunk.Err != nil {
			log.Printf("⚠️ Stream for %s ended with error: %v", stream.Done.RequestID, chunk.Err)
			c.SSEvent("error", api.ErrorResponse{Error: "generation failed"})
			return false
		}
		c.SSEvent("message", gin.H{"delta": chunk.Delta})
		return true
	})
}

// HandleAnalyze returns the tags, tool bundle and assembled payload for a
// message without generating an answer.
func (h *GatewayHandler) HandleAnalyze(c *gin.Context) {
	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}
	resp, err := h.service.Analyze(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleProgram returns one day of a regimen (?day=low|med|high), or the
// weekly cycle and every day when no day is given.
func (h *GatewayHandler) HandleProgram(c *gin.Context) {
	regimen, err := program.ParseRegimen(c.Param("regimen"))
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
		return
	}

	if dayParam := strings.TrimSpace(c.Query("day")); dayParam != "" {
		dayType, err := program.ParseDayType(dayParam)
		if err != nil {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
			return
		}
		day, err := program.Lookup(regimen, dayType)
		if err != nil {
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, day)
		return
	}

	cycle, err := program.Cycle(regimen)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	days := make(map[program.DayType]program.Day, len(program.DayTypes()))
	for _, d := range program.DayTypes() {
		day, err := program.Lookup(regimen, d)
		if err != nil {
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
			return
		}
		days[d] = day
	}
	c.JSON(http.StatusOK, gin.H{"regimen": regimen, "cycle": cycle, "days": days})
}

// HandleTools lists the registered tool definitions.
func (h *GatewayHandler) HandleTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": h.registry.Definitions()})
}

// HandleHealth reports liveness and build information.
func (h *GatewayHandler) HandleHealth(c *gin.Context) {
	generator := h.generator
	if generator == "" {
		generator = "none"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   h.build.Version,
		"commit":    h.build.GitCommit,
		"generator": generator,
		"tools":     h.registry.Count(),
	})
}

// fail maps pipeline errors to HTTP statuses.
func (h *GatewayHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, coach.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, coach.ErrNoGenerator):
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: err.Error()})
	default:
		log.Printf("❌ Request failed: %v", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
	}
}
