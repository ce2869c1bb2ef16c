package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fsgate/fsgate/internal/infrastructure/monitoring"
	"github.com/fsgate/fsgate/internal/logging"
	"github.com/fsgate/fsgate/internal/service"
	"github.com/fsgate/fsgate/internal/types"
)

// Version is the gateway release version reported by the status endpoints.
const Version = "1.0.0"

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	registry *service.Registry
	metrics  *monitoring.Metrics
	log      *logging.Logger
	root     string
	started  time.Time
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(registry *service.Registry, metrics *monitoring.Metrics, log *logging.Logger, root string) *Handlers {
	return &Handlers{
		registry: registry,
		metrics:  metrics,
		log:      log,
		root:     root,
		started:  time.Now(),
	}
}

// Root reports basic service identity.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "fsgate",
		"version": Version,
		"status":  "running",
	})
}

// Health reports liveness and the confined root.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"allowed_root":   h.root,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"registry":       h.registry.Stats(),
	})
}

// Services returns the catalog of registered services and their tools.
func (h *Handlers) Services(c *gin.Context) {
	services := h.registry.List(nil)
	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"count":    len(services),
	})
}

// Execute dispatches a single tool call.
//
// Operation failures are reported inside a well-formed result with HTTP
// 200; only a malformed request body yields a 4xx.
func (h *Handlers) Execute(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	requestID := uuid.New().String()
	callCtx := &types.Context{
		CallerID:  req.CallerID,
		RequestID: &requestID,
	}

	timer := monitoring.NewTimer(h.metrics, req.ToolID)
	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, callCtx)
	if err != nil {
		result = types.Failure(types.KindOSFailure, "execution failed: "+err.Error())
	}

	if result.Success {
		timer.Stop("success", "")
	} else {
		timer.Stop("failure", string(result.Error.Kind))
		h.log.Debug("tool call failed",
			zap.String("tool_id", req.ToolID),
			zap.String("request_id", requestID),
			zap.String("kind", string(result.Error.Kind)),
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"request_id": requestID,
		"result":     result,
	})
}
