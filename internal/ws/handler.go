package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fsgate/fsgate/internal/infrastructure/monitoring"
	"github.com/fsgate/fsgate/internal/logging"
	"github.com/fsgate/fsgate/internal/service"
	"github.com/fsgate/fsgate/internal/types"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Handler manages websocket connections.
type Handler struct {
	registry *service.Registry
	metrics  *monitoring.Metrics
	log      *logging.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a websocket handler.
func NewHandler(registry *service.Registry, metrics *monitoring.Metrics, log *logging.Logger) *Handler {
	return &Handler{
		registry: registry,
		metrics:  metrics,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// conn wraps a websocket connection with serialized writes. Tool calls
// run concurrently and complete out of order, so every writer goes
// through the mutex.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) writeJSON(v interface{}) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *conn) writePing() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Stream upgrades the request and serves tool calls until the peer
// disconnects.
func (h *Handler) Stream(c *gin.Context) {
	wsConn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.metrics.IncWSConnections()
	defer h.metrics.DecWSConnections()

	cn := &conn{ws: wsConn}
	defer wsConn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go h.pingLoop(ctx, cn)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket closed unexpectedly", zap.Error(err))
			}
			return
		}
		var req types.WSRequest
		if err := sonic.Unmarshal(data, &req); err != nil {
			h.metrics.RecordWSMessage("received", "malformed")
			h.send(cn, types.WSResponse{
				Type:    "result",
				Success: false,
				Error:   &types.ErrorInfo{Kind: types.KindInvalidArgument, Message: "malformed frame: " + err.Error()},
			})
			continue
		}
		h.metrics.RecordWSMessage("received", req.Type)

		switch req.Type {
		case "execute":
			if req.ID == "" {
				req.ID = uuid.New().String()
			}
			wg.Add(1)
			go func(req types.WSRequest) {
				defer wg.Done()
				h.execute(ctx, cn, req)
			}(req)
		case "ping":
			h.send(cn, types.WSResponse{Type: "pong", ID: req.ID, Success: true})
		default:
			h.send(cn, types.WSResponse{
				Type:    "result",
				ID:      req.ID,
				Success: false,
				Error:   &types.ErrorInfo{Kind: types.KindInvalidArgument, Message: "unknown frame type: " + req.Type},
			})
		}
	}
}

func (h *Handler) execute(ctx context.Context, cn *conn, req types.WSRequest) {
	callCtx := &types.Context{RequestID: &req.ID}

	timer := monitoring.NewTimer(h.metrics, req.ToolID)
	result, err := h.registry.Execute(ctx, req.ToolID, req.Params, callCtx)
	if err != nil {
		result = types.Failure(types.KindOSFailure, "execution failed: "+err.Error())
	}

	resp := types.WSResponse{
		Type:    "result",
		ID:      req.ID,
		Success: result.Success,
		Data:    result.Data,
		Error:   result.Error,
	}
	if result.Success {
		timer.Stop("success", "")
	} else {
		timer.Stop("failure", string(result.Error.Kind))
	}
	h.send(cn, resp)
}

func (h *Handler) send(cn *conn, resp types.WSResponse) {
	if err := cn.writeJSON(resp); err != nil {
		h.log.Debug("websocket write failed", zap.Error(err))
		return
	}
	h.metrics.RecordWSMessage("sent", resp.Type)
}

func (h *Handler) pingLoop(ctx context.Context, cn *conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := cn.writePing(); err != nil {
				return
			}
		}
	}
}
