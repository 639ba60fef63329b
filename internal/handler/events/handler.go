package events

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/whatisthe411/the411/backend/internal/logging"
	"github.com/whatisthe411/the411/backend/internal/model/content"
	"github.com/whatisthe411/the411/backend/pkg/utils"
)

// Source 提供集合加载事件
type Source interface {
	Subscribe() (<-chan content.Event, func())
	Statuses() []content.LoadStatus
}

// Handler 推送集合加载进度（SSE 与 WebSocket）
type Handler struct {
	source    Source
	upgrader  websocket.Upgrader
	keepAlive time.Duration
}

// New 创建事件处理器
func New(source Source) *Handler {
	return &Handler{
		source: source,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		keepAlive: 25 * time.Second,
	}
}

// RegisterRoutes 注册事件相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/events", h.handleSSE)
	r.Get("/ws", h.handleWebSocket)
}

// handleSSE 以 Server-Sent Events 推送当前状态和后续加载事件
func (h *Handler) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events, cancel := h.source.Subscribe()
	defer cancel()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	logger := logging.From(ctx)
	logger.Debug("sse stream opened")

	for _, status := range h.source.Statuses() {
		if err := utils.SendSSEEvent(w, flusher, "status", "", status); err != nil {
			return
		}
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("sse stream closed")
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := utils.SendSSEEvent(w, flusher, "collection", ev.ID, ev); err != nil {
				return
			}
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "keepalive"); err != nil {
				return
			}
		}
	}
}
