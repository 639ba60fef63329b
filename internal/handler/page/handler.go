package page

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/whatisthe411/the411/backend/internal/service/route"
	"github.com/whatisthe411/the411/backend/pkg/utils"
)

// Handler 页面路由的HTTP处理器
type Handler struct {
	dispatcher *route.Dispatcher
}

// New 创建页面处理器
func New(dispatcher *route.Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// RegisterRoutes 注册页面相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/pages", h.handlePage)
	r.Get("/pages/*", h.handlePage)
}

// handlePage 将壳应用的路径解析为页面数据
func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when it is set, leaving the wildcard escaped.
	path := chi.URLParam(r, "*")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(path); err == nil {
			path = unescaped
		}
	}

	page := h.dispatcher.ResolvePath(path, r.URL.Query())
	status := http.StatusOK
	if !page.Found() {
		status = http.StatusNotFound
	}
	utils.RespondJSON(w, status, page)
}
