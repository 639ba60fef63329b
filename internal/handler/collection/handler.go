package collection

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/whatisthe411/the411/backend/internal/model/content"
	"github.com/whatisthe411/the411/backend/internal/service/search"
	"github.com/whatisthe411/the411/backend/pkg/utils"
)

// Handler 内容集合与搜索的HTTP处理器
type Handler struct {
	store     content.Reader
	searchSvc *search.Service
}

// New 创建集合处理器
func New(store content.Reader, searchSvc *search.Service) *Handler {
	return &Handler{
		store:     store,
		searchSvc: searchSvc,
	}
}

// RegisterRoutes 注册集合与搜索相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/collections", h.handleListStatuses)
	r.Get("/collections/{name}", h.handleView)
	r.Get("/collections/{name}/{id}", h.handleRecord)
	r.Get("/search", h.handleSearch)
}

// handleListStatuses 返回每个集合的加载状态
func (h *Handler) handleListStatuses(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.Statuses())
}

// handleView 返回集合的最新优先视图
func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	name, err := content.ParseCollection(chi.URLParam(r, "name"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "collection not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"collection": name,
		"data":       h.store.View(name),
	})
}

// handleRecord 按ID返回单条记录
func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	name, err := content.ParseCollection(chi.URLParam(r, "name"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "collection not found")
		return
	}

	rec, ok := h.store.FindByID(name, chi.URLParam(r, "id"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "record not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"collection": name,
		"data":       rec,
	})
}

// handleSearch 跨集合搜索
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.RespondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	hits := search.Limit(h.searchSvc.Search(query), limit)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"query": query,
		"count": len(hits),
		"hits":  hits,
	})
}
