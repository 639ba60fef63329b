package newsletter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	newsletterService "github.com/whatisthe411/the411/backend/internal/service/newsletter"
	"github.com/whatisthe411/the411/backend/pkg/utils"
)

// Handler 邮件订阅的HTTP处理器
type Handler struct {
	svc *newsletterService.Service
}

// New 创建订阅处理器
func New(svc *newsletterService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册订阅相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/newsletter", h.handleSubscribe)
	r.Get("/newsletter/{id}", h.handleGetSubmission)
}

// handleSubscribe 校验邮箱并提交订阅
func (h *Handler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var payload newsletterService.Form
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.svc.Submit(r.Context(), payload.EMAIL)
	if err != nil {
		if errors.Is(err, newsletterService.ErrInvalidEmail) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "subscription failed")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, sub)
}

// handleGetSubmission 查询订阅结果
func (h *Handler) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "submission not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, sub)
}
