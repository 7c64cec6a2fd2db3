package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/ledger-engine/internal/dto"
	"github.com/GregMSThompson/ledger-engine/internal/middleware"
	"github.com/GregMSThompson/ledger-engine/internal/models"
	"github.com/GregMSThompson/ledger-engine/internal/response"
)

type categoryRuleService interface {
	CreateCategoryRule(ctx context.Context, account string, req dto.CategoryRuleRequest) (*models.CategoryRule, error)
	ListCategoryRules(ctx context.Context, account string) ([]models.CategoryRule, error)
	GetCategoryRule(ctx context.Context, account string, id int64) (*models.CategoryRule, error)
	UpdateCategoryRule(ctx context.Context, account string, id int64, req dto.CategoryRuleRequest) (*models.CategoryRule, error)
	DeleteCategoryRule(ctx context.Context, account string, id int64) error
}

type categoryRuleHandlers struct {
	ResponseHandler response.ResponseHandler
	RuleSvc         categoryRuleService
}

func NewCategoryRuleHandlers(deps *Deps) *categoryRuleHandlers {
	return &categoryRuleHandlers{
		ResponseHandler: deps.ResponseHandler,
		RuleSvc:         deps.RuleSvc,
	}
}

func (h *categoryRuleHandlers) CategoryRuleRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateCategoryRule)
	r.Get("/", h.ListCategoryRules)
	r.Get("/{id}", h.GetCategoryRule)
	r.Put("/{id}", h.UpdateCategoryRule)
	r.Delete("/{id}", h.DeleteCategoryRule)
	return r
}

func (h *categoryRuleHandlers) CreateCategoryRule(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRuleRequest
	if err := decodeBody(r, &req, invalidParameter); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	account := middleware.Account(r.Context())
	rule, err := h.RuleSvc.CreateCategoryRule(r.Context(), account, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, rule)
}

func (h *categoryRuleHandlers) ListCategoryRules(w http.ResponseWriter, r *http.Request) {
	account := middleware.Account(r.Context())
	rules, err := h.RuleSvc.ListCategoryRules(r.Context(), account)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, rules)
}

func (h *categoryRuleHandlers) GetCategoryRule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	account := middleware.Account(r.Context())
	rule, err := h.RuleSvc.GetCategoryRule(r.Context(), account, id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, rule)
}

func (h *categoryRuleHandlers) UpdateCategoryRule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.CategoryRuleRequest
	if err := decodeBody(r, &req, invalidParameter); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	account := middleware.Account(r.Context())
	rule, err := h.RuleSvc.UpdateCategoryRule(r.Context(), account, id, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, rule)
}

func (h *categoryRuleHandlers) DeleteCategoryRule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	account := middleware.Account(r.Context())
	if err := h.RuleSvc.DeleteCategoryRule(r.Context(), account, id); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusNoContent, nil)
}
