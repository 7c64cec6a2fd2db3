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

type savingGoalService interface {
	CreateSavingGoal(ctx context.Context, account string, req dto.SavingGoalRequest) (*models.SavingGoal, error)
	ListSavingGoals(ctx context.Context, account string) ([]models.SavingGoal, error)
	DeleteSavingGoal(ctx context.Context, account string, id int64) error
}

type savingGoalHandlers struct {
	ResponseHandler response.ResponseHandler
	GoalSvc         savingGoalService
}

func NewSavingGoalHandlers(deps *Deps) *savingGoalHandlers {
	return &savingGoalHandlers{
		ResponseHandler: deps.ResponseHandler,
		GoalSvc:         deps.GoalSvc,
	}
}

func (h *savingGoalHandlers) SavingGoalRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateSavingGoal)
	r.Get("/", h.ListSavingGoals)
	r.Delete("/{id}", h.DeleteSavingGoal)
	return r
}

func (h *savingGoalHandlers) CreateSavingGoal(w http.ResponseWriter, r *http.Request) {
	var req dto.SavingGoalRequest
	if err := decodeBody(r, &req, invalidParameter); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	account := middleware.Account(r.Context())
	goal, err := h.GoalSvc.CreateSavingGoal(r.Context(), account, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, goal)
}

func (h *savingGoalHandlers) ListSavingGoals(w http.ResponseWriter, r *http.Request) {
	account := middleware.Account(r.Context())
	goals, err := h.GoalSvc.ListSavingGoals(r.Context(), account)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, goals)
}

func (h *savingGoalHandlers) DeleteSavingGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	account := middleware.Account(r.Context())
	if err := h.GoalSvc.DeleteSavingGoal(r.Context(), account, id); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusNoContent, nil)
}
