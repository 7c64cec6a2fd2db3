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

type balanceService interface {
	ComputeBalanceHistory(ctx context.Context, account string, q dto.BalanceHistoryQuery) ([]models.BalanceInterval, error)
}

type balanceHandlers struct {
	ResponseHandler response.ResponseHandler
	BalanceSvc      balanceService
}

func NewBalanceHandlers(deps *Deps) *balanceHandlers {
	return &balanceHandlers{
		ResponseHandler: deps.ResponseHandler,
		BalanceSvc:      deps.BalanceSvc,
	}
}

func (h *balanceHandlers) BalanceRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/history", h.GetBalanceHistory)
	return r
}

// GetBalanceHistory hands the raw query values to the service, which owns
// their validation.
func (h *balanceHandlers) GetBalanceHistory(w http.ResponseWriter, r *http.Request) {
	q := dto.BalanceHistoryQuery{
		Intervals: r.URL.Query().Get("intervals"),
		Interval:  r.URL.Query().Get("interval"),
	}
	account := middleware.Account(r.Context())
	hist, err := h.BalanceSvc.ComputeBalanceHistory(r.Context(), account, q)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, hist)
}
