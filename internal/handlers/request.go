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

type paymentRequestService interface {
	CreatePaymentRequest(ctx context.Context, account string, req dto.PaymentRequestRequest) (*models.PaymentRequest, error)
	ListPaymentRequests(ctx context.Context, account string) ([]models.PaymentRequest, error)
}

type paymentRequestHandlers struct {
	ResponseHandler response.ResponseHandler
	RequestSvc      paymentRequestService
}

func NewPaymentRequestHandlers(deps *Deps) *paymentRequestHandlers {
	return &paymentRequestHandlers{
		ResponseHandler: deps.ResponseHandler,
		RequestSvc:      deps.RequestSvc,
	}
}

func (h *paymentRequestHandlers) PaymentRequestRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreatePaymentRequest)
	r.Get("/", h.ListPaymentRequests)
	return r
}

func (h *paymentRequestHandlers) CreatePaymentRequest(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentRequestRequest
	if err := decodeBody(r, &req, invalidParameter); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	account := middleware.Account(r.Context())
	pr, err := h.RequestSvc.CreatePaymentRequest(r.Context(), account, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, pr)
}

func (h *paymentRequestHandlers) ListPaymentRequests(w http.ResponseWriter, r *http.Request) {
	account := middleware.Account(r.Context())
	reqs, err := h.RequestSvc.ListPaymentRequests(r.Context(), account)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, reqs)
}
