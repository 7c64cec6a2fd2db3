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

type transactionService interface {
	SubmitTransaction(ctx context.Context, account string, req dto.TransactionRequest) (dto.SubmitResult, error)
	ListTransactions(ctx context.Context, account string, q dto.TransactionQuery) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, account string, id int64) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, account string, id int64) error
}

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	TransactionSvc  transactionService
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: deps.ResponseHandler,
		TransactionSvc:  deps.TransactionSvc,
	}
}

func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.SubmitTransaction)
	r.Get("/", h.ListTransactions)
	r.Get("/{id}", h.GetTransaction)
	r.Delete("/{id}", h.DeleteTransaction)
	return r
}

func (h *transactionHandlers) SubmitTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.TransactionRequest
	if err := decodeBody(r, &req, invalidTransaction); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	account := middleware.Account(r.Context())
	res, err := h.TransactionSvc.SubmitTransaction(r.Context(), account, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, res)
}

func (h *transactionHandlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	var q dto.TransactionQuery
	if c := r.URL.Query().Get("category"); c != "" {
		q.Category = &c
	}
	var err error
	if q.Offset, err = queryInt(r, "offset"); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if q.Limit, err = queryInt(r, "limit"); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	account := middleware.Account(r.Context())
	txs, err := h.TransactionSvc.ListTransactions(r.Context(), account, q)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, txs)
}

func (h *transactionHandlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	account := middleware.Account(r.Context())
	tx, err := h.TransactionSvc.GetTransaction(r.Context(), account, id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tx)
}

func (h *transactionHandlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	account := middleware.Account(r.Context())
	if err := h.TransactionSvc.DeleteTransaction(r.Context(), account, id); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusNoContent, nil)
}
