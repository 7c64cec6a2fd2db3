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

type messageService interface {
	ListMessages(ctx context.Context, account string, q dto.MessageQuery) ([]models.UserMessage, error)
	MarkMessageRead(ctx context.Context, account string, id int64) (*models.UserMessage, error)
}

type messageHandlers struct {
	ResponseHandler response.ResponseHandler
	MessageSvc      messageService
}

func NewMessageHandlers(deps *Deps) *messageHandlers {
	return &messageHandlers{
		ResponseHandler: deps.ResponseHandler,
		MessageSvc:      deps.MessageSvc,
	}
}

func (h *messageHandlers) MessageRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListMessages)
	r.Put("/{id}", h.MarkMessageRead)
	return r
}

func (h *messageHandlers) ListMessages(w http.ResponseWriter, r *http.Request) {
	unread, err := queryBool(r, "unread")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	account := middleware.Account(r.Context())
	msgs, err := h.MessageSvc.ListMessages(r.Context(), account, dto.MessageQuery{UnreadOnly: unread})
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, msgs)
}

func (h *messageHandlers) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	account := middleware.Account(r.Context())
	msg, err := h.MessageSvc.MarkMessageRead(r.Context(), account, id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, msg)
}
