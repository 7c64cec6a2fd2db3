package services

import (
	"context"
	"slices"
	"strings"

	"github.com/GregMSThompson/ledger-engine/internal/dto"
	"github.com/GregMSThompson/ledger-engine/internal/errs"
	"github.com/GregMSThompson/ledger-engine/internal/ledger"
	"github.com/GregMSThompson/ledger-engine/internal/models"
	"github.com/GregMSThompson/ledger-engine/pkg/logger"
)

// CreatePaymentRequest opens a request. Only transactions submitted after it
// exists can fill it; a due date already behind the system time expires it
// immediately.
func (s *ledgerService) CreatePaymentRequest(ctx context.Context, account string, req dto.PaymentRequestRequest) (*models.PaymentRequest, error) {
	pr, err := requestFromRequest(req)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	var out models.PaymentRequest
	_, err = s.mutate(ctx, account, func(st *ledger.State) error {
		pr.CreatedAt = st.SystemTime()
		id := st.AddRequest(pr).ID
		for _, reqID := range ledger.ExpireRequests(st) {
			log.Info("payment request expired", "request_id", reqID)
		}
		r, _ := st.Request(id)
		out = *r
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("payment request created", "account", account, "request_id", out.ID, "installments", out.NumberOfRequests)
	return &out, nil
}

func (s *ledgerService) ListPaymentRequests(ctx context.Context, account string) ([]models.PaymentRequest, error) {
	out := []models.PaymentRequest{}
	err := s.view(ctx, account, func(st *ledger.State) error {
		for _, r := range st.Ledger.Requests {
			r.Transactions = slices.Clone(r.Transactions)
			out = append(out, r)
		}
		return nil
	})
	return out, err
}

func requestFromRequest(req dto.PaymentRequestRequest) (models.PaymentRequest, error) {
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		return models.PaymentRequest{}, errs.NewInvalidParameterError("description is required")
	}
	due, err := parseTimestamp("due_date", req.DueDate, invalidParameter)
	if err != nil {
		return models.PaymentRequest{}, err
	}
	if req.Amount == nil || !req.Amount.IsPositive() {
		return models.PaymentRequest{}, errs.NewInvalidParameterError("amount must be a positive amount")
	}
	if req.NumberOfRequests < 1 {
		return models.PaymentRequest{}, errs.NewInvalidParameterError("number_of_requests must be at least 1, got %d", req.NumberOfRequests)
	}
	return models.PaymentRequest{
		Description:      desc,
		DueDate:          due,
		Amount:           *req.Amount,
		NumberOfRequests: req.NumberOfRequests,
		Transactions:     []int64{},
	}, nil
}
