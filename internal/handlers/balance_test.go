package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/ledger-engine/internal/dto"
	"github.com/GregMSThompson/ledger-engine/internal/errs"
	"github.com/GregMSThompson/ledger-engine/internal/models"
)

type stubBalanceService struct {
	history   []models.BalanceInterval
	err       error
	lastQuery dto.BalanceHistoryQuery
}

func (s *stubBalanceService) ComputeBalanceHistory(_ context.Context, _ string, q dto.BalanceHistoryQuery) ([]models.BalanceInterval, error) {
	s.lastQuery = q
	return s.history, s.err
}

func TestGetBalanceHistory_PassesQuery(t *testing.T) {
	svc := &stubBalanceService{history: []models.BalanceInterval{{}}}
	resp := &stubResponseHandler{}
	h := NewBalanceHandlers(&Deps{ResponseHandler: resp, BalanceSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/balance/history?intervals=6&interval=month", nil)
	req = withAccount(req, "acct-1")
	rr := httptest.NewRecorder()
	h.GetBalanceHistory(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess with 200, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if svc.lastQuery.Intervals != "6" || svc.lastQuery.Interval != "month" {
		t.Errorf("unexpected query: %+v", svc.lastQuery)
	}
}

func TestGetBalanceHistory_ServiceError(t *testing.T) {
	svc := &stubBalanceService{err: errs.NewInvalidParameterError("intervals must be positive")}
	resp := &stubResponseHandler{}
	h := NewBalanceHandlers(&Deps{ResponseHandler: resp, BalanceSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/balance/history?intervals=-1", nil)
	req = withAccount(req, "acct-1")
	rr := httptest.NewRecorder()
	h.GetBalanceHistory(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError")
	}
}
