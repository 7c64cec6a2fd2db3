package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/ledger-engine/internal/dto"
	"github.com/GregMSThompson/ledger-engine/internal/errs"
	"github.com/GregMSThompson/ledger-engine/internal/models"
)

type stubRequestService struct {
	request  *models.PaymentRequest
	requests []models.PaymentRequest
	err      error
	lastReq  dto.PaymentRequestRequest
}

func (s *stubRequestService) CreatePaymentRequest(_ context.Context, _ string, req dto.PaymentRequestRequest) (*models.PaymentRequest, error) {
	s.lastReq = req
	return s.request, s.err
}

func (s *stubRequestService) ListPaymentRequests(_ context.Context, _ string) ([]models.PaymentRequest, error) {
	return s.requests, s.err
}

func TestCreatePaymentRequest_Created(t *testing.T) {
	svc := &stubRequestService{request: &models.PaymentRequest{ID: 1}}
	resp := &stubResponseHandler{}
	h := NewPaymentRequestHandlers(&Deps{ResponseHandler: resp, RequestSvc: svc})

	body := `{"description":"dinner","due_date":"2024-02-01T00:00:00Z","amount":"20","number_of_requests":3}`
	req := httptest.NewRequest(http.MethodPost, "/paymentrequests", strings.NewReader(body))
	req = withAccount(req, "acct-1")
	rr := httptest.NewRecorder()
	h.CreatePaymentRequest(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected WriteSuccess with 201, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if svc.lastReq.NumberOfRequests != 3 || svc.lastReq.DueDate != "2024-02-01T00:00:00Z" {
		t.Errorf("unexpected request passed to service: %+v", svc.lastReq)
	}
}

func TestCreatePaymentRequest_InvalidJSON(t *testing.T) {
	svc := &stubRequestService{}
	resp := &stubResponseHandler{}
	h := NewPaymentRequestHandlers(&Deps{ResponseHandler: resp, RequestSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/paymentrequests", strings.NewReader(`{"amount":true}`))
	req = withAccount(req, "acct-1")
	rr := httptest.NewRecorder()
	h.CreatePaymentRequest(rr, req)

	var invalid *errs.InvalidParameterError
	if !resp.handleErrorCalled || !errors.As(resp.handleError, &invalid) {
		t.Fatalf("expected InvalidParameterError, got %v", resp.handleError)
	}
}

func TestListPaymentRequests_ServiceError(t *testing.T) {
	svc := &stubRequestService{err: errs.NewDatabaseError("load", "failed to load ledger", errors.New("boom"))}
	resp := &stubResponseHandler{}
	h := NewPaymentRequestHandlers(&Deps{ResponseHandler: resp, RequestSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/paymentrequests", nil)
	req = withAccount(req, "acct-1")
	rr := httptest.NewRecorder()
	h.ListPaymentRequests(rr, req)

	if !resp.handleErrorCalled || resp.writeSuccessCalled {
		t.Fatal("expected HandleError and no WriteSuccess")
	}
}
