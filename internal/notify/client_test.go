package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GregMSThompson/ledger-engine/internal/models"
	"github.com/GregMSThompson/ledger-engine/pkg/helpers"
)

type fakeAck struct {
	acked    bool
	nacked   bool
	requeued bool
}

func (f *fakeAck) Ack(bool) error { f.acked = true; return nil }
func (f *fakeAck) Nack(_, requeue bool) error {
	f.nacked, f.requeued = true, requeue
	return nil
}

func testEnvelopeBody(t *testing.T) []byte {
	t.Helper()
	body, err := NewEnvelope("acc", models.UserMessage{
		ID:      4,
		Message: "New highest balance reached: 10.00.",
		Date:    time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		Type:    models.MessageInfo,
	}).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON returned error: %v", err)
	}
	return body
}

func TestEnvelopeRoundTrip(t *testing.T) {
	a := NewEnvelope("acc", models.UserMessage{ID: 1, Message: "hi", Type: models.MessageWarning})
	b := NewEnvelope("acc", models.UserMessage{ID: 1, Message: "hi", Type: models.MessageWarning})
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("envelope ids not unique: %q %q", a.ID, b.ID)
	}

	body, err := a.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON returned error: %v", err)
	}
	got, err := EnvelopeFromJSON(body)
	if err != nil {
		t.Fatalf("EnvelopeFromJSON returned error: %v", err)
	}
	if got.ID != a.ID || got.AccountID != "acc" || !got.Message.Equal(a.Message) {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, a)
	}
}

func TestSettleAcksHandled(t *testing.T) {
	ack := &fakeAck{}
	var seen *Envelope
	settle(helpers.TestCtx(t), ack, testEnvelopeBody(t), func(_ context.Context, e *Envelope) error {
		seen = e
		return nil
	})
	if !ack.acked || ack.nacked {
		t.Fatalf("expected ack, got %+v", ack)
	}
	if seen == nil || seen.Message.ID != 4 {
		t.Fatalf("handler saw %+v", seen)
	}
}

func TestSettleRequeuesOnHandlerError(t *testing.T) {
	ack := &fakeAck{}
	settle(helpers.TestCtx(t), ack, testEnvelopeBody(t), func(context.Context, *Envelope) error {
		return errors.New("sink down")
	})
	if !ack.nacked || !ack.requeued {
		t.Fatalf("expected requeue, got %+v", ack)
	}
}

func TestSettleDropsUndecodable(t *testing.T) {
	ack := &fakeAck{}
	called := false
	settle(helpers.TestCtx(t), ack, []byte("{not json"), func(context.Context, *Envelope) error {
		called = true
		return nil
	})
	if called {
		t.Fatalf("handler called for undecodable body")
	}
	if !ack.nacked || ack.requeued {
		t.Fatalf("expected drop without requeue, got %+v", ack)
	}
}

func TestNopPublisher(t *testing.T) {
	if err := (NopPublisher{}).Publish(helpers.TestCtx(t), "acc", []models.UserMessage{{ID: 1}}); err != nil {
		t.Fatalf("NopPublisher returned error: %v", err)
	}
}
