package notify

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/ledger-engine/internal/models"
)

// Envelope carries one committed user message to the broker. ID is unique
// per publish so consumers can drop redeliveries.
type Envelope struct {
	ID          string             `json:"id"`
	AccountID   string             `json:"accountId"`
	Message     models.UserMessage `json:"message"`
	PublishedAt time.Time          `json:"publishedAt"`
}

func NewEnvelope(account string, msg models.UserMessage) *Envelope {
	return &Envelope{
		ID:          uuid.NewString(),
		AccountID:   account,
		Message:     msg,
		PublishedAt: time.Now().UTC(),
	}
}

func (e *Envelope) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EnvelopeFromJSON(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
