package models

import "time"

type MessageType string

const (
	MessageInfo    MessageType = "info"
	MessageWarning MessageType = "warning"
)

type UserMessage struct {
	ID      int64       `json:"id"`
	Message string      `json:"message"`
	Date    time.Time   `json:"date"`
	Read    bool        `json:"read"`
	Type    MessageType `json:"type"`
}

func (m UserMessage) Equal(o UserMessage) bool {
	return m.ID == o.ID &&
		m.Message == o.Message &&
		m.Date.Equal(o.Date) &&
		m.Read == o.Read &&
		m.Type == o.Type
}
