package services

import (
	"cmp"
	"context"
	"slices"

	"github.com/GregMSThompson/ledger-engine/internal/dto"
	"github.com/GregMSThompson/ledger-engine/internal/ledger"
	"github.com/GregMSThompson/ledger-engine/internal/models"
	"github.com/GregMSThompson/ledger-engine/pkg/logger"
)

// ListMessages returns messages newest first, optionally only unread ones.
func (s *ledgerService) ListMessages(ctx context.Context, account string, q dto.MessageQuery) ([]models.UserMessage, error) {
	out := []models.UserMessage{}
	err := s.view(ctx, account, func(st *ledger.State) error {
		for _, m := range st.Ledger.Messages {
			if m.Read && q.UnreadOnly {
				continue
			}
			out = append(out, m)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b models.UserMessage) int { return cmp.Compare(b.ID, a.ID) })
	return out, err
}

func (s *ledgerService) MarkMessageRead(ctx context.Context, account string, id int64) (*models.UserMessage, error) {
	var out models.UserMessage
	_, err := s.mutate(ctx, account, func(st *ledger.State) error {
		m, err := ledger.MarkRead(st, id)
		out = m
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("message marked read", "account", account, "message_id", id)
	return &out, nil
}
