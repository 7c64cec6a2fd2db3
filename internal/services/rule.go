package services

import (
	"context"
	"slices"

	"github.com/GregMSThompson/ledger-engine/internal/dto"
	"github.com/GregMSThompson/ledger-engine/internal/errs"
	"github.com/GregMSThompson/ledger-engine/internal/ledger"
	"github.com/GregMSThompson/ledger-engine/internal/models"
	"github.com/GregMSThompson/ledger-engine/pkg/logger"
)

func (s *ledgerService) CreateCategoryRule(ctx context.Context, account string, req dto.CategoryRuleRequest) (*models.CategoryRule, error) {
	rule, err := ruleFromRequest(req)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	var backfilled int
	_, err = s.mutate(ctx, account, func(st *ledger.State) error {
		rule = *st.AddRule(rule)
		if rule.ApplyOnHistory {
			backfilled = len(ledger.Backfill(st, rule))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("category rule created", "account", account, "rule_id", rule.ID, "backfilled", backfilled)
	return &rule, nil
}

// UpdateCategoryRule replaces the rule's fields. The change only reaches
// transactions submitted afterwards; history is never re-categorized.
func (s *ledgerService) UpdateCategoryRule(ctx context.Context, account string, id int64, req dto.CategoryRuleRequest) (*models.CategoryRule, error) {
	next, err := ruleFromRequest(req)
	if err != nil {
		return nil, err
	}

	var out models.CategoryRule
	_, err = s.mutate(ctx, account, func(st *ledger.State) error {
		r, ok := st.Rule(id)
		if !ok {
			return errs.NewNotFoundError("category rule %d not found", id)
		}
		next.ID = id
		*r = next
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("category rule updated", "account", account, "rule_id", id)
	return &out, nil
}

func (s *ledgerService) DeleteCategoryRule(ctx context.Context, account string, id int64) error {
	_, err := s.mutate(ctx, account, func(st *ledger.State) error {
		if !st.RemoveRule(id) {
			return errs.NewNotFoundError("category rule %d not found", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("category rule deleted", "account", account, "rule_id", id)
	return nil
}

func (s *ledgerService) ListCategoryRules(ctx context.Context, account string) ([]models.CategoryRule, error) {
	var out []models.CategoryRule
	err := s.view(ctx, account, func(st *ledger.State) error {
		out = slices.Clone(st.Ledger.Rules)
		return nil
	})
	if out == nil && err == nil {
		out = []models.CategoryRule{}
	}
	return out, err
}

func (s *ledgerService) GetCategoryRule(ctx context.Context, account string, id int64) (*models.CategoryRule, error) {
	var out models.CategoryRule
	err := s.view(ctx, account, func(st *ledger.State) error {
		r, ok := st.Rule(id)
		if !ok {
			return errs.NewNotFoundError("category rule %d not found", id)
		}
		out = *r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func ruleFromRequest(req dto.CategoryRuleRequest) (models.CategoryRule, error) {
	if req.Category == nil {
		return models.CategoryRule{}, errs.NewInvalidParameterError("category is required")
	}
	if req.Type != "" && !models.TransactionType(req.Type).Valid() {
		return models.CategoryRule{}, errs.NewInvalidParameterError("type must be blank, deposit or withdrawal, got %q", req.Type)
	}
	return models.CategoryRule{
		Description:    req.Description,
		IBAN:           req.IBAN,
		Type:           models.TransactionType(req.Type),
		Category:       *req.Category,
		ApplyOnHistory: req.ApplyOnHistory,
	}, nil
}
