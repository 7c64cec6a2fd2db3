package services

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/ledger-engine/internal/dto"
	"github.com/GregMSThompson/ledger-engine/internal/errs"
	"github.com/GregMSThompson/ledger-engine/internal/ledger"
	"github.com/GregMSThompson/ledger-engine/internal/models"
	"github.com/GregMSThompson/ledger-engine/pkg/helpers"
	"github.com/GregMSThompson/ledger-engine/pkg/logger"
)

// CreateSavingGoal registers the goal at the account's system time and
// replays every active goal so transfers for already elapsed months appear.
func (s *ledgerService) CreateSavingGoal(ctx context.Context, account string, req dto.SavingGoalRequest) (*models.SavingGoal, error) {
	goal, err := goalFromRequest(req)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	var out models.SavingGoal
	_, err = s.mutate(ctx, account, func(st *ledger.State) error {
		goal.CreatedAt = st.SystemTime()
		id := st.AddGoal(goal).ID
		for _, goalID := range ledger.ApplyGoals(st) {
			log.Info("saving goal completed", "goal_id", goalID)
		}
		g, _ := st.Goal(id)
		out = *g
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("saving goal created", "account", account, "goal_id", out.ID, "target", out.Goal.String())
	return &out, nil
}

// DeleteSavingGoal drops the goal and its transfers. The released money is
// available to the remaining goals on the replay that follows.
func (s *ledgerService) DeleteSavingGoal(ctx context.Context, account string, id int64) error {
	log := logger.FromContext(ctx)
	_, err := s.mutate(ctx, account, func(st *ledger.State) error {
		if !st.RemoveGoal(id) {
			return errs.NewNotFoundError("saving goal %d not found", id)
		}
		for _, goalID := range ledger.ApplyGoals(st) {
			log.Info("saving goal completed", "goal_id", goalID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info("saving goal deleted", "account", account, "goal_id", id)
	return nil
}

func (s *ledgerService) ListSavingGoals(ctx context.Context, account string) ([]models.SavingGoal, error) {
	var out []models.SavingGoal
	err := s.view(ctx, account, func(st *ledger.State) error {
		out = slices.Clone(st.Ledger.Goals)
		return nil
	})
	if out == nil && err == nil {
		out = []models.SavingGoal{}
	}
	return out, err
}

func goalFromRequest(req dto.SavingGoalRequest) (models.SavingGoal, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.SavingGoal{}, errs.NewInvalidParameterError("name is required")
	}
	if req.Goal == nil || !req.Goal.IsPositive() {
		return models.SavingGoal{}, errs.NewInvalidParameterError("goal must be a positive amount")
	}
	if req.SavePerMonth == nil || !req.SavePerMonth.IsPositive() {
		return models.SavingGoal{}, errs.NewInvalidParameterError("savePerMonth must be a positive amount")
	}
	minBalance := helpers.ValueOr(req.MinBalanceRequired, decimal.Zero)
	if minBalance.IsNegative() {
		return models.SavingGoal{}, errs.NewInvalidParameterError("minBalanceRequired must not be negative")
	}
	return models.SavingGoal{
		Name:               name,
		Goal:               *req.Goal,
		SavePerMonth:       *req.SavePerMonth,
		MinBalanceRequired: minBalance,
		Balance:            decimal.Zero,
	}, nil
}
