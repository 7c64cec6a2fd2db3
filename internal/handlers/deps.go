package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/ledger-engine/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	TransactionSvc  transactionService
	RuleSvc         categoryRuleService
	GoalSvc         savingGoalService
	RequestSvc      paymentRequestService
	MessageSvc      messageService
	BalanceSvc      balanceService
}
