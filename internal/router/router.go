package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/ledger-engine/internal/handlers"
	"github.com/GregMSThompson/ledger-engine/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	th := handlers.NewTransactionHandlers(deps)
	crh := handlers.NewCategoryRuleHandlers(deps)
	sgh := handlers.NewSavingGoalHandlers(deps)
	prh := handlers.NewPaymentRequestHandlers(deps)
	mh := handlers.NewMessageHandlers(deps)
	bh := handlers.NewBalanceHandlers(deps)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session)

		r.Mount("/transactions", th.TransactionRoutes())
		r.Mount("/categoryRules", crh.CategoryRuleRoutes())
		r.Mount("/savingGoals", sgh.SavingGoalRoutes())
		r.Mount("/paymentRequests", prh.PaymentRequestRoutes())
		r.Mount("/messages", mh.MessageRoutes())
		r.Mount("/balance", bh.BalanceRoutes())
	})
	return r
}
