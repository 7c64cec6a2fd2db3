package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/GregMSThompson/ledger-engine/pkg/logger"
)

// SessionHeader names the account a request acts on.
const SessionHeader = "X-session-ID"

type contextKey string

const AccountKey contextKey = "account"

// Session rejects requests without a session id and scopes the rest to the
// account it names.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := strings.TrimSpace(r.Header.Get(SessionHeader))
		if account == "" {
			http.Error(w, "missing "+SessionHeader+" header", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), AccountKey, account)
		_, ctx = logger.With(ctx, "account", account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Account returns the session account, or "" outside Session.
func Account(ctx context.Context) string {
	account, _ := ctx.Value(AccountKey).(string)
	return account
}
