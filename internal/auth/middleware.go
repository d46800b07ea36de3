package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/appboilerplate/taskmanager/internal/i18n"
	"github.com/appboilerplate/taskmanager/internal/platform/httpx"
	"github.com/appboilerplate/taskmanager/internal/shared"
)

type accountContextKey struct{}

// ContextWithAccount stores the authenticated account in ctx.
func ContextWithAccount(ctx context.Context, acct *Account) context.Context {
	return context.WithValue(ctx, accountContextKey{}, acct)
}

// AccountFromContext extracts the account stored by RequireAuth.
func AccountFromContext(ctx context.Context) *Account {
	acct, _ := ctx.Value(accountContextKey{}).(*Account)
	return acct
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Middleware wires bearer-token authentication for HTTP handlers.
type Middleware struct {
	Service *Service
	Strings i18n.Localizer
	Logger  *slog.Logger
}

// RequireAuth rejects requests without a live session token and stores the
// account and principal in the request context.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			httpx.Error(w, http.StatusUnauthorized, m.Strings.T(r.Context(), "userNotAuthenticated"), shared.ErrUnauthenticated)
			return
		}
		acct, err := m.Service.Authenticate(r.Context(), token)
		if err != nil {
			if shared.IsAuthError(err) {
				httpx.Error(w, http.StatusUnauthorized, m.Strings.T(r.Context(), "userNotAuthenticated"), err)
				return
			}
			if m.Logger != nil {
				m.Logger.Error("authenticate", slog.Any("error", err))
			}
			httpx.Error(w, http.StatusInternalServerError, m.Strings.T(r.Context(), "userNotFoundByToken"), err)
			return
		}
		ctx := ContextWithAccount(r.Context(), acct)
		ctx = shared.ContextWithPrincipal(ctx, shared.Principal{AccountID: acct.ID, Token: token})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
