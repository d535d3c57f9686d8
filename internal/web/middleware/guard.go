package middleware

import (
	"context"
	"net/http"

	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/services/guard"
)

const decisionContextKey contextKey = "guard_decision"

// Guard redirects requests the session mode may not make. The redirect reason is
// passed to the next page as a flash message. Allowed requests carry the decision in
// the context so pages can disable write actions.
func Guard(g *guard.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mode := GetSessionState(r.Context()).Mode
			decision := g.Decide(mode, r.URL.Path, r.URL.Query().Get("from"))

			if !decision.Allow {
				if decision.Reason != "" {
					kind := FlashInfo
					if decision.Access == model.AccessBlocked {
						kind = FlashWarning
					}
					SetFlash(w, kind, decision.Reason)
				}
				http.Redirect(w, r, decision.Target, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), decisionContextKey, decision)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetDecision returns the guard decision for the request
func GetDecision(ctx context.Context) guard.Decision {
	decision, ok := ctx.Value(decisionContextKey).(guard.Decision)
	if !ok {
		return guard.Decision{Allow: true, Access: model.AccessFull}
	}
	return decision
}

// CanWrite reports whether write actions are enabled on the current page
func CanWrite(ctx context.Context) bool {
	if GetSessionState(ctx).Mode == model.ModeAuth {
		return true
	}
	return GetDecision(ctx).Access == model.AccessFull
}
