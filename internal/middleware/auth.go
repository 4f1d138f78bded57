package middleware

import (
	"net/http"

	"pharmacy-be/internal/auth"
	"pharmacy-be/internal/logger"
	"pharmacy-be/internal/utils"

	"go.uber.org/zap"
)

// Auth resolves the caller's actor from the access token once per request.
// Requests without a token pass through anonymously; a token that does not
// verify is rejected.
func Auth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Parse(tokenStr)
			if err != nil {
				logger.FromCtx(r.Context()).Debug("rejected access token", zap.Error(err))
				utils.WriteJSONError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			actor := auth.ActorFromClaims(claims)
			ctx := auth.WithActor(r.Context(), actor)
			ctx = logger.WithUserID(ctx, actor.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
