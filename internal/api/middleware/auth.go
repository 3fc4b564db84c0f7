package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rohits-web03/worklog/internal/config"
	"github.com/rohits-web03/worklog/internal/logging"
	"github.com/rohits-web03/worklog/internal/models"
	"github.com/rohits-web03/worklog/internal/repositories"
	"github.com/rohits-web03/worklog/internal/utils"
)

type contextKey string

const UserKey contextKey = "user"

// APIKeyHeader carries the key issued by /login.
const APIKeyHeader = "x-api-key"

var (
	maxAPICalls = config.Envs.MaxAPICalls
	now         = time.Now
)

// AuthMiddleware resolves the x-api-key header to a user, charges the call
// to that user's daily quota and stores the user in the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(APIKeyHeader)
		if apiKey == "" {
			utils.WriteError(w, r, utils.AuthError("API key is required"))
			return
		}

		day := now().UTC().Format(time.DateOnly)
		user, err := repositories.AuthenticateAPIKey(r.Context(), apiKey, day, maxAPICalls)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			utils.WriteError(w, r, utils.AuthError("Invalid API key"))
			return
		case errors.Is(err, repositories.ErrQuotaExceeded):
			quotaRejections.Inc()
			logging.Ctx(r.Context()).Warn().Uint("user_id", user.ID).Str("day", day).Msg("api quota exhausted")
			utils.WriteError(w, r, utils.RateLimitError("Max API calls exceeded."))
			return
		case err != nil:
			utils.WriteError(w, r, utils.InternalError(err))
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the user attached by AuthMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok && user != nil
}

// WithUser attaches user to ctx the way AuthMiddleware does.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}
