package middleware

import (
	"net/http"

	"github.com/homequeen/api/config"
	"github.com/homequeen/api/utils"
	"go.uber.org/zap"
)

const msgMisconfigured = "Server misconfigured"

// EnvCheck answers every request with 503 while the server is missing
// required settings. problems is evaluated once by the caller; the first
// entry decides the hint.
func EnvCheck(problems []config.Misconfiguration, hint func(config.Problem) string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(problems) == 0 {
			return next
		}
		first := problems[0]
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("rejecting request on misconfigured server",
				zap.String("request_id", GetRequestIDFromContext(r.Context())),
				zap.String("problem", string(first.Problem)))
			_ = utils.WriteServiceUnavailable(w, msgMisconfigured, hint(first.Problem))
		})
	}
}
