package ratelimit

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/af-corp/scribe/internal/auth"
	"github.com/af-corp/scribe/internal/httputil"
	"github.com/af-corp/scribe/internal/telemetry"
)

const (
	defaultRPM = 60

	headerRateLimitRequests          = "X-RateLimit-Limit-Requests"
	headerRateLimitRemainingRequests = "X-RateLimit-Remaining-Requests"
	headerRateLimitReset             = "X-RateLimit-Reset-Requests"
	headerRetryAfter                 = "Retry-After"
)

// Middleware returns chi middleware enforcing a per-caller request rate and,
// when budgetMicro is positive, a per-caller daily spend cap. Callers are
// bucketed by API key when authenticated, by client IP otherwise.
func Middleware(limiter *Limiter, budget *BudgetTracker, budgetMicro int64, rpm int, metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	if rpm <= 0 {
		rpm = defaultRPM
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := w.Header().Get("X-Request-ID")
			bucket := callerBucket(r)

			result, _ := limiter.Check(r.Context(), fmt.Sprintf("rpm:%s", bucket), int64(rpm), time.Minute)

			// Always set rate limit headers
			w.Header().Set(headerRateLimitRequests, strconv.Itoa(rpm))
			w.Header().Set(headerRateLimitRemainingRequests, strconv.FormatInt(result.Remaining, 10))
			w.Header().Set(headerRateLimitReset, result.ResetAt.Format(time.RFC3339))

			if !result.Allowed {
				slog.Warn("rate limit exceeded",
					"request_id", reqID,
					"bucket", bucket,
					"limit", rpm,
				)
				if metrics != nil {
					metrics.RecordRateLimit("limited")
				}
				w.Header().Set(headerRetryAfter, strconv.Itoa(int(result.RetryAfter.Seconds())))
				httputil.WriteRateLimitError(w, reqID,
					fmt.Sprintf("Rate limit exceeded: %d requests per minute. Retry after %s", rpm, result.ResetAt.Format(time.RFC3339)))
				return
			}

			// Spend is recorded per key after each generation; anonymous
			// callers carry no budget.
			if info, ok := auth.InfoFromContext(r.Context()); ok && budgetMicro > 0 {
				budgetResult, _ := budget.CheckDailySpend(r.Context(), info.KeyID, budgetMicro)
				if !budgetResult.Allowed {
					slog.Warn("daily budget exceeded",
						"request_id", reqID,
						"key", info.KeyID,
						"spent_micro", budgetResult.SpentMicro,
						"limit_micro", budgetResult.LimitMicro,
					)
					if metrics != nil {
						metrics.RecordRateLimit("budget_exceeded")
					}
					httputil.WriteRateLimitError(w, reqID,
						fmt.Sprintf("Daily budget exceeded: spent %.6f of %.6f USD",
							float64(budgetResult.SpentMicro)/1e6, float64(budgetResult.LimitMicro)/1e6))
					return
				}
			}

			if metrics != nil {
				metrics.RecordRateLimit("allowed")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// callerBucket identifies the rate-limit bucket for a request: the
// authenticated key when present, the client IP otherwise.
func callerBucket(r *http.Request) string {
	if info, ok := auth.InfoFromContext(r.Context()); ok {
		return "key:" + info.KeyID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
