/*
 * @module api/middleware/rate_limit
 * @description 质量评估接口的限流中间件，限流器不可用时直接放行
 * @architecture 分层架构 - 中间件层
 * @documentReference ai_docs/quality_engine_req.md
 * @stateFlow 请求进入 -> 限流检查 -> 放行或返回429
 * @rules 限流检查自身出错时放行请求，限流是保护措施而不是阻断点
 * @dependencies dataquality-service/service/rate_limiter, github.com/go-chi/render
 * @refs api/routes.go
 */

package middleware

import (
	"log/slog"
	"net/http"

	"dataquality-service/service/rate_limiter"

	"github.com/go-chi/render"
)

// AssessRateLimit 质量评估限流中间件。limiter 为空时为免限流模式。
func AssessRateLimit(limiter *rate_limiter.RedisRateLimiter, rule rate_limiter.RateLimitRule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			result, err := limiter.CheckRateLimit(r.Context(), rule)
			if err != nil {
				slog.Error("限流检查失败，放行请求", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if !result.Allowed {
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, map[string]interface{}{
					"status": http.StatusTooManyRequests,
					"msg":    result.Message,
					"data":   result,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
