package httpadapter

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"golang.org/x/time/rate"
)

// NewLimiter returns nil when rps is not positive, which disables limiting.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func rateLimitMiddleware(limiter *rate.Limiter) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		if limiter != nil && !limiter.Allow() {
			writeErrorBody(ctx, consts.StatusTooManyRequests, "rate_limited", "too many requests")
			ctx.Abort()
			return
		}
		ctx.Next(c)
	}
}
