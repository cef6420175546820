package llm

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"
)

// Limited throttles calls to the wrapped Generator with a token bucket.
type Limited struct {
	Next    Generator
	Limiter *rate.Limiter
}

// NewLimited wraps next unless perSec is not positive.
func NewLimited(next Generator, perSec float64, burst int) Generator {
	if next == nil || perSec <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limited{Next: next, Limiter: rate.NewLimiter(rate.Limit(perSec), burst)}
}

func (l *Limited) Name() string {
	return l.Next.Name()
}

func (l *Limited) Generate(ctx context.Context, req Request) (Response, error) {
	if err := l.Limiter.Wait(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return Response{}, ctx.Err()
		}
		// Wait fails early when the token would arrive after the deadline.
		return Response{}, fmt.Errorf("%w: rate limiter: %v", ErrTimeout, err)
	}
	return l.Next.Generate(ctx, req)
}
