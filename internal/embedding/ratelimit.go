package embedding

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited spaces out calls to a provider.
type RateLimited struct {
	Provider
	limiter *rate.Limiter
}

// NewRateLimited wraps p so it is called at most rps times per second.
// A non-positive rps returns p unchanged.
func NewRateLimited(p Provider, rps float64) Provider {
	if rps <= 0 {
		return p
	}
	return &RateLimited{
		Provider: p,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Embed waits for the limiter, then delegates.
func (r *RateLimited) Embed(ctx context.Context, text string) (Embedding, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Embedding{}, fmt.Errorf("rate limit: %w", err)
	}
	return r.Provider.Embed(ctx, text)
}
