package purchase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// optional runs fetch and stores its value, or def when the read fails.
// It never fails the surrounding group.
func optional[T any](ctx context.Context, name string, dst *T, def T, fetch func(context.Context) (T, error)) func() error {
	return func() error {
		v, err := fetch(ctx)
		if err != nil {
			log.Warn().Err(err).Str("read", name).Msg("upstream read unavailable, using default")
			*dst = def
			return nil
		}
		*dst = v
		return nil
	}
}

// required runs fetch and fails the surrounding group when the read fails.
func required[T any](ctx context.Context, name string, dst *T, fetch func(context.Context) (T, error)) func() error {
	return func() error {
		v, err := fetch(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = v
		return nil
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
