package idempotency

import (
	"context"
	"log/slog"
	"net/http"
)

const HeaderKey = "Idempotency-Key"

// Keyer is the subset of Store the middleware needs.
type Keyer interface {
	Key(route, key string) string
	Seen(ctx context.Context, key string) (bool, error)
}

// Middleware rejects replays of requests carrying an Idempotency-Key
// header with 409. Requests without the header pass through untouched.
func Middleware(log *slog.Logger, store Keyer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(HeaderKey)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			seen, err := store.Seen(r.Context(), store.Key(r.URL.Path, key))
			if err != nil {
				log.Error("idempotency check failed", "err", err)
				http.Error(w, "idempotency check unavailable", http.StatusServiceUnavailable)
				return
			}
			if seen {
				http.Error(w, "duplicate request", http.StatusConflict)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
