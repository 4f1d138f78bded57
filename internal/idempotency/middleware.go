package idempotency

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"pharmacy-be/internal/auth"
	"pharmacy-be/internal/logger"
	"pharmacy-be/internal/utils"

	"go.uber.org/zap"
)

const (
	Header         = "Idempotency-Key"
	ReplayedHeader = "Idempotent-Replayed"

	DefaultTTL   = 24 * time.Hour
	maxKeyLength = 255

	// reserveTTL bounds how long a crashed request can hold its key.
	reserveTTL = 30 * time.Second
)

// Middleware replays the stored response of a POST already served for the
// same actor, path and Idempotency-Key. Only 2xx responses are stored so a
// rejected call can be retried. While the first request with a key is
// running, a repeat gets 409 instead of running the handler twice. Store
// failures never fail the request.
func Middleware(store Store, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(Header)
			if r.Method != http.MethodPost || key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > maxKeyLength {
				utils.WriteJSONError(w, "idempotency key too long", http.StatusBadRequest)
				return
			}

			ctx := r.Context()
			log := logger.FromCtx(ctx).With(zap.String("layer", "idempotency"))

			actor, _ := auth.ActorFrom(ctx)
			storeKey := fmt.Sprintf("%d:%s:%s", actor.UserID, r.URL.Path, key)

			if replay(ctx, w, store, storeKey, log) {
				return
			}

			reserved, err := store.Reserve(ctx, storeKey, reserveTTL)
			switch {
			case err != nil:
				log.Warn("idempotency reserve failed", zap.Error(err))
			case !reserved:
				utils.WriteJSONError(w, "a request with this idempotency key is in progress", http.StatusConflict)
				return
			default:
				defer func() {
					if err := store.Release(ctx, storeKey); err != nil {
						log.Warn("idempotency release failed", zap.Error(err))
					}
				}()
				// The holder may have stored and released between the
				// first lookup and the reservation.
				if replay(ctx, w, store, storeKey, log) {
					return
				}
			}

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status < 200 || rec.status >= 300 {
				return
			}

			resp := &Response{
				Status:      rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			}
			if err := store.Set(ctx, storeKey, resp, ttl); err != nil {
				log.Warn("idempotency store failed", zap.Error(err))
			}
		})
	}
}

// replay writes the stored response for key and reports whether there was
// one.
func replay(ctx context.Context, w http.ResponseWriter, store Store, key string, log *zap.Logger) bool {
	cached, err := store.Get(ctx, key)
	if err != nil {
		log.Warn("idempotency lookup failed", zap.Error(err))
	}
	if cached == nil {
		return false
	}

	if cached.ContentType != "" {
		w.Header().Set("Content-Type", cached.ContentType)
	}
	w.Header().Set(ReplayedHeader, "true")
	w.WriteHeader(cached.Status)
	_, _ = w.Write(cached.Body)
	return true
}

type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
