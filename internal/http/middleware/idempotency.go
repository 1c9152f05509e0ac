package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kakunuriMahesh/doctor-appointments/pkg/logger"
)

const idempotencyTTL = 24 * time.Hour

// Idempotency replays the stored response for a repeated Idempotency-Key, so
// a retried booking POST cannot create a second appointment. Requests without
// the header pass through untouched; Redis outages fail open.
type Idempotency struct {
	rdb *redis.Client
}

func NewIdempotency(rdb *redis.Client) *Idempotency { return &Idempotency{rdb: rdb} }

type storedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

func (i *Idempotency) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("Idempotency-Key")
			if key == "" || i.rdb == nil {
				next.ServeHTTP(w, r)
				return
			}
			rkey := "idem:" + hashKey(key)

			if stored, ok := i.lookup(r.Context(), rkey); ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Idempotency-Replayed", "true")
				w.WriteHeader(stored.Status)
				w.Write(stored.Body)
				return
			}

			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			// Only successful creations are worth replaying; errors should
			// stay retryable.
			if rec.status >= 200 && rec.status < 300 {
				i.store(r.Context(), rkey, storedResponse{Status: rec.status, Body: rec.body.Bytes()})
			}
		})
	}
}

func (i *Idempotency) lookup(ctx context.Context, key string) (storedResponse, bool) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	raw, err := i.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return storedResponse{}, false
	}
	if err != nil {
		logger.WarnContext(ctx, "idempotency lookup failed", "error", err)
		return storedResponse{}, false
	}
	var stored storedResponse
	if err := json.Unmarshal(raw, &stored); err != nil {
		return storedResponse{}, false
	}
	return stored, true
}

func (i *Idempotency) store(ctx context.Context, key string, resp storedResponse) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := i.rdb.SetNX(ctx, key, raw, idempotencyTTL).Err(); err != nil {
		logger.WarnContext(ctx, "idempotency store failed", "error", err)
	}
}

func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", sum)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
