package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"perfreview/internal/domain/review"
)

const (
	IdempotencyHeader       = "Idempotency-Key"
	maxIdempotencyKeyLength = 200
	DefaultIdempotencyTTL   = 24 * time.Hour
)

var (
	ErrIdempotencyConflict   = errors.New("idempotency key conflicts with existing request")
	ErrInvalidIdempotencyKey = errors.New("idempotency key must be at most 200 characters")
)

// IdempotencyKey scopes a client-chosen key to the acting user and endpoint.
type IdempotencyKey struct {
	UserID   review.UserID
	Endpoint string
	Key      string
}

// IdempotencyKeyFrom reads the Idempotency-Key header. ok is false when the
// client sent none.
func IdempotencyKeyFrom(r *http.Request, userID review.UserID, endpoint string) (key IdempotencyKey, ok bool, err error) {
	raw := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
	if raw == "" {
		return IdempotencyKey{}, false, nil
	}
	if len(raw) > maxIdempotencyKeyLength {
		return IdempotencyKey{}, false, ErrInvalidIdempotencyKey
	}
	return IdempotencyKey{UserID: userID, Endpoint: endpoint, Key: raw}, true, nil
}

// RequestHash fingerprints the request. Parts are length-prefixed so that
// ("ab","c") and ("a","bc") differ.
func RequestHash(parts ...[]byte) string {
	h := sha256.New()
	var size [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(size[:], uint64(len(p)))
		h.Write(size[:])
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// IdempotencyStore remembers the response of a keyed request for ttl.
type IdempotencyStore struct {
	db  *pgxpool.Pool
	ttl time.Duration
}

func NewIdempotencyStore(db *pgxpool.Pool, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyStore{db: db, ttl: ttl}
}

// Check returns the stored response for key. A live key reused with a
// different payload is a conflict; an expired one is a miss.
func (s *IdempotencyStore) Check(ctx context.Context, key IdempotencyKey, requestHash string) (json.RawMessage, bool, error) {
	if s == nil || s.db == nil {
		return nil, false, nil
	}
	var storedHash string
	var stored json.RawMessage
	err := s.db.QueryRow(ctx, `
    SELECT request_hash, response_json
    FROM idempotency_keys
    WHERE user_id = $1 AND endpoint = $2 AND key = $3
      AND created_at > now() - make_interval(secs => $4)
  `, key.UserID.UUID(), key.Endpoint, key.Key, s.ttl.Seconds()).Scan(&storedHash, &stored)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, gerrors.Wrap(err, "check idempotency key")
	}
	if storedHash != requestHash {
		return nil, false, ErrIdempotencyConflict
	}
	return stored, true, nil
}

// Save stores the response. An expired row under the same key is replaced.
func (s *IdempotencyStore) Save(ctx context.Context, key IdempotencyKey, requestHash string, response json.RawMessage) error {
	if s == nil || s.db == nil {
		return nil
	}
	tag, err := s.db.Exec(ctx, `
    INSERT INTO idempotency_keys (user_id, endpoint, key, request_hash, response_json)
    VALUES ($1, $2, $3, $4, $5)
    ON CONFLICT (user_id, key, endpoint)
    DO UPDATE SET request_hash = EXCLUDED.request_hash, response_json = EXCLUDED.response_json, created_at = now()
    WHERE idempotency_keys.request_hash = EXCLUDED.request_hash
       OR idempotency_keys.created_at <= now() - make_interval(secs => $6)
  `, key.UserID.UUID(), key.Endpoint, key.Key, requestHash, response, s.ttl.Seconds())
	if err != nil {
		return gerrors.Wrap(err, "save idempotency key")
	}
	if tag.RowsAffected() == 0 {
		return ErrIdempotencyConflict
	}
	return nil
}
