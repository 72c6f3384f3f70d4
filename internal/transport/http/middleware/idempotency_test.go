package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"perfreview/internal/domain/review"
)

func TestRequestHashSeparatesParts(t *testing.T) {
	require.Equal(t, RequestHash([]byte("payload")), RequestHash([]byte("payload")))
	require.NotEqual(t, RequestHash([]byte("payload")), RequestHash([]byte("other")))
	require.NotEqual(t, RequestHash([]byte("ab"), []byte("c")), RequestHash([]byte("a"), []byte("bc")))
}

func TestIdempotencyKeyFrom(t *testing.T) {
	userID := review.NewUserID()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	_, ok, err := IdempotencyKeyFrom(req, userID, "peer_feedback.submit")
	require.NoError(t, err)
	require.False(t, ok)

	req.Header.Set(IdempotencyHeader, "  abc  ")
	key, ok, err := IdempotencyKeyFrom(req, userID, "peer_feedback.submit")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, IdempotencyKey{UserID: userID, Endpoint: "peer_feedback.submit", Key: "abc"}, key)

	req.Header.Set(IdempotencyHeader, strings.Repeat("k", maxIdempotencyKeyLength+1))
	_, _, err = IdempotencyKeyFrom(req, userID, "peer_feedback.submit")
	require.ErrorIs(t, err, ErrInvalidIdempotencyKey)
}

func TestNilIdempotencyStoreIsNoop(t *testing.T) {
	var store *IdempotencyStore
	key := IdempotencyKey{UserID: review.NewUserID(), Endpoint: "e", Key: "k"}

	_, found, err := store.Check(context.Background(), key, "h")
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, store.Save(context.Background(), key, "h", nil))
}

func TestNewIdempotencyStoreDefaultsTTL(t *testing.T) {
	require.Equal(t, DefaultIdempotencyTTL, NewIdempotencyStore(nil, 0).ttl)
}
