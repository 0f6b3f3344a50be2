package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func runJWT(t *testing.T, key []byte, header string) (*Claims, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var got *Claims
	err := JWT(key)(func(c echo.Context) error {
		got = ClaimsFrom(c)
		return nil
	})(c)
	return got, err
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "want *echo.HTTPError, got %T", err)
	return he.Code
}

func TestJWT(t *testing.T) {
	key := []byte("signing-key")
	token, err := NewToken("Alice", key, time.Hour)
	require.NoError(t, err)

	claims, err := runJWT(t, key, token)
	require.NoError(t, err)
	require.Equal(t, "Alice", claims.Username)

	claims, err = runJWT(t, key, "Bearer "+token)
	require.NoError(t, err)
	require.Equal(t, "Alice", claims.Username)
}

func TestJWTRejects(t *testing.T) {
	key := []byte("signing-key")
	expired, err := NewToken("bob", key, -time.Hour)
	require.NoError(t, err)
	foreign, err := NewToken("bob", []byte("other"), time.Hour)
	require.NoError(t, err)

	_, err = runJWT(t, key, "")
	require.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = runJWT(t, key, "garbage")
	require.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = runJWT(t, key, expired)
	require.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	_, err = runJWT(t, key, foreign)
	require.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestUserHashFromUsername(t *testing.T) {
	key := []byte("k")
	require.Equal(t, UserHashFromUsername(" Alice ", key), UserHashFromUsername("alice", key))
	require.NotEqual(t, UserHashFromUsername("alice", key), UserHashFromUsername("alice", []byte("j")))
}
