package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, secret, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub})
	raw, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func callProtected(t *testing.T, authHeader string) (*httptest.ResponseRecorder, interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID interface{}
	next := func(c echo.Context) error {
		gotUserID = c.Get("user_id")
		return c.NoContent(http.StatusNoContent)
	}
	require.NoError(t, RequireUser(testSecret)(next)(c))
	return rec, gotUserID
}

func TestRequireUserValidToken(t *testing.T) {
	rec, userID := callProtected(t, "Bearer "+signedToken(t, testSecret, "u1"))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "u1", userID)
}

func TestRequireUserMissingHeader(t *testing.T) {
	rec, userID := callProtected(t, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Nil(t, userID)
}

func TestRequireUserWrongSecret(t *testing.T) {
	rec, userID := callProtected(t, "Bearer "+signedToken(t, "other-secret", "u1"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Nil(t, userID)
}

func TestRequireUserMalformedToken(t *testing.T) {
	rec, userID := callProtected(t, "Bearer not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Nil(t, userID)
}
