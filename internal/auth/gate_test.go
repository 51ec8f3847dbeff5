package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbncursed/vkr/coffee-shop/internal/auth/authtest"
)

func newTestGate(t *testing.T, iss *authtest.Issuer) *Gate {
	t.Helper()
	return NewGate(newResolver(t, iss.JWKSURL()), newTestVerifier(t, iss), nil)
}

func requireRejected(t *testing.T, err error, status int, kind error) {
	t.Helper()
	require.Error(t, err)
	f, ok := AsFailure(err)
	require.True(t, ok, "expected *Failure, got %T", err)
	assert.Equal(t, status, f.Status)
	assert.ErrorIs(t, f, kind)
}

func TestGate_AuthorizedForwardsClaims(t *testing.T) {
	iss := authtest.NewIssuer(t)
	gate := newTestGate(t, iss)

	claims, err := gate.Authorize(context.Background(), "Bearer "+iss.Token(t, "get:drinks-detail"), "get:drinks-detail")
	require.NoError(t, err)
	assert.Equal(t, []string{"get:drinks-detail"}, claims.Permissions)
	assert.Equal(t, "auth0|tester", claims.Subject)
}

func TestGate_PermissionDenied(t *testing.T) {
	iss := authtest.NewIssuer(t)
	gate := newTestGate(t, iss)

	_, err := gate.Authorize(context.Background(), "Bearer "+iss.Token(t, "get:drinks-detail"), "delete:drinks")
	requireRejected(t, err, http.StatusForbidden, ErrPermissionDenied)
}

func TestGate_SingleSegmentToken(t *testing.T) {
	iss := authtest.NewIssuer(t)
	gate := newTestGate(t, iss)

	_, err := gate.Authorize(context.Background(), "Bearer abc", "get:drinks-detail")
	requireRejected(t, err, http.StatusUnauthorized, ErrMalformedToken)
	assert.Equal(t, 0, iss.Fetches())
}

func TestGate_UnknownKid(t *testing.T) {
	iss := authtest.NewIssuer(t)
	gate := newTestGate(t, iss)

	token := authtest.SignWith(t, jwt.SigningMethodRS256, iss.Key, "not-published", iss.Claims([]string{"get:drinks-detail"}))
	_, err := gate.Authorize(context.Background(), "Bearer "+token, "get:drinks-detail")
	requireRejected(t, err, http.StatusUnauthorized, ErrKeyNotFound)
}

func TestGate_MalformedHeader(t *testing.T) {
	iss := authtest.NewIssuer(t)
	gate := newTestGate(t, iss)
	token := iss.Token(t, "get:drinks-detail")

	headers := map[string]string{
		"empty":        "",
		"no scheme":    token,
		"basic":        "Basic " + token,
		"double space": "Bearer  " + token,
		"three parts":  "Bearer " + token + " extra",
		"no token":     "Bearer ",
		"scheme only":  "Bearer",
	}
	for name, h := range headers {
		t.Run(name, func(t *testing.T) {
			_, err := gate.Authorize(context.Background(), h, "get:drinks-detail")
			requireRejected(t, err, http.StatusUnauthorized, ErrMissingOrMalformedHeader)
		})
	}
}

func TestGate_SchemeCaseInsensitive(t *testing.T) {
	iss := authtest.NewIssuer(t)
	gate := newTestGate(t, iss)

	for _, scheme := range []string{"bearer", "BEARER", "bEaReR"} {
		_, err := gate.Authorize(context.Background(), scheme+" "+iss.Token(t, "get:drinks-detail"), "get:drinks-detail")
		require.NoError(t, err, scheme)
	}
}

func TestGate_DisallowedAlgorithmSkipsKeyFetch(t *testing.T) {
	iss := authtest.NewIssuer(t)
	gate := newTestGate(t, iss)

	token := authtest.SignWith(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, iss.KeyID, iss.Claims([]string{"get:drinks-detail"}))
	_, err := gate.Authorize(context.Background(), "Bearer "+token, "get:drinks-detail")
	requireRejected(t, err, http.StatusUnauthorized, ErrUnsupportedAlgorithm)
	assert.Equal(t, 0, iss.Fetches())
}

func TestGate_ExpiredTokenRejected(t *testing.T) {
	iss := authtest.NewIssuer(t)
	gate := newTestGate(t, iss)

	c := iss.Claims([]string{"get:drinks-detail"})
	c["exp"] = int64(1)
	_, err := gate.Authorize(context.Background(), "Bearer "+iss.Sign(t, c), "get:drinks-detail")
	requireRejected(t, err, http.StatusUnauthorized, ErrInvalidClaims)
}

func TestGate_ExpiredTokenWithForeignSignature(t *testing.T) {
	iss := authtest.NewIssuer(t)
	gate := newTestGate(t, iss)

	c := iss.Claims([]string{"get:drinks-detail"})
	c["exp"] = int64(1)
	token := authtest.SignWith(t, jwt.SigningMethodRS256, authtest.GenerateKey(t), iss.KeyID, c)
	_, err := gate.Authorize(context.Background(), "Bearer "+token, "get:drinks-detail")
	requireRejected(t, err, http.StatusUnauthorized, ErrInvalidClaims)
}

func TestGate_MissingPermissionsClaim(t *testing.T) {
	iss := authtest.NewIssuer(t)
	gate := newTestGate(t, iss)

	_, err := gate.Authorize(context.Background(), "Bearer "+iss.Sign(t, iss.Claims(nil)), "get:drinks-detail")
	requireRejected(t, err, http.StatusForbidden, ErrClaimsMissingPermissions)
}

func TestGate_KeySetUnavailable(t *testing.T) {
	iss := authtest.NewIssuer(t)
	iss.SetStatus(http.StatusServiceUnavailable)
	gate := newTestGate(t, iss)

	_, err := gate.Authorize(context.Background(), "Bearer "+iss.Token(t, "get:drinks-detail"), "get:drinks-detail")
	requireRejected(t, err, http.StatusUnauthorized, ErrKeySetUnavailable)
}

type errKeySource struct{ err error }

func (s errKeySource) Resolve(context.Context, string) (Key, error) { return Key{}, s.err }

func TestGate_WrapsForeignErrors(t *testing.T) {
	iss := authtest.NewIssuer(t)
	gate := NewGate(errKeySource{err: errors.New("boom")}, newTestVerifier(t, iss), nil)

	_, err := gate.Authorize(context.Background(), "Bearer "+iss.Token(t, "get:drinks-detail"), "get:drinks-detail")
	requireRejected(t, err, http.StatusUnauthorized, ErrKeySetUnavailable)
}
