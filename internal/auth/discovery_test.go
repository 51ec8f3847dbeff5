package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbncursed/vkr/coffee-shop/internal/auth/authtest"
)

func TestDiscoverJWKSURL(t *testing.T) {
	iss := authtest.NewIssuer(t)

	url, err := DiscoverJWKSURL(context.Background(), iss.Issuer, iss.Server.Client())
	require.NoError(t, err)
	assert.Equal(t, iss.JWKSURL(), url)
}

func TestDiscoverJWKSURL_IssuerMismatch(t *testing.T) {
	iss := authtest.NewIssuer(t)

	_, err := DiscoverJWKSURL(context.Background(), iss.Server.URL+"/other/", nil)
	require.Error(t, err)
}
