// devtoken — локальный эмитент для разработки: RSA-ключ, JWKS, OIDC discovery и RS256 access token.
package main

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vbncursed/vkr/coffee-shop/internal/logging"
)

func main() {
	var (
		keyPath  string
		kid      string
		issuer   string
		audience string
		subject  string
		perms    string
		ttl      time.Duration
		jwksOut  string
		serve    string
	)
	flag.StringVar(&keyPath, "key", "devtoken.pem", "RSA private key (PEM); created if missing")
	flag.StringVar(&kid, "kid", "dev-key-1", "key id")
	flag.StringVar(&issuer, "issuer", "http://localhost:9000/", "iss claim, must match AUTH0_DOMAIN of the service")
	flag.StringVar(&audience, "audience", "coffee", "aud claim")
	flag.StringVar(&subject, "sub", "auth0|dev", "sub claim")
	flag.StringVar(&perms, "perms", "get:drinks-detail,post:drinks,patch:drinks,delete:drinks", "comma-separated permissions")
	flag.DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	flag.StringVar(&jwksOut, "jwks-out", "", "write JWKS to this file")
	flag.StringVar(&serve, "serve", "", "serve JWKS and discovery on this address, e.g. :9000")
	flag.Parse()

	logger := logging.Must("info", true)
	defer func() { _ = logger.Sync() }()

	key, err := loadOrCreateKey(keyPath)
	if err != nil {
		logger.Fatal("key", zap.Error(err))
	}

	jwks, err := json.MarshalIndent(jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{
		Key:       &key.PublicKey,
		KeyID:     kid,
		Algorithm: string(jose.RS256),
		Use:       "sig",
	}}}, "", "  ")
	if err != nil {
		logger.Fatal("jwks", zap.Error(err))
	}
	if jwksOut != "" {
		if err := os.WriteFile(jwksOut, jwks, 0o644); err != nil {
			logger.Fatal("write jwks", zap.Error(err))
		}
		logger.Info("jwks written", zap.String("path", jwksOut))
	}

	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":         issuer,
		"sub":         subject,
		"aud":         []string{audience},
		"iat":         now.Unix(),
		"exp":         now.Add(ttl).Unix(),
		"permissions": splitPerms(perms),
	})
	tok.Header["kid"] = kid
	signed, err := tok.SignedString(key)
	if err != nil {
		logger.Fatal("sign", zap.Error(err))
	}
	fmt.Println(signed)

	if serve == "" {
		return
	}
	e := echo.New()
	e.HideBanner = true
	e.GET("/.well-known/jwks.json", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, jwks)
	})
	e.GET("/.well-known/openid-configuration", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"issuer":                                issuer,
			"jwks_uri":                              strings.TrimSuffix(issuer, "/") + "/.well-known/jwks.json",
			"authorization_endpoint":                strings.TrimSuffix(issuer, "/") + "/authorize",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})
	logger.Info("serving jwks", zap.String("addr", serve), zap.String("issuer", issuer))
	if err := e.Start(serve); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http", zap.Error(err))
	}
}

func splitPerms(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func loadOrCreateKey(path string) (*rsa.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err == nil {
		block, _ := pem.Decode(b)
		if block == nil {
			return nil, fmt.Errorf("%s: no PEM block", path)
		}
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	out := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return nil, err
	}
	return key, nil
}
