// Package authtest — тестовый эмитент: RSA-ключ, JWKS и OIDC discovery на httptest.Server.
package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultAudience = "coffee"
	DefaultKeyID    = "test-key-1"
	jwksPath        = "/.well-known/jwks.json"
	discoveryPath   = "/.well-known/openid-configuration"
)

// Issuer — эмитент токенов для тестов
type Issuer struct {
	Server   *httptest.Server
	Key      *rsa.PrivateKey
	KeyID    string
	Issuer   string
	Audience string

	fetches atomic.Int32

	mu     sync.Mutex
	status int
	delay  time.Duration
	jwks   []byte
}

func NewIssuer(t testing.TB) *Issuer {
	t.Helper()
	key := GenerateKey(t)
	i := &Issuer{Key: key, KeyID: DefaultKeyID, Audience: DefaultAudience, status: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc(jwksPath, i.serveJWKS)
	mux.HandleFunc(discoveryPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                                i.Issuer,
			"jwks_uri":                              i.JWKSURL(),
			"authorization_endpoint":                i.Server.URL + "/authorize",
			"token_endpoint":                        i.Server.URL + "/oauth/token",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})
	i.Server = httptest.NewServer(mux)
	t.Cleanup(i.Server.Close)

	i.Issuer = i.Server.URL + "/"
	i.jwks = KeySetJSON(t, i.KeyID, &key.PublicKey)
	return i
}

// GenerateKey — RSA 2048 для подписи тестовых токенов
func GenerateKey(t testing.TB) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	return key
}

// KeySetJSON — JWKS-документ из одного публичного ключа
func KeySetJSON(t testing.TB, kid string, pub any) []byte {
	t.Helper()
	set := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{
		Key:       pub,
		KeyID:     kid,
		Algorithm: string(jose.RS256),
		Use:       "sig",
	}}}
	b, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal jwks: %v", err)
	}
	return b
}

func (i *Issuer) serveJWKS(w http.ResponseWriter, r *http.Request) {
	i.fetches.Add(1)
	i.mu.Lock()
	status, delay, body := i.status, i.delay, i.jwks
	i.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (i *Issuer) JWKSURL() string { return i.Server.URL + jwksPath }

// Fetches — сколько раз запрашивали JWKS
func (i *Issuer) Fetches() int { return int(i.fetches.Load()) }

// SetStatus — код ответа JWKS; всё кроме 200 отдаётся без тела
func (i *Issuer) SetStatus(code int) {
	i.mu.Lock()
	i.status = code
	i.mu.Unlock()
}

func (i *Issuer) SetDelay(d time.Duration) {
	i.mu.Lock()
	i.delay = d
	i.mu.Unlock()
}

// SetJWKS подменяет отдаваемый документ
func (i *Issuer) SetJWKS(doc []byte) {
	i.mu.Lock()
	i.jwks = doc
	i.mu.Unlock()
}

// Claims — валидный набор claims на час вперёд; perms == nil означает отсутствие claim
func (i *Issuer) Claims(perms []string) jwt.MapClaims {
	now := time.Now()
	c := jwt.MapClaims{
		"iss": i.Issuer,
		"sub": "auth0|tester",
		"aud": []string{i.Audience},
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	if perms != nil {
		c["permissions"] = perms
	}
	return c
}

// Sign подписывает claims ключом эмитента (RS256, kid эмитента)
func (i *Issuer) Sign(t testing.TB, claims jwt.MapClaims) string {
	t.Helper()
	return SignWith(t, jwt.SigningMethodRS256, i.Key, i.KeyID, claims)
}

// Token — валидный токен с указанными permissions
func (i *Issuer) Token(t testing.TB, perms ...string) string {
	t.Helper()
	if perms == nil {
		perms = []string{}
	}
	return i.Sign(t, i.Claims(perms))
}

// SignWith — токен с произвольным методом, ключом и kid
func SignWith(t testing.TB, method jwt.SigningMethod, key any, kid string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(method, claims)
	if kid != "" {
		tok.Header["kid"] = kid
	}
	s, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}
