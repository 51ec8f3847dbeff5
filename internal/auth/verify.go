package auth

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vbncursed/vkr/coffee-shop/internal/crypto"
)

type VerifierOption func(*Verifier)

// WithLeeway — допуск расхождения часов для exp/nbf
func WithLeeway(d time.Duration) VerifierOption {
	return func(v *Verifier) { v.leeway = d }
}

func WithVerifierClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) { v.now = now }
}

// Verifier проверяет подпись и registered claims токена
type Verifier struct {
	issuer   string
	audience string
	algs     []string
	leeway   time.Duration
	now      func() time.Time
}

func NewVerifier(issuer, audience string, algs []string, opts ...VerifierOption) (*Verifier, error) {
	if issuer == "" {
		return nil, errors.New("issuer is required")
	}
	if audience == "" {
		return nil, errors.New("audience is required")
	}
	if len(algs) == 0 {
		return nil, errors.New("at least one algorithm is required")
	}
	for _, a := range algs {
		if strings.EqualFold(a, "none") || jwt.GetSigningMethod(a) == nil {
			return nil, fmt.Errorf("unsupported algorithm %q", a)
		}
	}
	v := &Verifier{
		issuer:   issuer,
		audience: audience,
		algs:     slices.Clone(algs),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

func (v *Verifier) Issuer() string { return v.issuer }

func (v *Verifier) Audience() string { return v.audience }

func (v *Verifier) Algorithms() []string { return slices.Clone(v.algs) }

// CheckAlgorithm — alg из заголовка должен быть в разрешённом списке; "none" запрещён всегда
func (v *Verifier) CheckAlgorithm(alg string) error {
	if alg == "" || strings.EqualFold(alg, "none") || !slices.Contains(v.algs, alg) {
		return newFailure(ErrUnsupportedAlgorithm, fmt.Errorf("alg %q", alg))
	}
	return nil
}

// Verify проверяет подпись ключом key, затем iss/aud/exp/nbf.
// Ошибки: ErrMalformedToken, ErrUnsupportedAlgorithm, ErrInvalidSignature, ErrInvalidClaims.
// Истёкший токен всегда ErrInvalidClaims, какой бы ни была подпись.
func (v *Verifier) Verify(raw string, key Key) (*Claims, error) {
	hdr, err := crypto.DecodeHeader(raw)
	if err != nil {
		return nil, newFailure(ErrMalformedToken, err)
	}
	if err := v.CheckAlgorithm(hdr.Alg); err != nil {
		return nil, err
	}
	if key.Public == nil {
		return nil, v.signatureFailure(raw, errors.New("no verification key"))
	}
	if key.ID != "" && key.ID != hdr.Kid {
		return nil, v.signatureFailure(raw, fmt.Errorf("key %q does not match kid %q", key.ID, hdr.Kid))
	}
	if key.Algorithm != "" && key.Algorithm != hdr.Alg {
		return nil, v.signatureFailure(raw, fmt.Errorf("key %q is for %s, token uses %s", key.ID, key.Algorithm, hdr.Alg))
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods(v.algs),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
	)
	claims := &Claims{}
	if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return key.Public, nil
	}); err != nil {
		return nil, v.classify(raw, err)
	}
	return claims, nil
}

func (v *Verifier) classify(raw string, err error) *Failure {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return newFailure(ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenInvalidClaims):
		return newFailure(ErrInvalidClaims, err)
	default:
		return v.signatureFailure(raw, err)
	}
}

func (v *Verifier) signatureFailure(raw string, cause error) *Failure {
	if v.expired(raw) {
		return newFailure(ErrInvalidClaims, fmt.Errorf("token is expired: %w", cause))
	}
	return newFailure(ErrInvalidSignature, cause)
}

// expired — exp из непроверенного payload; claims отсюда никуда не уходят
func (v *Verifier) expired(raw string) bool {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &rc); err != nil || rc.ExpiresAt == nil {
		return false
	}
	return !v.now().Before(rc.ExpiresAt.Add(v.leeway))
}
