package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/vbncursed/vkr/coffee-shop/internal/crypto"
	"github.com/vbncursed/vkr/coffee-shop/internal/util"
)

// Stage — докуда дошла проверка запроса
type Stage string

const (
	StageNoToken     Stage = "no_token"
	StageExtracted   Stage = "extracted"
	StageDecoded     Stage = "decoded"
	StageKeyResolved Stage = "key_resolved"
	StageVerified    Stage = "verified"
	StageAuthorized  Stage = "authorized"
)

// KeySource — откуда Gate берёт ключ по kid
type KeySource interface {
	Resolve(ctx context.Context, kid string) (Key, error)
}

// Gate — полная проверка запроса: заголовок, токен, ключ, подпись, claims, permission
type Gate struct {
	keys     KeySource
	verifier *Verifier
	logger   *zap.Logger
}

func NewGate(keys KeySource, verifier *Verifier, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{keys: keys, verifier: verifier, logger: logger}
}

// Authorize возвращает claims, если header несёт валидный токен с permission.
// Любая ошибка — *Failure.
func (g *Gate) Authorize(ctx context.Context, header, permission string) (*Claims, error) {
	token, err := ExtractBearer(header)
	if err != nil {
		return nil, g.reject(StageNoToken, permission, err, ErrMissingOrMalformedHeader)
	}

	hdr, err := crypto.DecodeHeader(token)
	if err != nil {
		return nil, g.reject(StageExtracted, permission, err, ErrMalformedToken)
	}
	if err := g.verifier.CheckAlgorithm(hdr.Alg); err != nil {
		return nil, g.reject(StageExtracted, permission, err, ErrUnsupportedAlgorithm)
	}

	key, err := g.keys.Resolve(ctx, hdr.Kid)
	if err != nil {
		return nil, g.reject(StageDecoded, permission, err, ErrKeySetUnavailable)
	}

	claims, err := g.verifier.Verify(token, key)
	if err != nil {
		return nil, g.reject(StageKeyResolved, permission, err, ErrInvalidSignature)
	}

	if err := CheckPermission(claims, permission); err != nil {
		return nil, g.reject(StageVerified, permission, err, ErrPermissionDenied)
	}
	g.logger.Debug("authorized",
		zap.String("stage", string(StageAuthorized)),
		zap.String("permission", permission),
		zap.String("subject", util.SubjectHint(claims.Subject)),
	)
	return claims, nil
}

func (g *Gate) reject(stage Stage, permission string, err error, fallback error) *Failure {
	f, ok := AsFailure(err)
	if !ok {
		f = newFailure(fallback, err)
	}
	g.logger.Info("authorization rejected",
		zap.String("stage", string(stage)),
		zap.String("code", f.Code()),
		zap.Int("status", f.Status),
		zap.String("permission", permission),
		zap.Error(err),
	)
	return f
}

// ExtractBearer — токен из "Bearer <token>": ровно две части через один пробел
func ExtractBearer(header string) (string, error) {
	if header == "" {
		return "", newFailure(ErrMissingOrMalformedHeader, errors.New("authorization header is expected"))
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 {
		return "", newFailure(ErrMissingOrMalformedHeader, errors.New("authorization header must have exactly two parts"))
	}
	if !strings.EqualFold(parts[0], "bearer") {
		return "", newFailure(ErrMissingOrMalformedHeader, errors.New("authorization header must start with Bearer"))
	}
	if parts[1] == "" {
		return "", newFailure(ErrMissingOrMalformedHeader, errors.New("token not found"))
	}
	return parts[1], nil
}
