package auth

import (
	"errors"
	"net/http"
)

// Таксономия ошибок авторизации: любой отказ Gate оборачивает ровно одну из них в *Failure
var (
	ErrMissingOrMalformedHeader = errors.New("missing_or_malformed_header")
	ErrMalformedToken           = errors.New("malformed_token")
	ErrKeySetUnavailable        = errors.New("key_set_unavailable")
	ErrKeyNotFound              = errors.New("key_not_found")
	ErrInvalidSignature         = errors.New("invalid_signature")
	ErrInvalidClaims            = errors.New("invalid_claims")
	ErrUnsupportedAlgorithm     = errors.New("unsupported_algorithm")
	ErrPermissionDenied         = errors.New("permission_denied")
	ErrClaimsMissingPermissions = errors.New("claims_missing_permissions")
)

type kindInfo struct {
	status      int
	description string
}

var kinds = map[error]kindInfo{
	ErrMissingOrMalformedHeader: {http.StatusUnauthorized, "Authorization header must be of the form 'Bearer <token>'."},
	ErrMalformedToken:           {http.StatusUnauthorized, "Unable to parse authentication token."},
	ErrKeySetUnavailable:        {http.StatusUnauthorized, "Unable to obtain signing keys."},
	ErrKeyNotFound:              {http.StatusUnauthorized, "Unable to find the appropriate key."},
	ErrInvalidSignature:         {http.StatusUnauthorized, "Token signature is invalid."},
	ErrInvalidClaims:            {http.StatusUnauthorized, "Incorrect claims. Please, check the audience, issuer and expiry."},
	ErrUnsupportedAlgorithm:     {http.StatusUnauthorized, "Token signing algorithm is not allowed."},
	ErrPermissionDenied:         {http.StatusForbidden, "Permission not found."},
	ErrClaimsMissingPermissions: {http.StatusForbidden, "Permissions not included in token."},
}

// Failure — отказ в авторизации. Status и Description можно отдавать клиенту,
// cause пишется только в лог.
type Failure struct {
	Kind        error
	Status      int
	Description string
	cause       error
}

func newFailure(kind error, cause error) *Failure {
	info, ok := kinds[kind]
	if !ok {
		kind = ErrMalformedToken
		info = kinds[kind]
	}
	return &Failure{Kind: kind, Status: info.status, Description: info.description, cause: cause}
}

func (f *Failure) Error() string {
	if f.cause == nil {
		return f.Kind.Error()
	}
	return f.Kind.Error() + ": " + f.cause.Error()
}

// Code — метка категории для клиента
func (f *Failure) Code() string { return f.Kind.Error() }

func (f *Failure) Unwrap() []error {
	if f.cause == nil {
		return []error{f.Kind}
	}
	return []error{f.Kind, f.cause}
}

// AsFailure достаёт *Failure из цепочки ошибок
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
