package crypto

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed — токен не является compact JWS
var ErrMalformed = errors.New("malformed compact jws")

type JWSHeader struct {
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	Typ string `json:"typ,omitempty"`
}

// DecodeHeader разбирает compact JWS без проверки подписи и возвращает только заголовок.
// Payload декодируется лишь для проверки формы и наружу не отдаётся.
func DecodeHeader(compact string) (JWSHeader, error) {
	parts := strings.Split(compact, ".")
	if len(parts) != 3 {
		return JWSHeader{}, fmt.Errorf("%w: want 3 segments, got %d", ErrMalformed, len(parts))
	}
	if parts[0] == "" || parts[1] == "" {
		return JWSHeader{}, fmt.Errorf("%w: empty segment", ErrMalformed)
	}

	hdrB, err := decodeSegment(parts[0])
	if err != nil {
		return JWSHeader{}, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}
	var hdr JWSHeader
	if err := decodeObject(hdrB, &hdr); err != nil {
		return JWSHeader{}, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}

	payloadB, err := decodeSegment(parts[1])
	if err != nil {
		return JWSHeader{}, fmt.Errorf("%w: payload: %v", ErrMalformed, err)
	}
	var payload map[string]json.RawMessage
	if err := decodeObject(payloadB, &payload); err != nil {
		return JWSHeader{}, fmt.Errorf("%w: payload: %v", ErrMalformed, err)
	}

	// подпись может быть пустой (alg=none), но должна быть корректным base64url
	if _, err := decodeSegment(parts[2]); err != nil {
		return JWSHeader{}, fmt.Errorf("%w: signature: %v", ErrMalformed, err)
	}
	return hdr, nil
}

func decodeSegment(seg string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(seg, "="))
}

func decodeObject(b []byte, v any) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return errors.New("not a json object")
	}
	return json.Unmarshal(b, v)
}
