// Package jwtdissect splits a JWT into its three segments and locates the
// byte/base64 spans of individual claims within the payload. Every offset
// computed here eventually becomes a circuit input signal, so the
// algorithm is deliberately literal rather than "clean" — see
// ExtractClaim for why.
package jwtdissect

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kzero-xyz/kzero-service/pkg/reasoncodes"
)

// Header is the decoded JWT header; only the fields the builder needs.
type Header struct {
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	Typ string `json:"typ"`
}

// Payload carries the four claims the circuit constrains on; the raw
// decoded payload bytes live in Dissected.PayloadBin.
type Payload struct {
	Iss   string `json:"iss"`
	Aud   string `json:"aud"`
	Sub   string `json:"sub"`
	Nonce string `json:"nonce"`
}

// Dissected is the full result of splitting and decoding a JWT.
type Dissected struct {
	HeaderB64    string
	PayloadB64   string
	SignatureB64 string
	PayloadBin   []byte
	Header       Header
	Payload      Payload
}

// Dissect splits jwtStr into its three segments, base64url-decodes the
// header and payload, and validates the claims the builder requires are
// present. It never verifies the signature — that is the circuit's job.
func Dissect(jwtStr string) (*Dissected, error) {
	parts := strings.Split(jwtStr, ".")
	if len(parts) != 3 {
		return nil, reasoncodes.New(reasoncodes.ErrInvalidJwtShape, "jwt must have exactly three dot-separated segments")
	}

	headerB64, payloadB64, sigB64 := parts[0], parts[1], parts[2]

	headerBin, err := jwt.NewParser().DecodeSegment(headerB64)
	if err != nil {
		return nil, reasoncodes.Wrap(reasoncodes.ErrInvalidJwtShape, "header is not valid base64url", err)
	}
	var header Header
	if err := json.Unmarshal(headerBin, &header); err != nil {
		return nil, reasoncodes.Wrap(reasoncodes.ErrInvalidJwtShape, "header is not valid JSON", err)
	}
	if header.Alg == "" || header.Kid == "" {
		return nil, reasoncodes.New(reasoncodes.ErrMissingClaim, "header missing alg or kid")
	}

	payloadBin, err := decodeStandardBase64(payloadB64)
	if err != nil {
		return nil, reasoncodes.Wrap(reasoncodes.ErrInvalidJwtShape, "payload is not valid base64", err)
	}
	var payload Payload
	if err := json.Unmarshal(payloadBin, &payload); err != nil {
		return nil, reasoncodes.Wrap(reasoncodes.ErrInvalidJwtShape, "payload is not valid JSON", err)
	}
	if payload.Iss == "" {
		return nil, reasoncodes.New(reasoncodes.ErrMissingClaim, "iss")
	}
	if payload.Aud == "" {
		return nil, reasoncodes.New(reasoncodes.ErrMissingClaim, "aud")
	}
	if payload.Sub == "" {
		return nil, reasoncodes.New(reasoncodes.ErrMissingClaim, "sub")
	}
	if payload.Nonce == "" {
		return nil, reasoncodes.New(reasoncodes.ErrMissingClaim, "nonce")
	}

	return &Dissected{
		HeaderB64:    headerB64,
		PayloadB64:   payloadB64,
		SignatureB64: sigB64,
		PayloadBin:   payloadBin,
		Header:       header,
		Payload:      payload,
	}, nil
}

// decodeStandardBase64 restores the stripped '=' padding of payloadB64
// and decodes it with the padded base64url alphabet. For payloads with
// no '-'/'_' characters this gives the same bytes as padded standard
// base64; unlike standard base64, it also accepts '-' and '_'.
func decodeStandardBase64(s string) ([]byte, error) {
	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}
	return base64.URLEncoding.DecodeString(s)
}
