package jwtdissect

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildJWT(t *testing.T, header, payload map[string]any) string {
	t.Helper()
	hb, err := json.Marshal(header)
	require.NoError(t, err)
	pb, err := json.Marshal(payload)
	require.NoError(t, err)
	enc := base64.RawURLEncoding
	return enc.EncodeToString(hb) + "." + enc.EncodeToString(pb) + ".signature-not-checked-here"
}

func TestDissectValidJWT(t *testing.T) {
	jwtStr := buildJWT(t,
		map[string]any{"alg": "RS256", "kid": "abc123", "typ": "JWT"},
		map[string]any{"iss": "https://accounts.google.com", "aud": "client.example.com", "sub": "11104", "nonce": "n0nce"},
	)

	d, err := Dissect(jwtStr)
	require.NoError(t, err)
	assert.Equal(t, "RS256", d.Header.Alg)
	assert.Equal(t, "abc123", d.Header.Kid)
	assert.Equal(t, "11104", d.Payload.Sub)
	assert.Equal(t, "n0nce", d.Payload.Nonce)
}

func TestDissectRejectsMalformedSegments(t *testing.T) {
	_, err := Dissect("not.a.jwt.really")
	assert.Error(t, err)

	_, err = Dissect("onlyoneseg")
	assert.Error(t, err)
}

func TestDissectRejectsMissingClaim(t *testing.T) {
	jwtStr := buildJWT(t,
		map[string]any{"alg": "RS256", "kid": "abc123"},
		map[string]any{"iss": "https://accounts.google.com", "aud": "client.example.com", "sub": "11104"},
	)
	_, err := Dissect(jwtStr)
	assert.Error(t, err)
}

func TestExtractClaimLocatesSubField(t *testing.T) {
	pb := []byte(`{"iss":"https://accounts.google.com","aud":"client.example.com","sub":"11104","nonce":"n0nce"}`)

	loc, err := ExtractClaim(pb, 20, "sub", 126)
	require.NoError(t, err)

	assert.Equal(t, `"sub":"11104",`, string(loc.Value))
	assert.Equal(t, 5, loc.NameLen)
	assert.Equal(t, 5, loc.ColonIndex)
	assert.Equal(t, 6, loc.ValueIndex)
	assert.Equal(t, 126, len(loc.Padded))
	assert.True(t, loc.B64Size > 0)
}

func TestExtractClaimMissingFieldErrors(t *testing.T) {
	pb := []byte(`{"iss":"x","aud":"y"}`)
	_, err := ExtractClaim(pb, 10, "sub", 126)
	assert.Error(t, err)
}
