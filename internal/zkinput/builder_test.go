package zkinput

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kzero-xyz/kzero-service/pkg/reasoncodes"
)

// baseEphemeralKey and altEphemeralKey are two distinct valid 32-byte
// hex-encoded Ed25519 public keys, built with strings.Repeat rather than
// hand-counted literals so their length is verifiably exactly 64 hex chars.
var (
	baseEphemeralKey = "0x" + strings.Repeat("fa", 32)
	altEphemeralKey  = "0x" + strings.Repeat("ab", 32)
)

const (
	testKid = "c7e04465649ffa606557650c7e65f0a87ae00fe8"
	testIss = "https://accounts.google.com"
	testAud = "test-client.apps.googleusercontent.com"
	testSub = "110620695567253000001"
	testNon = "tVEDKlMkJkKh-sb30yM5d7HysQg"
)

// buildFixtureJWT assembles an unsigned-segment-valid JWT whose payload
// claims are ordered so that sub, nonce, aud, and iss are each followed by
// a comma, matching what ExtractClaim requires. The signature segment
// does not need to verify against anything; the builder never checks it.
func buildFixtureJWT(t *testing.T, kid, iss, aud, sub, nonce string) string {
	t.Helper()

	header := struct {
		Alg string `json:"alg"`
		Kid string `json:"kid"`
		Typ string `json:"typ"`
	}{"RS256", kid, "JWT"}
	headerJSON, err := json.Marshal(header)
	require.NoError(t, err)

	payloadJSON := []byte(`{"iss":"` + iss + `","aud":"` + aud + `","sub":"` + sub + `","nonce":"` + nonce + `","iat":1700000000,"exp":1700003600}`)

	sigBytes := make([]byte, 256)
	for i := range sigBytes {
		sigBytes[i] = byte(255 - i)
	}

	headerB64 := base64.RawURLEncoding.EncodeToString(headerJSON)
	payloadB64 := base64.RawURLEncoding.EncodeToString(payloadJSON)
	sigB64 := base64.RawURLEncoding.EncodeToString(sigBytes)

	return headerB64 + "." + payloadB64 + "." + sigB64
}

func testJWKS(kid string) []JWKSEntry {
	nBytes := make([]byte, 256)
	for i := range nBytes {
		nBytes[i] = byte(i)
	}
	return []JWKSEntry{
		{
			Kty: "RSA",
			Kid: kid,
			N:   base64.RawURLEncoding.EncodeToString(nBytes),
			E:   "AQAB",
			Alg: "RS256",
			Use: "sig",
		},
	}
}

func baseParams(t *testing.T) BuildParams {
	t.Helper()
	return BuildParams{
		JWT:                buildFixtureJWT(t, testKid, testIss, testAud, testSub, testNon),
		Salt:               "25299916604528864863320632865981",
		EphemeralPublicKey: baseEphemeralKey,
		MaxEpoch:           "1",
		Randomness:         "29229108527107981601948220068988",
		JWKSEntries:        testJWKS(testKid),
	}
}

// Scenario A.
func TestBuildValidJWTSucceeds(t *testing.T) {
	result, err := Build(baseParams(t))
	require.NoError(t, err)

	assert.NotEmpty(t, result.Inputs.AllInputsHash)
	assert.NotEmpty(t, result.Fields.AddressSeed)
	assert.NotEmpty(t, result.Fields.Header)
	assert.Contains(t, []int{0, 1, 2, 3}, result.Fields.IssBase64Details.IndexMod4)

	assert.Len(t, result.Inputs.PaddedUnsignedJWT, ShaPaddedJWTLen)
	assert.Len(t, result.Inputs.Modulus, RSALimbCount)
	assert.Len(t, result.Inputs.Signature, RSALimbCount)
	assert.Len(t, result.Inputs.ExtKC, SubPadLen)
	assert.Len(t, result.Inputs.ExtNonce, NoncePadLen)
	assert.Len(t, result.Inputs.ExtEV, EVPadLen)
	assert.Len(t, result.Inputs.ExtAud, AudPadLen)
}

// Scenario B.
func TestBuildUnknownKidFails(t *testing.T) {
	params := baseParams(t)
	params.JWKSEntries = testJWKS("a-different-kid")

	_, err := Build(params)
	require.Error(t, err)

	var kzErr *reasoncodes.KzeroError
	require.True(t, errors.As(err, &kzErr))
	assert.Equal(t, reasoncodes.ErrUnknownKid, kzErr.Code)
}

func TestBuildIsDeterministic(t *testing.T) {
	params := baseParams(t)

	first, err := Build(params)
	require.NoError(t, err)
	second, err := Build(params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// address_seed depends only on (kc_name, sub, aud, salt); it must be
// invariant under everything else the builder consumes.
func TestAddressSeedInvariantUnderEphemeralParams(t *testing.T) {
	base := baseParams(t)
	baseResult, err := Build(base)
	require.NoError(t, err)

	variants := []BuildParams{base, base, base}
	variants[0].MaxEpoch = "42"
	variants[1].Randomness = "1"
	variants[2].EphemeralPublicKey = altEphemeralKey

	for i, v := range variants {
		result, err := Build(v)
		require.NoError(t, err)
		assert.Equal(t, baseResult.Fields.AddressSeed, result.Fields.AddressSeed)
		if i == 1 {
			// jwt_randomness is not one of all_inputs_hash's eight inputs.
			assert.Equal(t, baseResult.Inputs.AllInputsHash, result.Inputs.AllInputsHash)
		} else {
			assert.NotEqual(t, baseResult.Inputs.AllInputsHash, result.Inputs.AllInputsHash)
		}
	}
}

func TestAllInputsHashSensitiveToEphemeralKey(t *testing.T) {
	base := baseParams(t)
	baseResult, err := Build(base)
	require.NoError(t, err)

	changed := base
	changed.EphemeralPublicKey = altEphemeralKey
	changedResult, err := Build(changed)
	require.NoError(t, err)

	assert.NotEqual(t, baseResult.Inputs.AllInputsHash, changedResult.Inputs.AllInputsHash)
}

func TestAllInputsHashSensitiveToMaxEpoch(t *testing.T) {
	base := baseParams(t)
	baseResult, err := Build(base)
	require.NoError(t, err)

	changed := base
	changed.MaxEpoch = "2"
	changedResult, err := Build(changed)
	require.NoError(t, err)

	assert.NotEqual(t, baseResult.Inputs.AllInputsHash, changedResult.Inputs.AllInputsHash)
}

func TestAllInputsHashSensitiveToIssuer(t *testing.T) {
	base := baseParams(t)
	baseResult, err := Build(base)
	require.NoError(t, err)

	changed := base
	changed.JWT = buildFixtureJWT(t, testKid, "https://id.example.org", testAud, testSub, testNon)
	changedResult, err := Build(changed)
	require.NoError(t, err)

	assert.NotEqual(t, baseResult.Inputs.AllInputsHash, changedResult.Inputs.AllInputsHash)
	// address_seed is deterministic in (kc_name, sub, aud, salt) alone; an
	// issuer change with sub/aud/salt held constant must not move it.
	assert.Equal(t, baseResult.Fields.AddressSeed, changedResult.Fields.AddressSeed)
}

func TestAllInputsHashSensitiveToModulus(t *testing.T) {
	base := baseParams(t)
	baseResult, err := Build(base)
	require.NoError(t, err)

	changed := base
	nBytes := make([]byte, 256)
	for i := range nBytes {
		nBytes[i] = byte(255 - i)
	}
	changed.JWKSEntries = []JWKSEntry{{Kty: "RSA", Kid: testKid, N: base64.RawURLEncoding.EncodeToString(nBytes), E: "AQAB", Alg: "RS256", Use: "sig"}}
	changedResult, err := Build(changed)
	require.NoError(t, err)

	assert.NotEqual(t, baseResult.Inputs.AllInputsHash, changedResult.Inputs.AllInputsHash)
}
