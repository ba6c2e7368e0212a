// Package zkinput composes the ~45 named circuit input signals and the
// address-seed bundle from a JWT, a salt, an ephemeral key, and a JWKS
// cache. Build is a pure function: same inputs, same JWKS entry, always
// the same output, byte for byte.
package zkinput

import (
	"encoding/base64"
	"math/big"
	"strconv"

	"github.com/kzero-xyz/kzero-service/internal/jwtdissect"
	"github.com/kzero-xyz/kzero-service/internal/poseidon"
	"github.com/kzero-xyz/kzero-service/pkg/reasoncodes"
)

// Build runs the full ZK input construction algorithm of §4.3.
func Build(p BuildParams) (*BuildResult, error) {
	dissected, err := jwtdissect.Dissect(p.JWT)
	if err != nil {
		return nil, err
	}

	jwks, err := resolveJWKS(dissected.Header.Kid, p.JWKSEntries)
	if err != nil {
		return nil, err
	}

	modulusLimbs, err := decodeRSALimbs(jwks.N)
	if err != nil {
		return nil, err
	}
	signatureLimbs, err := decodeRSALimbs(dissected.SignatureB64)
	if err != nil {
		return nil, err
	}

	shaPad, err := padUnsignedJWT(dissected.HeaderB64, dissected.PayloadB64)
	if err != nil {
		return nil, err
	}

	headerLen := len(dissected.HeaderB64)

	subLoc, err := jwtdissect.ExtractClaim(dissected.PayloadBin, headerLen, "sub", SubPadLen)
	if err != nil {
		return nil, err
	}
	nonceLoc, err := jwtdissect.ExtractClaim(dissected.PayloadBin, headerLen, "nonce", NoncePadLen)
	if err != nil {
		return nil, err
	}
	evLoc, err := jwtdissect.ExtractClaim(dissected.PayloadBin, headerLen, "nonce", EVPadLen)
	if err != nil {
		return nil, err
	}
	audLoc, err := jwtdissect.ExtractClaim(dissected.PayloadBin, headerLen, "aud", AudPadLen)
	if err != nil {
		return nil, err
	}
	issLoc, err := jwtdissect.ExtractClaim(dissected.PayloadBin, headerLen, "iss", 0)
	if err != nil {
		return nil, err
	}

	ephLimbs, err := ephPublicKeyLimbs(p.EphemeralPublicKey)
	if err != nil {
		return nil, err
	}

	issSubstr := p.JWT[issLoc.B64Start : issLoc.B64Start+issLoc.B64Size]
	issFieldF, err := fieldHashASCII(issSubstr, IssHashPad)
	if err != nil {
		return nil, err
	}
	kcNameF, err := fieldHashASCII("sub", KcNameHashPad)
	if err != nil {
		return nil, err
	}
	kcValueF, err := fieldHashASCII(dissected.Payload.Sub, KcValueHashPad)
	if err != nil {
		return nil, err
	}
	audValueF, err := fieldHashASCII(dissected.Payload.Aud, AudValueHashPad)
	if err != nil {
		return nil, err
	}
	headerF, err := fieldHashASCII(dissected.HeaderB64, HeaderHashPad)
	if err != nil {
		return nil, err
	}
	modulusF, err := fieldHashLimbs(modulusLimbs)
	if err != nil {
		return nil, err
	}

	saltInt := new(big.Int).SetBytes([]byte(p.Salt))
	saltHash, err := poseidon.Hash([]*big.Int{saltInt})
	if err != nil {
		return nil, err
	}
	addressSeed, err := poseidon.Hash([]*big.Int{kcNameF, kcValueF, audValueF, saltHash})
	if err != nil {
		return nil, err
	}

	issModRaw := issLoc.B64Start - (headerLen + 1)
	issMod4 := ((issModRaw % 4) + 4) % 4

	ephHi, ephHiOk := new(big.Int).SetString(ephLimbs[0], 10)
	ephLo, ephLoOk := new(big.Int).SetString(ephLimbs[1], 10)
	if !ephHiOk || !ephLoOk {
		return nil, reasoncodes.New(reasoncodes.ErrInvalidJwtShape, "malformed ephemeral key limb")
	}
	maxEpoch, ok := new(big.Int).SetString(p.MaxEpoch, 10)
	if !ok {
		return nil, reasoncodes.New(reasoncodes.ErrInvalidJwtShape, "max_epoch is not a decimal integer")
	}

	allInputsHash, err := poseidon.Hash([]*big.Int{
		ephHi, ephLo, addressSeed, maxEpoch, issFieldF,
		big.NewInt(int64(issMod4)), headerF, modulusF,
	})
	if err != nil {
		return nil, err
	}

	inputs := CircuitInputs{
		AllInputsHash: allInputsHash.String(),
		Salt:          p.Salt,
		MaxEpoch:      p.MaxEpoch,
		JWTRandomness: p.Randomness,

		EphPublicKey: [2]string{ephLimbs[0], ephLimbs[1]},

		Modulus:   decimalStrings(modulusLimbs),
		Signature: decimalStrings(signatureLimbs),

		PaddedUnsignedJWT: bytesToDecimalStrings(shaPad.Padded),
		PayloadLen:        strconv.Itoa(shaPad.PayloadLen),
		NumSha2Blocks:     strconv.Itoa(shaPad.NumSha2Blocks),
		PayloadStartIndex: strconv.Itoa(shaPad.PayloadStartIndex),

		ExtKC:         bytesToDecimalStrings(subLoc.Padded),
		ExtKCLength:   strconv.Itoa(len(subLoc.Value)),
		KCIndexB64:    strconv.Itoa(subLoc.B64Start),
		KCLengthB64:   strconv.Itoa(subLoc.B64Size),
		KCNameLength:  strconv.Itoa(subLoc.NameLen),
		KCColonIndex:  strconv.Itoa(subLoc.ColonIndex),
		KCValueIndex:  strconv.Itoa(subLoc.ValueIndex),
		KCValueLength: strconv.Itoa(subLoc.ValueLength),

		ExtNonce:        bytesToDecimalStrings(nonceLoc.Padded),
		ExtNonceLength:  strconv.Itoa(len(nonceLoc.Value)),
		NonceIndexB64:   strconv.Itoa(nonceLoc.B64Start),
		NonceLengthB64:  strconv.Itoa(nonceLoc.B64Size),
		NonceColonIndex: strconv.Itoa(nonceLoc.ColonIndex),
		NonceValueIndex: strconv.Itoa(nonceLoc.ValueIndex),

		ExtEV:         bytesToDecimalStrings(evLoc.Padded),
		ExtEVLength:   strconv.Itoa(len(evLoc.Value)),
		EVIndexB64:    strconv.Itoa(evLoc.B64Start),
		EVLengthB64:   strconv.Itoa(evLoc.B64Size),
		EVNameLength:  strconv.Itoa(evLoc.NameLen),
		EVColonIndex:  strconv.Itoa(evLoc.ColonIndex),
		EVValueIndex:  strconv.Itoa(evLoc.ValueIndex),
		EVValueLength: strconv.Itoa(evLoc.ValueLength),

		ExtAud:         bytesToDecimalStrings(audLoc.Padded),
		ExtAudLength:   strconv.Itoa(len(audLoc.Value)),
		AudIndexB64:    strconv.Itoa(audLoc.B64Start),
		AudLengthB64:   strconv.Itoa(audLoc.B64Size),
		AudColonIndex:  strconv.Itoa(audLoc.ColonIndex),
		AudValueIndex:  strconv.Itoa(audLoc.ValueIndex),
		AudValueLength: strconv.Itoa(audLoc.ValueLength),

		IssIndexB64:  strconv.Itoa(issLoc.B64Start),
		IssLengthB64: strconv.Itoa(issLoc.B64Size),
	}

	fields := SuiProofFields{
		AddressSeed: addressSeed.String(),
		Header:      headerF.String(),
		IssBase64Details: IssBase64Details{
			Value:     issFieldF.String(),
			IndexMod4: issMod4,
		},
	}

	return &BuildResult{Inputs: inputs, Fields: fields}, nil
}

func resolveJWKS(kid string, entries []JWKSEntry) (*JWKSEntry, error) {
	for i := range entries {
		if entries[i].Kid == kid {
			return &entries[i], nil
		}
	}
	return nil, reasoncodes.New(reasoncodes.ErrUnknownKid, kid)
}

// decodeRSALimbs base64url-decodes value (a JWKS "n" modulus or a raw JWT
// signature segment, both unpadded base64url) into a big-endian integer
// and decomposes it into the fixed-width 64-bit little-endian limb array
// the circuit expects.
func decodeRSALimbs(value string) ([]*big.Int, error) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, reasoncodes.Wrap(reasoncodes.ErrInvalidJwtShape, "malformed base64url RSA value", err)
	}

	n := new(big.Int).SetBytes(raw)
	limbs := getLimbs(n, RSALimbBits)
	return padLimbs(limbs, RSALimbCount), nil
}

func bytesToDecimalStrings(b []byte) []string {
	out := make([]string, len(b))
	for i, v := range b {
		out[i] = strconv.Itoa(int(v))
	}
	return out
}
