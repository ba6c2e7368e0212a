package jwtdissect

import (
	"bytes"

	"github.com/kzero-xyz/kzero-service/pkg/reasoncodes"
)

// ClaimLocator is the result of locating one claim's occurrence inside the
// JWT payload, in both the raw-byte and base64 coordinate spaces. Every
// field here eventually lands verbatim in a circuit input signal, so
// nothing here is derived "for convenience" — it is exactly what §4.2's
// extract_claim algorithm produces.
type ClaimLocator struct {
	Value       []byte // final_val: the claim fragment starting at its opening quote
	Padded      []byte // Value, zero-padded (or truncated-on-overflow-rejected) to padLen
	B64Start    int    // absolute index into the full JWT string
	B64Size     int
	NameLen     int
	ColonIndex  int
	ValueIndex  int
	ValueLength int
}

// ExtractClaim locates name inside payloadBin (the decoded JSON payload
// bytes) and computes the base64 span the same substring occupies within
// the base64url-encoded payload segment, offset into absolute JWT
// coordinates by headerB64Len+1 (the header segment plus its trailing
// dot). padLen is the circuit's fixed pad width for this claim.
func ExtractClaim(payloadBin []byte, headerB64Len int, name string, padLen int) (*ClaimLocator, error) {
	pos := bytes.Index(payloadBin, []byte(name))
	if pos < 0 {
		return nil, reasoncodes.New(reasoncodes.ErrMissingClaim, name)
	}

	start := pos - 2
	if start < 0 {
		return nil, reasoncodes.New(reasoncodes.ErrMissingClaim, name+": claim occurs too early in payload")
	}

	relEnd := bytes.IndexByte(payloadBin[pos+1:], ',')
	if relEnd < 0 {
		return nil, reasoncodes.New(reasoncodes.ErrMissingClaim, name+": claim is not followed by a comma")
	}
	end := pos + relEnd + 2

	slice := payloadBin[start:end]
	finalVal := slice[1:]

	o := start + 1
	l := len(finalVal)

	b64Start := (o/3)*4 + (o % 3)
	sum := o + l
	b64End := (sum/3)*4 + align3(sum)

	colonIndex := bytes.IndexByte(finalVal, ':')
	if colonIndex < 0 {
		return nil, reasoncodes.New(reasoncodes.ErrMissingClaim, name+": claim fragment has no colon")
	}
	valueIndex := colonIndex + 1

	closingQuoteRel := bytes.IndexByte(finalVal[valueIndex+1:], '"')
	if closingQuoteRel < 0 {
		return nil, reasoncodes.New(reasoncodes.ErrMissingClaim, name+": claim value is not a closed JSON string")
	}
	valueLength := valueIndex + 1 + closingQuoteRel + 2

	// padLen <= 0 means the caller only wants the base64 span (the iss
	// locator never materializes an ext_iss array), so skip padding.
	var padded []byte
	if padLen > 0 {
		var err error
		padded, err = padASCII(finalVal, padLen)
		if err != nil {
			return nil, err
		}
	}

	return &ClaimLocator{
		Value:       finalVal,
		Padded:      padded,
		B64Start:    b64Start + headerB64Len + 1,
		B64Size:     b64End - b64Start,
		NameLen:     len(name) + 2,
		ColonIndex:  colonIndex,
		ValueIndex:  valueIndex,
		ValueLength: valueLength,
	}, nil
}

// align3 implements align(x) = 0 if x%3==0 else 1+(x%3).
func align3(x int) int {
	if x%3 == 0 {
		return 0
	}
	return 1 + x%3
}

func padASCII(b []byte, padLen int) ([]byte, error) {
	if len(b) > padLen {
		return nil, reasoncodes.New(reasoncodes.ErrInvalidJwtShape, "claim fragment exceeds fixed pad width")
	}
	out := make([]byte, padLen)
	copy(out, b)
	return out, nil
}
