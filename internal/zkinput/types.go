package zkinput

// JWKSEntry is one entry of an identity provider's published key set.
type JWKSEntry struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	N   string `json:"n"` // base64url, big-endian RSA modulus
	E   string `json:"e"`
	Alg string `json:"alg"`
	Use string `json:"use"`
}

// BuildParams is the input to Build, mirroring the external ZK input
// function's signature byte for byte.
type BuildParams struct {
	JWT                string
	Salt               string
	EphemeralPublicKey string // "0x" + 64 hex chars
	MaxEpoch           string // decimal string
	Randomness         string // decimal string
	JWKSEntries        []JWKSEntry
}

// IssBase64Details mirrors the spec's iss_base64_details sub-object.
type IssBase64Details struct {
	Value     string `json:"value"`
	IndexMod4 int    `json:"index_mod_4"`
}

// SuiProofFields is the address-seed / header-hash bundle the spec
// requires alongside the circuit input map.
type SuiProofFields struct {
	AddressSeed      string           `json:"address_seed"`
	Header           string           `json:"header"`
	IssBase64Details IssBase64Details `json:"iss_base64_details"`
}

// CircuitInputs is the full, fixed-shape DTO for the ~45 named circuit
// input signals. A map[string]any would let a typo in a key silently
// produce a malformed witness; every signal here has exactly one spelling,
// checked by the compiler.
type CircuitInputs struct {
	AllInputsHash string `json:"all_inputs_hash"`
	Salt          string `json:"salt"`
	MaxEpoch      string `json:"max_epoch"`
	JWTRandomness string `json:"jwt_randomness"`

	EphPublicKey [2]string `json:"eph_public_key"`

	Modulus   []string `json:"modulus"`
	Signature []string `json:"signature"`

	PaddedUnsignedJWT  []string `json:"padded_unsigned_jwt"`
	PayloadLen         string   `json:"payload_len"`
	NumSha2Blocks      string   `json:"num_sha2_blocks"`
	PayloadStartIndex  string   `json:"payload_start_index"`

	ExtKC         []string `json:"ext_kc"`
	ExtKCLength   string   `json:"ext_kc_length"`
	KCIndexB64    string   `json:"kc_index_b64"`
	KCLengthB64   string   `json:"kc_length_b64"`
	KCNameLength  string   `json:"kc_name_length"`
	KCColonIndex  string   `json:"kc_colon_index"`
	KCValueIndex  string   `json:"kc_value_index"`
	KCValueLength string   `json:"kc_value_length"`

	ExtNonce          []string `json:"ext_nonce"`
	ExtNonceLength     string   `json:"ext_nonce_length"`
	NonceIndexB64      string   `json:"nonce_index_b64"`
	NonceLengthB64     string   `json:"nonce_length_b64"`
	NonceColonIndex    string   `json:"nonce_colon_index"`
	NonceValueIndex    string   `json:"nonce_value_index"`

	ExtEV         []string `json:"ext_ev"`
	ExtEVLength   string   `json:"ext_ev_length"`
	EVIndexB64    string   `json:"ev_index_b64"`
	EVLengthB64   string   `json:"ev_length_b64"`
	EVNameLength  string   `json:"ev_name_length"`
	EVColonIndex  string   `json:"ev_colon_index"`
	EVValueIndex  string   `json:"ev_value_index"`
	EVValueLength string   `json:"ev_value_length"`

	ExtAud          []string `json:"ext_aud"`
	ExtAudLength     string   `json:"ext_aud_length"`
	AudIndexB64      string   `json:"aud_index_b64"`
	AudLengthB64     string   `json:"aud_length_b64"`
	AudColonIndex    string   `json:"aud_colon_index"`
	AudValueIndex    string   `json:"aud_value_index"`
	AudValueLength   string   `json:"aud_value_length"`

	IssIndexB64  string `json:"iss_index_b64"`
	IssLengthB64 string `json:"iss_length_b64"`
}

// BuildResult is the output of Build: the typed circuit input signals plus
// the address-seed bundle.
type BuildResult struct {
	Inputs CircuitInputs  `json:"inputs"`
	Fields SuiProofFields `json:"fields"`
}
