package proofstore

import "encoding/json"

func serializeJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}
