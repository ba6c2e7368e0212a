// Package dto holds the wire-level message shapes kzero exchanges across
// process boundaries (AMQP bodies, websocket frames). Every DTO implements
// Serializable so a publisher can accept any of them uniformly.
package dto

import "encoding/json"

type Serializable interface {
	Serialize() ([]byte, error)
}

func Serialize(v any) ([]byte, error) {
	return json.Marshal(v)
}
