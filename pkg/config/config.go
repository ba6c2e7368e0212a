// Package config loads JSON configuration files into typed domain structs,
// following the two-layer (wire JSON -> domain) convention used throughout
// kzero: every *Json struct implements ConvertToDomain so environment
// overrides and validation happen once, at startup, not on every read.
package config

import (
	"encoding/json"
	"os"
)

type JsonConfigObj[T any] interface {
	ConvertToDomain() T
}

func Read[T JsonConfigObj[U], U any](path string) (U, error) {
	var zero U

	raw, err := os.ReadFile(path)
	if err != nil {
		return zero, err
	}

	var wire T
	if err := json.Unmarshal(raw, &wire); err != nil {
		return zero, err
	}

	return wire.ConvertToDomain(), nil
}
