package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestConfigJSONConvertToDomain(t *testing.T) {
	cases := []struct {
		name     string
		wire     ConfigJSON
		expected zerolog.Level
	}{
		{name: "valid level", wire: ConfigJSON{Level: "error"}, expected: zerolog.ErrorLevel},
		{name: "empty level falls back to info", wire: ConfigJSON{Level: ""}, expected: zerolog.InfoLevel},
		{name: "garbage level falls back to info", wire: ConfigJSON{Level: "not-a-level"}, expected: zerolog.InfoLevel},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.wire.ConvertToDomain().Level)
		})
	}
}
