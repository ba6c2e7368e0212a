package logger

import "github.com/rs/zerolog"

type ConfigJSON struct {
	Level string `json:"level"`
}

func (c ConfigJSON) ConvertToDomain() Config {
	lvl, err := zerolog.ParseLevel(c.Level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return Config{Level: lvl}
}

type Config struct {
	Level zerolog.Level
}
