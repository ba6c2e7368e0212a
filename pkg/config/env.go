package config

import (
	"os"
	"strconv"
	"time"
)

func GetenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetenvDurationMS(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic("config: required environment variable " + key + " is not set")
	}
	return v
}
