package proofstore

import (
	"os"
	"testing"

	"github.com/kzero-xyz/kzero-service/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InitDefault(logger.GlobalConfig{})
	os.Exit(m.Run())
}
