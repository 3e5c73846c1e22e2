package notifications

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"agrichain.backend/pkg/logger"
)

func TestLogMailer_SendPasswordReset(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := logger.ReplaceForTest(zap.New(core))
	t.Cleanup(restore)

	err := NewLogMailer().SendPasswordReset(context.Background(), "asha@example.com", "http://localhost:8080/reset-password?token=abc")
	require.NoError(t, err)

	entries := logs.FilterMessage("Password reset requested").All()
	require.Len(t, entries, 1)
	require.Equal(t, "asha@example.com", entries[0].ContextMap()["to"])
}
