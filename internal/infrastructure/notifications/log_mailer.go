// Package notifications delivers outbound user messages.
package notifications

import (
	"context"

	"go.uber.org/zap"

	"agrichain.backend/pkg/logger"
)

// LogMailer writes reset links to the structured log instead of sending
// mail. Suitable for development and single-node demos.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// SendPasswordReset logs the reset link for the given recipient.
func (m *LogMailer) SendPasswordReset(ctx context.Context, email, resetURL string) error {
	logger.Info(ctx, "Password reset requested",
		zap.String("to", email),
		zap.String("reset_url", resetURL),
	)
	return nil
}
