package service

import (
	"context"

	"github.com/solokill756/tourbooking/notifier"
	"go.uber.org/zap"
)

// notifyScopes dispatches cache invalidation signals after a mutation.
// Delivery is best-effort: a notifier failure is logged and swallowed, the
// mutation that triggered it has already committed and stays successful.
func notifyScopes(ctx context.Context, n notifier.Notifier, logger *zap.Logger, scopes ...notifier.Scope) {
	for _, scope := range scopes {
		if err := n.Notify(ctx, scope); err != nil {
			logger.Warn("cache invalidation notify failed",
				zap.String("scope", string(scope)),
				zap.Error(err))
		}
	}
}
