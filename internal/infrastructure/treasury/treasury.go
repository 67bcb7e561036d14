// Package treasury adapts the engine's outward fund-transfer port to the
// hosting runtime. The engine never moves value itself; it issues transfer
// intents that the host settles.
package treasury

import (
	"context"

	"suretyledger-service/pkg/logger"
)

// LogTreasury records transfer intents in the service log. It stands in for
// the host runtime's settlement hook; transaction fees and key management
// live there, not here.
type LogTreasury struct {
	logger logger.Logger
}

// NewLogTreasury creates a logging treasury adapter
func NewLogTreasury(logger logger.Logger) *LogTreasury {
	return &LogTreasury{logger: logger}
}

// Transfer records an outward transfer intent
func (t *LogTreasury) Transfer(_ context.Context, to string, amount int64) error {
	t.logger.Info("Outward transfer issued", "to", to, "amount", amount)
	return nil
}
