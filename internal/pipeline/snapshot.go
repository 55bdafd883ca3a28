package pipeline

import (
	"context"

	"github.com/minsuk-dev/hermes/internal/contracts"
	"github.com/minsuk-dev/hermes/pkg/logger"
)

// SnapshotBuilder queries the broker for the account picture a run starts
// from. Two external calls: balance, then holdings.
type SnapshotBuilder struct {
	account AccountService
	logger  *logger.Logger
}

// NewSnapshotBuilder creates a snapshot builder
func NewSnapshotBuilder(account AccountService, log *logger.Logger) *SnapshotBuilder {
	return &SnapshotBuilder{
		account: account,
		logger:  log,
	}
}

// Build fetches the balance and holdings and normalizes them into a
// PortfolioSnapshot. Any broker failure is wrapped in PortfolioFetchError;
// there is no internal retry here: retry policy belongs to the client.
func (b *SnapshotBuilder) Build(ctx context.Context) (*contracts.PortfolioSnapshot, error) {
	balance, err := b.account.GetBalance(ctx)
	if err != nil {
		return nil, &PortfolioFetchError{Err: err}
	}

	holdings, err := b.account.GetHoldings(ctx)
	if err != nil {
		return nil, &PortfolioFetchError{Err: err}
	}

	snap := contracts.NewPortfolioSnapshot(balance.TotalCash, balance.TotalValue, balance.TotalPnl, holdings)
	if err := snap.Validate(); err != nil {
		return nil, &PortfolioFetchError{Err: err}
	}

	b.logger.WithFields(map[string]interface{}{
		"total_value": snap.TotalValue,
		"cash":        snap.Cash,
		"cash_ratio":  snap.CashRatio,
		"positions":   len(snap.Positions),
	}).Info("Portfolio snapshot built")

	return snap, nil
}
