package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minsuk-dev/hermes/internal/contracts"
)

// Repository persists executed trade records
// ⭐ SSOT: 거래 기록 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a trade history repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InsertTradeRecord saves one executed trade with its decision context.
// Context snapshots are stored as JSONB so the decision is reconstructable
// without joining other tables.
func (r *Repository) InsertTradeRecord(ctx context.Context, record contracts.TradeRecord) error {
	marketJSON, err := json.Marshal(record.MarketContext)
	if err != nil {
		return fmt.Errorf("marshal market context: %w", err)
	}
	portfolioJSON, err := json.Marshal(record.PortfolioContext)
	if err != nil {
		return fmt.Errorf("marshal portfolio context: %w", err)
	}

	query := `
		INSERT INTO history.trade_records (
			trade_id, run_id, ticker, action, quantity, price, reason,
			executed_at, market_context, portfolio_context, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (trade_id) DO NOTHING
	`

	_, err = r.pool.Exec(ctx, query,
		record.TradeID, record.RunID, record.Ticker, record.Action,
		record.Quantity, record.Price, record.Reason,
		record.ExecutedAt, marketJSON, portfolioJSON, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save trade record: %w", err)
	}

	return nil
}

// GetRecentTrades returns the latest trade records, newest first
func (r *Repository) GetRecentTrades(ctx context.Context, limit int) ([]contracts.TradeRecord, error) {
	query := `
		SELECT trade_id, run_id, ticker, action, quantity, price, reason, executed_at
		FROM history.trade_records
		ORDER BY executed_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade records: %w", err)
	}
	defer rows.Close()

	records := make([]contracts.TradeRecord, 0)
	for rows.Next() {
		var rec contracts.TradeRecord
		err := rows.Scan(
			&rec.TradeID, &rec.RunID, &rec.Ticker, &rec.Action,
			&rec.Quantity, &rec.Price, &rec.Reason, &rec.ExecutedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// GetTradesByRun returns every trade record for one run, oldest first
func (r *Repository) GetTradesByRun(ctx context.Context, runID string) ([]contracts.TradeRecord, error) {
	query := `
		SELECT trade_id, run_id, ticker, action, quantity, price, reason, executed_at
		FROM history.trade_records
		WHERE run_id = $1
		ORDER BY executed_at ASC
	`

	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade records: %w", err)
	}
	defer rows.Close()

	records := make([]contracts.TradeRecord, 0)
	for rows.Next() {
		var rec contracts.TradeRecord
		err := rows.Scan(
			&rec.TradeID, &rec.RunID, &rec.Ticker, &rec.Action,
			&rec.Quantity, &rec.Price, &rec.Reason, &rec.ExecutedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// TradeSummary aggregates trade records over a date range
type TradeSummary struct {
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	TotalCount int       `json:"total_count"`
	BuyCount   int       `json:"buy_count"`
	SellCount  int       `json:"sell_count"`
	BuyAmount  float64   `json:"buy_amount"`
	SellAmount float64   `json:"sell_amount"`
}

// GetTradeSummary aggregates trades between from (inclusive) and to (exclusive)
func (r *Repository) GetTradeSummary(ctx context.Context, from, to time.Time) (*TradeSummary, error) {
	query := `
		SELECT
			COUNT(*) as total_count,
			COUNT(CASE WHEN action = 'buy' THEN 1 END) as buy_count,
			COUNT(CASE WHEN action = 'sell' THEN 1 END) as sell_count,
			COALESCE(SUM(CASE WHEN action = 'buy' THEN quantity * price END), 0) as buy_amount,
			COALESCE(SUM(CASE WHEN action = 'sell' THEN quantity * price END), 0) as sell_amount
		FROM history.trade_records
		WHERE executed_at >= $1
		  AND executed_at < $2
	`

	var summary TradeSummary
	err := r.pool.QueryRow(ctx, query, from, to).Scan(
		&summary.TotalCount, &summary.BuyCount, &summary.SellCount,
		&summary.BuyAmount, &summary.SellAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get trade summary: %w", err)
	}

	summary.From = from
	summary.To = to
	return &summary, nil
}
