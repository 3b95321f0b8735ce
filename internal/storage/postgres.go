package storage

import (
	"context"
	"database/sql"
	"fmt"

	json "github.com/goccy/go-json"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Shresth-Senwal/djedops2nd/internal/arbitrage"
	"github.com/Shresth-Senwal/djedops2nd/internal/workflow"
)

// postgresRunLimit bounds how many runs a history listing returns.
const postgresRunLimit = 50

// PostgresStorage implements Storage using PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStorage creates a new PostgreSQL storage.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStorage{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// StoreOpportunity stores an arbitrage opportunity.
func (p *PostgresStorage) StoreOpportunity(ctx context.Context, opp *arbitrage.Opportunity) error {
	query := `
		INSERT INTO arbitrage_opportunities (
			id, detected_at, signal, dex_price, protocol_price,
			spread, spread_percent, estimated_net_profit, raw_profit,
			profitable, liquidity, status, source
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
	`

	_, err := p.db.ExecContext(ctx, query,
		opp.ID,
		opp.DetectedAt,
		string(opp.Signal),
		opp.DexPrice,
		opp.ProtocolPrice,
		opp.Spread,
		opp.SpreadPercent,
		opp.EstimatedNetProfit,
		opp.RawProfit,
		opp.Profitable,
		opp.Liquidity,
		string(opp.Status),
		opp.Source,
	)

	if err != nil {
		return fmt.Errorf("insert opportunity: %w", err)
	}

	p.logger.Debug("opportunity-stored",
		zap.String("opportunity-id", opp.ID),
		zap.String("signal", string(opp.Signal)))

	return nil
}

// StoreWorkflowRun stores a finished run, records serialized as JSONB.
func (p *PostgresStorage) StoreWorkflowRun(ctx context.Context, run *workflow.RunResult) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	query := `
		INSERT INTO workflow_runs (id, status, started_at, duration_seconds, payload)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = p.db.ExecContext(ctx, query,
		run.ID,
		string(run.Status),
		run.StartedAt,
		run.Duration,
		payload,
	)

	if err != nil {
		return fmt.Errorf("insert workflow run: %w", err)
	}

	p.logger.Debug("workflow-run-stored", zap.String("run-id", run.ID))

	return nil
}

// ListWorkflowRuns returns the most recent runs, newest first.
func (p *PostgresStorage) ListWorkflowRuns(ctx context.Context) ([]*workflow.RunResult, error) {
	query := `
		SELECT payload FROM workflow_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := p.db.QueryContext(ctx, query, postgresRunLimit)
	if err != nil {
		return nil, fmt.Errorf("query workflow runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*workflow.RunResult, 0, postgresRunLimit)

	for rows.Next() {
		var payload []byte
		err = rows.Scan(&payload)
		if err != nil {
			return nil, fmt.Errorf("scan workflow run: %w", err)
		}

		var run workflow.RunResult
		err = json.Unmarshal(payload, &run)
		if err != nil {
			return nil, fmt.Errorf("unmarshal workflow run: %w", err)
		}

		runs = append(runs, &run)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate workflow runs: %w", err)
	}

	return runs, nil
}

// ClearWorkflowRuns deletes the whole run history.
func (p *PostgresStorage) ClearWorkflowRuns(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM workflow_runs`)
	if err != nil {
		return fmt.Errorf("clear workflow runs: %w", err)
	}

	p.logger.Info("workflow-history-cleared")

	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
