package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/moonlabs/moon-agent-backend/internal/platform/envutil"
	"github.com/moonlabs/moon-agent-backend/internal/platform/logger"
)

// RedshiftClient talks to the analytics warehouse over the Postgres wire
// protocol. Connections are scoped to the client; callers open one per
// invocation and Close it on every exit path.
type RedshiftClient struct {
	db  *sql.DB
	log *logger.Logger
}

func NewRedshiftClient(logg *logger.Logger) (*RedshiftClient, error) {
	clientLog := logg.With("client", "RedshiftClient")

	host := envutil.String("WAREHOUSE_HOST", "localhost")
	port := envutil.String("WAREHOUSE_PORT", "5439")
	user := envutil.String("WAREHOUSE_USER", "awsuser")
	password := envutil.String("WAREHOUSE_PASSWORD", "")
	name := envutil.String("WAREHOUSE_NAME", "moon-agent")

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		user,
		password,
		host,
		port,
		name,
	)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse connection: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach warehouse: %w", err)
	}

	return &RedshiftClient{db: db, log: clientLog}, nil
}

// UpsertReport replaces any existing warehouse row carrying the same source
// identifier, then inserts the new one, inside a single transaction. Redshift
// has no ON CONFLICT, so delete-then-insert is the merge primitive; a replay
// of the same row nets out to one warehouse row either way.
func (c *RedshiftClient) UpsertReport(ctx context.Context, row ReportRow) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin warehouse tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM performance_reports WHERE id = $1`,
		row.ID,
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear existing warehouse row: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO performance_reports (id, report_date, frequency, report_data, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		row.ID,
		row.ReportDate,
		row.Frequency,
		string(row.Payload),
		row.GeneratedAt,
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert warehouse row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit warehouse tx: %w", err)
	}
	c.log.Info("Warehouse row upserted", "report_id", row.ID, "frequency", row.Frequency)
	return nil
}

func (c *RedshiftClient) Close() error {
	return c.db.Close()
}
