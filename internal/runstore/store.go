// Package runstore persists experiment history: one row per retrieval run
// and one per evaluation, so parameter sweeps can be compared after the
// fact.
package runstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/bobyangg/CSI4107-A1/internal/trec"
	"github.com/bobyangg/CSI4107-A1/pkg/postgres"
	"github.com/bobyangg/CSI4107-A1/pkg/resilience"
)

const schema = `
CREATE TABLE IF NOT EXISTS retrieval_runs (
	id           BIGSERIAL PRIMARY KEY,
	run_tag      TEXT NOT NULL,
	fingerprint  TEXT NOT NULL,
	docs         BIGINT NOT NULL,
	avg_doc_len  DOUBLE PRECISION NOT NULL,
	queries      BIGINT NOT NULL,
	results      BIGINT NOT NULL,
	duration_ms  BIGINT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS evaluations (
	id            BIGSERIAL PRIMARY KEY,
	qrels_path    TEXT NOT NULL,
	results_path  TEXT NOT NULL,
	queries       BIGINT NOT NULL,
	map           DOUBLE PRECISION NOT NULL,
	p5            DOUBLE PRECISION NOT NULL,
	p10           DOUBLE PRECISION NOT NULL,
	p30           DOUBLE PRECISION NOT NULL,
	recall        DOUBLE PRECISION NOT NULL,
	r_precision   DOUBLE PRECISION NOT NULL,
	recip_rank    DOUBLE PRECISION NOT NULL,
	num_rel       BIGINT NOT NULL,
	num_ret       BIGINT NOT NULL,
	num_rel_ret   BIGINT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// RunRecord summarises one retrieval run.
type RunRecord struct {
	RunTag       string
	Fingerprint  string
	Docs         int
	AvgDocLength float64
	Queries      int
	Results      int
	Duration     time.Duration
}

// Store writes run and evaluation history to Postgres.
type Store struct {
	client *postgres.Client
	logger *slog.Logger
}

// New creates a Store and ensures the schema exists.
func New(ctx context.Context, client *postgres.Client) (*Store, error) {
	s := &Store{
		client: client,
		logger: slog.Default().With("component", "runstore"),
	}
	if _, err := client.DB.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("creating runstore schema: %w", err)
	}
	return s, nil
}

// SaveRun records one retrieval run. Transient failures are retried.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) error {
	err := resilience.Retry(ctx, "runstore.save_run", resilience.RetryConfig{}, func() error {
		return s.client.InTx(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO retrieval_runs
					(run_tag, fingerprint, docs, avg_doc_len, queries, results, duration_ms)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				rec.RunTag, rec.Fingerprint, rec.Docs, rec.AvgDocLength,
				rec.Queries, rec.Results, rec.Duration.Milliseconds(),
			)
			return err
		})
	})
	if err != nil {
		return fmt.Errorf("saving run %s: %w", rec.RunTag, err)
	}
	s.logger.Info("run recorded", "run_tag", rec.RunTag, "results", rec.Results)
	return nil
}

// SaveEvaluation records one evaluation's aggregate metrics.
func (s *Store) SaveEvaluation(ctx context.Context, qrelsPath, resultsPath string, agg trec.Aggregate) error {
	err := resilience.Retry(ctx, "runstore.save_evaluation", resilience.RetryConfig{}, func() error {
		return s.client.InTx(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO evaluations
					(qrels_path, results_path, queries, map, p5, p10, p30,
					 recall, r_precision, recip_rank, num_rel, num_ret, num_rel_ret)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
				qrelsPath, resultsPath, agg.Queries, agg.MAP, agg.P5, agg.P10, agg.P30,
				agg.Recall, agg.RPrecision, agg.ReciprocalRank,
				agg.NumRelevant, agg.NumRetrieved, agg.NumRelevantRetrieved,
			)
			return err
		})
	})
	if err != nil {
		return fmt.Errorf("saving evaluation of %s: %w", resultsPath, err)
	}
	s.logger.Info("evaluation recorded", "results_path", resultsPath, "queries", agg.Queries)
	return nil
}
