package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mss1091/variant-calling-benchmark/internal/compare"
	"github.com/mss1091/variant-calling-benchmark/internal/report"
)

// NewRunID returns a fresh identifier for an exported run.
func NewRunID() string {
	return uuid.NewString()
}

// Run is one row of the runs table.
type Run struct {
	ID        string
	Study     string
	CreatedAt time.Time
	Pipelines int64
}

// ConfusionRow is one row of the confusion table.
type ConfusionRow struct {
	Pipeline  string
	TP        int64
	FP        int64
	FN        int64
	TPStatus  string
	FPStatus  string
	FNStatus  string
	Precision float64
	Recall    float64
	F1        float64
}

// WriteReport stores every computed part of rep under runID. Similarity
// rows cover the upper triangle including the diagonal.
func (s *Store) WriteReport(ctx context.Context, runID string, rep *report.Report) error {
	pipelines := len(rep.Confusion)
	if rep.Similarity != nil {
		pipelines = rep.Similarity.Len()
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, study, created_at, pipelines) VALUES (?, ?, ?, ?)`,
		runID, rep.Study, time.Now().UTC(), int64(pipelines)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if m := rep.Similarity; m != nil {
		var rows [][]driver.Value
		for i := 0; i < m.Len(); i++ {
			for j := i; j < m.Len(); j++ {
				rows = append(rows, []driver.Value{runID, m.Labels[i].ID, m.Labels[j].ID, m.At(i, j)})
			}
		}
		if err := s.appendRows(ctx, "similarity", rows); err != nil {
			return err
		}
	}

	rows := make([][]driver.Value, 0, len(rep.Confusion))
	for _, c := range rep.Confusion {
		rows = append(rows, []driver.Value{
			runID, c.Pipeline,
			int64(c.TP.N), int64(c.FP.N), int64(c.FN.N),
			c.TP.Status.String(), c.FP.Status.String(), c.FN.Status.String(),
			c.Precision, c.Recall, c.F1,
		})
	}
	if err := s.appendRows(ctx, "confusion", rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, st := range rep.Steps {
		rows = append(rows, []driver.Value{
			runID, st.Pipeline, st.Step, st.Path, int64(st.Count.N), st.Count.Status.String(),
		})
	}
	if err := s.appendRows(ctx, "step_counts", rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, fp := range Fingerprints(rep) {
		rows = append(rows, []driver.Value{runID, fp.Pipeline, fp.Role, fp.Path, fp.Size, fp.ModTime.UTC()})
	}
	return s.appendRows(ctx, "inputs", rows)
}

// Runs lists exported runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, study, created_at, pipelines FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Study, &r.CreatedAt, &r.Pipelines); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Similarity returns the off-diagonal pairs stored for runID.
func (s *Store) Similarity(ctx context.Context, runID string) ([]compare.Pair, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT pipeline_a, pipeline_b, jaccard
		FROM similarity
		WHERE run_id=? AND pipeline_a <> pipeline_b
		ORDER BY pipeline_a, pipeline_b`, runID)
	if err != nil {
		return nil, fmt.Errorf("query similarity: %w", err)
	}
	defer rows.Close()

	var pairs []compare.Pair
	for rows.Next() {
		var p compare.Pair
		if err := rows.Scan(&p.A, &p.B, &p.Jaccard); err != nil {
			return nil, fmt.Errorf("scan similarity: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate similarity: %w", err)
	}
	return pairs, nil
}

// Confusion returns the confusion rows stored for runID ordered by pipeline.
func (s *Store) Confusion(ctx context.Context, runID string) ([]ConfusionRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		pipeline, tp, fp, fn, tp_status, fp_status, fn_status,
		precision_score, recall_score, f1_score
		FROM confusion
		WHERE run_id=?
		ORDER BY pipeline`, runID)
	if err != nil {
		return nil, fmt.Errorf("query confusion: %w", err)
	}
	defer rows.Close()

	var out []ConfusionRow
	for rows.Next() {
		var c ConfusionRow
		if err := rows.Scan(
			&c.Pipeline, &c.TP, &c.FP, &c.FN,
			&c.TPStatus, &c.FPStatus, &c.FNStatus,
			&c.Precision, &c.Recall, &c.F1,
		); err != nil {
			return nil, fmt.Errorf("scan confusion: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate confusion: %w", err)
	}
	return out, nil
}

// CountRows returns the number of rows in table stored for runID.
func (s *Store) CountRows(ctx context.Context, table, runID string) (int64, error) {
	switch table {
	case "runs", "similarity", "confusion", "step_counts", "inputs":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM "+table+" WHERE run_id=?", runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
