package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/zhifalaw/counsel/index/storer"
	"go.nhat.io/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
)

var DRIVER string

func init() {
	driver, err := otelsql.Register(
		"postgres",
		otelsql.TraceQueryWithoutArgs(),
		otelsql.TraceRowsClose(),
		otelsql.TraceRowsAffected(),
		otelsql.WithSystem(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		detail := "failed to register pg storer with otel"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	DRIVER = driver
}

type postgresStorer struct {
	options storer.Options
	conn    *sql.DB
	table   string
}

func (s *postgresStorer) Ensure(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			payload JSONB NOT NULL DEFAULT '{}',
			embedding vector(%d)
		)
	`, s.table, s.options.VectorSize)

	if _, err := s.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create collection table: %w", err)
	}

	return nil
}

func (s *postgresStorer) Upsert(ctx context.Context, points []storer.Point) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		INSERT INTO %s (id, payload, embedding)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, embedding = EXCLUDED.embedding
	`, s.table)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		payload, err := json.Marshal(p.Payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, p.Id, payload, pgvector.NewVector(p.Vector)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *postgresStorer) Search(ctx context.Context, vector []float32, limit int) ([]storer.ScoredPoint, error) {
	if limit < 1 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT id, payload, embedding, 1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2
	`, s.table)

	rows, err := s.conn.QueryContext(ctx, query, pgvector.NewVector(vector), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []storer.ScoredPoint

	for rows.Next() {
		var (
			p         storer.Point
			embedding pgvector.Vector
			payload   []byte
			score     float64
		)

		if err := rows.Scan(&p.Id, &payload, &embedding, &score); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(payload, &p.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}

		p.Vector = embedding.Slice()

		results = append(results, storer.ScoredPoint{Point: p, Score: score})
	}

	return results, rows.Err()
}

func (s *postgresStorer) Scroll(ctx context.Context, limit int) ([]storer.Point, error) {
	if limit < 1 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT id, payload FROM %s LIMIT $1`, s.table)

	rows, err := s.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []storer.Point

	for rows.Next() {
		var (
			p       storer.Point
			payload []byte
		)

		if err := rows.Scan(&p.Id, &payload); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(payload, &p.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}

		results = append(results, p)
	}

	return results, rows.Err()
}

func (s *postgresStorer) Info(ctx context.Context) (storer.Info, error) {
	var count int
	query := fmt.Sprintf(`SELECT count(*) FROM %s`, s.table)
	if err := s.conn.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return storer.Info{}, err
	}
	return storer.Info{Points: count}, nil
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	if len(options.Location) == 0 ||
		len(options.Collection) == 0 ||
		options.VectorSize == 0 {
		panic("missing location, collection, or vector size for postgres storer")
	}

	conn, err := sql.Open(DRIVER, options.Location)
	if err != nil {
		panic(err)
	}

	s := &postgresStorer{
		options: options,
		conn:    conn,
		table:   pq.QuoteIdentifier(options.Collection),
	}

	return s
}
