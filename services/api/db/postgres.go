package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/plant"
)

// PostgresStore keeps the log in the irrigation.readings table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres connects a pgx pool and makes sure the schema exists.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{pool: pool}
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close releases the pool resources.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const schemaSQL = `
CREATE SCHEMA IF NOT EXISTS irrigation;
CREATE TABLE IF NOT EXISTS irrigation.readings (
    seq           BIGSERIAL PRIMARY KEY,
    id            TEXT NOT NULL UNIQUE,
    received_at   TIMESTAMPTZ NOT NULL,
    temperatura   DOUBLE PRECISION NOT NULL,
    humedad       DOUBLE PRECISION NOT NULL,
    humedad_suelo DOUBLE PRECISION NOT NULL,
    luz           DOUBLE PRECISION NOT NULL,
    evaluacion    JSONB NOT NULL
)`

// EnsureSchema creates the schema and table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schemaSQL)
	return err
}

const insertReadingSQL = `
    INSERT INTO irrigation.readings (id, received_at, temperatura, humedad, humedad_suelo, luz, evaluacion)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
`

func (s *PostgresStore) Append(ctx context.Context, rec Record) error {
	evaluation, err := json.Marshal(rec.Evaluation)
	if err != nil {
		return fmt.Errorf("encode evaluation: %w", err)
	}
	_, err = s.pool.Exec(ctx, insertReadingSQL,
		rec.ID.String(),
		rec.ReceivedAt,
		rec.Temperature,
		rec.Humidity,
		rec.SoilMoisture,
		rec.Light,
		evaluation,
	)
	return err
}

const selectReadingsSQL = `
    SELECT id, received_at, temperatura, humedad, humedad_suelo, luz, evaluacion
    FROM irrigation.readings
`

func (s *PostgresStore) Latest(ctx context.Context) (*Record, error) {
	row := s.pool.QueryRow(ctx, selectReadingsSQL+" ORDER BY seq DESC LIMIT 1")
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *PostgresStore) All(ctx context.Context) ([]Record, error) {
	rows, err := s.pool.Query(ctx, selectReadingsSQL+" ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec        Record
		id         string
		receivedAt time.Time
		evaluation []byte
	)
	if err := row.Scan(
		&id,
		&receivedAt,
		&rec.Temperature,
		&rec.Humidity,
		&rec.SoilMoisture,
		&rec.Light,
		&evaluation,
	); err != nil {
		return Record{}, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return Record{}, fmt.Errorf("record id %q: %w", id, err)
	}
	rec.ID = parsed
	rec.ReceivedAt = receivedAt.UTC()

	var ev plant.Evaluation
	if err := json.Unmarshal(evaluation, &ev); err != nil {
		return Record{}, fmt.Errorf("decode evaluation of %s: %w", id, err)
	}
	rec.Evaluation = ev
	return rec, nil
}
