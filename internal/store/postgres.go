package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/Placement/internal/placement"
)

const schema = `
CREATE TABLE IF NOT EXISTS placement_nodes (
	name       TEXT PRIMARY KEY,
	cpu        DOUBLE PRECISION NOT NULL,
	maxcpu     INTEGER NOT NULL,
	mem        BIGINT NOT NULL,
	maxmem     BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const nodeColumns = `name, cpu, maxcpu, mem, maxmem, updated_at`

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) UpsertNode(ctx context.Context, n placement.NodeUsage) (*Node, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO placement_nodes (name, cpu, maxcpu, mem, maxmem, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (name) DO UPDATE SET
			cpu = EXCLUDED.cpu,
			maxcpu = EXCLUDED.maxcpu,
			mem = EXCLUDED.mem,
			maxmem = EXCLUDED.maxmem,
			updated_at = EXCLUDED.updated_at
		RETURNING `+nodeColumns,
		n.Name, n.CPU, n.MaxCPU, n.Mem, n.MaxMem,
	)
	return scanNode(row)
}

func (s *PostgresStore) GetNode(ctx context.Context, name string) (*Node, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+nodeColumns+` FROM placement_nodes WHERE name = $1`, name)
	node, err := scanNode(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNodeNotFound
	}
	return node, err
}

// ListNodes returns all nodes ordered by name so scoring input order is stable.
func (s *PostgresStore) ListNodes(ctx context.Context) ([]*Node, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+nodeColumns+` FROM placement_nodes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []*Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

func (s *PostgresStore) DeleteNode(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM placement_nodes WHERE name = $1`, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNodeNotFound
	}
	return nil
}

func scanNode(row pgx.Row) (*Node, error) {
	n := &Node{}
	err := row.Scan(&n.Name, &n.CPU, &n.MaxCPU, &n.Mem, &n.MaxMem, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}
