// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zoneboard Contributors

package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
)

// Zone is one row of the zoning reference data.
type Zone struct {
	Zoning string `json:"zoning"`
	Use    string `json:"use"`
}

// ZoningRepository provides the read-only zoning listing.
type ZoningRepository interface {
	ListZones(ctx context.Context) ([]Zone, error)
}

// poolIface is the subset of pgxpool.Pool the store repositories use.
// pgxmock satisfies it in unit tests.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresZoningRepository implements ZoningRepository using PostgreSQL.
type PostgresZoningRepository struct {
	pool poolIface
}

// NewPostgresZoningRepository creates a new PostgreSQL zoning repository.
func NewPostgresZoningRepository(pool poolIface) *PostgresZoningRepository {
	return &PostgresZoningRepository{pool: pool}
}

// ListZones retrieves all zoning rows.
func (r *PostgresZoningRepository) ListZones(ctx context.Context) ([]Zone, error) {
	rows, err := r.pool.Query(ctx, `SELECT zoning, use FROM zoning`)
	if err != nil {
		return nil, oops.With("operation", "list zones").Wrap(err)
	}
	defer rows.Close()

	var zones []Zone
	for rows.Next() {
		var z Zone
		if err := rows.Scan(&z.Zoning, &z.Use); err != nil {
			return nil, oops.With("operation", "scan zoning row").Wrap(err)
		}
		zones = append(zones, z)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate zoning rows").Wrap(err)
	}

	return zones, nil
}

// Compile-time interface check.
var _ ZoningRepository = (*PostgresZoningRepository)(nil)
