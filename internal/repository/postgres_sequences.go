package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/identity"
)

// NextSequence 原子分配位置前缀下的下一个序号
// identity_sequences 每前缀一行；行不存在时在同一事务内从既有身份码
// 播种（取最大序号），之后的分配走行级锁下的自增。取代旧的
// "查最大值再加一" 做法，并发创建同一位置的建筑不会拿到重复序号
func (r *PostgresStructuresRepository) NextSequence(ctx context.Context, prefix string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	var last int
	err = tx.QueryRowContext(ctx,
		`SELECT last_seq FROM identity_sequences WHERE location_prefix = $1 FOR UPDATE`,
		prefix,
	).Scan(&last)

	switch {
	case err == sql.ErrNoRows:
		// 首次使用该前缀：从既有身份码播种计数器行
		seeded, err := r.seedSequence(ctx, tx, prefix)
		if err != nil {
			return 0, err
		}
		if err := tx.Commit(); err != nil {
			return 0, fmt.Errorf("failed to commit sequence seed: %w", err)
		}
		return seeded, nil
	case err != nil:
		return 0, fmt.Errorf("failed to lock sequence row: %w", err)
	}

	if last >= identity.MaxSequence {
		return 0, fmt.Errorf("sequence space exhausted for prefix %s", prefix)
	}

	next := last + 1
	if _, err := tx.ExecContext(ctx,
		`UPDATE identity_sequences SET last_seq = $2 WHERE location_prefix = $1`,
		prefix, next,
	); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence increment: %w", err)
	}
	return next, nil
}

func (r *PostgresStructuresRepository) seedSequence(ctx context.Context, tx *sql.Tx, prefix string) (int, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT identity_code FROM structures WHERE identity_code LIKE $1 || '%'`,
		prefix,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to query existing codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return 0, err
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	seqStr, err := identity.NextSequence(prefix, codes)
	if err != nil {
		return 0, err
	}
	next, err := strconv.Atoi(seqStr)
	if err != nil {
		return 0, fmt.Errorf("failed to parse seeded sequence: %w", err)
	}

	// ON CONFLICT 兜底：两个事务同时播种时后到者在行锁上排队后自增
	var seeded int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO identity_sequences (location_prefix, last_seq)
		VALUES ($1, $2)
		ON CONFLICT (location_prefix) DO UPDATE
			SET last_seq = identity_sequences.last_seq + 1
		RETURNING last_seq
	`, prefix, next).Scan(&seeded)
	if err != nil {
		return 0, fmt.Errorf("failed to seed sequence row: %w", err)
	}
	return seeded, nil
}
