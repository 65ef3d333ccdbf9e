package repository

import (
	"context"
	"fmt"

	"database/sql"

	"github.com/hitoshi/ceylon/internal/model"
)

// PostgresAdvisoryRepo はPostgreSQLを使用した渡航情報リポジトリ。
type PostgresAdvisoryRepo struct {
	db *sql.DB
}

// NewPostgresAdvisoryRepo はPostgresAdvisoryRepoを生成する。
func NewPostgresAdvisoryRepo(db *sql.DB) *PostgresAdvisoryRepo {
	return &PostgresAdvisoryRepo{db: db}
}

// Upsert はGUIDをキーに渡航情報を冪等に保存する。
// 同一GUIDの再取り込みではタイトル・リンク・概要・取得日時を上書きする。
func (r *PostgresAdvisoryRepo) Upsert(ctx context.Context, advisory *model.Advisory) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO advisories (id, guid, title, link, summary, published_at, fetched_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (guid) DO UPDATE SET
		   title = EXCLUDED.title,
		   link = EXCLUDED.link,
		   summary = EXCLUDED.summary,
		   fetched_at = EXCLUDED.fetched_at`,
		advisory.ID, advisory.GUID, advisory.Title, advisory.Link,
		advisory.Summary, advisory.PublishedAt, advisory.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert advisory: %w", err)
	}
	return nil
}

// ListRecent は公開日時の降順でlimit件まで返す。
func (r *PostgresAdvisoryRepo) ListRecent(ctx context.Context, limit int) ([]*model.Advisory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, guid, title, link, summary, published_at, fetched_at
		 FROM advisories
		 ORDER BY published_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list advisories: %w", err)
	}
	defer rows.Close()

	var advisories []*model.Advisory
	for rows.Next() {
		a := &model.Advisory{}
		if err := rows.Scan(&a.ID, &a.GUID, &a.Title, &a.Link, &a.Summary, &a.PublishedAt, &a.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan advisory: %w", err)
		}
		advisories = append(advisories, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate advisories: %w", err)
	}

	return advisories, nil
}

// compile-time interface check
var _ AdvisoryRepository = (*PostgresAdvisoryRepo)(nil)
