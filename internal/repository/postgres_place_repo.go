package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hitoshi/ceylon/internal/model"
)

// PostgresPlaceRepo はPostgreSQLを使用したプレイスリポジトリ。
// ドメインフィールドはJSONBカラムに保持し、スキーマレスなフラットコレクションとして扱う。
type PostgresPlaceRepo struct {
	db *sql.DB
}

// NewPostgresPlaceRepo はPostgresPlaceRepoを生成する。
func NewPostgresPlaceRepo(db *sql.DB) *PostgresPlaceRepo {
	return &PostgresPlaceRepo{db: db}
}

// Create はプレイスを作成する。IDは呼び出し側が採番済みであること。
func (r *PostgresPlaceRepo) Create(ctx context.Context, place *model.Place) error {
	fields, err := json.Marshal(place.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal place fields: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO places (id, fields, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)`,
		place.ID, fields, place.CreatedAt, place.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert place: %w", err)
	}
	return nil
}

// FindByID は指定IDのプレイスを取得する。見つからない場合はnilを返す。
func (r *PostgresPlaceRepo) FindByID(ctx context.Context, id string) (*model.Place, error) {
	place := &model.Place{}
	var fields []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT id, fields, created_at, updated_at FROM places WHERE id = $1`,
		id,
	).Scan(&place.ID, &fields, &place.CreatedAt, &place.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find place: %w", err)
	}

	if err := json.Unmarshal(fields, &place.Fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal place fields: %w", err)
	}
	return place, nil
}

// ListAll はコレクション全件を返す。フィルタやページングは行わない。
// 並び順は作成日時の昇順（ストア既定の安定順）。
func (r *PostgresPlaceRepo) ListAll(ctx context.Context) ([]*model.Place, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, fields, created_at, updated_at FROM places ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	defer rows.Close()

	var places []*model.Place
	for rows.Next() {
		place := &model.Place{}
		var fields []byte
		if err := rows.Scan(&place.ID, &fields, &place.CreatedAt, &place.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		if err := json.Unmarshal(fields, &place.Fields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal place fields: %w", err)
		}
		places = append(places, place)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate places: %w", err)
	}

	return places, nil
}

// MergeFields は既存フィールドに部分フィールドをマージする。
// JSONBの連結演算子で部分更新を行い、既存の他フィールドは保持される。
// 更新対象が存在した場合はtrueを返す。
func (r *PostgresPlaceRepo) MergeFields(ctx context.Context, id string, fields map[string]any) (bool, error) {
	partial, err := json.Marshal(fields)
	if err != nil {
		return false, fmt.Errorf("failed to marshal partial fields: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE places SET fields = fields || $2::jsonb, updated_at = $3 WHERE id = $1`,
		id, partial, time.Now(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to merge place fields: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteByID は指定IDのプレイスを削除する。
// 存在しないIDはエラーにしない（ストア準拠のno-opセマンティクス）。
func (r *PostgresPlaceRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM places WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete place: %w", err)
	}
	return nil
}

// compile-time interface check
var _ PlaceRepository = (*PostgresPlaceRepo)(nil)
