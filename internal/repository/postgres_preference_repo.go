package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/ceylon/internal/model"
)

// PostgresPreferenceRepo はPostgreSQLを使用したユーザー設定リポジトリ。
type PostgresPreferenceRepo struct {
	db *sql.DB
}

// NewPostgresPreferenceRepo はPostgresPreferenceRepoを生成する。
func NewPostgresPreferenceRepo(db *sql.DB) *PostgresPreferenceRepo {
	return &PostgresPreferenceRepo{db: db}
}

// FindByUserID は指定ユーザーの設定を取得する。未保存の場合はnilを返す。
func (r *PostgresPreferenceRepo) FindByUserID(ctx context.Context, userID string) (*model.Preferences, error) {
	prefs := &model.Preferences{}
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, dark_mode, notifications, location, updated_at
		 FROM user_preferences WHERE user_id = $1`,
		userID,
	).Scan(&prefs.UserID, &prefs.DarkMode, &prefs.Notifications, &prefs.Location, &prefs.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find preferences: %w", err)
	}

	return prefs, nil
}

// Upsert は設定を冪等に保存する。
func (r *PostgresPreferenceRepo) Upsert(ctx context.Context, prefs *model.Preferences) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_preferences (user_id, dark_mode, notifications, location, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET
		   dark_mode = EXCLUDED.dark_mode,
		   notifications = EXCLUDED.notifications,
		   location = EXCLUDED.location,
		   updated_at = EXCLUDED.updated_at`,
		prefs.UserID, prefs.DarkMode, prefs.Notifications, prefs.Location, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert preferences: %w", err)
	}
	return nil
}

// DeleteByUserID は指定ユーザーの設定を削除する。
func (r *PostgresPreferenceRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_preferences WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete preferences: %w", err)
	}
	return nil
}

// compile-time interface check
var _ PreferenceRepository = (*PostgresPreferenceRepo)(nil)
