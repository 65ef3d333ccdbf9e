// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/ceylon/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	// メールアドレスは保存時に小文字へ正規化されている前提で完全一致検索する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// UpdateDisplayName は表示名を更新する。
	UpdateDisplayName(ctx context.Context, id, displayName string) error

	// UpdatePasswordHash はパスワードハッシュを更新する。
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error

	// UpdateLastLogin は最終ログイン日時を現在時刻に更新する。
	UpdateLastLogin(ctx context.Context, id string) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するsessions、user_preferencesはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// PreferenceRepository はユーザー設定の永続化インターフェース。
type PreferenceRepository interface {
	// FindByUserID は指定ユーザーの設定を取得する。未保存の場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.Preferences, error)
	// Upsert は設定を冪等に保存する。
	Upsert(ctx context.Context, prefs *model.Preferences) error
	// DeleteByUserID は指定ユーザーの設定を削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// PlaceRepository はプレイスコレクションの永続化インターフェース。
type PlaceRepository interface {
	// Create はプレイスを作成する。IDは呼び出し側が採番済みであること。
	Create(ctx context.Context, place *model.Place) error

	// FindByID は指定IDのプレイスを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Place, error)

	// ListAll はコレクション全件を返す。フィルタやページングは行わない。
	ListAll(ctx context.Context) ([]*model.Place, error)

	// MergeFields は既存フィールドに部分フィールドをマージする。
	// 更新対象が存在した場合はtrueを返す。
	MergeFields(ctx context.Context, id string, fields map[string]any) (bool, error)

	// DeleteByID は指定IDのプレイスを削除する。
	// 存在しないIDはエラーにしない（ストア準拠のno-opセマンティクス）。
	DeleteByID(ctx context.Context, id string) error
}

// AdvisoryRepository は渡航情報の永続化インターフェース。
type AdvisoryRepository interface {
	// Upsert はGUIDをキーに渡航情報を冪等に保存する。
	Upsert(ctx context.Context, advisory *model.Advisory) error
	// ListRecent は公開日時の降順でlimit件まで返す。
	ListRecent(ctx context.Context, limit int) ([]*model.Advisory, error)
}
