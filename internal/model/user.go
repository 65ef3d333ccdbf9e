// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashはbcryptハッシュで、APIレスポンスには一切含めない。
type User struct {
	ID            string
	Email         string
	DisplayName   string
	EmailVerified bool
	PasswordHash  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	// LastLoginAt は最終ログイン日時。一度もログインしていない場合はnil。
	LastLoginAt *time.Time
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Preferences はユーザーごとのアプリ設定を表す。
// モバイルクライアントの設定画面のトグルに対応する。
type Preferences struct {
	UserID        string
	DarkMode      bool
	Notifications bool
	Location      bool
	UpdatedAt     time.Time
}

// DefaultPreferences は未保存ユーザーに返すデフォルト設定を生成する。
// 通知と位置情報は初期状態で有効、ダークモードは無効。
func DefaultPreferences(userID string) *Preferences {
	return &Preferences{
		UserID:        userID,
		DarkMode:      false,
		Notifications: true,
		Location:      true,
	}
}
