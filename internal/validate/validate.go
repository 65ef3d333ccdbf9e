// Package validate はフォーム入力の検証パイプラインを提供する。
//
// 各画面の検証は名前付きチェックの順序付き列として表現し、
// 最初に失敗したチェックのエラーを返す（ショートサーキット）。
// 失敗ごとにユーザー向けメッセージが1つ対応するため、
// どの入力がどのメッセージを生むかが決定的になる。
package validate

import (
	"regexp"
	"strings"

	"github.com/hitoshi/ceylon/internal/model"
)

// MinPasswordLength はパスワードの最低文字数。
const MinPasswordLength = 6

// emailPattern は local@domain.tld 形式の簡易メールアドレスパターン。
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Check は名前付きの検証述語。
// 失敗時は*model.APIErrorを、成功時はnilを返す。
type Check struct {
	Name string
	Fn   func() *model.APIError
}

// First は各チェックを順に評価し、最初の失敗を返す。
// すべて成功した場合はnilを返す。
func First(checks []Check) *model.APIError {
	for _, c := range checks {
		if err := c.Fn(); err != nil {
			return err
		}
	}
	return nil
}

// LoginChecks はログイン送信前のローカル検証列を返す。
// メールとパスワードの両方が入力されていることのみを確認する。
func LoginChecks(email, password string) []Check {
	return []Check{
		{
			Name: "credentials_present",
			Fn: func() *model.APIError {
				if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
					return model.NewValidationError("Please enter email and password.")
				}
				return nil
			},
		},
	}
}

// RegisterChecks はアカウント登録前のローカル検証列を返す。
// 評価順序は固定: 氏名 → メール入力 → メール形式 → パスワード入力 → 長さ → 確認一致。
func RegisterChecks(fullName, email, password, confirm string) []Check {
	return []Check{
		{
			Name: "full_name_present",
			Fn: func() *model.APIError {
				if strings.TrimSpace(fullName) == "" {
					return model.NewValidationError("Please enter your full name.")
				}
				return nil
			},
		},
		{
			Name: "email_present",
			Fn: func() *model.APIError {
				if strings.TrimSpace(email) == "" {
					return model.NewValidationError("Please enter your email address.")
				}
				return nil
			},
		},
		{
			Name: "email_format",
			Fn: func() *model.APIError {
				if !emailPattern.MatchString(strings.TrimSpace(email)) {
					return model.NewValidationError("Please enter a valid email address.")
				}
				return nil
			},
		},
		{
			Name: "password_present",
			Fn: func() *model.APIError {
				if strings.TrimSpace(password) == "" {
					return model.NewValidationError("Please enter a password.")
				}
				return nil
			},
		},
		{
			Name: "password_length",
			Fn: func() *model.APIError {
				if len(password) < MinPasswordLength {
					return model.NewWeakPasswordError()
				}
				return nil
			},
		},
		{
			Name: "password_confirmation",
			Fn: func() *model.APIError {
				if password != confirm {
					return model.NewValidationError("Passwords do not match.")
				}
				return nil
			},
		},
	}
}

// PasswordChangeChecks はパスワード変更前のローカル検証列を返す。
// 再認証（現在パスワードの照合）はサービス層がこの検証の後に行う。
func PasswordChangeChecks(current, newPassword, confirm string) []Check {
	return []Check{
		{
			Name: "fields_present",
			Fn: func() *model.APIError {
				if strings.TrimSpace(current) == "" ||
					strings.TrimSpace(newPassword) == "" ||
					strings.TrimSpace(confirm) == "" {
					return model.NewValidationError("Please fill in all password fields")
				}
				return nil
			},
		},
		{
			Name: "password_confirmation",
			Fn: func() *model.APIError {
				if newPassword != confirm {
					return model.NewValidationError("New passwords do not match")
				}
				return nil
			},
		},
		{
			Name: "password_length",
			Fn: func() *model.APIError {
				if len(newPassword) < MinPasswordLength {
					return model.NewWeakPasswordError()
				}
				return nil
			},
		},
	}
}
