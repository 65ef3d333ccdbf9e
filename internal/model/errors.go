// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, place, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeInvalidCredential = "INVALID_CREDENTIALS"
	ErrCodeEmailInUse        = "EMAIL_ALREADY_IN_USE"
	ErrCodeWeakPassword      = "WEAK_PASSWORD"
	ErrCodeWrongPassword     = "WRONG_PASSWORD"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodePlaceNotFound     = "PLACE_NOT_FOUND"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
)

// NewValidationError はクライアント入力の検証エラーを生成する。
// ネットワーク到達前に弾かれるエラーであり、サーバー側ではログに残さない。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
		Action:   "Check the entered values and try again.",
	}
}

// NewInvalidCredentialsError はサインイン失敗エラーを生成する。
// メール未登録とパスワード不一致を区別せず、同一メッセージを返す。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredential,
		Message:  "Invalid email or password.",
		Category: "auth",
		Action:   "Check your email and password, then try again.",
	}
}

// NewEmailInUseError はメールアドレス重複エラーを生成する。
func NewEmailInUseError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailInUse,
		Message:  "This email address is already registered.",
		Category: "auth",
		Action:   "Sign in instead, or use a different email address.",
	}
}

// NewWeakPasswordError はパスワード強度不足エラーを生成する。
func NewWeakPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeWeakPassword,
		Message:  "Password must be at least 6 characters long.",
		Category: "validation",
		Action:   "Choose a longer password.",
	}
}

// NewWrongPasswordError は再認証時の現在パスワード不一致エラーを生成する。
// パスワード変更前の再認証でのみ使用する。
func NewWrongPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeWrongPassword,
		Message:  "Current password is incorrect",
		Category: "auth",
		Action:   "Enter your current password and try again.",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "User not found.",
		Category: "auth",
		Action:   "Sign in again.",
	}
}

// NewPlaceNotFoundError はプレイスが見つからない場合のエラーを生成する。
func NewPlaceNotFoundError(placeID string) *APIError {
	return &APIError{
		Code:     ErrCodePlaceNotFound,
		Message:  fmt.Sprintf("Place not found: %s", placeID),
		Category: "place",
		Action:   "Check the place ID.",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Authentication required.",
		Category: "auth",
		Action:   "Sign in and try again.",
	}
}
