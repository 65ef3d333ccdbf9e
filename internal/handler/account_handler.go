package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/ceylon/internal/middleware"
	"github.com/hitoshi/ceylon/internal/model"
)

// AccountServiceInterface はアカウントハンドラーが必要とするサービスインターフェース。
type AccountServiceInterface interface {
	// UpdateDisplayName は表示名を更新し、更新後のユーザーを返す。
	UpdateDisplayName(ctx context.Context, userID, displayName string) (*model.User, error)
	// GetPreferences はユーザー設定を取得する。未保存の場合はデフォルトを返す。
	GetPreferences(ctx context.Context, userID string) (*model.Preferences, error)
	// UpdatePreferences はユーザー設定を保存する。
	UpdatePreferences(ctx context.Context, userID string, darkMode, notifications, location bool) (*model.Preferences, error)
	// Withdraw はユーザーの退会処理を実行する。
	Withdraw(ctx context.Context, userID string) error
}

// PasswordChangerInterface はパスワード変更に必要なサービスインターフェース。
// 再認証を含むため認証サービス側が実装する。
type PasswordChangerInterface interface {
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword, confirm string) error
}

// AccountHandler はプロフィール・設定・退会のHTTPハンドラー。
type AccountHandler struct {
	service         AccountServiceInterface
	passwordChanger PasswordChangerInterface
}

// NewAccountHandler はAccountHandlerを生成する。
func NewAccountHandler(service AccountServiceInterface, passwordChanger PasswordChangerInterface) *AccountHandler {
	return &AccountHandler{
		service:         service,
		passwordChanger: passwordChanger,
	}
}

// updateProfileRequest はプロフィール更新リクエストのボディ。
type updateProfileRequest struct {
	Name string `json:"name"`
}

// changePasswordRequest はパスワード変更リクエストのボディ。
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// preferencesRequest はユーザー設定更新リクエストのボディ。
type preferencesRequest struct {
	DarkMode      bool `json:"dark_mode"`
	Notifications bool `json:"notifications"`
	Location      bool `json:"location"`
}

// preferencesResponse はユーザー設定のAPIレスポンス。
type preferencesResponse struct {
	DarkMode      bool `json:"dark_mode"`
	Notifications bool `json:"notifications"`
	Location      bool `json:"location"`
}

// UpdateProfile は表示名を更新する。
// PUT /api/profile
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	user, err := h.service.UpdateDisplayName(r.Context(), userID, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toUserResponse(user))
}

// ChangePassword は再認証を伴うパスワード変更を実行する。
// PUT /api/profile/password
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if err := h.passwordChanger.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetPreferences はユーザー設定を返す。
// GET /api/preferences
func (h *AccountHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	prefs, err := h.service.GetPreferences(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPreferencesResponse(prefs))
}

// UpdatePreferences はユーザー設定を保存する。
// PUT /api/preferences
func (h *AccountHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	prefs, err := h.service.UpdatePreferences(r.Context(), userID, req.DarkMode, req.Notifications, req.Location)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPreferencesResponse(prefs))
}

// Withdraw はユーザーの退会処理を実行する。
// DELETE /api/users/me
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.Withdraw(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toPreferencesResponse はmodel.PreferencesからAPIレスポンスに変換する。
func toPreferencesResponse(prefs *model.Preferences) preferencesResponse {
	return preferencesResponse{
		DarkMode:      prefs.DarkMode,
		Notifications: prefs.Notifications,
		Location:      prefs.Location,
	}
}
