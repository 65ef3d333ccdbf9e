// Package account はプロフィール・設定・退会のドメインロジックを提供する。
package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/ceylon/internal/model"
	"github.com/hitoshi/ceylon/internal/repository"
)

// Service はアカウント管理のサービス層。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	prefRepo    repository.PreferenceRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	prefRepo repository.PreferenceRepository,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		prefRepo:    prefRepo,
	}
}

// UpdateDisplayName は表示名を更新する。
// 空白のみの名前は拒否し、前後の空白は除去して保存する。
func (s *Service) UpdateDisplayName(ctx context.Context, userID, displayName string) (*model.User, error) {
	trimmed := strings.TrimSpace(displayName)
	if trimmed == "" {
		return nil, model.NewValidationError("Please enter your full name.")
	}

	if err := s.userRepo.UpdateDisplayName(ctx, userID, trimmed); err != nil {
		return nil, fmt.Errorf("failed to update display name: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	slog.Info("display name updated",
		slog.String("user_id", userID),
	)

	return user, nil
}

// GetPreferences はユーザー設定を取得する。
// 未保存の場合はデフォルト設定を返す（保存はしない）。
func (s *Service) GetPreferences(ctx context.Context, userID string) (*model.Preferences, error) {
	prefs, err := s.prefRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find preferences: %w", err)
	}
	if prefs == nil {
		return model.DefaultPreferences(userID), nil
	}
	return prefs, nil
}

// UpdatePreferences はユーザー設定を保存する。
// 設定は端末を跨いで永続化される。
func (s *Service) UpdatePreferences(ctx context.Context, userID string, darkMode, notifications, location bool) (*model.Preferences, error) {
	prefs := &model.Preferences{
		UserID:        userID,
		DarkMode:      darkMode,
		Notifications: notifications,
		Location:      location,
	}

	if err := s.prefRepo.Upsert(ctx, prefs); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}

	return prefs, nil
}

// Withdraw はユーザーの退会処理を実行する。
// 削除順序: user_preferences → sessions → user
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	slog.Info("account withdrawal started",
		slog.String("user_id", userID),
	)

	if err := s.prefRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete preferences: %w", err)
	}

	if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}

	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("account withdrawal completed",
		slog.String("user_id", userID),
	)

	return nil
}
