// Package auth はメール/パスワード認証とセッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/ceylon/internal/model"
	"github.com/hitoshi/ceylon/internal/repository"
	"github.com/hitoshi/ceylon/internal/validate"
)

// MetricsRecorder は認証イベントのメトリクス記録インターフェース。
// nilの場合は記録をスキップする。
type MetricsRecorder interface {
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordRegistration()
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
	BcryptCost    int // bcryptコストパラメータ。0以下の場合はbcrypt.DefaultCost
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
	metrics     MetricsRecorder
}

// NewService はServiceを生成する。metricsはnil可。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
	metrics MetricsRecorder,
) *Service {
	if config.BcryptCost <= 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		config:      config,
		metrics:     metrics,
	}
}

// Register は新規アカウントを作成する。
// ローカル検証（固定順序、最初の失敗で打ち切り）を通過した場合のみストレージに触れる。
// メールアドレス重複時はEMAIL_ALREADY_IN_USEを返し、アカウントは作成されない。
// セッションは発行しない（クライアントは登録後にログイン画面へ遷移する）。
func (s *Service) Register(ctx context.Context, fullName, email, password, confirm string) (*model.User, error) {
	if verr := validate.First(validate.RegisterChecks(fullName, email, password, confirm)); verr != nil {
		return nil, verr
	}

	normalizedEmail := strings.ToLower(strings.TrimSpace(email))

	existing, err := s.userRepo.FindByEmail(ctx, normalizedEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmailInUseError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:            uuid.New().String(),
		Email:         normalizedEmail,
		DisplayName:   strings.TrimSpace(fullName),
		EmailVerified: false,
		PasswordHash:  string(hash),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordRegistration()
	}
	slog.Info("new user registered",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// Login はメール/パスワードを検証し、セッションを発行する。
// 両フィールドが空でないことのローカル検証を通過した場合のみストレージに触れる。
// メール未登録とパスワード不一致は区別せずINVALID_CREDENTIALSを返す。
// 成功時は最終ログイン日時を更新する。
func (s *Service) Login(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
	if verr := validate.First(validate.LoginChecks(email, password)); verr != nil {
		return nil, nil, verr
	}

	normalizedEmail := strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, normalizedEmail)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		if s.metrics != nil {
			s.metrics.RecordLoginFailure()
		}
		return nil, nil, model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if s.metrics != nil {
			s.metrics.RecordLoginFailure()
		}
		return nil, nil, model.NewInvalidCredentialsError()
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		// ログイン自体は成功しているため、失敗はログのみに残す
		slog.Error("failed to update last login",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordLoginSuccess()
	}
	slog.Info("user logged in",
		slog.String("user_id", user.ID),
	)

	return session, user, nil
}

// Logout はセッションを破棄する。
// サーバー側セッションを明示的に無効化し、クライアントはCookieを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser はセッションから現在のユーザーを取得する。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session not found or expired")
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	return user, nil
}

// Reauthenticate は現在パスワードの知識を再証明する。
// パスワード変更などの機微な操作の直前に必須。
// 不一致の場合はWRONG_PASSWORDを返す。
func (s *Service) Reauthenticate(ctx context.Context, userID, currentPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return model.NewWrongPasswordError()
	}

	return nil
}

// ChangePassword はパスワードを変更する。
// ローカル検証 → 再認証 → 更新の順で実行する。
// 再認証を先に行う順序は必須（機微な変更は直前の再証明を要求する）。
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword, confirm string) error {
	if verr := validate.First(validate.PasswordChangeChecks(currentPassword, newPassword, confirm)); verr != nil {
		return verr
	}

	if err := s.Reauthenticate(ctx, userID, currentPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.config.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password changed",
		slog.String("user_id", userID),
	)

	return nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
