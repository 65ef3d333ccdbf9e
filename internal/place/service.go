// Package place は観光地コレクションのドメインロジックを提供する。
//
// プレイスはスキーマレスなドキュメントとして扱う。フィールドの意味や
// 必須項目はストレージ層では強制せず、クライアントが与えた形のまま保存する。
package place

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/ceylon/internal/model"
	"github.com/hitoshi/ceylon/internal/repository"
	"github.com/hitoshi/ceylon/internal/security"
)

// MetricsRecorder はプレイス書き込みのメトリクス記録インターフェース。
// nilの場合は記録をスキップする。
type MetricsRecorder interface {
	RecordPlaceWrite(operation string)
}

// Service はプレイス管理のサービス層。
type Service struct {
	placeRepo repository.PlaceRepository
	sanitizer security.SanitizerService
	metrics   MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。metricsはnil可。
func NewService(
	placeRepo repository.PlaceRepository,
	sanitizer security.SanitizerService,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		placeRepo: placeRepo,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// Create は新しいプレイスを作成し、採番したIDを含めて返す。
// フィールドのキー"id"はドキュメントIDと衝突するため黙って除去する。
// 文字列値はHTMLタグを除去してから保存する。
func (s *Service) Create(ctx context.Context, fields map[string]any) (*model.Place, error) {
	now := time.Now()
	place := &model.Place{
		ID:        uuid.New().String(),
		Fields:    s.cleanFields(fields),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.placeRepo.Create(ctx, place); err != nil {
		return nil, fmt.Errorf("failed to create place: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordPlaceWrite("create")
	}
	slog.Info("place created",
		slog.String("place_id", place.ID),
	)

	return place, nil
}

// GetByID は指定IDのプレイスを取得する。
func (s *Service) GetByID(ctx context.Context, id string) (*model.Place, error) {
	place, err := s.placeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find place: %w", err)
	}
	if place == nil {
		return nil, model.NewPlaceNotFoundError(id)
	}
	return place, nil
}

// ListAll はコレクション全件を返す。
func (s *Service) ListAll(ctx context.Context) ([]*model.Place, error) {
	places, err := s.placeRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	return places, nil
}

// Update は指定フィールドのみを既存ドキュメントへマージする。
// 渡されなかったフィールドは保持される。対象が存在しない場合は
// PLACE_NOT_FOUNDを返す（暗黙の新規作成はしない）。
func (s *Service) Update(ctx context.Context, id string, fields map[string]any) (*model.Place, error) {
	if id == "" {
		return nil, model.NewValidationError("Place ID is required.")
	}

	updated, err := s.placeRepo.MergeFields(ctx, id, s.cleanFields(fields))
	if err != nil {
		return nil, fmt.Errorf("failed to update place: %w", err)
	}
	if !updated {
		return nil, model.NewPlaceNotFoundError(id)
	}

	place, err := s.placeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find place: %w", err)
	}
	if place == nil {
		return nil, model.NewPlaceNotFoundError(id)
	}

	if s.metrics != nil {
		s.metrics.RecordPlaceWrite("update")
	}

	return place, nil
}

// Delete は指定IDのプレイスを削除する。
// 存在しないIDに対してもエラーにしない。
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return model.NewValidationError("Place ID is required.")
	}

	if err := s.placeRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete place: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordPlaceWrite("delete")
	}
	slog.Info("place deleted",
		slog.String("place_id", id),
	)

	return nil
}

// cleanFields は保存前のフィールド整形を行う。
// キー"id"を除去し、文字列値をサニタイズする。ネストは最上位のみ対象。
func (s *Service) cleanFields(fields map[string]any) map[string]any {
	cleaned := make(map[string]any, len(fields))
	for key, value := range fields {
		if key == "id" {
			continue
		}
		if str, ok := value.(string); ok {
			cleaned[key] = s.sanitizer.SanitizeText(str)
			continue
		}
		cleaned[key] = value
	}
	return cleaned
}
