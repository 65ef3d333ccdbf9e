package advisory

import (
	"context"
	"fmt"

	"github.com/hitoshi/ceylon/internal/model"
	"github.com/hitoshi/ceylon/internal/repository"
)

// defaultListLimit は取得件数の既定値。
const defaultListLimit = 50

// maxListLimit は取得件数の上限。
const maxListLimit = 100

// Service は渡航情報の参照サービス層。
type Service struct {
	advisoryRepo repository.AdvisoryRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(advisoryRepo repository.AdvisoryRepository) *Service {
	return &Service{advisoryRepo: advisoryRepo}
}

// ListRecent は公開日時の降順で渡航情報を返す。
// limitが0以下の場合は既定値、上限超過時は上限に丸める。
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*model.Advisory, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	advisories, err := s.advisoryRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list advisories: %w", err)
	}
	return advisories, nil
}
