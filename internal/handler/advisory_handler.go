package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/ceylon/internal/model"
)

// AdvisoryServiceInterface は渡航情報ハンドラーが必要とするサービスインターフェース。
type AdvisoryServiceInterface interface {
	// ListRecent は公開日時の降順で渡航情報を返す。
	ListRecent(ctx context.Context, limit int) ([]*model.Advisory, error)
}

// AdvisoryHandler は渡航情報のHTTPハンドラー。
type AdvisoryHandler struct {
	service AdvisoryServiceInterface
}

// NewAdvisoryHandler はAdvisoryHandlerを生成する。
func NewAdvisoryHandler(service AdvisoryServiceInterface) *AdvisoryHandler {
	return &AdvisoryHandler{
		service: service,
	}
}

// advisoryResponse は渡航情報のAPIレスポンス。
type advisoryResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Summary     string    `json:"summary"`
	PublishedAt time.Time `json:"published_at"`
}

// ListAdvisories は最新の渡航情報を返す。
// GET /api/advisories?limit=20
func (h *AdvisoryHandler) ListAdvisories(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("limit must be a non-negative integer."))
			return
		}
		limit = parsed
	}

	advisories, err := h.service.ListRecent(r.Context(), limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]advisoryResponse, 0, len(advisories))
	for _, a := range advisories {
		results = append(results, advisoryResponse{
			ID:          a.ID,
			Title:       a.Title,
			Link:        a.Link,
			Summary:     a.Summary,
			PublishedAt: a.PublishedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}
