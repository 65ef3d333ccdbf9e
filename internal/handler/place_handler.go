package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/ceylon/internal/model"
)

// PlaceServiceInterface はプレイスハンドラーが必要とするサービスインターフェース。
type PlaceServiceInterface interface {
	// Create は新しいプレイスを作成し、採番したIDを含めて返す。
	Create(ctx context.Context, fields map[string]any) (*model.Place, error)
	// GetByID は指定IDのプレイスを取得する。
	GetByID(ctx context.Context, id string) (*model.Place, error)
	// ListAll はコレクション全件を返す。
	ListAll(ctx context.Context) ([]*model.Place, error)
	// Update は指定フィールドのみを既存ドキュメントへマージする。
	Update(ctx context.Context, id string, fields map[string]any) (*model.Place, error)
	// Delete は指定IDのプレイスを削除する。存在しないIDはno-op。
	Delete(ctx context.Context, id string) error
}

// PlaceHandler はプレイス管理のHTTPハンドラー。
type PlaceHandler struct {
	service PlaceServiceInterface
}

// NewPlaceHandler はPlaceHandlerを生成する。
func NewPlaceHandler(service PlaceServiceInterface) *PlaceHandler {
	return &PlaceHandler{
		service: service,
	}
}

// CreatePlace は新しいプレイスを作成する。
// POST /api/places
// ボディはスキーマレスなJSONオブジェクトをそのまま受け取る。
func (h *PlaceHandler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	place, err := h.service.Create(r.Context(), fields)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toPlaceResponse(place))
}

// ListPlaces はコレクション全件を返す。
// GET /api/places
func (h *PlaceHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]map[string]any, 0, len(places))
	for _, place := range places {
		results = append(results, toPlaceResponse(place))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// GetPlace はプレイス詳細を取得する。
// GET /api/places/{id}
func (h *PlaceHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "id")

	place, err := h.service.GetByID(r.Context(), placeID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPlaceResponse(place))
}

// UpdatePlace は指定フィールドのみをマージ更新する。
// PATCH /api/places/{id}
func (h *PlaceHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "id")

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	place, err := h.service.Update(r.Context(), placeID, fields)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPlaceResponse(place))
}

// DeletePlace はプレイスを削除する。
// DELETE /api/places/{id}
// 存在しないIDに対しても204を返す。
func (h *PlaceHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), placeID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toPlaceResponse はmodel.PlaceからAPIレスポンスに変換する。
// ドキュメントのフィールドにid・タイムスタンプを重ねたフラットなオブジェクトを返す。
func toPlaceResponse(place *model.Place) map[string]any {
	resp := make(map[string]any, len(place.Fields)+3)
	for key, value := range place.Fields {
		resp[key] = value
	}
	resp["id"] = place.ID
	resp["created_at"] = place.CreatedAt.Format(time.RFC3339)
	resp["updated_at"] = place.UpdatedAt.Format(time.RFC3339)
	return resp
}
