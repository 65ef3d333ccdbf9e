package model

import "time"

// Place は観光スポットのレコードを表す。
// スキーマレスなコレクションとして扱い、name / description / location などの
// ドメインフィールドはFieldsにそのまま保持する。
// IDは作成時にサーバーが採番し、読み取り結果には必ず含まれる。
type Place struct {
	ID        string
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Advisory は外部フィードから取り込んだ渡航情報を表す。
type Advisory struct {
	ID          string
	GUID        string
	Title       string
	Link        string
	Summary     string
	PublishedAt time.Time
	FetchedAt   time.Time
}
