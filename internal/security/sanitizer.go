// Package security はアプリケーションのセキュリティ機能を提供する。
//
// SanitizerService はクライアント入力および外部フィード由来のテキストを
// サニタイズし、XSSなどのリスクから保護する。
// bluemondayの許可リストベースのポリシーを使用する。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// SanitizerService はテキストサニタイズ機能のインターフェースを定義する。
type SanitizerService interface {
	// SanitizeText は全HTMLタグを除去したプレーンテキストを返す。
	// プレイスのnameやdescriptionなどクライアント入力の保存前に使用する。
	// 空文字列の入力には空文字列を返す。同一入力に対して常に同一出力を返す。
	SanitizeText(s string) string

	// SanitizeSummary は渡航情報の概要HTMLを限定的な許可リストでサニタイズする。
	// 許可タグ: p, br, a, ul, ol, li, strong, em。
	// script, iframe, styleタグおよびon*イベント属性は除去される。
	// aタグにはtarget="_blank"とrel="noopener noreferrer"が自動付与される。
	SanitizeSummary(rawHTML string) string
}

// sanitizer はSanitizerServiceの実装。
// 2種類のbluemondayポリシーを保持し、スレッドセーフに動作する。
type sanitizer struct {
	textPolicy    *bluemonday.Policy
	summaryPolicy *bluemonday.Policy
}

// NewSanitizer はSanitizerServiceの新しいインスタンスを生成する。
func NewSanitizer() *sanitizer {
	summary := bluemonday.NewPolicy()
	summary.AllowElements("p", "br", "ul", "ol", "li", "strong", "em")
	// リンクは許可するが、相対URLは不許可、別タブで開かせる
	summary.AllowAttrs("href").OnElements("a")
	summary.AllowRelativeURLs(false)
	summary.AddTargetBlankToFullyQualifiedLinks(true)
	summary.RequireNoReferrerOnLinks(true)

	return &sanitizer{
		textPolicy:    bluemonday.StrictPolicy(),
		summaryPolicy: summary,
	}
}

// SanitizeText は全HTMLタグを除去したプレーンテキストを返す。
func (s *sanitizer) SanitizeText(input string) string {
	return s.textPolicy.Sanitize(input)
}

// SanitizeSummary は渡航情報の概要HTMLを限定的な許可リストでサニタイズする。
func (s *sanitizer) SanitizeSummary(rawHTML string) string {
	return s.summaryPolicy.Sanitize(rawHTML)
}
