// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService は管理画面から入力される作品説明やプロフィール文を
// サニタイズし、XSS攻撃などのセキュリティリスクから閲覧者を保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 説明文はプレーンテキストのみ、プロフィール文は最小限の整形タグのみを通過させる。
package security

import "github.com/microcosm-cc/bluemonday"

// TextSanitizerService は入力テキストのサニタイズ機能のインターフェースを定義する。
// 作品・プロフィールの保存前に使用される。
type TextSanitizerService interface {
	// SanitizeText はすべてのHTMLタグを除去したプレーンテキストを返す。
	// 作品タイトル・説明・寸法などの短文フィールドに使用する。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeText(raw string) string

	// SanitizeRichText は最小限の整形タグ（p, br, strong, em, blockquote）のみを
	// 許可したHTMLを返す。プロフィールの紹介文に使用する。
	// script, iframe, styleタグおよびon*イベント属性はすべて除去される。
	SanitizeRichText(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	strict *bluemonday.Policy
	rich   *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// 初期化時にbluemondayのポリシーを構築する。
func NewTextSanitizer() *textSanitizer {
	rich := bluemonday.NewPolicy()
	// 整形タグのみ許可。許可リストに含めないタグと属性は自動的に除去される。
	rich.AllowElements("p", "br", "strong", "em", "blockquote")

	return &textSanitizer{
		strict: bluemonday.StrictPolicy(),
		rich:   rich,
	}
}

// SanitizeText はすべてのHTMLタグを除去したプレーンテキストを返す。
func (s *textSanitizer) SanitizeText(raw string) string {
	return s.strict.Sanitize(raw)
}

// SanitizeRichText は許可タグのみを残したHTMLを返す。
func (s *textSanitizer) SanitizeRichText(raw string) string {
	return s.rich.Sanitize(raw)
}
