// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, gallery, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeArtworkNotFound   = "ARTWORK_NOT_FOUND"
	ErrCodeCategoryNotFound  = "CATEGORY_NOT_FOUND"
	ErrCodeDuplicateCategory = "DUPLICATE_CATEGORY"
	ErrCodeCategoryInUse     = "CATEGORY_IN_USE"
	ErrCodeInvalidStatus     = "INVALID_STATUS"
	ErrCodeInvalidSortKey    = "INVALID_SORT_KEY"
	ErrCodeInvalidURL        = "INVALID_URL"
	ErrCodeSSRFBlocked       = "SSRF_BLOCKED"
	ErrCodeImageFetchFailed  = "IMAGE_FETCH_FAILED"
	ErrCodeImageDecodeFailed = "IMAGE_DECODE_FAILED"
	ErrCodeInvalidArtwork    = "INVALID_ARTWORK"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeNotAdmin          = "NOT_ADMIN"
)

// NewArtworkNotFoundError は作品未検出エラーを生成する。
func NewArtworkNotFoundError(artworkID string) *APIError {
	return &APIError{
		Code:     ErrCodeArtworkNotFound,
		Message:  fmt.Sprintf("指定された作品が見つかりません: %s", artworkID),
		Category: "gallery",
		Action:   "作品IDを確認してください。",
	}
}

// NewCategoryNotFoundError はカテゴリ未検出エラーを生成する。
func NewCategoryNotFoundError(categoryID string) *APIError {
	return &APIError{
		Code:     ErrCodeCategoryNotFound,
		Message:  fmt.Sprintf("指定されたカテゴリが見つかりません: %s", categoryID),
		Category: "gallery",
		Action:   "カテゴリIDを確認してください。",
	}
}

// NewDuplicateCategoryError は重複カテゴリエラーを生成する。
func NewDuplicateCategoryError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateCategory,
		Message:  fmt.Sprintf("同名のカテゴリが既に存在します: %s", name),
		Category: "validation",
		Action:   "別のカテゴリ名を指定してください。",
	}
}

// NewCategoryInUseError は使用中カテゴリの削除エラーを生成する。
func NewCategoryInUseError(name string, count int) *APIError {
	return &APIError{
		Code:     ErrCodeCategoryInUse,
		Message:  fmt.Sprintf("カテゴリ「%s」は%d件の作品で使用されています。", name, count),
		Category: "validation",
		Action:   "先に該当する作品のカテゴリを変更してください。",
	}
}

// NewInvalidStatusError は無効な販売状態エラーを生成する。
func NewInvalidStatusError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStatus,
		Message:  fmt.Sprintf("無効な販売状態です: %s", status),
		Category: "validation",
		Action:   "販売状態には available、sold、custom-order のいずれかを指定してください。",
	}
}

// NewInvalidSortKeyError は無効なソートキーエラーを生成する。
func NewInvalidSortKeyError(key string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidSortKey,
		Message:  fmt.Sprintf("無効なソートキーです: %s", key),
		Category: "validation",
		Action:   "ソートキーには recent、price-asc、price-desc、popularity のいずれかを指定してください。",
	}
}

// NewInvalidURLError は無効なURLエラーを生成する。
func NewInvalidURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidURL,
		Message:  fmt.Sprintf("無効なURLです: %s", reason),
		Category: "validation",
		Action:   "正しいURL形式（http:// または https:// で始まるURL）を入力してください。",
	}
}

// NewSSRFBlockedError はSSRFブロックエラーを生成する。
func NewSSRFBlockedError() *APIError {
	return &APIError{
		Code:     ErrCodeSSRFBlocked,
		Message:  "セキュリティポリシーにより、指定されたURLへのアクセスがブロックされました。",
		Category: "validation",
		Action:   "公開されているWebサイトの画像URLを入力してください。ローカルネットワークやプライベートIPへのアクセスは許可されていません。",
	}
}

// NewImageFetchFailedError は画像取得失敗エラーを生成する。
func NewImageFetchFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeImageFetchFailed,
		Message:  fmt.Sprintf("画像の取得に失敗しました: %s", reason),
		Category: "gallery",
		Action:   "URLが正しいか確認し、しばらく待ってから再度お試しください。",
	}
}

// NewImageDecodeFailedError は画像デコード失敗エラーを生成する。
func NewImageDecodeFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeImageDecodeFailed,
		Message:  "画像の解析に失敗しました。",
		Category: "gallery",
		Action:   "JPEGまたはPNG形式の画像かどうか確認してください。",
	}
}

// NewInvalidArtworkError は作品入力の検証エラーを生成する。
func NewInvalidArtworkError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidArtwork,
		Message:  fmt.Sprintf("作品の入力内容が不正です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewNotAdminError は管理者権限がない場合のエラーを生成する。
func NewNotAdminError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeNotAdmin,
		Message:  fmt.Sprintf("このアカウントには管理者権限がありません: %s", email),
		Category: "auth",
		Action:   "管理者として登録されたGoogleアカウントでログインしてください。",
	}
}
