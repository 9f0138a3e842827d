// Package catalog は公開ギャラリーの検索・絞り込み・並び替え・ページングの
// ビュー状態と導出ロジックを提供する。
//
// クエリ状態は明示的な値型として保持し、導出は純粋関数として行う。
// 状態の永続化はStateStoreへの明示的な読み書きとして境界に置く。
package catalog

import "strconv"

// SortKey は作品一覧の並び替えキーを表す。
type SortKey string

const (
	// SortRecent は制作日時の新しい順（デフォルト）。
	SortRecent SortKey = "recent"
	// SortPriceAsc は価格の安い順。
	SortPriceAsc SortKey = "price-asc"
	// SortPriceDesc は価格の高い順。
	SortPriceDesc SortKey = "price-desc"
	// SortPopularity は人気度の高い順。
	SortPopularity SortKey = "popularity"
)

// ValidSortKey はkが定義済みのSortKeyかどうかを返す。
func ValidSortKey(k SortKey) bool {
	switch k {
	case SortRecent, SortPriceAsc, SortPriceDesc, SortPopularity:
		return true
	}
	return false
}

// CategoryAll は全カテゴリを表す番兵値。
const CategoryAll = "All"

// PageSize は1ページあたりの作品数。
const PageSize = 9

// QueryState は閲覧者の現在の検索・カテゴリ・ソート・ページ選択を表す。
// シリアライズ可能な値型であり、導出関数に値渡しされる。
type QueryState struct {
	Search   string
	Category string
	Sort     SortKey
	Page     int
}

// DefaultQueryState は初期状態のQueryStateを返す。
func DefaultQueryState() QueryState {
	return QueryState{
		Search:   "",
		Category: CategoryAll,
		Sort:     SortRecent,
		Page:     1,
	}
}

// StateStore はクエリ状態をフィールド名キーで永続化する文字列KVストア。
// ナビゲーションをまたいだ状態の復元に使用する。実装は外部コラボレータ。
type StateStore interface {
	// Get はキーに対応する値を返す。存在しない場合はfalseを返す。
	Get(key string) (string, bool)
	// Set はキーに値を保存する。
	Set(key, value string)
}

// NavigationSignal はギャラリー表示時に一度だけ適用されるカテゴリ指定を表す。
// 消費は一度きりで、再レンダリングで再適用されることはない。
type NavigationSignal struct {
	CategoryFilter string
}

// 永続化に使用するキー
const (
	stateKeySearch   = "catalog.search"
	stateKeyCategory = "catalog.category"
	stateKeySort     = "catalog.sort"
	stateKeyPage     = "catalog.page"
)

// loadState はストアからQueryStateを復元する。
// 保存されていないフィールドや不正な値はデフォルト値にフォールバックする。
func loadState(store StateStore) QueryState {
	state := DefaultQueryState()
	if store == nil {
		return state
	}

	if v, ok := store.Get(stateKeySearch); ok {
		state.Search = v
	}
	if v, ok := store.Get(stateKeyCategory); ok && v != "" {
		state.Category = v
	}
	if v, ok := store.Get(stateKeySort); ok && ValidSortKey(SortKey(v)) {
		state.Sort = SortKey(v)
	}
	if v, ok := store.Get(stateKeyPage); ok {
		if page, err := strconv.Atoi(v); err == nil && page >= 1 {
			state.Page = page
		}
	}

	return state
}

// saveState はQueryStateの全フィールドをストアに保存する。
func saveState(store StateStore, state QueryState) {
	if store == nil {
		return
	}
	store.Set(stateKeySearch, state.Search)
	store.Set(stateKeyCategory, state.Category)
	store.Set(stateKeySort, string(state.Sort))
	store.Set(stateKeyPage, strconv.Itoa(state.Page))
}
