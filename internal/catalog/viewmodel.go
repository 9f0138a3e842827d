package catalog

import (
	"sort"
	"strings"

	"github.com/gabiiasi/galeria/internal/model"
)

// ViewModel は作品一覧のクエリ状態を所有し、表示用の投影を導出する。
// 状態の変更は即座にStateStoreへ保存され、次回構築時に復元される。
type ViewModel struct {
	store StateStore
	state QueryState
}

// NewViewModel はStateStoreから状態を復元してViewModelを構築する。
// 復元（ハイドレーション）ではページ番号はリセットされない。
// navが非nilの場合、そのカテゴリ指定を一度だけ適用して消費する。
// カテゴリの外部指定は通常のカテゴリ変更と同様にページを1に戻す。
func NewViewModel(store StateStore, nav *NavigationSignal) *ViewModel {
	vm := &ViewModel{
		store: store,
		state: loadState(store),
	}

	if nav != nil && nav.CategoryFilter != "" {
		vm.state.Category = nav.CategoryFilter
		vm.state.Page = 1
		saveState(store, vm.state)
	}

	return vm
}

// State は現在のクエリ状態を返す。
func (vm *ViewModel) State() QueryState {
	return vm.state
}

// SetSearchText は検索文字列を設定し、ページを1に戻す。
func (vm *ViewModel) SetSearchText(text string) {
	vm.state.Search = text
	vm.state.Page = 1
	saveState(vm.store, vm.state)
}

// SetCategory は選択カテゴリを設定し、ページを1に戻す。
// 既知のカテゴリ一覧に存在しない値もそのまま受け付ける
// （絞り込み結果が空になるだけでエラーにはしない）。
func (vm *ViewModel) SetCategory(category string) {
	if category == "" {
		category = CategoryAll
	}
	vm.state.Category = category
	vm.state.Page = 1
	saveState(vm.store, vm.state)
}

// SetSortKey はソートキーを設定する。ページはリセットしない。
// 無効なキーはエラーを返し、状態を変更しない。
func (vm *ViewModel) SetSortKey(key SortKey) error {
	if !ValidSortKey(key) {
		return model.NewInvalidSortKeyError(string(key))
	}
	vm.state.Sort = key
	saveState(vm.store, vm.state)
	return nil
}

// SetPage は現在のページ番号を設定する。他のフィールドはリセットしない。
// 1未満の値は1に切り上げる。
func (vm *ViewModel) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	vm.state.Page = page
	saveState(vm.store, vm.state)
}

// Page は導出結果の1ページ分の投影を表す。
type Page struct {
	Items      []model.Artwork
	TotalPages int
	TotalCount int
	State      QueryState
}

// Derive は作品リストと現在のクエリ状態から表示対象の1ページを導出する。
// ページ番号が絞り込み後の範囲を超えている場合（件数が減った後の復元など）は
// [1, totalPages]にクランプし、クランプ後の値を永続化する。
// 同一入力に対して常に同一出力を返す（冪等）。
func (vm *ViewModel) Derive(items []model.Artwork) Page {
	filtered := filterItems(items, vm.state)
	sortItems(filtered, vm.state.Sort)

	totalPages := (len(filtered) + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if vm.state.Page > totalPages {
		vm.state.Page = totalPages
		saveState(vm.store, vm.state)
	} else if vm.state.Page < 1 {
		vm.state.Page = 1
		saveState(vm.store, vm.state)
	}

	start := (vm.state.Page - 1) * PageSize
	end := start + PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return Page{
		Items:      filtered[start:end],
		TotalPages: totalPages,
		TotalCount: len(filtered),
		State:      vm.state,
	}
}

// filterItems は検索文字列とカテゴリで作品を絞り込む。
// 検索はタイトルに対する大文字小文字を区別しない部分一致。
// 空の検索文字列はすべてにマッチする。
func filterItems(items []model.Artwork, state QueryState) []model.Artwork {
	search := strings.ToLower(state.Search)

	filtered := make([]model.Artwork, 0, len(items))
	for _, item := range items {
		if search != "" && !strings.Contains(strings.ToLower(item.Title), search) {
			continue
		}
		if state.Category != CategoryAll && item.Category != state.Category {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// sortItems は指定キーで安定ソートする。
// 価格未設定（nil）は0として扱う。同値の場合は入力順（新しい順）を保つ。
func sortItems(items []model.Artwork, key SortKey) {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return priceValue(items[i]) < priceValue(items[j])
		})
	case SortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return priceValue(items[i]) > priceValue(items[j])
		})
	case SortPopularity:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Popularity > items[j].Popularity
		})
	default:
		// recent: 制作日時の新しい順
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	}
}

// priceValue はソート用の価格値を返す。未設定は0。
func priceValue(a model.Artwork) float64 {
	if a.Price == nil {
		return 0
	}
	return *a.Price
}
