package handler

import (
	"context"
	"log/slog"

	"github.com/gabiiasi/galeria/internal/catalog"
	"github.com/gabiiasi/galeria/internal/repository"
)

// visitorStateStore は repository.ViewStateRepository を catalog.StateStore に適合させるアダプタ。
// リクエストのコンテキストと閲覧者IDを束ねて、キー単位の読み書きに変換する。
type visitorStateStore struct {
	ctx       context.Context
	visitorID string
	repo      repository.ViewStateRepository
}

// NewVisitorStateStore は閲覧者IDに束縛されたcatalog.StateStoreを生成する。
func NewVisitorStateStore(ctx context.Context, visitorID string, repo repository.ViewStateRepository) catalog.StateStore {
	return &visitorStateStore{
		ctx:       ctx,
		visitorID: visitorID,
		repo:      repo,
	}
}

// Get はキーに対応する値を返す。
// リポジトリのエラーは「保存なし」として扱い、デフォルト状態へのフォールバックに委ねる。
func (s *visitorStateStore) Get(key string) (string, bool) {
	value, found, err := s.repo.Get(s.ctx, s.visitorID, key)
	if err != nil {
		slog.Error("failed to load view state",
			slog.String("visitor_id", s.visitorID),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return "", false
	}
	return value, found
}

// Set はキーに値を保存する。保存失敗は表示に影響しないためログのみ残す。
func (s *visitorStateStore) Set(key, value string) {
	if err := s.repo.Set(s.ctx, s.visitorID, key, value); err != nil {
		slog.Error("failed to save view state",
			slog.String("visitor_id", s.visitorID),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// compile-time interface check
var _ catalog.StateStore = (*visitorStateStore)(nil)
