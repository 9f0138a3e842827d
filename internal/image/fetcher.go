package image

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabiiasi/galeria/internal/security"
)

// FetcherService は外部URLからの画像取得機能のインターフェースを定義する。
// 管理画面からURL指定で作品画像を取り込む際に使用される。
type FetcherService interface {
	// Fetch は指定URLから画像データを取得する。
	// URLはSSRFガードで検証され、取得サイズはmaxBytesに制限される。
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// fetcher はFetcherServiceの実装。
type fetcher struct {
	guard    security.SSRFGuardService
	client   *http.Client
	maxBytes int64
}

// NewFetcher はFetcherServiceの新しいインスタンスを生成する。
func NewFetcher(guard security.SSRFGuardService, timeout time.Duration, maxBytes int64) *fetcher {
	return &fetcher{
		guard:    guard,
		client:   guard.NewSafeClient(timeout),
		maxBytes: maxBytes,
	}
}

// Fetch は指定URLから画像データを取得する。
// レスポンスのContent-Typeがimage/*でない場合はエラーを返す。
func (f *fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.guard.ValidateURL(rawURL); err != nil {
		return nil, fmt.Errorf("unsafe image URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status fetching image: %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("unexpected content type: %s", contentType)
	}

	// maxBytesを1バイト超えて読めた場合はサイズ超過とみなす
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("image exceeds size limit of %d bytes", f.maxBytes)
	}

	return data, nil
}
