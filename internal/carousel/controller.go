// Package carousel はホームページのヒーローカルーセルの状態遷移を管理する。
//
// カルーセルは元画像リストの先頭要素を末尾に複製した「描画用リスト」を持ち、
// 複製スライドに到達した後、トランジション時間の経過を待ってから
// アニメーションを無効にした状態でインデックスを0に巻き戻す。
// これにより末尾から先頭へのループが視覚的に途切れなく見える。
package carousel

import (
	"log/slog"
	"sync"
	"time"
)

// Frame はレンダリング層に渡すカルーセルの投影を表す。
type Frame struct {
	Slides  []string `json:"slides"` // 描画用リスト（末尾に先頭の複製を含む）
	Index   int      `json:"index"`
	Animate bool     `json:"animate"`
}

// WrapObserver はループ巻き戻しの発生を記録するインターフェース。
// メトリクス収集で使用する。
type WrapObserver interface {
	RecordCarouselWrap()
}

// Controller はカルーセルのインデックスと自動送りタイマーを所有する。
// すべての状態遷移はmutexで直列化され、イベント1件ずつ完結して処理される。
type Controller struct {
	mu sync.Mutex

	source  []string // 元画像リスト（複製を含まない）
	index   int
	animate bool

	interval   time.Duration // 自動送りの間隔
	transition time.Duration // アニメーションのトランジション時間

	advanceTimer *time.Timer
	wrapTimer    *time.Timer

	// gen はスライド列の世代番号。スライド差し替え・停止のたびに進み、
	// 古い世代にスケジュールされたコールバックを無効化する。
	gen uint64

	stopped  bool
	logger   *slog.Logger
	observer WrapObserver
}

// NewController はControllerを生成する。タイマーはSetSlidesで
// 2枚以上のスライドが与えられるまで起動しない。
// observerはnilを許容する。
func NewController(interval, transition time.Duration, logger *slog.Logger, observer WrapObserver) *Controller {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if transition <= 0 {
		transition = 700 * time.Millisecond
	}
	return &Controller{
		interval:   interval,
		transition: transition,
		animate:    true,
		logger:     logger,
		observer:   observer,
	}
}

// SetSlides はスライド列を丸ごと差し替える。
// 既存のタイマーはすべてキャンセルされ、世代番号が進むため、
// 差し替え前にスケジュールされた巻き戻しは発火しても無視される。
// 空→非空、非空→空の遷移でのみインデックスを0に戻し、
// それ以外ではインデックスを維持する（描画用リストの範囲内にクランプする）。
func (c *Controller) SetSlides(slides []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}

	c.cancelTimersLocked()
	c.gen++

	wasEmpty := len(c.source) == 0
	c.source = append([]string(nil), slides...)

	if len(c.source) == 0 || wasEmpty {
		c.index = 0
	} else if max := c.renderedLenLocked() - 1; c.index > max {
		// 新しいリストが現在のインデックスより短い場合は防御的にクランプする
		c.index = max
	}
	c.animate = true

	c.armAdvanceLocked()
}

// Next はスライドを1つ進める。スライドが1枚以下の場合は何もしない。
// インデックスが変わるたびに自動送りタイマーを再始動する。
func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextLocked()
}

// nextLocked はmu保持下でNextの本体を実行する。
func (c *Controller) nextLocked() {
	if c.stopped || len(c.source) <= 1 {
		return
	}

	// 複製スライド表示中は巻き戻し待ちのため、これ以上進めない。
	// インデックスは常に描画用リストの範囲内に収まる。
	if c.index >= c.renderedLenLocked()-1 {
		return
	}

	c.animate = true
	c.index++

	// 複製スライド（描画用リストの末尾）に到達したら、
	// トランジション完了後の巻き戻しをスケジュールする
	if c.index == c.renderedLenLocked()-1 {
		c.scheduleWrapLocked()
	}

	c.armAdvanceLocked()
}

// Prev はスライドを1つ戻す。インデックス0からは複製ではなく
// 真の最終スライド（len(source)-1）に戻る。
// スライドが1枚以下の場合は何もしない。
func (c *Controller) Prev() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped || len(c.source) <= 1 {
		return
	}

	c.animate = true
	if c.index == 0 {
		c.index = len(c.source) - 1
	} else {
		c.index--
	}

	c.armAdvanceLocked()
}

// Frame は現在のカルーセル投影を返す。
// スライドが空の場合はSlidesがnilの空フレームを返し、
// レンダリング層はプレースホルダーを表示する。
func (c *Controller) Frame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.source) == 0 {
		return Frame{Index: 0, Animate: false}
	}

	rendered := make([]string, 0, len(c.source)+1)
	rendered = append(rendered, c.source...)
	rendered = append(rendered, c.source[0])

	return Frame{
		Slides:  rendered,
		Index:   c.index,
		Animate: c.animate,
	}
}

// Stop はすべてのタイマーをキャンセルしコントローラを停止する。
// 停止後の操作はすべて無視される。冪等。
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	c.stopped = true
	c.gen++
	c.cancelTimersLocked()
}

// renderedLenLocked は描画用リスト（複製込み）の長さを返す。
func (c *Controller) renderedLenLocked() int {
	if len(c.source) == 0 {
		return 0
	}
	return len(c.source) + 1
}

// armAdvanceLocked は自動送りタイマーを再始動する。
// スライドが1枚以下の場合はタイマーを張らない。
func (c *Controller) armAdvanceLocked() {
	if c.advanceTimer != nil {
		c.advanceTimer.Stop()
		c.advanceTimer = nil
	}
	if len(c.source) <= 1 {
		return
	}

	gen := c.gen
	c.advanceTimer = time.AfterFunc(c.interval, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.stopped || c.gen != gen {
			return
		}
		c.nextLocked()
	})
}

// scheduleWrapLocked はトランジション時間の経過後に、
// アニメーションを無効化してインデックスを0へ巻き戻す処理をスケジュールする。
// 巻き戻しフレームだけがAnimate=falseとなり、次の操作で再び有効化される。
func (c *Controller) scheduleWrapLocked() {
	if c.wrapTimer != nil {
		c.wrapTimer.Stop()
	}

	gen := c.gen
	c.wrapTimer = time.AfterFunc(c.transition, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.stopped || c.gen != gen {
			return
		}
		// 巻き戻し前に手動操作でインデックスが移動していたら何もしない
		if c.index != c.renderedLenLocked()-1 {
			return
		}

		c.animate = false
		c.index = 0
		c.armAdvanceLocked()

		if c.observer != nil {
			c.observer.RecordCarouselWrap()
		}
		if c.logger != nil {
			c.logger.Debug("カルーセルを先頭に巻き戻しました",
				slog.Int("slide_count", len(c.source)),
			)
		}
	})
}

// cancelTimersLocked は保留中のタイマーをすべてキャンセルする。
func (c *Controller) cancelTimersLocked() {
	if c.advanceTimer != nil {
		c.advanceTimer.Stop()
		c.advanceTimer = nil
	}
	if c.wrapTimer != nil {
		c.wrapTimer.Stop()
		c.wrapTimer = nil
	}
}
