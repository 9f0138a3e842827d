// Package image は作品画像の最適化と取り込みを提供する。
package image

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// OptimizedImage は最適化済みの作品画像を表す。
// 保存前にアップロード画像を縮小・再エンコードした結果を保持する。
type OptimizedImage struct {
	Mime  string // 再エンコード後のMIMEタイプ（常にimage/jpeg）
	Full  []byte // 表示用画像
	Thumb []byte // 一覧用サムネイル
}

// OptimizerService は画像最適化機能のインターフェースを定義する。
// 管理画面からの作品画像アップロード時に使用される。
type OptimizerService interface {
	// Optimize は画像を表示用とサムネイル用に縮小・JPEG再エンコードする。
	// 元画像がPNG/GIF/JPEGのいずれでも出力はJPEGとなる。
	// デコードできないデータの場合はエラーを返す。
	Optimize(data []byte) (*OptimizedImage, error)
}

// optimizer はOptimizerServiceの実装。
type optimizer struct {
	maxDimension   int // 表示用画像の最大辺
	thumbDimension int // サムネイルの最大辺
	jpegQuality    int
}

// NewOptimizer はOptimizerServiceの新しいインスタンスを生成する。
func NewOptimizer(maxDimension, thumbDimension, jpegQuality int) *optimizer {
	return &optimizer{
		maxDimension:   maxDimension,
		thumbDimension: thumbDimension,
		jpegQuality:    jpegQuality,
	}
}

// Optimize は画像を表示用とサムネイル用に縮小・JPEG再エンコードする。
// 縮小はアスペクト比を保持し、最大辺を超える場合のみ行う。
func (o *optimizer) Optimize(data []byte) (*OptimizedImage, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	full, err := o.encode(fitWithin(img, o.maxDimension))
	if err != nil {
		return nil, fmt.Errorf("failed to encode full image: %w", err)
	}

	thumb, err := o.encode(fitWithin(img, o.thumbDimension))
	if err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return &OptimizedImage{
		Mime:  "image/jpeg",
		Full:  full,
		Thumb: thumb,
	}, nil
}

// encode は画像をJPEGバイト列にエンコードする。
func (o *optimizer) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(o.jpegQuality))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fitWithin は最大辺を超える画像をアスペクト比を保って縮小する。
// 最大辺以下の画像は拡大せずそのまま返す。
func fitWithin(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= maxDim && bounds.Dy() <= maxDim {
		return img
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
}
