package security

import (
	"strings"
	"testing"
)

// TestSanitizeText_StripsAllTags はプレーンテキスト化ですべてのタグが
// 除去されることを検証する。
func TestSanitizeText_StripsAllTags(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "タグなしのテキストはそのまま",
			input: "静かな海の記憶",
			want:  "静かな海の記憶",
		},
		{
			name:  "pタグが除去される",
			input: "<p>油彩 80x100cm</p>",
			want:  "油彩 80x100cm",
		},
		{
			name:  "scriptタグと中身が除去される",
			input: `安全<script>alert("x")</script>`,
			want:  "安全",
		},
		{
			name:  "imgタグが除去される",
			input: `<img src="https://example.com/x.png">キャンバス`,
			want:  "キャンバス",
		},
		{
			name:  "空文字列は空文字列",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.SanitizeText(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitizeRichText_AllowedTags はプロフィール文で整形タグのみが
// 通過することを検証する。
func TestSanitizeRichText_AllowedTags(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantAbsent   []string
	}{
		{
			name:         "pタグとstrongタグが許可される",
			input:        "<p>色彩の<strong>探求</strong></p>",
			wantContains: []string{"<p>", "<strong>探求</strong>", "</p>"},
		},
		{
			name:         "blockquoteタグが許可される",
			input:        "<blockquote>絵を描くことは、時間が減速する場所。</blockquote>",
			wantContains: []string{"<blockquote>", "</blockquote>"},
		},
		{
			name:       "scriptタグが除去される",
			input:      `<p>text</p><script>alert("x")</script>`,
			wantAbsent: []string{"<script", "alert"},
		},
		{
			name:       "aタグが除去される",
			input:      `<a href="https://evil.example">link</a>`,
			wantAbsent: []string{"<a", "href"},
		},
		{
			name:       "onclick属性が除去される",
			input:      `<p onclick="steal()">text</p>`,
			wantAbsent: []string{"onclick"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.SanitizeRichText(tt.input)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("SanitizeRichText(%q) = %q, expected to contain %q", tt.input, got, want)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(got, absent) {
					t.Errorf("SanitizeRichText(%q) = %q, expected NOT to contain %q", tt.input, got, absent)
				}
			}
		})
	}
}

// TestSanitize_Idempotent はサニタイズが冪等であることを検証する。
func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewTextSanitizer()

	inputs := []string{
		"<p>記憶と風景のあいだ</p>",
		`テキスト<script>alert(1)</script>`,
		"<blockquote><strong>引用</strong></blockquote>",
	}

	for _, input := range inputs {
		once := sanitizer.SanitizeRichText(input)
		twice := sanitizer.SanitizeRichText(once)
		if once != twice {
			t.Errorf("SanitizeRichText not idempotent: first=%q second=%q", once, twice)
		}

		onceText := sanitizer.SanitizeText(input)
		twiceText := sanitizer.SanitizeText(onceText)
		if onceText != twiceText {
			t.Errorf("SanitizeText not idempotent: first=%q second=%q", onceText, twiceText)
		}
	}
}
