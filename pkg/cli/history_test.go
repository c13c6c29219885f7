package cli

import (
	"testing"
	"unicode/utf8"

	"github.com/m-mizutani/gt"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		max    int
		expect string
	}{
		{
			name:   "short string unchanged",
			input:  "hello",
			max:    10,
			expect: "hello",
		},
		{
			name:   "long string truncated",
			input:  "this is a fairly long prompt",
			max:    10,
			expect: "this is...",
		},
		{
			name:   "newlines flattened",
			input:  "line one\nline two",
			max:    60,
			expect: "line one line two",
		},
		{
			name:   "multibyte runes kept whole",
			input:  "日本語のプロンプトです、切り詰めても壊れない",
			max:    10,
			expect: "日本語のプロン...",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := truncate(tc.input, tc.max)
			gt.Equal(t, got, tc.expect)
			gt.True(t, utf8.ValidString(got))
		})
	}
}
