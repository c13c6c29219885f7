package generate_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/promptly-dev/promptly/pkg/usecase/generate"
)

func TestParseHighlights(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "asterisk bullets",
			raw:  "* first point\n* second point",
			want: []string{"first point", "second point"},
		},
		{
			name: "dash bullets",
			raw:  "- first\n- second\n- third",
			want: []string{"first", "second", "third"},
		},
		{
			name: "plain lines kept as is",
			raw:  "first line\nsecond line",
			want: []string{"first line", "second line"},
		},
		{
			name: "blank lines dropped",
			raw:  "* one\n\n\n* two\n   \n",
			want: []string{"one", "two"},
		},
		{
			name: "marker without following text dropped",
			raw:  "*\n- \n* real point",
			want: []string{"real point"},
		},
		{
			name: "capped at three",
			raw:  "- a\n- b\n- c\n- d\n- e",
			want: []string{"a", "b", "c"},
		},
		{
			name: "surrounding whitespace trimmed",
			raw:  "  * padded point  \n\t- tabbed point\t",
			want: []string{"padded point", "tabbed point"},
		},
		{
			name: "empty reply",
			raw:  "",
			want: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := generate.ParseHighlightsForTest(tc.raw)
			gt.Equal(t, got, tc.want)
		})
	}
}
