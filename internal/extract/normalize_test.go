package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Lines
	}{
		{
			name: "trims and drops blank lines",
			text: "  SHIPPING BILL \n\n\t\n SB No 1234567\r\n",
			want: Lines{"SHIPPING BILL", "SB No 1234567"},
		},
		{
			name: "preserves order",
			text: "c\nb\na",
			want: Lines{"c", "b", "a"},
		},
		{
			name: "empty text",
			text: "",
			want: Lines{},
		},
		{
			name: "whitespace only",
			text: " \n \n",
			want: Lines{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLines(tt.text))
		})
	}
}

func TestFromPages(t *testing.T) {
	doc := FromPages([]string{"\nPAGE ONE\n06039000", "\nPAGE TWO"})

	assert.Equal(t, "\nPAGE ONE\n06039000\n\nPAGE TWO", doc.Text)
	assert.Equal(t, Lines{"PAGE ONE", "06039000", "PAGE TWO"}, doc.Lines)
}
