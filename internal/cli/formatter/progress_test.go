package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name   string
		pct    int
		width  int
		filled int
		label  string
	}{
		{"empty", 0, 10, 0, "  0%"},
		{"half", 50, 10, 5, " 50%"},
		{"rounds down blocks", 33, 10, 3, " 33%"},
		{"full", 100, 10, 10, "100%"},
		{"clamps above", 140, 10, 10, "100%"},
		{"clamps below", -5, 10, 0, "  0%"},
		{"tiny width", 50, 1, 1, " 50%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(RenderProgress(tt.pct, tt.width))
			assert.Equal(t, tt.filled, strings.Count(got, filledBlock))
			assert.True(t, strings.HasSuffix(got, tt.label), got)
			assert.True(t, strings.HasPrefix(got, "["))
		})
	}
}

func TestRenderCompactBar(t *testing.T) {
	for _, dim := range []bool{false, true} {
		got := stripANSI(RenderCompactBar(25, 8, dim))
		assert.Equal(t, strings.Repeat(filledBlock, 2)+strings.Repeat(emptyBlock, 6), got)
		assert.NotContains(t, got, "%")
	}
}
