package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// barStyle colors by completion: red under a third, yellow under two
// thirds, green above.
func barStyle(pct int) func(...string) string {
	switch {
	case pct < 33:
		return StyleRed.Render
	case pct < 66:
		return StyleYellow.Render
	default:
		return StyleGreen.Render
	}
}

func blocks(pct, width int) (string, int) {
	pct = max(0, min(pct, 100))
	width = max(width, 2)
	filled := pct * width / 100
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled), pct
}

// RenderProgress renders a bar like [████░░░░]  45%.
func RenderProgress(pct, width int) string {
	bar, pct := blocks(pct, width)
	return fmt.Sprintf("[%s] %3d%%", barStyle(pct)(bar), pct)
}

// RenderCompactBar renders only the blocks, optionally dimmed.
func RenderCompactBar(pct, width int, dim bool) string {
	bar, pct := blocks(pct, width)
	if dim {
		return StyleDim.Render(bar)
	}
	return barStyle(pct)(bar)
}
