package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/TFMV/skillgraph/physics"
)

// ASCIIRenderer outputs ASCII art format
type ASCIIRenderer struct{}

// Name returns the name of the renderer
func (r *ASCIIRenderer) Name() string {
	return "ASCII Renderer"
}

// Description returns a description of the renderer
func (r *ASCIIRenderer) Description() string {
	return "Renders the skill network as ASCII art for terminal output"
}

// Node symbols by legend slot: technical, soft, tools and everything else
var nodeSymbols = []rune{'@', '*', '#'}

func isNodeSymbol(c rune) bool {
	for _, s := range nodeSymbols {
		if c == s {
			return true
		}
	}
	return false
}

// Render creates an ASCII representation of the snapshot
func (r *ASCIIRenderer) Render(snap *physics.Snapshot, options *OutputOptions) ([]byte, error) {
	palette := paletteOf(options)

	// Scale down, with an adjustment for character aspect ratio
	width := max(int(options.Width/10), 40)
	height := max(int(options.Height/20), 20)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	for i := 0; i < width; i++ {
		grid[0][i] = '-'
		grid[height-1][i] = '-'
	}
	for i := 0; i < height; i++ {
		grid[i][0] = '|'
		grid[i][width-1] = '|'
	}
	grid[0][0] = '+'
	grid[0][width-1] = '+'
	grid[height-1][0] = '+'
	grid[height-1][width-1] = '+'

	toCell := func(n physics.NodeView) (int, int) {
		x := int(n.X*float64(width-2)/options.Width) + 1
		y := int(n.Y*float64(height-2)/options.Height) + 1
		return clamp(x, 1, width-2), clamp(y, 1, height-2)
	}

	byID := positions(snap)
	for _, link := range snap.Links {
		source, okSource := byID[link.SourceID]
		target, okTarget := byID[link.TargetID]
		if !okSource || !okTarget {
			continue
		}
		x1, y1 := toCell(source)
		x2, y2 := toCell(target)
		drawLine(grid, x1, y1, x2, y2)
	}

	for _, node := range snap.Nodes {
		x, y := toCell(node)
		slot := palette.Category(node.Group)
		if slot >= len(nodeSymbols) {
			slot = len(nodeSymbols) - 1
		}
		grid[y][x] = nodeSymbols[slot]

		if options.ShowLabels && y+1 < height-1 {
			label := []rune(node.ID)
			for i := 0; i < len(label) && x+i < width-1; i++ {
				if !isNodeSymbol(grid[y+1][x+i]) {
					grid[y+1][x+i] = label[i]
				}
			}
		}
	}

	if title := []rune(options.Title); len(title) > 0 && len(title) < width-4 {
		copy(grid[1][2:], title)
	}

	if options.Timestamp && height > 4 {
		stamp := []rune(time.Now().Format("2006-01-02 15:04"))
		if len(stamp) < width-4 {
			copy(grid[height-2][2:], stamp)
		}
	}

	var result strings.Builder
	for _, row := range grid {
		result.WriteString(string(row))
		result.WriteRune('\n')
	}

	if options.ShowLegend {
		for i, e := range palette.Legend() {
			sym := nodeSymbols[min(i, len(nodeSymbols)-1)]
			fmt.Fprintf(&result, "%c %s\n", sym, e.Label)
		}
	}

	return []byte(result.String()), nil
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// drawLine plots a link on the grid using Bresenham's algorithm
func drawLine(grid [][]rune, x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		if y1 >= 0 && y1 < len(grid) && x1 >= 0 && x1 < len(grid[y1]) && !isNodeSymbol(grid[y1][x1]) {
			grid[y1][x1] = '·'
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
