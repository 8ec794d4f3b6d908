package draw

import (
	"io"
	"math"
	"sort"
	"strconv"
)

// MaxLevel is the brightest pixel level. Level 0 is an empty pixel.
const MaxLevel = 23

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Each pixel holds a grayscale level; rendering only emits cells that changed
// since the previous frame.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []uint8 // Flat slice: [y * termWidth + x] - brightness level, 0 is empty
	prev           []uint16
	forceRedraw    bool

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	// Reusable buffers to reduce allocations
	renderBuf       []byte
	intersectionBuf []float64
	pointBuf        []Point
}

// NewCanvas creates a canvas for the given terminal dimensions.
// The canvas has 2x vertical resolution (height*2 sub-pixels).
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize updates the canvas for new terminal dimensions.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth == c.termWidth && termHeight == c.termHeight && c.pixels != nil {
		return
	}
	c.termWidth = termWidth
	c.termHeight = termHeight
	c.subPixelHeight = termHeight * 2
	c.pixels = make([]uint8, c.subPixelHeight*termWidth)
	c.prev = make([]uint16, termHeight*termWidth)
	c.forceRedraw = true
}

// ForceRedraw makes the next Render emit every cell, e.g. after the screen was cleared.
func (c *Canvas) ForceRedraw() {
	c.forceRedraw = true
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.forceRedraw = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// Width returns the pixel width (terminal columns).
func (c *Canvas) Width() int { return c.termWidth }

// Height returns the pixel height (twice the terminal rows).
func (c *Canvas) Height() int { return c.subPixelHeight }

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// At returns the level of the pixel at (x, y), 0 outside the canvas.
func (c *Canvas) At(x, y int) uint8 {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return 0
	}
	return c.pixels[y*c.termWidth+x]
}

// Set lights a pixel. Brighter levels win over dimmer ones already drawn.
func (c *Canvas) Set(x, y int, level uint8) {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	i := y*c.termWidth + x
	if level > c.pixels[i] {
		c.pixels[i] = level
	}
}

// SetPoint lights the pixel nearest to p.
func (c *Canvas) SetPoint(p Point, level uint8) {
	c.Set(int(math.Round(p.X)), int(math.Round(p.Y)), level)
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point, level uint8) {
	x1 := int(math.Round(p1.X))
	y1 := int(math.Round(p1.Y))
	x2 := int(math.Round(p2.X))
	y2 := int(math.Round(p2.Y))

	// Lines far outside the canvas come from points near the camera plane.
	limit := 4 * (c.termWidth + c.subPixelHeight)
	if abs(x1) > limit || abs(x2) > limit || abs(y1) > limit || abs(y2) > limit {
		return
	}

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.Set(x1, y1, level)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a polygon on the canvas.
// If filled is true, the interior is filled using scanline algorithm.
func (c *Canvas) DrawPolygon(points []Point, filled bool, level uint8) {
	if len(points) < 3 {
		return
	}

	if filled {
		c.fillPolygon(points, level)
	}

	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], level)
	}
}

// fillPolygon fills a polygon using scanline algorithm.
func (c *Canvas) fillPolygon(points []Point, level uint8) {
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]
		n := len(points)
		for i := 0; i < n; i++ {
			p1 := points[i]
			p2 := points[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := max(int(math.Ceil(intersections[i])), 0)
			xEnd := min(int(math.Floor(intersections[i+1])), c.termWidth-1)
			for x := xStart; x <= xEnd; x++ {
				c.Set(x, y, level)
			}
		}
	}
}

// FillCircle draws a filled disc. Radii under half a pixel light a single pixel.
func (c *Canvas) FillCircle(center Point, radius float64, level uint8) {
	if radius < 0.5 {
		c.SetPoint(center, level)
		return
	}
	yStart := max(int(math.Floor(center.Y-radius)), 0)
	yEnd := min(int(math.Ceil(center.Y+radius)), c.subPixelHeight-1)
	r2 := radius * radius
	for y := yStart; y <= yEnd; y++ {
		dy := float64(y) - center.Y
		if dy*dy > r2 {
			continue
		}
		half := math.Sqrt(r2 - dy*dy)
		xStart := max(int(math.Ceil(center.X-half)), 0)
		xEnd := min(int(math.Floor(center.X+half)), c.termWidth-1)
		for x := xStart; x <= xEnd; x++ {
			c.Set(x, y, level)
		}
	}
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The returned slice is only valid until the next call to BorrowPoints.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.pointBuf) < n {
		c.pointBuf = make([]Point, n)
	}
	return c.pointBuf[:n]
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// grayBase is the first of the 24 xterm-256 grayscale colors.
const grayBase = 232

// cellKey packs the two half-pixel levels of a cell; 0xFFFF never occurs.
func cellKey(top, bottom uint8) uint16 {
	return uint16(top)<<8 | uint16(bottom)
}

// Render outputs the changed cells of the canvas to w using half-block
// characters, with the top pixel as foreground and the bottom as background.
func (c *Canvas) Render(w io.Writer) error {
	buf := c.renderBuf[:0]
	force := c.forceRedraw
	c.forceRedraw = false

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth
		cursorCol := -1 // column the cursor sits at, -1 if unknown

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]
			key := cellKey(top, bottom)
			idx := row*c.termWidth + col
			if !force && c.prev[idx] == key {
				continue
			}
			c.prev[idx] = key

			if cursorCol != col {
				buf = appendCursor(buf, col+1+c.offsetCol, row+1+c.offsetRow)
			}
			buf = appendCell(buf, top, bottom)
			cursorCol = col + 1
		}
	}

	c.renderBuf = buf
	return writeChunked(w, buf)
}

func appendCursor(buf []byte, col, row int) []byte {
	buf = append(buf, "\033["...)
	buf = strconv.AppendInt(buf, int64(row), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(col), 10)
	return append(buf, 'H')
}

func appendCell(buf []byte, top, bottom uint8) []byte {
	switch {
	case top == 0 && bottom == 0:
		return append(buf, "\033[0m "...)
	case bottom == 0:
		buf = appendColor(buf, "\033[0;38;5;", top)
		return append(buf, string(BlockUpperHalf)...)
	case top == 0:
		buf = appendColor(buf, "\033[0;38;5;", bottom)
		return append(buf, string(BlockLowerHalf)...)
	case top == bottom:
		buf = appendColor(buf, "\033[0;38;5;", top)
		return append(buf, string(BlockFull)...)
	default:
		buf = appendColor(buf, "\033[0;38;5;", top)
		buf = appendColor(buf, "\033[48;5;", bottom)
		return append(buf, string(BlockUpperHalf)...)
	}
}

func appendColor(buf []byte, prefix string, level uint8) []byte {
	buf = append(buf, prefix...)
	buf = strconv.AppendInt(buf, int64(grayBase+int(level)), 10)
	return append(buf, 'm')
}

func writeChunked(w io.Writer, data []byte) error {
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := w.Write(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(cw *ChunkWriter) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars
	if !hasH && !hasV {
		return
	}

	// Border positions in canvas-relative coordinates; the writer adds the offset.
	left, right := 0, c.termWidth+1
	top, bottom := 0, c.termHeight+1

	cw.WriteString(ColorReset)
	if hasV {
		line := repeatRune('─', c.termWidth)
		if hasH {
			cw.WriteAt(left, top, "┌"+line+"┐")
			cw.WriteAt(left, bottom, "└"+line+"┘")
		} else {
			cw.WriteAt(1, top, line)
			cw.WriteAt(1, bottom, line)
		}
	}
	if hasH {
		for row := 1; row <= c.termHeight; row++ {
			cw.WriteAt(left, row, "│")
			cw.WriteAt(right, row, "│")
		}
	}
}

func repeatRune(r rune, n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = r
	}
	return string(out)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
