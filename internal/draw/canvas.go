package draw

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// cell is what one terminal character shows: two stacked half-block pixels.
type cell struct {
	top, bottom Color
}

// Canvas is a color drawing buffer with 2x vertical resolution using half-block
// characters. Drawing happens in logical coordinates that are scaled to the
// terminal. Render only emits cells that changed since the previous frame.
type Canvas struct {
	termWidth      int // Actual terminal columns
	termHeight     int // Actual terminal rows
	subPixelHeight int // termHeight * 2
	pixels         []Color

	// Terminal contents after the last Render; valid[i] false forces a repaint.
	drawn []cell
	valid []bool

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when the terminal is larger than the
	// max resolution. 0-based terminal offsets.
	offsetCol int
	offsetRow int

	// Logical shift applied to every draw call (camera shake).
	shiftX, shiftY float64

	renderBuf strings.Builder
	numBuf    [20]byte
}

// NewScaledCanvas creates a canvas that maps a logicalWidth x logicalHeight
// space onto termWidth x termHeight terminal cells.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)

	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Color, c.subPixelHeight*termWidth)
		c.drawn = make([]cell, termWidth*termHeight)
		c.valid = make([]bool, termWidth*termHeight)
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// SetShift moves every subsequent draw call by (dx, dy) logical units.
func (c *Canvas) SetShift(dx, dy float64) {
	c.shiftX, c.shiftY = dx, dy
}

// Clear resets all pixels. The terminal is not touched until Render.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render repaint every cell.
func (c *Canvas) ForceRedraw() {
	clear(c.valid)
}

// MarkTextDirty marks n cells starting at the 1-based canvas position (col, row)
// as overwritten by text, so the next Render repaints them.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	if row < 1 || row > c.termHeight {
		return
	}
	base := (row - 1) * c.termWidth
	for x := max(col-1, 0); x < min(col-1+n, c.termWidth); x++ {
		c.valid[base+x] = false
	}
}

func (c *Canvas) setPixel(x, y int, col Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

func (c *Canvas) toPixel(x, y float64) (int, int) {
	return int(math.Round((x + c.shiftX) * c.scaleX)), int(math.Round((y + c.shiftY) * c.scaleY))
}

// Set colors the pixel at logical coordinates.
func (c *Canvas) Set(x, y float64, col Color) {
	px, py := c.toPixel(x, y)
	c.setPixel(px, py, col)
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point, col Color) {
	x1, y1 := c.toPixel(p1.X, p1.Y)
	x2, y2 := c.toPixel(p2.X, p2.Y)

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		c.setPixel(x1, y1, col)
		if x1 == x2 && y1 == y2 {
			return
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

// FillRect fills the logical rectangle spanning min to max.
func (c *Canvas) FillRect(minP, maxP Point, col Color) {
	x1, y1 := c.toPixel(minP.X, minP.Y)
	x2, y2 := c.toPixel(maxP.X, maxP.Y)
	// Thin shapes still cover at least one pixel.
	x2 = max(x2, x1+1)
	y2 = max(y2, y1+1)
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			c.setPixel(x, y, col)
		}
	}
}

// FillCircle fills a circle. Radius is in logical units on the X axis.
func (c *Canvas) FillCircle(center Point, radius float64, col Color) {
	cx, cy := c.toPixel(center.X, center.Y)
	rx := max(int(math.Round(radius*c.scaleX)), 0)
	ry := max(int(math.Round(radius*c.scaleY)), 0)
	if rx == 0 || ry == 0 {
		c.setPixel(cx, cy, col)
		return
	}
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			nx := float64(dx) / float64(rx)
			ny := float64(dy) / float64(ry)
			if nx*nx+ny*ny <= 1 {
				c.setPixel(cx+dx, cy+dy, col)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for smooth network flow.
// 1400 bytes stays under a typical MTU.
const maxChunkSize = 1400

// Render writes the cells that changed since the last Render.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			cur := cell{top: c.pixels[topOffset+col], bottom: c.pixels[bottomOffset+col]}
			i := row*c.termWidth + col
			if c.valid[i] && c.drawn[i] == cur {
				continue
			}
			c.drawn[i] = cur
			c.valid[i] = true

			c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			c.writeCell(cur)
		}
	}
	c.renderBuf.WriteString(Reset)

	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

func (c *Canvas) writeCell(cur cell) {
	switch {
	case cur.top == ColorNone && cur.bottom == ColorNone:
		c.renderBuf.WriteString(Reset)
		c.renderBuf.WriteByte(' ')
	case cur.top == cur.bottom:
		c.renderBuf.WriteString(fgbg(cur.top, ColorNone))
		c.renderBuf.WriteRune(BlockFull)
	case cur.top == ColorNone:
		c.renderBuf.WriteString(fgbg(cur.bottom, ColorNone))
		c.renderBuf.WriteRune(BlockLowerHalf)
	default:
		c.renderBuf.WriteString(fgbg(cur.top, cur.bottom))
		c.renderBuf.WriteRune(BlockUpperHalf)
	}
}

// RenderBorder draws a box around the canvas when the terminal exceeds the
// max render resolution.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	bar := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasV {
		if hasH {
			buf.WriteString("\033[" + strconv.Itoa(top) + ";" + strconv.Itoa(left) + "H┌" + bar + "┐")
			buf.WriteString("\033[" + strconv.Itoa(bottom) + ";" + strconv.Itoa(left) + "H└" + bar + "┘")
		} else {
			buf.WriteString("\033[" + strconv.Itoa(top) + ";" + strconv.Itoa(left+1) + "H" + bar)
			buf.WriteString("\033[" + strconv.Itoa(bottom) + ";" + strconv.Itoa(left+1) + "H" + bar)
		}
	}
	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			r := strconv.Itoa(row)
			buf.WriteString("\033[" + r + ";" + strconv.Itoa(left) + "H│\033[" + r + ";" + strconv.Itoa(right) + "H│")
		}
	}
	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 { return c.logicalWidth }

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 { return c.logicalHeight }

// TerminalWidth returns the render area column count.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the render area row count.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// LogicalToTerminal converts logical coordinates to a 1-based canvas position.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px, py := c.toPixel(x, y)
	return px + 1, py/2 + 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
