// Package draw renders the play field to an ANSI terminal using colored
// half-block characters, two vertical sub-pixels per cell.
package draw

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tomz197/invaders/internal/physics"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a palette entry. ColorNone is an unset pixel.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorGray
	ColorGreen
	ColorYellow
	ColorRed
	ColorCyan
	ColorMagenta
	ColorBlue
	ColorOrange
)

// xterm-256 codes for each palette entry.
var ansiCodes = [...]int{
	ColorWhite:   15,
	ColorGray:    244,
	ColorGreen:   46,
	ColorYellow:  226,
	ColorRed:     196,
	ColorCyan:    51,
	ColorMagenta: 201,
	ColorBlue:    33,
	ColorOrange:  208,
}

// Pattern selects which sub-pixels of a filled area are set.
type Pattern int

const (
	PatternSolid   Pattern = iota
	PatternChecker         // Alternating pixels
	PatternRows            // Every other pixel row
	PatternFrame           // Outline only
)

// Point represents a 2D coordinate in logical space.
type Point struct {
	X, Y float64
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	renderBuf strings.Builder
	numBuf    [20]byte
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{logicalWidth: logicalWidth, logicalHeight: logicalHeight}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.pixels = make([]Color, subPixelHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, color Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = color
	}
}

// At returns the color of the sub-pixel at terminal column x and sub-row y.
func (c *Canvas) At(x, y int) Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return ColorNone
	}
	return c.pixels[y*c.termWidth+x]
}

// Set sets a pixel at logical coordinates.
func (c *Canvas) Set(x, y float64, color Color) {
	c.setPixel(int(math.Round(x*c.scaleX)), int(math.Round(y*c.scaleY)), color)
}

// pixelBounds converts a logical rect to a half-open pixel range. Every rect
// with positive area covers at least one pixel.
func (c *Canvas) pixelBounds(r physics.Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Round(r.X * c.scaleX))
	y0 = int(math.Round(r.Y * c.scaleY))
	x1 = max(int(math.Round(r.Right()*c.scaleX)), x0+1)
	y1 = max(int(math.Round(r.Bottom()*c.scaleY)), y0+1)
	return x0, y0, x1, y1
}

// FillRect fills a logical rect with color using the given pattern.
func (c *Canvas) FillRect(r physics.Rect, color Color, p Pattern) {
	x0, y0, x1, y1 := c.pixelBounds(r)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if p.covers(x-x0, y-y0, x1-x0, y1-y0) {
				c.setPixel(x, y, color)
			}
		}
	}
}

// covers reports whether pixel (x, y) of a w by h area is set by the pattern.
func (p Pattern) covers(x, y, w, h int) bool {
	switch p {
	case PatternChecker:
		return (x+y)%2 == 0
	case PatternRows:
		return y%2 == 0
	case PatternFrame:
		return x == 0 || y == 0 || x == w-1 || y == h-1
	default:
		return true
	}
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point, color Color) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

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
		c.setPixel(x1, y1, color)
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

// Render outputs the canvas to the writer using colored half-block characters.
// Empty cells are skipped, so the caller clears the screen between frames.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 8)

	fg, bg := ColorNone, ColorNone
	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]
			if top == ColorNone && bottom == ColorNone {
				continue
			}

			var ch rune
			wantFg, wantBg := top, ColorNone
			switch {
			case top == bottom:
				ch = BlockFull
			case bottom == ColorNone:
				ch = BlockUpperHalf
			case top == ColorNone:
				ch = BlockLowerHalf
				wantFg = bottom
			default:
				ch = BlockUpperHalf
				wantBg = bottom
			}

			c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			if wantFg != fg {
				c.sgr(38, wantFg)
				fg = wantFg
			}
			if wantBg != bg {
				c.sgr(48, wantBg)
				bg = wantBg
			}
			c.renderBuf.WriteRune(ch)
		}
	}
	c.renderBuf.WriteString("\033[0m")

	io.WriteString(w, c.renderBuf.String())
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// sgr writes a 256-color foreground (38) or background (48) sequence, or the
// matching default-color reset for ColorNone.
func (c *Canvas) sgr(layer int, color Color) {
	if color == ColorNone {
		c.renderBuf.WriteString("\033[")
		c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(layer+1), 10))
		c.renderBuf.WriteByte('m')
		return
	}
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(layer), 10))
	c.renderBuf.WriteString(";5;")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(ansiCodes[color]), 10))
	c.renderBuf.WriteByte('m')
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasV {
		if hasH {
			writeAt(&buf, left, top, "┌"+line+"┐")
			writeAt(&buf, left, bottom, "└"+line+"┘")
		} else {
			writeAt(&buf, c.offsetCol+1, top, line)
			writeAt(&buf, c.offsetCol+1, bottom, line)
		}
	}
	if hasH {
		startRow, endRow := top+1, bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			writeAt(&buf, left, row, "│")
			writeAt(&buf, right, row, "│")
		}
	}
	io.WriteString(w, buf.String())
}

func writeAt(buf *strings.Builder, col, row int, s string) {
	buf.WriteString("\033[")
	buf.WriteString(strconv.Itoa(row))
	buf.WriteByte(';')
	buf.WriteString(strconv.Itoa(col))
	buf.WriteByte('H')
	buf.WriteString(s)
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based canvas position (col, row).
// This is useful for placing text overlays at positions matching canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
