package draw

import "strconv"

// Point is a 2D coordinate in logical space.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a palette index for canvas pixels. ColorNone is transparent.
type Color uint8

const (
	ColorNone Color = iota
	ColorLight
	ColorDark
	ColorNeutral
	ColorPlatform
	ColorLightPlayer
	ColorDarkPlayer
	ColorCapture
	ColorEffect
	ColorCurse

	colorCount
)

// ANSI foreground codes per palette entry. Background is the code + 10.
var fgCodes = [colorCount]int{
	ColorNone:        39,
	ColorLight:       93,
	ColorDark:        35,
	ColorNeutral:     90,
	ColorPlatform:    37,
	ColorLightPlayer: 97,
	ColorDarkPlayer:  95,
	ColorCapture:     92,
	ColorEffect:      91,
	ColorCurse:       94,
}

// Escape sequences for text styling.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
)

// Fg returns the escape sequence selecting c as foreground color.
func (c Color) Fg() string {
	if c >= colorCount {
		c = ColorNone
	}
	return "\033[" + strconv.Itoa(fgCodes[c]) + "m"
}

// fgbg returns a combined foreground/background escape sequence.
func fgbg(fg, bg Color) string {
	b := 49
	if bg != ColorNone && bg < colorCount {
		b = fgCodes[bg] + 10
	}
	f := 39
	if fg < colorCount {
		f = fgCodes[fg]
	}
	return "\033[" + strconv.Itoa(f) + ";" + strconv.Itoa(b) + "m"
}
