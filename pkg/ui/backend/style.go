package backend

// Color is a terminal palette color. ColorDefault leaves the terminal's
// own color in place.
type Color int16

// Color constants
const (
	ColorDefault Color = -1
	ColorBlack   Color = 0
	ColorRed     Color = 1
	ColorGreen   Color = 2
	ColorYellow  Color = 3
	ColorBlue    Color = 4
	ColorMagenta Color = 5
	ColorCyan    Color = 6
	ColorWhite   Color = 7
)

// AttrMask represents text attributes.
type AttrMask uint8

// Attribute flags
const (
	AttrBold AttrMask = 1 << iota
	AttrReverse
	AttrUnderline
	AttrDim
)

// Style combines foreground, background colors and attributes.
type Style struct {
	fg    Color
	bg    Color
	attrs AttrMask
}

// DefaultStyle returns the default style (default colors, no attributes).
func DefaultStyle() Style {
	return Style{fg: ColorDefault, bg: ColorDefault}
}

// Foreground sets the foreground color.
func (s Style) Foreground(c Color) Style {
	s.fg = c
	return s
}

// Background sets the background color.
func (s Style) Background(c Color) Style {
	s.bg = c
	return s
}

// With enables the given attributes.
func (s Style) With(attrs AttrMask) Style {
	s.attrs |= attrs
	return s
}

// Without clears the given attributes.
func (s Style) Without(attrs AttrMask) Style {
	s.attrs &^= attrs
	return s
}

// Has reports whether every attribute in attrs is set.
func (s Style) Has(attrs AttrMask) bool {
	return s.attrs&attrs == attrs
}

// Decompose returns the foreground, background, and attributes.
func (s Style) Decompose() (fg, bg Color, attrs AttrMask) {
	return s.fg, s.bg, s.attrs
}
