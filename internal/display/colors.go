package display

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Color is a terminal color.
type Color int

const (
	ColorReset Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightCyan
)

// ColorTheme assigns colors to message kinds.
type ColorTheme struct {
	Info    Color
	Success Color
	Warning Color
	Error   Color
	Comment Color
	Header  Color
}

// DarkColorTheme suits dark terminals.
func DarkColorTheme() ColorTheme {
	return ColorTheme{
		Info:    ColorBrightGreen,
		Success: ColorBrightGreen,
		Warning: ColorBrightYellow,
		Error:   ColorBrightRed,
		Comment: ColorYellow,
		Header:  ColorBrightBlue,
	}
}

// LightColorTheme suits light terminals.
func LightColorTheme() ColorTheme {
	return ColorTheme{
		Info:    ColorGreen,
		Success: ColorGreen,
		Warning: ColorYellow,
		Error:   ColorRed,
		Comment: ColorMagenta,
		Header:  ColorBlue,
	}
}

// HighContrastColorTheme uses bright colors only.
func HighContrastColorTheme() ColorTheme {
	return ColorTheme{
		Info:    ColorBrightCyan,
		Success: ColorBrightGreen,
		Warning: ColorBrightYellow,
		Error:   ColorBrightRed,
		Comment: ColorWhite,
		Header:  ColorBrightCyan,
	}
}

// GetThemeByName returns the named theme, defaulting to dark.
func GetThemeByName(name string) ColorTheme {
	switch name {
	case "light":
		return LightColorTheme()
	case "high-contrast":
		return HighContrastColorTheme()
	default:
		return DarkColorTheme()
	}
}

var palette = map[Color]*color.Color{
	ColorReset:        color.New(color.Reset),
	ColorRed:          color.New(color.FgRed),
	ColorGreen:        color.New(color.FgGreen),
	ColorYellow:       color.New(color.FgYellow),
	ColorBlue:         color.New(color.FgBlue),
	ColorMagenta:      color.New(color.FgMagenta),
	ColorCyan:         color.New(color.FgCyan),
	ColorWhite:        color.New(color.FgWhite),
	ColorBrightRed:    color.New(color.FgHiRed),
	ColorBrightGreen:  color.New(color.FgHiGreen),
	ColorBrightYellow: color.New(color.FgHiYellow),
	ColorBrightBlue:   color.New(color.FgHiBlue),
	ColorBrightCyan:   color.New(color.FgHiCyan),
}

// Colorizer applies colors when the output supports them.
type Colorizer struct {
	enabled bool
}

// NewColorizer enables colors when wanted and w is a color capable terminal.
func NewColorizer(wanted bool, w io.Writer) *Colorizer {
	return &Colorizer{enabled: wanted && supportsColor(w)}
}

// Enabled reports whether colors are applied.
func (c *Colorizer) Enabled() bool {
	return c.enabled
}

// Colorize wraps text in clr.
func (c *Colorizer) Colorize(text string, clr Color) string {
	if !c.enabled {
		return text
	}
	fn, ok := palette[clr]
	if !ok {
		return text
	}
	// Overrides color.NoColor, which only looks at stdout.
	fn.EnableColor()
	return fn.Sprint(text)
}

func supportsColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return termenv.NewOutput(f).ColorProfile() != termenv.Ascii
}
