package render

// Default theme values. These reproduce the stylesheet the generated
// page shipped with historically, so builds without a config file look
// the same as before theming existed.
const (
	// DefaultBackground is the page background color.
	DefaultBackground = "#f0f2f5"

	// DefaultSurface is the card and sidebar background color.
	DefaultSurface = "#fff"

	// DefaultText is the main text color.
	DefaultText = "#1c1e21"

	// DefaultBorder is the sidebar border color.
	DefaultBorder = "#dddfe2"

	// DefaultFontFamily is the CSS font stack.
	DefaultFontFamily = `"San Francisco Pro", -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif`

	// DefaultMaxWidth is the container max-width.
	DefaultMaxWidth = "1200px"

	// DefaultSidebarWidth is the fixed sidebar width.
	DefaultSidebarWidth = "300px"
)

// Theme holds the stylesheet knobs. Zero-value fields fall back to the
// defaults above when the stylesheet is built.
type Theme struct {
	// Background is the page background color.
	Background string

	// Surface is the card and sidebar background color.
	Surface string

	// Text is the main text color.
	Text string

	// Border is the sidebar border color.
	Border string

	// FontFamily is the CSS font stack.
	FontFamily string

	// MaxWidth is the container max-width.
	MaxWidth string

	// SidebarWidth is the fixed sidebar width.
	SidebarWidth string
}

// DefaultTheme returns a Theme with every field set to its default.
func DefaultTheme() Theme {
	return Theme{
		Background:   DefaultBackground,
		Surface:      DefaultSurface,
		Text:         DefaultText,
		Border:       DefaultBorder,
		FontFamily:   DefaultFontFamily,
		MaxWidth:     DefaultMaxWidth,
		SidebarWidth: DefaultSidebarWidth,
	}
}

// withDefaults returns a copy of the theme with empty fields filled in.
func (t Theme) withDefaults() Theme {
	if t.Background == "" {
		t.Background = DefaultBackground
	}
	if t.Surface == "" {
		t.Surface = DefaultSurface
	}
	if t.Text == "" {
		t.Text = DefaultText
	}
	if t.Border == "" {
		t.Border = DefaultBorder
	}
	if t.FontFamily == "" {
		t.FontFamily = DefaultFontFamily
	}
	if t.MaxWidth == "" {
		t.MaxWidth = DefaultMaxWidth
	}
	if t.SidebarWidth == "" {
		t.SidebarWidth = DefaultSidebarWidth
	}
	return t
}
