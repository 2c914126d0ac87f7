package config

// CopyConfig holds the static page copy shown in the profile header.
// Tagline, location, and role come from the configuration file, never
// from the scraped payload.
type CopyConfig struct {
	// Tagline is shown under the profile name.
	Tagline string `yaml:"tagline,omitempty"`

	// Location is shown in the profile header.
	Location string `yaml:"location,omitempty"`

	// Role describes the profile owner.
	Role string `yaml:"role,omitempty"`
}

// ThemeConfig overrides the generated stylesheet's palette and layout.
// Empty fields fall back to the built-in defaults, which reproduce the
// original hand-written stylesheet.
type ThemeConfig struct {
	// Background is the page background color (CSS color value).
	Background string `yaml:"background,omitempty"`

	// Surface is the card and sidebar background color.
	Surface string `yaml:"surface,omitempty"`

	// Text is the main text color.
	Text string `yaml:"text,omitempty"`

	// Border is the sidebar border color.
	Border string `yaml:"border,omitempty"`

	// FontFamily is the CSS font stack.
	FontFamily string `yaml:"fontFamily,omitempty"`

	// MaxWidth is the container max-width (CSS length).
	MaxWidth string `yaml:"maxWidth,omitempty"`

	// SidebarWidth is the fixed sidebar width (CSS length).
	SidebarWidth string `yaml:"sidebarWidth,omitempty"`
}

// File represents the structure of the .linkmirror configuration file.
type File struct {
	// Copy is the static page copy.
	Copy CopyConfig `yaml:"copy,omitempty"`

	// Theme overrides stylesheet defaults.
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Output overrides the output directory. The -o flag wins when
	// both are set.
	Output string `yaml:"output,omitempty"`

	// AvatarFile overrides the avatar filename inside the output
	// directory.
	AvatarFile string `yaml:"avatarFile,omitempty"`
}
