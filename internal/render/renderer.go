package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/watari-dev/linkmirror/internal/model"
)

// Output filenames inside the output directory.
const (
	// PageFile is the rendered markup filename.
	PageFile = "index.html"

	// StylesheetFile is the rendered stylesheet filename.
	StylesheetFile = "style.css"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

// pageTemplate is parsed once at startup; a broken embedded template is
// a programming error, not a runtime condition.
var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// Renderer renders a profile into the static site files.
// html/template does the escaping, so payload-controlled strings
// (titles, URLs) cannot break out of the markup.
type Renderer struct {
	// theme drives the generated stylesheet.
	theme Theme

	// avatarFile is the avatar filename the page references.
	avatarFile string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme sets the stylesheet theme.
func WithTheme(t Theme) Option {
	return func(r *Renderer) {
		r.theme = t
	}
}

// WithAvatarFile sets the avatar filename referenced by the page.
func WithAvatarFile(name string) Option {
	return func(r *Renderer) {
		r.avatarFile = name
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		theme:      DefaultTheme(),
		avatarFile: "profile_picture.jpg",
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// pageData is the template context for index.html.
type pageData struct {
	Profile    *model.Profile
	AvatarFile string
}

// RenderPage renders the markup for the given profile.
func (r *Renderer) RenderPage(profile *model.Profile) ([]byte, error) {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Profile:    profile,
		AvatarFile: r.avatarFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderStylesheet renders the stylesheet for the configured theme.
func (r *Renderer) RenderStylesheet() []byte {
	return []byte(buildStylesheet(r.theme))
}

// WriteSite renders the page and stylesheet into dir, creating it if
// needed, and returns the written filenames relative to dir in write
// order. Existing files are overwritten.
func (r *Renderer) WriteSite(dir string, profile *model.Profile) ([]string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	page, err := r.RenderPage(profile)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, PageFile), page, 0600); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", PageFile, err)
	}

	if err := os.WriteFile(filepath.Join(dir, StylesheetFile), r.RenderStylesheet(), 0600); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", StylesheetFile, err)
	}

	return []string{PageFile, StylesheetFile}, nil
}
