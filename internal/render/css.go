package render

import (
	"fmt"
	"strings"
)

// buildStylesheet assembles the full stylesheet from theme values.
// Sections are concatenated in a fixed order; the output depends only
// on the theme, never on maps or clocks, to keep rendering
// deterministic.
func buildStylesheet(t Theme) string {
	t = t.withDefaults()

	var buf strings.Builder
	buf.WriteString(buildBaseCSS(t))
	buf.WriteString(buildLayoutCSS(t))
	buf.WriteString(buildProfileCSS(t))
	buf.WriteString(buildLinkCardCSS(t))
	buf.WriteString(buildSocialCSS(t))
	return buf.String()
}

// buildBaseCSS generates the body and typography rules.
func buildBaseCSS(t Theme) string {
	return fmt.Sprintf(`body {
  font-family: %s;
  margin: 0;
  background-color: %s;
  color: %s;
}
`, t.FontFamily, t.Background, t.Text)
}

// buildLayoutCSS generates the container and sidebar layout rules.
// The sidebar is position:fixed, so the main column offsets itself by
// the sidebar width.
func buildLayoutCSS(t Theme) string {
	return fmt.Sprintf(`
.container {
  display: flex;
  max-width: %s;
  margin: 0 auto;
}

.sidebar {
  width: %s;
  padding: 2rem;
  background-color: %s;
  border-right: 1px solid %s;
  height: 100vh;
  position: fixed;
}

.main-content {
  margin-left: %s;
  padding: 2rem;
  width: 100%%;
}
`, t.MaxWidth, t.SidebarWidth, t.Surface, t.Border, t.SidebarWidth)
}

// buildProfileCSS generates the profile header rules.
func buildProfileCSS(t Theme) string {
	return fmt.Sprintf(`
.profile {
  text-align: center;
}

.profile-img {
  width: 120px;
  height: 120px;
  border-radius: 50%%;
  margin-bottom: 1rem;
  object-fit: cover;
}

.profile-name {
  font-size: 1.5rem;
  margin: 0;
}

.profile-tagline,
.profile-role,
.profile-location {
  margin: 0.25rem 0 0;
  font-size: 0.9rem;
  color: %s;
  opacity: 0.7;
}
`, t.Text)
}

// buildLinkCardCSS generates the link card rules.
func buildLinkCardCSS(t Theme) string {
	return fmt.Sprintf(`
.link-card {
  display: block;
  background-color: %s;
  padding: 1.5rem;
  border-radius: 8px;
  margin-bottom: 1rem;
  text-decoration: none;
  color: %s;
  box-shadow: 0 1px 3px rgba(0,0,0,0.12), 0 1px 2px rgba(0,0,0,0.24);
  transition: all 0.3s cubic-bezier(.25,.8,.25,1);
}

.link-card:hover {
  box-shadow: 0 14px 28px rgba(0,0,0,0.25), 0 10px 10px rgba(0,0,0,0.22);
}
`, t.Surface, t.Text)
}

// buildSocialCSS generates the social icon row rules.
func buildSocialCSS(t Theme) string {
	return fmt.Sprintf(`
.social {
  margin-top: 1rem;
}

.social-link {
  display: inline-block;
  margin: 0 0.35rem;
  font-size: 0.8rem;
  letter-spacing: 0.05em;
  text-decoration: none;
  color: %s;
  opacity: 0.6;
}

.social-link:hover {
  opacity: 1;
}
`, t.Text)
}
