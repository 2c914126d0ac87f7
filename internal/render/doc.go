// Package render turns an extracted profile into the published static
// site: an index.html from an embedded template and a style.css built
// programmatically from the theme.
//
// Rendering is pure substitution. Identical input produces byte-
// identical output, which keeps republishing an unchanged profile a
// no-op for diff-based deploy tools.
package render
