// Package main provides the entry point for the linkmirror CLI.
//
// linkmirror turns a Linktree profile page into a self-hosted static
// site. It reads the JSON payload embedded in the page, downloads the
// avatar, and renders an HTML page plus stylesheet.
//
// Usage:
//
//	linkmirror build <saved-page.html>
//	linkmirror build https://linktr.ee/username
//
// See --help for all available options.
package main

// main is the entry point for linkmirror.
func main() {
	Execute()
}
