// Package pipeline implements the build execution engine for linkmirror.
//
// A build runs as an ordered sequence of steps over a shared
// model.BuildReport: extract the profile from the page payload, download
// the avatar, and render the static site. Each step implements the Step
// interface, which keeps the build order explicit and lets tests exercise
// steps in isolation.
//
// The BatchProcessor runs one pipeline per input concurrently when the
// user builds several saved pages at once.
package pipeline
