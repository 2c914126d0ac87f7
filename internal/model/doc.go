// Package model defines the data structures shared across the linkmirror
// pipeline: the extracted profile, its links, and the build report that
// report writers and the history database consume.
package model
