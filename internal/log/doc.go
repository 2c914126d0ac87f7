// Package log provides slog helpers for linkmirror.
//
// The avatar URLs extracted from Linktree payloads point at a CDN and
// carry signed query tokens. RedactingHandler strips those tokens from
// logged URL values so verbose logs can be shared without leaking them.
package log
