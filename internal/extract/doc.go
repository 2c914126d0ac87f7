// Package extract locates the JSON payload embedded in a Linktree
// profile page and turns it into a model.Profile.
//
// Linktree is a Next.js application: the server-rendered page carries
// the full page state in a <script id="__NEXT_DATA__"> tag. The schema
// of that payload is an undocumented external contract that can change
// without notice, so the key-path traversal is confined to a single
// function (accountFromPayload) and any drift is a one-site change.
package extract
