// Package database provides SQLite-based storage for linkmirror build history.
//
// This package implements the BuildDB, which stores one row per completed
// build: the source, the extracted profile summary, the avatar checksum,
// and any warnings raised during the build. The history lets users compare
// a profile against earlier mirrors and notice link or avatar changes.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
//
// The database file lives under the XDG data directory by default, so
// repeated builds accumulate history without any setup.
package database
