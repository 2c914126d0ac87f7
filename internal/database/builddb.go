package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/watari-dev/linkmirror/internal/model"
)

// dbFileName is the name of the SQLite database file.
const dbFileName = "linkmirror.db"

// BuildDB provides SQLite-based storage for build history.
// It manages connection pooling and provides methods for saving and
// querying past builds.
//
// Design decision: We use a single database file for all profiles rather
// than separate files per username. This keeps the history command simple
// and makes backup/restore a single-file operation.
type BuildDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures BuildDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a BuildDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*BuildDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses a file-path DSN. mode=rw prevents the driver
	// from creating a new file when the history command runs before any build.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	bdb := &BuildDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := bdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return bdb, nil
}

// Close closes the database connection.
func (bdb *BuildDB) Close() error {
	return bdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (bdb *BuildDB) createTables() error {
	schema := `
	-- Builds store one row per completed build of a profile
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		username TEXT NOT NULL,
		link_count INTEGER NOT NULL DEFAULT 0,
		social_count INTEGER NOT NULL DEFAULT 0,
		avatar_sha256 TEXT,
		output_dir TEXT NOT NULL,
		warnings TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_builds_username ON builds(username);
	CREATE INDEX IF NOT EXISTS idx_builds_created ON builds(created_at);
	`

	_, err := bdb.db.ExecContext(context.Background(), schema)
	return err
}

// BuildRecord represents a stored build.
type BuildRecord struct {
	// ID is the unique identifier of the build in the database.
	ID int64 `json:"id"`

	// Source is the page URL or local file the build read from.
	Source string `json:"source"`

	// Username is the extracted profile username.
	Username string `json:"username"`

	// LinkCount is the number of rendered link cards.
	LinkCount int `json:"link_count"`

	// SocialCount is the number of social links on the profile.
	SocialCount int `json:"social_count"`

	// AvatarSHA256 is the checksum of the downloaded avatar, empty when
	// the avatar was skipped.
	AvatarSHA256 string `json:"avatar_sha256,omitempty"`

	// OutputDir is the directory the site was written to.
	OutputDir string `json:"output_dir"`

	// Warnings holds the warnings raised during the build.
	Warnings []model.Warning `json:"warnings,omitempty"`

	// Duration is how long the build took.
	Duration time.Duration `json:"duration_ns"`

	// CreatedAt is when the build was saved.
	CreatedAt time.Time `json:"created_at"`
}

// SaveBuild saves a completed build to the history.
// Only successful builds carry a profile, so failed builds are not stored.
func (bdb *BuildDB) SaveBuild(ctx context.Context, report *model.BuildReport) (int64, error) {
	if report.Profile == nil {
		return 0, fmt.Errorf("build report has no profile")
	}

	warningsJSON, err := json.Marshal(report.Warnings)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize warnings: %w", err)
	}

	query := `
	INSERT INTO builds (source, username, link_count, social_count, avatar_sha256, output_dir, warnings, duration_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := bdb.db.ExecContext(ctx, query,
		report.Source,
		report.Profile.Username,
		report.Profile.LinkCount(),
		len(report.Profile.SocialLinks),
		report.AvatarSHA256,
		report.OutputDir,
		string(warningsJSON),
		report.Duration().Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save build: %w", err)
	}

	return result.LastInsertId()
}

// ListBuilds retrieves stored builds, most recent first.
// When username is non-empty the results are limited to that profile.
// When limit is positive at most limit rows are returned.
func (bdb *BuildDB) ListBuilds(ctx context.Context, username string, limit int) ([]BuildRecord, error) {
	query := `
	SELECT id, source, username, link_count, social_count, avatar_sha256, output_dir, warnings, duration_ms, created_at
	FROM builds
	WHERE 1=1
	`
	args := make([]interface{}, 0)

	if username != "" {
		query += " AND username = ?"
		args = append(args, username)
	}

	query += " ORDER BY created_at DESC, id DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := bdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query builds: %w", err)
	}
	defer rows.Close()

	var results []BuildRecord
	for rows.Next() {
		var rec BuildRecord
		var avatarSHA sql.NullString
		var warningsJSON sql.NullString
		var durationMS int64
		var createdAt string

		err := rows.Scan(
			&rec.ID,
			&rec.Source,
			&rec.Username,
			&rec.LinkCount,
			&rec.SocialCount,
			&avatarSHA,
			&rec.OutputDir,
			&warningsJSON,
			&durationMS,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan build: %w", err)
		}

		rec.AvatarSHA256 = avatarSHA.String
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.CreatedAt = parseTimestamp(createdAt)

		if warningsJSON.Valid && warningsJSON.String != "" {
			if err := json.Unmarshal([]byte(warningsJSON.String), &rec.Warnings); err != nil {
				rec.Warnings = nil
			}
		}

		results = append(results, rec)
	}

	return results, rows.Err()
}

// LatestBuild retrieves the most recent build for a username.
// Returns nil when the profile has no stored builds.
func (bdb *BuildDB) LatestBuild(ctx context.Context, username string) (*BuildRecord, error) {
	records, err := bdb.ListBuilds(ctx, username, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// ListProfiles returns the usernames with stored builds, sorted.
func (bdb *BuildDB) ListProfiles(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT username FROM builds
	ORDER BY username
	`

	rows, err := bdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, username)
	}

	return profiles, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
