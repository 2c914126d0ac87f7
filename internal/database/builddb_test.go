package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/watari-dev/linkmirror/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *BuildDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// testBuildReport returns a completed report for the given username.
func testBuildReport(username string) *model.BuildReport {
	r := model.NewBuildReport("https://linktr.ee/" + username)
	r.Profile = &model.Profile{
		Username: username,
		Links: []model.Link{
			{Title: "Blog", URL: "https://blog.example.com"},
			{Title: "Shop", URL: "https://shop.example.com"},
		},
		SocialLinks: []model.SocialLink{
			{Type: "INSTAGRAM", URL: "https://instagram.com/" + username},
		},
	}
	r.OutputDir = "public"
	r.AvatarSHA256 = "deadbeef"
	r.AddWarning(model.WarnPrivacy, "avatar EXIF contains camera serial number", "profile_picture.jpg")
	r.Finish(nil)
	return r
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, dbFileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "nonexistent-db")

		_, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err == nil {
			t.Fatal("expected error when CreateIfNotExists=false and database does not exist")
		}
		if !strings.Contains(err.Error(), "database not found") {
			t.Errorf("expected error to mention missing database, got %q", err.Error())
		}
		if _, statErr := os.Stat(dbDir); !os.IsNotExist(statErr) {
			t.Error("database directory should not have been created when CreateIfNotExists=false")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "existing-db")

		db1, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		if err := db1.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}

		db2, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to open existing database: %v", err)
		}
		defer db2.Close()
	})
}

// TestSaveBuild tests saving and retrieving build history.
func TestSaveBuild(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		id, err := db.SaveBuild(ctx, testBuildReport("ambertree"))
		if err != nil {
			t.Fatalf("failed to save build: %v", err)
		}
		if id == 0 {
			t.Error("expected non-zero build ID")
		}

		records, err := db.ListBuilds(ctx, "ambertree", 0)
		if err != nil {
			t.Fatalf("failed to list builds: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 build, got %d", len(records))
		}

		rec := records[0]
		if rec.Username != "ambertree" {
			t.Errorf("expected username ambertree, got %q", rec.Username)
		}
		if rec.LinkCount != 2 {
			t.Errorf("expected 2 links, got %d", rec.LinkCount)
		}
		if rec.SocialCount != 1 {
			t.Errorf("expected 1 social link, got %d", rec.SocialCount)
		}
		if rec.AvatarSHA256 != "deadbeef" {
			t.Errorf("expected avatar checksum, got %q", rec.AvatarSHA256)
		}
		if len(rec.Warnings) != 1 || rec.Warnings[0].Kind != model.WarnPrivacy {
			t.Errorf("expected stored privacy warning, got %+v", rec.Warnings)
		}
		if rec.CreatedAt.IsZero() {
			t.Error("expected non-zero creation time")
		}
	})

	t.Run("rejects report without profile", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		r := model.NewBuildReport("https://linktr.ee/broken")
		r.Finish(nil)

		if _, err := db.SaveBuild(context.Background(), r); err == nil {
			t.Error("expected error when saving report without profile")
		}
	})
}

// TestListBuilds tests history filters.
func TestListBuilds(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for _, username := range []string{"alice", "alice", "bob"} {
		if _, err := db.SaveBuild(ctx, testBuildReport(username)); err != nil {
			t.Fatalf("failed to save build: %v", err)
		}
	}

	t.Run("filters by username", func(t *testing.T) {
		records, err := db.ListBuilds(ctx, "alice", 0)
		if err != nil {
			t.Fatalf("failed to list builds: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("expected 2 builds for alice, got %d", len(records))
		}
	})

	t.Run("applies limit", func(t *testing.T) {
		records, err := db.ListBuilds(ctx, "", 1)
		if err != nil {
			t.Fatalf("failed to list builds: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("expected 1 build with limit=1, got %d", len(records))
		}
	})

	t.Run("returns most recent first", func(t *testing.T) {
		records, err := db.ListBuilds(ctx, "", 0)
		if err != nil {
			t.Fatalf("failed to list builds: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected 3 builds, got %d", len(records))
		}
		if records[0].ID < records[1].ID || records[1].ID < records[2].ID {
			t.Error("expected builds ordered newest first")
		}
	})
}

// TestLatestBuild tests retrieving the newest build per profile.
func TestLatestBuild(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	if rec, err := db.LatestBuild(ctx, "nobody"); err != nil {
		t.Fatalf("failed to query latest build: %v", err)
	} else if rec != nil {
		t.Errorf("expected nil for unknown profile, got %+v", rec)
	}

	var lastID int64
	for i := 0; i < 2; i++ {
		id, err := db.SaveBuild(ctx, testBuildReport("alice"))
		if err != nil {
			t.Fatalf("failed to save build: %v", err)
		}
		lastID = id
	}

	rec, err := db.LatestBuild(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to query latest build: %v", err)
	}
	if rec == nil || rec.ID != lastID {
		t.Errorf("expected latest build ID %d, got %+v", lastID, rec)
	}
}

// TestListProfiles tests the distinct username listing.
func TestListProfiles(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for _, username := range []string{"bob", "alice", "bob"} {
		if _, err := db.SaveBuild(ctx, testBuildReport(username)); err != nil {
			t.Fatalf("failed to save build: %v", err)
		}
	}

	profiles, err := db.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("failed to list profiles: %v", err)
	}
	if len(profiles) != 2 || profiles[0] != "alice" || profiles[1] != "bob" {
		t.Errorf("expected sorted distinct profiles [alice bob], got %v", profiles)
	}
}
