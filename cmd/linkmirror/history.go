package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/watari-dev/linkmirror/internal/config"
	"github.com/watari-dev/linkmirror/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [username]",
		Short: "Show past builds from the history database",
		Long: `History lists builds recorded in the local history database.

Each build stores the extracted profile summary and the avatar
checksum, so you can see when a profile's links or avatar changed
between mirrors.

Examples:
  # List recent builds across all profiles
  linkmirror history

  # List builds for one profile
  linkmirror history username

  # List the profiles with stored builds
  linkmirror history --profiles

  # Machine-readable output
  linkmirror history -j username`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", 20,
		"Maximum number of builds to list (0 for all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output the history as JSON")
	cmd.Flags().Bool("profiles", false,
		"List the profiles with stored builds instead of individual builds")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"History database directory")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	profilesOnly, err := cmd.Flags().GetBool("profiles")
	if err != nil {
		return err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	var username string
	if len(args) == 1 {
		username = args[0]
	}

	// Open read-only: history must not create an empty database.
	db, err := database.Open(dbDir, database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no build history yet (run a build first): %w", err)
	}
	defer db.Close()

	if profilesOnly {
		return printProfiles(cmd, db, jsonOut)
	}

	records, err := db.ListBuilds(cmd.Context(), username, limit)
	if err != nil {
		return fmt.Errorf("failed to list builds: %w", err)
	}

	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No builds recorded.")
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  @%-20s  links:%-3d  social:%-2d  %s\n",
			rec.CreatedAt.Format(time.DateTime),
			rec.Username,
			rec.LinkCount,
			rec.SocialCount,
			buildDetail(rec),
		)
	}

	return nil
}

// buildDetail formats the trailing detail column for one build row.
func buildDetail(rec database.BuildRecord) string {
	var sb strings.Builder
	if rec.AvatarSHA256 != "" {
		fmt.Fprintf(&sb, "avatar:%.12s  ", rec.AvatarSHA256)
	}
	sb.WriteString(rec.OutputDir)
	if n := len(rec.Warnings); n > 0 {
		fmt.Fprintf(&sb, "  (%d warning(s))", n)
	}
	return sb.String()
}

// printProfiles lists the distinct usernames with stored builds.
func printProfiles(cmd *cobra.Command, db *database.BuildDB, jsonOut bool) error {
	profiles, err := db.ListProfiles(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(profiles)
	}

	if len(profiles) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No builds recorded.")
		return nil
	}
	for _, p := range profiles {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}
