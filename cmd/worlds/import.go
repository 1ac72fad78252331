package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"worlds/internal/config"
	"worlds/internal/importer"
)

func importCmd() *cobra.Command {
	var campaignID int64
	var resolve string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a campaign bundle from a native or Kanka JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args[0], campaignID, importer.Resolution(resolve), dryRun)
		},
	}
	cmd.Flags().Int64Var(&campaignID, "campaign", 0, "Target campaign ID (0 creates a new campaign)")
	cmd.Flags().StringVar(&resolve, "resolve", string(importer.ResolutionSkip), "Conflict resolution: skip, overwrite, or keep_both")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report conflicts without writing anything")
	return cmd
}

func runImport(path string, campaignID int64, resolution importer.Resolution, dryRun bool) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig(config.DefaultFile)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading import file: %w", err)
	}

	bundle, format, err := importer.Parse(raw)
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	report, err := importer.DetectConflicts(ctx, db, bundle, campaignID)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Fprintf(os.Stdout, "Detected format: %s\n", format)
		fmt.Fprintf(os.Stdout, "Entities: %d, tags: %d, relations: %d\n",
			len(bundle.Entities), len(bundle.Tags), len(bundle.Relations))
		if report.Empty() {
			fmt.Fprintln(os.Stdout, "No conflicts.")
			return nil
		}
		encoded, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding conflict report: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(encoded))
		return nil
	}

	stats, err := importer.Apply(ctx, db, bundle, campaignID, resolution)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Import complete.")
	fmt.Fprintf(os.Stdout, "  Entities:   %d\n", stats.Entities)
	fmt.Fprintf(os.Stdout, "  Tags:       %d\n", stats.Tags)
	fmt.Fprintf(os.Stdout, "  Relations:  %d\n", stats.Relations)
	fmt.Fprintf(os.Stdout, "  Attributes: %d\n", stats.Attributes)
	fmt.Fprintf(os.Stdout, "  Posts:      %d\n", stats.Posts)
	return nil
}
