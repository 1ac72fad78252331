package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"worlds/internal/config"
	"worlds/internal/importer"
)

func exportCmd() *cobra.Command {
	var campaignID int64
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a campaign as a native JSON bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			if campaignID == 0 {
				return fmt.Errorf("--campaign is required")
			}
			return runExport(campaignID, outPath)
		},
	}
	cmd.Flags().Int64Var(&campaignID, "campaign", 0, "Campaign ID to export")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file (defaults to stdout)")
	return cmd
}

func runExport(campaignID int64, outPath string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig(config.DefaultFile)
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	bundle, err := importer.Export(ctx, db, campaignID)
	if err != nil {
		return err
	}

	encoded, err := importer.EncodeNative(bundle)
	if err != nil {
		return err
	}

	if outPath == "" {
		fmt.Fprintln(os.Stdout, string(encoded))
		return nil
	}
	if err := os.WriteFile(outPath, encoded, 0o600); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}
