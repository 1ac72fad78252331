package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"worlds/internal/config"
)

func initCmd() *cobra.Command {
	var projectName string
	var dsn string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new worlds project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(projectName, dsn)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().StringVar(&dsn, "dsn", "sqlite://worlds.db", "Database DSN")
	return cmd
}

func runInit(projectName, dsn string) error {
	configPath := config.DefaultFile
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	contents := fmt.Sprintf("project: %s\nversion: 1\n\ndatabase:\n  dsn: %s\n\nschemas:\n  dir: \"\"\n", projectName, dsn)
	if err := os.WriteFile(configPath, []byte(contents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}

	return nil
}
