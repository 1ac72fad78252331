package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"worlds/internal/config"
	"worlds/internal/schema"
)

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect entity type schemas",
	}
	cmd.AddCommand(schemaListCmd())
	cmd.AddCommand(schemaShowCmd())
	return cmd
}

func schemaListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the entity type catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry()
			if err != nil {
				return err
			}
			for _, issue := range registry.LoadIssues() {
				fmt.Fprintf(os.Stderr, "warning: schema %s\n", issue)
			}
			for _, name := range registry.TypeNames() {
				marker := " "
				if registry.Schema(name) != nil {
					marker = "*"
				}
				fmt.Fprintf(os.Stdout, "%s %-13s %s\n", marker, name, registry.PluralLabel(name))
			}
			return nil
		},
	}
}

func schemaShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <type>",
		Short: "Show the field definitions for one entity type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry()
			if err != nil {
				return err
			}
			name := args[0]
			if !registry.TypeExists(name) {
				return fmt.Errorf("unknown entity type: %s", name)
			}

			fmt.Fprintf(os.Stdout, "%s (%s)\n", registry.Label(name), name)
			infos := registry.FieldInfos(name)
			if len(infos) == 0 {
				fmt.Fprintln(os.Stdout, "  no schema loaded")
				return nil
			}

			fields := make([]string, 0, len(infos))
			for field := range infos {
				fields = append(fields, field)
			}
			sort.Strings(fields)

			for _, field := range fields {
				info := infos[field]
				line := fmt.Sprintf("  %-12s %s", field, info.Type)
				if info.Required {
					line += " (required)"
				}
				if len(info.Enum) > 0 {
					line += fmt.Sprintf(" enum=%v", info.Enum)
				}
				if info.Default != nil {
					line += fmt.Sprintf(" default=%v", info.Default)
				}
				fmt.Fprintln(os.Stdout, line)
				if info.Description != "" {
					fmt.Fprintf(os.Stdout, "               %s\n", info.Description)
				}
			}
			return nil
		},
	}
}

// loadRegistry honours the project config when present but falls back to
// the built-in schemas so schema inspection works outside a project.
func loadRegistry() (*schema.Registry, error) {
	cfg, err := config.LoadProjectConfig(config.DefaultFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return schema.NewRegistry(nil), nil
		}
		return nil, err
	}
	return openRegistry(cfg), nil
}
