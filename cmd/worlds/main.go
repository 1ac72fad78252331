package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "worlds",
		Short: "Campaign worldbuilding database and import toolkit",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(initCmd())
	root.AddCommand(importCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(schemaCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
