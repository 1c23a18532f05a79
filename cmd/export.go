/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/config"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/server"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/storage"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Upload a JSON snapshot of users, rooms and bookings",
	Long: `Writes a point-in-time JSON snapshot to the configured object
storage (STORAGE_BACKEND=minio or gcs). Password hashes and pending
codes are never included.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if prefix, _ := cmd.Flags().GetString("prefix"); prefix != "" {
			cfg.Storage.Prefix = prefix
		}

		backend, err := storage.Open(cmd.Context(), cfg.Storage)
		if err != nil {
			return err
		}

		repos, dbConn, err := server.OpenRepositories(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeDB(dbConn)

		exporter := storage.NewExporter(backend, cfg.Storage.Prefix, repos.Users, repos.Classrooms, repos.Bookings)
		key, err := exporter.Export(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "snapshot written to %s\n", key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("prefix", "", "Object key prefix (overrides STORAGE_PREFIX)")
}
