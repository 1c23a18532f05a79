/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/config"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/server"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/services"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default admin account and classrooms",
	Long: `Creates the default admin account and the starter classrooms when
they are missing. Running it again changes nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		repos, dbConn, err := server.OpenRepositories(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeDB(dbConn)

		result, err := services.NewSeeder(repos.Users, repos.Classrooms).Seed(cmd.Context(), cfg.Seed.AdminUsername, cfg.Seed.AdminPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin created: %t, rooms created: %d\n", result.AdminCreated, result.RoomsCreated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func closeDB(dbConn *sql.DB) {
	if dbConn != nil {
		_ = dbConn.Close()
	}
}
