/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/config"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/server"
)

const shutdownTimeout = 10 * time.Second

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the EduManager web server",
	Long: `Starts the EduManager web server. Usage:

	edumanager server

Set USE_MEMORY_STORE=true to run without Postgres.
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadConfig()
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.ServerPort = port
		}

		ctx := cmd.Context()
		srv, err := server.New(ctx, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start server: %v\n", err)
			os.Exit(1)
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			if err != nil {
				fmt.Fprintf(os.Stderr, "server error: %v\n", err)
				os.Exit(1)
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides SERVER_PORT)")
}
