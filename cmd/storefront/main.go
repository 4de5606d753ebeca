package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/storefront/backend/config"
	"github.com/storefront/backend/database/seeders"
	"github.com/storefront/backend/internal/server"
	"github.com/storefront/backend/pkg/database"
)

func main() {
	root := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront e-commerce backend",
	}

	root.AddCommand(
		serveCmd(),
		seedCmd(),
		indexesCmd(),
		routeListCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return server.Run()
		},
	}
}

// withDatabase connects, runs f, and disconnects again. Shared by the
// one-shot maintenance commands.
func withDatabase(f func(ctx context.Context) error) error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := database.Connect(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	defer database.Disconnect(ctx)
	return f(ctx)
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the admin user and sample catalogue",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withDatabase(func(ctx context.Context) error {
				if err := database.EnsureIndexes(ctx); err != nil {
					return err
				}
				return seeders.Run(ctx)
			})
		},
	}
}

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withDatabase(database.EnsureIndexes)
		},
	}
}

func routeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route:list",
		Short: "Print the registered routes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Load(); err != nil {
				return err
			}
			r, err := server.Build()
			if err != nil {
				return err
			}
			for _, info := range r.Routes() {
				cmd.Printf("%-7s %-40s %s\n", info.Method, info.Path, info.Name)
			}
			return nil
		},
	}
}
