package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pankaj3399/time-track-sub001/config"
	"github.com/pankaj3399/time-track-sub001/repository"
	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "time-track",
		Short:   "Calendar, goals, habits and time-limit API",
		Version: version,
		RunE:    runServe,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(indexesCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
}

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			client, err := repository.Connect(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer disconnect(client)

			if err := repository.SetupIndexes(cmd.Context(), client.Database(cfg.Database.DatabaseName), cfg.Collections); err != nil {
				return err
			}
			utils.Logger.Info().Str("database", cfg.Database.DatabaseName).Msg("indexes created")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}

// setup loads the configuration and initialises the process-wide logger,
// JWT keys and validation tags.
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	utils.InitLogger(cfg.LogLevel, cfg.IsProduction())
	if err := utils.InitJWT(cfg.Auth.JWTSecretKey, cfg.Auth.JWTExpiration, cfg.Auth.RefreshExpiration); err != nil {
		return nil, fmt.Errorf("init jwt: %w", err)
	}
	if err := utils.InitValidator(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	client, err := repository.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer disconnect(client)

	app, err := newApp(ctx, cfg, client)
	if err != nil {
		return err
	}
	defer app.close()

	return serve(cfg, app.router())
}

func disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("mongo disconnect failed")
	}
}
