package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"postboard/internal/auth"
	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/storage"
	"postboard/internal/store"
	"postboard/internal/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "postboard",
		Short:         "Blog-style content publishing server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the config file")

	root.AddCommand(
		newServeCmd(&configPath),
		newMigrateCmd(&configPath),
		newCreateUserCmd(&configPath),
		newCreateGroupCmd(&configPath),
	)
	return root
}

// openStore loads config and connects the configured backend. The
// returned func closes the connection.
func openStore(configPath string) (*config.Config, *store.Store, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := database.Open(cfg.Database.Backend)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := db.Connect(cfg.Database.DSN); err != nil {
		return nil, nil, nil, fmt.Errorf("connect to %s: %w", cfg.Database.Backend, err)
	}

	return cfg, store.New(db), func() { db.Close() }, nil
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg, st, closeStore, err := openStore(*configPath)
			if err != nil {
				return err
			}
			defer closeStore()

			images, err := storage.NewImageStore(cfg.Media.Dir)
			if err != nil {
				return err
			}

			sessions := auth.NewSessions(cfg.Auth.Secret,
				time.Duration(cfg.Auth.SessionMaxAge)*time.Hour)

			srv, err := web.NewServer(st, sessions, images, logger)
			if err != nil {
				return err
			}

			logger.Info("listening", zap.String("addr", cfg.Server.Addr))
			return srv.Start(cfg.Server.Addr)
		},
	}
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, closeStore, err := openStore(*configPath)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := st.Migrate(context.Background()); err != nil {
				return err
			}
			fmt.Println("schema is up to date")
			return nil
		},
	}
}

func newCreateUserCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "createuser <username> <password>",
		Short: "Register an account from the command line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, closeStore, err := openStore(*configPath)
			if err != nil {
				return err
			}
			defer closeStore()

			hash, err := auth.HashPassword(args[1])
			if err != nil {
				return err
			}
			user, err := st.Users.Create(context.Background(), args[0], hash)
			if err != nil {
				return err
			}
			fmt.Printf("created user %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}
}

// Groups have no web endpoints; they are managed from the command line.
func newCreateGroupCmd(configPath *string) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "creategroup <title> <slug>",
		Short: "Create a post category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, closeStore, err := openStore(*configPath)
			if err != nil {
				return err
			}
			defer closeStore()

			group, err := st.Groups.Create(context.Background(), args[0], args[1], description)
			if err != nil {
				return err
			}
			fmt.Printf("created group %s (/group/%s/)\n", group.Title, group.Slug)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "group description")
	return cmd
}
