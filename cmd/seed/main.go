package main

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/securitylessons/backend/internal/config"
	"github.com/securitylessons/backend/internal/database"
	"github.com/securitylessons/backend/internal/logger"
	"github.com/securitylessons/backend/internal/models"
	"github.com/securitylessons/backend/internal/passwords"
	"github.com/securitylessons/backend/internal/repositories"
	"github.com/securitylessons/backend/internal/seed"
	"github.com/securitylessons/backend/internal/storage"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the lessons database with demo users, records and files",
		Long: `Seed creates the demo accounts and records every lesson is played with:

  IDOR lessons   adminroot/adminroot123 (admin), dev/devpass123, mod/modpass123
  portals        admin, staff users and user_charlie, all with password "password"

Existing users and records are kept, so running it twice is safe.
Migrations are applied before seeding.`,
		SilenceUsage: true,
		RunE:         runSeed,
	}

	rootCmd.AddCommand(newMigrateCmd(), newHashCmd(), newUserCmd())
	return rootCmd
}

func newMigrateCmd() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations, or roll back all of them with --down",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := setup()
			if err != nil {
				return err
			}
			defer closeAll(db)

			if down {
				if err := database.RollbackMigrations(db, database.MigrationsPath()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migrations rolled back")
				return nil
			}

			if err := database.RunMigrations(db, database.MigrationsPath()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "roll back every applied migration")
	return cmd
}

func newHashCmd() *cobra.Command {
	var scheme string

	cmd := &cobra.Command{
		Use:   "hash <password>",
		Short: "Print the hash of a password with the given scheme",
		Long: `Hash prints the encoded hash of a password, handy for comparing schemes
or for writing users by hand. Supported schemes: md5, bcrypt, argon2id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasher, err := passwords.NewHasher(scheme)
			if err != nil {
				return err
			}

			encoded, err := hasher.Hash(args[0])
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}

	cmd.Flags().StringVar(&scheme, "scheme", passwords.SchemeBcrypt, "hashing scheme (md5, bcrypt, argon2id)")
	return cmd
}

func newUserCmd() *cobra.Command {
	var (
		roles []string
		email string
	)

	cmd := &cobra.Command{
		Use:   "user <username> <password>",
		Short: "Create an account with the given roles",
		Long: `User creates one account, hashing its password with the configured scheme.
Roles are comma separated: admin, hr, instructor, teller, supply_manager, manager.
An existing account with the same username is left unchanged.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := models.ParseRoles(roles)
			if err != nil {
				return err
			}

			cfg, db, err := setup()
			if err != nil {
				return err
			}
			defer closeAll(db)

			if err := database.RunMigrations(db, database.MigrationsPath()); err != nil {
				return err
			}
			hasher, err := passwords.NewHasher(cfg.Lesson.PasswordHasher)
			if err != nil {
				return err
			}

			seeder := seed.NewSeeder(
				repositories.NewUserRepository(db, logger.Logger),
				nil, nil, nil, nil,
				hasher,
				cfg.Lesson.SecretKey,
				logger.Logger,
			)
			if email == "" {
				email = strings.ToLower(args[0]) + "@example.com"
			}

			summary, err := seeder.AddUser(cmd.Context(), args[0], email, args[1], set)
			if err != nil {
				return err
			}
			summary.Print(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&roles, "roles", nil, "comma separated role names")
	cmd.Flags().StringVar(&email, "email", "", "email address (defaults to <username>@example.com)")
	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer closeAll(db)

	if err := database.RunMigrations(db, database.MigrationsPath()); err != nil {
		return err
	}

	hasher, err := passwords.NewHasher(cfg.Lesson.PasswordHasher)
	if err != nil {
		return err
	}
	media, err := storage.NewLocalStorage(cfg.Storage.MediaRoot)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Storage.StaticRoot, 0755); err != nil {
		return fmt.Errorf("failed to create static root: %w", err)
	}
	static := afero.NewBasePathFs(afero.NewOsFs(), cfg.Storage.StaticRoot)

	seeder := seed.NewSeeder(
		repositories.NewUserRepository(db, logger.Logger),
		repositories.NewResourceRepository(db, logger.Logger),
		repositories.NewAttachmentRepository(db, logger.Logger),
		media,
		static,
		hasher,
		cfg.Lesson.SecretKey,
		logger.Logger,
	)

	summary, err := seeder.Run(cmd.Context())
	if err != nil {
		return err
	}

	summary.Print(cmd.OutOrStdout())
	return nil
}

// setup loads the configuration, initializes the logger and connects to the database
func setup() (*config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.Options{Level: cfg.Logging.Level, File: cfg.Logging.File}); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		logger.Logger.Error("Failed to connect to database", zap.Error(err))
		return nil, nil, err
	}

	return cfg, db, nil
}

func closeAll(db *sql.DB) {
	db.Close()
	logger.Sync()
}
