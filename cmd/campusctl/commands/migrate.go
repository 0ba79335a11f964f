package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var dsn, dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.PersistentFlags().StringVar(&dsn, "dsn", os.Getenv("DATABASE_DSN"), "Postgres DSN")
	cmd.PersistentFlags().StringVar(&dir, "migrations", "migrations", "migrations directory")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := open(dsn, dir)
			if err != nil {
				return err
			}
			defer closeMigrate(m)
			if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migrate up: %w", err)
			}
			cmd.Println("migrations applied")
			return nil
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := open(dsn, dir)
			if err != nil {
				return err
			}
			defer closeMigrate(m)
			if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migrate down: %w", err)
			}
			cmd.Println("rolled back one migration")
			return nil
		},
	}

	cmd.AddCommand(up, down)
	return cmd
}

func open(dsn, dir string) (*migrate.Migrate, error) {
	if dsn == "" {
		return nil, fmt.Errorf("a Postgres DSN is required (--dsn or DATABASE_DSN)")
	}
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}
	return m, nil
}

func closeMigrate(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		fmt.Fprintln(os.Stderr, "close migration source:", srcErr)
	}
	if dbErr != nil {
		fmt.Fprintln(os.Stderr, "close migration database:", dbErr)
	}
}
