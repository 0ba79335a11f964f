package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	app "github.com/campuslink/platform/internal/app"
	"github.com/campuslink/platform/internal/app/storage/postgres"
	"github.com/campuslink/platform/internal/config"
	"github.com/campuslink/platform/pkg/logger"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample catalog data for development",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Database.DSN == "" {
				return fmt.Errorf("seeding requires a database (DATABASE_DSN)")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			store, err := postgres.Open(ctx, cfg.Database.DSN,
				cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns,
				time.Duration(cfg.Database.ConnMaxLifetime)*time.Second)
			if err != nil {
				return err
			}
			defer store.Close()

			log := logger.NewDefault("seed")
			application := app.New(app.Stores{
				Users:                   store,
				Loans:                   store,
				LoanApplications:        store,
				ScholarshipApplications: store,
				Products:                store,
				Orders:                  store,
				Banners:                 store,
				Notifications:           store,
			}, app.Options{AuthSecret: cfg.Auth.Secret}, log)

			if _, err := application.Loans.Create(ctx, "Emergency Tuition Loan", "Short-term support for tuition shortfalls.", 2.5, 500000, 12); err != nil {
				return fmt.Errorf("seed loan: %w", err)
			}
			if _, err := application.Loans.Create(ctx, "Laptop Loan", "Finance a laptop for your studies.", 4.0, 150000, 24); err != nil {
				return fmt.Errorf("seed loan: %w", err)
			}
			if _, err := application.Shop.CreateProduct(ctx, "Campus Hoodie", "Embroidered crest, unisex fit.", 3500, 100, ""); err != nil {
				return fmt.Errorf("seed product: %w", err)
			}
			if _, err := application.Shop.CreateProduct(ctx, "Ceramic Mug", "350ml campus mug.", 900, 200, ""); err != nil {
				return fmt.Errorf("seed product: %w", err)
			}
			if _, err := application.Banners.Create(ctx, "Welcome Week", "https://cdn.campus.edu/banners/welcome.png", "https://campus.edu/welcome"); err != nil {
				return fmt.Errorf("seed banner: %w", err)
			}

			cmd.Println("sample data inserted")
			return nil
		},
	}
}
