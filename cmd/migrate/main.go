package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pageza/proteinpal/config"
	"github.com/pageza/proteinpal/internal/database"
	"github.com/pageza/proteinpal/internal/session"
)

func main() {
	var purge bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the session store schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			db, err := database.Open(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Println("Migrations applied")

			if !purge {
				return nil
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			n, err := session.NewGormStore(db).DeleteExpired(ctx, time.Now())
			if err != nil {
				return err
			}
			log.Printf("Purged %d expired sessions", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&purge, "purge", false, "also delete expired sessions")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
