package main

import (
	"fmt"

	"ritcompass/internal/knowledge"
	"ritcompass/internal/repository"
	"ritcompass/pkg/config"
	"ritcompass/pkg/logger"
	"ritcompass/pkg/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func seedCMD() *cobra.Command {
	var file string
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Store the knowledge base file in PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := logger.Init(cfg.Logger.Level); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()
			appLogger := logger.Get()

			if file == "" {
				file = cfg.Knowledge.Path
			}
			var kb *knowledge.Base
			if file == "" {
				kb, err = knowledge.LoadDefault()
			} else {
				kb, err = knowledge.LoadFile(file)
			}
			if err != nil {
				return fmt.Errorf("failed to load knowledge file: %w", err)
			}

			db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.NewKnowledgeRepository(db, appLogger)
			if err := repo.EnsureSchema(ctx); err != nil {
				return err
			}

			appLogger.Info("Starting knowledge base seeding", zap.Int("categories", kb.Len()))
			if err := repo.Replace(ctx, kb.Categories()); err != nil {
				return fmt.Errorf("failed to seed knowledge base: %w", err)
			}
			appLogger.Info("Knowledge base seeding completed", zap.Strings("categories", kb.Keys()))
			return nil
		},
	}
	seed.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON knowledge file (default KNOWLEDGE_PATH, then the embedded data)")

	return seed
}
