package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"pos/domain"
	"pos/infra/postgres"
	"pos/pkg/config"
	"pos/pkg/logger"

	"go.uber.org/zap"
)

const usage = `usage: migrate <command> [flags]

commands:
  up        apply all pending migrations
  down      roll back all migrations
  version   print the current schema version
  import    replace catalog and sales with legacy JSON exports
            -products <file>  products.json ({"products": [...]})
            -sales <file>     sales.json ([...])
`

func main() {
	appConfig := config.Read()
	defer logger.Setup(appConfig.AppEnv).Sync()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	pgRepository := postgres.NewPgRepository(appConfig.PostgresDSN())
	defer pgRepository.Close()

	if err := run(pgRepository, os.Args[1], os.Args[2:]); err != nil {
		zap.L().Error("migrate failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
}

func run(pgRepository *postgres.PgRepository, command string, args []string) error {
	if command == "import" {
		return importLegacy(pgRepository, args)
	}

	migrator, err := postgres.NewMigrator(pgRepository.DB())
	if err != nil {
		return err
	}
	defer migrator.Close()

	switch command {
	case "up":
		return migrator.Up()
	case "down":
		return migrator.Down()
	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	}

	fmt.Fprint(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", command)
}

func importLegacy(pgRepository *postgres.PgRepository, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	productsPath := fs.String("products", "data/products.json", "legacy products export")
	salesPath := fs.String("sales", "data/sales.json", "legacy sales export")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var products postgres.LegacyProducts
	if err := readJSON(*productsPath, &products); err != nil {
		return err
	}

	var sales []domain.Sale
	if err := readJSON(*salesPath, &sales); err != nil {
		return err
	}

	stats, err := pgRepository.ImportLegacy(context.Background(), products, sales)
	if err != nil {
		return err
	}

	zap.L().Info("Legacy data imported",
		zap.Int("categories", stats.Categories),
		zap.Int("items", stats.Items),
		zap.Int("sales", stats.Sales),
	)
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
