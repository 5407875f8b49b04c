package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/config"
	redisRepo "github.com/199-biotechnologies/continuum-clinic-sub000/internal/repository/redis"
	"github.com/199-biotechnologies/continuum-clinic-sub000/pkg/database"
)

// Разовая чистка индексов от ссылок на удалённые записи.
// Тот же проход доступен из админки: POST /api/admin/maintenance/reconcile.
func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client, err := database.NewUniversalRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	report, err := redisRepo.NewReconciler(client).Run(ctx)
	if err != nil {
		log.Fatalf("Reconcile failed: %v", err)
	}

	fmt.Printf("Scanned %d indexes, checked %d entries\n", report.IndexesScanned, report.EntriesChecked)
	names := make([]string, 0, len(report.Removed))
	for name := range report.Removed {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-22s removed %d\n", name, report.Removed[name])
	}
	fmt.Printf("Done. %d dangling entries removed.\n", report.TotalRemoved())
}
