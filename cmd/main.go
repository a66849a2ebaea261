package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/witworkapp/storekit-go/appstore"
	productmemory "github.com/witworkapp/storekit-go/product/memory"
	"github.com/witworkapp/storekit-go/receipt"
	"github.com/witworkapp/storekit-go/storekit"
	"github.com/witworkapp/storekit-go/subscription"
	submemory "github.com/witworkapp/storekit-go/subscription/memory"
	subpostgres "github.com/witworkapp/storekit-go/subscription/postgres"
)

func main() {
	_ = godotenv.Load()

	log := zap.Must(zap.NewDevelopment())
	defer func() { _ = log.Sync() }()

	sharedSecret := os.Getenv("APPSTORE_SHARED_SECRET")
	if sharedSecret == "" {
		log.Fatal("APPSTORE_SHARED_SECRET is required")
	}

	receiptPath := os.Getenv("RECEIPT_PATH")
	if receiptPath == "" {
		log.Fatal("RECEIPT_PATH is required")
	}

	var store subscription.Store
	if databaseUrl := os.Getenv("DATABASE_URL"); databaseUrl != "" {
		db, err := sql.Open("pgx", databaseUrl)
		if err != nil {
			log.Fatal("Failed to open database", zap.Error(err))
		}
		if err := subpostgres.InitializeSchema(db); err != nil {
			log.Fatal("Failed to initialize schema", zap.Error(err))
		}
		store = subpostgres.NewInPostgres(db)
	} else {
		log.Info("No DATABASE_URL set, entitlement will not survive restarts")
		store = submemory.NewInMemory()
	}

	ctx := context.Background()

	svc := storekit.NewService(
		ctx,
		log,
		appstore.NewClient(log, sharedSecret),
		receipt.NewFileSource(receiptPath),
		productmemory.NewCatalog(),
		nil,
		store,
	)

	result, err := svc.Restore(ctx)
	if err != nil {
		log.Fatal("Failed to restore purchases", zap.Error(err))
	}

	log.Info("Restore complete",
		zap.String("session_id", result.SessionID),
		zap.Bool("entitled", svc.IsEntitled()),
	)
}
