package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	pg "github.com/witworkapp/storekit-go/database/postgres"
	"github.com/witworkapp/storekit-go/subscription"
)

const kvTable = "storekit_kv"

// Fixed keys; one row each.
const (
	currentSubscriptionKey = "Subscription"
	startDateKey           = "StartDate"
)

type pgStore struct {
	db *sqlx.DB
}

func NewInPostgres(db *sql.DB) subscription.Store {
	return &pgStore{
		db: sqlx.NewDb(db, "pgx"),
	}
}

func (s *pgStore) reset() {
	_, err := s.db.Exec(`DELETE FROM ` + kvTable)
	if err != nil {
		panic(err)
	}
}

// recordModel is the persisted shape of a subscription record. Unknown fields
// are ignored on decode so the format stays forward compatible.
type recordModel struct {
	ProductID     string    `json:"productId"`
	PurchaseDate  time.Time `json:"purchaseDate"`
	ExpiresDate   time.Time `json:"expiresDate"`
	IsTrialPeriod bool      `json:"isTrialPeriod"`
}

func (s *pgStore) SaveCurrent(ctx context.Context, record *subscription.Record) error {
	blob, err := json.Marshal(&recordModel{
		ProductID:     record.ProductID,
		PurchaseDate:  record.PurchaseDate,
		ExpiresDate:   record.ExpiresDate,
		IsTrialPeriod: record.IsTrialPeriod,
	})
	if err != nil {
		return err
	}

	// Single-statement upsert keeps the overwrite all-or-nothing.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO `+kvTable+` ("key", "value", "updatedAt")
		VALUES ($1, $2, $3)
		ON CONFLICT ("key") DO UPDATE SET "value" = EXCLUDED."value", "updatedAt" = EXCLUDED."updatedAt"
	`, currentSubscriptionKey, pg.Encode(blob), time.Now())
	return err
}

func (s *pgStore) GetCurrent(ctx context.Context) (*subscription.Record, error) {
	encoded, err := s.getValue(ctx, currentSubscriptionKey)
	if err != nil {
		return nil, err
	}

	blob, err := pg.Decode(encoded)
	if err != nil {
		// Corrupt data reads as absence.
		return nil, subscription.ErrNotFound
	}

	var m recordModel
	if err := json.Unmarshal(blob, &m); err != nil {
		return nil, subscription.ErrNotFound
	}

	return &subscription.Record{
		ProductID:     m.ProductID,
		PurchaseDate:  m.PurchaseDate,
		ExpiresDate:   m.ExpiresDate,
		IsTrialPeriod: m.IsTrialPeriod,
	}, nil
}

func (s *pgStore) InitStartDate(ctx context.Context, fallback time.Time) (time.Time, error) {
	encoded := pg.Encode([]byte(fallback.UTC().Format(time.RFC3339Nano)))

	// First writer wins; later fallbacks never displace the captured value.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO `+kvTable+` ("key", "value", "updatedAt")
		VALUES ($1, $2, $3)
		ON CONFLICT ("key") DO NOTHING
	`, startDateKey, encoded, time.Now())
	if err != nil {
		return time.Time{}, err
	}

	stored, err := s.getValue(ctx, startDateKey)
	if err != nil {
		return time.Time{}, err
	}

	blob, err := pg.Decode(stored)
	if err != nil {
		return fallback, nil
	}

	parsed, err := time.Parse(time.RFC3339Nano, string(blob))
	if err != nil {
		return fallback, nil
	}

	return parsed, nil
}

func (s *pgStore) getValue(ctx context.Context, key string) (string, error) {
	var value string
	query := `SELECT "value" FROM ` + kvTable + ` WHERE "key" = $1`
	err := s.db.GetContext(ctx, &value, query, key)
	if err == sql.ErrNoRows {
		return "", subscription.ErrNotFound
	} else if err != nil {
		return "", err
	}
	return value, nil
}
