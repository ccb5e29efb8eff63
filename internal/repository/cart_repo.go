package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"BeykushStoreAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Store is the persistence surface the cart layer depends on.
// Load returns (nil, nil) when the session has no snapshot yet.
type Store interface {
	Save(ctx context.Context, sessionID string, snap model.CartSnapshot) error
	Load(ctx context.Context, sessionID string) (*model.CartSnapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

// CartRepository stores cart snapshots in the cart_snapshots table,
// one row per session
type CartRepository struct {
	DB  *pgxpool.Pool
	Log *zap.Logger
}

func NewCartRepository(db *pgxpool.Pool, log *zap.Logger) *CartRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartRepository{DB: db, Log: log}
}

func (r *CartRepository) Save(ctx context.Context, sessionID string, snap model.CartSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO cart_snapshots (session_id, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`
	_, err = r.DB.Exec(ctx, query, sessionID, data, time.Now())
	return err
}

// Load returns the stored snapshot. A corrupt row is discarded and
// treated as no snapshot so the shopper gets an empty cart instead of
// an error page.
func (r *CartRepository) Load(ctx context.Context, sessionID string) (*model.CartSnapshot, error) {
	var data []byte
	query := `SELECT data FROM cart_snapshots WHERE session_id=$1`
	err := r.DB.QueryRow(ctx, query, sessionID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap model.CartSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		r.Log.Warn("discarding corrupt cart snapshot",
			zap.String("session", sessionID), zap.Error(err))
		return nil, nil
	}
	return &snap, nil
}

func (r *CartRepository) Delete(ctx context.Context, sessionID string) error {
	query := `DELETE FROM cart_snapshots WHERE session_id=$1`
	_, err := r.DB.Exec(ctx, query, sessionID)
	return err
}
